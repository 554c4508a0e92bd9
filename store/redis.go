package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kochabx/flowclient/credential"
)

var (
	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errors.New("store: invalid redis configuration")

	// ErrClientNotInitialized 客户端未初始化
	ErrClientNotInitialized = errors.New("store: redis client not initialized")
)

// RedisConfig Redis 存储配置
type RedisConfig struct {
	Addr        string
	Username    string
	Password    string
	DB          int
	KeyPrefix   string
	DialTimeout time.Duration
}

// Init 初始化配置，填充默认值
func (c *RedisConfig) Init() error {
	if c.Addr == "" {
		c.Addr = "127.0.0.1:6379"
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "flowclient:session:"
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 5 * time.Second
	}
	return nil
}

// Redis 基于 Redis 的会话存储，多个进程可以共享同一份会话
type Redis struct {
	Client *redis.Client
	config *RedisConfig
}

// NewRedis 创建 Redis 存储
func NewRedis(config *RedisConfig) (*Redis, error) {
	if config == nil {
		return nil, ErrInvalidConfig
	}

	r := &Redis{
		config: config,
	}

	// 初始化配置
	if err := r.config.Init(); err != nil {
		return nil, err
	}

	// 创建客户端
	r.Client = redis.NewClient(&redis.Options{
		Addr:        r.config.Addr,
		Username:    r.config.Username,
		Password:    r.config.Password,
		DB:          r.config.DB,
		DialTimeout: r.config.DialTimeout,
	})

	// 测试连接
	if err := r.Ping(context.Background()); err != nil {
		// 如果连接失败，确保清理资源
		_ = r.Close()
		return nil, err
	}

	return r, nil
}

// Save 保存令牌与用户信息
func (r *Redis) Save(ctx context.Context, token string, user *credential.Profile) error {
	if r.Client == nil {
		return ErrClientNotInitialized
	}

	rawUser, err := encodeUser(user)
	if err != nil {
		return err
	}

	return r.Client.MSet(ctx,
		r.key(keyToken), token,
		r.key(keyUser), rawUser,
	).Err()
}

// Load 读取令牌与用户信息
func (r *Redis) Load(ctx context.Context) (string, *credential.Profile, error) {
	if r.Client == nil {
		return "", nil, ErrClientNotInitialized
	}

	values, err := r.Client.MGet(ctx, r.key(keyToken), r.key(keyUser)).Result()
	if err != nil {
		return "", nil, err
	}

	token, _ := values[0].(string)
	rawUser, _ := values[1].(string)

	decoded, user, ok := decodeSession(token, rawUser)
	if !ok {
		// 损坏的会话主动清除
		_ = r.Clear(ctx)
		return "", nil, ErrNoSession
	}
	return decoded, user, nil
}

// Clear 清除已保存的会话
func (r *Redis) Clear(ctx context.Context) error {
	if r.Client == nil {
		return ErrClientNotInitialized
	}

	return r.Client.Del(ctx, r.key(keyToken), r.key(keyUser)).Err()
}

// Ping 测试 Redis 连接是否正常
func (r *Redis) Ping(ctx context.Context) error {
	if r.Client == nil {
		return ErrClientNotInitialized
	}

	_, err := r.Client.Ping(ctx).Result()
	return err
}

// Close 关闭 Redis 连接
func (r *Redis) Close() error {
	if r.Client == nil {
		return nil
	}

	err := r.Client.Close()
	r.Client = nil // 清空引用，避免重复关闭
	return err
}

// key 拼接带前缀的存储键
func (r *Redis) key(name string) string {
	return r.config.KeyPrefix + name
}

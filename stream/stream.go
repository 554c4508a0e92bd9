// Package stream 订阅工作流运行事件的 WebSocket 通道，
// 携带凭证建立连接，断开后按退避策略重连
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/kochabx/flowclient/log"
	"github.com/kochabx/flowclient/retry"
)

// 服务端推送的终态事件类型
const (
	EventRunCompleted = "run-completed"
	EventRunFailed    = "run-failed"
	EventRunCancelled = "run-cancelled"
)

// errStreamDone 运行到达终态，订阅正常结束
var errStreamDone = errors.New("stream: run reached a terminal state")

// RunEvent 一条运行事件
type RunEvent struct {
	RunID     string          `json:"run_id"`
	Type      string          `json:"type"`
	NodeID    string          `json:"node_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Terminal 判断事件是否为运行终态
func (e RunEvent) Terminal() bool {
	switch e.Type {
	case EventRunCompleted, EventRunFailed, EventRunCancelled:
		return true
	}
	return false
}

// Handler 事件回调，在读取协程上同步执行，不应阻塞
type Handler func(RunEvent)

// TokenSource 提供连接时附带的凭证
type TokenSource interface {
	Token() (string, bool)
}

// Config 流客户端配置
type Config struct {
	HandshakeTimeout  time.Duration
	PingInterval      time.Duration
	PongWait          time.Duration
	WriteTimeout      time.Duration
	MaxMessageSize    int64
	MaxReconnects     int
	ReconnectBase     time.Duration
	ReconnectMax      time.Duration
	EnableCompression bool
}

// Init 初始化配置，填充默认值
func (c *Config) Init() {
	if c.HandshakeTimeout == 0 {
		c.HandshakeTimeout = 10 * time.Second
	}
	if c.PingInterval == 0 {
		c.PingInterval = 30 * time.Second
	}
	if c.PongWait == 0 {
		c.PongWait = 60 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.MaxMessageSize == 0 {
		c.MaxMessageSize = 1 << 20
	}
	if c.MaxReconnects == 0 {
		c.MaxReconnects = 5
	}
	if c.ReconnectBase == 0 {
		c.ReconnectBase = time.Second
	}
	if c.ReconnectMax == 0 {
		c.ReconnectMax = 30 * time.Second
	}
}

// Client 运行事件流客户端
type Client struct {
	base   string
	config *Config
	creds  TokenSource
	policy *retry.Policy
	dialer *websocket.Dialer
}

// Option 流客户端配置选项函数类型
type Option func(*Client)

// WithCredentials 设置连接时附带的凭证来源
func WithCredentials(creds TokenSource) Option {
	return func(c *Client) {
		c.creds = creds
	}
}

// WithConfig 设置流客户端配置
func WithConfig(config *Config) Option {
	return func(c *Client) {
		if config != nil {
			c.config = config
		}
	}
}

// New 创建流客户端，base 为服务的 HTTP 基地址
func New(base string, opts ...Option) *Client {
	c := &Client{
		base:   base,
		config: &Config{},
	}

	// 应用选项
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	c.config.Init()
	// 抖动与基础间隔同量级，避免多个订阅同时重连
	c.policy = retry.NewPolicy(c.config.MaxReconnects, c.config.ReconnectBase, c.config.ReconnectMax, c.config.ReconnectBase)
	c.dialer = &websocket.Dialer{
		HandshakeTimeout:  c.config.HandshakeTimeout,
		EnableCompression: c.config.EnableCompression,
	}

	return c
}

// Subscribe 订阅一次运行的事件流，阻塞直到运行终态、上下文取消
// 或重连次数耗尽。断开后按指数退避重连。
func (c *Client) Subscribe(ctx context.Context, runID string, handler Handler) error {
	attempts := 0
	for {
		err := c.consume(ctx, runID, handler)
		switch {
		case errors.Is(err, errStreamDone):
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		case err == nil:
			// 服务端正常关闭
			return nil
		}

		if attempts >= c.config.MaxReconnects {
			return err
		}

		delay := c.policy.Backoff(attempts)
		attempts++
		log.Warnf("stream disconnected, reconnecting in %v: attempt=%d err=%v", delay, attempts, err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// consume 建立一条连接并消费事件直到出错或终态
func (c *Client) consume(ctx context.Context, runID string, handler Handler) error {
	header := http.Header{}
	if c.creds != nil {
		if token, ok := c.creds.Token(); ok {
			header.Set("Authorization", "Bearer "+token)
		}
	}

	endpoint := wsURL(c.base, "/workflow-runs/"+url.PathEscape(runID)+"/events")
	conn, resp, err := c.dialer.DialContext(ctx, endpoint, header)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
		}
		return err
	}
	defer conn.Close()

	conn.SetReadLimit(c.config.MaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	})

	g, ctx := errgroup.WithContext(ctx)

	// 心跳协程
	g.Go(func() error {
		ticker := time.NewTicker(c.config.PingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				deadline := time.Now().Add(c.config.WriteTimeout)
				if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
					return err
				}
			}
		}
	})

	// 读取协程
	g.Go(func() error {
		for {
			var event RunEvent
			if err := conn.ReadJSON(&event); err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					return nil
				}
				return err
			}

			handler(event)
			if event.Terminal() {
				return errStreamDone
			}
		}
	})

	// 上下文取消时关闭连接，解除读取阻塞
	g.Go(func() error {
		<-ctx.Done()
		return conn.Close()
	})

	return g.Wait()
}

// wsURL 把 HTTP 基地址转换为 WebSocket 地址
func wsURL(base, path string) string {
	u := strings.TrimRight(base, "/")
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + path
}

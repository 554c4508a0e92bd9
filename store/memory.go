package store

import (
	"context"
	"sync"

	"github.com/kochabx/flowclient/credential"
)

// Memory 进程内存储，进程退出即丢失，适合测试与一次性工具
type Memory struct {
	mu      sync.RWMutex
	values  map[string]string
	present bool
}

// NewMemory 创建内存存储
func NewMemory() *Memory {
	return &Memory{
		values: make(map[string]string, 2),
	}
}

// Save 保存令牌与用户信息
func (m *Memory) Save(ctx context.Context, token string, user *credential.Profile) error {
	rawUser, err := encodeUser(user)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[keyToken] = token
	m.values[keyUser] = rawUser
	m.present = true
	return nil
}

// Load 读取令牌与用户信息
func (m *Memory) Load(ctx context.Context) (string, *credential.Profile, error) {
	m.mu.RLock()
	present := m.present
	token := m.values[keyToken]
	rawUser := m.values[keyUser]
	m.mu.RUnlock()

	if !present {
		return "", nil, ErrNoSession
	}

	token, user, ok := decodeSession(token, rawUser)
	if !ok {
		// 损坏的会话主动清除
		_ = m.Clear(ctx)
		return "", nil, ErrNoSession
	}
	return token, user, nil
}

// Clear 清除已保存的会话
func (m *Memory) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, keyToken)
	delete(m.values, keyUser)
	m.present = false
	return nil
}

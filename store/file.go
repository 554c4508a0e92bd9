package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/kochabx/flowclient/credential"
)

// File 把会话保存为磁盘上的 JSON 文件，权限 0600
type File struct {
	mu   sync.Mutex
	path string
}

// fileSession 文件中的会话结构
type fileSession struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user,omitempty"`
}

// NewFile 创建文件存储
func NewFile(path string) *File {
	return &File{path: path}
}

// Save 保存令牌与用户信息
func (f *File) Save(ctx context.Context, token string, user *credential.Profile) error {
	rawUser, err := encodeUser(user)
	if err != nil {
		return err
	}

	session := fileSession{Token: token}
	if rawUser != "" {
		session.User = json.RawMessage(rawUser)
	}

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// 先写临时文件再改名，避免读到半截内容
	tmp := f.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

// Load 读取令牌与用户信息
func (f *File) Load(ctx context.Context) (string, *credential.Profile, error) {
	f.mu.Lock()
	data, err := os.ReadFile(f.path)
	f.mu.Unlock()

	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, ErrNoSession
		}
		return "", nil, err
	}

	var session fileSession
	if err := json.Unmarshal(data, &session); err != nil {
		_ = f.Clear(ctx)
		return "", nil, ErrNoSession
	}

	token, user, ok := decodeSession(session.Token, string(session.User))
	if !ok {
		_ = f.Clear(ctx)
		return "", nil, ErrNoSession
	}
	return token, user, nil
}

// Clear 清除已保存的会话
func (f *File) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

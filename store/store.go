// Package store 提供会话凭证的持久化后端
package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/kochabx/flowclient/credential"
)

// 存储键名，所有后端保持一致
const (
	keyToken = "token"
	keyUser  = "user"
)

var (
	// ErrNoSession 表示后端中没有可用的会话
	ErrNoSession = errors.New("store: no stored session")
)

// CredentialStore 凭证存储接口，Load 在会话缺失或已损坏时返回 ErrNoSession，
// 损坏的会话会被主动清除
type CredentialStore interface {
	// Save 保存令牌与用户信息
	Save(ctx context.Context, token string, user *credential.Profile) error
	// Load 读取令牌与用户信息
	Load(ctx context.Context) (string, *credential.Profile, error)
	// Clear 清除已保存的会话，会话不存在时也返回 nil
	Clear(ctx context.Context) error
}

// decodeSession 校验从后端取出的原始值。历史版本曾把字面量
// "undefined" / "null" 写入存储，这里一并视为缺失。
func decodeSession(token, rawUser string) (string, *credential.Profile, bool) {
	if !usable(token) {
		return "", nil, false
	}

	var user *credential.Profile
	if usable(rawUser) {
		user = &credential.Profile{}
		// 非对象的用户数据视为整个会话损坏
		if err := json.Unmarshal([]byte(rawUser), user); err != nil {
			return "", nil, false
		}
	}
	return token, user, true
}

// usable 判断存储值是否为有效内容
func usable(v string) bool {
	return v != "" && v != "undefined" && v != "null"
}

// encodeUser 序列化用户信息，nil 用户编码为空串
func encodeUser(user *credential.Profile) (string, error) {
	if user == nil {
		return "", nil
	}

	data, err := json.Marshal(user)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

package session

import (
	"github.com/kochabx/flowclient/credential"
	"github.com/kochabx/flowclient/metrics"
)

// Option 会话管理器配置选项函数类型
type Option func(*Manager)

// WithOracle 设置到期判定参数
func WithOracle(o *credential.Oracle) Option {
	return func(m *Manager) {
		if o != nil {
			m.oracle = o
		}
	}
}

// WithClock 设置时间源，测试用
func WithClock(c Clock) Option {
	return func(m *Manager) {
		if c != nil {
			m.clock = c
		}
	}
}

// WithMetrics 设置指标收集器
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) {
		if mt != nil {
			m.metrics = mt
		}
	}
}

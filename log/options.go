package log

import (
	"github.com/rs/zerolog"
)

// Option Logger 选项函数
type Option func(*Logger)

// WithLevel 设置日志级别
func WithLevel(level zerolog.Level) Option {
	return func(l *Logger) {
		l.Logger = l.Logger.Level(level)
	}
}

// WithCaller 设置调用栈信息
func WithCaller() Option {
	return func(l *Logger) {
		l.Logger = l.Logger.With().Caller().Logger()
	}
}

// WithMasking 设置凭证脱敏钩子
func WithMasking(hook *MaskHook) Option {
	return func(l *Logger) {
		l.maskHook = hook
	}
}

// Package session 管理凭证生命周期：持有当前凭证、到期前主动续期、
// 单飞刷新以及会话过期后的级联清理
package session

import "time"

// Clock 抽象时间源，测试中可以手动驱动定时器
type Clock interface {
	// Now 返回当前时间
	Now() time.Time
	// AfterFunc 延迟执行函数，返回可取消的定时器
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer 可取消的定时器
type Timer interface {
	// Stop 取消定时器，返回是否在触发前取消成功
	Stop() bool
}

// realClock 基于系统时间的默认实现
type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

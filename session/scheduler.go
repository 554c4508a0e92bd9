package session

import (
	"sync"
	"time"
)

// ProactiveScheduler 单定时器的主动续期调度器。
// 任何时刻最多一个定时器在运行，重新武装会先取消旧的。
type ProactiveScheduler struct {
	mu    sync.Mutex
	clock Clock
	timer Timer
	gen   uint64
}

// NewScheduler 创建调度器
func NewScheduler(clock Clock) *ProactiveScheduler {
	if clock == nil {
		clock = realClock{}
	}
	return &ProactiveScheduler{clock: clock}
}

// Arm 在 delay 之后执行 fn，取消之前武装的定时器
func (s *ProactiveScheduler) Arm(delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen

	s.timer = s.clock.AfterFunc(delay, func() {
		s.mu.Lock()
		// 定时器触发与 Disarm 之间存在竞争，代次不符说明已被取消
		stale := gen != s.gen
		if !stale {
			s.timer = nil
		}
		s.mu.Unlock()

		if stale {
			return
		}
		fn()
	})
}

// Disarm 取消当前定时器，没有定时器时为空操作
func (s *ProactiveScheduler) Disarm() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Armed 返回当前是否有定时器在运行
func (s *ProactiveScheduler) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

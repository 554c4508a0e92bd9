package session

import (
	"context"
	"sync"

	"github.com/kochabx/flowclient/credential"
	"github.com/kochabx/flowclient/errors"
)

// outcome 一次刷新的结果，成功时携带新凭证
type outcome struct {
	cred *credential.Credential
	err  error
}

// coordinator 单飞刷新协调器。同一时刻只允许一次刷新在途，
// 其余调用按先进先出排队等待同一个结果。
type coordinator struct {
	mu       sync.Mutex
	inflight bool
	waiters  []chan outcome
}

func newCoordinator() *coordinator {
	return &coordinator{}
}

// do 执行或等待一次刷新。第一个调用者成为执行者，其余调用者
// 排队等待执行者的结果。排队者的上下文只控制等待本身。
func (c *coordinator) do(ctx context.Context, run func() outcome) outcome {
	c.mu.Lock()
	if c.inflight {
		// 缓冲通道保证执行者派发结果时不会被放弃等待的排队者阻塞
		ch := make(chan outcome, 1)
		c.waiters = append(c.waiters, ch)
		c.mu.Unlock()

		select {
		case out := <-ch:
			return out
		case <-ctx.Done():
			return outcome{err: ctx.Err()}
		}
	}
	c.inflight = true
	c.mu.Unlock()

	// 无论执行结果如何，在途标记必须清除、队列必须派发
	out := outcome{err: errors.SessionExpired("credential refresh aborted")}
	defer func() {
		c.mu.Lock()
		waiters := c.waiters
		c.waiters = nil
		c.inflight = false
		c.mu.Unlock()

		for _, ch := range waiters {
			ch <- out
		}
	}()

	out = run()
	return out
}

// busy 返回是否有刷新在途
func (c *coordinator) busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight
}

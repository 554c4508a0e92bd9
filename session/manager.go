package session

import (
	"context"
	"sync"

	"github.com/kochabx/flowclient/credential"
	"github.com/kochabx/flowclient/errors"
	"github.com/kochabx/flowclient/events"
	"github.com/kochabx/flowclient/log"
	"github.com/kochabx/flowclient/metrics"
	"github.com/kochabx/flowclient/store"
)

// RefreshFunc 向服务端换取新令牌，返回新令牌与可选的用户信息
type RefreshFunc func(ctx context.Context) (string, *credential.Profile, error)

// Manager 会话管理器，持有当前凭证并负责其整个生命周期：
// 登录后保存、到期前主动续期、过期后级联清理。
// 刷新是单飞的，并发调用共享同一次刷新的结果。
type Manager struct {
	mu       sync.Mutex
	cred     *credential.Credential
	user     *credential.Profile
	epoch    uint64
	notified bool

	store   store.CredentialStore
	bus     *events.Bus
	refresh RefreshFunc
	oracle  *credential.Oracle
	clock   Clock
	metrics *metrics.Metrics
	sched   *ProactiveScheduler
	coord   *coordinator
}

// NewManager 创建会话管理器
func NewManager(st store.CredentialStore, bus *events.Bus, refresh RefreshFunc, opts ...Option) *Manager {
	m := &Manager{
		store:   st,
		bus:     bus,
		refresh: refresh,
		oracle:  credential.NewOracle(0, 0, 0),
		clock:   realClock{},
		metrics: metrics.NewMetrics("", false, nil),
		coord:   newCoordinator(),
	}

	// 应用选项
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	m.sched = NewScheduler(m.clock)
	return m
}

// Restore 从存储恢复会话。没有已保存的会话不算错误；
// 恢复出的凭证已过期时立即尝试一次刷新。
func (m *Manager) Restore(ctx context.Context) error {
	token, user, err := m.store.Load(ctx)
	if err != nil {
		if err == store.ErrNoSession {
			return nil
		}
		return err
	}

	cred := credential.Decode(token)
	m.mu.Lock()
	m.cred = cred
	m.user = user
	m.notified = false
	m.mu.Unlock()

	if m.oracle.IsExpiredAt(cred, m.clock.Now()) {
		log.Debug().Msg("restored credential already expired, refreshing")
		_, err := m.Refresh(ctx)
		return err
	}

	m.arm(cred)
	return nil
}

// SetSession 登录或注册成功后建立新会话
func (m *Manager) SetSession(ctx context.Context, token string, user *credential.Profile) error {
	cred := credential.Decode(token)

	if err := m.store.Save(ctx, token, user); err != nil {
		return err
	}

	m.mu.Lock()
	m.cred = cred
	m.user = user
	m.notified = false
	m.mu.Unlock()

	m.arm(cred)
	return nil
}

// Token 返回当前原始令牌，没有凭证时返回 false
func (m *Manager) Token() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cred == nil {
		return "", false
	}
	return m.cred.Raw(), true
}

// User 返回当前用户信息
func (m *Manager) User() *credential.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// Expired 返回当前凭证是否已过期，没有凭证时返回 false
func (m *Manager) Expired() bool {
	m.mu.Lock()
	cred := m.cred
	m.mu.Unlock()

	if cred == nil {
		return false
	}
	return m.oracle.IsExpiredAt(cred, m.clock.Now())
}

// State 返回当前会话状态
func (m *Manager) State() State {
	busy := m.coord.busy()

	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case busy:
		return StateRefreshing
	case m.cred != nil:
		return StateAuthenticated
	case m.notified:
		return StateExpired
	default:
		return StateAnonymous
	}
}

// Refresh 刷新凭证并返回新令牌。并发调用只触发一次实际刷新，
// 其余调用排队等待同一个结果。
func (m *Manager) Refresh(ctx context.Context) (string, error) {
	out := m.coord.do(ctx, func() outcome {
		return m.runRefresh(ctx)
	})
	if out.err != nil {
		return "", out.err
	}
	return out.cred.Raw(), nil
}

// runRefresh 实际执行一次刷新，只会在协调器的执行者路径上调用
func (m *Manager) runRefresh(ctx context.Context) outcome {
	m.mu.Lock()
	epoch := m.epoch
	m.mu.Unlock()

	log.Debug().Msg("refreshing credential")
	token, user, err := m.refresh(ctx)

	if err != nil {
		m.metrics.RecordRefresh(false)

		// 刷新期间发生了登出，登出优先：失败不再触发过期清理
		m.mu.Lock()
		stale := epoch != m.epoch
		m.mu.Unlock()
		if stale {
			return outcome{err: errors.SessionExpired("session closed during refresh")}
		}

		cause := errors.SessionExpired("credential refresh failed").WithCause(err)
		m.expire(cause)
		return outcome{err: cause}
	}

	cred := credential.Decode(token)

	// 过期判定、凭证安装、落盘与定时器武装必须在同一个临界区内完成，
	// 否则登出可能插在判定与安装之间，让已登出的会话复活
	m.mu.Lock()
	if epoch != m.epoch {
		m.mu.Unlock()
		m.metrics.RecordRefresh(false)
		return outcome{err: errors.SessionExpired("session closed during refresh")}
	}
	if user == nil {
		user = m.user
	}
	m.cred = cred
	m.user = user
	if err := m.store.Save(ctx, token, user); err != nil {
		log.Warnf("persist refreshed credential: %v", err)
	}
	m.arm(cred)
	m.mu.Unlock()

	m.metrics.RecordRefresh(true)
	log.Debugf("credential refreshed, expires at %v", cred.ExpiresAt())
	return outcome{cred: cred}
}

// Logout 主动登出，清理是幂等的。正在进行的刷新会被作废，
// 其结果被丢弃且不会触发会话过期事件。
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.cred = nil
	m.user = nil
	m.notified = false
	m.epoch++
	m.mu.Unlock()

	m.sched.Disarm()
	return m.store.Clear(ctx)
}

// expire 会话过期的级联清理：清存储、撤定时器、丢凭证。
// 过期事件每个会话只发布一次。
func (m *Manager) expire(cause error) {
	m.mu.Lock()
	already := m.notified
	m.notified = true
	m.cred = nil
	m.user = nil
	m.epoch++
	m.mu.Unlock()

	m.sched.Disarm()
	if err := m.store.Clear(context.Background()); err != nil {
		log.Warnf("clear stored session: %v", err)
	}

	if !already {
		m.metrics.RecordSessionExpired()
		m.bus.Publish(events.Event{Topic: events.TopicSessionExpired, Err: cause})
	}
}

// arm 按当前凭证重新武装主动续期定时器
func (m *Manager) arm(cred *credential.Credential) {
	delay := m.oracle.RenewalDelayAt(cred, m.clock.Now())
	m.sched.Arm(delay, func() {
		// 后台续期，失败会走过期清理流程
		if _, err := m.Refresh(context.Background()); err != nil {
			log.Warnf("proactive renewal failed: %v", err)
		}
	})
}

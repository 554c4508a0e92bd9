package session

// State 会话状态
type State int

const (
	// StateAnonymous 没有凭证
	StateAnonymous State = iota
	// StateAuthenticated 持有凭证
	StateAuthenticated
	// StateRefreshing 刷新进行中
	StateRefreshing
	// StateExpired 会话已过期且无法续期
	StateExpired
)

// String 返回状态名称
func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	case StateRefreshing:
		return "refreshing"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

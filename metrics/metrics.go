// Package metrics 暴露请求层与会话层的 Prometheus 指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics Prometheus 指标收集器
type Metrics struct {
	enabled bool

	// 请求指标
	RequestTotal    *prometheus.CounterVec   // 请求总数（按方法与结果：success/failed）
	RequestDuration *prometheus.HistogramVec // 请求耗时

	// 重试与重放指标
	RetryTotal  *prometheus.CounterVec // 重试总数
	ReplayTotal prometheus.Counter     // 401 后重放次数

	// 会话指标
	RefreshTotal   *prometheus.CounterVec // 刷新总数（按结果：success/failed）
	SessionExpired prometheus.Counter     // 会话过期次数
}

// NewMetrics 创建指标收集器，registerer 为 nil 时使用默认注册表
func NewMetrics(namespace string, enabled bool, registerer prometheus.Registerer) *Metrics {
	if !enabled {
		return &Metrics{enabled: false}
	}
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	m := &Metrics{
		enabled: true,

		RequestTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "request_total",
				Help:      "Total number of requests",
			},
			[]string{"method", "result"},
		),

		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
			},
			[]string{"method"},
		),

		RetryTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "retry_total",
				Help:      "Total number of request retries",
			},
			[]string{"method"},
		),

		ReplayTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "replay_total",
				Help:      "Total number of replays after credential refresh",
			},
		),

		RefreshTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "refresh_total",
				Help:      "Total number of credential refresh episodes",
			},
			[]string{"result"},
		),

		SessionExpired: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "session_expired_total",
				Help:      "Total number of expired sessions",
			},
		),
	}

	return m
}

// RecordRequest 记录一次请求
func (m *Metrics) RecordRequest(method string, success bool, duration float64) {
	if !m.enabled {
		return
	}
	// 使用静态字符串避免分配
	result := "failed"
	if success {
		result = "success"
	}
	m.RequestTotal.WithLabelValues(method, result).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(duration)
}

// RecordRetry 记录一次重试
func (m *Metrics) RecordRetry(method string) {
	if !m.enabled {
		return
	}
	m.RetryTotal.WithLabelValues(method).Inc()
}

// RecordReplay 记录一次刷新后重放
func (m *Metrics) RecordReplay() {
	if !m.enabled {
		return
	}
	m.ReplayTotal.Inc()
}

// RecordRefresh 记录一次凭证刷新
func (m *Metrics) RecordRefresh(success bool) {
	if !m.enabled {
		return
	}
	result := "failed"
	if success {
		result = "success"
	}
	m.RefreshTotal.WithLabelValues(result).Inc()
}

// RecordSessionExpired 记录一次会话过期
func (m *Metrics) RecordSessionExpired() {
	if !m.enabled {
		return
	}
	m.SessionExpired.Inc()
}

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("flowclient", true, reg)

	m.RecordRequest("GET", true, 0.05)
	m.RecordRequest("GET", true, 0.1)
	m.RecordRequest("POST", false, 1.2)

	if got := testutil.ToFloat64(m.RequestTotal.WithLabelValues("GET", "success")); got != 2 {
		t.Errorf("expected 2 successful GETs, got %v", got)
	}
	if got := testutil.ToFloat64(m.RequestTotal.WithLabelValues("POST", "failed")); got != 1 {
		t.Errorf("expected 1 failed POST, got %v", got)
	}
}

func TestRecordRefresh(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("flowclient", true, reg)

	m.RecordRefresh(true)
	m.RecordRefresh(false)
	m.RecordRefresh(false)
	m.RecordSessionExpired()

	if got := testutil.ToFloat64(m.RefreshTotal.WithLabelValues("success")); got != 1 {
		t.Errorf("expected 1 successful refresh, got %v", got)
	}
	if got := testutil.ToFloat64(m.RefreshTotal.WithLabelValues("failed")); got != 2 {
		t.Errorf("expected 2 failed refreshes, got %v", got)
	}
	if got := testutil.ToFloat64(m.SessionExpired); got != 1 {
		t.Errorf("expected 1 expired session, got %v", got)
	}
}

func TestDisabledMetricsAreNoOps(t *testing.T) {
	m := NewMetrics("flowclient", false, nil)

	// 禁用时所有记录方法都应安全返回
	m.RecordRequest("GET", true, 0.05)
	m.RecordRetry("GET")
	m.RecordReplay()
	m.RecordRefresh(true)
	m.RecordSessionExpired()
}

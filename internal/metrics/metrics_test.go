package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := vec.WithLabelValues(labels...).Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	return metric.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := gauge.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	return metric.GetGauge().GetValue()
}

func TestMarketplaceMetrics_Begin(t *testing.T) {
	m := NewMarketplaceMetricsWithRegisterer(prometheus.NewRegistry())

	done := m.Begin("create_order")
	if got := gaugeValue(t, m.inFlight); got != 1 {
		t.Fatalf("expected 1 in-flight operation, got %v", got)
	}
	done("", false)
	m.Begin("create_order")("InsufficientFunds", true)
	m.Begin("create_order")("Internal", false)

	if got := gaugeValue(t, m.inFlight); got != 0 {
		t.Fatalf("expected 0 in-flight operations, got %v", got)
	}
	if got := counterValue(t, m.operations, "create_order", ResultOK, ""); got != 1 {
		t.Errorf("expected 1 ok operation, got %v", got)
	}
	if got := counterValue(t, m.operations, "create_order", ResultRejected, "InsufficientFunds"); got != 1 {
		t.Errorf("expected 1 rejected operation, got %v", got)
	}
	if got := counterValue(t, m.operations, "create_order", ResultError, "Internal"); got != 1 {
		t.Errorf("expected 1 failed operation, got %v", got)
	}
}

func TestMarketplaceMetrics_Counters(t *testing.T) {
	m := NewMarketplaceMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordTransition("pending", "shipped")
	m.RecordTransition("pending", "shipped")
	m.RecordTimelineEvent("OrderShipped")
	m.RecordOutboxEvent("order.shipped")

	if got := counterValue(t, m.transitions, "pending", "shipped"); got != 2 {
		t.Errorf("expected 2 transitions, got %v", got)
	}
	if got := counterValue(t, m.timelineEvents, "OrderShipped"); got != 1 {
		t.Errorf("expected 1 timeline event, got %v", got)
	}
	if got := counterValue(t, m.outboxEvents, "order.shipped"); got != 1 {
		t.Errorf("expected 1 outbox event, got %v", got)
	}
}

func TestMarketplaceMetrics_NilReceiver(t *testing.T) {
	var m *MarketplaceMetrics

	m.Begin("register")("", false)
	m.RecordTransition("pending", "cancelled")
	m.RecordTimelineEvent("OrderCancelled")
	m.RecordOutboxEvent("order.cancelled")
}

func TestRegister_ReusesExistingCollector(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := NewMarketplaceMetricsWithRegisterer(reg)
	second := NewMarketplaceMetricsWithRegisterer(reg)

	first.RecordTransition("shipped", "received")
	if got := counterValue(t, second.transitions, "shipped", "received"); got != 1 {
		t.Fatalf("expected shared collector, got %v", got)
	}
}

func TestRegister_PanicsOnTypeMismatch(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_outbox_pending_records",
		Help: "conflicting type",
	}))

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on conflicting collector type")
		}
	}()
	NewOutboxMetricsWithRegisterer(reg)
}

func TestOutboxMetrics(t *testing.T) {
	m := NewOutboxMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordPublish("sent")
	m.RecordPublish("sent")
	if got := counterValue(t, m.publishAttempts, "sent"); got != 2 {
		t.Errorf("expected 2 sent attempts, got %v", got)
	}

	now := time.Now()
	m.SetBacklog(3, now.Add(-10*time.Second), now)
	if got := gaugeValue(t, m.pendingRecords); got != 3 {
		t.Errorf("expected 3 pending records, got %v", got)
	}
	if got := gaugeValue(t, m.oldestPending); got != 10 {
		t.Errorf("expected age 10s, got %v", got)
	}

	m.SetBacklog(0, time.Time{}, now)
	if got := gaugeValue(t, m.oldestPending); got != 0 {
		t.Errorf("expected zero age for empty backlog, got %v", got)
	}
}

func TestOutboxMetrics_Cleanup(t *testing.T) {
	m := NewOutboxMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordCleanup("ok", 5)
	m.RecordCleanup("ok", 2)
	m.RecordCleanup("error", 7)

	if got := counterValue(t, m.cleanupRuns, "ok"); got != 2 {
		t.Errorf("expected 2 successful runs, got %v", got)
	}
	if got := counterValue(t, m.cleanupRuns, "error"); got != 1 {
		t.Errorf("expected 1 failed run, got %v", got)
	}
	if got := counterValue(t, m.cleanupDeleted); got != 7 {
		t.Errorf("expected 7 deleted records, got %v", got)
	}
	if got := gaugeValue(t, m.lastCleanup); got != 2 {
		t.Errorf("expected last cleanup 2, got %v", got)
	}
}

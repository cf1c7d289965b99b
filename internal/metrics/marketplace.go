package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Результаты операций для метки result.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// MarketplaceMetrics содержит метрики операций маркетплейса.
type MarketplaceMetrics struct {
	// Счётчики операций по результату и виду ошибки
	operations *prometheus.CounterVec
	// Время выполнения операций
	duration *prometheus.HistogramVec
	// Переходы статусов заказа
	transitions *prometheus.CounterVec
	// Записанные события timeline и outbox
	timelineEvents *prometheus.CounterVec
	outboxEvents   *prometheus.CounterVec

	inFlight prometheus.Gauge
}

// NewMarketplaceMetrics создаёт метрики в prometheus.DefaultRegisterer.
func NewMarketplaceMetrics() *MarketplaceMetrics {
	return NewMarketplaceMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewMarketplaceMetricsWithRegisterer создаёт метрики в указанном registerer.
func NewMarketplaceMetricsWithRegisterer(registerer prometheus.Registerer) *MarketplaceMetrics {
	return &MarketplaceMetrics{
		operations: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "marketplace_operations_total",
			Help: "Total number of marketplace operations grouped by result and error kind",
		}, []string{"operation", "result", "kind"}),
		duration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "marketplace_operation_duration_seconds",
			Help:    "Duration of marketplace operations in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}, []string{"operation"}),
		transitions: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "marketplace_order_transitions_total",
			Help: "Total number of order status transitions",
		}, []string{"from", "to"}),
		timelineEvents: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "marketplace_timeline_events_total",
			Help: "Total number of order timeline events recorded",
		}, []string{"type"}),
		outboxEvents: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "marketplace_outbox_events_total",
			Help: "Total number of domain events enqueued to outbox",
		}, []string{"event_type"}),
		inFlight: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "marketplace_operations_in_flight",
			Help: "Number of marketplace operations currently executing",
		}),
	}
}

// Begin отмечает начало операции и возвращает функцию завершения.
// kind — вид ошибки ("" для успеха); business сообщает, что ошибка является
// отказом по бизнес-правилу, а не сбоем.
func (m *MarketplaceMetrics) Begin(operation string) func(kind string, business bool) {
	if m == nil {
		return func(string, bool) {}
	}
	start := time.Now()
	m.inFlight.Inc()
	return func(kind string, business bool) {
		m.inFlight.Dec()
		m.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

		result := ResultOK
		switch {
		case kind == "":
		case business:
			result = ResultRejected
		default:
			result = ResultError
		}
		m.operations.WithLabelValues(operation, result, kind).Inc()
	}
}

// RecordTransition увеличивает счётчик перехода статуса заказа.
func (m *MarketplaceMetrics) RecordTransition(from, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from, to).Inc()
}

// RecordTimelineEvent увеличивает счётчик событий timeline.
func (m *MarketplaceMetrics) RecordTimelineEvent(eventType string) {
	if m == nil {
		return
	}
	m.timelineEvents.WithLabelValues(eventType).Inc()
}

// RecordOutboxEvent увеличивает счётчик событий outbox.
func (m *MarketplaceMetrics) RecordOutboxEvent(eventType string) {
	if m == nil {
		return
	}
	m.outboxEvents.WithLabelValues(eventType).Inc()
}

// OperationCounter возвращает счётчик операции с заданными метками.
func (m *MarketplaceMetrics) OperationCounter(operation, result, kind string) prometheus.Counter {
	return m.operations.WithLabelValues(operation, result, kind)
}

// TransitionCounter возвращает счётчик перехода статуса заказа.
func (m *MarketplaceMetrics) TransitionCounter(from, to string) prometheus.Counter {
	return m.transitions.WithLabelValues(from, to)
}

// Package marketplace — прикладной фасад маркетплейса: каждая публичная
// операция выполняется в одной транзакции хранилища вместе с записью timeline
// и доменных событий в outbox.
package marketplace

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vladislavdragonenkov/marketplace/internal/caller"
	"github.com/vladislavdragonenkov/marketplace/internal/domain"
	"github.com/vladislavdragonenkov/marketplace/internal/metrics"
	"github.com/vladislavdragonenkov/marketplace/internal/service/catalog"
	"github.com/vladislavdragonenkov/marketplace/internal/service/identity"
	"github.com/vladislavdragonenkov/marketplace/internal/service/orders"
)

const tracerName = "github.com/vladislavdragonenkov/marketplace/internal/service/marketplace"

// Option настраивает Service.
type Option func(*Service)

// WithLogger задаёт logger сервиса.
func WithLogger(logger *log.Entry) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics задаёт метрики; nil отключает их.
func WithMetrics(m *metrics.MarketplaceMetrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer подменяет tracer (по умолчанию глобальный провайдер otel).
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithClock подменяет источник времени во всех компонентах.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithStrictCancelRequests отклоняет повторный запрос отмены от той же стороны.
func WithStrictCancelRequests(strict bool) Option {
	return func(s *Service) {
		s.strictCancel = strict
	}
}

// Service реализует операции маркетплейса поверх domain.Store.
type Service struct {
	store    domain.Store
	identity *identity.Registry
	catalog  *catalog.Catalog
	orders   *orders.Engine

	logger       *log.Entry
	metrics      *metrics.MarketplaceMetrics
	tracer       trace.Tracer
	now          func() time.Time
	strictCancel bool
}

// New собирает сервис и его компоненты.
func New(store domain.Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: log.WithField("component", "marketplace"),
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.identity = identity.NewRegistry(s.now)
	s.catalog = catalog.New(s.identity, s.now)
	s.orders = orders.NewEngine(s.identity, s.catalog,
		orders.WithClock(s.now),
		orders.WithStrictCancelRequests(s.strictCancel),
	)
	return s
}

// Ping проверяет доступность хранилища.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// effects накапливает побочные эффекты операции, которые учитываются в
// метриках только после фиксации транзакции.
type effects struct {
	transitions [][2]domain.OrderStatus
	timeline    []string
	outbox      []string
	fields      log.Fields
}

func (e *effects) field(key string, value any) {
	if e.fields == nil {
		e.fields = log.Fields{}
	}
	e.fields[key] = value
}

type txMode int

const (
	modeRead txMode = iota
	modeWrite
)

// run выполняет операцию op: проверяет вызывающую сторону (если needCaller),
// открывает транзакцию, пишет метрики, span и журнал.
func (s *Service) run(
	ctx context.Context,
	op string,
	mode txMode,
	needCaller bool,
	fn func(tx domain.Tx, callerID string, fx *effects) error,
) (err error) {
	ctx, span := s.tracer.Start(ctx, "marketplace."+op, trace.WithAttributes(
		attribute.String("marketplace.operation", op),
	))
	defer span.End()

	finish := s.metrics.Begin(op)
	fx := &effects{}
	callerID, _ := caller.FromContext(ctx)

	defer func() {
		kind := domain.Kind(err)
		business := domain.IsBusiness(err)
		finish(kind, business)

		entry := s.logger.WithFields(log.Fields{
			"operation": op,
			"caller":    callerID,
		}).WithFields(fx.fields)

		switch {
		case err == nil:
			s.recordEffects(fx)
			span.SetStatus(codes.Ok, "")
			if mode == modeWrite {
				entry.Info("operation applied")
			} else {
				entry.Debug("read completed")
			}
		case business:
			span.SetAttributes(attribute.String("marketplace.error_kind", kind))
			span.SetStatus(codes.Error, kind)
			entry.WithError(err).WithField("kind", kind).Warn("operation rejected")
		default:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			entry.WithError(err).Error("operation failed")
		}
	}()

	if needCaller {
		if _, err := caller.Require(ctx); err != nil {
			return err
		}
		span.SetAttributes(attribute.String("marketplace.caller", callerID))
	}

	body := func(tx domain.Tx) error {
		return fn(tx, callerID, fx)
	}
	if mode == modeWrite {
		return s.store.Update(ctx, body)
	}
	return s.store.View(ctx, body)
}

func (s *Service) recordEffects(fx *effects) {
	for _, t := range fx.transitions {
		s.metrics.RecordTransition(string(t[0]), string(t[1]))
	}
	for _, eventType := range fx.timeline {
		s.metrics.RecordTimelineEvent(eventType)
	}
	for _, eventType := range fx.outbox {
		s.metrics.RecordOutboxEvent(eventType)
	}
}

// enqueue сохраняет доменное событие в outbox текущей транзакции.
func (s *Service) enqueue(tx domain.Tx, fx *effects, msg domain.OutboxMessage, buildErr error) error {
	if buildErr != nil {
		return buildErr
	}
	if err := tx.Enqueue(msg); err != nil {
		return err
	}
	fx.outbox = append(fx.outbox, msg.EventType)
	return nil
}

// appendTimeline записывает событие жизненного цикла заказа.
func (s *Service) appendTimeline(tx domain.Tx, fx *effects, order domain.Order, eventType, actor, reason string) error {
	err := tx.AppendTimeline(domain.TimelineEvent{
		OrderID:  order.ID,
		Type:     eventType,
		Actor:    actor,
		Reason:   reason,
		Occurred: order.UpdatedAt,
	})
	if err != nil {
		return err
	}
	fx.timeline = append(fx.timeline, eventType)
	return nil
}

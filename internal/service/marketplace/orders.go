package marketplace

import (
	"context"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
	"github.com/vladislavdragonenkov/marketplace/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/marketplace/internal/service/orders"
)

// CreateOrderInput — корзина покупателя и доступные средства.
type CreateOrderInput struct {
	Items          []domain.LineItem
	AvailableFunds int64
}

// CancelResult — результат запроса отмены.
type CancelResult struct {
	Order   domain.Order
	Outcome orders.CancelOutcome
}

// OrderDetails — заказ вместе с историей событий.
type OrderDetails struct {
	Order    domain.Order
	Timeline []domain.TimelineEvent
}

// CreateOrder оформляет заказ вызывающего покупателя.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (domain.Order, error) {
	var order domain.Order
	err := s.run(ctx, "create_order", modeWrite, true, func(tx domain.Tx, callerID string, fx *effects) error {
		fx.field("items", len(in.Items))

		var err error
		order, err = s.orders.CreateOrder(tx, callerID, in.Items, in.AvailableFunds)
		if err != nil {
			return err
		}
		fx.field("order_id", order.ID)
		fx.field("seller_id", order.SellerID)
		fx.field("amount_minor", order.AmountMinor)

		if err := s.appendTimeline(tx, fx, order, domain.TimelineOrderCreated, callerID, ""); err != nil {
			return err
		}
		msg, err := kafka.NewOrderMessage(kafka.EventOrderCreated, order, callerID)
		return s.enqueue(tx, fx, msg, err)
	})
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// MarkShipped отмечает отправку заказа продавцом.
func (s *Service) MarkShipped(ctx context.Context, orderID int64) (domain.Order, error) {
	return s.transition(ctx, "mark_shipped", orderID, domain.TimelineOrderShipped, kafka.EventOrderShipped, s.orders.MarkShipped)
}

// MarkReceived подтверждает получение заказа покупателем.
func (s *Service) MarkReceived(ctx context.Context, orderID int64) (domain.Order, error) {
	return s.transition(ctx, "mark_received", orderID, domain.TimelineOrderReceived, kafka.EventOrderReceived, s.orders.MarkReceived)
}

func (s *Service) transition(
	ctx context.Context,
	op string,
	orderID int64,
	timelineType string,
	eventType kafka.EventType,
	apply func(tx domain.Tx, caller string, orderID int64) (domain.Order, error),
) (domain.Order, error) {
	var order domain.Order
	err := s.run(ctx, op, modeWrite, true, func(tx domain.Tx, callerID string, fx *effects) error {
		fx.field("order_id", orderID)

		before, err := tx.Order(orderID)
		if err != nil {
			return err
		}
		order, err = apply(tx, callerID, orderID)
		if err != nil {
			return err
		}
		fx.transitions = append(fx.transitions, [2]domain.OrderStatus{before.Status, order.Status})
		fx.field("status", order.Status)

		if err := s.appendTimeline(tx, fx, order, timelineType, callerID, ""); err != nil {
			return err
		}
		msg, err := kafka.NewOrderMessage(eventType, order, callerID)
		return s.enqueue(tx, fx, msg, err)
	})
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// RequestCancel регистрирует запрос отмены вызывающей стороны. Заказ
// отменяется, когда запросы поступили от обеих сторон.
func (s *Service) RequestCancel(ctx context.Context, orderID int64) (CancelResult, error) {
	var result CancelResult
	err := s.run(ctx, "request_cancel", modeWrite, true, func(tx domain.Tx, callerID string, fx *effects) error {
		fx.field("order_id", orderID)

		before, err := tx.Order(orderID)
		if err != nil {
			return err
		}
		order, outcome, err := s.orders.RequestCancel(tx, callerID, orderID)
		if err != nil {
			return err
		}
		result = CancelResult{Order: order, Outcome: outcome}
		fx.field("outcome", outcome)

		switch outcome {
		case orders.CancelRecorded:
			if err := s.appendTimeline(tx, fx, order, domain.TimelineCancelRequested, callerID, ""); err != nil {
				return err
			}
			msg, err := kafka.NewOrderMessage(kafka.EventOrderCancelRequested, order, callerID)
			return s.enqueue(tx, fx, msg, err)
		case orders.CancelCompleted:
			fx.transitions = append(fx.transitions, [2]domain.OrderStatus{before.Status, order.Status})
			if err := s.appendTimeline(tx, fx, order, domain.TimelineOrderCancelled, callerID, "mutual consent"); err != nil {
				return err
			}
			msg, err := kafka.NewOrderMessage(kafka.EventOrderCancelled, order, callerID)
			return s.enqueue(tx, fx, msg, err)
		default:
			return nil
		}
	})
	if err != nil {
		return CancelResult{}, err
	}
	return result, nil
}

// Order возвращает заказ и его timeline участнику сделки.
func (s *Service) Order(ctx context.Context, orderID int64) (OrderDetails, error) {
	var details OrderDetails
	err := s.run(ctx, "get_order", modeRead, true, func(tx domain.Tx, callerID string, _ *effects) error {
		order, err := s.orders.Order(tx, callerID, orderID)
		if err != nil {
			return err
		}
		timeline, err := tx.Timeline(orderID)
		if err != nil {
			return err
		}
		details = OrderDetails{Order: order, Timeline: timeline}
		return nil
	})
	return details, err
}

// MyOrders возвращает заказы, где вызывающая сторона покупатель или продавец.
func (s *Service) MyOrders(ctx context.Context) ([]domain.Order, error) {
	var result []domain.Order
	err := s.run(ctx, "orders_for", modeRead, true, func(tx domain.Tx, callerID string, _ *effects) error {
		var err error
		result, err = s.orders.OrdersFor(tx, callerID)
		return err
	})
	return result, err
}

// ListOrders возвращает полную историю заказов (для аналитики).
func (s *Service) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var result []domain.Order
	err := s.run(ctx, "list_orders", modeRead, true, func(tx domain.Tx, _ string, fx *effects) error {
		var err error
		result, err = s.orders.ListOrders(tx)
		fx.field("count", len(result))
		return err
	})
	return result, err
}

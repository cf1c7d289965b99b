package domain

import "time"

// Типы событий жизненного цикла заказа.
const (
	TimelineOrderCreated    = "OrderCreated"
	TimelineOrderShipped    = "OrderShipped"
	TimelineOrderReceived   = "OrderReceived"
	TimelineCancelRequested = "CancelRequested"
	TimelineOrderCancelled  = "OrderCancelled"
)

// TimelineEvent описывает событие в жизненном цикле заказа.
type TimelineEvent struct {
	OrderID  int64
	Type     string
	Actor    string
	Reason   string
	Occurred time.Time
}

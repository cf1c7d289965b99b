package kafka

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// EventType определяет тип доменного события.
type EventType string

const (
	EventUserRegistered EventType = "user.registered"
	EventUserRoleAdded  EventType = "user.role_added"

	EventProductCreated EventType = "product.created"
	EventListingCreated EventType = "listing.created"

	EventOrderCreated         EventType = "order.created"
	EventOrderShipped         EventType = "order.shipped"
	EventOrderReceived        EventType = "order.received"
	EventOrderCancelRequested EventType = "order.cancel_requested"
	EventOrderCancelled       EventType = "order.cancelled"
)

// Topics для Kafka.
const (
	TopicMarketplaceEvents = "marketplace.events"
	TopicDeadLetterQueue   = "marketplace.dlq"
)

// Заголовки сообщений.
const (
	HeaderEventType     = "x-event-type"
	HeaderAggregateType = "x-aggregate-type"
)

// Типы агрегатов в outbox.
const (
	AggregateUser    = "user"
	AggregateProduct = "product"
	AggregateListing = "listing"
	AggregateOrder   = "order"
)

// UserEvent — событие об учётной записи.
type UserEvent struct {
	UserID     string    `json:"user_id"`
	Role       string    `json:"role"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ProductEvent — событие о товаре.
type ProductEvent struct {
	ProductID  int64     `json:"product_id"`
	SellerID   string    `json:"seller_id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ListingEvent — событие о публикации.
type ListingEvent struct {
	ListingID  int64     `json:"listing_id"`
	ProductID  int64     `json:"product_id"`
	SellerID   string    `json:"seller_id"`
	PriceMinor int64     `json:"price_minor"`
	Stock      int32     `json:"stock"`
	OccurredAt time.Time `json:"occurred_at"`
}

// OrderLineEvent — позиция заказа в событии.
type OrderLineEvent struct {
	ListingID  int64 `json:"listing_id"`
	ProductID  int64 `json:"product_id"`
	Qty        int32 `json:"qty"`
	PriceMinor int64 `json:"price_minor"`
}

// OrderEvent — событие жизненного цикла заказа.
type OrderEvent struct {
	OrderID           int64            `json:"order_id"`
	BuyerID           string           `json:"buyer_id"`
	SellerID          string           `json:"seller_id"`
	Status            string           `json:"status"`
	Actor             string           `json:"actor"`
	CancelRequestedBy string           `json:"cancel_requested_by,omitempty"`
	AmountMinor       int64            `json:"amount_minor"`
	Lines             []OrderLineEvent `json:"lines,omitempty"`
	OccurredAt        time.Time        `json:"occurred_at"`
}

// NewUserMessage собирает outbox-сообщение о пользователе.
func NewUserMessage(eventType EventType, user domain.User, at time.Time) (domain.OutboxMessage, error) {
	return newMessage(eventType, AggregateUser, user.ID, UserEvent{
		UserID:     user.ID,
		Role:       string(user.Role),
		OccurredAt: at,
	})
}

// NewProductMessage собирает outbox-сообщение о товаре.
func NewProductMessage(product domain.Product, sellerID string) (domain.OutboxMessage, error) {
	return newMessage(EventProductCreated, AggregateProduct, strconv.FormatInt(product.ID, 10), ProductEvent{
		ProductID:  product.ID,
		SellerID:   sellerID,
		Name:       product.Name,
		Category:   string(product.Category),
		OccurredAt: product.CreatedAt,
	})
}

// NewListingMessage собирает outbox-сообщение о публикации.
func NewListingMessage(listing domain.Listing) (domain.OutboxMessage, error) {
	return newMessage(EventListingCreated, AggregateListing, strconv.FormatInt(listing.ID, 10), ListingEvent{
		ListingID:  listing.ID,
		ProductID:  listing.ProductID,
		SellerID:   listing.SellerID,
		PriceMinor: listing.PriceMinor,
		Stock:      listing.Stock,
		OccurredAt: listing.CreatedAt,
	})
}

// NewOrderMessage собирает outbox-сообщение о заказе. Позиции включаются
// только в order.created.
func NewOrderMessage(eventType EventType, order domain.Order, actor string) (domain.OutboxMessage, error) {
	event := OrderEvent{
		OrderID:           order.ID,
		BuyerID:           order.BuyerID,
		SellerID:          order.SellerID,
		Status:            string(order.Status),
		Actor:             actor,
		CancelRequestedBy: order.CancelRequestedBy,
		AmountMinor:       order.AmountMinor,
		OccurredAt:        order.UpdatedAt,
	}
	if eventType == EventOrderCreated {
		event.Lines = make([]OrderLineEvent, 0, len(order.Lines))
		for _, line := range order.Lines {
			event.Lines = append(event.Lines, OrderLineEvent(line))
		}
	}
	return newMessage(eventType, AggregateOrder, strconv.FormatInt(order.ID, 10), event)
}

func newMessage(eventType EventType, aggregateType, aggregateID string, payload any) (domain.OutboxMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return domain.OutboxMessage{}, fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	return domain.OutboxMessage{
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     string(eventType),
		Payload:       data,
	}, nil
}

package domain

import (
	"math"
	"time"
)

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан, остаток списан, продавец ещё не отправил товар.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusShipped — продавец отметил отправку.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusReceived — покупатель подтвердил получение (терминальный статус).
	OrderStatusReceived OrderStatus = "received"
	// OrderStatusCancelled — обе стороны согласились на отмену (терминальный статус).
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid проверяет, что статус относится к поддерживаемым значениям.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusReceived, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// orderTransitions — допустимые переходы статусов. Статусы без записи терминальные.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped: {OrderStatusReceived, OrderStatusCancelled},
}

// CanTransition сообщает, разрешён ли переход из s в next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// LineItem — запрошенная позиция заказа: публикация и количество.
type LineItem struct {
	ListingID int64
	Qty       int32
}

// Validate проверяет количество позиции.
func (li LineItem) Validate() error {
	if li.Qty <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// OrderLine — позиция созданного заказа, зафиксированная на момент покупки.
type OrderLine struct {
	ListingID  int64
	ProductID  int64
	Qty        int32
	PriceMinor int64
}

// Subtotal возвращает qty * price с проверкой переполнения.
func (l OrderLine) Subtotal() (int64, error) {
	if l.Qty < 0 || l.PriceMinor < 0 {
		return 0, ErrOverflow
	}
	if l.Qty != 0 && l.PriceMinor > math.MaxInt64/int64(l.Qty) {
		return 0, ErrOverflow
	}
	return l.PriceMinor * int64(l.Qty), nil
}

// Order агрегирует состояние заказа. Продавец фиксируется при создании,
// сумма вычисляется один раз и дальше не меняется.
type Order struct {
	ID       int64
	Lines    []OrderLine
	Status   OrderStatus
	BuyerID  string
	SellerID string
	// CancelRequestedBy — сторона, первой запросившая отмену; пусто, если запроса не было.
	CancelRequestedBy string
	AmountMinor       int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Clone возвращает копию заказа без общих срезов.
func (o Order) Clone() Order {
	o.Lines = append([]OrderLine(nil), o.Lines...)
	return o
}

// IsParty сообщает, участвует ли identity в заказе.
func (o Order) IsParty(identity string) bool {
	return identity != "" && (identity == o.BuyerID || identity == o.SellerID)
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.BuyerID == "" || o.SellerID == "" {
		errs = append(errs, ErrNotRegistered)
	}
	if len(o.Lines) == 0 {
		errs = append(errs, ErrEmptyOrder)
	}
	if !o.Status.Valid() {
		errs = append(errs, ErrInvalidState)
	}

	var calc int64
	for _, line := range o.Lines {
		if line.Qty <= 0 {
			errs = append(errs, ErrInvalidQuantity)
			continue
		}
		sub, err := line.Subtotal()
		if err != nil || calc > math.MaxInt64-sub {
			errs = append(errs, ErrOverflow)
			continue
		}
		calc += sub
	}
	if calc != o.AmountMinor {
		errs = append(errs, ErrAmountMismatch)
	}

	return errs
}

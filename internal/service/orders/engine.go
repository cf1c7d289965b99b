// Package orders реализует создание заказов и их жизненный цикл.
//
// Допустимые переходы:
//
//	pending  --ship(seller)-->     shipped
//	shipped  --receive(buyer)-->   received
//	pending|shipped --cancel(buyer)+cancel(seller)--> cancelled
//
// Отмена требует согласия обеих сторон: первый запрос только запоминается,
// второй (от другой стороны) переводит заказ в cancelled.
package orders

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
	"github.com/vladislavdragonenkov/marketplace/internal/idgen"
	"github.com/vladislavdragonenkov/marketplace/internal/service/catalog"
	"github.com/vladislavdragonenkov/marketplace/internal/service/identity"
)

// CancelOutcome описывает результат запроса отмены.
type CancelOutcome string

const (
	// CancelRecorded — запрос первой стороны сохранён, статус не изменился.
	CancelRecorded CancelOutcome = "recorded"
	// CancelCompleted — вторая сторона подтвердила отмену, заказ отменён.
	CancelCompleted CancelOutcome = "completed"
	// CancelDuplicate — та же сторона повторила запрос, ничего не изменилось.
	CancelDuplicate CancelOutcome = "duplicate"
)

// Option настраивает Engine.
type Option func(*Engine)

// WithStrictCancelRequests включает отказ ErrAlreadyRequested на повторный
// запрос отмены от той же стороны вместо молчаливого no-op.
func WithStrictCancelRequests(strict bool) Option {
	return func(e *Engine) {
		e.strictCancel = strict
	}
}

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Engine валидирует заказы и ведёт их по статусам.
type Engine struct {
	identity     *identity.Registry
	catalog      *catalog.Catalog
	now          func() time.Time
	strictCancel bool
}

// NewEngine создаёт движок заказов.
func NewEngine(registry *identity.Registry, cat *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		identity: registry,
		catalog:  cat,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateOrder оформляет заказ покупателя. Если availableFunds меньше суммы
// заказа, возвращается ErrInsufficientFunds. Остатки списываются по всем
// позициям или не списываются вовсе.
func (e *Engine) CreateOrder(tx domain.Tx, buyerID string, items []domain.LineItem, availableFunds int64) (domain.Order, error) {
	buyer, err := e.identity.RequireBuyer(tx, buyerID)
	if err != nil {
		return domain.Order{}, err
	}
	if len(items) == 0 {
		return domain.Order{}, domain.ErrEmptyOrder
	}

	lines := make([]domain.OrderLine, 0, len(items))
	listings := make([]domain.Listing, 0, len(items))
	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if _, dup := seen[item.ListingID]; dup {
			return domain.Order{}, fmt.Errorf("listing %d: %w", item.ListingID, domain.ErrDuplicateListing)
		}
		seen[item.ListingID] = struct{}{}

		if err := item.Validate(); err != nil {
			return domain.Order{}, fmt.Errorf("listing %d: %w", item.ListingID, err)
		}
		listing, err := e.catalog.Listing(tx, item.ListingID)
		if err != nil {
			return domain.Order{}, err
		}
		listings = append(listings, listing)
		lines = append(lines, domain.OrderLine{
			ListingID:  listing.ID,
			ProductID:  listing.ProductID,
			Qty:        item.Qty,
			PriceMinor: listing.PriceMinor,
		})
	}

	sellerID := listings[0].SellerID
	for _, listing := range listings[1:] {
		if listing.SellerID != sellerID {
			return domain.Order{}, domain.ErrMultipleSellers
		}
	}
	if sellerID == buyer.ID {
		return domain.Order{}, domain.ErrSelfPurchase
	}

	total, err := orderTotal(lines)
	if err != nil {
		return domain.Order{}, err
	}
	if total > availableFunds {
		return domain.Order{}, domain.ErrInsufficientFunds
	}

	// Сначала проверяем остатки по всем позициям, затем списываем.
	for i, listing := range listings {
		if !listing.HasStock(lines[i].Qty) {
			return domain.Order{}, fmt.Errorf("listing %d: %w", listing.ID, domain.ErrInsufficientStock)
		}
	}
	for _, line := range lines {
		if _, err := e.catalog.DecrementStock(tx, line.ListingID, line.Qty); err != nil {
			return domain.Order{}, err
		}
	}

	seller, err := tx.User(sellerID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("seller %s of listing %d: %w", sellerID, listings[0].ID, err)
	}

	id, err := idgen.Next(tx, domain.CounterOrder)
	if err != nil {
		return domain.Order{}, err
	}

	now := e.now().UTC()
	order := domain.Order{
		ID:          id,
		Lines:       lines,
		Status:      domain.OrderStatusPending,
		BuyerID:     buyer.ID,
		SellerID:    seller.ID,
		AmountMinor: total,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return domain.Order{}, fmt.Errorf("order %d violates invariants: %v", id, errors.Join(errs...))
	}
	if err := tx.PutOrder(order); err != nil {
		return domain.Order{}, fmt.Errorf("save order %d: %w", id, err)
	}

	for _, party := range []domain.User{buyer, seller} {
		party.OrderIDs = append(party.OrderIDs, id)
		party.UpdatedAt = now
		if err := tx.PutUser(party); err != nil {
			return domain.Order{}, fmt.Errorf("save user %s: %w", party.ID, err)
		}
	}
	return order, nil
}

// MarkShipped переводит заказ pending → shipped. Доступно только продавцу.
func (e *Engine) MarkShipped(tx domain.Tx, caller string, orderID int64) (domain.Order, error) {
	order, err := tx.Order(orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if caller != order.SellerID {
		return domain.Order{}, domain.ErrNotAuthorized
	}
	if !order.Status.CanTransition(domain.OrderStatusShipped) {
		return domain.Order{}, domain.ErrInvalidState
	}
	return e.save(tx, order, domain.OrderStatusShipped)
}

// MarkReceived переводит заказ shipped → received. Доступно только покупателю.
func (e *Engine) MarkReceived(tx domain.Tx, caller string, orderID int64) (domain.Order, error) {
	order, err := tx.Order(orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if caller != order.BuyerID {
		return domain.Order{}, domain.ErrNotAuthorized
	}
	if !order.Status.CanTransition(domain.OrderStatusReceived) {
		return domain.Order{}, domain.ErrInvalidState
	}
	return e.save(tx, order, domain.OrderStatusReceived)
}

// RequestCancel регистрирует запрос отмены от одной из сторон заказа.
func (e *Engine) RequestCancel(tx domain.Tx, caller string, orderID int64) (domain.Order, CancelOutcome, error) {
	order, err := tx.Order(orderID)
	if err != nil {
		return domain.Order{}, "", err
	}
	if !order.IsParty(caller) {
		return domain.Order{}, "", domain.ErrNotAuthorized
	}
	if !order.Status.CanTransition(domain.OrderStatusCancelled) {
		return domain.Order{}, "", domain.ErrInvalidState
	}

	switch order.CancelRequestedBy {
	case "":
		order.CancelRequestedBy = caller
		saved, err := e.save(tx, order, order.Status)
		return saved, CancelRecorded, err
	case caller:
		if e.strictCancel {
			return domain.Order{}, "", domain.ErrAlreadyRequested
		}
		return order, CancelDuplicate, nil
	default:
		saved, err := e.save(tx, order, domain.OrderStatusCancelled)
		return saved, CancelCompleted, err
	}
}

// Order возвращает заказ участнику сделки.
func (e *Engine) Order(tx domain.Tx, caller string, orderID int64) (domain.Order, error) {
	order, err := tx.Order(orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !order.IsParty(caller) {
		return domain.Order{}, domain.ErrNotAuthorized
	}
	return order, nil
}

// OrdersFor возвращает заказы, где identity покупатель или продавец, в порядке создания.
func (e *Engine) OrdersFor(tx domain.Tx, identity string) ([]domain.Order, error) {
	all, err := tx.Orders()
	if err != nil {
		return nil, err
	}
	result := make([]domain.Order, 0)
	for _, order := range all {
		if order.IsParty(identity) {
			result = append(result, order)
		}
	}
	return result, nil
}

// ListOrders возвращает всю историю заказов в порядке создания.
func (e *Engine) ListOrders(tx domain.Tx) ([]domain.Order, error) {
	return tx.Orders()
}

func (e *Engine) save(tx domain.Tx, order domain.Order, status domain.OrderStatus) (domain.Order, error) {
	order.Status = status
	order.UpdatedAt = e.now().UTC()
	if err := tx.PutOrder(order); err != nil {
		return domain.Order{}, fmt.Errorf("save order %d: %w", order.ID, err)
	}
	return order, nil
}

func orderTotal(lines []domain.OrderLine) (int64, error) {
	var total int64
	for _, line := range lines {
		sub, err := line.Subtotal()
		if err != nil {
			return 0, err
		}
		if total > math.MaxInt64-sub {
			return 0, domain.ErrOverflow
		}
		total += sub
	}
	return total, nil
}

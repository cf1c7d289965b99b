package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// ErrReadOnly возвращается при попытке записи внутри View.
var ErrReadOnly = errors.New("memory store: write in read-only transaction")

// state — зафиксированное состояние агрегата.
type state struct {
	users        map[string]domain.User
	products     map[int64]domain.Product
	listings     map[int64]domain.Listing
	listingOrder []int64
	orders       map[int64]domain.Order
	orderOrder   []int64
	counters     map[domain.Counter]int64
	timeline     map[int64][]domain.TimelineEvent
}

// Store — in-memory реализация domain.Store для локальной разработки и тестов.
//
// Пишущие транзакции выполняются под эксклюзивной блокировкой и накапливают
// изменения в overlay; состояние обновляется только если fn вернула nil.
type Store struct {
	mu    sync.RWMutex
	state state

	outboxMu sync.Mutex
	outbox   *outboxQueue
}

// NewStore создаёт пустое хранилище.
func NewStore() *Store {
	return &Store{
		state: state{
			users:    make(map[string]domain.User),
			products: make(map[int64]domain.Product),
			listings: make(map[int64]domain.Listing),
			orders:   make(map[int64]domain.Order),
			counters: make(map[domain.Counter]int64),
			timeline: make(map[int64][]domain.TimelineEvent),
		},
		outbox: newOutboxQueue(),
	}
}

// Update выполняет fn в пишущей транзакции.
func (s *Store) Update(ctx context.Context, fn func(tx domain.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := newTx(&s.state, false)
	if err := fn(tx); err != nil {
		return err
	}
	s.commit(tx)
	return nil
}

// View выполняет fn в читающей транзакции; записи через tx возвращают ErrReadOnly.
func (s *Store) View(ctx context.Context, fn func(tx domain.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(newTx(&s.state, true))
}

// Ping всегда успешен, пока контекст жив.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) commit(tx *memTx) {
	for id, user := range tx.users {
		s.state.users[id] = user
	}
	for id, product := range tx.products {
		s.state.products[id] = product
	}
	for id, listing := range tx.listings {
		s.state.listings[id] = listing
	}
	s.state.listingOrder = append(s.state.listingOrder, tx.newListings...)
	for id, order := range tx.orders {
		s.state.orders[id] = order
	}
	s.state.orderOrder = append(s.state.orderOrder, tx.newOrders...)
	for name, value := range tx.counters {
		s.state.counters[name] = value
	}
	for _, event := range tx.timeline {
		s.state.timeline[event.OrderID] = append(s.state.timeline[event.OrderID], event)
	}

	if len(tx.outbox) == 0 {
		return
	}
	s.outboxMu.Lock()
	defer s.outboxMu.Unlock()
	for _, msg := range tx.outbox {
		s.outbox.push(msg, time.Now().UTC())
	}
}

// memTx читает зафиксированное состояние и накапливает изменения поверх него.
type memTx struct {
	base     *state
	readOnly bool

	users       map[string]domain.User
	products    map[int64]domain.Product
	listings    map[int64]domain.Listing
	newListings []int64
	orders      map[int64]domain.Order
	newOrders   []int64
	counters    map[domain.Counter]int64
	timeline    []domain.TimelineEvent
	outbox      []domain.OutboxMessage
}

func newTx(base *state, readOnly bool) *memTx {
	return &memTx{
		base:     base,
		readOnly: readOnly,
		users:    make(map[string]domain.User),
		products: make(map[int64]domain.Product),
		listings: make(map[int64]domain.Listing),
		orders:   make(map[int64]domain.Order),
		counters: make(map[domain.Counter]int64),
	}
}

func (t *memTx) User(id string) (domain.User, error) {
	if user, ok := t.users[id]; ok {
		return user.Clone(), nil
	}
	if user, ok := t.base.users[id]; ok {
		return user.Clone(), nil
	}
	return domain.User{}, domain.ErrNotRegistered
}

func (t *memTx) PutUser(user domain.User) error {
	if t.readOnly {
		return ErrReadOnly
	}
	t.users[user.ID] = user.Clone()
	return nil
}

func (t *memTx) Product(id int64) (domain.Product, error) {
	if product, ok := t.products[id]; ok {
		return product, nil
	}
	if product, ok := t.base.products[id]; ok {
		return product, nil
	}
	return domain.Product{}, domain.ErrProductNotFound
}

func (t *memTx) PutProduct(product domain.Product) error {
	if t.readOnly {
		return ErrReadOnly
	}
	t.products[product.ID] = product
	return nil
}

func (t *memTx) Listing(id int64) (domain.Listing, error) {
	if listing, ok := t.listings[id]; ok {
		return listing, nil
	}
	if listing, ok := t.base.listings[id]; ok {
		return listing, nil
	}
	return domain.Listing{}, domain.ErrListingNotFound
}

func (t *memTx) PutListing(listing domain.Listing) error {
	if t.readOnly {
		return ErrReadOnly
	}
	if _, err := t.Listing(listing.ID); errors.Is(err, domain.ErrListingNotFound) {
		t.newListings = append(t.newListings, listing.ID)
	}
	t.listings[listing.ID] = listing
	return nil
}

func (t *memTx) Listings() ([]domain.Listing, error) {
	result := make([]domain.Listing, 0, len(t.base.listingOrder)+len(t.newListings))
	for _, id := range t.base.listingOrder {
		listing, _ := t.Listing(id)
		result = append(result, listing)
	}
	for _, id := range t.newListings {
		result = append(result, t.listings[id])
	}
	return result, nil
}

func (t *memTx) Order(id int64) (domain.Order, error) {
	if order, ok := t.orders[id]; ok {
		return order.Clone(), nil
	}
	if order, ok := t.base.orders[id]; ok {
		return order.Clone(), nil
	}
	return domain.Order{}, domain.ErrOrderNotFound
}

func (t *memTx) PutOrder(order domain.Order) error {
	if t.readOnly {
		return ErrReadOnly
	}
	if _, err := t.Order(order.ID); errors.Is(err, domain.ErrOrderNotFound) {
		t.newOrders = append(t.newOrders, order.ID)
	}
	t.orders[order.ID] = order.Clone()
	return nil
}

func (t *memTx) Orders() ([]domain.Order, error) {
	result := make([]domain.Order, 0, len(t.base.orderOrder)+len(t.newOrders))
	for _, id := range t.base.orderOrder {
		order, _ := t.Order(id)
		result = append(result, order)
	}
	for _, id := range t.newOrders {
		result = append(result, t.orders[id].Clone())
	}
	return result, nil
}

func (t *memTx) Counter(name domain.Counter) (int64, error) {
	if value, ok := t.counters[name]; ok {
		return value, nil
	}
	return t.base.counters[name], nil
}

func (t *memTx) SetCounter(name domain.Counter, value int64) error {
	if t.readOnly {
		return ErrReadOnly
	}
	t.counters[name] = value
	return nil
}

func (t *memTx) AppendTimeline(event domain.TimelineEvent) error {
	if t.readOnly {
		return ErrReadOnly
	}
	t.timeline = append(t.timeline, event)
	return nil
}

func (t *memTx) Timeline(orderID int64) ([]domain.TimelineEvent, error) {
	committed := t.base.timeline[orderID]
	result := make([]domain.TimelineEvent, 0, len(committed))
	result = append(result, committed...)
	for _, event := range t.timeline {
		if event.OrderID == orderID {
			result = append(result, event)
		}
	}
	return result, nil
}

func (t *memTx) Enqueue(msg domain.OutboxMessage) error {
	if t.readOnly {
		return ErrReadOnly
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	msg.Payload = append([]byte(nil), msg.Payload...)
	t.outbox = append(t.outbox, msg)
	return nil
}

var (
	_ domain.Store = (*Store)(nil)
	_ domain.Tx    = (*memTx)(nil)
)

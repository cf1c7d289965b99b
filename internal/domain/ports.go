package domain

import (
	"context"
	"time"
)

// Counter — имя монотонного счётчика идентификаторов.
type Counter string

const (
	CounterProduct Counter = "product"
	CounterListing Counter = "listing"
	CounterOrder   Counter = "order"
)

// Store — общее транзакционное хранилище агрегата маркетплейса.
//
// Update выполняет fn в пишущей транзакции: если fn вернула ошибку, ни одно
// изменение, сделанное через Tx, не становится видимым. Пишущие транзакции
// выполняются строго по одной.
type Store interface {
	Update(ctx context.Context, fn func(tx Tx) error) error
	View(ctx context.Context, fn func(tx Tx) error) error
	Ping(ctx context.Context) error
}

// Tx открывает доступ к состоянию агрегата внутри одной транзакции.
type Tx interface {
	// User возвращает пользователя или ErrNotRegistered.
	User(id string) (User, error)
	PutUser(user User) error

	// Product возвращает товар или ErrProductNotFound.
	Product(id int64) (Product, error)
	PutProduct(product Product) error

	// Listing возвращает публикацию или ErrListingNotFound.
	Listing(id int64) (Listing, error)
	PutListing(listing Listing) error
	// Listings возвращает все публикации в порядке создания.
	Listings() ([]Listing, error)

	// Order возвращает заказ или ErrOrderNotFound.
	Order(id int64) (Order, error)
	PutOrder(order Order) error
	// Orders возвращает все заказы в порядке создания.
	Orders() ([]Order, error)

	// Counter возвращает текущее значение счётчика (0, если он ещё не использовался).
	Counter(name Counter) (int64, error)
	SetCounter(name Counter, value int64) error

	AppendTimeline(event TimelineEvent) error
	Timeline(orderID int64) ([]TimelineEvent, error)

	// Enqueue сохраняет событие для публикации вместе с остальными изменениями транзакции.
	Enqueue(msg OutboxMessage) error
}

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(event OutboxMessage) error
}

// OutboxRepository отдаёт накопленные события воркеру публикации.
type OutboxRepository interface {
	PullPending(limit int) ([]OutboxMessage, error)
	Stats() (OutboxStats, error)
	MarkSent(id string) error
	MarkFailed(id string) error
}

// OutboxPurger удаляет уже опубликованные сообщения.
type OutboxPurger interface {
	// DeleteSentBefore удаляет до limit сообщений со статусом sent,
	// опубликованных не позже before, и возвращает число удалённых.
	DeleteSentBefore(before time.Time, limit int) (int, error)
}

// OutboxMessage хранит данные для публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// pgTx реализует domain.Tx поверх *sql.Tx.
//
// Списки публикаций и заказов пользователя не хранятся отдельно: они
// выводятся из listings и orders в порядке идентификаторов, который совпадает
// с порядком создания.
type pgTx struct {
	ctx context.Context
	tx  *sql.Tx
	now func() time.Time
}

func (t *pgTx) User(id string) (domain.User, error) {
	var (
		user domain.User
		role string
	)
	err := t.tx.QueryRowContext(t.ctx, `
		SELECT id, name, surname, email, role, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id).Scan(&user.ID, &user.Name, &user.Surname, &user.Email, &role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrNotRegistered
		}
		return domain.User{}, fmt.Errorf("select user: %w", err)
	}
	user.Role = domain.Role(role)

	if user.ListingIDs, err = t.ids(`SELECT id FROM listings WHERE seller_id = $1 ORDER BY id`, id); err != nil {
		return domain.User{}, fmt.Errorf("load listings of %s: %w", id, err)
	}
	if user.OrderIDs, err = t.ids(`SELECT id FROM orders WHERE buyer_id = $1 OR seller_id = $1 ORDER BY id`, id); err != nil {
		return domain.User{}, fmt.Errorf("load orders of %s: %w", id, err)
	}
	return user, nil
}

func (t *pgTx) ids(query string, args ...any) ([]int64, error) {
	rows, err := t.tx.QueryContext(t.ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (t *pgTx) PutUser(user domain.User) error {
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO users (id, name, surname, email, role, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    surname = EXCLUDED.surname,
		    email = EXCLUDED.email,
		    role = EXCLUDED.role,
		    updated_at = EXCLUDED.updated_at
	`, user.ID, user.Name, user.Surname, user.Email, string(user.Role), user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (t *pgTx) Product(id int64) (domain.Product, error) {
	var (
		product  domain.Product
		category string
	)
	err := t.tx.QueryRowContext(t.ctx, `
		SELECT id, name, description, category, created_at
		FROM products
		WHERE id = $1
	`, id).Scan(&product.ID, &product.Name, &product.Description, &category, &product.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}
	product.Category = domain.Category(category)
	return product, nil
}

func (t *pgTx) PutProduct(product domain.Product) error {
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO products (id, name, description, category, created_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    description = EXCLUDED.description,
		    category = EXCLUDED.category
	`, product.ID, product.Name, product.Description, string(product.Category), product.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

const listingColumns = `id, product_id, seller_id, price_minor, stock, active, created_at, updated_at`

func scanListing(row interface{ Scan(...any) error }) (domain.Listing, error) {
	var l domain.Listing
	err := row.Scan(&l.ID, &l.ProductID, &l.SellerID, &l.PriceMinor, &l.Stock, &l.Active, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func (t *pgTx) Listing(id int64) (domain.Listing, error) {
	listing, err := scanListing(t.tx.QueryRowContext(t.ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Listing{}, domain.ErrListingNotFound
		}
		return domain.Listing{}, fmt.Errorf("select listing: %w", err)
	}
	return listing, nil
}

func (t *pgTx) PutListing(listing domain.Listing) error {
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO listings (`+listingColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE
		SET price_minor = EXCLUDED.price_minor,
		    stock = EXCLUDED.stock,
		    active = EXCLUDED.active,
		    updated_at = EXCLUDED.updated_at
	`, listing.ID, listing.ProductID, listing.SellerID, listing.PriceMinor,
		listing.Stock, listing.Active, listing.CreatedAt, listing.UpdatedAt)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("listing %d: %w", listing.ID, domain.ErrInsufficientStock)
		}
		return fmt.Errorf("upsert listing: %w", err)
	}
	return nil
}

func (t *pgTx) Listings() ([]domain.Listing, error) {
	rows, err := t.tx.QueryContext(t.ctx, `SELECT `+listingColumns+` FROM listings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	listings := make([]domain.Listing, 0)
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return listings, nil
}

const orderColumns = `id, status, buyer_id, seller_id, cancel_requested_by, amount_minor, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (domain.Order, error) {
	var (
		o      domain.Order
		status string
	)
	err := row.Scan(&o.ID, &status, &o.BuyerID, &o.SellerID, &o.CancelRequestedBy, &o.AmountMinor, &o.CreatedAt, &o.UpdatedAt)
	o.Status = domain.OrderStatus(status)
	return o, err
}

func (t *pgTx) Order(id int64) (domain.Order, error) {
	order, err := scanOrder(t.tx.QueryRowContext(t.ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	lines, err := t.lines(`WHERE order_id = $1`, id)
	if err != nil {
		return domain.Order{}, err
	}
	order.Lines = lines[id]
	return order, nil
}

// lines загружает позиции заказов, сгруппированные по заказу.
func (t *pgTx) lines(where string, args ...any) (map[int64][]domain.OrderLine, error) {
	rows, err := t.tx.QueryContext(t.ctx, `
		SELECT order_id, listing_id, product_id, qty, price_minor
		FROM order_lines `+where+`
		ORDER BY order_id, position
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("load order lines: %w", err)
	}
	defer rows.Close()

	result := make(map[int64][]domain.OrderLine)
	for rows.Next() {
		var (
			orderID int64
			line    domain.OrderLine
		)
		if err := rows.Scan(&orderID, &line.ListingID, &line.ProductID, &line.Qty, &line.PriceMinor); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		result[orderID] = append(result[orderID], line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order lines: %w", err)
	}
	return result, nil
}

// PutOrder сохраняет заказ; позиции записываются один раз, при создании.
func (t *pgTx) PutOrder(order domain.Order) error {
	var inserted bool
	err := t.tx.QueryRowContext(t.ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status,
		    cancel_requested_by = EXCLUDED.cancel_requested_by,
		    updated_at = EXCLUDED.updated_at
		RETURNING (xmax = 0)
	`, order.ID, string(order.Status), order.BuyerID, order.SellerID, order.CancelRequestedBy,
		order.AmountMinor, order.CreatedAt, order.UpdatedAt).Scan(&inserted)
	if err != nil {
		return fmt.Errorf("upsert order: %w", err)
	}
	if !inserted {
		return nil
	}

	for i, line := range order.Lines {
		if _, err := t.tx.ExecContext(t.ctx, `
			INSERT INTO order_lines (order_id, position, listing_id, product_id, qty, price_minor)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, order.ID, i, line.ListingID, line.ProductID, line.Qty, line.PriceMinor); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("order %d: %w", order.ID, domain.ErrDuplicateListing)
			}
			return fmt.Errorf("insert order line: %w", err)
		}
	}
	return nil
}

func (t *pgTx) Orders() ([]domain.Order, error) {
	rows, err := t.tx.QueryContext(t.ctx, `SELECT `+orderColumns+` FROM orders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	lines, err := t.lines("")
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Lines = lines[orders[i].ID]
	}
	return orders, nil
}

func (t *pgTx) Counter(name domain.Counter) (int64, error) {
	var value int64
	err := t.tx.QueryRowContext(t.ctx, `SELECT value FROM counters WHERE name = $1`, string(name)).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("select counter %s: %w", name, err)
	}
	return value, nil
}

func (t *pgTx) SetCounter(name domain.Counter, value int64) error {
	if _, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO counters (name, value) VALUES ($1,$2)
		ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value
	`, string(name), value); err != nil {
		return fmt.Errorf("set counter %s: %w", name, err)
	}
	return nil
}

func (t *pgTx) AppendTimeline(event domain.TimelineEvent) error {
	if event.Occurred.IsZero() {
		event.Occurred = t.now().UTC()
	}

	if _, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO timeline_events (order_id, type, actor, reason, occurred)
		VALUES ($1,$2,$3,$4,$5)
	`, event.OrderID, event.Type, event.Actor, event.Reason, event.Occurred); err != nil {
		return fmt.Errorf("append timeline event: %w", err)
	}
	return nil
}

func (t *pgTx) Timeline(orderID int64) ([]domain.TimelineEvent, error) {
	rows, err := t.tx.QueryContext(t.ctx, `
		SELECT order_id, type, actor, reason, occurred
		FROM timeline_events
		WHERE order_id = $1
		ORDER BY id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list timeline events: %w", err)
	}
	defer rows.Close()

	events := make([]domain.TimelineEvent, 0)
	for rows.Next() {
		var event domain.TimelineEvent
		if err := rows.Scan(&event.OrderID, &event.Type, &event.Actor, &event.Reason, &event.Occurred); err != nil {
			return nil, fmt.Errorf("scan timeline event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate timeline events: %w", err)
	}
	return events, nil
}

func (t *pgTx) Enqueue(msg domain.OutboxMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	now := t.now().UTC()

	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO outbox_messages (
			id, aggregate_type, aggregate_id, event_type, payload,
			status, attempt_count, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,'pending',0,$6,$7)
	`, msg.ID, msg.AggregateType, msg.AggregateID, msg.EventType, msg.Payload, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("outbox message %s already enqueued: %w", msg.ID, err)
		}
		return fmt.Errorf("enqueue outbox message: %w", err)
	}
	return nil
}

var _ domain.Tx = (*pgTx)(nil)

package marketplace

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vladislavdragonenkov/marketplace/internal/caller"
	"github.com/vladislavdragonenkov/marketplace/internal/domain"
	"github.com/vladislavdragonenkov/marketplace/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/marketplace/internal/metrics"
	"github.com/vladislavdragonenkov/marketplace/internal/service/orders"
	"github.com/vladislavdragonenkov/marketplace/internal/storage/memory"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func loggerForTests() *log.Entry {
	logger := log.New()
	logger.SetLevel(log.PanicLevel)
	return log.NewEntry(logger)
}

func as(identity string) context.Context {
	return caller.WithIdentity(context.Background(), identity)
}

type ServiceSuite struct {
	suite.Suite

	store   *memory.Store
	svc     *Service
	metrics *metrics.MarketplaceMetrics
	product domain.Product
	listing domain.Listing
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = memory.NewStore()
	s.metrics = metrics.NewMarketplaceMetricsWithRegisterer(prometheus.NewRegistry())
	s.svc = New(s.store,
		WithLogger(loggerForTests()),
		WithMetrics(s.metrics),
		WithClock(func() time.Time { return fixedNow }),
	)

	ctx := as("sam")
	_, err := s.svc.Register(ctx, RegisterInput{Name: "Sam", Surname: "Seller", Email: "sam@example.com", Role: domain.RoleSeller})
	s.Require().NoError(err)
	_, err = s.svc.Register(as("bea"), RegisterInput{Name: "Bea", Surname: "Buyer", Email: "bea@example.com", Role: domain.RoleBuyer})
	s.Require().NoError(err)

	s.product, err = s.svc.CreateProduct(ctx, CreateProductInput{Name: "Broom", Category: domain.CategoryCleaning})
	s.Require().NoError(err)
	s.listing, err = s.svc.CreateListing(ctx, CreateListingInput{ProductID: s.product.ID, PriceMinor: 10, Stock: 5})
	s.Require().NoError(err)
}

func (s *ServiceSuite) eventTypes() []string {
	pending := s.store.AllPending()
	types := make([]string, 0, len(pending))
	for _, msg := range pending {
		types = append(types, msg.EventType)
	}
	return types
}

func (s *ServiceSuite) TestSetupEmitsEvents() {
	s.Equal([]string{"user.registered", "user.registered", "product.created", "listing.created"}, s.eventTypes())
}

func (s *ServiceSuite) TestOrderLifecycleEmitsTimelineAndEvents() {
	order, err := s.svc.CreateOrder(as("bea"), CreateOrderInput{
		Items:          []domain.LineItem{{ListingID: s.listing.ID, Qty: 3}},
		AvailableFunds: 100,
	})
	s.Require().NoError(err)
	s.Equal(int64(30), order.AmountMinor)

	_, err = s.svc.MarkShipped(as("sam"), order.ID)
	s.Require().NoError(err)
	received, err := s.svc.MarkReceived(as("bea"), order.ID)
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusReceived, received.Status)

	details, err := s.svc.Order(as("sam"), order.ID)
	s.Require().NoError(err)
	s.Require().Len(details.Timeline, 3)
	s.Equal(domain.TimelineOrderCreated, details.Timeline[0].Type)
	s.Equal("bea", details.Timeline[0].Actor)
	s.Equal(domain.TimelineOrderShipped, details.Timeline[1].Type)
	s.Equal("sam", details.Timeline[1].Actor)
	s.Equal(domain.TimelineOrderReceived, details.Timeline[2].Type)

	types := s.eventTypes()
	s.Equal([]string{"order.created", "order.shipped", "order.received"}, types[len(types)-3:])

	s.Equal(1.0, testutil.ToFloat64(s.metrics.TransitionCounter("pending", "shipped")))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.TransitionCounter("shipped", "received")))
}

func (s *ServiceSuite) TestFailedOrderLeavesNoTrace() {
	before := len(s.store.AllPending())

	_, err := s.svc.CreateOrder(as("bea"), CreateOrderInput{
		Items:          []domain.LineItem{{ListingID: s.listing.ID, Qty: 3}},
		AvailableFunds: 20,
	})
	s.Require().ErrorIs(err, domain.ErrInsufficientFunds)

	s.Len(s.store.AllPending(), before)
	listings, err := s.svc.ListActiveListings(context.Background())
	s.Require().NoError(err)
	s.Equal(int32(5), listings[0].Stock)

	mine, err := s.svc.MyOrders(as("bea"))
	s.Require().NoError(err)
	s.Empty(mine)
}

func (s *ServiceSuite) TestMutualCancel() {
	order, err := s.svc.CreateOrder(as("bea"), CreateOrderInput{
		Items:          []domain.LineItem{{ListingID: s.listing.ID, Qty: 1}},
		AvailableFunds: 100,
	})
	s.Require().NoError(err)

	first, err := s.svc.RequestCancel(as("bea"), order.ID)
	s.Require().NoError(err)
	s.Equal(orders.CancelRecorded, first.Outcome)
	s.Equal(domain.OrderStatusPending, first.Order.Status)

	dup, err := s.svc.RequestCancel(as("bea"), order.ID)
	s.Require().NoError(err)
	s.Equal(orders.CancelDuplicate, dup.Outcome)

	second, err := s.svc.RequestCancel(as("sam"), order.ID)
	s.Require().NoError(err)
	s.Equal(orders.CancelCompleted, second.Outcome)
	s.Equal(domain.OrderStatusCancelled, second.Order.Status)

	types := s.eventTypes()
	s.Equal([]string{"order.created", "order.cancel_requested", "order.cancelled"}, types[len(types)-3:])

	details, err := s.svc.Order(as("bea"), order.ID)
	s.Require().NoError(err)
	s.Require().Len(details.Timeline, 3)
	s.Equal(domain.TimelineOrderCancelled, details.Timeline[2].Type)
	s.Equal("mutual consent", details.Timeline[2].Reason)
}

func (s *ServiceSuite) TestStrangerCannotSeeOrder() {
	_, err := s.svc.Register(as("eve"), RegisterInput{Role: domain.RoleBoth})
	s.Require().NoError(err)

	order, err := s.svc.CreateOrder(as("bea"), CreateOrderInput{
		Items:          []domain.LineItem{{ListingID: s.listing.ID, Qty: 1}},
		AvailableFunds: 100,
	})
	s.Require().NoError(err)

	_, err = s.svc.Order(as("eve"), order.ID)
	s.ErrorIs(err, domain.ErrNotAuthorized)
	_, err = s.svc.RequestCancel(as("eve"), order.ID)
	s.ErrorIs(err, domain.ErrNotAuthorized)

	all, err := s.svc.ListOrders(as("eve"))
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *ServiceSuite) TestAddRoleAndCapabilities() {
	caps, err := s.svc.Capabilities(as("bea"))
	s.Require().NoError(err)
	s.True(caps.IsBuyer)
	s.False(caps.IsSeller)

	_, err = s.svc.CreateListing(as("bea"), CreateListingInput{ProductID: s.product.ID, PriceMinor: 1, Stock: 1})
	s.ErrorIs(err, domain.ErrNotSeller)

	before := len(s.store.AllPending())
	user, err := s.svc.AddRole(as("bea"), domain.RoleSeller)
	s.Require().NoError(err)
	s.Equal(domain.RoleBoth, user.Role)
	s.Len(s.store.AllPending(), before+1)

	_, err = s.svc.AddRole(as("bea"), domain.RoleBuyer)
	s.Require().NoError(err)
	s.Len(s.store.AllPending(), before+1, "no-op role change must not emit events")

	caps, err = s.svc.Capabilities(as("bea"))
	s.Require().NoError(err)
	s.True(caps.IsBuyer)
	s.True(caps.IsSeller)

	_, err = s.svc.Capabilities(as("ghost"))
	s.ErrorIs(err, domain.ErrNotRegistered)
}

func (s *ServiceSuite) TestMyListings() {
	listings, err := s.svc.MyListings(as("sam"))
	s.Require().NoError(err)
	s.Require().Len(listings, 1)
	s.Equal(s.listing.ID, listings[0].ID)

	_, err = s.svc.MyListings(as("bea"))
	s.ErrorIs(err, domain.ErrNotSeller)
}

func (s *ServiceSuite) TestEventPayload() {
	pending := s.store.AllPending()
	last := pending[len(pending)-1]
	s.Equal(kafka.AggregateListing, last.AggregateType)

	var event kafka.ListingEvent
	s.Require().NoError(json.Unmarshal(last.Payload, &event))
	s.Equal(s.listing.ID, event.ListingID)
	s.Equal("sam", event.SellerID)
	s.Equal(fixedNow, event.OccurredAt)
}

func (s *ServiceSuite) TestRejectionMetrics() {
	_, err := s.svc.MarkShipped(as("bea"), 404)
	s.Require().ErrorIs(err, domain.ErrOrderNotFound)

	s.Equal(1.0, testutil.ToFloat64(s.metrics.OperationCounter("mark_shipped", metrics.ResultRejected, "OrderNotFound")))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.OperationCounter("create_listing", metrics.ResultOK, "")))
}

func TestService_RequiresCaller(t *testing.T) {
	svc := New(memory.NewStore(), WithLogger(loggerForTests()), WithMetrics(nil))
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Role: domain.RoleBuyer})
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = svc.CreateOrder(ctx, CreateOrderInput{})
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = svc.MyOrders(ctx)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)

	listings, err := svc.ListActiveListings(ctx)
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestService_IdentityIsNormalized(t *testing.T) {
	svc := New(memory.NewStore(), WithLogger(loggerForTests()), WithMetrics(nil))

	user, err := svc.Register(as(" alice"), RegisterInput{Name: "Alice", Role: domain.RoleSeller})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.ID)

	_, err = svc.CreateProduct(as(" alice"), CreateProductInput{Name: "Lamp", Category: domain.CategoryOther})
	require.NoError(t, err)
	_, err = svc.CreateProduct(as("alice "), CreateProductInput{Name: "Desk", Category: domain.CategoryOther})
	require.NoError(t, err)

	_, err = svc.Register(as("alice"), RegisterInput{Role: domain.RoleBuyer})
	require.ErrorIs(t, err, domain.ErrAlreadyRegistered)

	found, err := svc.User(as("alice"), "  alice ")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSeller, found.Role)
}

// outboxFailingStore проваливает запись в outbox, когда failEnqueue выставлен.
type outboxFailingStore struct {
	*memory.Store
	failEnqueue bool
	err         error
}

type outboxFailingTx struct {
	domain.Tx
	err error
}

func (tx outboxFailingTx) Enqueue(domain.OutboxMessage) error { return tx.err }

func (f *outboxFailingStore) Update(ctx context.Context, fn func(domain.Tx) error) error {
	return f.Store.Update(ctx, func(tx domain.Tx) error {
		if f.failEnqueue {
			tx = outboxFailingTx{Tx: tx, err: f.err}
		}
		return fn(tx)
	})
}

func TestService_FailedWriteReturnsZeroResult(t *testing.T) {
	store := &outboxFailingStore{Store: memory.NewStore(), err: errors.New("outbox is full")}
	svc := New(store, WithLogger(loggerForTests()), WithMetrics(nil))

	_, err := svc.Register(as("sam"), RegisterInput{Role: domain.RoleSeller})
	require.NoError(t, err)
	_, err = svc.Register(as("bea"), RegisterInput{Role: domain.RoleBuyer})
	require.NoError(t, err)
	product, err := svc.CreateProduct(as("sam"), CreateProductInput{Name: "Broom", Category: domain.CategoryCleaning})
	require.NoError(t, err)
	listing, err := svc.CreateListing(as("sam"), CreateListingInput{ProductID: product.ID, PriceMinor: 10, Stock: 2})
	require.NoError(t, err)
	placed, err := svc.CreateOrder(as("bea"), CreateOrderInput{
		Items:          []domain.LineItem{{ListingID: listing.ID, Qty: 1}},
		AvailableFunds: 10,
	})
	require.NoError(t, err)

	store.failEnqueue = true

	user, err := svc.AddRole(as("bea"), domain.RoleSeller)
	require.ErrorIs(t, err, store.err)
	assert.Zero(t, user)

	gotProduct, err := svc.CreateProduct(as("sam"), CreateProductInput{Name: "Mop", Category: domain.CategoryCleaning})
	require.ErrorIs(t, err, store.err)
	assert.Zero(t, gotProduct)

	gotListing, err := svc.CreateListing(as("sam"), CreateListingInput{ProductID: product.ID, PriceMinor: 10, Stock: 1})
	require.ErrorIs(t, err, store.err)
	assert.Zero(t, gotListing)

	order, err := svc.CreateOrder(as("bea"), CreateOrderInput{
		Items:          []domain.LineItem{{ListingID: listing.ID, Qty: 1}},
		AvailableFunds: 10,
	})
	require.ErrorIs(t, err, store.err)
	assert.Zero(t, order.ID)
	assert.Empty(t, order.Lines)

	shipped, err := svc.MarkShipped(as("sam"), placed.ID)
	require.ErrorIs(t, err, store.err)
	assert.Empty(t, shipped.Status)

	cancel, err := svc.RequestCancel(as("bea"), placed.ID)
	require.ErrorIs(t, err, store.err)
	assert.Empty(t, cancel.Outcome)
	assert.Empty(t, cancel.Order.Status)

	store.failEnqueue = false
	stored, err := svc.Order(as("bea"), placed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, stored.Order.Status)
	assert.Empty(t, stored.Order.CancelRequestedBy)
}

type failingStore struct {
	*memory.Store
	err error
}

func (f failingStore) Update(context.Context, func(domain.Tx) error) error { return f.err }

func TestService_StoreFailureIsInternal(t *testing.T) {
	boom := errors.New("connection refused")
	m := metrics.NewMarketplaceMetricsWithRegisterer(prometheus.NewRegistry())
	svc := New(failingStore{Store: memory.NewStore(), err: boom}, WithLogger(loggerForTests()), WithMetrics(m))

	_, err := svc.Register(as("alice"), RegisterInput{Role: domain.RoleBuyer})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, domain.KindInternal, domain.Kind(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationCounter("register", metrics.ResultError, domain.KindInternal)))
	require.NoError(t, svc.Ping(context.Background()))
}

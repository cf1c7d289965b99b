package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

func TestStore_UpdateCommitsOnSuccess(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	err := store.Update(ctx, func(tx domain.Tx) error {
		require.NoError(t, tx.PutUser(domain.User{ID: "alice", Role: domain.RoleSeller}))
		require.NoError(t, tx.PutProduct(domain.Product{ID: 0, Name: "broom"}))
		require.NoError(t, tx.PutListing(domain.Listing{ID: 0, ProductID: 0, SellerID: "alice", Stock: 5}))
		return tx.SetCounter(domain.CounterListing, 1)
	})
	require.NoError(t, err)

	err = store.View(ctx, func(tx domain.Tx) error {
		user, err := tx.User("alice")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleSeller, user.Role)

		listing, err := tx.Listing(0)
		require.NoError(t, err)
		assert.Equal(t, int32(5), listing.Stock)

		counter, err := tx.Counter(domain.CounterListing)
		require.NoError(t, err)
		assert.Equal(t, int64(1), counter)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_UpdateDiscardsEverythingOnError(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, func(tx domain.Tx) error {
		return tx.PutListing(domain.Listing{ID: 0, SellerID: "alice", Stock: 5})
	}))

	boom := errors.New("abort")
	err := store.Update(ctx, func(tx domain.Tx) error {
		listing, err := tx.Listing(0)
		require.NoError(t, err)
		listing.Stock = 1
		require.NoError(t, tx.PutListing(listing))
		require.NoError(t, tx.PutListing(domain.Listing{ID: 1, SellerID: "alice", Stock: 2}))
		require.NoError(t, tx.SetCounter(domain.CounterOrder, 10))
		require.NoError(t, tx.PutOrder(domain.Order{ID: 0, BuyerID: "bob"}))
		require.NoError(t, tx.AppendTimeline(domain.TimelineEvent{OrderID: 0, Type: domain.TimelineOrderCreated}))
		require.NoError(t, tx.Enqueue(domain.OutboxMessage{EventType: "order.created"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	require.NoError(t, store.View(ctx, func(tx domain.Tx) error {
		listing, err := tx.Listing(0)
		require.NoError(t, err)
		assert.Equal(t, int32(5), listing.Stock)

		_, err = tx.Listing(1)
		assert.ErrorIs(t, err, domain.ErrListingNotFound)

		listings, err := tx.Listings()
		require.NoError(t, err)
		assert.Len(t, listings, 1)

		counter, err := tx.Counter(domain.CounterOrder)
		require.NoError(t, err)
		assert.Zero(t, counter)

		_, err = tx.Order(0)
		assert.ErrorIs(t, err, domain.ErrOrderNotFound)

		events, err := tx.Timeline(0)
		require.NoError(t, err)
		assert.Empty(t, events)
		return nil
	}))
	assert.Empty(t, store.AllPending())
}

func TestStore_ViewIsReadOnly(t *testing.T) {
	store := NewStore()

	err := store.View(context.Background(), func(tx domain.Tx) error {
		return tx.PutUser(domain.User{ID: "mallory"})
	})
	require.ErrorIs(t, err, ErrReadOnly)

	err = store.View(context.Background(), func(tx domain.Tx) error {
		return tx.Enqueue(domain.OutboxMessage{EventType: "user.registered"})
	})
	require.ErrorIs(t, err, ErrReadOnly)
}

func TestStore_ListingsAndOrdersKeepCreationOrder(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	for _, id := range []int64{3, 1, 2} {
		require.NoError(t, store.Update(ctx, func(tx domain.Tx) error {
			if err := tx.PutListing(domain.Listing{ID: id}); err != nil {
				return err
			}
			return tx.PutOrder(domain.Order{ID: id})
		}))
	}

	// Повторная запись существующей публикации не меняет её позицию.
	require.NoError(t, store.Update(ctx, func(tx domain.Tx) error {
		return tx.PutListing(domain.Listing{ID: 3, Stock: 9})
	}))

	require.NoError(t, store.View(ctx, func(tx domain.Tx) error {
		listings, err := tx.Listings()
		require.NoError(t, err)
		ids := make([]int64, 0, len(listings))
		for _, l := range listings {
			ids = append(ids, l.ID)
		}
		assert.Equal(t, []int64{3, 1, 2}, ids)
		assert.Equal(t, int32(9), listings[0].Stock)

		orders, err := tx.Orders()
		require.NoError(t, err)
		require.Len(t, orders, 3)
		assert.Equal(t, int64(2), orders[2].ID)
		return nil
	}))
}

func TestStore_ReturnsCopies(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, func(tx domain.Tx) error {
		return tx.PutUser(domain.User{ID: "alice", OrderIDs: []int64{1}})
	}))

	require.NoError(t, store.View(ctx, func(tx domain.Tx) error {
		user, err := tx.User("alice")
		require.NoError(t, err)
		user.OrderIDs[0] = 42
		return nil
	}))

	require.NoError(t, store.View(ctx, func(tx domain.Tx) error {
		user, err := tx.User("alice")
		require.NoError(t, err)
		assert.Equal(t, []int64{1}, user.OrderIDs)
		return nil
	}))
}

func TestStore_CancelledContext(t *testing.T) {
	store := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.Update(ctx, func(domain.Tx) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
	assert.ErrorIs(t, store.Ping(ctx), context.Canceled)
}

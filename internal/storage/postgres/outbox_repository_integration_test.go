package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

func TestOutboxRepository_Lifecycle(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOutboxRepository(store)

	err := store.Update(context.Background(), func(tx domain.Tx) error {
		for _, id := range []string{"m-1", "m-2", "m-3"} {
			if err := tx.Enqueue(domain.OutboxMessage{
				ID:            id,
				AggregateType: "order",
				AggregateID:   "0",
				EventType:     "order.created",
				Payload:       []byte(`{"id":0}`),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	pending, err := repo.PullPending(2)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Equal(t, "m-1", pending[0].ID)
	require.Equal(t, "m-2", pending[1].ID)

	stats, err := repo.Stats()
	require.NoError(t, err)
	require.Equal(t, 3, stats.PendingCount)
	require.False(t, stats.OldestPendingAt.IsZero())

	require.NoError(t, repo.MarkSent("m-1"))
	require.NoError(t, repo.MarkFailed("m-2"))
	require.ErrorIs(t, repo.MarkSent("unknown"), domain.ErrOutboxPublish)

	pending, err = repo.PullPending(0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "m-3", pending[0].ID)
}

func TestOutboxRepository_RolledBackMessagesAreInvisible(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOutboxRepository(store)

	err := store.Update(context.Background(), func(tx domain.Tx) error {
		if err := tx.Enqueue(domain.OutboxMessage{AggregateType: "user", AggregateID: "bob", EventType: "user.registered", Payload: []byte(`{}`)}); err != nil {
			return err
		}
		return domain.ErrInsufficientFunds
	})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	stats, err := repo.Stats()
	require.NoError(t, err)
	require.Zero(t, stats.PendingCount)
}

func TestOutboxRepository_DeleteSentBefore(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOutboxRepository(store)

	err := store.Update(context.Background(), func(tx domain.Tx) error {
		for _, id := range []string{"d-1", "d-2", "d-3"} {
			if err := tx.Enqueue(domain.OutboxMessage{
				ID:            id,
				AggregateType: "order",
				AggregateID:   "0",
				EventType:     "order.shipped",
				Payload:       []byte(`{"id":0}`),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, repo.MarkSent("d-1"))
	require.NoError(t, repo.MarkSent("d-2"))

	deleted, err := repo.DeleteSentBefore(time.Now().Add(-time.Hour), 10)
	require.NoError(t, err)
	require.Zero(t, deleted)

	deleted, err = repo.DeleteSentBefore(time.Now().Add(time.Minute), 10)
	require.NoError(t, err)
	require.Equal(t, 2, deleted)

	pending, err := repo.PullPending(10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "d-3", pending[0].ID)

	require.ErrorIs(t, repo.MarkSent("d-1"), domain.ErrOutboxPublish)
}

package memory

import (
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

const (
	outboxStatusPending = "pending"
	outboxStatusSent    = "sent"
	outboxStatusFailed  = "failed"
)

// outboxRecord хранит сообщение и служебные поля для in-memory реализации.
type outboxRecord struct {
	msg        domain.OutboxMessage
	status     string
	attemptCnt int
	createdAt  time.Time
	updatedAt  time.Time
}

// outboxQueue хранит сообщения в порядке фиксации транзакций.
type outboxQueue struct {
	order   []string
	records map[string]*outboxRecord
}

func newOutboxQueue() *outboxQueue {
	return &outboxQueue{records: make(map[string]*outboxRecord)}
}

func (q *outboxQueue) push(msg domain.OutboxMessage, now time.Time) {
	q.order = append(q.order, msg.ID)
	q.records[msg.ID] = &outboxRecord{
		msg:       msg,
		status:    outboxStatusPending,
		createdAt: now,
		updatedAt: now,
	}
}

// PullPending возвращает до limit сообщений со статусом `pending` в порядке фиксации.
func (s *Store) PullPending(limit int) ([]domain.OutboxMessage, error) {
	s.outboxMu.Lock()
	defer s.outboxMu.Unlock()

	if limit <= 0 {
		limit = 100
	}

	result := make([]domain.OutboxMessage, 0, limit)
	for _, id := range s.outbox.order {
		rec := s.outbox.records[id]
		if rec.status != outboxStatusPending {
			continue
		}
		result = append(result, rec.msg)
		if len(result) >= limit {
			break
		}
	}
	return result, nil
}

// Stats возвращает размер backlog и время самого старого pending-сообщения.
func (s *Store) Stats() (domain.OutboxStats, error) {
	s.outboxMu.Lock()
	defer s.outboxMu.Unlock()

	var stats domain.OutboxStats
	for _, id := range s.outbox.order {
		rec := s.outbox.records[id]
		if rec.status != outboxStatusPending {
			continue
		}
		if stats.PendingCount == 0 {
			stats.OldestPendingAt = rec.createdAt
		}
		stats.PendingCount++
	}
	return stats, nil
}

// MarkSent обновляет статус события после успешной публикации.
func (s *Store) MarkSent(id string) error {
	return s.mark(id, outboxStatusSent)
}

// MarkFailed фиксирует ошибку публикации.
func (s *Store) MarkFailed(id string) error {
	return s.mark(id, outboxStatusFailed)
}

func (s *Store) mark(id, status string) error {
	s.outboxMu.Lock()
	defer s.outboxMu.Unlock()

	record, ok := s.outbox.records[id]
	if !ok {
		return fmt.Errorf("outbox message %s: %w", id, domain.ErrOutboxPublish)
	}
	record.status = status
	record.attemptCnt++
	record.updatedAt = time.Now().UTC()
	return nil
}

// DeleteSentBefore удаляет опубликованные сообщения, обновлённые не позже before.
func (s *Store) DeleteSentBefore(before time.Time, limit int) (int, error) {
	s.outboxMu.Lock()
	defer s.outboxMu.Unlock()

	if limit <= 0 {
		return 0, nil
	}

	deleted := 0
	kept := s.outbox.order[:0]
	for _, id := range s.outbox.order {
		rec := s.outbox.records[id]
		if deleted < limit && rec.status == outboxStatusSent && !rec.updatedAt.After(before) {
			delete(s.outbox.records, id)
			deleted++
			continue
		}
		kept = append(kept, id)
	}
	s.outbox.order = kept
	return deleted, nil
}

// AllPending возвращает копию всех сообщений со статусом `pending` (используется в тестах).
func (s *Store) AllPending() []domain.OutboxMessage {
	s.outboxMu.Lock()
	defer s.outboxMu.Unlock()

	result := make([]domain.OutboxMessage, 0, len(s.outbox.order))
	for _, id := range s.outbox.order {
		if rec := s.outbox.records[id]; rec.status == outboxStatusPending {
			result = append(result, rec.msg)
		}
	}
	return result
}

var (
	_ domain.OutboxRepository = (*Store)(nil)
	_ domain.OutboxPurger     = (*Store)(nil)
)

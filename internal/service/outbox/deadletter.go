package outbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// ErrNoOriginalPayload возвращается, если DLQ-запись не содержит исходного события.
var ErrNoOriginalPayload = errors.New("dead letter does not contain original event payload")

// DeadLetter — полезная нагрузка сообщения в DLQ: исходное событие плюс причина отказа.
type DeadLetter struct {
	OutboxID       string          `json:"outbox_id"`
	AggregateType  string          `json:"aggregate_type"`
	AggregateID    string          `json:"aggregate_id"`
	EventType      string          `json:"event_type"`
	Payload        json.RawMessage `json:"payload,omitempty"`
	PublishError   string          `json:"publish_error"`
	DLQPublishedAt string          `json:"dlq_published_at"`
}

// NewDeadLetter собирает DLQ-запись для события, исчерпавшего попытки.
func NewDeadLetter(event domain.OutboxMessage, publishErr error, at time.Time) DeadLetter {
	dl := DeadLetter{
		OutboxID:       event.ID,
		AggregateType:  event.AggregateType,
		AggregateID:    event.AggregateID,
		EventType:      event.EventType,
		DLQPublishedAt: at.UTC().Format(time.RFC3339Nano),
	}
	if publishErr != nil {
		dl.PublishError = publishErr.Error()
	}
	if json.Valid(event.Payload) {
		dl.Payload = json.RawMessage(event.Payload)
	}
	return dl
}

// Message упаковывает запись в outbox-сообщение для DLQ publisher.
func (d DeadLetter) Message() (domain.OutboxMessage, error) {
	payload, err := json.Marshal(d)
	if err != nil {
		return domain.OutboxMessage{}, fmt.Errorf("marshal dlq payload: %w", err)
	}
	return domain.OutboxMessage{
		ID:            d.OutboxID,
		AggregateType: d.AggregateType,
		AggregateID:   d.AggregateID,
		EventType:     d.EventType,
		Payload:       payload,
	}, nil
}

// ParseDeadLetter разбирает полезную нагрузку DLQ-сообщения.
func ParseDeadLetter(payload []byte) (DeadLetter, error) {
	var dl DeadLetter
	if err := json.Unmarshal(payload, &dl); err != nil {
		return DeadLetter{}, fmt.Errorf("decode dead letter: %w", err)
	}
	return dl, nil
}

// Original восстанавливает исходное outbox-сообщение для повторной публикации.
func (d DeadLetter) Original() (domain.OutboxMessage, error) {
	if len(d.Payload) == 0 || string(d.Payload) == "null" {
		return domain.OutboxMessage{}, ErrNoOriginalPayload
	}
	return domain.OutboxMessage{
		ID:            d.OutboxID,
		AggregateType: d.AggregateType,
		AggregateID:   d.AggregateID,
		EventType:     d.EventType,
		Payload:       append([]byte(nil), d.Payload...),
	}, nil
}

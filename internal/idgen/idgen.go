// Package idgen выдаёт монотонные идентификаторы товаров, публикаций и заказов.
package idgen

import (
	"fmt"
	"math"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// Counters — часть транзакции, хранящая значения счётчиков.
type Counters interface {
	Counter(name domain.Counter) (int64, error)
	SetCounter(name domain.Counter, value int64) error
}

// Next возвращает текущее значение счётчика и сдвигает его на единицу.
// Значение уже выданного идентификатора никогда не повторяется: если транзакция
// откатится, вместе с ней откатится и счётчик, и идентификатор не будет выдан.
func Next(tx Counters, name domain.Counter) (int64, error) {
	current, err := tx.Counter(name)
	if err != nil {
		return 0, fmt.Errorf("read counter %s: %w", name, err)
	}
	if current < 0 || current == math.MaxInt64 {
		return 0, fmt.Errorf("counter %s: %w", name, domain.ErrOverflow)
	}
	if err := tx.SetCounter(name, current+1); err != nil {
		return 0, fmt.Errorf("advance counter %s: %w", name, err)
	}
	return current, nil
}

package idgen

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

type mapCounters struct {
	values  map[domain.Counter]int64
	readErr error
}

func (m *mapCounters) Counter(name domain.Counter) (int64, error) {
	if m.readErr != nil {
		return 0, m.readErr
	}
	return m.values[name], nil
}

func (m *mapCounters) SetCounter(name domain.Counter, value int64) error {
	m.values[name] = value
	return nil
}

func TestNext_StartsAtZeroAndIncrements(t *testing.T) {
	counters := &mapCounters{values: map[domain.Counter]int64{}}

	for want := int64(0); want < 5; want++ {
		got, err := Next(counters, domain.CounterOrder)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, int64(5), counters.values[domain.CounterOrder])
}

func TestNext_CountersAreIndependent(t *testing.T) {
	counters := &mapCounters{values: map[domain.Counter]int64{domain.CounterListing: 7}}

	listing, err := Next(counters, domain.CounterListing)
	require.NoError(t, err)
	product, err := Next(counters, domain.CounterProduct)
	require.NoError(t, err)

	assert.Equal(t, int64(7), listing)
	assert.Equal(t, int64(0), product)
}

func TestNext_Overflow(t *testing.T) {
	counters := &mapCounters{values: map[domain.Counter]int64{domain.CounterProduct: math.MaxInt64}}

	_, err := Next(counters, domain.CounterProduct)
	require.ErrorIs(t, err, domain.ErrOverflow)
	assert.Equal(t, int64(math.MaxInt64), counters.values[domain.CounterProduct], "counter must not wrap")
}

func TestNext_LastRepresentableValue(t *testing.T) {
	counters := &mapCounters{values: map[domain.Counter]int64{domain.CounterOrder: math.MaxInt64 - 1}}

	id, err := Next(counters, domain.CounterOrder)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64-1), id)

	_, err = Next(counters, domain.CounterOrder)
	require.ErrorIs(t, err, domain.ErrOverflow)
}

func TestNext_ReadError(t *testing.T) {
	boom := errors.New("storage down")
	counters := &mapCounters{values: map[domain.Counter]int64{}, readErr: boom}

	_, err := Next(counters, domain.CounterOrder)
	require.ErrorIs(t, err, boom)
}

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/offerfinder/internal/filter"
	"github.com/GTDGit/offerfinder/internal/models"
)

type memStore struct {
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newMemStore() *memStore {
	return &memStore{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	v, ok := m.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *memStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func TestSearchCache_RoundTrip(t *testing.T) {
	store := newMemStore()
	c := NewSearchCache(store, 30*time.Second)
	ctx := context.Background()
	p := filter.Predicate{Carriers: []int64{1}}

	_, err := c.Get(ctx, p, models.SortDefault, 1, 20)
	assert.ErrorIs(t, err, ErrMiss)

	fee := int64(89000)
	entry := &SearchEntry{
		Rows: []models.OfferRow{{
			ID:         7,
			OfferType:  models.OfferTypeMNP,
			Price:      decimal.NewNullDecimal(decimal.RequireFromString("-12.5")),
			MonthlyFee: &fee,
			StoreName:  "Store 7",
		}},
		HasNextPage: true,
	}
	require.NoError(t, c.Set(ctx, p, models.SortDefault, 1, 20, entry))
	assert.Equal(t, 30*time.Second, store.ttls[c.Key(p, models.SortDefault, 1, 20)])

	got, err := c.Get(ctx, p, models.SortDefault, 1, 20)
	require.NoError(t, err)
	assert.True(t, got.HasNextPage)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, "Store 7", got.Rows[0].StoreName)
	assert.True(t, got.Rows[0].Price.Decimal.Equal(decimal.RequireFromString("-12.5")))

	// other page, other sort: separate keys
	_, err = c.Get(ctx, p, models.SortDefault, 2, 20)
	assert.ErrorIs(t, err, ErrMiss)
	_, err = c.Get(ctx, p, models.SortPriceAsc, 1, 20)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestSearchCache_KeyDependsOnPredicate(t *testing.T) {
	c := NewSearchCache(newMemStore(), time.Second)
	a := c.Key(filter.Predicate{Carriers: []int64{1}}, models.SortDefault, 1, 20)
	b := c.Key(filter.Predicate{Carriers: []int64{2}}, models.SortDefault, 1, 20)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, c.Key(filter.Predicate{Carriers: []int64{1}}, models.SortDefault, 1, 20))
}

func TestSearchCache_Disabled(t *testing.T) {
	store := newMemStore()
	for _, c := range []*SearchCache{NewSearchCache(store, 0), NewSearchCache(nil, time.Minute), nil} {
		require.NoError(t, c.Set(context.Background(), filter.Predicate{}, models.SortDefault, 1, 20, &SearchEntry{}))
		_, err := c.Get(context.Background(), filter.Predicate{}, models.SortDefault, 1, 20)
		assert.ErrorIs(t, err, ErrMiss)
	}
	assert.Empty(t, store.data)
}

func TestSearchCache_StoreErrors(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("connection refused")
	c := NewSearchCache(store, time.Minute)

	_, err := c.Get(context.Background(), filter.Predicate{}, models.SortDefault, 1, 20)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMiss))

	store.err = nil
	store.data[c.Key(filter.Predicate{}, models.SortDefault, 1, 20)] = "{not json"
	_, err = c.Get(context.Background(), filter.Predicate{}, models.SortDefault, 1, 20)
	assert.Error(t, err)
}

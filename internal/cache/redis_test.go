package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamcal77/e-shop-backened/internal/domain"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cartCache := NewRedisCache(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return cartCache, mr, cleanup
}

func sampleView() *domain.CartView {
	return &domain.CartView{
		ID: 5,
		Items: []domain.CartItemView{
			{ProductVariantID: 10, Quantity: 2, SKU: "TSHIRT-M-RED", Price: 99.90, Name: "T-Shirt"},
		},
	}
}

func TestGet_Success(t *testing.T) {
	cartCache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	data, _ := json.Marshal(sampleView())
	mr.Set(cacheKey(5), string(data))

	result, err := cartCache.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.ID)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "TSHIRT-M-RED", result.Items[0].SKU)
}

func TestGet_CacheMiss(t *testing.T) {
	cartCache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	result, err := cartCache.Get(context.Background(), 999)
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, result)
}

func TestGet_InvalidJSON(t *testing.T) {
	cartCache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Set(cacheKey(5), "{not json")

	result, err := cartCache.Get(context.Background(), 5)
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestSet_RoundTrip(t *testing.T) {
	cartCache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, cartCache.Set(ctx, 5, sampleView()))

	// A TTL must be attached so stale carts age out.
	assert.Greater(t, mr.TTL(cacheKey(5)), time.Duration(0))

	result, err := cartCache.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.ID)
}

func TestDelete_RemovesKey(t *testing.T) {
	cartCache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, cartCache.Set(ctx, 5, sampleView()))
	require.NoError(t, cartCache.Delete(ctx, 5))

	_, err := cartCache.Get(ctx, 5)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestDelete_MissingKeyIsNoError(t *testing.T) {
	cartCache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	assert.NoError(t, cartCache.Delete(context.Background(), 12345))
}

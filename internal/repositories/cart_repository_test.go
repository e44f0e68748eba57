package repositories_test

import (
	"context"
	"testing"
	"time"

	"orderuz/internal/models"
	"orderuz/internal/repositories"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCartRepository(t *testing.T, repo repositories.CartRepository) {
	ctx := context.Background()

	lines, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, lines)

	want := []models.CartLine{
		{ItemID: "food-1", RestaurantID: "res-2", Name: "Wedding Plov Special", UnitPrice: 45000, Quantity: 2},
		{ItemID: "food-2", RestaurantID: "res-1", Name: "Mixed Shashlik Platter", UnitPrice: 68000, Quantity: 1},
	}
	require.NoError(t, repo.Save(ctx, "s1", want))

	lines, err = repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, want, lines)

	// Mutating the returned slice must not leak into the store.
	lines[0].Quantity = 99
	again, _ := repo.Get(ctx, "s1")
	assert.Equal(t, 2, again[0].Quantity)

	other, err := repo.Get(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, repo.Save(ctx, "s1", nil))
	lines, err = repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, lines)

	require.NoError(t, repo.Save(ctx, "s1", want))
	require.NoError(t, repo.Delete(ctx, "s1"))
	lines, _ = repo.Get(ctx, "s1")
	assert.Empty(t, lines)
}

func TestMockCartRepository(t *testing.T) {
	testCartRepository(t, repositories.NewMockCartRepository())
}

func newRedisCartRepository(t *testing.T, ttl time.Duration) (*repositories.RedisCartRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return repositories.NewRedisCartRepository(client, ttl), mr
}

func TestRedisCartRepository(t *testing.T) {
	repo, _ := newRedisCartRepository(t, time.Hour)
	testCartRepository(t, repo)
}

func TestRedisCartRepository_TTL(t *testing.T) {
	ctx := context.Background()
	repo, mr := newRedisCartRepository(t, 30*time.Minute)

	require.NoError(t, repo.Save(ctx, "s1", []models.CartLine{{ItemID: "food-3", UnitPrice: 32000, Quantity: 1}}))
	assert.True(t, mr.Exists("cart:s1"))
	assert.Equal(t, 30*time.Minute, mr.TTL("cart:s1"))

	mr.FastForward(31 * time.Minute)
	lines, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestRedisCartRepository_CorruptValue(t *testing.T) {
	repo, mr := newRedisCartRepository(t, time.Hour)
	require.NoError(t, mr.Set("cart:s1", "{not json"))

	_, err := repo.Get(context.Background(), "s1")
	assert.Error(t, err)
}

func TestRedisCartRepository_ServerDown(t *testing.T) {
	repo, mr := newRedisCartRepository(t, time.Hour)
	mr.Close()

	_, err := repo.Get(context.Background(), "s1")
	assert.Error(t, err)
}

package alert_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-booking-console/internal/alert"
)

func TestRedisKVStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	kv := alert.NewRedisKVStore(client)
	ctx := context.Background()

	_, err := kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, alert.ErrKeyNotFound)

	require.NoError(t, kv.Set(ctx, "venue:test", `{"a":1}`))
	val, err := kv.Get(ctx, "venue:test")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, val)

	// No expiry: the record must outlive any session TTLs.
	assert.Equal(t, int64(0), int64(mr.TTL("venue:test")))

	require.NoError(t, kv.Delete(ctx, "venue:test"))
	_, err = kv.Get(ctx, "venue:test")
	assert.ErrorIs(t, err, alert.ErrKeyNotFound)
}

func TestResolutionStoreOnRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	kv := alert.NewRedisKVStore(client)

	store := alert.NewResolutionStore(ctx, kv, "")
	store.Dismiss(ctx, "cap-2025-11-15-DINNER-A", "overflow approved")

	reloaded := alert.NewResolutionStore(ctx, alert.NewRedisKVStore(client), "")
	res, ok := reloaded.Get("cap-2025-11-15-DINNER-A")
	require.True(t, ok)
	assert.Equal(t, alert.StatusDismissed, res.Status)
	assert.Equal(t, "overflow approved", res.Note)
}

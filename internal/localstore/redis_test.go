package localstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates an in-memory Redis instance for testing
func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisBackend_SetGetRemove(t *testing.T) {
	mr, client := setupTestRedis(t)
	backend := NewRedisBackendWithClient(client)
	ctx := context.Background()

	_, ok, err := backend.GetItem(ctx, "device-1", "doctorSession")
	require.NoError(t, err)
	assert.False(t, ok, "missing item should report not found")

	require.NoError(t, backend.SetItem(ctx, "device-1", "doctorSession", `{"id":1}`))

	value, ok, err := backend.GetItem(ctx, "device-1", "doctorSession")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":1}`, value)

	assert.True(t, mr.Exists("localstore:device-1"))
	assert.Zero(t, mr.TTL("localstore:device-1"), "items must not expire")

	require.NoError(t, backend.RemoveItem(ctx, "device-1", "doctorSession"))
	_, ok, err = backend.GetItem(ctx, "device-1", "doctorSession")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisBackend_DevicesAreIsolated(t *testing.T) {
	_, client := setupTestRedis(t)
	backend := NewRedisBackendWithClient(client)
	ctx := context.Background()

	a := ForDevice(backend, "device-a")
	b := ForDevice(backend, "device-b")

	require.NoError(t, a.SetItem(ctx, "doctorSession", "A"))
	require.NoError(t, b.SetItem(ctx, "doctorSession", "B"))

	va, _, err := a.GetItem(ctx, "doctorSession")
	require.NoError(t, err)
	vb, _, err := b.GetItem(ctx, "doctorSession")
	require.NoError(t, err)

	assert.Equal(t, "A", va)
	assert.Equal(t, "B", vb)
}

func TestRedisBackend_ServerDown(t *testing.T) {
	mr, client := setupTestRedis(t)
	backend := NewRedisBackendWithClient(client)
	mr.Close()

	_, _, err := backend.GetItem(context.Background(), "device-1", "doctorSession")
	assert.Error(t, err)
}

func TestNewRedisBackend_PingFails(t *testing.T) {
	_, err := NewRedisBackend(context.Background(), "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}

package cache

import (
	"context"
	"testing"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*redis.Client, *mr.Miniredis) {
	t.Helper()
	srv := mr.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, srv
}

func TestRedisInvalidator_Clear(t *testing.T) {
	client, srv := newTestRedis(t)
	require.NoError(t, srv.Set("users:abc-123", "cached"))
	require.NoError(t, srv.Set("users:def-456", "cached"))

	inv := NewRedisInvalidator(client)
	require.NoError(t, inv.Clear(context.Background()))

	require.False(t, srv.Exists("users:abc-123"))
	require.False(t, srv.Exists("users:def-456"))
}

func TestRedisInvalidator_ServerGone(t *testing.T) {
	client, srv := newTestRedis(t)
	srv.Close()

	inv := NewRedisInvalidator(client)
	require.Error(t, inv.Clear(context.Background()))
}

func TestNoop_Clear(t *testing.T) {
	require.NoError(t, Noop{}.Clear(context.Background()))
}

package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bluebird/pkg/redis"
)

func TestConnect(t *testing.T) {
	t.Parallel()

	t.Run("connects to running server", func(t *testing.T) {
		t.Parallel()
		mr := miniredis.RunT(t)

		client, err := redis.Connect(context.Background(), redis.Config{
			ConnectionURL:  "redis://" + mr.Addr() + "/0",
			RetryAttempts:  3,
			RetryInterval:  10 * time.Millisecond,
			ConnectTimeout: time.Second,
		})
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })

		require.NoError(t, redis.Healthcheck(client)(context.Background()))
	})

	t.Run("empty url", func(t *testing.T) {
		t.Parallel()
		_, err := redis.Connect(context.Background(), redis.Config{})
		assert.ErrorIs(t, err, redis.ErrEmptyURL)
	})

	t.Run("invalid url", func(t *testing.T) {
		t.Parallel()
		_, err := redis.Connect(context.Background(), redis.Config{ConnectionURL: "http://nope"})
		assert.ErrorIs(t, err, redis.ErrInvalidURL)
	})

	t.Run("server never answers", func(t *testing.T) {
		t.Parallel()
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		_, err := redis.Connect(context.Background(), redis.Config{
			ConnectionURL:  "redis://" + addr + "/0",
			RetryAttempts:  2,
			RetryInterval:  10 * time.Millisecond,
			ConnectTimeout: time.Second,
		})
		assert.ErrorIs(t, err, redis.ErrNotReady)
	})
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client, err := redis.Connect(context.Background(), redis.Config{
		ConnectionURL: "redis://" + mr.Addr(),
		RetryAttempts: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	check := redis.Healthcheck(client)
	require.NoError(t, check(context.Background()))

	mr.Close()
	assert.ErrorIs(t, check(context.Background()), redis.ErrHealthcheckFailed)
}

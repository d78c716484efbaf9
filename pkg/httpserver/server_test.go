package httpserver_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bluebird/pkg/httpserver"
)

func startServer(t *testing.T, ctx context.Context, srv *httpserver.Server, addrCh <-chan string, h http.Handler) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, h) }()

	select {
	case <-addrCh:
	case err := <-done:
		require.FailNow(t, "server exited early", "%v", err)
	case <-time.After(2 * time.Second):
		require.FailNow(t, "server did not start")
	}
	return done
}

func TestRunAndCancel(t *testing.T) {
	t.Parallel()

	addrCh := make(chan string, 1)
	var addr string
	srv := httpserver.New(
		httpserver.WithAddr("127.0.0.1:0"),
		httpserver.WithShutdownTimeout(time.Second),
		httpserver.WithOnListen(func(a string) { addr = a; addrCh <- a }),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := startServer(t, ctx, srv, addrCh, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	resp, err := http.Get("http://" + addr)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		require.Fail(t, "run did not finish")
	}
}

func TestManualShutdown(t *testing.T) {
	t.Parallel()

	addrCh := make(chan string, 1)
	srv := httpserver.New(
		httpserver.WithAddr("127.0.0.1:0"),
		httpserver.WithShutdownTimeout(time.Second),
		httpserver.WithOnListen(func(a string) { addrCh <- a }),
	)

	done := startServer(t, context.Background(), srv, addrCh, nil)

	require.NoError(t, srv.Shutdown(context.Background()))
	require.NoError(t, <-done)
	require.NoError(t, srv.Shutdown(context.Background()), "repeated shutdown")
}

func TestRunTwice(t *testing.T) {
	t.Parallel()

	addrCh := make(chan string, 1)
	srv := httpserver.New(
		httpserver.WithAddr("127.0.0.1:0"),
		httpserver.WithOnListen(func(a string) { addrCh <- a }),
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := startServer(t, ctx, srv, addrCh, nil)
	assert.ErrorIs(t, srv.Run(ctx, nil), httpserver.ErrAlreadyRunning)

	cancel()
	require.NoError(t, <-done)
}

func TestRunListenError(t *testing.T) {
	t.Parallel()

	srv := httpserver.New(httpserver.WithAddr("256.0.0.1:bad"))
	err := srv.Run(context.Background(), nil)
	assert.ErrorIs(t, err, httpserver.ErrStart)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		httpserver.NewFromConfig(httpserver.Config{})
	})
	assert.Panics(t, func() {
		httpserver.New(httpserver.WithAddr(""))
	})
	assert.Panics(t, func() {
		httpserver.New(httpserver.WithShutdownTimeout(0))
	})
}

func TestHealthCheckHandler(t *testing.T) {
	t.Parallel()

	t.Run("liveness", func(t *testing.T) {
		w := httptest.NewRecorder()
		httpserver.HealthCheckHandler(nil)(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ALIVE", w.Body.String())
	})

	t.Run("ready", func(t *testing.T) {
		w := httptest.NewRecorder()
		ok := func(context.Context) error { return nil }
		httpserver.HealthCheckHandler(nil, ok, ok)(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "READY", w.Body.String())
	})

	t.Run("not ready", func(t *testing.T) {
		called := false
		failing := func(context.Context) error { return errors.New("db down") }
		after := func(context.Context) error { called = true; return nil }

		w := httptest.NewRecorder()
		httpserver.HealthCheckHandler(nil, failing, after)(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "NOT_READY", w.Body.String())
		assert.False(t, called)
	})
}

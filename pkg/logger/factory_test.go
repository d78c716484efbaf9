package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bluebird/pkg/logger"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Run("creates JSON logger", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Info("hello")
		entry := decode(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
	})

	t.Run("default level hides debug", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Debug("hidden")
		assert.Empty(t, buf.String())
	})

	t.Run("text formatter option", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithTextFormatter())
		log.Info("hello")
		assert.Contains(t, buf.String(), "level=INFO")
	})

	t.Run("static attributes", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithAttr(slog.String("svc", "test")))
		log.Info("msg")
		assert.Equal(t, "test", decode(t, buf)["svc"])
	})

	t.Run("context value", func(t *testing.T) {
		type key struct{}
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithContextValue("tenant", key{}))

		log.InfoContext(context.WithValue(context.Background(), key{}, "acme"), "msg")
		assert.Equal(t, "acme", decode(t, buf)["tenant"])

		buf.Reset()
		log.InfoContext(context.Background(), "msg")
		assert.NotContains(t, decode(t, buf), "tenant")
	})

	t.Run("context extractors survive With", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithContextExtractors(nil, func(context.Context) (slog.Attr, bool) {
				return slog.String("request_id", "r-1"), true
			}),
		)
		log.With(logger.Component("auth")).InfoContext(context.Background(), "msg")
		entry := decode(t, buf)
		assert.Equal(t, "r-1", entry["request_id"])
		assert.Equal(t, "auth", entry["component"])
	})
}

func TestWithEnvironment(t *testing.T) {
	t.Run("development is text at debug", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithEnvironment("dev", "bluebird"))
		log.Debug("msg")
		out := buf.String()
		assert.Contains(t, out, "level=DEBUG")
		assert.Contains(t, out, "service=bluebird")
		assert.Contains(t, out, "env=development")
	})

	t.Run("production is json at info", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithEnvironment("prod", "bluebird"))
		log.Debug("hidden")
		assert.Empty(t, buf.String())

		log.Info("msg")
		entry := decode(t, buf)
		assert.Equal(t, "bluebird", entry["service"])
		assert.Equal(t, logger.EnvProduction, entry["env"])
	})

	t.Run("staging", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithEnvironment(logger.EnvStaging, ""))
		log.Info("msg")
		entry := decode(t, buf)
		assert.Equal(t, logger.EnvStaging, entry["env"])
		assert.NotContains(t, entry, "service")
	})
}

func TestSetAsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	buf := &bytes.Buffer{}
	logger.SetAsDefault(logger.New(logger.WithOutput(buf)))
	slog.Info("default")
	assert.Equal(t, "default", decode(t, buf)["msg"])
}

func TestWithFormatPanics(t *testing.T) {
	assert.Panics(t, func() {
		logger.New(logger.WithFormat(logger.Format("xml")))
	})
}

func TestDiscard(t *testing.T) {
	log := logger.Discard()
	require.NotNil(t, log)
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
}

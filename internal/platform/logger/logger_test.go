package logger

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webdir/client-provider-api/internal/config"
)

func TestSetupLevels(t *testing.T) {
	// Not parallel: Setup mutates the process default logger.
	original := slog.Default()
	defer slog.SetDefault(original)

	for _, level := range []string{"debug", "info", "warn", "error", "WARN", "bogus", ""} {
		log, err := Setup(config.ServerConfig{Port: 8080, LogLevel: level})
		require.NoError(t, err, "Setup should not fail for level %q", level)
		require.NotNil(t, log, "Setup should return a logger for level %q", level)
	}
}

func TestSetupRespectsConfiguredLevel(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	log, err := Setup(config.ServerConfig{Port: 8080, LogLevel: "warn"})
	require.NoError(t, err)

	ctx := context.Background()
	assert.False(t, log.Enabled(ctx, slog.LevelInfo), "info should be disabled at warn level")
	assert.True(t, log.Enabled(ctx, slog.LevelWarn), "warn should be enabled at warn level")
}

func TestWithLoggerAndFromContext(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// Without an attached logger, the default is returned.
	assert.Equal(t, slog.Default(), FromContext(ctx))

	attached := slog.New(slog.NewTextHandler(os.Stderr, nil)).With("component", "test")
	ctx = WithLogger(ctx, attached)
	assert.Same(t, attached, FromContext(ctx))
}

func TestFromContextOrDefault(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	def := slog.New(slog.NewTextHandler(os.Stderr, nil))

	assert.Same(t, def, FromContextOrDefault(ctx, def), "should fall back to provided default")
	assert.Equal(t, slog.Default(), FromContextOrDefault(ctx, nil), "nil default falls back to process default")

	attached := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx = WithLogger(ctx, attached)
	assert.Same(t, attached, FromContextOrDefault(ctx, def))
}

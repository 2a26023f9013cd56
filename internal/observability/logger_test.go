package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/couchcryptid/nyc-parking-dashboard/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger_HonoursLevel(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	tests := []struct {
		level      string
		enabled    slog.Level
		suppressed slog.Level
	}{
		{"debug", slog.LevelDebug, slog.LevelDebug - 1},
		{"info", slog.LevelInfo, slog.LevelDebug},
		{"warn", slog.LevelWarn, slog.LevelInfo},
		{"error", slog.LevelError, slog.LevelWarn},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := NewLogger(&config.Config{LogLevel: tt.level, LogFormat: "json"})

			ctx := context.Background()
			assert.True(t, logger.Enabled(ctx, tt.enabled))
			assert.False(t, logger.Enabled(ctx, tt.suppressed))
			assert.Same(t, logger.Handler(), slog.Default().Handler())
		})
	}
}

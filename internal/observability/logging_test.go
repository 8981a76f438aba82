package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vyrodovalexey/poolgw/internal/util"
)

func TestDefaultLogConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultLogConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.Equal(t, "stdout", cfg.Output)
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  LogConfig
		wantErr bool
	}{
		{
			name:   "default config",
			config: DefaultLogConfig(),
		},
		{
			name:   "console format",
			config: LogConfig{Level: "debug", Format: FormatConsole, Output: "stdout"},
		},
		{
			name:   "stderr output",
			config: LogConfig{Level: "warn", Format: FormatJSON, Output: "stderr"},
		},
		{
			name:   "empty level defaults to info",
			config: LogConfig{},
		},
		{
			name:    "invalid level",
			config:  LogConfig{Level: "loud", Format: FormatJSON},
			wantErr: true,
		},
		{
			name:    "invalid format",
			config:  LogConfig{Level: "info", Format: "xml"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, err := NewLogger(tt.config)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, logger)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestLogger_WithContextAddsRequestFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewLoggerFromZap(zap.New(core))

	ctx := util.ContextWithRequestID(context.Background(), "req-1")
	ctx = util.ContextWithTraceID(ctx, "trace-1")

	logger.WithContext(ctx).Info("selected instance", String("service", "menu"))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "trace-1", fields["trace_id"])
	assert.Equal(t, "menu", fields["service"])
	assert.NotContains(t, fields, "span_id")
}

func TestLogger_WithContextWithoutFieldsReturnsSameLogger(t *testing.T) {
	t.Parallel()

	logger := NopLogger()
	assert.Same(t, logger, logger.WithContext(context.Background()))
}

func TestLogger_Levels(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewLoggerFromZap(zap.New(core)).With(String("component", "test"))

	logger.Debug("d")
	logger.Info("i")
	logger.Warn("w")
	logger.Error("e")

	require.Equal(t, 4, logs.Len())
	levels := make([]zapcore.Level, 0, 4)
	for _, entry := range logs.All() {
		levels = append(levels, entry.Level)
		assert.Equal(t, "test", entry.ContextMap()["component"])
	}
	assert.Equal(t, []zapcore.Level{
		zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel,
	}, levels)
	assert.NoError(t, logger.Sync())
}

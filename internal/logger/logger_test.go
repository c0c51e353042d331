package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		l, err := New(tt.level, "json")
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(tt.expected), "level %s should be enabled", tt.level)
		if tt.expected > zapcore.DebugLevel {
			assert.False(t, l.Core().Enabled(tt.expected-1), "level below %s should be disabled", tt.level)
		}
	}
}

func TestZapAdapter_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core))

	log.With(map[string]interface{}{"requestId": "abc"}).
		WithError(errors.New("boom")).
		Warn("merge failed", map[string]interface{}{"rows": 3})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "merge failed", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "abc", ctx["requestId"])
	assert.Equal(t, "boom", ctx["error"])
	assert.EqualValues(t, 3, ctx["rows"])
}

func TestNoOpLogger(t *testing.T) {
	log := NewNoOpLogger()
	log.Info("ignored", nil)
	assert.NoError(t, log.Sync())
}

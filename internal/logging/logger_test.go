package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level   string
		enabled zapcore.Level
		muted   zapcore.Level
	}{
		{"", zapcore.WarnLevel, zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"INFO", zapcore.InfoLevel, zapcore.DebugLevel},
		{"error", zapcore.ErrorLevel, zapcore.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := New(Options{Level: tt.level})
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.enabled))
			assert.False(t, logger.Core().Enabled(tt.muted))
		})
	}
}

func TestNew_RejectsBadInput(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)

	_, err = New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestFor_DisabledCategoryIsNop(t *testing.T) {
	_, err := New(Options{Categories: map[string]bool{"watch": false, "world": true}})
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = New(Options{}) })

	core, logs := observer.New(zapcore.DebugLevel)
	root := zap.New(core)

	For(root, CategoryWatch).Info("dropped")
	For(root, CategoryWorld).Info("kept")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Message)
	assert.Equal(t, "world", entries[0].LoggerName)
}

func TestFor_NilParent(t *testing.T) {
	assert.NotPanics(t, func() {
		For(nil, CategoryVerify).Info("ignored")
	})
}

func TestWithRunID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger, id := WithRunID(zap.New(core))
	require.NotEmpty(t, id)

	logger.Info("run started")
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].ContextMap()["run_id"])

	_, other := WithRunID(nil)
	assert.NotEqual(t, id, other)
}

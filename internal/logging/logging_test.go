package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"WARN", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	} {
		log, err := New(tc.in)
		require.NoError(t, err, tc.in)
		assert.True(t, log.Core().Enabled(tc.want), tc.in)
		if tc.want > zapcore.DebugLevel {
			assert.False(t, log.Core().Enabled(tc.want-1), tc.in)
		}
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("chatty")
	assert.ErrorContains(t, err, "logging:")
}

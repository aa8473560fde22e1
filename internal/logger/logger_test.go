package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		enabled zapcore.Level
		hidden  zapcore.Level
	}{
		{name: "debug", cfg: Config{Level: "debug", Format: "console"}, enabled: zapcore.DebugLevel, hidden: zapcore.InvalidLevel},
		{name: "info json", cfg: Config{Level: "info", Format: "json"}, enabled: zapcore.InfoLevel, hidden: zapcore.DebugLevel},
		{name: "warn", cfg: Config{Level: "warn"}, enabled: zapcore.WarnLevel, hidden: zapcore.InfoLevel},
		{name: "unknown level falls back to info", cfg: Config{Level: "loud"}, enabled: zapcore.InfoLevel, hidden: zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg)
			require.NoError(t, err)

			core := log.Core()
			assert.True(t, core.Enabled(tt.enabled))
			if tt.hidden != zapcore.InvalidLevel {
				assert.False(t, core.Enabled(tt.hidden))
			}
		})
	}
}

package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"Error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestProductionLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l := NewProductionLogger(LoggerOptions{Service: "test", Level: "debug", FilePath: path})

	l.Info("chat created", "chat_id", "abc")
	l.Debug("prompt built", "length", 42)
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"chat created"`)
	assert.Contains(t, string(data), `"chat_id":"abc"`)
	assert.Contains(t, string(data), `"service":"test"`)
}

func TestNewLoggerTestEnv(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	_, ok := NewLogger("x").(*NoOpLogger)
	assert.True(t, ok)
}

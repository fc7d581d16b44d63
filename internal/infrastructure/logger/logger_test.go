package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{name: "defaults", cfg: DefaultConfig()},
		{name: "json to stdout", cfg: &Config{Level: "info", Format: "json", Output: "stdout", TimeFormat: "2006-01-02T15:04:05Z07:00"}},
		{name: "debug console", cfg: &Config{Level: "debug", Format: "console", Output: "stderr", TimeFormat: "2006-01-02T15:04:05Z07:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg)
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestNew_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")
	log, err := New(&Config{Level: "info", Format: "json", Output: path, TimeFormat: "2006-01-02T15:04:05Z07:00"})
	require.NoError(t, err)

	log.Info("written to file")
	require.NoError(t, Sync(log))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestNew_UnwritableFileSinkFails(t *testing.T) {
	_, err := New(&Config{Level: "info", Format: "json", Output: "/nonexistent-dir/service.log", TimeFormat: "2006-01-02T15:04:05Z07:00"})
	assert.Error(t, err)
}

func TestZapLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"nonsense", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, zapLevel(tt.level))
		})
	}
}

func TestJSONOutputShape(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{Level: "info", Format: "json", TimeFormat: "2006-01-02T15:04:05Z07:00"}

	core := zapcore.NewCore(newEncoder(cfg), zapcore.AddSync(&buf), zapcore.InfoLevel)
	log := zap.New(core)

	log.Info("catalogue loaded", zap.Int("fields", 42))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "catalogue loaded", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, float64(42), entry["fields"])
}

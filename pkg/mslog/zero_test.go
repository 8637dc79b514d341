package mslog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewZeroLogger_DefaultIsJSON(t *testing.T) {
	var buf bytes.Buffer

	logger := NewZeroLogger("", "info", false)
	l := logger.Output(&buf)
	l.Info().Str("replica set", "shard1ReplSet").Msg("test message")

	out := buf.String()

	if !strings.Contains(out, `"level":"info"`) {
		t.Fatalf("expected JSON output with level field, got: %s", out)
	}
	if !strings.Contains(out, `"message":"test message"`) {
		t.Fatalf("expected JSON output with message field, got: %s", out)
	}
	if !strings.Contains(out, `"replica set":"shard1ReplSet"`) {
		t.Fatalf("expected JSON output with replica set field, got: %s", out)
	}
}

func TestZeroDefaultLevelIsInfo(t *testing.T) {
	level := Zero.GetLevel()
	if level != zerolog.InfoLevel {
		t.Fatalf("expected default log level to be Info, got: %v", level)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{in: "trace", want: zerolog.TraceLevel},
		{in: "debug", want: zerolog.DebugLevel},
		{in: "info", want: zerolog.InfoLevel},
		{in: "warn", want: zerolog.WarnLevel},
		{in: "warning", want: zerolog.WarnLevel},
		{in: "error", want: zerolog.ErrorLevel},
		{in: "fatal", want: zerolog.FatalLevel},
		{in: "", want: zerolog.InfoLevel},
		{in: "DEBUG5", want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestUpdateZeroLogLevel(t *testing.T) {
	prev := Zero
	t.Cleanup(func() { Zero = prev })

	assert.NoError(t, UpdateZeroLogLevel("debug"))
	assert.Equal(t, zerolog.DebugLevel, Zero.GetLevel())
}

func TestNewZeroLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mongoshard.log")

	logger := NewZeroLogger(path, "warn", false)
	logger.Info().Msg("dropped")
	logger.Warn().Msg("kept")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), "kept")
}

func TestReloadLoggerReportsUnwritableFile(t *testing.T) {
	prev := Zero
	t.Cleanup(func() { Zero = prev })

	path := filepath.Join(t.TempDir(), "missing", "mongoshard.log")

	err := ReloadLogger(path, false)
	assert.Error(t, err)
	assert.Same(t, prev, Zero, "logger must stay in place")
}

func TestReloadLoggerSwitchesToFile(t *testing.T) {
	prev, prevFile := Zero, logFile
	t.Cleanup(func() { Zero, logFile = prev, prevFile })

	path := filepath.Join(t.TempDir(), "mongoshard.log")

	require.NoError(t, ReloadLogger(path, false))
	Zero.Info().Str("replica set", "shard2ReplSet").Msg("initiating replica set")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "shard2ReplSet")
}

func TestNewZeroLoggerFallsBackToStdout(t *testing.T) {
	logger := NewZeroLogger(filepath.Join(t.TempDir(), "missing", "x.log"), "info", false)
	assert.NotNil(t, logger)
}

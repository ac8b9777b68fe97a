package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/autopage/pkg/paths"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zerolog.Level
	}{
		{-1, zerolog.InfoLevel},
		{0, zerolog.InfoLevel},
		{1, zerolog.DebugLevel},
		{2, zerolog.TraceLevel},
		{5, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestGetLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	logger := GetLogger("icons")
	logger.Info().Msg("resolved")

	assert.Contains(t, buf.String(), `"component":"icons"`)
	assert.Contains(t, buf.String(), "resolved")
}

func TestLogOperationStart(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	done := LogOperationStart(logger, "generate")
	done()

	out := buf.String()
	assert.Contains(t, out, "Operation started")
	assert.Contains(t, out, "Operation completed")
	assert.Contains(t, out, "duration")
}

func TestSetupLoggerCreatesLogFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(paths.EnvStateDir, dir)

	SetupLogger(1)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	log.Info().Msg("hello from test")

	data, err := os.ReadFile(filepath.Join(dir, paths.LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

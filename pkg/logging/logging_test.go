package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreGlobals(t *testing.T) {
	t.Helper()
	saved := log.Logger
	level := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = saved
		zerolog.SetGlobalLevel(level)
	})
}

func TestLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zerolog.Level
	}{
		{-1, zerolog.WarnLevel},
		{0, zerolog.WarnLevel},
		{1, zerolog.InfoLevel},
		{2, zerolog.DebugLevel},
		{3, zerolog.TraceLevel},
		{7, zerolog.TraceLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Level(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestSetupWritesConsoleAndFile(t *testing.T) {
	restoreGlobals(t)
	var console bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "state", "astutus.log")

	closer := Setup(Options{Verbosity: 1, LogFile: logFile, Console: &console})
	log.Info().Str("path", "/sys/devices/pci0000:00").Msg("walking")
	log.Debug().Msg("hidden")
	require.NoError(t, closer.Close())

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	assert.Contains(t, console.String(), "walking")
	assert.NotContains(t, console.String(), "hidden")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"walking"`)
}

func TestSetupWithoutFile(t *testing.T) {
	restoreGlobals(t)
	var console bytes.Buffer

	closer := Setup(Options{Console: &console})
	log.Warn().Msg("console only")

	assert.NoError(t, closer.Close())
	assert.Contains(t, console.String(), "console only")
}

func TestSetupUnwritableFileFallsBack(t *testing.T) {
	restoreGlobals(t)
	var console bytes.Buffer
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	closer := Setup(Options{LogFile: filepath.Join(blocker, "astutus.log"), Console: &console})

	assert.NoError(t, closer.Close())
	assert.Contains(t, console.String(), "Logging to console only")
}

func TestGetLoggerTagsComponent(t *testing.T) {
	restoreGlobals(t)
	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	logger := GetLogger("classifier")
	logger.Warn().Msg("hello")

	assert.Contains(t, buf.String(), `"component":"classifier"`)
}

func TestLogCommand(t *testing.T) {
	var buf bytes.Buffer
	LogCommand(zerolog.New(&buf).Level(zerolog.DebugLevel), "lsusb", []string{"-v", "-s", "010:021"})

	assert.Contains(t, buf.String(), `"command":"lsusb"`)
	assert.Contains(t, buf.String(), "010:021")
}

func TestLogOperationStart(t *testing.T) {
	var buf bytes.Buffer
	done := LogOperationStart(zerolog.New(&buf).Level(zerolog.DebugLevel), "walk")
	done()

	assert.Contains(t, buf.String(), "Operation started")
	assert.Contains(t, buf.String(), `"duration"`)
}

package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/composer/pkg/paths"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{"default warn level", 0, zerolog.WarnLevel},
		{"info level", 1, zerolog.InfoLevel},
		{"debug level", 2, zerolog.DebugLevel},
		{"trace level", 3, zerolog.TraceLevel},
		{"high verbosity defaults to trace", 5, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			t.Setenv(paths.EnvStateDir, tempDir)

			SetupLogger(tt.verbosity)

			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())

			logPath := filepath.Join(tempDir, "composer.log")
			_, err := os.Stat(logPath)
			assert.NoError(t, err, "log file should be created at %s", logPath)
		})
	}
}

func TestGetLogFilePath(t *testing.T) {
	t.Setenv(paths.EnvStateDir, "/custom/state")
	assert.Equal(t, "/custom/state/composer.log", getLogFilePath())

	t.Setenv(paths.EnvStateDir, "")
	got := getLogFilePath()
	assert.True(t, filepath.IsAbs(got), "getLogFilePath() returned relative path: %s", got)
	assert.Contains(t, filepath.ToSlash(got), "composer/composer.log")
}

func TestGetLogger(t *testing.T) {
	var buf bytes.Buffer
	original := log.Logger
	t.Cleanup(func() { log.Logger = original })
	log.Logger = zerolog.New(&buf)

	logger := GetLogger("rules")
	logger.Warn().Msg("hello")

	assert.Contains(t, buf.String(), `"component":"rules"`)
	assert.Contains(t, buf.String(), "hello")
}

func TestLogOperationStart(t *testing.T) {
	var buf bytes.Buffer
	previous := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(previous) })
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	logger := zerolog.New(&buf)
	done := LogOperationStart(logger, "apply")
	done()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Operation started")
	assert.Contains(t, lines[1], "duration")
}

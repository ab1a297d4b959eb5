package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreDefaultLogger(t *testing.T) {
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetLevel(log.InfoLevel)
	})
}

func TestSetup_WritesToFile(t *testing.T) {
	restoreDefaultLogger(t)
	path := filepath.Join(t.TempDir(), "gridsnake.log")

	closer, err := Setup(Options{Level: "debug", File: path})
	require.NoError(t, err)

	log.Debug("frame processed", "frame", 42)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "frame processed")
	assert.Contains(t, string(data), "frame=42")
	assert.Equal(t, log.DebugLevel, log.GetLevel())
}

func TestSetup_LevelFiltersAndErrors(t *testing.T) {
	restoreDefaultLogger(t)
	path := filepath.Join(t.TempDir(), "quiet.log")

	closer, err := Setup(Options{Level: "warn", File: path})
	require.NoError(t, err)
	log.Info("should not appear")
	log.Warn("should appear")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "should not appear")
	assert.Contains(t, string(data), "should appear")

	_, err = Setup(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestSetup_NoSinks(t *testing.T) {
	restoreDefaultLogger(t)

	closer, err := Setup(Options{})
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
	assert.Equal(t, log.InfoLevel, log.GetLevel())
}

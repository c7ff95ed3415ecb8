package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the global config dir at a fresh temp dir and runs the test
// from another temp dir so no real user or project config leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	globalDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", globalDir)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return filepath.Join(globalDir, "tracetail")
}

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestDefaults(t *testing.T) {
	isolate(t)

	cfg, err := NewWithOverrides(nil)
	require.NoError(t, err)

	assert.Equal(t, "INFO", cfg.Log.Level)
	assert.Equal(t, 500, cfg.Render.UnknownLimit)
	assert.Equal(t, 10, cfg.Render.TodoLimit)
	assert.Equal(t, 120, cfg.Render.EditPreview)
	assert.Equal(t, 0, cfg.Render.DescriptionWidth)
	assert.Equal(t, "claude", cfg.Watch.Command)
	assert.Equal(t, 5*time.Second, cfg.Watch.Delay)
	assert.Equal(t, 10*time.Minute, cfg.Daemon.JobTimeout)
	require.Len(t, cfg.Daemon.Jobs, 3)
	assert.Equal(t, "learn", cfg.Daemon.Jobs[0].Name)
	assert.Equal(t, 5*time.Minute, cfg.Daemon.Jobs[0].Interval)
}

func TestGlobalConfigFile(t *testing.T) {
	globalDir := isolate(t)
	writeConfig(t, globalDir, "limits.tracetail.yaml", "render:\n  unknown_limit: 250\n")

	cfg, err := NewWithOverrides(nil)
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.Render.UnknownLimit)
	// Untouched siblings keep their defaults.
	assert.Equal(t, 10, cfg.Render.TodoLimit)
}

func TestLocalOverridesGlobal(t *testing.T) {
	globalDir := isolate(t)
	writeConfig(t, globalDir, "limits.tracetail.yaml", "render:\n  unknown_limit: 250\n")
	writeConfig(t, ".tracetail", "limits.tracetail.yaml", "render:\n  unknown_limit: 100\n")

	cfg, err := NewWithOverrides(nil)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Render.UnknownLimit)
}

func TestEnvironmentVariable(t *testing.T) {
	isolate(t)
	t.Setenv("TRACETAIL_LOG_LEVEL", "DEBUG")

	cfg, err := NewWithOverrides(nil)
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", cfg.Log.Level)
}

func TestRuntimeOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("TRACETAIL_LOG_LEVEL", "DEBUG")

	level := "ERROR"
	file := "/tmp/trace.log"
	cfg, err := NewWithOverrides(&RuntimeOverrides{LogLevel: &level, LogFile: &file})
	require.NoError(t, err)

	assert.Equal(t, "ERROR", cfg.Log.Level)
	assert.Equal(t, "/tmp/trace.log", cfg.Log.File)
}

func TestValidation(t *testing.T) {
	t.Run("negative limit rejected", func(t *testing.T) {
		globalDir := isolate(t)
		writeConfig(t, globalDir, "bad.tracetail.yaml", "render:\n  unknown_limit: -5\n")

		_, err := NewWithOverrides(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation")
	})

	t.Run("bad log level rejected", func(t *testing.T) {
		globalDir := isolate(t)
		writeConfig(t, globalDir, "bad.tracetail.yaml", "log:\n  level: VERBOSE\n")

		_, err := NewWithOverrides(nil)
		require.Error(t, err)
	})
}

func TestGenerateJSONSchema(t *testing.T) {
	schema, err := GenerateJSONSchema()
	require.NoError(t, err)

	data, err := json.Marshal(schema)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Tracetail Configuration Schema")
	assert.Contains(t, string(data), "unknown_limit")
}

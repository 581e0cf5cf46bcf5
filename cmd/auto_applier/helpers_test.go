package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAPIKey(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "env-key")
		assert.Equal(t, "flag-key", resolveAPIKey("flag-key"))
	})

	t.Run("env fallback", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "env-key")
		assert.Equal(t, "env-key", resolveAPIKey(""))
	})

	t.Run("neither", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "")
		assert.Empty(t, resolveAPIKey(""))
	})
}

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"cv_root": "/cvs", "max_jobs": 5}`), 0o644))

	t.Run("file values merged over defaults", func(t *testing.T) {
		settings, err := loadSettings(path, "")
		require.NoError(t, err)
		assert.Equal(t, "/cvs", settings.CVRoot)
		assert.Equal(t, 5, settings.MaxJobs)
		assert.Equal(t, 60, settings.MinScoreThreshold)
	})

	t.Run("cv root override", func(t *testing.T) {
		settings, err := loadSettings(path, "/other")
		require.NoError(t, err)
		assert.Equal(t, "/other", settings.CVRoot)
	})

	t.Run("missing cv root fails validation", func(t *testing.T) {
		_, err := loadSettings(filepath.Join(dir, "absent.json"), "")
		assert.Error(t, err)
	})
}

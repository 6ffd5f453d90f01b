package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/footprint/internal/config"
)

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvProjectDir, "")
	return home
}

func TestResolveProjectDir_FlagOverridesEnv(t *testing.T) {
	isolateHome(t)
	envDir := t.TempDir()
	flagDir := t.TempDir()
	t.Setenv(config.EnvProjectDir, envDir)

	got := config.ResolveProjectDir(context.Background(), flagDir, "/does/not/matter")
	assert.Equal(t, filepath.Join(flagDir, ".footprint"), got)
}

func TestResolveProjectDir_EnvVar(t *testing.T) {
	isolateHome(t)
	envDir := t.TempDir()
	t.Setenv(config.EnvProjectDir, envDir)

	got := config.ResolveProjectDir(context.Background(), "", "/does/not/matter")
	assert.Equal(t, filepath.Join(envDir, ".footprint"), got)
	assert.True(t, filepath.IsAbs(got))
}

func TestResolveProjectDir_NoDoubleAppend(t *testing.T) {
	isolateHome(t)
	dir := filepath.Join(t.TempDir(), ".footprint")

	got := config.ResolveProjectDir(context.Background(), dir, "")
	assert.Equal(t, dir, got)
}

func TestResolveProjectDir_WalkUp(t *testing.T) {
	isolateHome(t)
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".footprint"), 0o750))
	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o750))

	got := config.ResolveProjectDir(context.Background(), "", sub)
	assert.Equal(t, filepath.Join(root, ".footprint"), got)
}

func TestNewWithProjectDir(t *testing.T) {
	home := isolateHome(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(`
output:
  default_format: json
logging:
  level: warn
`), 0o600))

	projectDir := filepath.Join(t.TempDir(), ".footprint")
	require.NoError(t, os.MkdirAll(projectDir, 0o750))

	t.Run("no overlay keeps global", func(t *testing.T) {
		cfg := config.NewWithProjectDir(context.Background(), projectDir)
		assert.Equal(t, "json", cfg.Output.DefaultFormat)
		assert.Equal(t, "warn", cfg.Logging.Level)
	})

	t.Run("overlay replaces sections", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(projectDir, "config.yaml"), []byte(`
logging:
  level: debug
engine:
  missing_choice: lenient
`), 0o600))

		cfg := config.NewWithProjectDir(context.Background(), projectDir)
		assert.Equal(t, "json", cfg.Output.DefaultFormat)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Empty(t, cfg.Logging.Format)
		assert.Equal(t, "lenient", cfg.Engine.MissingChoice)
	})

	t.Run("broken overlay falls back", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(projectDir, "config.yaml"), []byte("logging: [\n"), 0o600))

		cfg := config.NewWithProjectDir(context.Background(), projectDir)
		assert.Equal(t, "warn", cfg.Logging.Level)
	})

	t.Run("empty project dir", func(t *testing.T) {
		cfg := config.NewWithProjectDir(context.Background(), "")
		assert.Equal(t, "json", cfg.Output.DefaultFormat)
	})
}

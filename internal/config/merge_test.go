package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/fintrack/internal/config"
)

// writeOverlay is a test helper that writes YAML content to a temp file
// and returns its path.
func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, config.ProjectFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestMergeOverlay_KeepsUnsetKeys(t *testing.T) {
	target := config.Defaults()
	target.Display.Currency = "EUR"
	target.Server.Token = "stored-token"
	overlay := writeOverlay(t, `
server:
  url: http://staging:8080
`)

	require.NoError(t, config.MergeOverlay(target, overlay))

	assert.Equal(t, "http://staging:8080", target.Server.URL)
	assert.Equal(t, "stored-token", target.Server.Token)
	assert.Equal(t, "EUR", target.Display.Currency)
}

func TestMergeOverlay_IgnoresUnknownKeys(t *testing.T) {
	target := config.Defaults()
	overlay := writeOverlay(t, `
version: 9.9.9
plugins:
  foo: bar
`)

	require.NoError(t, config.MergeOverlay(target, overlay))
	assert.Equal(t, config.SchemaVersion, target.Version)
}

func TestMergeOverlay_EmptyFile(t *testing.T) {
	target := config.Defaults()
	overlay := writeOverlay(t, "# nothing here\n")
	require.NoError(t, config.MergeOverlay(target, overlay))
	assert.Equal(t, config.DefaultServerURL, target.Server.URL)
}

func TestMergeOverlay_Errors(t *testing.T) {
	require.ErrorIs(t, config.MergeOverlay(nil, "x"), config.ErrNilConfig)
	require.Error(t, config.MergeOverlay(config.Defaults(), filepath.Join(t.TempDir(), "missing.yaml")))

	bad := writeOverlay(t, "list: [1, 2")
	require.Error(t, config.MergeOverlay(config.Defaults(), bad))

	wrongType := writeOverlay(t, "list: not-a-map\n")
	require.Error(t, config.MergeOverlay(config.Defaults(), wrongType))
}

func TestResolveProjectConfig(t *testing.T) {
	t.Setenv(config.EnvProjectConfig, "")

	t.Run("flag wins", func(t *testing.T) {
		got := config.ResolveProjectConfig(context.Background(), "custom.yaml", t.TempDir())
		assert.True(t, filepath.IsAbs(got))
		assert.Equal(t, "custom.yaml", filepath.Base(got))
	})

	t.Run("walks up to parent", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, config.ProjectFileName), []byte("{}"), 0600))
		nested := filepath.Join(root, "a", "b")
		require.NoError(t, os.MkdirAll(nested, 0700))

		got := config.ResolveProjectConfig(context.Background(), "", nested)
		assert.Equal(t, filepath.Join(root, config.ProjectFileName), got)
	})

	t.Run("env var", func(t *testing.T) {
		t.Setenv(config.EnvProjectConfig, "/etc/fintrack.yaml")
		got := config.ResolveProjectConfig(context.Background(), "", t.TempDir())
		assert.Equal(t, "/etc/fintrack.yaml", got)
	})
}

func TestNewWithProjectConfig(t *testing.T) {
	t.Setenv(config.EnvHome, t.TempDir())
	t.Setenv(config.EnvServer, "")

	overlay := writeOverlay(t, `
list:
  page_size: 50
  page_size_options: [25, 50]
`)

	cfg := config.NewWithProjectConfig(context.Background(), overlay)
	assert.Equal(t, 50, cfg.List.PageSize)
	assert.Equal(t, []int{25, 50}, cfg.List.PageSizeOptions)

	t.Run("env keeps precedence", func(t *testing.T) {
		t.Setenv(config.EnvPageSize, "25")
		cfg := config.NewWithProjectConfig(context.Background(), overlay)
		assert.Equal(t, 25, cfg.List.PageSize)
	})

	t.Run("broken overlay falls back", func(t *testing.T) {
		broken := writeOverlay(t, "server: [")
		cfg := config.NewWithProjectConfig(context.Background(), broken)
		assert.Equal(t, config.DefaultServerURL, cfg.Server.URL)
	})
}

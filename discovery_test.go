// FILE: lixenwraith/classconfig/discovery_test.go
package classconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDiscoverFile tests the override file search order
func TestDiscoverFile(t *testing.T) {
	dir := t.TempDir()
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("XDG_CONFIG_DIRS", filepath.Join(t.TempDir(), "none"))
	t.Setenv("MYAPP_CONFIG", "")

	opts := DefaultDiscoveryOptions("myapp")
	opts.UseCurrentDir = false
	opts.Paths = []string{dir}

	t.Run("NothingFound", func(t *testing.T) {
		assert.Equal(t, "", discoverFile(opts, nil))
	})

	t.Run("XDG", func(t *testing.T) {
		require.NoError(t, os.MkdirAll(filepath.Join(xdg, "myapp"), 0755))
		path := filepath.Join(xdg, "myapp", "myapp.yaml")
		require.NoError(t, os.WriteFile(path, []byte("port: 1\n"), 0644))
		assert.Equal(t, path, discoverFile(opts, nil))
	})

	t.Run("SearchPathBeforeXDG", func(t *testing.T) {
		path := filepath.Join(dir, "myapp.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"port": 2}`), 0644))
		assert.Equal(t, path, discoverFile(opts, nil))
	})

	t.Run("ExtensionOrder", func(t *testing.T) {
		path := filepath.Join(dir, "myapp.toml")
		require.NoError(t, os.WriteFile(path, []byte("port = 3\n"), 0644))
		assert.Equal(t, path, discoverFile(opts, nil))
	})

	t.Run("EnvVar", func(t *testing.T) {
		t.Setenv("MYAPP_CONFIG", "/from/env.toml")
		assert.Equal(t, "/from/env.toml", discoverFile(opts, nil))
	})

	t.Run("CLIFlag", func(t *testing.T) {
		t.Setenv("MYAPP_CONFIG", "/from/env.toml")
		assert.Equal(t, "/from/cli.toml", discoverFile(opts, []string{"--config", "/from/cli.toml"}))
		assert.Equal(t, "/from/eq.toml", discoverFile(opts, []string{"--port=1", "--config=/from/eq.toml"}))
	})
}

// TestBuilderDiscovery tests that a discovered file feeds the file source
func TestBuilderDiscovery(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "svc.toml")
	require.NoError(t, os.WriteFile(path, []byte("port = 2525\n"), 0644))

	opts := DefaultDiscoveryOptions("svc")
	opts.Paths = []string{dir}
	opts.UseCurrentDir = false
	opts.UseXDG = false
	t.Setenv("SVC_CONFIG", "")

	t.Run("Discovered", func(t *testing.T) {
		cfg := &MyConfig{}
		err := newTestBuilder().
			WithDefaults(Tree{"port": 80}).
			WithFileDiscovery(opts).
			WithArgs(nil).
			Build(cfg)
		require.NoError(t, err)

		port, _ := cfg.GetInt64("port")
		assert.Equal(t, int64(2525), port)
	})

	t.Run("ExplicitFileWins", func(t *testing.T) {
		other := writeFile(t, "other.toml", "port = 9000\n")
		cfg := &MyConfig{}
		err := newTestBuilder().
			WithDefaults(Tree{"port": 80}).
			WithFileDiscovery(opts).
			WithFile(other).
			WithArgs(nil).
			Build(cfg)
		require.NoError(t, err)

		port, _ := cfg.GetInt64("port")
		assert.Equal(t, int64(9000), port)
	})

	t.Run("FlagPathMissing", func(t *testing.T) {
		cfg := &MyConfig{}
		err := newTestBuilder().
			WithDefaults(Tree{"port": 80}).
			WithFileDiscovery(opts).
			WithArgs([]string{"--config", filepath.Join(dir, "absent.toml")}).
			Build(cfg)
		assert.ErrorIs(t, err, ErrConfigNotFound)

		port, _ := cfg.GetInt64("port")
		assert.Equal(t, int64(80), port)
	})
}

// FILE: lixenwraith/classconfig/loader_test.go
package classconfig

import (
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseArgs tests command-line argument parsing
func TestParseArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected Tree
		wantErr  bool
	}{
		{
			name:     "EqualsForm",
			args:     []string{"--server.port=8080"},
			expected: Tree{"server": Tree{"port": "8080"}},
		},
		{
			name:     "SpaceForm",
			args:     []string{"--server.host", "localhost"},
			expected: Tree{"server": Tree{"host": "localhost"}},
		},
		{
			name:     "BareFlags",
			args:     []string{"--debug", "--verbose"},
			expected: Tree{"debug": "true", "verbose": "true"},
		},
		{
			name:     "ValueWithEquals",
			args:     []string{"--query=a=b"},
			expected: Tree{"query": "a=b"},
		},
		{
			name:     "SkipsPositionalAndSeparator",
			args:     []string{"run", "--", "--a=1", "file.txt"},
			expected: Tree{"a": "1"},
		},
		{
			name:    "InvalidSegment",
			args:    []string{"--a..b=1"},
			wantErr: true,
		},
		{
			name:    "InvalidCharacter",
			args:    []string{"--a$=1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseArgs(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}

	t.Run("ValueTooLarge", func(t *testing.T) {
		_, err := parseArgs([]string{"--a=" + strings.Repeat("x", MaxValueSize+1)})
		assert.ErrorIs(t, err, ErrValueSize)
	})
}

// TestLoadEnv tests environment variable lookup by default path
func TestLoadEnv(t *testing.T) {
	defaults := Tree{"port": 0, "db": Tree{"pool_size": 0, "name": ""}}
	t.Setenv("APP_PORT", "9000")
	t.Setenv("APP_DB_NAME", "main")
	t.Setenv("APP_UNRELATED", "x")

	t.Run("DefaultTransform", func(t *testing.T) {
		tree, err := loadEnv(defaults, LoadOptions{EnvPrefix: "APP_"})
		require.NoError(t, err)
		assert.Equal(t, Tree{"port": "9000", "db": Tree{"name": "main"}}, tree)
	})

	t.Run("Whitelist", func(t *testing.T) {
		tree, err := loadEnv(defaults, LoadOptions{EnvPrefix: "APP_", EnvWhitelist: map[string]bool{"db.name": true}})
		require.NoError(t, err)
		assert.Equal(t, Tree{"db": Tree{"name": "main"}}, tree)
	})

	t.Run("TooLarge", func(t *testing.T) {
		t.Setenv("APP_PORT", strings.Repeat("9", MaxValueSize+1))
		_, err := loadEnv(defaults, LoadOptions{EnvPrefix: "APP_"})
		assert.ErrorIs(t, err, ErrValueSize)
	})

	t.Run("TransformName", func(t *testing.T) {
		assert.Equal(t, "APP_DB_POOL_SIZE", defaultEnvTransform("APP_")("db.pool_size"))
	})
}

// TestCoerceTree tests conversion of string overrides to default types
func TestCoerceTree(t *testing.T) {
	defaults := Tree{
		"port":    0,
		"ratio":   0.0,
		"debug":   false,
		"flag":    false,
		"name":    "",
		"timeout": time.Duration(0),
		"ip":      net.IP{},
		"tags":    []string{},
		"db":      Tree{"pool": uint16(0), "host": ""},
		"section": Tree{"x": 1},
	}
	src := Tree{
		"port":    "8080",
		"ratio":   "0.25",
		"debug":   "true",
		"flag":    3,
		"name":    "42",
		"timeout": "1m30s",
		"ip":      "10.1.2.3",
		"tags":    "a,b",
		"db":      Tree{"pool": "not-a-number", "host": "h"},
		"section": "flat",
		"extra":   "kept",
	}

	dropped := coerceTree(src, defaults, "")

	assert.ElementsMatch(t, []string{"flag", "db.pool", "section"}, dropped)
	assert.Equal(t, 8080, src["port"])
	assert.Equal(t, 0.25, src["ratio"])
	assert.Equal(t, true, src["debug"])
	assert.Equal(t, "42", src["name"])
	assert.Equal(t, 90*time.Second, src["timeout"])
	assert.Equal(t, net.ParseIP("10.1.2.3"), src["ip"])
	assert.Equal(t, []string{"a", "b"}, src["tags"])
	assert.Equal(t, Tree{"host": "h"}, src["db"])
	assert.NotContains(t, src, "flag")
	assert.NotContains(t, src, "section")
	assert.Equal(t, "kept", src["extra"])

	t.Run("SameKindUntouched", func(t *testing.T) {
		src := Tree{"port": int64(7)}
		assert.Empty(t, coerceTree(src, defaults, ""))
		assert.Equal(t, int64(7), src["port"])
	})
}

// TestLoadFile tests file parsing and format detection
func TestLoadFile(t *testing.T) {
	t.Run("DetectFileFormat", func(t *testing.T) {
		assert.Equal(t, "toml", detectFileFormat("a.toml"))
		assert.Equal(t, "toml", detectFileFormat("a.TML"))
		assert.Equal(t, "json", detectFileFormat("/etc/a.json"))
		assert.Equal(t, "yaml", detectFileFormat("a.yml"))
		assert.Equal(t, "yaml", detectFileFormat("a.yaml"))
		assert.Equal(t, "", detectFileFormat("a.conf"))
	})

	t.Run("DetectFormatFromContent", func(t *testing.T) {
		assert.Equal(t, "json", detectFormatFromContent([]byte(`{"a": 1}`)))
		assert.Equal(t, "toml", detectFormatFromContent([]byte("a = 1\n[b]\nc = \"x\"\n")))
		assert.Equal(t, "yaml", detectFormatFromContent([]byte("a: 1\nb:\n  c: x\n")))
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := loadFile(filepath.Join(t.TempDir(), "none.toml"))
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("NestedYAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "c.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 80\n"), 0644))

		tree, err := loadFile(path)
		require.NoError(t, err)
		server, ok := tree["server"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, 80, server["port"])
	})

	t.Run("Undetectable", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "c.conf")
		require.NoError(t, os.WriteFile(path, []byte("[[[ not : valid = anything"), 0644))

		_, err := loadFile(path)
		assert.Error(t, err)
	})
}

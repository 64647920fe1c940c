// FILE: lixenwraith/classconfig/discovery.go
package classconfig

import (
	"os"
	"path/filepath"
	"strings"
)

// DiscoveryOptions describes where Build looks for an override file when no
// explicit path was given with WithFile.
type DiscoveryOptions struct {
	// Base name of the file, without extension
	Name string

	// Extensions tried in order for every directory
	Extensions []string

	// Directories searched before the current and XDG directories
	Paths []string

	// Environment variable holding an explicit path
	EnvVar string

	// Command-line flag holding an explicit path, e.g. "--config"
	CLIFlag string

	UseXDG        bool
	UseCurrentDir bool
}

// DefaultDiscoveryOptions returns the usual search for appName: the --config
// flag, then APPNAME_CONFIG, then appName.{toml,yaml,yml,json} in the current
// directory and the XDG config directories.
func DefaultDiscoveryOptions(appName string) DiscoveryOptions {
	return DiscoveryOptions{
		Name:          appName,
		Extensions:    []string{".toml", ".yaml", ".yml", ".json"},
		EnvVar:        strings.ToUpper(strings.ReplaceAll(appName, "-", "_")) + "_CONFIG",
		CLIFlag:       "--config",
		UseXDG:        true,
		UseCurrentDir: true,
	}
}

// WithDiscovery searches for an override file using DefaultDiscoveryOptions.
func (b *Builder) WithDiscovery(appName string) *Builder {
	return b.WithFileDiscovery(DefaultDiscoveryOptions(appName))
}

// WithFileDiscovery searches for an override file with custom options.
// The search runs in Build, after every other builder call, and only when no
// path was set with WithFile.
func (b *Builder) WithFileDiscovery(opts DiscoveryOptions) *Builder {
	b.discovery = &opts
	return b
}

// discoverFile returns the first candidate path, or "" when nothing matches.
// A path named by the flag or the environment is returned even if it does not
// exist, so the load reports ErrConfigNotFound for it.
func discoverFile(opts DiscoveryOptions, args []string) string {
	if opts.CLIFlag != "" {
		for i, arg := range args {
			if arg == opts.CLIFlag && i+1 < len(args) {
				return args[i+1]
			}
			if value, found := strings.CutPrefix(arg, opts.CLIFlag+"="); found {
				return value
			}
		}
	}

	if opts.EnvVar != "" {
		if path := os.Getenv(opts.EnvVar); path != "" {
			return path
		}
	}

	searchPaths := append([]string(nil), opts.Paths...)
	if opts.UseCurrentDir {
		if cwd, err := os.Getwd(); err == nil {
			searchPaths = append(searchPaths, cwd)
		}
	}
	if opts.UseXDG {
		searchPaths = append(searchPaths, xdgConfigPaths(opts.Name)...)
	}

	for _, dir := range searchPaths {
		for _, ext := range opts.Extensions {
			path := filepath.Join(dir, opts.Name+ext)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

// xdgConfigPaths lists the XDG config directories for appName, user first.
func xdgConfigPaths(appName string) []string {
	var paths []string

	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		paths = append(paths, filepath.Join(xdgHome, appName))
	} else if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName))
	}

	if xdgDirs := os.Getenv("XDG_CONFIG_DIRS"); xdgDirs != "" {
		for _, dir := range filepath.SplitList(xdgDirs) {
			paths = append(paths, filepath.Join(dir, appName))
		}
	} else {
		paths = append(paths, filepath.Join("/etc/xdg", appName), filepath.Join("/etc", appName))
	}

	return paths
}

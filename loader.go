// FILE: lixenwraith/classconfig/loader.go
package classconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Source represents an override source, used to define precedence
type Source string

const (
	// SourceDefault represents the defaults given to the builder
	SourceDefault Source = "default"
	// SourceFile represents values loaded from a configuration file
	SourceFile Source = "file"
	// SourceInit represents the overrides passed in code
	SourceInit Source = "init"
	// SourceEnv represents values loaded from environment variables
	SourceEnv Source = "env"
	// SourceCLI represents values loaded from command-line arguments
	SourceCLI Source = "cli"
)

// EnvTransformFunc converts a configuration path to an environment variable name
type EnvTransformFunc func(path string) string

// LoadOptions configures how overrides are gathered from multiple sources
type LoadOptions struct {
	// Sources defines the precedence order (first = highest priority)
	// Default: [SourceCLI, SourceEnv, SourceInit, SourceFile, SourceDefault]
	Sources []Source

	// EnvPrefix is prepended to environment variable names
	// Example: "MYAPP_" transforms "server.port" to "MYAPP_SERVER_PORT"
	EnvPrefix string

	// EnvTransform customizes how paths map to environment variables
	EnvTransform EnvTransformFunc

	// EnvWhitelist limits which paths are checked for env vars (nil = all)
	EnvWhitelist map[string]bool
}

// DefaultLoadOptions returns the standard load options
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Sources: []Source{SourceCLI, SourceEnv, SourceInit, SourceFile, SourceDefault},
	}
}

// loadFile reads and parses a TOML, JSON or YAML override file.
func loadFile(path string) (Tree, error) {
	fileData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	format := detectFileFormat(path)
	if format == "" {
		format = detectFormatFromContent(fileData)
	}

	fileConfig := make(Tree)
	switch format {
	case "toml":
		if err := toml.Unmarshal(fileData, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config file '%s': %w", path, err)
		}
	case "json":
		if err := json.Unmarshal(fileData, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config file '%s': %w", path, err)
		}
	case "yaml":
		if err := yaml.Unmarshal(fileData, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config file '%s': %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unable to determine config format for file '%s'", path)
	}

	return fileConfig, nil
}

// loadEnv collects environment variables for every leaf path of defaults.
func loadEnv(defaults Tree, opts LoadOptions) (Tree, error) {
	transform := opts.EnvTransform
	if transform == nil {
		transform = defaultEnvTransform(opts.EnvPrefix)
	}

	result := make(Tree)
	for path := range flattenTree(defaults, "") {
		if opts.EnvWhitelist != nil && !opts.EnvWhitelist[path] {
			continue
		}
		if value, exists := os.LookupEnv(transform(path)); exists {
			if len(value) > MaxValueSize {
				return nil, fmt.Errorf("%w: %s", ErrValueSize, transform(path))
			}
			setNestedValue(result, path, value)
		}
	}
	return result, nil
}

// defaultEnvTransform creates the default environment variable transformer
func defaultEnvTransform(prefix string) EnvTransformFunc {
	return func(path string) string {
		env := strings.ToUpper(strings.ReplaceAll(path, ".", "_"))
		return prefix + env
	}
}

// parseArgs processes command-line arguments into a nested tree.
// Accepts "--key.sub value", "--key.sub=value" and bare "--flag" (true).
func parseArgs(args []string) (Tree, error) {
	result := make(Tree)
	i := 0
	for i < len(args) {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			// Skip non-flag arguments
			i++
			continue
		}

		argContent := strings.TrimPrefix(arg, "--")
		if argContent == "" {
			// Skip "--" argument if used as a separator
			i++
			continue
		}

		var keyPath, valueStr string
		if key, value, found := strings.Cut(argContent, "="); found {
			keyPath, valueStr = key, value
			i++
		} else {
			keyPath = argContent
			if i+1 >= len(args) || strings.HasPrefix(args[i+1], "--") {
				valueStr = "true"
				i++
			} else {
				valueStr = args[i+1]
				i += 2
			}
		}

		if keyPath == "" {
			continue
		}
		if len(valueStr) > MaxValueSize {
			return nil, fmt.Errorf("%w: --%s", ErrValueSize, keyPath)
		}

		for _, segment := range strings.Split(keyPath, ".") {
			if !isValidKeySegment(segment) {
				return nil, fmt.Errorf("invalid command-line key segment %q in path %q", segment, keyPath)
			}
		}

		// Always store as a string. coerceTree handles final type conversion.
		setNestedValue(result, keyPath, valueStr)
	}

	return result, nil
}

// coerceTree converts string leaves of src to the Go type of the matching
// default leaf, then drops every leaf that still cannot replace its default.
// A value rejected here never hides a valid value from a lower source.
// It returns the dropped paths.
func coerceTree(src, defaults Tree, prefix string) []string {
	var dropped []string

	for key, val := range src {
		def, exists := defaults[key]
		if !exists {
			continue
		}
		path := joinPath(prefix, key)

		sub, srcIsMap := val.(map[string]any)
		defSub, defIsMap := def.(map[string]any)
		if srcIsMap && defIsMap {
			dropped = append(dropped, coerceTree(sub, defSub, path)...)
			continue
		}

		if _, isString := val.(string); isString && !srcIsMap && kindOf(def) != kindString {
			if converted, err := coerce(val, def); err == nil {
				val = converted
				src[key] = val
			}
		}
		if srcIsMap || defIsMap || !sameKind(def, val) {
			delete(src, key)
			dropped = append(dropped, path)
		}
	}

	return dropped
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return "toml"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	}
	return ""
}

// detectFormatFromContent attempts to detect format by parsing
func detectFormatFromContent(data []byte) string {
	// Try JSON first (strict format)
	var jsonTest any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return "json"
	}

	// TOML before YAML, most TOML documents are also valid YAML scalars
	var tomlTest map[string]any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return "toml"
	}

	var yamlTest map[string]any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return "yaml"
	}

	return ""
}

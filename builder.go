// FILE: lixenwraith/classconfig/builder.go
package classconfig

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// ValidatorFunc defines the signature for a function that can validate a configuration.
// It receives the fully initialized configuration and should return an error if validation fails.
type ValidatorFunc func(c Configurable) error

// Builder gathers overrides from several sources and initializes a configuration
type Builder struct {
	opts         LoadOptions
	defaults     any
	overrides    any
	file         string
	discovery    *DiscoveryOptions
	args         []string
	sharePrivate bool
	options      []Option
	logger       zerolog.Logger
	validators   []ValidatorFunc
}

// NewBuilder creates a new configuration builder
func NewBuilder() *Builder {
	return &Builder{
		opts:   DefaultLoadOptions(),
		args:   os.Args[1:],
		logger: zerolog.Nop(),
	}
}

// WithDefaults sets the default tree, as a map or a struct with `toml` tags
func (b *Builder) WithDefaults(defaults any) *Builder {
	b.defaults = defaults
	return b
}

// WithOverrides sets the overrides passed in code (SourceInit)
func (b *Builder) WithOverrides(overrides any) *Builder {
	b.overrides = overrides
	return b
}

// WithFile sets the override file path
func (b *Builder) WithFile(path string) *Builder {
	b.file = path
	return b
}

// WithArgs sets the command-line arguments
func (b *Builder) WithArgs(args []string) *Builder {
	b.args = args
	return b
}

// WithEnvPrefix sets the environment variable prefix
func (b *Builder) WithEnvPrefix(prefix string) *Builder {
	b.opts.EnvPrefix = prefix
	return b
}

// WithEnvTransform sets a custom environment variable transformer
func (b *Builder) WithEnvTransform(fn EnvTransformFunc) *Builder {
	b.opts.EnvTransform = fn
	return b
}

// WithEnvWhitelist limits which paths are checked for env vars
func (b *Builder) WithEnvWhitelist(paths ...string) *Builder {
	if b.opts.EnvWhitelist == nil {
		b.opts.EnvWhitelist = make(map[string]bool)
	}
	for _, path := range paths {
		b.opts.EnvWhitelist[path] = true
	}
	return b
}

// WithSources sets the precedence order for override sources
func (b *Builder) WithSources(sources ...Source) *Builder {
	b.opts.Sources = sources
	return b
}

// WithSharePrivate makes the configuration alias the private tree of the
// configuration given to WithOverrides. Other sources are not applied then.
func (b *Builder) WithSharePrivate(share bool) *Builder {
	b.sharePrivate = share
	return b
}

// WithAccessors supplies accessor factories keyed by dotted leaf path
func (b *Builder) WithAccessors(accessors map[string]AccessorFunc) *Builder {
	b.options = append(b.options, WithAccessors(accessors))
	return b
}

// WithName overrides the type-derived display name
func (b *Builder) WithName(name string) *Builder {
	b.options = append(b.options, WithName(name))
	return b
}

// WithLogger sets the logger used by the builder and the built configuration
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = logger
	b.options = append(b.options, WithLogger(logger))
	return b
}

// WithValidator adds a validation function that runs at the end of the build process
// Multiple validators can be added and are executed in the order they are added
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build initializes self from the defaults and the layered overrides.
// A missing override file is reported as ErrConfigNotFound after self has
// been initialized; every other error leaves self unusable.
func (b *Builder) Build(self Configurable) error {
	if self == nil {
		return fmt.Errorf("build target cannot be nil")
	}

	defaults, err := toTree(b.defaults)
	if err != nil {
		return fmt.Errorf("failed to register defaults: %w", err)
	}

	file := b.file
	if file == "" && b.discovery != nil {
		if path := discoverFile(*b.discovery, b.args); path != "" {
			b.logger.Debug().Str("path", path).Msg("Discovered override file")
			file = path
		}
	}

	options := append([]Option(nil), b.options...)
	var init any
	var loadErrors []error

	if shared, ok := b.overrides.(Configurable); ok && b.sharePrivate {
		b.logger.Debug().Str("source", typeName(shared)).Msg("Sharing private tree, skipping other sources")
		init = shared
		options = append(options, WithSharePrivate())
	} else {
		overrides, errs, err := b.gather(defaults, file)
		if err != nil {
			return err
		}
		init = overrides
		loadErrors = errs
	}

	if err := self.configBase().Init(self, b.defaults, init, options...); err != nil {
		return err
	}

	for _, validator := range b.validators {
		if err := validator(self); err != nil {
			return fmt.Errorf("%w: %w", ErrValidation, err)
		}
	}

	// ErrConfigNotFound or nil
	return errors.Join(loadErrors...)
}

// gather layers the sources from lowest to highest precedence.
func (b *Builder) gather(defaults Tree, file string) (Tree, []error, error) {
	overrides := make(Tree)
	var loadErrors []error

	for i := len(b.opts.Sources) - 1; i >= 0; i-- {
		var layer Tree

		switch source := b.opts.Sources[i]; source {
		case SourceDefault:
			// Defaults are applied by Init
			continue

		case SourceInit:
			if b.overrides == nil {
				continue
			}
			tree, err := toTree(b.overrides)
			if err != nil {
				b.logger.Debug().Err(err).Msg("Ignoring overrides that are not a tree")
				continue
			}
			layer = tree

		case SourceFile:
			if file == "" {
				continue
			}
			tree, err := loadFile(file)
			if err != nil {
				if errors.Is(err, ErrConfigNotFound) {
					loadErrors = append(loadErrors, err)
					continue
				}
				return nil, nil, err
			}
			layer = tree

		case SourceEnv:
			tree, err := loadEnv(defaults, b.opts)
			if err != nil {
				return nil, nil, err
			}
			layer = tree

		case SourceCLI:
			if len(b.args) == 0 {
				continue
			}
			tree, err := parseArgs(b.args)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: %w", ErrCLIParse, err)
			}
			layer = tree

		default:
			return nil, nil, fmt.Errorf("unknown source %q", source)
		}

		for _, path := range coerceTree(layer, defaults, "") {
			b.logger.Debug().Str("source", string(b.opts.Sources[i])).Str("path", path).Msg("Dropping override that does not match its default")
		}
		overrides = deepMerge(overrides, layer)
		b.logger.Debug().Str("source", string(b.opts.Sources[i])).Int("paths", len(flattenTree(layer, ""))).Msg("Applied override source")
	}

	return overrides, loadErrors, nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild(self Configurable) {
	if err := b.Build(self); err != nil {
		// Missing file is not fatal, the configuration runs on defaults
		if !errors.Is(err, ErrConfigNotFound) {
			panic(fmt.Sprintf("config build failed: %v", err))
		}
	}
}

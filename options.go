// FILE: lixenwraith/classconfig/options.go
package classconfig

import "github.com/rs/zerolog"

// Option configures Init, New and NewRegistry.
type Option func(*options)

type options struct {
	sharePrivate bool
	name         string
	accessors    map[string]AccessorFunc
	logger       zerolog.Logger
}

func newOptions(opts ...Option) options {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithSharePrivate makes a configuration initialized from another configuration
// alias that configuration's private tree instead of copying it. Writes through
// either instance are visible through both.
func WithSharePrivate() Option {
	return func(o *options) {
		o.sharePrivate = true
	}
}

// WithName overrides the type-derived name used by String.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithAccessors supplies accessor factories keyed by dotted leaf path.
// They take precedence over the ones returned by an AccessorDefiner.
func WithAccessors(accessors map[string]AccessorFunc) Option {
	return func(o *options) {
		if o.accessors == nil {
			o.accessors = make(map[string]AccessorFunc, len(accessors))
		}
		for path, fn := range accessors {
			o.accessors[path] = fn
		}
	}
}

// WithLogger sets the logger for debug events. Defaults to zerolog.Nop().
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// FILE: lixenwraith/classconfig/errors.go
package classconfig

import "errors"

// Errors returned by configuration operations.
var (
	// ErrUnknownProperty indicates the path does not name a property.
	ErrUnknownProperty = errors.New("unknown property")

	// ErrNotConfigurable indicates a delete was attempted on a fixed property.
	ErrNotConfigurable = errors.New("property is not configurable")

	// ErrBranchAssign indicates an assignment to a nested section instead of a leaf.
	ErrBranchAssign = errors.New("cannot assign to a configuration section")

	// ErrNotLeaf indicates a typed read of a configuration section.
	ErrNotLeaf = errors.New("property is a section")

	// ErrMalformedDescriptor indicates a descriptor without a getter.
	ErrMalformedDescriptor = errors.New("malformed descriptor")

	// ErrInvalidKey indicates a key segment that is not a valid bare key.
	ErrInvalidKey = errors.New("invalid key")

	// ErrInvalidDefaults indicates defaults that cannot be turned into a tree.
	ErrInvalidDefaults = errors.New("invalid defaults")

	// ErrConfigNotFound indicates the override file does not exist. Not fatal.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrCLIParse indicates malformed command-line overrides.
	ErrCLIParse = errors.New("failed to parse command-line arguments")

	// ErrValidation indicates a builder validator rejected the configuration.
	ErrValidation = errors.New("configuration validation failed")
)

// MaxValueSize bounds a single environment or command-line value.
const MaxValueSize = 1024 * 1024

// ErrValueSize indicates an environment or command-line value over MaxValueSize.
var ErrValueSize = errors.New("value exceeds maximum size")

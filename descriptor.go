// FILE: lixenwraith/classconfig/descriptor.go
package classconfig

import "fmt"

// Kind selects how a property reacts to reads, writes and deletes.
type Kind int

const (
	// KindDefault reads the private leaf and writes it only when the kinds match.
	KindDefault Kind = iota
	// KindReadOnly ignores every write.
	KindReadOnly
	// KindWritable hands every write to the descriptor's Set without a type guard.
	KindWritable
	// KindReplaceable turns into a plain data property on its first write.
	KindReplaceable
	// KindMethod is a fixed value slot that can be overwritten or deleted.
	KindMethod
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindDefault:
		return "default"
	case KindReadOnly:
		return "readonly"
	case KindWritable:
		return "writable"
	case KindReplaceable:
		return "replaceable"
	case KindMethod:
		return "method"
	default:
		return "unknown"
	}
}

// Descriptor describes one property of a configuration or of a configured target.
type Descriptor struct {
	Kind Kind

	// Get returns the current value. Required for every kind except KindMethod.
	Get func() any

	// Set receives writes for KindDefault and KindWritable.
	Set func(v any)

	// Value is the slot content for KindMethod.
	Value any

	// Hidden excludes the property from Keys and from String output.
	Hidden bool

	// Configurable allows Delete. Always true for KindReplaceable and KindMethod.
	Configurable bool
}

// AccessorFunc builds the descriptor for one leaf of the private tree.
// parent is the private branch holding the leaf and key its name within it.
type AccessorFunc func(parent Tree, key string) Descriptor

// ReadOnly returns a descriptor whose writes are no-ops.
func ReadOnly(get func() any) Descriptor {
	return Descriptor{Kind: KindReadOnly, Get: get}
}

// Writable returns a descriptor whose writes go straight to set.
func Writable(get func() any, set func(v any)) Descriptor {
	return Descriptor{Kind: KindWritable, Get: get, Set: set}
}

// Replaceable returns a descriptor that becomes an ordinary mutable property once assigned.
func Replaceable(get func() any) Descriptor {
	return Descriptor{Kind: KindReplaceable, Get: get, Configurable: true}
}

// Method returns a descriptor holding fn as a writable, deletable value.
func Method(fn any) Descriptor {
	return Descriptor{Kind: KindMethod, Value: fn, Configurable: true}
}

// defaultAccessor reads parent[key] and only accepts writes of the same value kind.
// rejected, when non-nil, observes every discarded write.
func defaultAccessor(parent Tree, key string, rejected func(v any)) Descriptor {
	return Descriptor{
		Kind: KindDefault,
		Get:  func() any { return parent[key] },
		Set: func(v any) {
			if !sameKind(parent[key], v) {
				if rejected != nil {
					rejected(v)
				}
				return
			}
			parent[key] = v
		},
	}
}

// validate reports descriptors that cannot be installed.
func (d Descriptor) validate(name string) error {
	switch d.Kind {
	case KindMethod:
		return nil
	case KindDefault, KindReadOnly, KindWritable, KindReplaceable:
		if d.Get == nil {
			return fmt.Errorf("%w: %s property %q has no getter", ErrMalformedDescriptor, d.Kind, name)
		}
		if d.Kind == KindWritable && d.Set == nil {
			return fmt.Errorf("%w: writable property %q has no setter", ErrMalformedDescriptor, name)
		}
		return nil
	}
	return fmt.Errorf("%w: property %q has unknown kind %d", ErrMalformedDescriptor, name, int(d.Kind))
}

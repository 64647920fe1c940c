// FILE: lixenwraith/classconfig/base.go
package classconfig

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/rs/zerolog"
)

// Configurable is implemented by every type embedding Base.
// It marks a value as a configuration for the Registry.
type Configurable interface {
	Target
	configBase() *Base
}

// AccessorDefiner is implemented by configurations that replace the default
// accessor of some leaves. Keys are dotted paths into the private tree.
type AccessorDefiner interface {
	Accessors() map[string]AccessorFunc
}

// InterfaceDefiner is implemented by configurations that project properties
// onto the targets they configure.
type InterfaceDefiner interface {
	Interfaces() map[string]Descriptor
}

// Extender is implemented by configurations that add private fields not
// present in their defaults. Extend runs before accessors are attached.
type Extender interface {
	Extend(private Tree)
}

// Base holds a configuration's private tree and its public property table.
// Embed it in a struct and call Init from that struct's constructor.
type Base struct {
	Object

	self    Configurable
	name    string
	private Tree
	log     zerolog.Logger
}

func (b *Base) configBase() *Base { return b }

// New creates a configuration without a custom type.
func New(defaults, init any, opts ...Option) (*Base, error) {
	b := &Base{}
	if err := b.Init(b, defaults, init, opts...); err != nil {
		return nil, err
	}
	return b, nil
}

// Init builds the private tree from defaults and init and attaches one accessor
// per leaf. self is the value embedding b; it is consulted for AccessorDefiner
// and Extender and names the configuration.
//
// init may be a map, a struct or another configuration. Its leaves replace the
// defaults only where the value kinds match; anything else in it is ignored.
func (b *Base) Init(self Configurable, defaults, init any, opts ...Option) error {
	o := newOptions(opts...)

	if self == nil {
		self = b
	}
	b.self = self
	b.name = o.name
	if b.name == "" {
		b.name = typeName(self)
	}
	b.log = o.logger.With().Str("config", b.name).Logger()
	b.Object = Object{owner: self}
	b.private = nil

	if other, ok := init.(Configurable); ok && o.sharePrivate {
		if shared := other.configBase().private; shared != nil {
			b.private = shared
			b.log.Debug().Str("source", other.configBase().name).Msg("Sharing private tree")
		}
	}

	if b.private == nil {
		if err := b.buildPrivate(defaults, init); err != nil {
			return err
		}
		if ext, ok := self.(Extender); ok {
			ext.Extend(b.private)
		}
	}

	accessors := make(map[string]AccessorFunc)
	if def, ok := self.(AccessorDefiner); ok {
		for path, fn := range def.Accessors() {
			accessors[path] = fn
		}
	}
	for path, fn := range o.accessors {
		accessors[path] = fn
	}

	return b.installLeaves(&b.Object, b.private, "", accessors)
}

// buildPrivate copies defaults and merges init onto the copy.
func (b *Base) buildPrivate(defaults, init any) error {
	tree, err := toTree(defaults)
	if err != nil {
		return fmt.Errorf("config %s: %w", b.name, err)
	}
	if err := validateKeys(tree, ""); err != nil {
		return fmt.Errorf("config %s: %w", b.name, err)
	}
	b.private = cloneTree(tree)

	if init == nil {
		return nil
	}
	overrides, err := toTree(init)
	if err != nil {
		b.log.Debug().Err(err).Msg("Ignoring overrides that are not a tree")
		return nil
	}
	for _, path := range mergeLeaves(b.private, overrides, "") {
		b.log.Debug().Str("path", path).Msg("Ignoring override of a different kind")
	}
	return nil
}

// installLeaves defines one property per leaf of tree, recursing into branches.
func (b *Base) installLeaves(obj *Object, tree Tree, prefix string, accessors map[string]AccessorFunc) error {
	for _, key := range sortedKeys(tree) {
		path := joinPath(prefix, key)

		if sub, ok := tree[key].(map[string]any); ok {
			if err := b.installLeaves(obj.section(key), sub, path, accessors); err != nil {
				return err
			}
			continue
		}

		var d Descriptor
		if fn, ok := accessors[path]; ok && fn != nil {
			d = fn(tree, key)
		} else {
			d = defaultAccessor(tree, key, func(v any) {
				b.log.Debug().Str("path", path).Type("type", v).Msg("Ignoring write of a different kind")
			})
		}
		if err := d.validate(path); err != nil {
			return fmt.Errorf("config %s: %w", b.name, err)
		}
		obj.define(key, &property{desc: d})
	}
	return nil
}

// Private returns the live private tree. Writes to it bypass every accessor.
func (b *Base) Private() Tree {
	return b.private
}

// Name returns the configuration's display name.
func (b *Base) Name() string {
	return b.name
}

// Snapshot returns the visible public values as a fresh tree.
func (b *Base) Snapshot() Tree {
	return snapshotObject(&b.Object)
}

func snapshotObject(o *Object) Tree {
	tree := make(Tree)
	for _, key := range o.Keys() {
		p := o.props[key]
		if p.child != nil {
			tree[key] = snapshotObject(p.child)
			continue
		}
		tree[key] = p.get()
	}
	return tree
}

// String renders the live values as "Name { a: 1, b: { c: 'x' } }".
func (b *Base) String() string {
	return b.name + " " + renderObject(&b.Object)
}

// Configure projects the configuration's interfaces onto target and gives the
// target a display tag derived from its type. Descriptors from an
// InterfaceDefiner are installed first, then each of extra in order.
// Calling it again reinstalls the same properties.
func (b *Base) Configure(target Target, extra ...map[string]Descriptor) error {
	if isNilTarget(target) {
		return fmt.Errorf("config %s: configure target cannot be nil", b.name)
	}

	var sets []map[string]Descriptor
	if def, ok := b.self.(InterfaceDefiner); ok {
		sets = append(sets, def.Interfaces())
	}
	sets = append(sets, extra...)

	for _, set := range sets {
		for name, d := range set {
			if !isValidKeySegment(name) {
				return fmt.Errorf("config %s: %w: interface %q", b.name, ErrInvalidKey, name)
			}
			if err := d.validate(name); err != nil {
				return fmt.Errorf("config %s: %w", b.name, err)
			}
		}
	}

	obj := target.properties()
	obj.bind(target)
	obj.tag = typeName(target)

	for _, set := range sets {
		names := make([]string, 0, len(set))
		for name := range set {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			obj.define(name, &property{desc: set[name]})
		}
	}

	b.log.Debug().Str("target", obj.tag).Int("properties", len(obj.keys)).Msg("Configured target")
	return nil
}

// typeName returns the name of v's type with pointers removed.
func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Name() == "" {
		return "Object"
	}
	return t.Name()
}

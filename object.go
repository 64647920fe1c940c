// FILE: lixenwraith/classconfig/object.go
package classconfig

import (
	"fmt"
	"slices"
	"strings"
)

// Target is anything that carries a property table. Embed Object to become one.
type Target interface {
	properties() *Object
}

// property is one resolved slot of an Object.
type property struct {
	desc  Descriptor
	child *Object // nested configuration section
	value any     // slot content once data is set
	data  bool    // plain data property, dispatch bypasses desc
}

func (p *property) configurable() bool {
	if p.child != nil {
		return false
	}
	return p.data || p.desc.Configurable || p.desc.Kind == KindReplaceable || p.desc.Kind == KindMethod
}

// Object is a table of named properties, each backed by a Descriptor.
// Configurations expose their leaves through one, and Configure projects
// interfaces onto the Object embedded in a target. The zero value is ready to use.
type Object struct {
	owner any
	tag   string
	props map[string]*property
	keys  []string
}

func (o *Object) properties() *Object { return o }

// bind records the value embedding this Object, used for registry lookups.
func (o *Object) bind(owner any) {
	if o.owner == nil {
		o.owner = owner
	}
}

// define installs or replaces a property, keeping its original position.
func (o *Object) define(name string, p *property) {
	if o.props == nil {
		o.props = make(map[string]*property)
	}
	if _, exists := o.props[name]; !exists {
		o.keys = append(o.keys, name)
	}
	o.props[name] = p
}

// section returns the nested Object under name, creating it when absent.
func (o *Object) section(name string) *Object {
	if p, ok := o.props[name]; ok && p.child != nil {
		return p.child
	}
	child := &Object{}
	o.define(name, &property{child: child})
	return child
}

// resolve walks a dotted path down to the Object holding its last segment.
func (o *Object) resolve(path string) (*Object, string, error) {
	segments := strings.Split(path, ".")
	current := o

	for _, segment := range segments[:len(segments)-1] {
		p, ok := current.props[segment]
		if !ok || p.child == nil {
			return nil, "", fmt.Errorf("%w: %s", ErrUnknownProperty, path)
		}
		current = p.child
	}
	return current, segments[len(segments)-1], nil
}

func (o *Object) lookup(path string) (*property, error) {
	holder, name, err := o.resolve(path)
	if err != nil {
		return nil, err
	}
	p, ok := holder.props[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProperty, path)
	}
	return p, nil
}

// Get returns the current value at path. Sections are returned as *Object.
func (o *Object) Get(path string) (any, bool) {
	p, err := o.lookup(path)
	if err != nil {
		return nil, false
	}
	return p.get(), true
}

func (p *property) get() any {
	switch {
	case p.child != nil:
		return p.child
	case p.data:
		return p.value
	case p.desc.Kind == KindMethod:
		return p.desc.Value
	}
	return p.desc.Get()
}

// Has reports whether path names a property.
func (o *Object) Has(path string) bool {
	_, err := o.lookup(path)
	return err == nil
}

// Set assigns value at path according to the property's kind.
// A write rejected by a read-only or type-guarded property is not an error.
func (o *Object) Set(path string, value any) error {
	p, err := o.lookup(path)
	if err != nil {
		return err
	}
	if p.child != nil {
		return fmt.Errorf("%w: %s", ErrBranchAssign, path)
	}

	switch {
	case p.data:
		p.value = value
	case p.desc.Kind == KindReplaceable, p.desc.Kind == KindMethod:
		p.data = true
		p.value = value
	case p.desc.Kind == KindReadOnly:
	default:
		if p.desc.Set != nil {
			p.desc.Set(value)
		}
	}
	return nil
}

// Delete removes the property at path. Fixed properties return ErrNotConfigurable;
// a path that names nothing is not an error.
func (o *Object) Delete(path string) error {
	holder, name, err := o.resolve(path)
	if err != nil {
		return nil
	}
	p, ok := holder.props[name]
	if !ok {
		return nil
	}
	if !p.configurable() {
		return fmt.Errorf("%w: %s", ErrNotConfigurable, path)
	}

	delete(holder.props, name)
	holder.keys = slices.DeleteFunc(holder.keys, func(k string) bool { return k == name })
	return nil
}

// Keys returns the visible property names in definition order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, len(o.keys))
	for _, k := range o.keys {
		if !o.props[k].desc.Hidden {
			keys = append(keys, k)
		}
	}
	return keys
}

// Tag returns the display name assigned by Configure, or "Object".
func (o *Object) Tag() string {
	if o.tag == "" {
		return "Object"
	}
	return o.tag
}

// String renders the object as "[object Tag]".
func (o *Object) String() string {
	return "[object " + o.Tag() + "]"
}

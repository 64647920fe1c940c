// FILE: lixenwraith/classconfig/registry.go
package classconfig

import (
	"reflect"
	"runtime"
	"sync"
	"weak"

	"github.com/rs/zerolog"
)

// handle identifies a registered member without keeping it reachable.
type handle = weak.Pointer[Object]

// registryEntry links one member to its partner.
type registryEntry struct {
	partner handle
	cleanup runtime.Cleanup
}

// Registry associates configurations with the objects they configure, in both
// directions. It holds only weak pointers: when either member of a pair becomes
// unreachable the pair is dropped without an explicit Delete.
//
// Only pairs made of exactly one configuration and one non-configuration are
// accepted. The mutex exists because evictions run on the runtime's cleanup goroutine.
type Registry struct {
	mu      sync.Mutex
	entries map[handle]registryEntry
	log     zerolog.Logger
}

// NewRegistry creates an empty registry. Only WithLogger is honoured.
func NewRegistry(opts ...Option) *Registry {
	o := newOptions(opts...)
	return &Registry{
		entries: make(map[handle]registryEntry),
		log:     o.logger.With().Str("component", "registry").Logger(),
	}
}

// Set pairs a and b. Pairs of two configurations or two plain objects are ignored.
// A member that is already paired is unlinked from its previous partner first.
func (r *Registry) Set(a, b Target) {
	if isNilTarget(a) || isNilTarget(b) {
		return
	}
	_, aIsConfig := a.(Configurable)
	_, bIsConfig := b.(Configurable)
	if aIsConfig == bIsConfig {
		r.log.Debug().Str("a", typeName(a)).Str("b", typeName(b)).Bool("config", aIsConfig).Msg("Rejected registry pair")
		return
	}

	aObj, bObj := a.properties(), b.properties()
	aObj.bind(a)
	bObj.bind(b)
	ka, kb := weak.Make(aObj), weak.Make(bObj)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.unlinkLocked(ka)
	r.unlinkLocked(kb)

	r.entries[ka] = registryEntry{partner: kb, cleanup: runtime.AddCleanup(aObj, r.evict, ka)}
	r.entries[kb] = registryEntry{partner: ka, cleanup: runtime.AddCleanup(bObj, r.evict, kb)}
}

// Delete removes the pair x belongs to, in both directions. Unknown keys are ignored.
func (r *Registry) Delete(x Target) {
	if isNilTarget(x) {
		return
	}
	k := weak.Make(x.properties())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.unlinkLocked(k)
}

// GetConfig returns the configuration paired with x. It never returns a plain object.
func (r *Registry) GetConfig(x Target) (Configurable, bool) {
	partner, ok := r.partner(x)
	if !ok {
		return nil, false
	}
	cfg, ok := partner.(Configurable)
	return cfg, ok
}

// GetObject returns the object paired with the configuration x.
// It reports false when x is not a configuration.
func (r *Registry) GetObject(x Target) (Target, bool) {
	if _, ok := x.(Configurable); !ok {
		return nil, false
	}
	return r.partner(x)
}

// Len returns the number of registered members, two per pair.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) partner(x Target) (Target, bool) {
	if isNilTarget(x) {
		return nil, false
	}
	k := weak.Make(x.properties())

	r.mu.Lock()
	entry, ok := r.entries[k]
	r.mu.Unlock()
	if !ok {
		return nil, false
	}

	obj := entry.partner.Value()
	if obj == nil {
		return nil, false
	}
	owner, ok := obj.owner.(Target)
	return owner, ok
}

// isNilTarget reports nil interfaces and typed nil pointers, which have no Object.
func isNilTarget(x Target) bool {
	if x == nil {
		return true
	}
	v := reflect.ValueOf(x)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// unlinkLocked drops k and the reverse entry of its partner.
func (r *Registry) unlinkLocked(k handle) {
	entry, ok := r.entries[k]
	if !ok {
		return
	}
	entry.cleanup.Stop()
	delete(r.entries, k)

	if back, ok := r.entries[entry.partner]; ok && back.partner == k {
		back.cleanup.Stop()
		delete(r.entries, entry.partner)
	}
}

// evict runs after the member behind k has been collected.
func (r *Registry) evict(k handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[k]
	if !ok {
		return
	}
	delete(r.entries, k)
	if back, ok := r.entries[entry.partner]; ok && back.partner == k {
		back.cleanup.Stop()
		delete(r.entries, entry.partner)
	}
	r.log.Debug().Msg("Evicted collected registry pair")
}

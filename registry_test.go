// FILE: lixenwraith/classconfig/registry_test.go
package classconfig

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Config1 struct{ Base }
type Config2 struct{ Base }

type plainObject struct {
	Object
	id int
}

func newConfig1(t *testing.T) *Config1 {
	t.Helper()
	c := &Config1{}
	require.NoError(t, c.Init(c, Tree{}, nil))
	return c
}

func newConfig2(t *testing.T) *Config2 {
	t.Helper()
	c := &Config2{}
	require.NoError(t, c.Init(c, Tree{}, nil))
	return c
}

func assertNoConfig(t *testing.T, r *Registry, x Target) {
	t.Helper()
	cfg, ok := r.GetConfig(x)
	assert.False(t, ok)
	assert.Nil(t, cfg)
}

func assertNoObject(t *testing.T, r *Registry, x Target) {
	t.Helper()
	obj, ok := r.GetObject(x)
	assert.False(t, ok)
	assert.Nil(t, obj)
}

// TestRegistryPairs tests registration and lookup in both directions
func TestRegistryPairs(t *testing.T) {
	r := NewRegistry()

	obj1, cfg1 := &plainObject{id: 1}, newConfig1(t)
	obj2, cfg2 := &plainObject{id: 2}, newConfig2(t)
	obj3, obj4 := &plainObject{id: 3}, &plainObject{id: 4}
	cfg3, cfg4 := newConfig1(t), newConfig2(t)

	t.Run("Empty", func(t *testing.T) {
		for _, x := range []Target{obj1, cfg1, obj2, cfg2} {
			assertNoConfig(t, r, x)
			assertNoObject(t, r, x)
		}
		assert.Equal(t, 0, r.Len())
	})

	t.Run("ObjectThenConfig", func(t *testing.T) {
		r.Set(obj1, cfg1)

		got, ok := r.GetConfig(obj1)
		require.True(t, ok)
		assert.Same(t, cfg1, got)
		assertNoConfig(t, r, cfg1)

		back, ok := r.GetObject(cfg1)
		require.True(t, ok)
		assert.Same(t, obj1, back)
		assertNoObject(t, r, obj1)
	})

	t.Run("ConfigThenObject", func(t *testing.T) {
		r.Set(cfg2, obj2)

		got, ok := r.GetConfig(obj2)
		require.True(t, ok)
		assert.Same(t, cfg2, got)

		back, ok := r.GetObject(cfg2)
		require.True(t, ok)
		assert.Same(t, obj2, back)

		got, ok = r.GetConfig(obj1)
		require.True(t, ok)
		assert.Same(t, cfg1, got)
		assert.Equal(t, 4, r.Len())
	})

	t.Run("TwoObjectsIgnored", func(t *testing.T) {
		r.Set(obj3, obj4)
		assertNoConfig(t, r, obj3)
		assertNoConfig(t, r, obj4)
		assertNoObject(t, r, obj3)
		assertNoObject(t, r, obj4)
		assert.Equal(t, 4, r.Len())
	})

	t.Run("TwoConfigsIgnored", func(t *testing.T) {
		r.Set(cfg3, cfg4)
		assertNoConfig(t, r, cfg3)
		assertNoConfig(t, r, cfg4)
		assertNoObject(t, r, cfg3)
		assertNoObject(t, r, cfg4)
		assert.Equal(t, 4, r.Len())
	})

	t.Run("DeleteByObject", func(t *testing.T) {
		r.Delete(obj1)
		assertNoConfig(t, r, obj1)
		assertNoObject(t, r, cfg1)

		_, ok := r.GetConfig(obj2)
		assert.True(t, ok)
		assert.Equal(t, 2, r.Len())
	})

	t.Run("DeleteByConfig", func(t *testing.T) {
		r.Delete(cfg2)
		assertNoConfig(t, r, obj2)
		assertNoObject(t, r, cfg2)
		assert.Equal(t, 0, r.Len())
	})

	t.Run("DeleteUnknown", func(t *testing.T) {
		r.Delete(obj3)
		r.Delete(nil)
		r.Set(nil, cfg1)
		assert.Equal(t, 0, r.Len())
	})
}

// TestRegistryRepair tests that re-pairing a member unlinks its old partner
func TestRegistryRepair(t *testing.T) {
	r := NewRegistry()
	obj := &plainObject{}
	cfgA, cfgB := newConfig1(t), newConfig2(t)

	r.Set(obj, cfgA)
	r.Set(obj, cfgB)

	got, ok := r.GetConfig(obj)
	require.True(t, ok)
	assert.Same(t, cfgB, got)
	assertNoObject(t, r, cfgA)
	assert.Equal(t, 2, r.Len())
}

// TestRegistryWithConfigured tests a registry pair built by Configure
func TestRegistryWithConfigured(t *testing.T) {
	r := NewRegistry()
	cfg := newMyClassConfig(t, map[string]any{"a": 3})
	obj := newMyClass(t, cfg)

	r.Set(obj, cfg)
	got, ok := r.GetConfig(obj)
	require.True(t, ok)

	myCfg, ok := got.(*MyClassConfig)
	require.True(t, ok)
	a, _ := myCfg.Get("a")
	assert.Equal(t, 3, a)

	back, ok := r.GetObject(&cfg.Base)
	require.True(t, ok)
	assert.Same(t, obj, back)
}

// TestRegistryWeak tests that the registry does not keep members alive
func TestRegistryWeak(t *testing.T) {
	r := NewRegistry()
	cfg := newConfig1(t)

	func() {
		r.Set(&plainObject{id: 99}, cfg)
	}()
	require.Equal(t, 2, r.Len())

	assert.Eventually(t, func() bool {
		runtime.GC()
		return r.Len() == 0
	}, 5*time.Second, 10*time.Millisecond)

	assertNoObject(t, r, cfg)
	runtime.KeepAlive(cfg)
}

// TestRegistryNilMembers tests that nil pointers are ignored without panicking
func TestRegistryNilMembers(t *testing.T) {
	r := NewRegistry()
	cfg := newConfig1(t)
	obj := &plainObject{}
	r.Set(obj, cfg)

	var nilObj *plainObject
	var nilCfg *Config1

	assert.NotPanics(t, func() {
		r.Set(nilObj, cfg)
		r.Set(obj, nilCfg)
		r.Delete(nilObj)
		r.Delete(nilCfg)

		_, ok := r.GetConfig(nilObj)
		assert.False(t, ok)
		_, ok = r.GetObject(nilCfg)
		assert.False(t, ok)
	})

	got, ok := r.GetConfig(obj)
	require.True(t, ok)
	assert.Same(t, cfg, got)
	assert.Equal(t, 2, r.Len())

	t.Run("Configure", func(t *testing.T) {
		var target *MyClass
		assert.NotPanics(t, func() {
			assert.Error(t, cfg.Configure(target))
		})
	})
}

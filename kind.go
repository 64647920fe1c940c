// FILE: lixenwraith/classconfig/kind.go
package classconfig

import "reflect"

// valueKind groups Go values the way the default accessor compares them.
type valueKind int

const (
	kindNone valueKind = iota
	kindNumber
	kindString
	kindBool
	kindTree
	kindOther
)

// kindOf classifies a value. All integer and float kinds count as numbers.
func kindOf(v any) valueKind {
	if v == nil {
		return kindNone
	}
	if _, ok := v.(map[string]any); ok {
		return kindTree
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return kindNumber
	case reflect.String:
		return kindString
	case reflect.Bool:
		return kindBool
	}
	return kindOther
}

// sameKind reports whether next may replace current under the type guard.
// Values outside the primitive kinds only match an identical Go type.
func sameKind(current, next any) bool {
	ck, nk := kindOf(current), kindOf(next)
	if ck != nk {
		return false
	}
	switch ck {
	case kindNone, kindTree:
		return false
	case kindOther:
		return reflect.TypeOf(current) == reflect.TypeOf(next)
	}
	return true
}

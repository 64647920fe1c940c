// FILE: lixenwraith/classconfig/render.go
package classconfig

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// renderObject formats the visible properties of o as "{ a: 1, b: { c: 'x' } }".
func renderObject(o *Object) string {
	keys := o.Keys()
	if len(keys) == 0 {
		return "{}"
	}

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		p := o.props[key]
		if p.child != nil {
			parts = append(parts, key+": "+renderObject(p.child))
			continue
		}
		parts = append(parts, key+": "+renderValue(p.get()))
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// renderValue formats a single leaf. The output is for diagnostics only.
func renderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return quote(val)
	case bool:
		return strconv.FormatBool(val)
	case map[string]any:
		return renderTree(val)
	case []any:
		return renderSlice(reflect.ValueOf(val))
	case *Object:
		return renderObject(val)
	case fmt.Stringer:
		return val.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return formatFloat(rv.Float())
	case reflect.String:
		return quote(rv.String())
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Func:
		return "[Function]"
	case reflect.Slice, reflect.Array:
		return renderSlice(rv)
	}
	return fmt.Sprintf("%v", v)
}

func renderTree(tree Tree) string {
	if len(tree) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(tree))
	for _, key := range sortedKeys(tree) {
		parts = append(parts, key+": "+renderValue(tree[key]))
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func renderSlice(rv reflect.Value) string {
	if rv.Len() == 0 {
		return "[]"
	}
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = renderValue(rv.Index(i).Interface())
	}
	return "[ " + strings.Join(parts, ", ") + " ]"
}

func formatFloat(f float64) string {
	if math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

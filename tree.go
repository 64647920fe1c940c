// FILE: lixenwraith/classconfig/tree.go
package classconfig

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Tree is a nested mapping from field name to a leaf value or another Tree.
// Nested branches are always plain map[string]any.
type Tree = map[string]any

// toTree normalizes defaults or overrides into a freshly allocated Tree.
// Maps with string keys, structs, struct pointers and configurations are accepted.
func toTree(src any) (Tree, error) {
	if src == nil {
		return make(Tree), nil
	}
	if c, ok := src.(Configurable); ok {
		return c.configBase().Snapshot(), nil
	}

	v := reflect.ValueOf(src)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return make(Tree), nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: map keys must be strings, got %s", ErrInvalidDefaults, v.Type().Key())
		}
		return mapToTree(v), nil
	case reflect.Struct:
		tree := make(Tree)
		structFields(v, tree)
		return tree, nil
	}
	return nil, fmt.Errorf("%w: expected a map or struct, got %T", ErrInvalidDefaults, src)
}

// mapToTree copies a string-keyed map, turning nested maps and structs into branches.
func mapToTree(v reflect.Value) Tree {
	tree := make(Tree, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		tree[iter.Key().String()] = normalizeValue(iter.Value())
	}
	return tree
}

// structFields walks exported fields using `toml` tags for names.
func structFields(v reflect.Value, tree Tree) {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("toml")
		if tag == "-" {
			continue
		}

		key := field.Name
		if tag != "" {
			if name, _, _ := strings.Cut(tag, ","); name != "" {
				key = name
			}
		}

		fieldValue := v.Field(i)
		if fieldValue.Kind() == reflect.Ptr && fieldValue.Type().Elem().Kind() == reflect.Struct {
			if fieldValue.IsNil() {
				// Nil struct pointers have no defaults to offer
				continue
			}
		}
		tree[key] = normalizeValue(fieldValue)
	}
}

// normalizeValue converts nested maps and structs to branches and leaves everything else as is.
func normalizeValue(v reflect.Value) any {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() == reflect.String && !v.IsNil() {
			return mapToTree(v)
		}
	case reflect.Struct:
		if isLeafStruct(v.Type()) {
			break
		}
		sub := make(Tree)
		structFields(v, sub)
		return sub
	case reflect.Ptr:
		if !v.IsNil() && v.Elem().Kind() == reflect.Struct && !isLeafStruct(v.Elem().Type()) {
			sub := make(Tree)
			structFields(v.Elem(), sub)
			return sub
		}
	}
	return v.Interface()
}

// isLeafStruct reports struct types that are values rather than sections, such as time.Time.
func isLeafStruct(t reflect.Type) bool {
	return !hasExportedField(t)
}

func hasExportedField(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).IsExported() {
			return true
		}
	}
	return false
}

// cloneTree creates a deep copy of a tree.
func cloneTree(src Tree) Tree {
	if src == nil {
		return nil
	}

	dst := make(Tree, len(src))
	for key, val := range src {
		switch v := val.(type) {
		case map[string]any:
			dst[key] = cloneTree(v)
		case []any:
			dst[key] = cloneSlice(v)
		default:
			dst[key] = val
		}
	}
	return dst
}

func cloneSlice(src []any) []any {
	dst := make([]any, len(src))
	for i, val := range src {
		switch v := val.(type) {
		case map[string]any:
			dst[i] = cloneTree(v)
		case []any:
			dst[i] = cloneSlice(v)
		default:
			dst[i] = val
		}
	}
	return dst
}

// mergeLeaves copies leaves of src onto dst where dst already holds a leaf of the same kind.
// Paths only present in src are dropped and branches are never replaced wholesale.
// It returns the dotted paths that were rejected by the kind guard.
func mergeLeaves(dst, src Tree, prefix string) []string {
	var rejected []string

	for key, srcVal := range src {
		dstVal, exists := dst[key]
		if !exists {
			continue
		}

		path := joinPath(prefix, key)
		dstMap, dstIsMap := dstVal.(map[string]any)
		srcMap, srcIsMap := srcVal.(map[string]any)

		switch {
		case dstIsMap && srcIsMap:
			rejected = append(rejected, mergeLeaves(dstMap, srcMap, path)...)
		case dstIsMap || srcIsMap:
			rejected = append(rejected, path)
		case sameKind(dstVal, srcVal):
			dst[key] = srcVal
		default:
			rejected = append(rejected, path)
		}
	}

	return rejected
}

// flattenTree converts a nested tree to a flat map with dot-notation paths.
func flattenTree(nested Tree, prefix string) map[string]any {
	flat := make(map[string]any)

	for key, value := range nested {
		newPath := joinPath(prefix, key)
		if nestedMap, isMap := value.(map[string]any); isMap {
			for subPath, subValue := range flattenTree(nestedMap, newPath) {
				flat[subPath] = subValue
			}
		} else {
			flat[newPath] = value
		}
	}

	return flat
}

// setNestedValue sets a value in a nested tree using a dot-notation path.
// It creates intermediate maps if they don't exist.
// If a segment exists but is not a map, it will be overwritten by a new map.
func setNestedValue(nested Tree, path string, value any) {
	segments := strings.Split(path, ".")
	current := nested

	for i := 0; i < len(segments)-1; i++ {
		segment := segments[i]
		if nextMap, isMap := current[segment].(map[string]any); isMap {
			current = nextMap
			continue
		}
		newMap := make(Tree)
		current[segment] = newMap
		current = newMap
	}

	current[segments[len(segments)-1]] = value
}

// lookupPath traverses a nested tree to reach the specified path.
func lookupPath(nested Tree, path string) (any, bool) {
	path = strings.TrimSuffix(path, ".")
	if path == "" {
		return nested, true
	}

	current := any(nested)
	for _, segment := range strings.Split(path, ".") {
		currentMap, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		value, exists := currentMap[segment]
		if !exists {
			return nil, false
		}
		current = value
	}
	return current, true
}

// validateKeys checks every key of a tree, returning the first offending path.
func validateKeys(tree Tree, prefix string) error {
	for _, key := range sortedKeys(tree) {
		path := joinPath(prefix, key)
		if !isValidKeySegment(key) {
			return fmt.Errorf("%w: segment %q in path %q", ErrInvalidKey, key, path)
		}
		if sub, ok := tree[key].(map[string]any); ok {
			if err := validateKeys(sub, path); err != nil {
				return err
			}
		}
	}
	return nil
}

// isValidKeySegment checks if a single path segment is a valid bare key.
func isValidKeySegment(s string) bool {
	if len(s) == 0 {
		return false
	}

	for _, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if !(isLetter || isDigit || r == '_' || r == '-') {
			return false
		}
	}
	return true
}

func sortedKeys(tree Tree) []string {
	keys := make([]string, 0, len(tree))
	for k := range tree {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// deepMerge recursively merges src into dst. Values in src override values in dst.
// Maps are merged recursively; other types are replaced.
func deepMerge(dst, src Tree) Tree {
	if dst == nil {
		dst = make(Tree)
	}

	for key, srcVal := range src {
		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = deepMerge(dstMap, srcMap)
			continue
		}
		if srcIsMap {
			dst[key] = cloneTree(srcMap)
			continue
		}
		dst[key] = srcVal
	}

	return dst
}

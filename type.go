// File: lixenwraith/classconfig/type.go
package classconfig

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// scalar reads the property at path for the typed getters. Hidden properties
// and properties replaced by a plain value are read like any other. A section
// has no scalar value.
func (o *Object) scalar(path string) (any, error) {
	p, err := o.lookup(path)
	if err != nil {
		return nil, err
	}
	if p.child != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotLeaf, path)
	}
	return p.get(), nil
}

// GetString returns the property at path as text. Numbers and bools are
// formatted the way String renders them, without quotes; null reads as "".
func (o *Object) GetString(path string) (string, error) {
	v, err := o.scalar(path)
	if err != nil || v == nil {
		return "", err
	}

	switch kindOf(v) {
	case kindString:
		return reflect.ValueOf(v).String(), nil
	case kindNumber, kindBool:
		if s, ok := v.(fmt.Stringer); ok {
			return s.String(), nil
		}
		return renderValue(v), nil
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String(), nil
	}
	return "", fmt.Errorf("property %s holds %T, not text", path, v)
}

// GetInt64 returns the property at path as an integer. Floats are truncated,
// strings are parsed (base prefixes allowed) and bools read as 0 or 1.
func (o *Object) GetInt64(path string) (int64, error) {
	v, err := o.scalar(path)
	if err != nil {
		return 0, err
	}

	switch kindOf(v) {
	case kindNumber:
		return numberToInt64(path, reflect.ValueOf(v))
	case kindString:
		s := reflect.ValueOf(v).String()
		if i, err := strconv.ParseInt(s, 0, 64); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("property %s: %q is not a number", path, s)
		}
		return floatToInt64(path, f)
	case kindBool:
		if reflect.ValueOf(v).Bool() {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("property %s holds %T, not a number", path, v)
}

// GetFloat64 returns the property at path as a float. Strings are parsed and
// bools read as 0 or 1.
func (o *Object) GetFloat64(path string) (float64, error) {
	v, err := o.scalar(path)
	if err != nil {
		return 0, err
	}

	switch kindOf(v) {
	case kindNumber:
		rv := reflect.ValueOf(v)
		switch {
		case rv.CanFloat():
			return rv.Float(), nil
		case rv.CanInt():
			return float64(rv.Int()), nil
		default:
			return float64(rv.Uint()), nil
		}
	case kindString:
		s := reflect.ValueOf(v).String()
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("property %s: %q is not a number", path, s)
		}
		return f, nil
	case kindBool:
		if reflect.ValueOf(v).Bool() {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("property %s holds %T, not a number", path, v)
}

// GetBool returns the property at path as a bool. Any non-zero number is true;
// strings must parse with strconv.ParseBool.
func (o *Object) GetBool(path string) (bool, error) {
	v, err := o.scalar(path)
	if err != nil {
		return false, err
	}

	switch kindOf(v) {
	case kindBool:
		return reflect.ValueOf(v).Bool(), nil
	case kindNumber:
		rv := reflect.ValueOf(v)
		return !rv.IsZero(), nil
	case kindString:
		s := reflect.ValueOf(v).String()
		b, err := strconv.ParseBool(s)
		if err != nil {
			return false, fmt.Errorf("property %s: %q is not a bool", path, s)
		}
		return b, nil
	}
	return false, fmt.Errorf("property %s holds %T, not a bool", path, v)
}

func numberToInt64(path string, rv reflect.Value) (int64, error) {
	switch {
	case rv.CanInt():
		return rv.Int(), nil
	case rv.CanUint():
		if u := rv.Uint(); u <= math.MaxInt64 {
			return int64(u), nil
		}
		return 0, fmt.Errorf("property %s: %d overflows int64", path, rv.Uint())
	}
	return floatToInt64(path, rv.Float())
}

func floatToInt64(path string, f float64) (int64, error) {
	if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("property %s: %v overflows int64", path, f)
	}
	return int64(f), nil
}

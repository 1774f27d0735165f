// Package wire implements the taco message model and its line-framed
// transport: generic value trees, object references, and the Filter hook
// through which each side of the channel turns opaque objects into handles.
package wire

import (
	"errors"
	"fmt"
	"math"
	"reflect"
)

// ObjectKey is the reserved mapping key marking an object reference on
// the wire: {"_Taco_Object_": <number>}.
const ObjectKey = "_Taco_Object_"

// ErrUnknownObject is returned when a value cannot be represented on the
// wire and no Filter is available to turn it into a reference.
var ErrUnknownObject = errors.New("unknown object type")

// Ref is a raw object reference. It only appears at the wire boundary;
// Filters normally replace it with an application object.
type Ref struct {
	Number int64
}

func (r Ref) String() string {
	return fmt.Sprintf("<taco object %d>", r.Number)
}

// RefMap returns the wire form of a reference to handle n.
func RefMap(n int64) map[string]any {
	return map[string]any{ObjectKey: n}
}

// IsRef reports whether m is exactly the single-key reference form with an
// integer handle and returns the handle number.
func IsRef(m map[string]any) (int64, bool) {
	if len(m) != 1 {
		return 0, false
	}
	v, ok := m[ObjectKey]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}

// Filter converts between opaque application objects and handle numbers.
// The client and the server each supply their own implementation.
type Filter interface {
	// ObjectToRef returns the handle number representing v.
	ObjectToRef(v any) (int64, error)

	// RefToObject returns the application value for handle n.
	RefToObject(n int64) (any, error)
}

// Decode converts a parsed wire value into an application value. Reference
// mappings are handed to f; with a nil Filter they stay plain mappings.
func Decode(v any, f Filter) (any, error) {
	switch x := v.(type) {
	case nil, bool, int64, float64, string:
		return x, nil
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			d, err := Decode(e, f)
			if err != nil {
				return nil, err
			}
			out[i] = d
		}
		return out, nil
	case map[string]any:
		if n, ok := IsRef(x); ok && f != nil {
			obj, err := f.RefToObject(n)
			if err != nil {
				return nil, &FilterError{Number: n, Err: err}
			}
			return obj, nil
		}
		out := make(map[string]any, len(x))
		for k, e := range x {
			d, err := Decode(e, f)
			if err != nil {
				return nil, err
			}
			out[k] = d
		}
		return out, nil
	case Message:
		return Decode(map[string]any(x), f)
	default:
		return nil, fmt.Errorf("unexpected type in message: %T", v)
	}
}

// Encode converts an application value into a wire value tree made only of
// nil, bool, int64, float64, string, []any and map[string]any.
func Encode(v any, f Filter) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case bool, int64, float64, string:
		return x, nil
	case int:
		return int64(x), nil
	case Ref:
		return RefMap(x.Number), nil
	case Message:
		return encodeMap(reflect.ValueOf(map[string]any(x)), f)
	case []any:
		if x == nil {
			return nil, nil
		}
		out := make([]any, len(x))
		for i, e := range x {
			enc, err := Encode(e, f)
			if err != nil {
				return nil, err
			}
			out[i] = enc
		}
		return out, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return float64(u), nil
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Slice:
		if rv.IsNil() {
			return nil, nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return string(rv.Bytes()), nil
		}
		return encodeSeq(rv, f)
	case reflect.Array:
		return encodeSeq(rv, f)
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			if rv.IsNil() {
				return nil, nil
			}
			return encodeMap(rv, f)
		}
	}

	if f == nil {
		return nil, fmt.Errorf("%w: %T", ErrUnknownObject, v)
	}
	n, err := f.ObjectToRef(v)
	if err != nil {
		return nil, err
	}
	return RefMap(n), nil
}

func encodeSeq(rv reflect.Value, f Filter) (any, error) {
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		enc, err := Encode(rv.Index(i).Interface(), f)
		if err != nil {
			return nil, err
		}
		out[i] = enc
	}
	return out, nil
}

func encodeMap(rv reflect.Value, f Filter) (any, error) {
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		enc, err := Encode(iter.Value().Interface(), f)
		if err != nil {
			return nil, err
		}
		out[iter.Key().String()] = enc
	}
	return out, nil
}

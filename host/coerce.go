package host

import (
	"math"
	"reflect"
)

// Coerce converts a decoded wire value to type t using the resolver's
// narrow policy: exact type, numeric widening between the wire's int64 and
// float64 and any Go numeric kind that holds the value, bool and string
// into named kinds, element-wise conversion of lists and string-keyed
// maps, and otherwise plain assignability. nil binds to nillable kinds.
func Coerce(a any, t reflect.Type) (reflect.Value, bool) {
	if a == nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), true
		}
		return reflect.Value{}, false
	}

	av := reflect.ValueOf(a)
	if av.Type() == t {
		return av, true
	}

	switch x := a.(type) {
	case int64:
		if v, ok := fromInt(x, t); ok {
			return v, true
		}
	case float64:
		if v, ok := fromFloat(x, t); ok {
			return v, true
		}
	case bool:
		if t.Kind() == reflect.Bool {
			return av.Convert(t), true
		}
	case string:
		if t.Kind() == reflect.String {
			return av.Convert(t), true
		}
	case []any:
		if v, ok := fromList(x, t); ok {
			return v, true
		}
	case map[string]any:
		if v, ok := fromMap(x, t); ok {
			return v, true
		}
	}

	if av.Type().AssignableTo(t) {
		return av, true
	}
	return reflect.Value{}, false
}

func fromInt(x int64, t reflect.Type) (reflect.Value, bool) {
	z := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if z.OverflowInt(x) {
			return reflect.Value{}, false
		}
		z.SetInt(x)
		return z, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if x < 0 || z.OverflowUint(uint64(x)) {
			return reflect.Value{}, false
		}
		z.SetUint(uint64(x))
		return z, true
	case reflect.Float32, reflect.Float64:
		z.SetFloat(float64(x))
		return z, true
	}
	return reflect.Value{}, false
}

func fromFloat(x float64, t reflect.Type) (reflect.Value, bool) {
	z := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		if z.OverflowFloat(x) {
			return reflect.Value{}, false
		}
		z.SetFloat(x)
		return z, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if x != math.Trunc(x) || x < math.MinInt64 || x >= math.MaxInt64 {
			return reflect.Value{}, false
		}
		return fromInt(int64(x), t)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if x != math.Trunc(x) || x < 0 || x >= math.MaxUint64 {
			return reflect.Value{}, false
		}
		u := uint64(x)
		if z.OverflowUint(u) {
			return reflect.Value{}, false
		}
		z.SetUint(u)
		return z, true
	}
	return reflect.Value{}, false
}

func fromList(x []any, t reflect.Type) (reflect.Value, bool) {
	switch t.Kind() {
	case reflect.Slice:
		s := reflect.MakeSlice(t, len(x), len(x))
		for i, e := range x {
			v, ok := Coerce(e, t.Elem())
			if !ok {
				return reflect.Value{}, false
			}
			s.Index(i).Set(v)
		}
		return s, true
	case reflect.Array:
		if t.Len() != len(x) {
			return reflect.Value{}, false
		}
		arr := reflect.New(t).Elem()
		for i, e := range x {
			v, ok := Coerce(e, t.Elem())
			if !ok {
				return reflect.Value{}, false
			}
			arr.Index(i).Set(v)
		}
		return arr, true
	}
	return reflect.Value{}, false
}

func fromMap(x map[string]any, t reflect.Type) (reflect.Value, bool) {
	if t.Kind() != reflect.Map || t.Key().Kind() != reflect.String {
		return reflect.Value{}, false
	}
	m := reflect.MakeMapWithSize(t, len(x))
	for k, e := range x {
		v, ok := Coerce(e, t.Elem())
		if !ok {
			return reflect.Value{}, false
		}
		m.SetMapIndex(reflect.ValueOf(k).Convert(t.Key()), v)
	}
	return m, true
}

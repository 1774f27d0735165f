package host

import (
	"fmt"
	"reflect"
)

// GetField reads the exported struct field name of obj. A field tagged
// `taco:"name"` is found by its tag as well as by its Go name.
func GetField(obj any, name string) (any, error) {
	f, err := field(obj, name)
	if err != nil {
		return nil, err
	}
	return resultValue(f), nil
}

// SetField writes the exported struct field name of obj, which must be a
// pointer to a struct.
func SetField(obj any, name string, value any) error {
	f, err := field(obj, name)
	if err != nil {
		return err
	}
	if !f.CanSet() {
		return fmt.Errorf("attribute %s of %T is not settable", name, obj)
	}
	v, ok := Coerce(value, f.Type())
	if !ok {
		return fmt.Errorf("cannot assign %T to attribute %s (%s)", value, name, f.Type())
	}
	f.Set(v)
	return nil
}

func field(obj any, name string) (reflect.Value, error) {
	rv := reflect.ValueOf(obj)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}, fmt.Errorf("attribute %s of nil object", name)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("object of type %T has no attributes", obj)
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		if sf.Name == name || sf.Tag.Get("taco") == name {
			return rv.Field(i), nil
		}
	}
	return reflect.Value{}, fmt.Errorf("no such attribute: %s", name)
}

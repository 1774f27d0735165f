package host

import (
	"fmt"
	"reflect"
	"sync"
)

// Class describes one remotely reachable type: its constructors, static
// methods and fields, and method overloads beyond the Go method set.
type Class struct {
	Name string
	Type reflect.Type

	mu           sync.RWMutex
	constructors []Callable
	statics      map[string][]Callable
	methods      map[string][]Callable
	fields       map[string]reflect.Value
}

func newClass(name string, goType reflect.Type) *Class {
	return &Class{
		Name:    name,
		Type:    goType,
		statics: make(map[string][]Callable),
		methods: make(map[string][]Callable),
		fields:  make(map[string]reflect.Value),
	}
}

// Constructor adds a constructor overload. fn must be a func returning the
// new object, optionally followed by an error.
func (c *Class) Constructor(fn any) *Class {
	cl := mustFunc(c.Name, fn)
	c.mu.Lock()
	c.constructors = append(c.constructors, cl)
	c.mu.Unlock()
	return c
}

// StaticMethod adds a class-scoped overload called name.
func (c *Class) StaticMethod(name string, fn any) *Class {
	cl := mustFunc(name, fn)
	c.mu.Lock()
	c.statics[name] = append(c.statics[name], cl)
	c.mu.Unlock()
	return c
}

// Method adds an instance-method overload called name. fn takes the
// receiver as its first parameter.
func (c *Class) Method(name string, fn any) *Class {
	cl := mustFunc(name, fn)
	if cl.Fn.Type().NumIn() == 0 {
		panic(fmt.Sprintf("host: method %s.%s has no receiver parameter", c.Name, name))
	}
	c.mu.Lock()
	c.methods[name] = append(c.methods[name], cl)
	c.mu.Unlock()
	return c
}

// StaticField exposes the variable ptr points to as a class attribute.
func (c *Class) StaticField(name string, ptr any) *Class {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		panic(fmt.Sprintf("host: static field %s.%s needs a non-nil pointer, got %T", c.Name, name, ptr))
	}
	c.mu.Lock()
	c.fields[name] = rv.Elem()
	c.mu.Unlock()
	return c
}

// Constant exposes a read-only class attribute.
func (c *Class) Constant(name string, value any) *Class {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		rv = reflect.Zero(reflect.TypeOf((*any)(nil)).Elem())
	}
	c.mu.Lock()
	c.fields[name] = rv
	c.mu.Unlock()
	return c
}

// Constructors returns the constructor candidates in registration order.
// A struct class without explicit constructors gets an implicit one
// returning a pointer to a zero value.
func (c *Class) Constructors() []Callable {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.constructors) == 0 && c.Type != nil && c.Type.Kind() == reflect.Struct {
		return []Callable{zeroConstructor(c.Name, c.Type)}
	}
	return append([]Callable(nil), c.constructors...)
}

// StaticMethods returns the static candidates called name.
func (c *Class) StaticMethods(name string) []Callable {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Callable(nil), c.statics[name]...)
}

func (c *Class) methodOverloads(name string) []Callable {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Callable(nil), c.methods[name]...)
}

// GetStatic reads a static field.
func (c *Class) GetStatic(name string) (any, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, ok := c.fields[name]
	if !ok {
		return nil, fmt.Errorf("no such class attribute: %s.%s", c.Name, name)
	}
	return resultValue(f), nil
}

// SetStatic writes a static field, coercing value to the field's type.
func (c *Class) SetStatic(name string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, ok := c.fields[name]
	if !ok {
		return fmt.Errorf("no such class attribute: %s.%s", c.Name, name)
	}
	if !f.CanSet() {
		return fmt.Errorf("class attribute %s.%s is read-only", c.Name, name)
	}
	v, ok := Coerce(value, f.Type())
	if !ok {
		return fmt.Errorf("cannot assign %T to %s.%s (%s)", value, c.Name, name, f.Type())
	}
	f.Set(v)
	return nil
}

func mustFunc(name string, fn any) Callable {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		panic(fmt.Sprintf("host: %s: expected a func, got %T", name, fn))
	}
	return Callable{Name: name, Fn: rv}
}

func zeroConstructor(name string, t reflect.Type) Callable {
	ft := reflect.FuncOf(nil, []reflect.Type{reflect.PointerTo(t)}, false)
	fn := reflect.MakeFunc(ft, func([]reflect.Value) []reflect.Value {
		return []reflect.Value{reflect.New(t)}
	})
	return Callable{Name: name, Fn: fn}
}

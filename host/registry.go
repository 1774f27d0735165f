// Package host is the Go side of the bridge: an explicit registry of the
// classes, constructors, static members and extra method overloads that a
// remote client may reach by name, and the signature resolver that picks
// one overload for a list of wire arguments.
//
// Go cannot load types by name at run time, so every class must be defined
// up front, either by hand or by code generated with gowrap.
package host

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Registry maps class names to classes and Go types back to classes.
// Safe for concurrent registration and lookup.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]*Class
	byType  map[reflect.Type]*Class
	modules map[string]*module
}

type module struct {
	load   func(*Registry) error
	loaded bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		classes: make(map[string]*Class),
		byType:  make(map[reflect.Type]*Class),
		modules: make(map[string]*module),
	}
}

// Define creates the class name for goType, or returns the existing one.
// goType may be nil for a class that only has static members.
func (r *Registry) Define(name string, goType reflect.Type) *Class {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.classes[name]; ok {
		return c
	}
	c := newClass(name, goType)
	r.classes[name] = c
	if goType != nil {
		if _, ok := r.byType[goType]; !ok {
			r.byType[goType] = c
		}
		if goType.Kind() != reflect.Pointer {
			ptr := reflect.PointerTo(goType)
			if _, ok := r.byType[ptr]; !ok {
				r.byType[ptr] = c
			}
		}
	}
	return c
}

// Class resolves a class by name.
func (r *Registry) Class(name string) (*Class, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.classes[name]
	if !ok {
		return nil, fmt.Errorf("no such class: %s", name)
	}
	return c, nil
}

// ClassOf returns the class registered for the dynamic type of v, or nil.
func (r *Registry) ClassOf(v any) *Class {
	if v == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byType[reflect.TypeOf(v)]
}

// ClassNames returns the sorted names of all defined classes.
func (r *Registry) ClassNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Module registers a loader that defines classes when name is imported.
func (r *Registry) Module(name string, load func(*Registry) error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules[name] = &module{load: load}
}

// Import makes name available for later resolution. A module loader runs
// at most once; importing an already defined class is a no-op.
func (r *Registry) Import(name string) error {
	r.mu.Lock()
	m, ok := r.modules[name]
	if ok && m.loaded {
		r.mu.Unlock()
		return nil
	}
	_, isClass := r.classes[name]
	r.mu.Unlock()

	if !ok {
		if isClass {
			return nil
		}
		return fmt.Errorf("no such module: %s", name)
	}

	// The loader calls back into Define, so it runs unlocked.
	if err := m.load(r); err != nil {
		return fmt.Errorf("import %s: %w", name, err)
	}
	r.mu.Lock()
	m.loaded = true
	r.mu.Unlock()
	return nil
}

// Methods returns the instance-method candidates called name for obj: the
// Go method of that name first, then any overloads registered on obj's
// class, each bound to obj.
func (r *Registry) Methods(obj any, name string) []Callable {
	var cands []Callable
	rv := reflect.ValueOf(obj)
	if rv.IsValid() {
		if m := rv.MethodByName(name); m.IsValid() {
			cands = append(cands, Callable{Name: name, Fn: m})
		}
	}
	if c := r.ClassOf(obj); c != nil {
		for _, extra := range c.methodOverloads(name) {
			extra.Recv = rv
			cands = append(cands, extra)
		}
	}
	return cands
}

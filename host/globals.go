package host

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/chazu/taco/wire"
)

// Globals resolves free functions and global variables. The protocol's
// call_function, get_value and set_value actions only work when the server
// is given an implementation.
type Globals interface {
	CallFunction(name string, args []any, hint wire.Context) (any, error)
	GetValue(name string) (any, error)
	SetValue(name string, value any) error
}

// FuncTable is a Globals backed by explicitly registered funcs and
// variables. Functions may be overloaded by registering a name repeatedly.
type FuncTable struct {
	mu    sync.RWMutex
	funcs map[string][]Callable
	vars  map[string]reflect.Value
}

// NewFuncTable creates an empty table.
func NewFuncTable() *FuncTable {
	return &FuncTable{
		funcs: make(map[string][]Callable),
		vars:  make(map[string]reflect.Value),
	}
}

// Func registers an overload of the function name.
func (t *FuncTable) Func(name string, fn any) *FuncTable {
	cl := mustFunc(name, fn)
	t.mu.Lock()
	t.funcs[name] = append(t.funcs[name], cl)
	t.mu.Unlock()
	return t
}

// Var exposes the variable ptr points to.
func (t *FuncTable) Var(name string, ptr any) *FuncTable {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		panic(fmt.Sprintf("host: variable %s needs a non-nil pointer, got %T", name, ptr))
	}
	t.mu.Lock()
	t.vars[name] = rv.Elem()
	t.mu.Unlock()
	return t
}

func (t *FuncTable) CallFunction(name string, args []any, hint wire.Context) (any, error) {
	t.mu.RLock()
	cands := append([]Callable(nil), t.funcs[name]...)
	t.mu.RUnlock()

	if len(cands) == 0 {
		return nil, fmt.Errorf("no such function: %s", name)
	}
	return Invoke(cands, args, hint)
}

func (t *FuncTable) GetValue(name string) (any, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	v, ok := t.vars[name]
	if !ok {
		return nil, fmt.Errorf("no such variable: %s", name)
	}
	return resultValue(v), nil
}

func (t *FuncTable) SetValue(name string, value any) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	v, ok := t.vars[name]
	if !ok {
		return fmt.Errorf("no such variable: %s", name)
	}
	cv, ok := Coerce(value, v.Type())
	if !ok {
		return fmt.Errorf("cannot assign %T to %s (%s)", value, name, v.Type())
	}
	v.Set(cv)
	return nil
}

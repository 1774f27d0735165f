package host

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/chazu/taco/wire"
)

var (
	// ErrNoMatch means no candidate accepted the argument list.
	ErrNoMatch = errors.New("no matching method/constructor signature found")

	// ErrArgumentMismatch may be returned (wrapped) by a host callable to
	// reject its arguments; the resolver then tries the next candidate.
	ErrArgumentMismatch = errors.New("argument mismatch")
)

var (
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	contextType = reflect.TypeOf(wire.ContextNone)
)

// InvocationError wraps a failure raised by the resolved callable itself.
type InvocationError struct {
	Name string
	Err  error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// Callable is one candidate overload. When Recv is valid it is passed as
// the first argument, which is how registered method overloads are bound.
//
// A parameter of type wire.Context directly after the receiver receives
// the caller's context hint and does not consume a wire argument.
type Callable struct {
	Name string
	Fn   reflect.Value
	Recv reflect.Value
}

// Invoke tries the candidates in order and calls the first one whose
// parameters accept args. Binding failures and ErrArgumentMismatch move on
// to the next candidate; any other failure of the call is returned as an
// *InvocationError without trying further candidates.
func Invoke(cands []Callable, args []any, hint wire.Context) (any, error) {
	for _, c := range cands {
		in, ok := c.bind(args, hint)
		if !ok {
			continue
		}
		res, err := c.call(in)
		if err != nil {
			if errors.Is(err, ErrArgumentMismatch) {
				continue
			}
			return nil, &InvocationError{Name: c.Name, Err: err}
		}
		return res, nil
	}
	return nil, ErrNoMatch
}

func (c Callable) bind(args []any, hint wire.Context) ([]reflect.Value, bool) {
	ft := c.Fn.Type()
	var in []reflect.Value
	i := 0

	if c.Recv.IsValid() {
		if ft.NumIn() == 0 || !c.Recv.Type().AssignableTo(ft.In(0)) {
			return nil, false
		}
		in = append(in, c.Recv)
		i++
	}
	if i < ft.NumIn() && ft.In(i) == contextType {
		in = append(in, reflect.ValueOf(hint))
		i++
	}

	fixed := ft.NumIn() - i
	if ft.IsVariadic() {
		fixed--
		if len(args) < fixed {
			return nil, false
		}
	} else if len(args) != fixed {
		return nil, false
	}

	for j, a := range args {
		var pt reflect.Type
		if ft.IsVariadic() && j >= fixed {
			pt = ft.In(ft.NumIn() - 1).Elem()
		} else {
			pt = ft.In(i + j)
		}
		v, ok := Coerce(a, pt)
		if !ok {
			return nil, false
		}
		in = append(in, v)
	}
	return in, true
}

// call runs the function, turning panics into errors and a trailing error
// result into the returned error.
func (c Callable) call(in []reflect.Value) (res any, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("panic: %w", e)
			} else {
				err = fmt.Errorf("panic: %v", r)
			}
		}
	}()

	out := c.Fn.Call(in)
	ft := c.Fn.Type()
	if n := len(out); n > 0 && ft.Out(n-1) == errorType {
		if e := out[n-1]; !e.IsNil() {
			return nil, e.Interface().(error)
		}
		out = out[:n-1]
	}

	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return resultValue(out[0]), nil
	default:
		vals := make([]any, len(out))
		for i, v := range out {
			vals[i] = resultValue(v)
		}
		return vals, nil
	}
}

// resultValue unwraps v, mapping nil pointers, maps, slices and the like
// to a plain nil so they do not cross the wire as objects.
func resultValue(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return nil
		}
	}
	return v.Interface()
}

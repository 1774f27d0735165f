package client

import (
	"fmt"
	"sync"

	"github.com/chazu/taco/wire"
)

// Object stands for an object held in the server's cache. Each reference
// the server sends becomes a distinct Object, so two Objects may point at
// the same server object under different numbers.
type Object struct {
	client *Client
	number int64

	mu     sync.Mutex
	closed bool
}

// Number returns the server handle number.
func (o *Object) Number() int64 { return o.number }

func (o *Object) String() string {
	return fmt.Sprintf("<taco object %d>", o.number)
}

// Closed reports whether Close has been called.
func (o *Object) Closed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closed
}

// Close releases the server handle. Calling it again does nothing.
func (o *Object) Close() error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	o.closed = true
	o.mu.Unlock()

	_, err := o.client.interact(wire.Message{
		"action": wire.ActionDestroyObject,
		"number": o.number,
	})
	return err
}

func (o *Object) check() error {
	if o.Closed() {
		return fmt.Errorf("object %d: %w", o.number, ErrClosed)
	}
	return nil
}

// CallMethod invokes a method of the server object.
func (o *Object) CallMethod(name string, args []any, kwargs map[string]any, ctx wire.Context) (any, error) {
	if err := o.check(); err != nil {
		return nil, err
	}
	return o.client.interact(wire.Message{
		"action":  wire.ActionCallMethod,
		"number":  o.number,
		"name":    name,
		"args":    args,
		"kwargs":  kwargs,
		"context": ctx.Value(),
	})
}

// GetAttribute reads an attribute of the server object.
func (o *Object) GetAttribute(name string) (any, error) {
	if err := o.check(); err != nil {
		return nil, err
	}
	return o.client.interact(wire.Message{
		"action": wire.ActionGetAttribute,
		"number": o.number,
		"name":   name,
	})
}

// SetAttribute assigns an attribute of the server object.
func (o *Object) SetAttribute(name string, value any) error {
	if err := o.check(); err != nil {
		return err
	}
	_, err := o.client.interact(wire.Message{
		"action": wire.ActionSetAttribute,
		"number": o.number,
		"name":   name,
		"value":  value,
	})
	return err
}

// Method returns a callable bound to one method of the object.
func (o *Object) Method(name string, ctx wire.Context) *Method {
	return &Method{obj: o, name: name, ctx: ctx}
}

// Constructor constructs instances of one server class.
type Constructor struct {
	client *Client
	class  string
}

// Invoke constructs an object with positional arguments.
func (k *Constructor) Invoke(args ...any) (*Object, error) {
	return k.client.ConstructObject(k.class, argList(args), nil)
}

// Function calls one server function with a fixed context.
type Function struct {
	client *Client
	name   string
	ctx    wire.Context
}

// Invoke calls the function with positional arguments.
func (f *Function) Invoke(args ...any) (any, error) {
	return f.client.CallFunction(f.name, argList(args), nil, f.ctx)
}

// Method calls one method of an Object with a fixed context.
type Method struct {
	obj  *Object
	name string
	ctx  wire.Context
}

// Invoke calls the method with positional arguments.
func (m *Method) Invoke(args ...any) (any, error) {
	return m.obj.CallMethod(m.name, argList(args), nil, m.ctx)
}

// argList sends an empty list rather than null when no arguments are given.
func argList(args []any) []any {
	if args == nil {
		return []any{}
	}
	return args
}

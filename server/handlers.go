package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chazu/taco/host"
	"github.com/chazu/taco/wire"
)

var errNotImplemented = errors.New("not implemented")

type handlerFunc func(wire.Message) (any, error)

// actionTable maps every request action to its handler. Only these names
// are dispatchable.
func (s *Server) actionTable() map[string]handlerFunc {
	t := map[string]handlerFunc{
		wire.ActionCallClassMethod:   s.callClassMethod,
		wire.ActionCallFunction:      s.callFunction,
		wire.ActionCallMethod:        s.callMethod,
		wire.ActionConstructObject:   s.constructObject,
		wire.ActionDestroyObject:     s.destroyObject,
		wire.ActionGetAttribute:      s.getAttribute,
		wire.ActionSetAttribute:      s.setAttribute,
		wire.ActionGetClassAttribute: s.getClassAttribute,
		wire.ActionSetClassAttribute: s.setClassAttribute,
		wire.ActionGetValue:          s.getValue,
		wire.ActionSetValue:          s.setValue,
		wire.ActionImportModule:      s.importModule,
	}
	for name := range t {
		if !isActionName(name) {
			panic("server: invalid action name " + name)
		}
	}
	return t
}

// isActionName reports whether name consists of at least two non-empty
// underscore-separated words.
func isActionName(name string) bool {
	words := strings.Split(name, "_")
	if len(words) < 2 {
		return false
	}
	for _, w := range words {
		if w == "" {
			return false
		}
	}
	return true
}

// invocation holds the fields shared by the calling actions.
type invocation struct {
	name string
	args []any // nil when absent: only zero-parameter overloads match
	hint wire.Context
}

func parseInvocation(msg wire.Message, nameKey string) (*invocation, error) {
	name, err := msg.Str(nameKey)
	if err != nil {
		return nil, err
	}
	args, _, err := msg.List("args")
	if err != nil {
		return nil, err
	}
	// kwargs are accepted but not bound to Go parameters.
	if _, err := msg.Map("kwargs"); err != nil {
		return nil, err
	}
	ctx, err := msg.OptString("context")
	if err != nil {
		return nil, err
	}
	hint, err := wire.ParseContext(ctx)
	if err != nil {
		return nil, err
	}
	return &invocation{name: name, args: args, hint: hint}, nil
}

func (s *Server) object(msg wire.Message) (any, error) {
	n, err := msg.Int("number")
	if err != nil {
		return nil, err
	}
	obj, ok := s.objects.Lookup(n)
	if !ok {
		return nil, fmt.Errorf("no such object: %d", n)
	}
	return obj, nil
}

func (s *Server) class(msg wire.Message) (*host.Class, error) {
	name, err := msg.Str("class")
	if err != nil {
		return nil, err
	}
	return s.registry.Class(name)
}

func (s *Server) constructObject(msg wire.Message) (any, error) {
	cls, err := s.class(msg)
	if err != nil {
		return nil, err
	}
	args, _, err := msg.List("args")
	if err != nil {
		return nil, err
	}
	if _, err := msg.Map("kwargs"); err != nil {
		return nil, err
	}

	obj, err := host.Invoke(cls.Constructors(), args, wire.ContextNone)
	if errors.Is(err, host.ErrNoMatch) {
		return nil, fmt.Errorf("%s: no matching constructor signature found", cls.Name)
	}
	return obj, err
}

func (s *Server) callClassMethod(msg wire.Message) (any, error) {
	cls, err := s.class(msg)
	if err != nil {
		return nil, err
	}
	inv, err := parseInvocation(msg, "name")
	if err != nil {
		return nil, err
	}

	cands := cls.StaticMethods(inv.name)
	if len(cands) == 0 {
		return nil, fmt.Errorf("no such class method: %s.%s", cls.Name, inv.name)
	}
	res, err := host.Invoke(cands, inv.args, inv.hint)
	if errors.Is(err, host.ErrNoMatch) {
		return nil, fmt.Errorf("%s.%s: no matching method signature found", cls.Name, inv.name)
	}
	return res, err
}

func (s *Server) callMethod(msg wire.Message) (any, error) {
	obj, err := s.object(msg)
	if err != nil {
		return nil, err
	}
	inv, err := parseInvocation(msg, "name")
	if err != nil {
		return nil, err
	}

	cands := s.registry.Methods(obj, inv.name)
	if len(cands) == 0 {
		return nil, fmt.Errorf("no such method: %T.%s", obj, inv.name)
	}
	res, err := host.Invoke(cands, inv.args, inv.hint)
	if errors.Is(err, host.ErrNoMatch) {
		return nil, fmt.Errorf("%T.%s: no matching method signature found", obj, inv.name)
	}
	return res, err
}

func (s *Server) getAttribute(msg wire.Message) (any, error) {
	obj, err := s.object(msg)
	if err != nil {
		return nil, err
	}
	name, err := msg.Str("name")
	if err != nil {
		return nil, err
	}
	return host.GetField(obj, name)
}

func (s *Server) setAttribute(msg wire.Message) (any, error) {
	obj, err := s.object(msg)
	if err != nil {
		return nil, err
	}
	name, err := msg.Str("name")
	if err != nil {
		return nil, err
	}
	return nil, host.SetField(obj, name, msg["value"])
}

func (s *Server) getClassAttribute(msg wire.Message) (any, error) {
	cls, err := s.class(msg)
	if err != nil {
		return nil, err
	}
	name, err := msg.Str("name")
	if err != nil {
		return nil, err
	}
	return cls.GetStatic(name)
}

func (s *Server) setClassAttribute(msg wire.Message) (any, error) {
	cls, err := s.class(msg)
	if err != nil {
		return nil, err
	}
	name, err := msg.Str("name")
	if err != nil {
		return nil, err
	}
	return nil, cls.SetStatic(name, msg["value"])
}

func (s *Server) destroyObject(msg wire.Message) (any, error) {
	n, err := msg.Int("number")
	if err != nil {
		return nil, err
	}
	if !s.objects.Release(n) {
		return nil, fmt.Errorf("no such object: %d", n)
	}
	s.log.Debugf("released object %d, %d live", n, s.objects.Len())
	return nil, nil
}

func (s *Server) importModule(msg wire.Message) (any, error) {
	name, err := msg.Str("name")
	if err != nil {
		return nil, err
	}
	// Import arguments are accepted but have no meaning for Go modules.
	if _, _, err := msg.List("args"); err != nil {
		return nil, err
	}
	if _, err := msg.Map("kwargs"); err != nil {
		return nil, err
	}
	return nil, s.registry.Import(name)
}

func (s *Server) callFunction(msg wire.Message) (any, error) {
	inv, err := parseInvocation(msg, "name")
	if err != nil {
		return nil, err
	}
	if s.globals == nil {
		return nil, fmt.Errorf("call_function %s: %w", inv.name, errNotImplemented)
	}
	return s.globals.CallFunction(inv.name, inv.args, inv.hint)
}

func (s *Server) getValue(msg wire.Message) (any, error) {
	name, err := msg.Str("name")
	if err != nil {
		return nil, err
	}
	if s.globals == nil {
		return nil, fmt.Errorf("get_value %s: %w", name, errNotImplemented)
	}
	return s.globals.GetValue(name)
}

func (s *Server) setValue(msg wire.Message) (any, error) {
	name, err := msg.Str("name")
	if err != nil {
		return nil, err
	}
	if s.globals == nil {
		return nil, fmt.Errorf("set_value %s: %w", name, errNotImplemented)
	}
	return nil, s.globals.SetValue(name, msg["value"])
}

package server

import (
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/chazu/taco/host"
	"github.com/chazu/taco/wire"
)

// ---------------------------------------------------------------------------
// Host classes used by the server tests.
// ---------------------------------------------------------------------------

type Pair struct {
	Kind  string
	Left  any
	Right any
	Note  string `taco:"note"`
}

func (p *Pair) Self() *Pair { return p }

func (p *Pair) Describe() string {
	return fmt.Sprintf("%s(%v, %v)", p.Kind, p.Left, p.Right)
}

func (p *Pair) Fail() error { return errors.New("boom") }

type Formatter struct {
	prefix string
}

func (f *Formatter) Format(p *Pair) string {
	return f.prefix + p.Describe()
}

var attrOne = 5678

func newTestRegistry() *host.Registry {
	r := host.NewRegistry()
	r.Define("Pair", reflect.TypeOf(Pair{})).
		Constructor(func(a, b int) *Pair { return &Pair{Kind: "int", Left: a, Right: b} }).
		Constructor(func(a, b string) *Pair { return &Pair{Kind: "string", Left: a, Right: b} })
	r.Define("text.Formatter", reflect.TypeOf(Formatter{})).
		StaticMethod("New", func(prefix string) *Formatter { return &Formatter{prefix: prefix} }).
		StaticMethod("Join", func(sep string, parts []string) string { return strings.Join(parts, sep) })
	r.Define("ExampleClass", nil).
		StaticField("attr_one", &attrOne).
		StaticMethod("Sqrt", math.Sqrt)
	r.Module("extras", func(r *host.Registry) error {
		r.Define("extras.Thing", reflect.TypeOf(struct{ Name string }{}))
		return nil
	})
	return r
}

// ---------------------------------------------------------------------------
// harness runs a Server over in-memory pipes and talks to it with a plain
// transport, so responses are inspected in their wire form.
// ---------------------------------------------------------------------------

type harness struct {
	srv  *Server
	xp   *wire.Transport
	reqW *io.PipeWriter
	done chan error
	once sync.Once
	err  error
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()

	h := &harness{
		srv:  New(reqR, respW, newTestRegistry(), opts...),
		xp:   wire.NewTransport(respR, reqW, nil),
		reqW: reqW,
		done: make(chan error, 1),
	}
	go func() {
		err := h.srv.Run()
		respW.Close()
		h.done <- err
	}()
	t.Cleanup(func() { h.stop() })
	return h
}

// call sends one request and returns the response.
func (h *harness) call(t *testing.T, msg wire.Message) wire.Message {
	t.Helper()
	if err := h.xp.Write(msg); err != nil {
		t.Fatalf("write request: %v", err)
	}
	resp, err := h.xp.Read()
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp
}

// result sends a request and expects a result response.
func (h *harness) result(t *testing.T, msg wire.Message) any {
	t.Helper()
	resp := h.call(t, msg)
	if resp.Action() != wire.ActionResult {
		t.Fatalf("%s: expected result, got %#v", msg.Action(), resp)
	}
	return resp["result"]
}

// exception sends a request and expects an exception response.
func (h *harness) exception(t *testing.T, msg wire.Message) string {
	t.Helper()
	resp := h.call(t, msg)
	if resp.Action() != wire.ActionException {
		t.Fatalf("%s: expected exception, got %#v", msg.Action(), resp)
	}
	text, _ := resp["message"].(string)
	return text
}

// stop closes the request stream and waits for Run to return.
func (h *harness) stop() error {
	h.once.Do(func() {
		h.reqW.Close()
		h.err = <-h.done
	})
	return h.err
}

func refNumber(t *testing.T, v any) int64 {
	t.Helper()
	m, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("expected object reference, got %#v", v)
	}
	n, ok := wire.IsRef(m)
	if !ok {
		t.Fatalf("expected object reference, got %#v", m)
	}
	return n
}

func construct(class string, args ...any) wire.Message {
	var list any
	if args != nil {
		list = args
	}
	return wire.Message{
		"action": wire.ActionConstructObject,
		"class":  class,
		"args":   list,
		"kwargs": nil,
	}
}

func callMethod(number int64, name string, args ...any) wire.Message {
	var list any
	if args != nil {
		list = args
	}
	return wire.Message{
		"action":  wire.ActionCallMethod,
		"number":  number,
		"name":    name,
		"args":    list,
		"kwargs":  nil,
		"context": nil,
	}
}

func destroy(number int64) wire.Message {
	return wire.Message{"action": wire.ActionDestroyObject, "number": number}
}

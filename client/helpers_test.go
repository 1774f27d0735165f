package client

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/chazu/taco/host"
	"github.com/chazu/taco/server"
	"github.com/chazu/taco/wire"
)

// scripted is a client whose replies are queued up front. Requests are
// captured so tests can check their wire form.
type scripted struct {
	*Client
	sent bytes.Buffer
}

func newScripted(t *testing.T, replies ...wire.Message) *scripted {
	t.Helper()
	var in bytes.Buffer
	w := wire.NewTransport(strings.NewReader(""), &in, nil)
	for _, r := range replies {
		if err := w.Write(r); err != nil {
			t.Fatalf("queue reply: %v", err)
		}
	}
	s := &scripted{}
	s.Client = New(&in, &s.sent)
	return s
}

// requests returns every request written so far, in wire form.
func (s *scripted) requests(t *testing.T) []wire.Message {
	t.Helper()
	r := wire.NewTransport(bytes.NewReader(s.sent.Bytes()), io.Discard, nil)
	var out []wire.Message
	for {
		msg, err := r.Read()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("read request: %v", err)
		}
		out = append(out, msg)
	}
}

func result(v any) wire.Message { return wire.Result(v) }

func assertRequest(t *testing.T, got, want wire.Message) {
	t.Helper()
	if !reflect.DeepEqual(map[string]any(got), map[string]any(want)) {
		t.Errorf("request mismatch\n got: %#v\nwant: %#v", got, want)
	}
}

// ---------------------------------------------------------------------------
// Host classes for the end-to-end tests.
// ---------------------------------------------------------------------------

type Counter struct {
	N    int
	Name string `taco:"name"`
}

func (c *Counter) Add(n int) int {
	c.N += n
	return c.N
}

func (c *Counter) Clone() *Counter {
	cp := *c
	return &cp
}

func (c *Counter) Absorb(other *Counter) int {
	c.N += other.N
	return c.N
}

func (c *Counter) Fail(reason string) error { return errors.New(reason) }

var greeting = "hello"

func newRegistry() *host.Registry {
	r := host.NewRegistry()
	r.Define("Counter", reflect.TypeOf(Counter{})).
		Constructor(func(start int) *Counter { return &Counter{N: start} }).
		StaticMethod("Sum", func(xs []int) int {
			total := 0
			for _, x := range xs {
				total += x
			}
			return total
		}).
		StaticField("greeting", &greeting)
	return r
}

// startServer connects a Client to an in-process Server over pipes.
func startServer(t *testing.T, opts ...server.Option) *Client {
	t.Helper()
	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()

	srv := server.New(reqR, respW, newRegistry(), opts...)
	done := make(chan error, 1)
	go func() {
		err := srv.Run()
		respW.Close()
		done <- err
	}()

	c := New(respR, reqW)
	t.Cleanup(func() {
		c.Close()
		if err := <-done; err != nil {
			t.Errorf("server Run: %v", err)
		}
	})
	return c
}

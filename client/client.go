// Package client drives a taco server over a transport. Objects that live in
// the server are represented locally by *Object handles.
package client

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/chazu/taco/wire"
)

// Client talks to one server. Requests are serialized: each call writes one
// message and waits for its reply before the next call may start.
type Client struct {
	xp  *wire.Transport
	mu  sync.Mutex
	log commonlog.Logger

	stdin io.Closer
	cmd   *exec.Cmd
}

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	recorder *wire.Recorder
	log      commonlog.Logger
}

// WithRecorder records every frame of the channel.
func WithRecorder(rec *wire.Recorder) Option {
	return func(c *clientConfig) { c.recorder = rec }
}

// WithLogger replaces the default "taco.client" logger.
func WithLogger(log commonlog.Logger) Option {
	return func(c *clientConfig) { c.log = log }
}

// New creates a Client reading replies from r and writing requests to w.
func New(r io.Reader, w io.Writer, opts ...Option) *Client {
	cfg := &clientConfig{
		log: commonlog.GetLogger("taco.client"),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	xpOpts := []wire.TransportOption{wire.WithLogger(cfg.log)}
	if cfg.recorder != nil {
		xpOpts = append(xpOpts, wire.WithRecorder(cfg.recorder))
	}

	c := &Client{log: cfg.log}
	c.xp = wire.NewTransport(r, w, nil, xpOpts...)
	c.xp.SetFilter(objectFilter{c})
	if wc, ok := w.(io.Closer); ok {
		c.stdin = wc
	}
	return c
}

// Close ends the session by closing the request stream. When the server was
// launched by Start or StartScript, Close also waits for it to exit.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	if c.stdin != nil {
		err = c.stdin.Close()
		c.stdin = nil
	}
	if c.cmd != nil {
		if werr := c.cmd.Wait(); werr != nil && err == nil {
			err = werr
		}
		c.cmd = nil
	}
	return err
}

// interact sends one request and returns the result of its reply.
func (c *Client) interact(msg wire.Message) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.log.Debugf("request %s", msg.Action())
	if err := c.xp.Write(msg); err != nil {
		return nil, err
	}
	resp, err := c.xp.Read()
	if errors.Is(err, io.EOF) {
		return nil, &wire.TransportError{Op: "read", Err: io.ErrUnexpectedEOF}
	}
	if err != nil {
		return nil, err
	}

	switch action := resp.Action(); action {
	case wire.ActionResult:
		return resp["result"], nil
	case wire.ActionException:
		text, _ := resp["message"].(string)
		c.log.Debugf("exception from server: %s", text)
		return nil, &Error{Kind: KindInvocation, Message: text}
	default:
		return nil, &Error{Kind: KindProtocol, Message: action}
	}
}

// CallClassMethod invokes a static method of a server class.
func (c *Client) CallClassMethod(class, name string, args []any, kwargs map[string]any, ctx wire.Context) (any, error) {
	return c.interact(wire.Message{
		"action":  wire.ActionCallClassMethod,
		"class":   class,
		"name":    name,
		"args":    args,
		"kwargs":  kwargs,
		"context": ctx.Value(),
	})
}

// CallFunction invokes a server function.
func (c *Client) CallFunction(name string, args []any, kwargs map[string]any, ctx wire.Context) (any, error) {
	return c.interact(wire.Message{
		"action":  wire.ActionCallFunction,
		"name":    name,
		"args":    args,
		"kwargs":  kwargs,
		"context": ctx.Value(),
	})
}

// ConstructObject creates an instance of a server class.
func (c *Client) ConstructObject(class string, args []any, kwargs map[string]any) (*Object, error) {
	res, err := c.interact(wire.Message{
		"action": wire.ActionConstructObject,
		"class":  class,
		"args":   args,
		"kwargs": kwargs,
	})
	if err != nil {
		return nil, err
	}
	obj, ok := res.(*Object)
	if !ok {
		return nil, fmt.Errorf("construct %s: expected object reference, got %T", class, res)
	}
	return obj, nil
}

// GetClassAttribute reads a static attribute of a server class.
func (c *Client) GetClassAttribute(class, name string) (any, error) {
	return c.interact(wire.Message{
		"action": wire.ActionGetClassAttribute,
		"class":  class,
		"name":   name,
	})
}

// SetClassAttribute assigns a static attribute of a server class.
func (c *Client) SetClassAttribute(class, name string, value any) error {
	_, err := c.interact(wire.Message{
		"action": wire.ActionSetClassAttribute,
		"class":  class,
		"name":   name,
		"value":  value,
	})
	return err
}

// GetValue reads a server variable.
func (c *Client) GetValue(name string) (any, error) {
	return c.interact(wire.Message{
		"action": wire.ActionGetValue,
		"name":   name,
	})
}

// SetValue assigns a server variable.
func (c *Client) SetValue(name string, value any) error {
	_, err := c.interact(wire.Message{
		"action": wire.ActionSetValue,
		"name":   name,
		"value":  value,
	})
	return err
}

// ImportModule asks the server to load a module.
func (c *Client) ImportModule(name string, args []any, kwargs map[string]any) error {
	_, err := c.interact(wire.Message{
		"action": wire.ActionImportModule,
		"name":   name,
		"args":   args,
		"kwargs": kwargs,
	})
	return err
}

// Constructor returns a callable that constructs instances of class.
func (c *Client) Constructor(class string) *Constructor {
	return &Constructor{client: c, class: class}
}

// Function returns a callable for the server function name.
func (c *Client) Function(name string, ctx wire.Context) *Function {
	return &Function{client: c, name: name, ctx: ctx}
}

// objectFilter turns this client's Objects into handle numbers and every
// incoming reference into a new Object.
type objectFilter struct {
	c *Client
}

func (f objectFilter) ObjectToRef(v any) (int64, error) {
	obj, ok := v.(*Object)
	if !ok || obj.client != f.c {
		return 0, fmt.Errorf("%w: %T", wire.ErrUnknownObject, v)
	}
	if obj.Closed() {
		return 0, fmt.Errorf("object %d: %w", obj.number, ErrClosed)
	}
	return obj.number, nil
}

func (f objectFilter) RefToObject(n int64) (any, error) {
	return &Object{client: f.c, number: n}, nil
}

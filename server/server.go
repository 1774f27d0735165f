// Package server runs the subprocess side of a taco channel: it reads
// requests, dispatches them against a host registry and an object cache,
// and writes a result or exception for each one.
package server

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	"github.com/chazu/taco/host"
	"github.com/chazu/taco/wire"
)

// Server owns one channel, its object cache and its dispatch table.
// It handles one request at a time and is not safe for concurrent Run calls.
type Server struct {
	id       string
	xp       *wire.Transport
	objects  *ObjectCache
	registry *host.Registry
	globals  host.Globals
	handlers map[string]handlerFunc
	log      commonlog.Logger
}

// Option configures a Server.
type Option func(*serverConfig)

type serverConfig struct {
	globals  host.Globals
	recorder *wire.Recorder
	log      commonlog.Logger
}

// WithGlobals installs the resolver for call_function, get_value and
// set_value. Without it those actions fail as not implemented.
func WithGlobals(g host.Globals) Option {
	return func(c *serverConfig) { c.globals = g }
}

// WithRecorder records every frame of the channel.
func WithRecorder(rec *wire.Recorder) Option {
	return func(c *serverConfig) { c.recorder = rec }
}

// WithLogger replaces the default "taco.server" logger.
func WithLogger(log commonlog.Logger) Option {
	return func(c *serverConfig) { c.log = log }
}

// New creates a Server reading requests from r and writing responses to w.
func New(r io.Reader, w io.Writer, registry *host.Registry, opts ...Option) *Server {
	cfg := &serverConfig{
		log: commonlog.GetLogger("taco.server"),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	objects := NewObjectCache()
	xpOpts := []wire.TransportOption{wire.WithLogger(cfg.log)}
	if cfg.recorder != nil {
		xpOpts = append(xpOpts, wire.WithRecorder(cfg.recorder))
	}

	s := &Server{
		id:       uuid.NewString(),
		xp:       wire.NewTransport(r, w, objects, xpOpts...),
		objects:  objects,
		registry: registry,
		globals:  cfg.globals,
		log:      cfg.log,
	}
	s.handlers = s.actionTable()
	return s
}

// ID identifies this server instance in logs.
func (s *Server) ID() string { return s.id }

// Objects exposes the object cache.
func (s *Server) Objects() *ObjectCache { return s.objects }

// Run processes requests until the input ends. Application failures are
// answered with exception responses; only a transport failure stops the
// loop with an error.
func (s *Server) Run() error {
	s.log.Infof("server %s ready", s.id)
	for {
		msg, err := s.xp.Read()
		if errors.Is(err, io.EOF) {
			s.log.Infof("server %s: end of input, %d objects live", s.id, s.objects.Len())
			return nil
		}

		var resp wire.Message
		if err != nil {
			var ferr *wire.FilterError
			if !errors.As(err, &ferr) {
				s.log.Errorf("server %s: %s", s.id, err.Error())
				return err
			}
			resp = s.exception(err)
		} else {
			resp = s.Handle(msg)
		}

		if err := s.xp.Write(resp); err != nil {
			var terr *wire.TransportError
			if errors.As(err, &terr) {
				s.log.Errorf("server %s: %s", s.id, err.Error())
				return err
			}
			// Nothing was written; the result itself could not be encoded.
			if err := s.xp.Write(s.exception(err)); err != nil {
				return err
			}
		}
	}
}

// Handle dispatches one decoded request and returns its response.
func (s *Server) Handle(msg wire.Message) wire.Message {
	action := msg.Action()
	s.log.Debugf("dispatch %s", action)

	h, ok := s.handlers[action]
	if !ok || !isActionName(action) {
		return s.exception(fmt.Errorf("unknown action: %s", action))
	}
	result, err := h(msg)
	if err != nil {
		return s.exception(err)
	}
	return wire.Result(result)
}

func (s *Server) exception(err error) wire.Message {
	var ierr *host.InvocationError
	if errors.As(err, &ierr) {
		err = ierr.Err
	}
	s.log.Infof("exception: %s", err.Error())
	return wire.Exception("exception caught: " + err.Error())
}

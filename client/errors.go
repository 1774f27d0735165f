package client

import "errors"

// ErrorKind distinguishes failures reported by the server from replies the
// client could not make sense of.
type ErrorKind int

const (
	// KindInvocation is an exception response from the server.
	KindInvocation ErrorKind = iota
	// KindProtocol is a response with an action other than result or exception.
	KindProtocol
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvocation:
		return "invocation"
	case KindProtocol:
		return "protocol"
	default:
		return "unknown"
	}
}

// Error is returned for a request the server answered with anything other
// than a result.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	if e.Kind == KindProtocol {
		return "received unknown action: " + e.Message
	}
	return e.Message
}

// ErrClosed is returned when a destroyed Object is used.
var ErrClosed = errors.New("object already destroyed")

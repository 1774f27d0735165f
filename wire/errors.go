package wire

import "fmt"

// TransportError reports a failure of the channel itself: an I/O error or a
// frame that does not parse. It is fatal to the channel.
type TransportError struct {
	Op  string // "read" or "write"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s error: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// FilterError reports that a Filter could not resolve an object reference.
// The frame itself was well formed, so the channel stays usable.
type FilterError struct {
	Number int64
	Err    error
}

func (e *FilterError) Error() string {
	return e.Err.Error()
}

func (e *FilterError) Unwrap() error { return e.Err }

// EncodeError reports that an outgoing message could not be marshalled,
// for example because it holds NaN. Nothing was written, so the channel
// stays usable.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string {
	return "cannot encode message: " + e.Err.Error()
}

func (e *EncodeError) Unwrap() error { return e.Err }

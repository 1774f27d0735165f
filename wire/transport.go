package wire

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/tliron/commonlog"
)

// EndMarker starts the sentinel line terminating every frame.
const EndMarker = "// END"

// Transport reads and writes Messages over a pair of byte streams. Each
// frame is a JSON object followed by a line starting with "// END".
//
// A Transport is not safe for concurrent use; the protocol allows only one
// outstanding request per channel.
type Transport struct {
	in     *bufio.Reader
	out    *bufio.Writer
	filter Filter
	rec    *Recorder
	log    commonlog.Logger

	// guards out so that a frame is always written in one piece
	wmu sync.Mutex
}

// TransportOption configures a Transport.
type TransportOption func(*Transport)

// WithRecorder tees every frame read or written into rec.
func WithRecorder(rec *Recorder) TransportOption {
	return func(t *Transport) { t.rec = rec }
}

// WithLogger replaces the default "taco.wire" logger.
func WithLogger(log commonlog.Logger) TransportOption {
	return func(t *Transport) { t.log = log }
}

// NewTransport creates a Transport reading from r and writing to w. The
// filter may be nil, in which case references are left as plain maps and
// opaque values cannot be written.
func NewTransport(r io.Reader, w io.Writer, filter Filter, opts ...TransportOption) *Transport {
	t := &Transport{
		in:     bufio.NewReader(r),
		out:    bufio.NewWriter(w),
		filter: filter,
		log:    commonlog.GetLogger("taco.wire"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetFilter replaces the object filter. Client and server construct their
// transport before the filter that refers back to them exists.
func (t *Transport) SetFilter(f Filter) {
	t.filter = f
}

// Read returns the next message. It returns io.EOF when the input ends
// before any line of a new frame has been read.
func (t *Transport) Read() (Message, error) {
	var text strings.Builder
	for {
		line, err := t.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, &TransportError{Op: "read", Err: err}
		}
		eof := err != nil
		if line == "" && eof {
			break
		}
		line = strings.TrimRight(line, "\r\n")
		if strings.HasPrefix(line, EndMarker) {
			break
		}
		text.WriteString(line)
		text.WriteByte('\n')
		if eof {
			break
		}
	}

	if text.Len() == 0 {
		return nil, io.EOF
	}

	raw, err := parseFrame(text.String())
	if err != nil {
		return nil, &TransportError{Op: "read", Err: err}
	}
	if t.rec != nil {
		if err := t.rec.Record(DirIn, raw); err != nil {
			t.log.Warningf("transcript: %s", err.Error())
		}
	}

	msg, err := t.decodeFrame(raw)
	if err != nil {
		var ferr *FilterError
		if errors.As(err, &ferr) {
			return Message(raw), err
		}
		return nil, &TransportError{Op: "read", Err: err}
	}
	t.log.Debugf("read %s", msg.Action())
	return msg, nil
}

// Write encodes msg and writes it as one flushed frame.
func (t *Transport) Write(msg Message) error {
	enc, err := Encode(msg, t.filter)
	if err != nil {
		return err
	}
	data, err := json.Marshal(enc)
	if err != nil {
		return &EncodeError{Err: err}
	}
	if t.rec != nil {
		if err := t.rec.Record(DirOut, enc.(map[string]any)); err != nil {
			t.log.Warningf("transcript: %s", err.Error())
		}
	}

	t.wmu.Lock()
	defer t.wmu.Unlock()

	if _, err := t.out.Write(data); err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	if _, err := t.out.WriteString("\n" + EndMarker + "\n"); err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	if err := t.out.Flush(); err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	t.log.Debugf("wrote %s", msg.Action())
	return nil
}

// decodeFrame decodes the fields of a frame. The frame is always a message,
// so the reference form is only recognised inside its fields.
func (t *Transport) decodeFrame(raw map[string]any) (Message, error) {
	msg := make(Message, len(raw))
	for k, v := range raw {
		d, err := Decode(v, t.filter)
		if err != nil {
			return nil, err
		}
		msg[k] = d
	}
	return msg, nil
}

// parseFrame parses one frame body into a generic tree whose numbers are
// int64 when integral and float64 otherwise.
func parseFrame(text string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("json: trailing data after message")
	}

	m, ok := normalize(v).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("json: expected object, got %T", v)
	}
	return m, nil
}

type jsonNumber interface {
	String() string
	Float64() (float64, error)
}

func normalize(v any) any {
	switch x := v.(type) {
	case []any:
		for i, e := range x {
			x[i] = normalize(e)
		}
		return x
	case map[string]any:
		for k, e := range x {
			x[k] = normalize(e)
		}
		return x
	case jsonNumber:
		s := x.String()
		if !strings.ContainsAny(s, ".eE") {
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return n
			}
		}
		f, _ := x.Float64()
		return f
	}
	return v
}

package wire

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// Direction of a recorded frame relative to the recording side.
type Direction string

const (
	DirIn  Direction = "in"
	DirOut Direction = "out"
)

// Entry is one recorded frame.
type Entry struct {
	Seq     uint64         `cbor:"1,keyasint"`
	Dir     Direction      `cbor:"2,keyasint"`
	Message map[string]any `cbor:"3,keyasint"`
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("wire: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Recorder appends every frame passing through a Transport to a transcript
// stream of canonical CBOR items, one per frame.
type Recorder struct {
	mu  sync.Mutex
	enc *cbor.Encoder
	seq uint64
}

// NewRecorder creates a Recorder writing to w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{enc: cborEncMode.NewEncoder(w)}
}

// Record appends one frame. msg must already be in wire form.
func (r *Recorder) Record(dir Direction, msg map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	return r.enc.Encode(Entry{Seq: r.seq, Dir: dir, Message: msg})
}

// ReadTranscript decodes all entries of a transcript stream.
func ReadTranscript(r io.Reader) ([]Entry, error) {
	dec := cbor.NewDecoder(r)
	var entries []Entry
	for {
		var e Entry
		if err := dec.Decode(&e); err != nil {
			if errors.Is(err, io.EOF) {
				return entries, nil
			}
			return entries, fmt.Errorf("wire: read transcript: %w", err)
		}
		e.Message = fromCBOR(e.Message).(map[string]any)
		entries = append(entries, e)
	}
}

// fromCBOR maps CBOR's decoded integer types back onto the wire model.
func fromCBOR(v any) any {
	switch x := v.(type) {
	case uint64:
		return int64(x)
	case []any:
		for i, e := range x {
			x[i] = fromCBOR(e)
		}
		return x
	case map[string]any:
		for k, e := range x {
			x[k] = fromCBOR(e)
		}
		return x
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[fmt.Sprint(k)] = fromCBOR(e)
		}
		return m
	}
	return v
}

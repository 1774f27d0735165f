package wire

import "fmt"

// Request actions.
const (
	ActionCallClassMethod   = "call_class_method"
	ActionCallFunction      = "call_function"
	ActionCallMethod        = "call_method"
	ActionConstructObject   = "construct_object"
	ActionDestroyObject     = "destroy_object"
	ActionGetAttribute      = "get_attribute"
	ActionSetAttribute      = "set_attribute"
	ActionGetClassAttribute = "get_class_attribute"
	ActionSetClassAttribute = "set_class_attribute"
	ActionGetValue          = "get_value"
	ActionSetValue          = "set_value"
	ActionImportModule      = "import_module"
)

// Response actions.
const (
	ActionResult    = "result"
	ActionException = "exception"
)

// Message is one frame on the channel. Every message carries an "action"
// key; the remaining keys depend on the action.
type Message map[string]any

// Result builds a successful response.
func Result(v any) Message {
	return Message{"action": ActionResult, "result": v}
}

// Exception builds a failure response.
func Exception(msg string) Message {
	return Message{"action": ActionException, "message": msg}
}

// Action returns the action name, or "" if it is missing or not a string.
func (m Message) Action() string {
	s, _ := m["action"].(string)
	return s
}

// Has reports whether key is present, even with a null value.
func (m Message) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// Str returns a mandatory string field.
func (m Message) Str(key string) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", fmt.Errorf("missing field %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q: expected string, got %T", key, v)
	}
	return s, nil
}

// OptString returns a string field that may be absent or null.
func (m Message) OptString(key string) (string, error) {
	if v, ok := m[key]; !ok || v == nil {
		return "", nil
	}
	return m.Str(key)
}

// Int returns a mandatory integer field.
func (m Message) Int(key string) (int64, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("missing field %q", key)
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	}
	return 0, fmt.Errorf("field %q: expected integer, got %T", key, v)
}

// List returns a list field. The second result is false when the field is
// absent or null, which callers treat as "no argument list".
func (m Message) List(key string) ([]any, bool, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, false, nil
	}
	l, ok := v.([]any)
	if !ok {
		return nil, false, fmt.Errorf("field %q: expected list, got %T", key, v)
	}
	return l, true, nil
}

// Map returns a mapping field, nil when absent or null.
func (m Message) Map(key string) (map[string]any, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	mm, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("field %q: expected map, got %T", key, v)
	}
	return mm, nil
}

// Context is a calling-convention hint for the target runtime describing
// how a call's return value should be shaped. The bridge passes it through
// untouched.
type Context string

const (
	ContextNone   Context = ""
	ContextScalar Context = "scalar"
	ContextList   Context = "list"
	ContextMap    Context = "map"
	ContextVoid   Context = "void"
)

// ParseContext validates a context name; "" means no hint.
func ParseContext(s string) (Context, error) {
	switch c := Context(s); c {
	case ContextNone, ContextScalar, ContextList, ContextMap, ContextVoid:
		return c, nil
	}
	return ContextNone, fmt.Errorf("unknown context %q", s)
}

// Value returns the wire form of the hint: nil when no hint is set.
func (c Context) Value() any {
	if c == ContextNone {
		return nil
	}
	return string(c)
}

package stdlib

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/chazu/taco/host"
	"github.com/chazu/taco/wire"
)

func imported(t *testing.T, names ...string) *host.Registry {
	t.Helper()
	r := host.NewRegistry()
	Register(r)
	for _, name := range names {
		if err := r.Import(name); err != nil {
			t.Fatalf("Import(%s): %v", name, err)
		}
	}
	return r
}

func callStatic(t *testing.T, r *host.Registry, class, name string, args ...any) any {
	t.Helper()
	c, err := r.Class(class)
	if err != nil {
		t.Fatal(err)
	}
	v, err := host.Invoke(c.StaticMethods(name), args, wire.ContextNone)
	if err != nil {
		t.Fatalf("%s.%s: %v", class, name, err)
	}
	return v
}

func TestRegister_LazyModules(t *testing.T) {
	r := imported(t)
	for _, name := range Modules {
		if _, err := r.Class(name); err == nil {
			t.Errorf("%s defined before import", name)
		}
	}
	for _, name := range Modules {
		if err := r.Import(name); err != nil {
			t.Errorf("Import(%s): %v", name, err)
		}
		if _, err := r.Class(name); err != nil {
			t.Errorf("%s not defined after import: %v", name, err)
		}
	}
}

func TestStrings(t *testing.T) {
	r := imported(t, "strings")

	if got := callStatic(t, r, "strings", "ToUpper", "taco"); got != "TACO" {
		t.Errorf("ToUpper = %#v", got)
	}
	if got := callStatic(t, r, "strings", "Join", []any{"a", "b", "c"}, "-"); got != "a-b-c" {
		t.Errorf("Join = %#v", got)
	}

	c, _ := r.Class("strings.Builder")
	obj, err := host.Invoke(c.Constructors(), nil, wire.ContextNone)
	if err != nil {
		t.Fatalf("construct Builder: %v", err)
	}
	if _, err := host.Invoke(r.Methods(obj, "WriteString"), []any{"hi"}, wire.ContextNone); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	got, err := host.Invoke(r.Methods(obj, "String"), nil, wire.ContextNone)
	if err != nil || got != "hi" {
		t.Errorf("String = %#v, %v", got, err)
	}

	c, _ = r.Class("strings.Replacer")
	rep, err := host.Invoke(c.Constructors(), []any{"a", "1", "b", "2"}, wire.ContextNone)
	if err != nil {
		t.Fatalf("construct Replacer: %v", err)
	}
	got, _ = host.Invoke(r.Methods(rep, "Replace"), []any{"abc"}, wire.ContextNone)
	if got != "12c" {
		t.Errorf("Replace = %#v", got)
	}
}

func TestStrconvErrors(t *testing.T) {
	r := imported(t, "strconv")
	c, _ := r.Class("strconv")

	if got := callStatic(t, r, "strconv", "Atoi", "42"); got != 42 {
		t.Errorf("Atoi = %#v", got)
	}
	_, err := host.Invoke(c.StaticMethods("Atoi"), []any{"x"}, wire.ContextNone)
	var ierr *host.InvocationError
	if !errors.As(err, &ierr) || !strings.Contains(err.Error(), "invalid syntax") {
		t.Errorf("Atoi(x) error = %v", err)
	}
}

func TestMath(t *testing.T) {
	r := imported(t, "math")
	c, _ := r.Class("math")

	if got := callStatic(t, r, "math", "Sqrt", 16.0); got != 4.0 {
		t.Errorf("Sqrt = %#v", got)
	}
	if got := callStatic(t, r, "math", "Max", int64(3), 2.5); got != 3.0 {
		t.Errorf("Max = %#v", got)
	}
	if pi, err := c.GetStatic("Pi"); err != nil || pi.(float64) < 3.14 {
		t.Errorf("Pi = %#v, %v", pi, err)
	}
	if err := c.SetStatic("Pi", 3.0); err == nil {
		t.Error("Pi should be read-only")
	}
}

func TestTime(t *testing.T) {
	r := imported(t, "time")
	c, _ := r.Class("time.Time")

	v, err := host.Invoke(c.Constructors(), []any{int64(2015), int64(3), int64(14)}, wire.ContextNone)
	if err != nil {
		t.Fatalf("construct Time: %v", err)
	}
	ts, ok := v.(time.Time)
	if !ok {
		t.Fatalf("constructor returned %T", v)
	}
	if ts.Year() != 2015 || ts.Month() != time.March || ts.Day() != 14 {
		t.Errorf("date = %v", ts)
	}

	got, err := host.Invoke(r.Methods(v, "Format"), []any{time.DateOnly}, wire.ContextNone)
	if err != nil || got != "2015-03-14" {
		t.Errorf("Format = %#v, %v", got, err)
	}

	if c := r.ClassOf(v); c == nil || c.Name != "time.Time" {
		t.Errorf("ClassOf = %v", c)
	}
}

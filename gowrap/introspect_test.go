package gowrap

import (
	"testing"
)

func TestIntrospectPackage_Strings(t *testing.T) {
	model, err := IntrospectPackage("strings", nil)
	if err != nil {
		t.Fatalf("IntrospectPackage(strings): %v", err)
	}

	if model.ImportPath != "strings" {
		t.Errorf("expected import path 'strings', got %q", model.ImportPath)
	}
	if model.Name != "strings" {
		t.Errorf("expected package name 'strings', got %q", model.Name)
	}

	functions := make(map[string]FunctionModel)
	for _, fn := range model.Functions {
		functions[fn.Name] = fn
	}
	for _, name := range []string{"Contains", "Replace", "NewReplacer"} {
		if _, ok := functions[name]; !ok {
			t.Errorf("expected to find %s function", name)
		}
	}
	if got := functions["NewReplacer"].Constructs; got != "Replacer" {
		t.Errorf("NewReplacer constructs %q", got)
	}

	types := make(map[string]bool)
	for _, tp := range model.Types {
		types[tp.Name] = true
	}
	for _, name := range []string{"Builder", "Reader", "Replacer"} {
		if !types[name] {
			t.Errorf("expected to find %s type", name)
		}
	}
}

func TestIntrospectPackage_WithFilter(t *testing.T) {
	filter := map[string]bool{
		"Contains": true,
		"HasPrefix": true,
	}
	model, err := IntrospectPackage("strings", filter)
	if err != nil {
		t.Fatalf("IntrospectPackage(strings, filter): %v", err)
	}

	if len(model.Functions) != 2 {
		t.Errorf("expected 2 functions with filter, got %d", len(model.Functions))
	}
	if len(model.Types) != 0 {
		t.Errorf("expected 0 types with filter, got %d", len(model.Types))
	}
}

func TestIntrospectPackage_EncodingJson(t *testing.T) {
	model, err := IntrospectPackage("encoding/json", nil)
	if err != nil {
		t.Fatalf("IntrospectPackage(encoding/json): %v", err)
	}

	if model.Name != "json" {
		t.Errorf("expected package name 'json', got %q", model.Name)
	}

	constructs := make(map[string]string)
	for _, fn := range model.Functions {
		constructs[fn.Name] = fn.Constructs
	}
	if _, ok := constructs["Marshal"]; !ok {
		t.Error("expected to find Marshal function")
	}
	if constructs["NewDecoder"] != "Decoder" || constructs["NewEncoder"] != "Encoder" {
		t.Errorf("constructors = %v", constructs)
	}

	// Number is a named string type, still a class.
	found := false
	for _, tp := range model.Types {
		if tp.Name == "Number" {
			found = true
		}
	}
	if !found {
		t.Error("expected to find Number type")
	}
}

func TestIntrospectPackage_BadPath(t *testing.T) {
	_, err := IntrospectPackage("nonexistent/package/path", nil)
	if err == nil {
		t.Error("expected error for nonexistent package")
	}
}

func TestIntrospectPackage_Constants(t *testing.T) {
	model, err := IntrospectPackage("math", nil)
	if err != nil {
		t.Fatalf("IntrospectPackage(math): %v", err)
	}

	foundPi := false
	for _, c := range model.Constants {
		if c.Name == "Pi" {
			foundPi = true
			if c.Val == nil {
				t.Error("Pi should have a value")
			}
			if !c.Untyped {
				t.Error("Pi should be untyped")
			}
		}
	}
	if !foundPi {
		t.Error("expected to find Pi constant")
	}
}

func TestIntrospectPackage_Constructors(t *testing.T) {
	model, err := IntrospectPackage("bytes", map[string]bool{
		"NewBuffer":       true,
		"NewBufferString": true,
		"NewReader":       true,
		"Equal":           true,
	})
	if err != nil {
		t.Fatalf("IntrospectPackage(bytes): %v", err)
	}

	want := map[string]string{
		"NewBuffer":       "Buffer",
		"NewBufferString": "Buffer",
		"NewReader":       "Reader",
		"Equal":           "",
	}
	for _, fn := range model.Functions {
		if got := fn.Constructs; got != want[fn.Name] {
			t.Errorf("%s constructs %q, want %q", fn.Name, got, want[fn.Name])
		}
	}
}

func TestIntrospectPackage_VariablesAndGenerics(t *testing.T) {
	model, err := IntrospectPackage("io", map[string]bool{"EOF": true})
	if err != nil {
		t.Fatalf("IntrospectPackage(io): %v", err)
	}
	if len(model.Variables) != 1 || model.Variables[0].Name != "EOF" {
		t.Errorf("variables = %+v", model.Variables)
	}

	model, err = IntrospectPackage("slices", map[string]bool{"Contains": true})
	if err != nil {
		t.Fatalf("IntrospectPackage(slices): %v", err)
	}
	if len(model.Functions) != 1 || !model.Functions[0].IsGeneric {
		t.Errorf("slices.Contains should be generic: %+v", model.Functions)
	}
}

func TestIntrospectPackage_Command(t *testing.T) {
	if _, err := IntrospectPackage("cmd/gofmt", nil); err == nil {
		t.Error("expected error for a main package")
	}
}

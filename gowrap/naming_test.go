package gowrap

import "testing"

func TestClassNames(t *testing.T) {
	if got := PackageClassName("encoding/json"); got != "encoding/json" {
		t.Errorf("PackageClassName = %q", got)
	}
	if got := TypeClassName("encoding/json", "Decoder"); got != "encoding/json.Decoder" {
		t.Errorf("TypeClassName = %q", got)
	}
}

func TestWrapperPackageName(t *testing.T) {
	tests := []struct {
		importPath string
		expected   string
	}{
		{"strings", "wrap_strings"},
		{"encoding/json", "wrap_json"},
		{"net/http/httptest", "wrap_httptest"},
		{"github.com/foo/go-bar", "wrap_go_bar"},
		{"gopkg.in/yaml.v3", "wrap_yaml_v3"},
		{"example.com/x/", "wrap_x"},
	}
	for _, tt := range tests {
		t.Run(tt.importPath, func(t *testing.T) {
			got := WrapperPackageName(tt.importPath)
			if got != tt.expected {
				t.Errorf("WrapperPackageName(%q) = %q, want %q", tt.importPath, got, tt.expected)
			}
		})
	}
}

func TestWrapperFileName(t *testing.T) {
	tests := []struct {
		importPath string
		expected   string
	}{
		{"strings", "strings_taco.go"},
		{"encoding/json", "json_taco.go"},
		{"example.com/3d", "_3d_taco.go"},
	}
	for _, tt := range tests {
		if got := WrapperFileName(tt.importPath); got != tt.expected {
			t.Errorf("WrapperFileName(%q) = %q, want %q", tt.importPath, got, tt.expected)
		}
	}
}

package main

import (
	"path/filepath"
	"testing"

	"github.com/chazu/taco/config"
)

func TestParseInclude(t *testing.T) {
	if parseInclude("") != nil {
		t.Error("empty list should mean no filter")
	}
	got := parseInclude("Contains, Builder,,HasPrefix")
	if len(got) != 3 || !got["Contains"] || !got["Builder"] || !got["HasPrefix"] {
		t.Errorf("parseInclude = %v", got)
	}
}

func TestOutputSettings(t *testing.T) {
	cfg := config.Default()
	dir, pkg := outputSettings(cfg, "", "")
	if dir != "wrapped" || pkg != "" {
		t.Errorf("defaults = %q, %q", dir, pkg)
	}

	cfg.Dir = "/project"
	cfg.Wrap.Output = "internal/bindings"
	cfg.Wrap.Package = "bindings"
	dir, pkg = outputSettings(cfg, "", "")
	if dir != filepath.Join("/project", "internal/bindings") || pkg != "bindings" {
		t.Errorf("from config = %q, %q", dir, pkg)
	}

	dir, pkg = outputSettings(cfg, "out", "custom")
	if dir != "out" || pkg != "custom" {
		t.Errorf("flags = %q, %q", dir, pkg)
	}
}

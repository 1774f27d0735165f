package gowrap

import (
	"strings"
	"unicode"
)

// PackageClassName is the class holding a package's functions, constants
// and variables. It is the import path itself, so clients call
// call_class_method with class "encoding/json" and name "Marshal".
func PackageClassName(importPath string) string {
	return importPath
}

// TypeClassName names the class for an exported type, e.g.
// "encoding/json" and "Decoder" give "encoding/json.Decoder".
func TypeClassName(importPath, typeName string) string {
	return importPath + "." + typeName
}

// WrapperPackageName returns the Go package name used for generated
// bindings of importPath, e.g. "net/http" gives "wrap_http" and
// "github.com/foo/go-bar" gives "wrap_go_bar".
func WrapperPackageName(importPath string) string {
	return "wrap_" + toIdent(lastSegment(importPath))
}

// WrapperFileName returns the file name for generated bindings.
func WrapperFileName(importPath string) string {
	return toIdent(lastSegment(importPath)) + "_taco.go"
}

func lastSegment(importPath string) string {
	parts := strings.Split(strings.TrimSuffix(importPath, "/"), "/")
	return parts[len(parts)-1]
}

// toIdent lowercases s and replaces characters that cannot appear in a
// Go identifier with underscores.
func toIdent(s string) string {
	if len(s) == 0 {
		return "_"
	}

	var b strings.Builder
	for i, r := range s {
		switch {
		case unicode.IsLetter(r), r == '_':
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsDigit(r):
			if i == 0 {
				b.WriteRune('_')
			}
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

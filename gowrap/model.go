// Package gowrap introspects Go packages and generates host registry
// bindings for them.
package gowrap

import "go/constant"

// PackageModel is the in-memory representation of a Go package's exported API.
type PackageModel struct {
	ImportPath string
	Name       string // short package name (e.g., "json")
	Functions  []FunctionModel
	Types      []TypeModel
	Constants  []ConstantModel
	Variables  []VariableModel
}

// TypeModel represents an exported named type. Its methods and fields are
// reached through reflection at call time, so only the name is recorded.
type TypeModel struct {
	Name      string
	IsGeneric bool
}

// FunctionModel represents an exported package-level function.
type FunctionModel struct {
	Name      string
	IsGeneric bool

	// Constructs names the package type returned by a New<Type> function.
	Constructs string
}

// ConstantModel represents an exported constant.
type ConstantModel struct {
	Name    string
	Untyped bool
	Val     constant.Value
}

// VariableModel represents an exported package-level variable.
type VariableModel struct {
	Name string
}

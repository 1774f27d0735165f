package gowrap

import (
	"fmt"
	"go/types"
	"strings"

	"golang.org/x/tools/go/packages"
)

// IntrospectPackage loads a Go package by import path and returns its API model.
// The includeFilter, if non-nil, restricts which exported names are included.
func IntrospectPackage(importPath string, includeFilter map[string]bool) (*PackageModel, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedSyntax,
	}

	pkgs, err := packages.Load(cfg, importPath)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", importPath, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found for %s", importPath)
	}
	if len(pkgs[0].Errors) > 0 {
		return nil, fmt.Errorf("package errors: %v", pkgs[0].Errors)
	}

	pkg := pkgs[0]
	if pkg.Types == nil {
		return nil, fmt.Errorf("type information not available for %s", importPath)
	}
	if pkg.Name == "main" {
		return nil, fmt.Errorf("%s is a command, not a library package", importPath)
	}

	model := &PackageModel{
		ImportPath: importPath,
		Name:       pkg.Name,
	}

	scope := pkg.Types.Scope()

	for _, name := range scope.Names() {
		if includeFilter != nil && !includeFilter[name] {
			continue
		}

		obj := scope.Lookup(name)
		if !obj.Exported() {
			continue
		}

		switch o := obj.(type) {
		case *types.Func:
			model.Functions = append(model.Functions, extractFunction(o, pkg.Types))

		case *types.TypeName:
			tm := extractType(o)
			if tm != nil {
				model.Types = append(model.Types, *tm)
			}

		case *types.Const:
			model.Constants = append(model.Constants, extractConstant(o))

		case *types.Var:
			model.Variables = append(model.Variables, VariableModel{Name: o.Name()})
		}
	}

	return model, nil
}

func extractFunction(fn *types.Func, pkg *types.Package) FunctionModel {
	sig := fn.Type().(*types.Signature)
	fm := FunctionModel{
		Name:      fn.Name(),
		IsGeneric: sig.TypeParams().Len() > 0,
	}

	// New<Type>... returning the type or a pointer to it constructs that type.
	if sig.Results().Len() > 0 {
		if tn := namedIn(sig.Results().At(0).Type(), pkg); tn != "" &&
			strings.HasPrefix(fn.Name(), "New"+tn) {
			fm.Constructs = tn
		}
	}
	return fm
}

// namedIn returns the name of t, or of the type t points to, when it is a
// named type declared in pkg.
func namedIn(t types.Type, pkg *types.Package) string {
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}
	named, ok := t.(*types.Named)
	if !ok || named.Obj().Pkg() != pkg {
		return ""
	}
	return named.Obj().Name()
}

func extractType(tn *types.TypeName) *TypeModel {
	if tn.IsAlias() {
		return nil
	}
	named, ok := tn.Type().(*types.Named)
	if !ok {
		return nil
	}
	return &TypeModel{
		Name:      tn.Name(),
		IsGeneric: named.TypeParams().Len() > 0,
	}
}

func extractConstant(c *types.Const) ConstantModel {
	basic, isBasic := c.Type().(*types.Basic)
	return ConstantModel{
		Name:    c.Name(),
		Untyped: isBasic && basic.Info()&types.IsUntyped != 0,
		Val:     c.Val(),
	}
}

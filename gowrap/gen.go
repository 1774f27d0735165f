package gowrap

import (
	"bytes"
	"fmt"
	"go/constant"
	"math"
	"os"
	"path/filepath"

	"github.com/dave/jennifer/jen"
)

const hostPath = "github.com/chazu/taco/host"

// Generate renders a Go file that registers model's exported API with a
// host registry. The file declares ImportPath and
//
//	func Register(r *host.Registry) error
//
// so that a server can install it lazily with r.Module(ImportPath, Register).
// An empty pkgName selects WrapperPackageName(model.ImportPath).
func Generate(model *PackageModel, pkgName string) (string, error) {
	if pkgName == "" {
		pkgName = WrapperPackageName(model.ImportPath)
	}

	f := jen.NewFile(pkgName)
	f.HeaderComment("Code generated by tacowrap. DO NOT EDIT.")
	f.ImportName(hostPath, "host")
	if model.Name != "" {
		f.ImportName(model.ImportPath, model.Name)
	}

	f.Comment("ImportPath is the module name clients pass to import_module.")
	f.Const().Id("ImportPath").Op("=").Lit(model.ImportPath)
	f.Line()

	f.Comment(fmt.Sprintf("Register defines the classes of %s.", model.ImportPath))
	f.Func().Id("Register").Params(jen.Id("r").Op("*").Qual(hostPath, "Registry")).Error().Block(
		registerBody(model)...,
	)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return "", fmt.Errorf("rendering bindings for %s: %w", model.ImportPath, err)
	}
	return buf.String(), nil
}

func registerBody(model *PackageModel) []jen.Code {
	path := model.ImportPath
	var body []jen.Code

	// Package class: functions, constants and variables.
	var statics []jen.Code
	for _, fn := range model.Functions {
		if fn.IsGeneric {
			continue
		}
		statics = append(statics, jen.Id("statics").Dot("StaticMethod").Call(
			jen.Lit(fn.Name), jen.Qual(path, fn.Name)))
	}
	for _, c := range model.Constants {
		expr := constantExpr(path, c)
		if expr == nil {
			continue
		}
		statics = append(statics, jen.Id("statics").Dot("Constant").Call(jen.Lit(c.Name), expr))
	}
	for _, v := range model.Variables {
		statics = append(statics, jen.Id("statics").Dot("StaticField").Call(
			jen.Lit(v.Name), jen.Op("&").Qual(path, v.Name)))
	}

	define := jen.Id("r").Dot("Define").Call(jen.Id("ImportPath"), jen.Nil())
	if len(statics) == 0 {
		body = append(body, define)
	} else {
		body = append(body, jen.Id("statics").Op(":=").Add(define))
		body = append(body, statics...)
	}

	// One class per type, with its New<Type> constructors.
	ctors := make(map[string][]string)
	for _, fn := range model.Functions {
		if fn.Constructs != "" && !fn.IsGeneric {
			ctors[fn.Constructs] = append(ctors[fn.Constructs], fn.Name)
		}
	}

	declared := false
	for _, tm := range model.Types {
		if tm.IsGeneric {
			continue
		}
		define := jen.Id("r").Dot("Define").Call(
			jen.Lit(TypeClassName(path, tm.Name)),
			jen.Qual("reflect", "TypeOf").Call(
				jen.Parens(jen.Op("*").Qual(path, tm.Name)).Call(jen.Nil()),
			).Dot("Elem").Call(),
		)
		names := ctors[tm.Name]
		if len(names) == 0 {
			body = append(body, define)
			continue
		}

		op := "="
		if !declared {
			op = ":="
			declared = true
		}
		body = append(body, jen.Id("cls").Op(op).Add(define))
		for _, name := range names {
			body = append(body, jen.Id("cls").Dot("Constructor").Call(jen.Qual(path, name)))
		}
	}

	body = append(body, jen.Return(jen.Nil()))
	return body
}

// constantExpr returns the value expression for a constant, converting
// untyped numeric constants to a wire-representable type. It returns nil
// for constants that cannot be carried.
func constantExpr(path string, c ConstantModel) jen.Code {
	ref := jen.Qual(path, c.Name)
	if c.Val == nil {
		return ref
	}

	switch c.Val.Kind() {
	case constant.Complex, constant.Unknown:
		return nil
	case constant.Int:
		if !c.Untyped {
			return ref
		}
		if _, exact := constant.Int64Val(c.Val); exact {
			return jen.Int64().Call(ref)
		}
		return jen.Float64().Call(ref)
	case constant.Float:
		if !c.Untyped {
			return ref
		}
		if f, _ := constant.Float64Val(c.Val); math.IsInf(f, 0) {
			return nil
		}
		return jen.Float64().Call(ref)
	default:
		return ref
	}
}

// WriteFile generates bindings for model into dir/<name>/<name>_taco.go and
// returns the path written.
func WriteFile(model *PackageModel, dir, pkgName string) (string, error) {
	code, err := Generate(model, pkgName)
	if err != nil {
		return "", err
	}

	pkgDir := filepath.Join(dir, toIdent(lastSegment(model.ImportPath)))
	if err := os.MkdirAll(pkgDir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", pkgDir, err)
	}
	path := filepath.Join(pkgDir, WrapperFileName(model.ImportPath))
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

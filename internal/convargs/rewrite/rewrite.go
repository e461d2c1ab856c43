// Package rewrite replaces parameter types of annotated functions and injects
// conversion prologues into their bodies.
//
// Rewriting happens in two phases. [Prepare] validates the directives against
// the function signature without touching the AST, so all potential errors are
// returned before any change. [Plan.Apply] then mutates the function and never
// fails. A function is either fully rewritten or left intact.
package rewrite

import (
	"errors"
	"go/ast"

	"github.com/sublee/convargs/internal/codefmt"
	"github.com/sublee/convargs/internal/convargs/parse"
	"github.com/sublee/convargs/internal/lcs"
)

var (
	// ErrUnmatchedArgument is the kind of errors for a directive naming no
	// eligible parameter.
	ErrUnmatchedArgument = errors.New("unmatched argument")

	// ErrAlreadyConverted is the kind of errors for a directive on a function
	// whose body already starts with the prologue for the argument.
	ErrAlreadyConverted = errors.New("already converted")

	// ErrNoErrorResult is the kind of errors for a function which cannot
	// return a conversion error.
	ErrNoErrorResult = errors.New("no error result")
)

// Plan is a validated rewrite of a function. Call [Plan.Apply] to perform it.
type Plan struct {
	fn      *parse.Func
	ns      codefmt.NS
	targets []target
}

// target is a parameter matched by a directive.
type target struct {
	directive parse.Directive
	name      *ast.Ident // parameter name in the signature
}

// Func returns the function to rewrite.
func (plan *Plan) Func() *parse.Func { return plan.fn }

// Len returns the number of parameters to rewrite.
func (plan *Plan) Len() int { return len(plan.targets) }

// Prepare matches the directives of fn against its parameters. ns must reserve
// every name visible in the function. It is used to name renamed parameters
// and is modified by [Plan.Apply].
//
// For each directive, the first parameter with the same name is chosen.
// Blank, unnamed, and variadic parameters are never eligible, and the receiver
// is not a parameter. A directive without an eligible parameter fails the
// whole function.
func Prepare(pkger codefmt.Pkger, fn *parse.Func, ns codefmt.NS) (*Plan, error) {
	plan := &Plan{fn: fn, ns: ns}
	if fn.Directives.Len() == 0 {
		return plan, nil
	}

	decl := fn.Decl
	if decl.Type.Results.NumFields() == 0 {
		return nil, codefmt.KindErrorf(pkger, ErrNoErrorResult, decl.Name, "%f must return an error to convert arguments", decl)
	}

	var errs error
	for d := range fn.Directives.All() {
		// A rewritten function no longer has the parameter, so check this
		// before matching for a clearer error.
		if hasPrologue(decl.Body.List, d.Name.Name) {
			err := codefmt.KindErrorf(pkger, ErrAlreadyConverted, d, "argument %s of %f is already converted", d.Name.Name, decl)
			errs = errors.Join(errs, err)
			continue
		}

		name, ok := lookup(decl.Type.Params, d.Name.Name)
		if !ok {
			errs = errors.Join(errs, unmatched(pkger, decl, d))
			continue
		}

		plan.targets = append(plan.targets, target{directive: d, name: name})
	}
	if errs != nil {
		return nil, errs
	}
	return plan, nil
}

// lookup finds the first eligible parameter with the name.
func lookup(params *ast.FieldList, name string) (*ast.Ident, bool) {
	for _, field := range params.List {
		if _, ok := field.Type.(*ast.Ellipsis); ok {
			continue
		}
		for _, id := range field.Names {
			if id.Name == name && id.Name != "_" {
				return id, true
			}
		}
	}
	return nil, false
}

// unmatched reports a directive without an eligible parameter. It explains why
// a parameter with the same name is not eligible, or suggests a similar name.
func unmatched(pkger codefmt.Pkger, decl *ast.FuncDecl, d parse.Directive) error {
	name := d.Name.Name

	if decl.Recv != nil {
		for _, field := range decl.Recv.List {
			for _, id := range field.Names {
				if id.Name == name {
					return codefmt.KindErrorf(pkger, ErrUnmatchedArgument, d, "cannot convert receiver %s of %f", name, decl)
				}
			}
		}
	}

	var candidates []string
	for _, field := range decl.Type.Params.List {
		_, variadic := field.Type.(*ast.Ellipsis)
		for _, id := range field.Names {
			if id.Name == "_" {
				continue
			}
			if variadic {
				if id.Name == name {
					return codefmt.KindErrorf(pkger, ErrUnmatchedArgument, d, "cannot convert variadic parameter %s of %f", name, decl)
				}
				continue
			}
			candidates = append(candidates, id.Name)
		}
	}

	if suggestion, ok := lcs.Closest(name, candidates); ok {
		return codefmt.KindErrorf(pkger, ErrUnmatchedArgument, d, "no parameter named %s in %f; did you mean %s?", name, decl, suggestion)
	}
	return codefmt.KindErrorf(pkger, ErrUnmatchedArgument, d, "no parameter named %s in %f", name, decl)
}

// Apply rewrites the function. rt is the local name of the imported runtime
// package.
//
// Each matched parameter takes the substitute type and a fresh name. The body
// is prefixed with one prologue per directive, in directive order, which
// declares the original parameter name with the original type:
//
//	func f(vArg Subst) error {
//		var v Orig
//		if err := convargs.TryFrom[Subst](&v, vArg); err != nil {
//			return err
//		}
//		...
//	}
func (plan *Plan) Apply(rt string) {
	if len(plan.targets) == 0 {
		return
	}

	decl := plan.fn.Decl
	fields := splitFields(decl.Type.Params, plan.targets)

	// "new" may be shadowed somewhere. Without type information, any use of
	// the name disables the builtin for zero values.
	_, newShadowed := plan.ns["new"]

	var prologues []ast.Stmt
	for _, t := range plan.targets {
		field := fields[t.name]

		// Capture the original type before replacing it.
		orig := field.Type
		field.Type = codefmt.Clone(t.directive.Type, orig.Pos())

		arg := plan.ns.Name(t.name.Name + " arg")
		field.Names[0] = &ast.Ident{NamePos: t.name.NamePos, Name: arg}

		p := prologue{
			rt:      rt,
			name:    t.name.Name,
			arg:     arg,
			orig:    orig,
			subst:   t.directive.Type,
			results: decl.Type.Results,
			errWrap: plan.fn.ErrWrap,
			useNew:  !newShadowed,
		}
		prologues = append(prologues, p.stmts(decl.Body.Lbrace)...)
	}

	decl.Body.List = append(prologues, decl.Body.List...)
}

// splitFields splits parameter fields sharing a type, such as "a, b T", if any
// of their names is a target. It returns the field of each target name.
func splitFields(params *ast.FieldList, targets []target) map[*ast.Ident]*ast.Field {
	isTarget := make(map[*ast.Ident]bool)
	for _, t := range targets {
		isTarget[t.name] = true
	}

	fields := make(map[*ast.Ident]*ast.Field)
	var list []*ast.Field
	for _, field := range params.List {
		split := false
		if len(field.Names) > 1 {
			for _, id := range field.Names {
				split = split || isTarget[id]
			}
		}

		if !split {
			list = append(list, field)
			for _, id := range field.Names {
				fields[id] = field
			}
			continue
		}

		for i, id := range field.Names {
			typ := field.Type
			if i != 0 {
				typ = codefmt.Clone(field.Type, field.Type.Pos())
			}

			f := &ast.Field{Names: []*ast.Ident{id}, Type: typ}
			if i == 0 {
				f.Doc = field.Doc
			}
			if i == len(field.Names)-1 {
				f.Comment = field.Comment
			}

			list = append(list, f)
			fields[id] = f
		}
	}

	params.List = list
	return fields
}

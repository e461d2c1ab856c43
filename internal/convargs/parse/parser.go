// Package parse collects functions annotated with convargs directives from the
// syntax of a package.
package parse

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/sublee/convargs/internal/codefmt"
)

const (
	// DirectivePrefix starts every convargs directive comment.
	DirectivePrefix = "//convargs:"

	// VerbConvert declares arguments to convert: //convargs:convert a: T, b: U
	VerbConvert = "convert"

	// VerbErrWrap declares an error adapter: //convargs:errwrap pkg.Wrap
	VerbErrWrap = "errwrap"
)

// ImportPath is the import path of the runtime package which generated code
// depends on.
const ImportPath = "github.com/sublee/convargs"

func IsConvargsImport(path string) bool {
	// Source code from "wire/internal/wire/parse.go".
	const vendorPart = "vendor/"
	if i := strings.LastIndex(path, vendorPart); i != -1 && (i == 0 || path[i-1] == '/') {
		path = path[i+len(vendorPart):]
	}
	return path == ImportPath
}

// Parser parses an AST of the underlying package to collect annotated
// functions. It never needs type information.
type Parser struct{ pkg *packages.Package }

func (p *Parser) Pkg() *packages.Package { return p.pkg }

// New creates a new [Parser].
func New(pkg *packages.Package) (*Parser, error) {
	if pkg.Name == "" {
		return nil, fmt.Errorf("need pkg name")
	}
	if pkg.Fset == nil {
		return nil, fmt.Errorf("need pkg fset")
	}
	if pkg.Syntax == nil {
		return nil, fmt.Errorf("need pkg syntax")
	}
	return &Parser{pkg: pkg}, nil
}

// Func is a function declaration annotated with convargs directives.
type Func struct {
	Decl *ast.FuncDecl

	// Directives lists the arguments to convert in order. It may be empty.
	Directives *DirectiveSet

	// ErrWrap is an optional func(error) E expression applied to conversion
	// errors before returning them.
	ErrWrap ast.Expr

	// Comments are the directive comments to erase from the output.
	Comments []*ast.Comment
}

func (fn *Func) Pos() token.Pos { return fn.Decl.Pos() }

// SplitDirective splits a directive comment into its verb and payload. pos is
// the position of the payload. It returns false if the comment is not a
// convargs directive.
//
//	//convargs:convert a: T, b: U
//	           ^^^^^^^ ^^^^^^^^^^
//	           verb    payload
func SplitDirective(c *ast.Comment) (verb, payload string, pos token.Pos, ok bool) {
	rest, ok := strings.CutPrefix(c.Text, DirectivePrefix)
	if !ok {
		return "", "", token.NoPos, false
	}

	i := strings.IndexAny(rest, " \t")
	if i < 0 {
		return rest, "", c.End(), true
	}
	verb, payload = rest[:i], rest[i+1:]
	offset := len(DirectivePrefix) + i + 1
	return verb, payload, c.Slash + token.Pos(offset), true
}

// ConvargsGoFiles returns the Go files that have a "//go:build convargs"
// constraint.
func (p *Parser) ConvargsGoFiles() []*ast.File {
	var files []*ast.File
	for _, file := range p.Pkg().Syntax {
		if HasGoBuildConvargs(file) {
			files = append(files, file)
		}
	}
	return files
}

// ParseFuncs collects annotated functions in the file. Functions with any
// malformed directive are excluded from the result and reported by the joined
// error.
func (p *Parser) ParseFuncs(file *ast.File) ([]*Func, error) {
	var funcs []*Func
	var errs error

	for _, decl := range file.Decls {
		decl, ok := decl.(*ast.FuncDecl)
		if !ok || decl.Doc == nil {
			continue
		}

		fn, err := p.parseFunc(decl)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		if fn != nil {
			funcs = append(funcs, fn)
		}
	}
	return funcs, errs
}

// parseFunc parses directives in the doc comment of the function declaration.
// It returns nil if there is no directive.
func (p *Parser) parseFunc(decl *ast.FuncDecl) (*Func, error) {
	fn := &Func{Decl: decl, Directives: NewDirectiveSet()}
	var errs error

	for _, c := range decl.Doc.List {
		verb, payload, pos, ok := SplitDirective(c)
		if !ok {
			continue
		}
		fn.Comments = append(fn.Comments, c)

		switch verb {
		case VerbConvert:
			errs = errors.Join(errs, fn.Directives.Parse(p, pos, payload))

		case VerbErrWrap:
			errs = errors.Join(errs, p.parseErrWrap(fn, pos, payload))

		default:
			errs = errors.Join(errs, codefmt.KindErrorf(p, ErrSyntax, c, "unknown directive %s%s", DirectivePrefix, verb))
		}
	}

	if len(fn.Comments) == 0 {
		return nil, nil
	}
	if decl.Body == nil {
		errs = errors.Join(errs, codefmt.KindErrorf(p, ErrMisplaced, decl.Name, "cannot convert arguments of %f without body", decl))
	}
	if errs != nil {
		return nil, errs
	}
	return fn, nil
}

// parseErrWrap parses an error wrapper expression. Only one error wrapper is
// allowed for each function.
func (p *Parser) parseErrWrap(fn *Func, pos token.Pos, payload string) error {
	if fn.ErrWrap != nil {
		return codefmt.KindErrorf(p, ErrSyntax, codefmt.Pos(pos), "duplicate %s%s directive", DirectivePrefix, VerbErrWrap)
	}

	src := strings.TrimSpace(payload)
	if src == "" {
		return codefmt.KindErrorf(p, ErrSyntax, codefmt.Pos(pos), "%s%s needs an error wrapper function", DirectivePrefix, VerbErrWrap)
	}
	pos += token.Pos(strings.Index(payload, src))

	expr, err := codefmt.ParseExpr(src)
	if err != nil {
		return codefmt.KindErrorf(p, ErrSyntax, codefmt.Pos(pos), "invalid error wrapper %s", src)
	}
	switch expr.(type) {
	case *ast.Ident, *ast.SelectorExpr, *ast.FuncLit, *ast.CallExpr, *ast.IndexExpr, *ast.IndexListExpr, *ast.ParenExpr:
		// Function values
	default:
		return codefmt.KindErrorf(p, ErrSyntax, codefmt.Pos(pos), "cannot use %s as error wrapper", src)
	}

	codefmt.SetPos(expr, pos)
	fn.ErrWrap = expr
	return nil
}

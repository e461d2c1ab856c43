package parse

import (
	"errors"
	"go/ast"

	"github.com/sublee/convargs/internal/codefmt"
)

// Validate checks for directives outside expected places. It collects all
// errors instead of stopping at the first error.
//
// [Parser.ParseFuncs] only looks at function doc comments in files with the
// convargs constraint. Directives anywhere else would be silently ignored, so
// they are reported here.
func (p *Parser) Validate() error {
	var errs error
	for _, file := range p.Pkg().Syntax {
		errs = errors.Join(errs, p.validateFile(file))
	}
	return errs
}

func (p *Parser) validateFile(file *ast.File) error {
	// Directive comments in function doc comments
	docs := make(map[*ast.Comment]struct{})
	for _, decl := range file.Decls {
		if decl, ok := decl.(*ast.FuncDecl); ok && decl.Doc != nil {
			for _, c := range decl.Doc.List {
				docs[c] = struct{}{}
			}
		}
	}

	var errs error
	var first *ast.Comment
	for _, group := range file.Comments {
		for _, c := range group.List {
			if _, _, _, ok := SplitDirective(c); !ok {
				continue
			}
			if first == nil {
				first = c
			}

			if _, ok := docs[c]; !ok {
				err := codefmt.KindErrorf(p, ErrMisplaced, c, "directive must be in a function doc comment")
				errs = errors.Join(errs, err)
			}
		}
	}

	if first != nil && !HasGoBuildConvargs(file) {
		err := codefmt.KindErrorf(p, ErrMisplaced, first, `file must have "//go:build %s" constraint to use directives`, Tag)
		errs = errors.Join(errs, err)
	}
	return errs
}

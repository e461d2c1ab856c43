// Package convargsanalysis reports misuse of convargs directives as analysis
// diagnostics, so editors and linters show them before generation.
package convargsanalysis

import (
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/packages"

	"github.com/sublee/convargs/internal/codefmt"
	convargsinternal "github.com/sublee/convargs/internal/convargs"
)

// Analyzer validates convargs directives in the package. It reports what the
// generator would fail on without generating anything.
var Analyzer = &analysis.Analyzer{
	Name: "convargs",
	Doc:  "linter for convargs directives",
	Run:  run,
}

func run(pass *analysis.Pass) (any, error) {
	pkg := &packages.Package{
		Name:    pass.Pkg.Name(),
		PkgPath: pass.Pkg.Path(),
		Fset:    pass.Fset,
		Syntax:  pass.Files,
	}

	ca, err := convargsinternal.New(pkg)
	if err != nil {
		return nil, err
	}

	if err := ca.Build(); err != nil {
		// Unroll all errors and report them
		errs := []error{err}
		for len(errs) != 0 {
			err := errs[0]
			errs = errs[1:]

			if codeErr, ok := err.(*codefmt.CodeError); ok {
				pass.Report(analysis.Diagnostic{
					Pos:     codeErr.Pos(),
					End:     codeErr.End(),
					Message: codeErr.Unwrap().Error(),
				})
				continue
			}

			if u, ok := err.(interface{ Unwrap() []error }); ok {
				errs = append(errs, u.Unwrap()...)
			}
		}
	}

	return nil, nil
}

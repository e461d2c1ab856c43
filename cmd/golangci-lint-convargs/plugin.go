// golangcilintconvargs package provides a plugin for golangci-lint to
// integrate the convargs analyzer. To build a custom golangci-lint binary with
// this plugin, use the following command at this package's directory:
//
//	golangci-lint custom
//
// The resulting golangci-lint-convargs binary reports malformed or unmatched
// convargs directives along with the other linters.
package golangcilintconvargs

import (
	"github.com/golangci/plugin-module-register/register"
	"golang.org/x/tools/go/analysis"

	"github.com/sublee/convargs/pkg/convargsanalysis"
)

func init() {
	register.Plugin("convargs", New)
}

func New(settings any) (register.LinterPlugin, error) {
	return ConvargsLinter{}, nil
}

type ConvargsLinter struct{}

func (ConvargsLinter) BuildAnalyzers() ([]*analysis.Analyzer, error) {
	return []*analysis.Analyzer{convargsanalysis.Analyzer}, nil
}

// GetLoadMode asks for syntax only. Directives never need type information.
func (ConvargsLinter) GetLoadMode() string {
	return register.LoadModeSyntax
}

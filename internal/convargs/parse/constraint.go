package parse

import (
	"go/ast"
	"go/build/constraint"
)

// Tag is the build tag which marks source files with convargs directives.
const Tag = "convargs"

// GoBuild returns the "//go:build" comment of the file and its expression.
func GoBuild(file *ast.File) (*ast.Comment, constraint.Expr, bool) {
	for _, group := range file.Comments {
		if group.Pos() > file.Package {
			// Build constraints must appear before the package clause.
			break
		}
		for _, comment := range group.List {
			if !constraint.IsGoBuild(comment.Text) {
				continue
			}
			expr, err := constraint.Parse(comment.Text)
			if err != nil {
				continue
			}
			return comment, expr, true
		}
	}
	return nil, nil, false
}

// HasGoBuildConvargs checks if the file has a "//go:build convargs"
// constraint. The tag must appear without negation, e.g., "convargs && linux"
// counts but "!convargs" does not.
func HasGoBuildConvargs(file *ast.File) bool {
	_, expr, ok := GoBuild(file)
	if !ok {
		return false
	}
	return hasPositiveTag(expr, Tag, false)
}

func hasPositiveTag(expr constraint.Expr, tag string, negated bool) bool {
	switch expr := expr.(type) {
	case *constraint.TagExpr:
		return !negated && expr.Tag == tag
	case *constraint.NotExpr:
		return hasPositiveTag(expr.X, tag, !negated)
	case *constraint.AndExpr:
		return hasPositiveTag(expr.X, tag, negated) || hasPositiveTag(expr.Y, tag, negated)
	case *constraint.OrExpr:
		return hasPositiveTag(expr.X, tag, negated) || hasPositiveTag(expr.Y, tag, negated)
	}
	return false
}

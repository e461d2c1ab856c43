package rewrite

import (
	"go/ast"
	"go/token"

	"github.com/sublee/convargs/internal/codefmt"
)

// tryFrom is the runtime function which converts an argument back into its
// original type.
const tryFrom = "TryFrom"

// prologue synthesizes the statements which recover an argument in its
// original type:
//
//	var name Orig
//	if err := rt.TryFrom[Subst](&name, arg); err != nil {
//		return *new(R0), ..., errWrap(err)
//	}
type prologue struct {
	rt      string   // local name of the runtime package
	name    string   // original parameter name
	arg     string   // renamed parameter name
	orig    ast.Expr // original parameter type, owned by the prologue
	subst   ast.Expr // substitute type, cloned before use
	results *ast.FieldList
	errWrap ast.Expr // optional, cloned before use
	useNew  bool     // whether the builtin new is available for zero values
}

// stmts returns the statements of the prologue. All positions are set to pos
// so the printer keeps each statement compact.
func (p prologue) stmts(pos token.Pos) []ast.Stmt {
	zeros := p.zeroResults(pos)
	err := p.errName(zeros)

	call := &ast.CallExpr{
		Fun: &ast.IndexExpr{
			X:     &ast.SelectorExpr{X: ast.NewIdent(p.rt), Sel: ast.NewIdent(tryFrom)},
			Index: codefmt.Clone(p.subst, pos),
		},
		Args: []ast.Expr{
			&ast.UnaryExpr{Op: token.AND, X: ast.NewIdent(p.name)},
			ast.NewIdent(p.arg),
		},
	}

	var errExpr ast.Expr = ast.NewIdent(err)
	if p.errWrap != nil {
		errExpr = &ast.CallExpr{Fun: codefmt.Clone(p.errWrap, pos), Args: []ast.Expr{errExpr}}
	}

	stmts := []ast.Stmt{
		&ast.DeclStmt{Decl: &ast.GenDecl{
			Tok: token.VAR,
			Specs: []ast.Spec{&ast.ValueSpec{
				Names: []*ast.Ident{ast.NewIdent(p.name)},
				Type:  p.orig,
			}},
		}},
		&ast.IfStmt{
			Init: &ast.AssignStmt{
				Lhs: []ast.Expr{ast.NewIdent(err)},
				Tok: token.DEFINE,
				Rhs: []ast.Expr{call},
			},
			Cond: &ast.BinaryExpr{X: ast.NewIdent(err), Op: token.NEQ, Y: ast.NewIdent("nil")},
			Body: &ast.BlockStmt{List: []ast.Stmt{
				&ast.ReturnStmt{Results: append(zeros, errExpr)},
			}},
		},
	}

	for _, stmt := range stmts {
		codefmt.SetPos(stmt, pos)
	}
	return stmts
}

// errName chooses the name of the error variable. It is "err" unless another
// name referenced in the prologue is "err". The error result itself may be
// named "err" because it is never referenced.
func (p prologue) errName(zeros []ast.Expr) string {
	nodes := []ast.Node{
		ast.NewIdent(p.name),
		ast.NewIdent(p.arg),
		ast.NewIdent(p.rt),
		p.subst,
	}
	if p.errWrap != nil {
		nodes = append(nodes, p.errWrap)
	}
	for _, zero := range zeros {
		nodes = append(nodes, zero)
	}
	return codefmt.NewNS(nodes...).Name("err")
}

// zeroResults returns the values to return with an error, except the last
// result which is the error. Named results are returned as they are, so
// deferred functions can still observe them.
func (p prologue) zeroResults(pos token.Pos) []ast.Expr {
	n := p.results.NumFields()

	var exprs []ast.Expr
	i := 0
	for _, field := range p.results.List {
		for j := range max(len(field.Names), 1) {
			if i == n-1 {
				return exprs
			}
			i++

			if len(field.Names) != 0 && field.Names[j].Name != "_" {
				exprs = append(exprs, ast.NewIdent(field.Names[j].Name))
				continue
			}
			exprs = append(exprs, p.zero(codefmt.Clone(field.Type, pos)))
		}
	}
	return exprs
}

// zero returns the zero value expression of the type: *new(T). If the builtin
// new is not available, the runtime helper is used instead: rt.Zero[T]().
func (p prologue) zero(typ ast.Expr) ast.Expr {
	if p.useNew {
		return &ast.StarExpr{X: &ast.CallExpr{Fun: ast.NewIdent("new"), Args: []ast.Expr{typ}}}
	}
	return &ast.CallExpr{Fun: &ast.IndexExpr{
		X:     &ast.SelectorExpr{X: ast.NewIdent(p.rt), Sel: ast.NewIdent("Zero")},
		Index: typ,
	}}
}

// hasPrologue reports whether the statements start with prologues and one of
// them recovers the argument name.
func hasPrologue(stmts []ast.Stmt, name string) bool {
	for i := 0; i+1 < len(stmts); i += 2 {
		recovered, ok := prologueName(stmts[i], stmts[i+1])
		if !ok {
			return false
		}
		if recovered == name {
			return true
		}
	}
	return false
}

// prologueName returns the argument name recovered by the pair of statements
// if they form a prologue.
func prologueName(decl, cond ast.Stmt) (string, bool) {
	declStmt, ok := decl.(*ast.DeclStmt)
	if !ok {
		return "", false
	}
	gen, ok := declStmt.Decl.(*ast.GenDecl)
	if !ok || gen.Tok != token.VAR || len(gen.Specs) != 1 {
		return "", false
	}
	spec, ok := gen.Specs[0].(*ast.ValueSpec)
	if !ok || len(spec.Names) != 1 || len(spec.Values) != 0 {
		return "", false
	}
	name := spec.Names[0].Name

	ifStmt, ok := cond.(*ast.IfStmt)
	if !ok {
		return "", false
	}
	assign, ok := ifStmt.Init.(*ast.AssignStmt)
	if !ok || len(assign.Rhs) != 1 {
		return "", false
	}
	call, ok := assign.Rhs[0].(*ast.CallExpr)
	if !ok || len(call.Args) != 2 {
		return "", false
	}
	index, ok := call.Fun.(*ast.IndexExpr)
	if !ok {
		return "", false
	}
	sel, ok := index.X.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != tryFrom {
		return "", false
	}
	addr, ok := call.Args[0].(*ast.UnaryExpr)
	if !ok || addr.Op != token.AND {
		return "", false
	}
	if id, ok := addr.X.(*ast.Ident); !ok || id.Name != name {
		return "", false
	}
	return name, true
}

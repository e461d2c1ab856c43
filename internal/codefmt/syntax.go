package codefmt

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
)

// ParseExpr parses a fragment of Go source code into an expression. It is the
// only entry point to the Go grammar for code fragments which are not part of a
// parsed file, such as the payload of a directive comment.
func ParseExpr(src string) (ast.Expr, error) {
	return parser.ParseExpr(src)
}

// IsTypeExpr reports whether expr is syntactically a type expression. It
// cannot tell a type name from a value name, so identifiers and qualified
// identifiers are always accepted.
func IsTypeExpr(expr ast.Expr) bool {
	switch expr := expr.(type) {
	case *ast.Ident:
		return true
	case *ast.SelectorExpr:
		_, ok := expr.X.(*ast.Ident)
		return ok
	case *ast.ParenExpr:
		return IsTypeExpr(expr.X)
	case *ast.StarExpr:
		return IsTypeExpr(expr.X)
	case *ast.ArrayType:
		// [N]T, [...]T or []T. The length is a constant expression.
		return IsTypeExpr(expr.Elt)
	case *ast.MapType:
		return IsTypeExpr(expr.Key) && IsTypeExpr(expr.Value)
	case *ast.ChanType:
		return IsTypeExpr(expr.Value)
	case *ast.FuncType, *ast.InterfaceType, *ast.StructType:
		return true
	case *ast.IndexExpr:
		// Generic instantiation: T[A]
		return IsTypeExpr(expr.X) && IsTypeExpr(expr.Index)
	case *ast.IndexListExpr:
		// Generic instantiation: T[A, B]
		if !IsTypeExpr(expr.X) {
			return false
		}
		for _, index := range expr.Indices {
			if !IsTypeExpr(index) {
				return false
			}
		}
		return true
	}
	return false
}

// Clone returns a deep copy of expr by rendering it and parsing it back. All
// positions in the copy are set to pos, so the printer lays out the copy
// compactly at pos.
func Clone(expr ast.Expr, pos token.Pos) ast.Expr {
	src := New(nil).Expr(expr)
	clone, err := ParseExpr(src)
	if err != nil {
		panic(fmt.Sprintf("cannot reparse rendered expression %q: %v", src, err))
	}
	SetPos(clone, pos)
	return clone
}

var posType = reflect.TypeFor[token.Pos]()

// markers are position fields whose validity alone changes how the printer
// renders the node. They keep their zero value when unset.
var markers = map[reflect.Type][]string{
	reflect.TypeFor[ast.CallExpr](): {"Ellipsis"},
	reflect.TypeFor[ast.GenDecl]():  {"Lparen", "Rparen"},
	reflect.TypeFor[ast.TypeSpec](): {"Assign"},
}

// SetPos overwrites every position in the node tree with pos. Optional syntax
// markers such as the "..." of a call are moved only if they are already set.
func SetPos(node ast.Node, pos token.Pos) {
	ast.Inspect(node, func(node ast.Node) bool {
		if node == nil {
			return false
		}

		v := reflect.ValueOf(node)
		if v.Kind() != reflect.Pointer || v.IsNil() {
			return true
		}
		v = v.Elem()
		if v.Kind() != reflect.Struct {
			return true
		}

		for i := range v.NumField() {
			field := v.Field(i)
			if field.Type() != posType || !field.CanSet() {
				continue
			}
			if isMarker(v.Type(), v.Type().Field(i).Name) && !token.Pos(field.Int()).IsValid() {
				continue
			}
			field.SetInt(int64(pos))
		}
		return true
	})
}

func isMarker(typ reflect.Type, name string) bool {
	for _, marker := range markers[typ] {
		if marker == name {
			return true
		}
	}
	return false
}

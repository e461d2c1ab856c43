package parse_test

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"

	"github.com/sublee/convargs/internal/codefmt"
	"github.com/sublee/convargs/internal/convargs/parse"
)

// payloadAt returns a pkger and the position of a payload which starts at
// "test.go:1:21", right after "//convargs:convert ".
func payloadAt(t *testing.T) (codefmt.Pkger, token.Pos) {
	t.Helper()
	fset := token.NewFileSet()
	f := fset.AddFile("test.go", -1, 1000)
	return codefmt.Pkg(&packages.Package{Fset: fset}), f.Pos(20)
}

func parseDirectives(t *testing.T, payload string) (*parse.DirectiveSet, error) {
	t.Helper()
	pkger, pos := payloadAt(t)
	return parse.ParseDirectives(pkger, pos, payload)
}

// types renders the types of the directives in order.
func types(s *parse.DirectiveSet) []string {
	var types []string
	for d := range s.All() {
		types = append(types, codefmt.FormatExpr(nil, d.Type))
	}
	return types
}

func TestParseDirectivesSingle(t *testing.T) {
	s, err := parseDirectives(t, "v: Orig")
	require.NoError(t, err)
	assert.Equal(t, []string{"v"}, s.Names())
	assert.Equal(t, []string{"Orig"}, types(s))
}

func TestParseDirectivesOrder(t *testing.T) {
	s, err := parseDirectives(t, "z: Z, a: A, m: M")
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "m"}, s.Names())
	assert.Equal(t, []string{"Z", "A", "M"}, types(s))
}

func TestParseDirectivesEmpty(t *testing.T) {
	for _, payload := range []string{"", "   ", "// nothing"} {
		s, err := parseDirectives(t, payload)
		require.NoError(t, err, payload)
		assert.Equal(t, 0, s.Len(), payload)
	}
}

func TestParseDirectivesTrailingComma(t *testing.T) {
	s, err := parseDirectives(t, "a: A, b: B,")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, s.Names())
}

func TestParseDirectivesTrailingComment(t *testing.T) {
	s, err := parseDirectives(t, "a: A // from the wire")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, types(s))
}

func TestParseDirectivesCompositeTypes(t *testing.T) {
	s, err := parseDirectives(t, "a: map[string]int, b: func(int, string) (bool, error), c: Pair[int, string], d: *pkg.T, e: []chan<- int, f: struct{ x, y int }")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, s.Names())
	assert.Equal(t, []string{
		"map[string]int",
		"func(int, string) (bool, error)",
		"Pair[int, string]",
		"*pkg.T",
		"[]chan<- int",
		"struct{ x, y int }",
	}, types(s))
}

func TestParseDirectivesTypePosition(t *testing.T) {
	pkger, pos := payloadAt(t)
	s, err := parse.ParseDirectives(pkger, pos, "abc: pkg.Type")
	require.NoError(t, err)

	d, ok := s.Get("abc")
	require.True(t, ok)
	assert.Equal(t, pos, d.Name.Pos())
	assert.Equal(t, pos+5, d.Type.Pos())
}

func TestParseDirectivesMissingColon(t *testing.T) {
	_, err := parseDirectives(t, "a A")
	require.ErrorIs(t, err, parse.ErrSyntax)
	assert.Equal(t, "test.go:1:23: expected ':' after a, found A", err.Error())
}

func TestParseDirectivesMissingName(t *testing.T) {
	_, err := parseDirectives(t, ": A")
	require.ErrorIs(t, err, parse.ErrSyntax)
	assert.Equal(t, "test.go:1:21: expected argument name, found ':'", err.Error())

	_, err = parseDirectives(t, "a: A,, b: B")
	require.ErrorIs(t, err, parse.ErrSyntax)
	assert.Contains(t, err.Error(), "expected argument name")
}

func TestParseDirectivesMissingType(t *testing.T) {
	_, err := parseDirectives(t, "a:")
	require.ErrorIs(t, err, parse.ErrSyntax)
	assert.Equal(t, "test.go:1:22: expected type after a:", err.Error())

	_, err = parseDirectives(t, "a: , b: B")
	require.ErrorIs(t, err, parse.ErrSyntax)
	assert.Contains(t, err.Error(), "expected type after a:")
}

func TestParseDirectivesNotType(t *testing.T) {
	_, err := parseDirectives(t, "a: 1 + 2")
	require.ErrorIs(t, err, parse.ErrSyntax)
	assert.Contains(t, err.Error(), "1 + 2 is not a type")

	_, err = parseDirectives(t, "a: f()")
	require.ErrorIs(t, err, parse.ErrSyntax)
	assert.Contains(t, err.Error(), "f() is not a type")
}

func TestParseDirectivesNotTypeTrailingComment(t *testing.T) {
	_, err := parseDirectives(t, "a: 1 + 2 // note")
	require.ErrorIs(t, err, parse.ErrSyntax)
	assert.EqualError(t, err, "test.go:1:24: 1 + 2 is not a type")

	_, err = parseDirectives(t, "a: []int, b: f(x)  // note")
	require.ErrorIs(t, err, parse.ErrSyntax)
	assert.EqualError(t, err, "test.go:1:34: f(x) is not a type")
}

func TestParseDirectivesInvalidType(t *testing.T) {
	_, err := parseDirectives(t, "a: map[string]")
	require.ErrorIs(t, err, parse.ErrSyntax)
	assert.Contains(t, err.Error(), "invalid type map[string] for a")
}

func TestParseDirectivesUnbalanced(t *testing.T) {
	_, err := parseDirectives(t, "a: map[string, b: B")
	require.ErrorIs(t, err, parse.ErrSyntax)
	assert.Equal(t, "test.go:1:27: unbalanced '['", err.Error())

	_, err = parseDirectives(t, "a: A), b: B")
	require.ErrorIs(t, err, parse.ErrSyntax)
	assert.Equal(t, "test.go:1:25: unbalanced ')'", err.Error())

	_, err = parseDirectives(t, "a: func(]")
	require.ErrorIs(t, err, parse.ErrSyntax)
	assert.Contains(t, err.Error(), "unbalanced ']'")
}

func TestParseDirectivesSemicolon(t *testing.T) {
	_, err := parseDirectives(t, "a: A; b: B")
	require.ErrorIs(t, err, parse.ErrSyntax)
	assert.Contains(t, err.Error(), "unexpected ';' in type of a")
}

func TestParseDirectivesDuplicate(t *testing.T) {
	_, err := parseDirectives(t, "a: A, b: B, a: C")
	require.ErrorIs(t, err, parse.ErrDuplicateArgument)
	assert.NotErrorIs(t, err, parse.ErrSyntax)
	assert.Equal(t, "test.go:1:33: duplicate argument a", err.Error())
}

func TestDirectiveSetParseAppends(t *testing.T) {
	pkger, pos := payloadAt(t)
	s := parse.NewDirectiveSet()
	require.NoError(t, s.Parse(pkger, pos, "a: A"))
	require.NoError(t, s.Parse(pkger, pos, "b: B,"))
	assert.Equal(t, []string{"a", "b"}, s.Names())

	err := s.Parse(pkger, pos, "c: C, a: A")
	require.ErrorIs(t, err, parse.ErrDuplicateArgument)
	assert.Equal(t, []string{"a", "b", "c"}, s.Names())
}

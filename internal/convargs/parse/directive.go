package parse

import (
	"errors"
	"go/ast"
	"go/scanner"
	"go/token"
	"iter"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/sublee/convargs/internal/codefmt"
)

var (
	// ErrSyntax is the kind of errors for malformed directives.
	ErrSyntax = errors.New("syntax error")

	// ErrDuplicateArgument is the kind of errors for an argument converted
	// more than once by the same function.
	ErrDuplicateArgument = errors.New("duplicate argument")

	// ErrMisplaced is the kind of errors for directives at unexpected places.
	ErrMisplaced = errors.New("misplaced directive")
)

// Directive is a rewrite instruction which replaces the type of the parameter
// Name with Type.
type Directive struct {
	// Name is the parameter name. Its position points into the directive
	// comment.
	Name *ast.Ident

	// Type is the substitute type. It is copied whenever it is installed, so
	// the directive can be reused.
	Type ast.Expr
}

func (d Directive) Pos() token.Pos { return d.Name.Pos() }
func (d Directive) End() token.Pos { return d.Name.End() }

// DirectiveSet is an ordered collection of directives keyed by the argument
// name. The order is the order of appearance in the source code.
type DirectiveSet struct {
	m *linkedhashmap.Map // key: string, value: Directive
}

// NewDirectiveSet creates an empty [DirectiveSet].
func NewDirectiveSet() *DirectiveSet {
	return &DirectiveSet{m: linkedhashmap.New()}
}

// Len returns the number of directives.
func (s *DirectiveSet) Len() int { return s.m.Size() }

// Get returns the directive for the argument name.
func (s *DirectiveSet) Get(name string) (Directive, bool) {
	v, ok := s.m.Get(name)
	if !ok {
		return Directive{}, false
	}
	return v.(Directive), true
}

// Add appends the directive. It returns false without modifying the set if the
// argument name is already taken.
func (s *DirectiveSet) Add(d Directive) bool {
	if _, ok := s.m.Get(d.Name.Name); ok {
		return false
	}
	s.m.Put(d.Name.Name, d)
	return true
}

// All iterates over the directives in order.
func (s *DirectiveSet) All() iter.Seq[Directive] {
	return func(yield func(Directive) bool) {
		for it := s.m.Iterator(); it.Next(); {
			if !yield(it.Value().(Directive)) {
				return
			}
		}
	}
}

// Names returns the argument names in order.
func (s *DirectiveSet) Names() []string {
	names := make([]string, 0, s.Len())
	for d := range s.All() {
		names = append(names, d.Name.Name)
	}
	return names
}

// ParseDirectives parses a directive payload into a new [DirectiveSet]. See
// [DirectiveSet.Parse] for the grammar.
func ParseDirectives(pkger codefmt.Pkger, pos token.Pos, payload string) (*DirectiveSet, error) {
	s := NewDirectiveSet()
	if err := s.Parse(pkger, pos, payload); err != nil {
		return nil, err
	}
	return s, nil
}

// Parse parses a comma-separated list of "name: Type" items and appends them
// to the set. A trailing comma is allowed and an empty payload adds nothing.
// pos is the position of the payload in the source code, used to report
// errors.
//
//	payload = [ item { "," item } [ "," ] ]
//	item    = identifier ":" Type
//
// Parse stops at the first error. Items parsed before the error remain in the
// set.
func (s *DirectiveSet) Parse(pkger codefmt.Pkger, pos token.Pos, payload string) error {
	sc := directiveScanner{pkger: pkger, pos: pos, src: payload}
	sc.init()

	sc.next()
	for !sc.atEnd() {
		if sc.err != nil {
			return sc.err
		}

		// Argument name
		if sc.tok != token.IDENT {
			return sc.errorf(sc.off, "expected argument name, found %s", sc.found())
		}
		name := &ast.Ident{NamePos: sc.posAt(sc.off), Name: sc.lit}

		// ":"
		sc.next()
		if sc.err != nil {
			return sc.err
		}
		if sc.tok != token.COLON {
			return sc.errorf(sc.off, "expected ':' after %s, found %s", name.Name, sc.found())
		}
		colon := sc.off

		// Type
		typ, err := sc.scanType(name, colon)
		if err != nil {
			return err
		}

		d := Directive{Name: name, Type: typ}
		if !s.Add(d) {
			return codefmt.KindErrorf(pkger, ErrDuplicateArgument, d, "duplicate argument %s", name.Name)
		}

		// "," or end
		if sc.tok == token.COMMA {
			sc.next()
		}
	}
	return sc.err
}

// directiveScanner tokenizes a directive payload with the Go scanner.
type directiveScanner struct {
	pkger codefmt.Pkger
	pos   token.Pos
	src   string

	s    scanner.Scanner
	file *token.File
	err  error

	off int
	tok token.Token
	lit string
}

func (sc *directiveScanner) init() {
	fset := token.NewFileSet()
	sc.file = fset.AddFile("", fset.Base(), len(sc.src))
	sc.s.Init(sc.file, []byte(sc.src), func(p token.Position, msg string) {
		if sc.err == nil {
			sc.err = sc.errorf(p.Offset, "%s", msg)
		}
	}, 0)
}

func (sc *directiveScanner) next() {
	p, tok, lit := sc.s.Scan()
	sc.off, sc.tok, sc.lit = sc.file.Offset(p), tok, lit
}

// atEnd reports whether the payload is consumed. The scanner inserts a
// semicolon before a trailing comment or at the end of input.
func (sc *directiveScanner) atEnd() bool {
	return sc.tok == token.EOF || sc.tok == token.SEMICOLON && sc.lit == "\n"
}

func (sc *directiveScanner) posAt(off int) token.Pos {
	return sc.pos + token.Pos(off)
}

func (sc *directiveScanner) found() string {
	switch {
	case sc.atEnd():
		return "end of directive"
	case sc.lit != "":
		return sc.lit
	default:
		return "'" + sc.tok.String() + "'"
	}
}

func (sc *directiveScanner) errorf(off int, format string, args ...any) error {
	return codefmt.KindErrorf(sc.pkger, ErrSyntax, codefmt.Pos(sc.posAt(off)), format, args...)
}

var closing = map[token.Token]token.Token{
	token.LPAREN: token.RPAREN,
	token.LBRACK: token.RBRACK,
	token.LBRACE: token.RBRACE,
}

// scanType consumes tokens up to the next top-level comma or the end, and
// parses them as a type expression.
func (sc *directiveScanner) scanType(name *ast.Ident, colon int) (ast.Expr, error) {
	start, end := -1, -1
	var stack []int // offsets of unclosed delimiters

	sc.next()
	for !sc.atEnd() && (sc.tok != token.COMMA || len(stack) != 0) {
		if sc.err != nil {
			return nil, sc.err
		}
		if start < 0 {
			start = sc.off
		}

		switch sc.tok {
		case token.LPAREN, token.LBRACK, token.LBRACE:
			stack = append(stack, sc.off)
		case token.RPAREN, token.RBRACK, token.RBRACE:
			if len(stack) == 0 || closing[sc.tokenAt(stack[len(stack)-1])] != sc.tok {
				return nil, sc.errorf(sc.off, "unbalanced '%s'", sc.tok)
			}
			stack = stack[:len(stack)-1]
		case token.SEMICOLON:
			if len(stack) == 0 {
				return nil, sc.errorf(sc.off, "unexpected ';' in type of %s", name.Name)
			}
		}
		end = sc.off + len(sc.text())
		sc.next()
	}
	if sc.err != nil {
		return nil, sc.err
	}
	if len(stack) != 0 {
		open := stack[len(stack)-1]
		return nil, sc.errorf(open, "unbalanced '%s'", sc.tokenAt(open))
	}
	if start < 0 {
		return nil, sc.errorf(colon, "expected type after %s:", name.Name)
	}

	src := sc.src[start:end]
	typ, err := codefmt.ParseExpr(src)
	if err != nil {
		msg := err.Error()
		if list, ok := err.(scanner.ErrorList); ok && len(list) != 0 {
			msg = list[0].Msg
		}
		return nil, sc.errorf(start, "invalid type %s for %s: %s", src, name.Name, msg)
	}
	if !codefmt.IsTypeExpr(typ) {
		return nil, sc.errorf(start, "%s is not a type", src)
	}

	codefmt.SetPos(typ, sc.posAt(start))
	return typ, nil
}

// text returns the source text of the current token.
func (sc *directiveScanner) text() string {
	if sc.lit != "" {
		return sc.lit
	}
	return sc.tok.String()
}

// tokenAt returns the delimiter token at the offset.
func (sc *directiveScanner) tokenAt(off int) token.Token {
	switch sc.src[off] {
	case '(':
		return token.LPAREN
	case '[':
		return token.LBRACK
	case '{':
		return token.LBRACE
	}
	return token.ILLEGAL
}

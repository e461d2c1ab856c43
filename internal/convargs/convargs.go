package convargsinternal

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/build/constraint"
	"go/format"
	"go/token"
	"maps"
	"path/filepath"
	"slices"
	"strconv"

	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/go/packages"

	"github.com/sublee/convargs/internal/codefmt"
	"github.com/sublee/convargs/internal/convargs/parse"
	"github.com/sublee/convargs/internal/convargs/rewrite"
)

// Version is stamped into the header of generated files.
var Version string

// Convargs rewrites annotated functions in the target package. Call [Build]
// and then [Generate] to get the generated code. All potential errors are
// returned by [Build]. Once [Build] succeeds, [Generate] never fails.
type Convargs struct {
	p     *parse.Parser
	ns    codefmt.NS // package-level names
	files []*file
}

// file is a source file with the convargs constraint.
type file struct {
	syntax *ast.File
	ns     codefmt.NS // names visible in the file
	funcs  []*parse.Func
	plans  []*rewrite.Plan
}

// New creates a new [Convargs] for the given package. The package must have
// its Name, Fset and Syntax. Type information is not required.
func New(pkg *packages.Package) (*Convargs, error) {
	parser, err := parse.New(pkg)
	if err != nil {
		return nil, err
	}
	return &Convargs{p: parser, ns: packageNS(pkg.Syntax)}, nil
}

// packageNS reserves the names declared at the package level in any file.
func packageNS(files []*ast.File) codefmt.NS {
	ns := make(codefmt.NS)
	for _, file := range files {
		for _, decl := range file.Decls {
			switch decl := decl.(type) {
			case *ast.FuncDecl:
				if decl.Recv == nil {
					ns.Reserve(decl.Name.Name)
				}
			case *ast.GenDecl:
				for _, spec := range decl.Specs {
					switch spec := spec.(type) {
					case *ast.TypeSpec:
						ns.Reserve(spec.Name.Name)
					case *ast.ValueSpec:
						for _, name := range spec.Names {
							ns.Reserve(name.Name)
						}
					}
				}
			}
		}
	}
	return ns
}

// Build parses directives and plans rewrites of all annotated functions. All
// potential errors are returned by this method. It must be called before
// [Generate].
func (ca *Convargs) Build() error {
	errs := ca.p.Validate()

	for _, syntax := range ca.p.ConvargsGoFiles() {
		f := &file{syntax: syntax, ns: maps.Clone(ca.ns)}
		for name := range codefmt.NewNS(syntax) {
			f.ns.Reserve(name)
		}

		funcs, err := ca.p.ParseFuncs(syntax)
		errs = errors.Join(errs, err)

		for _, fn := range funcs {
			plan, err := rewrite.Prepare(ca.p, fn, maps.Clone(f.ns))
			if err != nil {
				errs = errors.Join(errs, err)
				continue
			}
			f.funcs = append(f.funcs, fn)
			f.plans = append(f.plans, plan)
		}

		ca.files = append(ca.files, f)
	}

	if errs != nil {
		ca.files = nil
		return errs
	}
	return nil
}

// Funcs returns the annotated functions found by [Build].
func (ca *Convargs) Funcs() []*parse.Func {
	var funcs []*parse.Func
	for _, f := range ca.files {
		funcs = append(funcs, f.funcs...)
	}
	return funcs
}

// Generate rewrites the files with the convargs constraint. It returns the
// generated code by the path of the source file. Every file with the
// constraint has its output even without annotated functions, because the
// source file is excluded from normal builds. It must be called after [Build]
// succeeds.
//
// Generate modifies the syntax of the package.
func (ca *Convargs) Generate() map[string][]byte {
	outs := make(map[string][]byte)
	fset := ca.p.Pkg().Fset
	for _, f := range ca.files {
		path := fset.File(f.syntax.Pos()).Name()
		outs[path] = ca.generateFile(f)
	}
	return outs
}

func (ca *Convargs) generateFile(f *file) []byte {
	fset := ca.p.Pkg().Fset

	if slices.ContainsFunc(f.plans, func(plan *rewrite.Plan) bool { return plan.Len() != 0 }) {
		rt := ca.importRuntime(f)
		for _, plan := range f.plans {
			plan.Apply(rt)
		}
	}

	_, expr, _ := parse.GoBuild(f.syntax)
	eraseComments(f)

	var body bytes.Buffer
	if err := format.Node(&body, fset, f.syntax); err != nil {
		panic(err) // should never happen because the syntax came from the parser
	}

	versionSuffix := ""
	if Version != "" {
		versionSuffix = "@" + Version
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "//go:build %s\n\n", OutputConstraint(expr))
	fmt.Fprintf(&buf, "// Code generated by %s%s. DO NOT EDIT.\n\n", parse.ImportPath, versionSuffix)
	buf.Write(body.Bytes())
	code := buf.Bytes()

	// Apply gofmt if succeeded
	if fmtCode, err := format.Source(code); err == nil {
		code = fmtCode
	}
	return code
}

// importRuntime returns the local name of the runtime package in the file. It
// reuses an existing import unless an annotated function's signature shadows
// its name. Otherwise it adds one.
func (ca *Convargs) importRuntime(f *file) string {
	for _, imp := range f.syntax.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil || !parse.IsConvargsImport(path) {
			continue
		}

		name := filepath.Base(parse.ImportPath)
		if imp.Name != nil {
			name = imp.Name.Name
		}
		if name != "_" && name != "." && !shadowed(f, name) {
			return name
		}
	}

	fset := ca.p.Pkg().Fset
	name := f.ns.Name(filepath.Base(parse.ImportPath))
	if name == filepath.Base(parse.ImportPath) {
		astutil.AddImport(fset, f.syntax, parse.ImportPath)
	} else {
		astutil.AddNamedImport(fset, f.syntax, name, parse.ImportPath)
	}
	return name
}

// shadowed reports whether an annotated function declares name in its
// signature. Prologues cannot refer to a package by such a name.
func shadowed(f *file, name string) bool {
	for _, plan := range f.plans {
		decl := plan.Func().Decl
		for _, list := range []*ast.FieldList{decl.Recv, decl.Type.TypeParams, decl.Type.Params, decl.Type.Results} {
			if list == nil {
				continue
			}
			for _, field := range list.List {
				for _, id := range field.Names {
					if id.Name == name {
						return true
					}
				}
			}
		}
	}
	return false
}

// eraseComments removes build constraints and convargs directives so the
// output is neither constrained by the convargs tag nor processed again.
func eraseComments(f *file) {
	erase := make(map[*ast.Comment]bool)
	for _, fn := range f.funcs {
		for _, c := range fn.Comments {
			erase[c] = true
		}
	}

	var groups []*ast.CommentGroup
	for _, group := range f.syntax.Comments {
		kept := slices.DeleteFunc(slices.Clone(group.List), func(c *ast.Comment) bool {
			if erase[c] {
				return true
			}
			return c.Pos() < f.syntax.Package && (constraint.IsGoBuild(c.Text) || constraint.IsPlusBuild(c.Text))
		})
		if len(kept) == len(group.List) {
			groups = append(groups, group)
			continue
		}

		// Drop blank lines which separated the erased comments.
		for len(kept) != 0 && kept[len(kept)-1].Text == "//" {
			kept = kept[:len(kept)-1]
		}
		if len(kept) == 0 {
			continue
		}

		// The printer keeps blank lines from the source. Move the remaining
		// comments down to the last lines of the group so a doc comment stays
		// attached to its declaration.
		slots := make([]token.Pos, len(kept))
		for i := range kept {
			slots[i] = group.List[len(group.List)-len(kept)+i].Slash
		}
		for i, c := range kept {
			c.Slash = slots[i]
		}

		group.List = kept
		groups = append(groups, group)
	}
	f.syntax.Comments = groups

	// Doc comments share the groups.
	for _, fn := range f.funcs {
		if fn.Decl.Doc != nil && len(fn.Decl.Doc.List) == 0 {
			fn.Decl.Doc = nil
		}
	}
	if f.syntax.Doc != nil && len(f.syntax.Doc.List) == 0 {
		f.syntax.Doc = nil
	}
}

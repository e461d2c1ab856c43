package convargsinternal

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/tools/go/packages"

	"github.com/sublee/convargs/internal/codefmt"
	"github.com/sublee/convargs/internal/convargs/parse"
)

// DefaultSuffix is inserted into the names of generated files.
const DefaultSuffix = "_convargs"

// Main is the main entry point for convargs. It is used by the command-line
// tool directly.
//
// ctx is the context for loading packages and carries the logger. wd is the
// path of the working directory. env is the environment variables to use when
// loading packages. tags is the extra build tags to use when loading packages.
// tests indicates whether to include test files. suffix is inserted into the
// name of each generated file. And patterns are the package patterns to
// process.
//
// It returns a map of output file paths, relative to wd, to their contents. If
// any error occurs, it returns a non-nil error and no output.
func Main(ctx context.Context, wd string, env []string, tags string, tests bool, suffix string, patterns []string) (map[string][]byte, error) {
	log := zerolog.Ctx(ctx)
	if suffix == "" {
		suffix = DefaultSuffix
	}

	pkgs, err := load(ctx, wd, env, tags, tests, patterns)
	if err != nil {
		return nil, err
	}

	outs := make(map[string][]byte)
	var errs error

	for _, pkg := range pkgs {
		if len(pkg.Errors) != 0 {
			err := fmt.Errorf("pkg %q has errors", pkg.Name)
			errs = errors.Join(errs, err)
			continue
		}
		log.Debug().Str("pkg", pkg.ID).Int("files", len(pkg.Syntax)).Msg("loaded package")

		ca, err := New(pkg)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}

		if err := ca.Build(); err != nil {
			errs = errors.Join(errs, err)
			continue
		}

		for _, fn := range ca.Funcs() {
			log.Debug().
				Str("func", codefmt.FormatFuncName(codefmt.Pkg(pkg), fn.Decl)).
				Strs("args", fn.Directives.Names()).
				Str("pos", codefmt.FormatPos(codefmt.Pkg(pkg), fn.Pos())).
				Msg("rewriting function")
		}

		for src, code := range ca.Generate() {
			out := filepath.Join(filepath.Dir(src), OutputName(filepath.Base(src), suffix))
			if rel, err := filepath.Rel(wd, out); err == nil {
				out = rel
			}

			// A package and its test variant share non-test files.
			if _, ok := outs[out]; ok {
				continue
			}
			outs[out] = code
			log.Debug().Str("file", out).Msg("generated file")
		}
	}
	if errs != nil {
		// errs already contains comprehensive error messages. So we don't need
		// to attach another error message.
		return nil, reorderErrors(errs)
	}

	return outs, nil
}

// load loads packages with syntax only. Directives are recognized from the
// syntax, so neither types nor dependencies are loaded.
func load(ctx context.Context, wd string, env []string, tags string, tests bool, patterns []string) ([]*packages.Package, error) {
	cfg := &packages.Config{
		Mode:       packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
		Context:    ctx,
		Dir:        wd,
		Env:        env,
		BuildFlags: []string{"-tags=" + parse.Tag},
		Tests:      tests,
		Logf: func(format string, args ...any) {
			zerolog.Ctx(ctx).Trace().Msgf(format, args...)
		},
	}
	if tags != "" {
		cfg.BuildFlags[0] += "," + tags
	}

	// Load the packages based on the provided patterns.
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found: %v", patterns)
	}

	// Check for errors in the loaded packages.
	var errs error
	for _, pkg := range pkgs {
		for _, err := range pkg.Errors {
			if err.Pos == "" {
				errs = errors.Join(errs, errors.New(err.Msg))
				continue
			}

			path, rowcol, _ := strings.Cut(err.Pos, ":")
			if rel, relErr := filepath.Rel(wd, path); relErr == nil {
				err.Pos = rel + ":" + rowcol
			}
			errs = errors.Join(errs, err)
		}
	}
	if errs != nil {
		return nil, reorderErrors(errs)
	}

	return pkgs, nil
}

// reorderErrors flattens joined errors, removes duplicates and sorts them by
// message.
func reorderErrors(errs error) error {
	if errs == nil {
		return nil
	}

	// Flatten nested errors
	list := []error{errs}
	for i := 0; i < len(list); i++ {
		if u, ok := list[i].(interface{ Unwrap() []error }); ok {
			// errors.Join collapses errors with a single error having Unwrap()
			// []error method. The underlying errors could be retrieved using
			// the Unwrap() method.
			list = append(list, u.Unwrap()...)

			// The underlying errors are appended to the list. So the original
			// error can be removed.
			list[i] = nil
			continue
		}
	}
	list = slices.DeleteFunc(list, func(err error) bool {
		return err == nil
	})

	// Sort errors by message
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Error() < list[j].Error()
	})

	// A package and its test variant report the same errors.
	list = slices.CompactFunc(list, func(a, b error) bool {
		return a.Error() == b.Error()
	})
	return errors.Join(list...)
}

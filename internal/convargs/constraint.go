package convargsinternal

import (
	"go/build/constraint"
	"strings"

	"github.com/sublee/convargs/internal/convargs/parse"
)

// OutputConstraint returns the build expression for a file generated from a
// file constrained by expr. The output is built only without the convargs tag,
// under the rest of the original constraint:
//
//	convargs           => !convargs
//	convargs && linux  => !convargs && linux
//	convargs || debug  => !convargs
func OutputConstraint(expr constraint.Expr) constraint.Expr {
	var out constraint.Expr = &constraint.NotExpr{X: &constraint.TagExpr{Tag: parse.Tag}}
	if expr == nil {
		return out
	}
	if rest, _ := assume(expr, parse.Tag); rest != nil {
		out = &constraint.AndExpr{X: out, Y: rest}
	}
	return out
}

// assume partially evaluates expr with tag satisfied. If the result does not
// depend on other tags, it returns nil and the constant value.
func assume(expr constraint.Expr, tag string) (constraint.Expr, bool) {
	switch expr := expr.(type) {
	case *constraint.TagExpr:
		if expr.Tag == tag {
			return nil, true
		}
		return expr, false

	case *constraint.NotExpr:
		x, v := assume(expr.X, tag)
		if x == nil {
			return nil, !v
		}
		return &constraint.NotExpr{X: x}, false

	case *constraint.AndExpr:
		x, xv := assume(expr.X, tag)
		y, yv := assume(expr.Y, tag)
		switch {
		case x == nil && !xv, y == nil && !yv:
			return nil, false
		case x == nil:
			return y, yv
		case y == nil:
			return x, xv
		}
		return &constraint.AndExpr{X: x, Y: y}, false

	case *constraint.OrExpr:
		x, xv := assume(expr.X, tag)
		y, yv := assume(expr.Y, tag)
		switch {
		case x == nil && xv, y == nil && yv:
			return nil, true
		case x == nil:
			return y, yv
		case y == nil:
			return x, xv
		}
		return &constraint.OrExpr{X: x, Y: y}, false
	}
	return expr, false
}

// OutputName returns the name of the file generated from the source file name.
// The suffix is inserted before "_test" and before GOOS and GOARCH elements,
// so the implicit constraints of the name survive:
//
//	user.go              => user_convargs.go
//	user_test.go         => user_convargs_test.go
//	user_linux_amd64.go  => user_convargs_linux_amd64.go
func OutputName(name, suffix string) string {
	base := strings.TrimSuffix(name, ".go")

	var tail string
	if b, ok := strings.CutSuffix(base, "_test"); ok {
		base, tail = b, "_test"
	}

	// The first element never counts as GOOS or GOARCH.
	elems := strings.Split(base, "_")
	n := len(elems)
	switch {
	case n >= 3 && knownOS[elems[n-2]] && knownArch[elems[n-1]]:
		n -= 2
	case n >= 2 && (knownOS[elems[n-1]] || knownArch[elems[n-1]]):
		n--
	}
	if n != len(elems) {
		tail = "_" + strings.Join(elems[n:], "_") + tail
		base = strings.Join(elems[:n], "_")
	}

	return base + suffix + tail + ".go"
}

// knownOS and knownArch are the GOOS and GOARCH values recognized in file
// names by the go command.
var (
	knownOS = setOf(
		"aix", "android", "darwin", "dragonfly", "freebsd", "hurd", "illumos",
		"ios", "js", "linux", "nacl", "netbsd", "openbsd", "plan9", "solaris",
		"wasip1", "windows", "zos",
	)
	knownArch = setOf(
		"386", "amd64", "amd64p32", "arm", "armbe", "arm64", "arm64be",
		"loong64", "mips", "mipsle", "mips64", "mips64le", "mips64p32",
		"mips64p32le", "ppc", "ppc64", "ppc64le", "riscv", "riscv64", "s390",
		"s390x", "sparc", "sparc64", "wasm",
	)
)

func setOf(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

//go:build convargs

package syntax

//convargs:convert a A // want `expected ':' after a, found A`
func f(a int) error { return nil }

//convargs:convert a: map[string // want `unbalanced '\['`
func g(a int) error { return nil }

//convargs:convert a: 1 + 2 // want `1 \+ 2 is not a type`
func h(a int) error { return nil }

//convargs:convert a: int, a: string // want `duplicate argument a`
func i(a int) error { return nil }

//convargs:frobnicate // want `unknown directive //convargs:frobnicate`
func j() error { return nil }

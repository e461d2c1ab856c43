//go:build convargs

package unmatched

//convargs:convert c: int // want `no parameter named c in g$`
func g(a, b int) error { return nil }

//convargs:convert nmae: string // want `no parameter named nmae in greet; did you mean name\?`
func greet(name string) error { return nil }

type T struct{}

//convargs:convert t: int // want `cannot convert receiver t of \(\*T\)\.m`
func (t *T) m(v int) error { return nil }

//convargs:convert xs: []int // want `cannot convert variadic parameter xs of sum`
func sum(xs ...int) error { return nil }

//convargs:convert _: int // want `no parameter named _ in blank`
func blank(_ int) error { return nil }

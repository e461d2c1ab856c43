//go:build convargs

package main

import "fmt"

type (
	X string
	Y string
)

type A struct{ s string }

func (a *A) TryFrom(x X) error {
	fmt.Println("convert a")
	a.s = string(x)
	return nil
}

type B struct{ s string }

func (b *B) TryFrom(y Y) error {
	fmt.Println("convert b")
	b.s = string(y)
	return nil
}

//convargs:convert b: Y
//convargs:convert a: X
func g(a A, b B) error {
	fmt.Println("body", a.s, b.s)
	return nil
}

//convargs:convert a: X, b: Y
func h(a A, b B) error {
	fmt.Println("body", a.s, b.s)
	return nil
}

func main() {
	_ = g("x", "y")
	_ = h("x", "y")
}

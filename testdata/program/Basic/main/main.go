//go:build convargs

package main

import "fmt"

// Orig is what callers have.
type Orig struct{ N int }

// Foo is what f works with.
type Foo struct{ N int }

func (foo *Foo) TryFrom(o Orig) error {
	foo.N = o.N * 10
	return nil
}

//convargs:convert v: Orig
func f(i uint32, v Foo) (string, error) {
	return fmt.Sprintf("i=%d v.N=%d", i, v.N), nil
}

func main() {
	s, err := f(42, Orig{N: 7})
	fmt.Println(s, err)
}

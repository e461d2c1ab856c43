//go:build convargs

package main

import "fmt"

//convargs:convert n: int
func percent(n uint8) (string, error) {
	return fmt.Sprintf("%d%%", n), nil
}

//convargs:convert s: any
func show(s fmt.Stringer) error {
	fmt.Println("show", s.String())
	return nil
}

//convargs:convert name: int
func named(name string) error {
	fmt.Println("unreachable", name)
	return nil
}

type point struct{ x, y int }

func (p point) String() string { return fmt.Sprintf("(%d, %d)", p.x, p.y) }

func report(s string, err error) {
	fmt.Printf("%q %v\n", s, err)
}

func main() {
	report(percent(42))
	report(percent(300))
	fmt.Println(show(point{1, 2}))
	fmt.Println(show(42))
	fmt.Println(named(65))
}

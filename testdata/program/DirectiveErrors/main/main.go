//go:build convargs

package main

//convargs:convert a: int, a: string
func f(a int8) error { return nil }

//convargs:convert b string
func g(b int8) error { return nil }

func main() {
	_ = f(1)
	_ = g(1)
}

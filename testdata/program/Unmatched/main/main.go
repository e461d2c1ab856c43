//go:build convargs

package main

//convargs:convert c: int
func g(a, b int) error { return nil }

//convargs:convert nmae: string
func greet(name string, n int) error { return nil }

func main() {
	_ = g(1, 2)
	_ = greet("x", 1)
}

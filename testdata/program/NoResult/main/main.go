//go:build convargs

package main

//convargs:convert v: int
func f(v int8) {}

func main() {
	f(1)
}

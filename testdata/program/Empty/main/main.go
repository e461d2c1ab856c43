//go:build convargs

package main

import "fmt"

//convargs:convert
func hello(name string) {
	fmt.Println("hello", name)
}

func main() {
	hello("world")
}

//go:build convargs

package main

import "fmt"

type Num int

func (n *Num) TryFrom(s string) error {
	_, err := fmt.Sscan(s, (*int)(n))
	return err
}

//convargs:convert x: string
func add(x Num, xArg Num, convargs bool) (err Num, _ error) {
	if convargs {
		return x + xArg, nil
	}
	return 0, nil
}

func main() {
	fmt.Println(add("40", 2, true))
	fmt.Println(add("forty", 2, true))
}

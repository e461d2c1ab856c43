//go:build convargs

package main

import (
	"fmt"
	"strings"

	ca "github.com/sublee/convargs"
)

type Upper string

var _ ca.From[string] = (*Upper)(nil)

func (u *Upper) TryFrom(s string) error {
	*u = Upper(strings.ToUpper(s))
	return nil
}

//convargs:convert s: string
func shout(s Upper) (string, error) {
	return string(s) + "!", nil
}

func main() {
	fmt.Println(shout("hello"))
}

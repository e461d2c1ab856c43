//go:build convargs

package main

import (
	"errors"
	"fmt"
)

type Orig struct{}

type Bar struct{}

func (*Bar) TryFrom(Orig) error {
	return errors.New("failed")
}

//convargs:convert v: Orig
func plain(v Bar) (int, error) {
	fmt.Println("unreachable")
	return 1, nil
}

type AppError struct{ Cause error }

func (e *AppError) Error() string { return "app: " + e.Cause.Error() }

func wrap(err error) *AppError { return &AppError{Cause: err} }

//convargs:errwrap wrap
//convargs:convert v: Orig
func wrapped(v Bar) (string, *AppError) {
	fmt.Println("unreachable")
	return "ok", nil
}

func main() {
	n, err := plain(Orig{})
	fmt.Println(n, err)

	s, appErr := wrapped(Orig{})
	fmt.Printf("%q %v\n", s, appErr)
}

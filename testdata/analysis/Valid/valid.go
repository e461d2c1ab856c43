//go:build convargs

// Package valid has only well-formed directives.
package valid

import "strconv"

type ID int

func (id *ID) TryFrom(s string) error {
	n, err := strconv.Atoi(s)
	*id = ID(n)
	return err
}

// Get returns the ID as an int.
//
//convargs:errwrap wrap
//convargs:convert id: string, // trailing comma
//convargs:convert opts: map[string]int
func Get(id ID, opts map[string]int, _ bool) (int, error) {
	return int(id) + opts["offset"], nil
}

func wrap(err error) error { return err }

//convargs:convert
func Noop() {}

//go:build convargs

package main

import (
	"fmt"
	"strconv"
)

type ID int64

func (id *ID) TryFrom(s string) error {
	n, err := strconv.ParseInt(s, 10, 64)
	*id = ID(n)
	return err
}

type Store struct{ names map[ID]string }

// Get looks up a name by its decimal ID.
//
//convargs:convert id: string
func (s *Store) Get(id ID) (string, error) {
	return s.names[id], nil
}

//convargs:convert b: int64
func sum(a, b, c int32) (int32, error) {
	return a + b + c, nil
}

//convargs:convert n: int64
func take[T any](xs []T, n int) ([]T, error) {
	return xs[:min(n, len(xs))], nil
}

func report(s string, err error) {
	fmt.Printf("%q %v\n", s, err)
}

func main() {
	s := &Store{names: map[ID]string{1: "alice", 2: "bob"}}
	report(s.Get("2"))
	report(s.Get("two"))
	fmt.Println(sum(1, 2, 3))
	fmt.Println(sum(1, 1<<40, 3))
	fmt.Println(take([]string{"a", "b", "c"}, 2))
}

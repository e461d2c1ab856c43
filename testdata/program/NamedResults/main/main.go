//go:build convargs

package main

import (
	"fmt"
	"strconv"
)

type Port int

func (p *Port) TryFrom(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if n < 1 || n > 65535 {
		return fmt.Errorf("port %d out of range", n)
	}
	*p = Port(n)
	return nil
}

//convargs:convert port: string
func listen(host string, port Port) (addr string, err error) {
	defer func() {
		if err != nil {
			addr = "none"
		}
	}()
	return fmt.Sprintf("%s:%d", host, port), nil
}

func main() {
	for _, port := range []string{"8080", "http", "70000"} {
		addr, err := listen("localhost", port)
		fmt.Printf("%q %v\n", addr, err)
	}
}

package main

import (
	"fmt"

	"example.com/MultiPackage/lib"
)

func main() {
	fmt.Println(lib.Enabled("debug"))
	fmt.Println(lib.Enabled("info"))
	fmt.Println(lib.Enabled("trace"))
}

//go:build convargs

package misplaced

//convargs:convert v: int // want `directive must be in a function doc comment`
var x int

func g() {
	//convargs:convert v: int // want `directive must be in a function doc comment`
}

//convargs:convert v: int
func h(v int8) {} // want `h must return an error to convert arguments`

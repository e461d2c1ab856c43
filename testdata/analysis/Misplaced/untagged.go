package misplaced

//convargs:convert v: int // want `file must have "//go:build convargs" constraint to use directives`
func f(v int8) error { return nil }

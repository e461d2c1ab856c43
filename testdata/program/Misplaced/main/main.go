package main

//convargs:convert v: int
func f(v int8) error { return nil }

func main() {
	_ = f(1)
}

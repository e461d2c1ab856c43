//go:build convargs

package main

import "fmt"

type (
	Celsius float64
	Kelvin  float64
)

func (c Celsius) TryInto() (Kelvin, error) {
	if c < -273.15 {
		return 0, fmt.Errorf("%.2fC is below absolute zero", float64(c))
	}
	return Kelvin(c + 273.15), nil
}

//convargs:convert t: Celsius
func boils(t Kelvin) (bool, error) {
	return t >= 373, nil
}

func main() {
	fmt.Println(boils(100))
	fmt.Println(boils(20))
	fmt.Println(boils(-300))
}

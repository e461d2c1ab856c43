//go:build convargs && !windows

// Package lib has log levels.
package lib

import "fmt"

type Level int

const (
	Debug Level = iota
	Info
)

func (l *Level) TryFrom(s string) error {
	switch s {
	case "debug":
		*l = Debug
	case "info":
		*l = Info
	default:
		return fmt.Errorf("unknown level %q", s)
	}
	return nil
}

// Enabled reports whether the level is logged.
//
//convargs:convert level: string
func Enabled(level Level) (bool, error) {
	return level >= Info, nil
}

package core

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig marks invalid construction parameters
	ErrConfig = errors.New("invalid configuration")
	// ErrOutOfRange marks a write outside a screen's bounds
	ErrOutOfRange = errors.New("coordinates out of range")
)

// ConfigError describes which construction parameter was rejected
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrConfig, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

// RangeError carries the rejected coordinates and the bounds they violated
type RangeError struct {
	X, Y          int
	Width, Height int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: (%d,%d) outside %dx%d", ErrOutOfRange, e.X, e.Y, e.Width, e.Height)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

package workflow

import "errors"

var (
	// ErrInvalidTransition is returned when no transition exists for a trigger
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrGuardFailed is returned when every guarded transition refused
	ErrGuardFailed = errors.New("guard condition failed")
)

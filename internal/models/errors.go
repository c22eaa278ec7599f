package models

import "errors"

var (
	// ErrInvalidSettings is returned when a GameSettings value breaks a creation rule.
	ErrInvalidSettings = errors.New("invalid settings")
	// ErrInvalidDelta marks a narrative delta that is malformed or impossible to apply.
	ErrInvalidDelta = errors.New("invalid narrative delta")
	// ErrGeneratorUnavailable marks a failure to reach the narrative generator.
	ErrGeneratorUnavailable = errors.New("narrative generator unavailable")
	// ErrPersistence marks a failed load or save of the game snapshot.
	ErrPersistence = errors.New("persistence failure")
)

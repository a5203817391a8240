package workflow

import "errors"

var (
	// ErrInvalidPlan is wrapped by every plan validation failure.
	ErrInvalidPlan = errors.New("invalid plan")

	// ErrConflict is returned when a second result is written under a name
	// that already has one. This is a programmer error (reused step name)
	// and is always fatal to the run.
	ErrConflict = errors.New("result name conflict")

	// ErrTimeout marks a step or group that exceeded its configured bound.
	ErrTimeout = errors.New("timed out")
)

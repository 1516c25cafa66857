package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrTargetNotFound means the host has no surface with the requested id.
	ErrTargetNotFound = errors.New("mount target not found")
	// ErrBackendUnavailable means the surface could not be initialized.
	ErrBackendUnavailable = errors.New("rendering backend unavailable")
	// ErrProgramBuild means the parameters could not be compiled.
	ErrProgramBuild = errors.New("color program failed to build")
	// ErrDestroyed is returned by Tick after Destroy.
	ErrDestroyed = errors.New("instance destroyed")
)

// Stage names the mount step that failed.
type Stage string

const (
	StageTarget  Stage = "target"
	StageBackend Stage = "backend"
	StageProgram Stage = "program"
)

// SetupError is the single diagnostic reported when Mount fails. Nothing
// acquired before the failure is left running.
type SetupError struct {
	Stage  Stage
	Target string
	Err    error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("mount %q: %s setup failed: %v", e.Target, e.Stage, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

func setupError(stage Stage, target string, sentinel, cause error) *SetupError {
	var err error
	switch {
	case cause == nil:
		err = sentinel
	case errors.Is(cause, sentinel):
		err = cause
	default:
		err = fmt.Errorf("%w: %w", sentinel, cause)
	}
	return &SetupError{Stage: stage, Target: target, Err: err}
}

package app

import (
	"errors"
	"fmt"
)

// ErrQuit signals a normal exit requested by the user.
var ErrQuit = errors.New("quit requested")

// OperationError describes a failed editor operation such as a save or
// load, carrying the target path for the status line and logs.
type OperationError struct {
	Op     string
	Target string
	Err    error
}

// NewOperationError wraps err for the named operation.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{Op: op, Target: target, Err: err}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Target != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

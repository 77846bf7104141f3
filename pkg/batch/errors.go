package batch

import (
	"errors"

	"github.com/ssargent/bncsv/pkg/chunk"
)

// Errors
var (
	// ErrOverwritePrevented is returned when a destination already exists.
	ErrOverwritePrevented = errors.New("overwriting files is disabled")
	// ErrConfiguration is returned for unusable batch settings.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrNoTasks is returned when a batch has nothing to convert.
	ErrNoTasks = errors.New("no input files")
	// ErrIO marks file open, read and write failures.
	ErrIO = chunk.ErrIO
)

// openError marks a failure to open a task's input. It ends the worker
// that hit it.
type openError struct {
	err error
}

func (e *openError) Error() string { return e.err.Error() }

func (e *openError) Unwrap() error { return e.err }

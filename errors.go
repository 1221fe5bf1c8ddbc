package quickpiggy

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors returned by quickpiggy operations
var (
	// ErrBinaryNotFound indicates a required PostgreSQL executable could not
	// be located on the search path
	ErrBinaryNotFound = errors.New("quickpiggy: binary not found")

	// ErrDataDirLocked indicates the data directory is owned by another
	// running server (postmaster.pid present)
	ErrDataDirLocked = errors.New("quickpiggy: datadir locked")

	// ErrServerQuit indicates the server process exited before becoming ready
	ErrServerQuit = errors.New("quickpiggy: server quit unexpectedly")

	// ErrNotReady indicates an operation that requires a ready instance was
	// called before the instance reached StateReady
	ErrNotReady = errors.New("quickpiggy: instance not ready")

	// ErrAlreadyStarted indicates a start was attempted on a supervisor that
	// already owns a process
	ErrAlreadyStarted = errors.New("quickpiggy: already started")
)

// OpError represents an error from a quickpiggy operation
type OpError struct {
	// Op is the operation that failed
	Op Operation
	// Path is the file path or executable involved in the operation
	Path string
	// Output is the captured combined stdout/stderr of a failed subprocess,
	// empty when no subprocess was involved
	Output string
	// Err is the underlying error
	Err error
}

// Error returns a formatted error message
func (e *OpError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("quickpiggy %s %q: %v, complaint:\n%s", e.Op.String(), e.Path, e.Err, strings.TrimSpace(e.Output))
	}
	return fmt.Sprintf("quickpiggy %s %q: %v", e.Op.String(), e.Path, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *OpError) Unwrap() error {
	return e.Err
}

// MultiError aggregates multiple errors from bulk operations
type MultiError struct {
	// Errors contains all accumulated errors
	Errors []error
}

// Error returns a summary of the accumulated errors
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors occurred", len(m.Errors))
}

// Add appends an error to the collection if it's not nil
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// Err returns nil if no errors occurred, otherwise returns the MultiError itself
func (m *MultiError) Err() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

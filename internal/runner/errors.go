package runner

import (
	"errors"
	"fmt"

	"github.com/opal-ir/opal/internal/pass"
)

// RunError represents a failure to start or finish a module run.
type RunError struct {
	// Code identifies the error category.
	Code RunErrorCode

	// Message is a human-readable description.
	Message string

	// Err is the wrapped cause, if any.
	Err error
}

// RunErrorCode categorizes run errors.
type RunErrorCode string

const (
	// ErrCodeBadPipeline indicates the pipeline description could not be
	// resolved: empty elements or an identifier no pass registered.
	ErrCodeBadPipeline RunErrorCode = "BAD_PIPELINE"

	// ErrCodeBadJobs indicates a negative job count.
	ErrCodeBadJobs RunErrorCode = "BAD_JOBS"

	// ErrCodeWriteFailed indicates buffered reports could not be flushed
	// to the output writer.
	ErrCodeWriteFailed RunErrorCode = "WRITE_FAILED"
)

// Error implements the error interface.
func (e *RunError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the cause for errors.Is and errors.As.
func (e *RunError) Unwrap() error {
	return e.Err
}

// IsUnknownPass returns true if the error stems from a pipeline element
// matching no registered pass. Uses errors.As to handle wrapping.
func IsUnknownPass(err error) bool {
	var ue *pass.UnknownPassError
	return errors.As(err, &ue)
}

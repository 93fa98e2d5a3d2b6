// Package apperr defines the errors surfaced to users of the submission form
// and the submissions listing. Every error is recovered by the handler that
// triggered it; none of them is fatal to the server.
package apperr

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError is returned when a required field is missing or invalid.
// It is produced before any network call is made.
type ValidationError struct {
	// Fields maps a form field name to its message.
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ExecutionFailedError is returned when the execution service finished the
// run with a status other than "Accepted". Status is shown verbatim.
type ExecutionFailedError struct {
	Status string
}

func (e *ExecutionFailedError) Error() string {
	return e.Status
}

// SubmissionFailedError is returned when the storage service did not confirm
// the creation of a submission.
type SubmissionFailedError struct {
	StatusCode int // 0 when the request never got a response
	Message    string
}

func (e *SubmissionFailedError) Error() string {
	return e.Message
}

// FetchFailedError is returned when the submissions listing could not be read.
type FetchFailedError struct {
	Err error
}

func (e *FetchFailedError) Error() string {
	return fmt.Sprintf("fetch submissions: %v", e.Err)
}

func (e *FetchFailedError) Unwrap() error { return e.Err }

// InternalError wraps unexpected transport or decoding failures.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }

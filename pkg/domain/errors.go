package domain

import (
	"errors"
	"fmt"
)

// ErrMalformedPlay is returned (wrapped) when a play fails its structural
// preconditions. Graph correctness requires fully ordered, named input, so
// the runtime refuses malformed plays instead of recovering partially.
var ErrMalformedPlay = errors.New("malformed play")

// ValidationError describes a single structural problem in a play.
type ValidationError struct {
	Path   string // where the problem is, e.g. "tasks[2]"
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// AggregateError collects every validation failure found in one pass.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

func (e *AggregateError) Unwrap() error { return ErrMalformedPlay }

// ValidationErrors returns the individual failures if err is an
// AggregateError, nil otherwise.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}

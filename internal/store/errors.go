package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a mutation or lookup references an
// identifier that does not exist in the store. Missing ids are surfaced,
// never silently ignored.
var ErrNotFound = errors.New("not found")

// ValidationError reports bad input on a store mutation. The caller
// should correct the input and retry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidTransitionError reports an order status change that is not
// permitted from the order's current status. The order is left untouched.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}

// IOError wraps a persistence failure. The in-memory mutation that
// triggered the save has already committed; callers report the failure
// upward without rolling back.
type IOError struct {
	Collection string
	Err        error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Collection, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

package models

import "fmt"

// InvalidTransitionError is returned when a status change is attempted
// from a state that does not permit it. The record is left untouched.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid %s transition from %q to %q", e.Entity, e.From, e.To)
}

package engine

import "fmt"

// ValidationError rejects bad user input before any write happens. It is the
// only error class that propagates out of interactive operations untouched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

package service

import (
	"fmt"
)

// InvalidInputError rejects a message before any mutation happens. Its
// reason is safe to show to the end user.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

func invalidInput(reason string) error {
	return &InvalidInputError{Reason: reason}
}

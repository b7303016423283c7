package services

import (
	"errors"
	"fmt"
)

// ErrInvalidInput matches every InvalidInputError through errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError names the input field that violated its constraint.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

func invalidInput(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

package errors

import (
	"fmt"
	"strings"
)

// ErrNotFound is returned when a resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized is returned when the caller could not be authenticated
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	return fmt.Sprintf("unauthorized: %s", e.Message)
}

// ErrInvalidQuantity is returned for non-numeric or non-positive quantities
type ErrInvalidQuantity struct {
	Value  string
	Reason string
}

func (e *ErrInvalidQuantity) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid quantity %q", e.Value)
	}
	return fmt.Sprintf("invalid quantity %q: %s", e.Value, e.Reason)
}

// ErrStockExceeded is returned when a quantity is above the frozen stock ceiling
type ErrStockExceeded struct {
	Name      string
	Requested string
	Available string
	Unit      string
}

func (e *ErrStockExceeded) Error() string {
	return fmt.Sprintf("only %s %s of %s available, requested %s", e.Available, e.Unit, e.Name, e.Requested)
}

// Violation is a single reason a cart cannot be saved. Line is -1 for cart-level problems.
type Violation struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ErrValidationFailed is returned when input or the cart fails validation
type ErrValidationFailed struct {
	Violations []Violation
}

func (e *ErrValidationFailed) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		if v.Line >= 0 {
			msgs = append(msgs, fmt.Sprintf("line %d: %s", v.Line+1, v.Message))
			continue
		}
		msgs = append(msgs, v.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Invalid builds a cart-level validation error from a single message
func Invalid(message string) *ErrValidationFailed {
	return &ErrValidationFailed{Violations: []Violation{{Line: -1, Message: message}}}
}

// ErrNetworkFailure is returned when a back-office request fails or is rejected
type ErrNetworkFailure struct {
	Op      string
	Message string
	Err     error
}

func (e *ErrNetworkFailure) Error() string {
	switch {
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s failed: %s: %v", e.Op, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
	}
}

func (e *ErrNetworkFailure) Unwrap() error {
	return e.Err
}

// ErrBusy is returned when the same action is already in flight
type ErrBusy struct {
	Action string
}

func (e *ErrBusy) Error() string {
	return fmt.Sprintf("%s already in progress", e.Action)
}

// ErrCartLocked is returned when the cart is mutated while a save is pending or after it succeeded
type ErrCartLocked struct {
	Reason string
}

func (e *ErrCartLocked) Error() string {
	return fmt.Sprintf("cart is locked: %s", e.Reason)
}

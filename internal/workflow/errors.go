package workflow

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidTransition is returned when the action is not defined for the
	// request's current status
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrTerminalState is returned when the request has reached a terminal
	// status and accepts no further transitions
	ErrTerminalState = errors.New("request is in a terminal state")

	// ErrNotPermitted is returned when the actor role is not on the action's
	// allow-list
	ErrNotPermitted = errors.New("action not permitted")
)

// ValidationError is a blocking, user-facing input error. State is never
// changed when one is returned.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidationError formats a ValidationError
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// CooldownError is returned when a follow-up is attempted before the
// 24-hour window has elapsed. Remaining is rounded up to whole hours.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("follow-up not allowed yet, try again in %d hour(s)", e.RemainingHours())
}

// RemainingHours returns the remaining wait rounded up to whole hours
func (e *CooldownError) RemainingHours() int {
	h := int(e.Remaining / time.Hour)
	if e.Remaining%time.Hour > 0 {
		h++
	}
	return h
}

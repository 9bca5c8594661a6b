package errors

import (
	"errors"
	"fmt"
)

// Common error types for the bot
var (
	// Linking flow errors
	ErrStateMismatch = errors.New("oauth state mismatch")
	ErrStateNotFound = errors.New("oauth state not found or expired")

	// Lookup errors
	ErrNotFound = errors.New("no linked account found")

	// Interaction errors
	ErrUnknownCommand     = errors.New("unknown command")
	ErrUnknownInteraction = errors.New("unknown interaction type")

	// Profile errors. Metadata sync logs it and pushes null metadata instead.
	ErrProfileFetch = errors.New("error fetching fitbit profile data")
)

// AuthError is returned when Discord or Fitbit answer an OAuth or API call
// with a non-2xx status.
type AuthError struct {
	Provider string
	Status   int
	Body     string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s request failed with status %d: %s", e.Provider, e.Status, e.Body)
}

// NewAuthError creates an AuthError for the given provider response
func NewAuthError(provider string, status int, body []byte) *AuthError {
	return &AuthError{Provider: provider, Status: status, Body: string(body)}
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

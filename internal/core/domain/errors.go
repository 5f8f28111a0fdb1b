package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSigningSecret means the token signing secret is absent. Fatal at
	// startup; the process must not serve traffic without it.
	ErrNoSigningSecret = errors.New("token signing secret not configured")

	// ErrInvalidToken covers malformed, unsigned, and expired tokens.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrNotAuthenticated means the token resolved to no linked member profile.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrForbidden means the caller is authenticated but its role is not in
	// the operation's allowed set.
	ErrForbidden = errors.New("access forbidden")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrMemberNotFound     = errors.New("member not found")
	ErrInvalidRole        = errors.New("unknown role")
	ErrInvalidStatus      = errors.New("unknown membership status")
	ErrValidation         = errors.New("invalid input")
)

// AccessDeniedError carries the required-vs-actual role detail for internal
// diagnostics. It unwraps to ErrForbidden; the detail is for server-side
// logging only and must never reach untrusted responses.
type AccessDeniedError struct {
	Required []Role
	Actual   Role
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access forbidden: role %q not in %v", e.Actual, e.Required)
}

func (e *AccessDeniedError) Unwrap() error { return ErrForbidden }

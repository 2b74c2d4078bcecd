// Package identity is the credential-service boundary: sign-up, sign-in,
// sign-out and password reset. It owns credentials only; the account record a
// principal maps to lives in the document store under the same id.
package identity

import (
	"context"
	"errors"
	"regexp"
)

var (
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
	ErrEmailTaken         = errors.New("identity: email already in use")
	ErrWeakPassword       = errors.New("identity: password too weak")
	ErrBadEmail           = errors.New("identity: invalid email format")
	ErrNotFound           = errors.New("identity: no principal for that email")
	ErrBadResetToken      = errors.New("identity: invalid or expired reset token")
)

// Principal is a stable authenticated identifier. Its ID doubles as the
// account record id.
type Principal struct {
	ID    string
	Email string
}

// Service is implemented by the gorm-backed credential store and by the
// in-memory one used in tests.
type Service interface {
	SignUp(ctx context.Context, email, password string) (Principal, error)
	SignIn(ctx context.Context, email, password string) (Principal, error)
	// SignOut exists for contract symmetry; app tokens are stateless, so the
	// server-side teardown happens in the session manager.
	SignOut(ctx context.Context, principalID string) error
	// SendPasswordReset returns the single-use token to be mailed to the
	// address. ErrNotFound when no principal has that email.
	SendPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	// FindOrCreateGoogle links or creates a principal for a verified Google
	// identity. The second result reports whether the principal is new.
	FindOrCreateGoogle(ctx context.Context, googleSub, email string) (Principal, bool, error)
}

// Svc is the process-wide credential service, set once at startup.
var Svc Service

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func isEmailValid(email string) bool {
	return emailPattern.MatchString(email)
}

func isPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter := false
	hasDigit := false
	for _, c := range password {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
			hasLetter = true
		case '0' <= c && c <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

func validateSignUp(email, password string) error {
	if !isEmailValid(email) {
		return ErrBadEmail
	}
	if !isPasswordStrong(password) {
		return ErrWeakPassword
	}
	return nil
}

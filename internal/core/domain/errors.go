package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized covers missing, invalid or expired credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrWrongPassword is a login with a known email and a bad password.
	ErrWrongPassword = errors.New("Wrong Password")
	// ErrForbidden is a role or ownership denial.
	ErrForbidden = errors.New("access forbidden")

	ErrTokenExpired   = errors.New("token expired")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenMalformed = errors.New("token malformed")

	ErrUserNotFound   = errors.New("user not found")
	ErrTenantNotFound = errors.New("domain not found")
	ErrTenantRequired = errors.New("domain not found, please create one")
	ErrTenantOwned    = errors.New("user cannot create multiple domains")
	ErrAppNotFound    = errors.New("app not found")
	ErrContentNotFound = errors.New("content not found")
	ErrMediaNotFound  = errors.New("media not found")
	ErrRoleNotFound   = errors.New("role not found")

	ErrInvalidInput = errors.New("invalid input")
)

// DuplicateFieldError reports a uniqueness-constraint violation mapped back
// to the offending field (email, username, phone, host, slug).
type DuplicateFieldError struct {
	Field string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("%s already in use", e.Field)
}

// IsDuplicateField reports whether err wraps a DuplicateFieldError and, if
// so, which field collided.
func IsDuplicateField(err error) (string, bool) {
	var de *DuplicateFieldError
	if errors.As(err, &de) {
		return de.Field, true
	}
	return "", false
}

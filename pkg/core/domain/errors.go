package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicatePlatform  = errors.New("you already have a link for this platform")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrAlreadySubscribed  = errors.New("you're already subscribed")
)

// ValidationError carries the first violated rule as a user-facing message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid builds a ValidationError.
func Invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

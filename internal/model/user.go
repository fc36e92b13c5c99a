// Package model defines domain entities for the application.
package model

import (
	"errors"
	"log/slog"
)

// MinUsernameLength is the shortest accepted username, in bytes.
const MinUsernameLength = 3

// ValidationKind tags validation failures in logs.
const ValidationKind = "validation"

// ErrUsernameTooShort is matched by every short-username ValidationError.
var ErrUsernameTooShort = errors.New("username too short")

// usernameTooShortMessage is the user-facing text for ErrUsernameTooShort.
// TODO: the message asks for 4 characters but MinUsernameLength is 3; settle
// which one the product wants before changing either.
const usernameTooShortMessage = "username is too short; set it to 4 characters or more"

// CreateUser is the request body of POST /users.
type CreateUser struct {
	Name string `json:"name"`
}

// User is the record produced by a successful creation.
type User struct {
	Name string `json:"name"`
}

// LogValue renders the user as a structured group.
func (u User) LogValue() slog.Value {
	return slog.GroupValue(slog.String("name", u.Name))
}

// ValidationError describes a rejected field.
type ValidationError struct {
	Kind    string
	Message string
	err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.err
}

// ValidateUsername checks the name against MinUsernameLength.
func ValidateUsername(name string) error {
	if len(name) < MinUsernameLength {
		return &ValidationError{
			Kind:    ValidationKind,
			Message: usernameTooShortMessage,
			err:     ErrUsernameTooShort,
		}
	}
	return nil
}

// NewUser validates the request and builds the resulting record.
func NewUser(req CreateUser) (*User, error) {
	if err := ValidateUsername(req.Name); err != nil {
		return nil, err
	}
	return &User{Name: req.Name}, nil
}

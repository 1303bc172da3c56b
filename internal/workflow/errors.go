package workflow

import (
	"errors"
	"fmt"
)

// Error represents a user-visible failure on an admission-controlled path.
//
// These failures never change state and never propagate as process-fatal;
// they are recovered at the boundary where they occur (CLI or HTTP handler)
// and shown to the user.
type Error struct {
	// Code identifies the failure category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string
}

// ErrorCode categorizes workflow failures.
type ErrorCode string

const (
	// ErrCodeShiftClosed indicates issuance was attempted outside the
	// technician's shift window.
	ErrCodeShiftClosed ErrorCode = "SHIFT_CLOSED"

	// ErrCodeInvalidCredentials indicates a failed login attempt.
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"

	// ErrCodeImportParse indicates a backup document that failed to parse.
	// All stores are left untouched.
	ErrCodeImportParse ErrorCode = "IMPORT_PARSE_FAILURE"
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsShiftClosed reports whether err is a shift-window rejection.
// Uses errors.As to handle wrapped errors.
func IsShiftClosed(err error) bool {
	var we *Error
	return errors.As(err, &we) && we.Code == ErrCodeShiftClosed
}

// IsInvalidCredentials reports whether err is a failed login.
func IsInvalidCredentials(err error) bool {
	var we *Error
	return errors.As(err, &we) && we.Code == ErrCodeInvalidCredentials
}

// IsImportParse reports whether err is an import parse failure.
func IsImportParse(err error) bool {
	var we *Error
	return errors.As(err, &we) && we.Code == ErrCodeImportParse
}

// NewShiftClosedError creates the rejection returned when issuance is
// attempted outside the shift window.
func NewShiftClosedError(start, end string) *Error {
	return &Error{
		Code:    ErrCodeShiftClosed,
		Message: fmt.Sprintf("outside shift window %s-%s, issuance blocked", start, end),
	}
}

// NewInvalidCredentialsError creates the rejection for a failed login.
func NewInvalidCredentialsError() *Error {
	return &Error{
		Code:    ErrCodeInvalidCredentials,
		Message: "login or password incorrect",
	}
}

// NewImportParseError creates the failure for an unreadable backup document.
func NewImportParseError(err error) *Error {
	return &Error{
		Code:    ErrCodeImportParse,
		Message: fmt.Sprintf("could not read backup document: %v", err),
	}
}

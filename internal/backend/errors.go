package backend

import (
	"errors"
	"fmt"
)

// Error represents a failure of a backend operation.
//
// The emulator distinguishes conditions the caller is expected to branch on
// (a single-row query matching nothing, a duplicate sign-up email, a bad
// credential pair) from storage faults, which are fatal to the operation and
// never retried. All of them travel as ordinary error values; none unwind.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Collection names the affected collection, when there is one.
	Collection string

	// Err is the underlying cause (storage faults wrap the SQLite error).
	Err error
}

// ErrorCode categorizes backend errors.
type ErrorCode string

const (
	// CodeNotFound indicates a single-row query matched zero rows.
	// Callers treat this as absence, not failure.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeDuplicateUser indicates a sign-up with an already-registered email.
	CodeDuplicateUser ErrorCode = "DUPLICATE_USER"

	// CodeInvalidCredentials indicates a sign-in with no matching
	// email+password pair.
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"

	// CodeStorageFault indicates the durable storage layer itself failed.
	CodeStorageFault ErrorCode = "STORAGE_FAULT"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Collection != "" {
		return fmt.Sprintf("%s: %s (collection=%s)", e.Code, e.Message, e.Collection)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound creates a NOT_FOUND error for a single-row query on a collection.
func NotFound(collection string) *Error {
	return &Error{
		Code:       CodeNotFound,
		Message:    "no rows matched",
		Collection: collection,
	}
}

// DuplicateUser creates a DUPLICATE_USER error for a sign-up email that is
// already registered.
func DuplicateUser(email string) *Error {
	return &Error{
		Code:    CodeDuplicateUser,
		Message: fmt.Sprintf("email already registered: %s", email),
	}
}

// InvalidCredentials creates an INVALID_CREDENTIALS error.
func InvalidCredentials() *Error {
	return &Error{
		Code:    CodeInvalidCredentials,
		Message: "no matching email and password",
	}
}

// StorageFault wraps an underlying storage error.
func StorageFault(err error) *Error {
	return &Error{
		Code:    CodeStorageFault,
		Message: "storage layer failed",
		Err:     err,
	}
}

// IsNotFound returns true if the error is a not-found condition.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsDuplicateUser returns true if the error is a duplicate-credential
// condition.
func IsDuplicateUser(err error) bool {
	return hasCode(err, CodeDuplicateUser)
}

// IsInvalidCredentials returns true if the error is an invalid-credentials
// condition.
func IsInvalidCredentials(err error) bool {
	return hasCode(err, CodeInvalidCredentials)
}

// IsStorageFault returns true if the error is a storage fault.
func IsStorageFault(err error) bool {
	return hasCode(err, CodeStorageFault)
}

func hasCode(err error, code ErrorCode) bool {
	var be *Error
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

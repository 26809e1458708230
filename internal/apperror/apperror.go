// Package apperror holds the error kinds shared by every domain package.
// Domain sentinels are built with New so callers can match either the
// precise sentinel or its broader kind with errors.Is.
package apperror

import (
	"errors"
	"strings"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflict")
	ErrStorageUnavailable   = errors.New("storage unavailable")
	ErrMetadataCommitFailed = errors.New("metadata commit failed")
	ErrUnauthenticated      = errors.New("unauthenticated")
)

// Error is a user-facing message tagged with its kind.
type Error struct {
	kind error
	msg  string
}

func New(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

// ValidationError carries every failed rule, in evaluation order.
type ValidationError struct {
	Messages []string
}

func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Messages returns the user-facing messages carried by err, if any.
func Messages(err error) []string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Messages
	}
	var ae *Error
	if errors.As(err, &ae) {
		return []string{ae.msg}
	}
	return nil
}

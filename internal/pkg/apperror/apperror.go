// Package apperror classifies failures so transports can map them to status
// codes, and names the two handling strategies used by services: critical
// errors propagate, best-effort errors are logged and swallowed.
package apperror

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuth
	KindNotFound
	KindUpstream
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindUpstream:
		return "upstream"
	case KindPersistence:
		return "persistence"
	}
	return "unknown"
}

type AppError struct {
	Kind    Kind
	Message string
	// Missing lists the offending keys or ids for validation failures.
	Missing []string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Validation(msg string) *AppError {
	return &AppError{Kind: KindValidation, Message: msg}
}

func Validationf(format string, args ...interface{}) *AppError {
	return Validation(fmt.Sprintf(format, args...))
}

// MissingFields is a validation error that enumerates what was missing.
func MissingFields(msg string, missing []string) *AppError {
	return &AppError{Kind: KindValidation, Message: msg, Missing: missing}
}

func Auth(msg string) *AppError {
	return &AppError{Kind: KindAuth, Message: msg}
}

func NotFound(msg string) *AppError {
	return &AppError{Kind: KindNotFound, Message: msg}
}

// Upstream wraps a vendor failure; the vendor message is surfaced.
func Upstream(msg string, err error) *AppError {
	return &AppError{Kind: KindUpstream, Message: withCause(msg, err), Err: err}
}

func Persistence(msg string, err error) *AppError {
	return &AppError{Kind: KindPersistence, Message: withCause(msg, err), Err: err}
}

func withCause(msg string, err error) string {
	if err == nil {
		return msg
	}
	if msg == "" {
		return err.Error()
	}
	return msg + ": " + err.Error()
}

// KindOf finds the first AppError in err's chain.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

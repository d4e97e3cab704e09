package model

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated is returned when no verified caller identity is present.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrorKind classifies failures surfaced to the caller.
type ErrorKind string

const (
	// KindUnauthenticated means no verified caller identity was present.
	KindUnauthenticated ErrorKind = "unauthenticated"
	// KindInternal wraps any store or identity-service failure. Retrying is safe.
	KindInternal ErrorKind = "internal"
)

// ErasureError is the single structured failure returned by an account deletion.
type ErasureError struct {
	Kind    ErrorKind
	Message string
	Detail  string
	Err     error
}

// NewUnauthenticatedError creates an ErasureError of kind unauthenticated.
func NewUnauthenticatedError(message string) *ErasureError {
	return &ErasureError{Kind: KindUnauthenticated, Message: message, Err: ErrUnauthenticated}
}

// NewInternalError wraps err into an ErasureError of kind internal.
func NewInternalError(message string, err error) *ErasureError {
	e := &ErasureError{Kind: KindInternal, Message: message, Err: err}
	if err != nil {
		e.Detail = err.Error()
	}
	return e
}

func (e *ErasureError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Detail)
}

func (e *ErasureError) Unwrap() error {
	return e.Err
}

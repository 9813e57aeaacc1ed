package domain

import (
	"errors"
	"fmt"
)

type ErrCode string

const (
	CodeValidation    ErrCode = "validation_error"
	CodePublishFailed ErrCode = "publish_failed"
	CodeDuplicate     ErrCode = "duplicate"
)

type AppError struct {
	Code    ErrCode
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *AppError) Error() string {
	if len(e.Meta) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Meta)
}

func (e *AppError) Unwrap() error { return e.Cause }

func ErrValidation(msg string) error { return &AppError{Code: CodeValidation, Message: msg} }

func ErrValidationMeta(msg string, meta map[string]string) error {
	return &AppError{Code: CodeValidation, Message: msg, Meta: meta}
}

// ErrPublishFailed wraps a transport error from the broker. It must reach the
// write-path caller so the boundary can answer 503 instead of pretending the
// events were accepted.
func ErrPublishFailed(msg string, cause error) error {
	return &AppError{Code: CodePublishFailed, Message: msg, Cause: cause}
}

// ErrDuplicate marks a uniqueness violation on insert. Under at-least-once
// delivery this is expected, not a failure.
var ErrDuplicate = &AppError{Code: CodeDuplicate, Message: "event already exists"}

func IsDuplicate(err error) bool {
	var ae *AppError
	return errors.As(err, &ae) && ae.Code == CodeDuplicate
}

func IsValidation(err error) bool {
	var ae *AppError
	return errors.As(err, &ae) && ae.Code == CodeValidation
}

package apperr

import (
	"errors"
	"fmt"
)

const (
	CodeValidation        = "validation"
	CodeNotFound          = "not_found"
	CodeStorage           = "storage"
	CodeInconsistentMatch = "inconsistent_match"
)

type Error struct {
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	return "app error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(code string, err error) *Error {
	return &Error{Code: code, Err: err}
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Code: CodeValidation, Err: fmt.Errorf(format, args...)}
}

func Storage(err error) *Error {
	return &Error{Code: CodeStorage, Err: err}
}

func IsCode(err error, code string) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

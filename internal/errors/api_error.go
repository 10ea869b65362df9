package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeInvalidArgument        Code = "invalid_argument"
	CodeOutOfRange             Code = "out_of_range"
	CodeInsufficientFunds      Code = "insufficient_funds"
	CodeUnknownTheme           Code = "unknown_theme"
	CodePersistenceUnavailable Code = "persistence_unavailable"
	CodeNotFound               Code = "not_found"
	CodeUnavailable            Code = "unavailable"
	CodeInternal               Code = "internal_error"
)

// Sentinels for errors.Is matching. Only the code is compared.
var (
	ErrInvalidArgument        = &Error{Code: CodeInvalidArgument}
	ErrOutOfRange             = &Error{Code: CodeOutOfRange}
	ErrInsufficientFunds      = &Error{Code: CodeInsufficientFunds}
	ErrUnknownTheme           = &Error{Code: CodeUnknownTheme}
	ErrPersistenceUnavailable = &Error{Code: CodePersistenceUnavailable}
)

type Error struct {
	Status  int         `json:"-"`
	Code    Code        `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func New(status int, code Code, message string) *Error {
	return &Error{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

func InvalidArgument(message string) *Error {
	return New(http.StatusBadRequest, CodeInvalidArgument, message)
}

func OutOfRange(message string, details interface{}) *Error {
	err := New(http.StatusNotFound, CodeOutOfRange, message)
	err.Details = details
	return err
}

func InsufficientFunds(message string, details interface{}) *Error {
	err := New(http.StatusConflict, CodeInsufficientFunds, message)
	err.Details = details
	return err
}

func UnknownTheme(name string) *Error {
	return New(http.StatusBadRequest, CodeUnknownTheme, fmt.Sprintf("unknown theme %q", name))
}

func PersistenceUnavailable(message string, cause error) *Error {
	err := New(http.StatusServiceUnavailable, CodePersistenceUnavailable, message)
	err.cause = cause
	return err
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, CodeNotFound, message)
}

func Unavailable(message string) *Error {
	return New(http.StatusServiceUnavailable, CodeUnavailable, message)
}

func Internal(message string) *Error {
	if message == "" {
		message = "internal server error"
	}
	return New(http.StatusInternalServerError, CodeInternal, message)
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var target *Error
	if stderrors.As(err, &target) {
		return target, true
	}
	return nil, false
}

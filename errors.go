package tokenauth

import (
	"errors"
	"fmt"
)

// ErrorCode represents token authority error categories.
type ErrorCode string

const (
	ErrCodeMalformedHeader  ErrorCode = "malformed_header"
	ErrCodeInvalidSignature ErrorCode = "invalid_signature"
	ErrCodeExpired          ErrorCode = "token_expired"
	ErrCodeNotYetValid      ErrorCode = "token_not_yet_valid"
	ErrCodeMalformed        ErrorCode = "malformed_token"
	ErrCodeInvalidConfig    ErrorCode = "invalid_config"
	ErrCodeForbidden        ErrorCode = "forbidden"
	ErrCodeInternal         ErrorCode = "internal_error"
)

var errorMessages = map[ErrorCode]string{
	ErrCodeMalformedHeader:  "Malformed authorization header",
	ErrCodeInvalidSignature: "Invalid token signature",
	ErrCodeExpired:          "Token expired",
	ErrCodeNotYetValid:      "Token not yet valid",
	ErrCodeMalformed:        "Malformed token",
	ErrCodeInvalidConfig:    "Invalid configuration",
	ErrCodeForbidden:        "Insufficient privileges",
	ErrCodeInternal:         "Internal error",
}

// Error wraps token errors with a stable code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	base := e.Message
	if base == "" {
		base = string(e.Code)
	}
	if e.Err == nil {
		return base
	}
	return fmt.Sprintf("%s: %v", base, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}

// CodeOf returns the code of err, or ErrCodeInternal for foreign errors.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}

func newError(code ErrorCode, err error) error {
	msg, ok := errorMessages[code]
	if !ok {
		msg = string(code)
	}
	return &Error{Code: code, Message: msg, Err: err}
}

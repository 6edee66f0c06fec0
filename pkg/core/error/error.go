// File: error.go
// Title: Core Error Implementation
// Description: Implements the Error type carrying a code, the failed
//              operation and optional details. Compatible with errors.Is and
//              errors.As through Unwrap and Is.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19

package error

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinels for callers that only care about the failure class.
var (
	ErrNotFound         = New("not found").WithCode(CodeNotFound)
	ErrRejected         = New("rejected").WithCode(CodeRejected)
	ErrRetriesExhausted = New("retries exhausted").WithCode(CodeRetriesExhausted)
)

// Error represents a structured error with a code and context
type Error struct {
	message   string
	cause     error
	code      Code
	operation string
	details   map[string]interface{}
}

// New creates a new Error with CodeUnknown
func New(message string) *Error {
	return &Error{
		message: message,
		code:    CodeUnknown,
	}
}

// Newf creates a new Error with a formatted message
func Newf(format string, args ...interface{}) *Error {
	return New(fmt.Sprintf(format, args...))
}

// Wrap wraps err with a message. The code of a wrapped *Error is inherited.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}
	e := &Error{
		message: message,
		cause:   err,
		code:    CodeUnknown,
	}
	var inner *Error
	if errors.As(err, &inner) {
		e.code = inner.code
	}
	return e
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder
	if e.operation != "" {
		b.WriteString(e.operation)
		b.WriteString(": ")
	}
	b.WriteString(e.message)
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches another *Error by code, so errors.Is(err, ErrNotFound) holds
// for any error carrying CodeNotFound.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.code == e.code
}

// WithCode sets the error code
func (e *Error) WithCode(code Code) *Error {
	e.code = code
	return e
}

// WithOperation records the operation that failed
func (e *Error) WithOperation(operation string) *Error {
	e.operation = operation
	return e
}

// WithDetail adds a detail key/value
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.details == nil {
		e.details = make(map[string]interface{})
	}
	e.details[key] = value
	return e
}

// Code returns the error code
func (e *Error) Code() Code {
	return e.code
}

// Operation returns the operation name
func (e *Error) Operation() string {
	return e.operation
}

// Message returns the message without operation or cause
func (e *Error) Message() string {
	return e.message
}

// Details returns a copy of the details map
func (e *Error) Details() map[string]interface{} {
	out := make(map[string]interface{}, len(e.details))
	for k, v := range e.details {
		out[k] = v
	}
	return out
}

// String renders the error with its code and sorted details
func (e *Error) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.code, e.Error())
	if len(e.details) > 0 {
		keys := make([]string, 0, len(e.details))
		for k := range e.details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, e.details[k])
		}
	}
	return b.String()
}

// GetCode returns the code of the outermost *Error in the chain, or CodeUnknown
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}
	return CodeUnknown
}

// HasCode reports whether err carries the given code
func HasCode(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// IsApplication reports whether err is a business rejection
func IsApplication(err error) bool {
	return err != nil && GetCode(err).IsApplication()
}

// IsTransport reports whether err is a transport failure
func IsTransport(err error) bool {
	return err != nil && GetCode(err).IsTransport()
}

// IsConfig reports whether err is a configuration error
func IsConfig(err error) bool {
	return HasCode(err, CodeConfig)
}

// Config creates a configuration error
func Config(format string, args ...interface{}) *Error {
	return Newf(format, args...).WithCode(CodeConfig)
}

// Rejected creates an application error from a backend rejection
func Rejected(code Code, message string) *Error {
	if !code.IsApplication() {
		code = CodeRejected
	}
	if message == "" {
		message = strings.ToLower(strings.ReplaceAll(code.String(), "_", " "))
	}
	return New(message).WithCode(code)
}

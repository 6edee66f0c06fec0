// File: codes.go
// Title: Error Code Definitions
// Description: Error codes used to classify failures of the ticketing client.
//              The codes separate transport failures (retried across replicas)
//              from application rejections (returned to the caller untouched)
//              and configuration problems (abort construction).
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown  Code = "UNKNOWN"
	CodeInternal Code = "INTERNAL"
	CodeCanceled Code = "CANCELED"

	// Transport
	CodeTransport        Code = "TRANSPORT"
	CodeRetriesExhausted Code = "RETRIES_EXHAUSTED"

	// Application (business) rejections
	CodeRejected              Code = "REJECTED"
	CodeNotFound              Code = "NOT_FOUND"
	CodeAlreadyExists         Code = "ALREADY_EXISTS"
	CodeInsufficientInventory Code = "INSUFFICIENT_INVENTORY"
	CodeInvalidInput          Code = "INVALID_INPUT"

	// Configuration
	CodeConfig Code = "CONFIG_ERROR"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsApplication reports whether the code denotes a well-formed rejection
// delivered by the backend.
func (c Code) IsApplication() bool {
	switch c {
	case CodeRejected, CodeNotFound, CodeAlreadyExists, CodeInsufficientInventory, CodeInvalidInput:
		return true
	default:
		return false
	}
}

// IsTransport reports whether the code denotes a connectivity failure.
func (c Code) IsTransport() bool {
	return c == CodeTransport || c == CodeRetriesExhausted
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch {
	case c.IsApplication():
		return "application"
	case c.IsTransport():
		return "transport"
	case c == CodeConfig:
		return "configuration"
	case c == CodeCanceled:
		return "canceled"
	default:
		return "generic"
	}
}

// FromWire maps a rejection code carried in a response body to a Code.
// Unknown or empty wire codes become CodeRejected.
func FromWire(code string) Code {
	switch Code(code) {
	case CodeNotFound, CodeAlreadyExists, CodeInsufficientInventory, CodeInvalidInput:
		return Code(code)
	default:
		return CodeRejected
	}
}

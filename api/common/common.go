// Package common holds the pieces shared by every mtix wire contract: the
// result envelope of mutating calls, rejection codes and the call options
// that select the CBOR codec.
package common

import (
	"google.golang.org/grpc"

	tixerror "github.com/msto63/mTix/pkg/core/error"
	coregrpc "github.com/msto63/mTix/pkg/core/grpc"
)

// Rejection codes carried in Result.Code
const (
	CodeNotFound              = "NOT_FOUND"
	CodeInsufficientInventory = "INSUFFICIENT_INVENTORY"
	CodeInvalidInput          = "INVALID_INPUT"
	CodeAlreadyExists         = "ALREADY_EXISTS"
	CodeConcertCancelled      = "CONCERT_CANCELLED"
	CodeAfterPartyUnavailable = "AFTER_PARTY_UNAVAILABLE"
)

// Result is the success flag plus message every mutating response carries
type Result struct {
	Success bool   `cbor:"success"`
	Message string `cbor:"message,omitempty"`
	Code    string `cbor:"code,omitempty"`
}

// OK returns a successful result
func OK(message string) Result {
	return Result{Success: true, Message: message}
}

// Fail returns a rejection with a code from the list above
func Fail(code, message string) Result {
	return Result{Success: false, Code: code, Message: message}
}

// Err converts a rejection into an application error; nil on success
func (r Result) Err() error {
	if r.Success {
		return nil
	}
	return tixerror.Rejected(tixerror.FromWire(r.Code), r.Message).WithDetail("wire_code", r.Code)
}

// CallOptions returns the options every stub call uses
func CallOptions(opts ...grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{coregrpc.CodecCallOption()}, opts...)
}

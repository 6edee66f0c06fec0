package resilient

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	tixerror "github.com/msto63/mTix/pkg/core/error"
)

// Class is the retry decision for a failed call
type Class int

const (
	// ClassTransport failures are retried on the next replica
	ClassTransport Class = iota
	// ClassApplication failures are well-formed rejections returned as is
	ClassApplication
	// ClassCanceled means the caller gave up
	ClassCanceled
)

func (c Class) String() string {
	switch c {
	case ClassTransport:
		return "transport"
	case ClassApplication:
		return "application"
	default:
		return "canceled"
	}
}

// Classify decides whether err is worth retrying on another replica.
// parent is the caller's context, not the per-attempt one: an attempt
// deadline is a transport failure, a cancelled parent is not.
func Classify(parent context.Context, err error) Class {
	if parent.Err() != nil {
		return ClassCanceled
	}

	var te *tixerror.Error
	if errors.As(err, &te) {
		switch {
		case te.Code().IsApplication():
			return ClassApplication
		case te.Code() == tixerror.CodeCanceled:
			return ClassCanceled
		}
	}

	st, ok := status.FromError(err)
	if !ok {
		// dial failures, closed connections and attempt deadlines
		return ClassTransport
	}

	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled, codes.Aborted,
		codes.Internal, codes.Unknown, codes.ResourceExhausted:
		return ClassTransport
	default:
		return ClassApplication
	}
}

// applicationError converts a status rejection into a tixerror. Errors
// that already carry an application code pass through.
func applicationError(err error) error {
	var te *tixerror.Error
	if errors.As(err, &te) && te.Code().IsApplication() {
		return err
	}

	st, ok := status.FromError(err)
	if !ok {
		return tixerror.Wrap(err, "rejected").WithCode(tixerror.CodeRejected)
	}

	code := tixerror.CodeRejected
	switch st.Code() {
	case codes.NotFound:
		code = tixerror.CodeNotFound
	case codes.AlreadyExists:
		code = tixerror.CodeAlreadyExists
	case codes.InvalidArgument, codes.OutOfRange:
		code = tixerror.CodeInvalidInput
	}
	return tixerror.Wrap(err, st.Message()).WithCode(code).WithDetail("grpc_code", st.Code().String())
}

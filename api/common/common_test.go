package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tixerror "github.com/msto63/mTix/pkg/core/error"
	"google.golang.org/grpc"
)

func TestResult_Err(t *testing.T) {
	assert.NoError(t, OK("done").Err())

	tests := []struct {
		wire string
		want tixerror.Code
	}{
		{wire: CodeNotFound, want: tixerror.CodeNotFound},
		{wire: CodeInsufficientInventory, want: tixerror.CodeInsufficientInventory},
		{wire: CodeInvalidInput, want: tixerror.CodeInvalidInput},
		{wire: CodeAlreadyExists, want: tixerror.CodeAlreadyExists},
		{wire: CodeConcertCancelled, want: tixerror.CodeRejected},
		{wire: CodeAfterPartyUnavailable, want: tixerror.CodeRejected},
		{wire: "", want: tixerror.CodeRejected},
	}

	for _, tt := range tests {
		t.Run(tt.wire, func(t *testing.T) {
			err := Fail(tt.wire, "nope").Err()
			require.Error(t, err)
			assert.Equal(t, tt.want, tixerror.GetCode(err))
			assert.True(t, tixerror.IsApplication(err))
			assert.Contains(t, err.Error(), "nope")
		})
	}
}

func TestResult_ErrIsSentinel(t *testing.T) {
	err := Fail(CodeNotFound, "concert c-1 not found").Err()
	assert.True(t, errors.Is(err, tixerror.ErrNotFound))
	assert.False(t, errors.Is(err, tixerror.ErrRejected))
}

func TestCallOptions(t *testing.T) {
	assert.Len(t, CallOptions(), 1)
	assert.Len(t, CallOptions(grpc.WaitForReady(true)), 2)
}

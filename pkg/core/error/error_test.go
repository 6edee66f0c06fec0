// File: error_test.go
// Title: Error Module Tests
// Description: Tests for error creation, wrapping, codes, classification
//              and the errors.Is / errors.As integration.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19

package error

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New("boom")
	require.NotNil(t, err)
	assert.Equal(t, "boom", err.Error())
	assert.Equal(t, CodeUnknown, err.Code())
	assert.Empty(t, err.Details())
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantNil  bool
		wantMsg  string
		wantCode Code
	}{
		{name: "nil", err: nil, wantNil: true},
		{name: "plain error", err: errors.New("dial tcp: refused"), wantMsg: "connect: dial tcp: refused", wantCode: CodeUnknown},
		{name: "inherits code", err: New("seat gone").WithCode(CodeInsufficientInventory), wantMsg: "connect: seat gone", wantCode: CodeInsufficientInventory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.err, "connect")
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tt.wantMsg, got.Error())
			assert.Equal(t, tt.wantCode, got.Code())
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestWithOperationAndDetails(t *testing.T) {
	err := New("no replica answered").
		WithCode(CodeRetriesExhausted).
		WithOperation("MakeReservation").
		WithDetail("attempts", 3).
		WithDetail("endpoint", "localhost:50053")

	assert.Equal(t, "MakeReservation: no replica answered", err.Error())
	assert.Equal(t, "MakeReservation", err.Operation())
	assert.Equal(t, "no replica answered", err.Message())
	assert.Equal(t, 3, err.Details()["attempts"])
	assert.Equal(t, "[RETRIES_EXHAUSTED] MakeReservation: no replica answered attempts=3 endpoint=localhost:50053", err.String())

	details := err.Details()
	details["attempts"] = 99
	assert.Equal(t, 3, err.Details()["attempts"], "Details returns a copy")
}

func TestSentinels(t *testing.T) {
	err := fmt.Errorf("lookup: %w", Rejected(CodeNotFound, "concert c-9 not found"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrRejected)

	var te *Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "concert c-9 not found", te.Message())
}

func TestClassification(t *testing.T) {
	tests := []struct {
		err         error
		application bool
		transport   bool
		config      bool
	}{
		{err: Rejected(CodeInvalidInput, "bad"), application: true},
		{err: Rejected(CodeRejected, ""), application: true},
		{err: New("down").WithCode(CodeTransport), transport: true},
		{err: New("spent").WithCode(CodeRetriesExhausted), transport: true},
		{err: Config("unknown mode %q", "zookeeper"), config: true},
		{err: New("ctx").WithCode(CodeCanceled)},
		{err: errors.New("plain")},
		{err: nil},
	}

	for _, tt := range tests {
		name := "nil"
		if tt.err != nil {
			name = tt.err.Error()
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.application, IsApplication(tt.err))
			assert.Equal(t, tt.transport, IsTransport(tt.err))
			assert.Equal(t, tt.config, IsConfig(tt.err))
		})
	}
}

func TestRejected(t *testing.T) {
	assert.Equal(t, CodeRejected, Rejected(CodeTransport, "x").Code(), "non-application codes collapse")
	assert.Equal(t, "insufficient inventory", Rejected(CodeInsufficientInventory, "").Message())
}

func TestFromWire(t *testing.T) {
	assert.Equal(t, CodeNotFound, FromWire("NOT_FOUND"))
	assert.Equal(t, CodeInvalidInput, FromWire("INVALID_INPUT"))
	assert.Equal(t, CodeRejected, FromWire("CONCERT_CANCELLED"))
	assert.Equal(t, CodeRejected, FromWire(""))
}

func TestCode_Category(t *testing.T) {
	assert.Equal(t, "application", CodeNotFound.Category())
	assert.Equal(t, "transport", CodeTransport.Category())
	assert.Equal(t, "configuration", CodeConfig.Category())
	assert.Equal(t, "canceled", CodeCanceled.Category())
	assert.Equal(t, "generic", CodeInternal.Category())
}

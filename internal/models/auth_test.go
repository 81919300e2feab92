package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDelegateResult(t *testing.T) {
	fullExtras := map[string]string{
		ExtraAccountID: "42",
		ExtraSignature: "sig",
		ExtraAuthToken: "tok",
	}

	tests := []struct {
		name       string
		code       int
		extras     map[string]string
		expectKind DelegateKind
	}{
		{name: "lowest success code", code: 20, extras: fullExtras, expectKind: DelegateSuccess},
		{name: "high success code", code: 250, extras: fullExtras, expectKind: DelegateSuccess},
		{name: "success without account id", code: 21, extras: map[string]string{ExtraSignature: "s"}, expectKind: DelegateCoreUnavailable},
		{name: "success with nil extras", code: 21, extras: nil, expectKind: DelegateCoreUnavailable},
		{name: "signed out", code: 3, expectKind: DelegateSignedOut},
		{name: "signed out alternate", code: 4, expectKind: DelegateSignedOut},
		{name: "permission denied", code: 2, expectKind: DelegatePermissionDenied},
		{name: "result canceled means core unavailable", code: 0, expectKind: DelegateCoreUnavailable},
		{name: "user canceled", code: 1, expectKind: DelegateCanceled},
		{name: "unassigned code", code: 19, expectKind: DelegateCanceled},
		{name: "negative code", code: -1, expectKind: DelegateCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DecodeDelegateResult(tt.code, tt.extras)
			assert.Equal(t, tt.expectKind, result.Kind)
			assert.Equal(t, tt.code, result.Code)
		})
	}
}

func TestDecodeDelegateResult_ExtractsSession(t *testing.T) {
	result := DecodeDelegateResult(20, map[string]string{
		ExtraAccountID: "42",
		ExtraSignature: "sig",
	})

	require.Equal(t, DelegateSuccess, result.Kind)
	require.NotNil(t, result.Session)
	assert.Equal(t, Session{AccountID: "42", Signature: "sig"}, *result.Session)
	assert.NoError(t, result.Err)
}

func TestDecodeMalformedResult_KeepsCause(t *testing.T) {
	cause := fmt.Errorf("bad json")

	result := DecodeMalformedResult(25, cause)
	assert.Equal(t, DelegateCoreUnavailable, result.Kind)
	assert.ErrorIs(t, result.Err, cause)

	result = DecodeMalformedResult(4, cause)
	assert.Equal(t, DelegateSignedOut, result.Kind)
	assert.Equal(t, 4, result.Code)
}

func TestEncodeDelegateResult_RoundTripsThroughDecode(t *testing.T) {
	results := []DelegateResult{
		{Kind: DelegateSuccess, Code: 33, Session: &Session{AccountID: "1", Signature: "s", Token: "t"}},
		{Kind: DelegateSignedOut, Code: 4},
		{Kind: DelegatePermissionDenied},
		{Kind: DelegateCoreUnavailable},
		{Kind: DelegateCanceled},
	}

	for _, r := range results {
		t.Run(r.Kind.String(), func(t *testing.T) {
			code, extras := EncodeDelegateResult(r)
			decoded := DecodeDelegateResult(code, extras)
			assert.Equal(t, r.Kind, decoded.Kind)
			assert.Equal(t, r.Session, decoded.Session)
		})
	}
}

func TestFailure_Is(t *testing.T) {
	cause := errors.New("dial tcp: no route to host")
	err := fmt.Errorf("verify: %w", NewFailure(StateNoInternet, MessageNoInternet, cause))

	assert.ErrorIs(t, err, ErrNoInternet)
	assert.NotErrorIs(t, err, ErrInvalidAccount)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), StateNoInternet)
}

func TestAsFailure(t *testing.T) {
	assert.Nil(t, AsFailure(nil))

	plain := AsFailure(errors.New("boom"))
	assert.Equal(t, StateUnknown, plain.State)
	assert.Equal(t, "boom", plain.Message)

	wrapped := AsFailure(fmt.Errorf("ctx: %w", NewFailure(StateInvalidAccount, "bad", nil)))
	assert.Equal(t, StateInvalidAccount, wrapped.State)
}

func TestAccountInfo_GetName(t *testing.T) {
	assert.Equal(t, "A", (&AccountInfo{UserName: "A", UserEmail: "a@x.com"}).GetName())
	assert.Equal(t, "a@x.com", (&AccountInfo{UserName: MissingField, UserEmail: "a@x.com"}).GetName())
	assert.Equal(t, "Unknown", (&AccountInfo{UserName: MissingField, UserEmail: MissingField}).GetName())
}

package models

import (
	"errors"
	"fmt"
)

// Failure states shared with the host application. These strings are part
// of the listener contract and must not change.
const (
	StatePermissionDenied = "PERMISSION_DENIED"
	StateCoreUnavailable  = "CORE_UNAVAILABLE"
	StateNoInternet       = "NO_INTERNET"
	StateInvalidAccount   = "INVALID_ACCOUNT"
	StateUnknown          = "UNKNOWN"
	StateNotSignedIn      = "NOT_SIGNED_IN"
	StateInvalidResponse  = "INVALID_RESPONSE"
)

// Default user facing messages for each failure state.
const (
	MessagePermissionDenied = "Permission denied. Please open app settings and allow this app to use Teslasoft ID."
	MessageCoreUnavailable  = "This app requires one or more Teslasoft Core features that are currently unavailable. Please contact app developer for further assistance."
	MessageNoInternet       = "Failed to connect to the server. Please try again later."
	MessageNotSignedIn      = "Please sign in to perform this action."
)

// Failure is a terminal error surfaced to the host through OnAuthFailed.
// Err keeps the underlying cause so diagnostics are not lost.
type Failure struct {
	State   string
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.State, f.Message, f.Err)
	}
	if len(f.Message) > 0 {
		return fmt.Sprintf("%s: %s", f.State, f.Message)
	}
	return f.State
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Is matches any Failure with the same state, so the sentinels below can
// be used with errors.Is regardless of message or cause.
func (f *Failure) Is(target error) bool {
	var other *Failure
	if !errors.As(target, &other) {
		return false
	}
	return f.State == other.State
}

var (
	ErrPermissionDenied = &Failure{State: StatePermissionDenied}
	ErrCoreUnavailable  = &Failure{State: StateCoreUnavailable}
	ErrNoInternet       = &Failure{State: StateNoInternet}
	ErrInvalidAccount   = &Failure{State: StateInvalidAccount}
	ErrUnknown          = &Failure{State: StateUnknown}
	ErrNotSignedIn      = &Failure{State: StateNotSignedIn}
	ErrInvalidResponse  = &Failure{State: StateInvalidResponse}
)

func NewFailure(state string, message string, err error) *Failure {
	return &Failure{
		State:   state,
		Message: message,
		Err:     err,
	}
}

// AsFailure converts any error into a Failure, defaulting to the UNKNOWN
// state for errors that did not originate here.
func AsFailure(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return NewFailure(StateUnknown, err.Error(), err)
}

// Package models provides public SDK types for embedding Teslasoft ID.
package models

import internal "github.com/teslasoft/id-agent/internal/models"

// Session is the stored account session handed out by Teslasoft Core.
// An empty AccountID means nobody is signed in.
type Session = internal.Session

// AccountInfo is the account metadata returned by the ID service.
type AccountInfo = internal.AccountInfo

// Outcome is the result of one sign-in or sync attempt.
// See internal/models.Outcome for full documentation.
type Outcome = internal.Outcome

type OutcomeKind = internal.OutcomeKind

const (
	OutcomeFinished  = internal.OutcomeFinished
	OutcomeCanceled  = internal.OutcomeCanceled
	OutcomeSignedOut = internal.OutcomeSignedOut
	OutcomeFailed    = internal.OutcomeFailed
)

// Failure carries one of the State constants below and a user facing
// message. errors.Is matches failures by state.
type Failure = internal.Failure

const (
	StatePermissionDenied = internal.StatePermissionDenied
	StateCoreUnavailable  = internal.StateCoreUnavailable
	StateNoInternet       = internal.StateNoInternet
	StateInvalidAccount   = internal.StateInvalidAccount
	StateUnknown          = internal.StateUnknown
	StateNotSignedIn      = internal.StateNotSignedIn
	StateInvalidResponse  = internal.StateInvalidResponse
)

var (
	ErrPermissionDenied = internal.ErrPermissionDenied
	ErrCoreUnavailable  = internal.ErrCoreUnavailable
	ErrNoInternet       = internal.ErrNoInternet
	ErrInvalidAccount   = internal.ErrInvalidAccount
	ErrNotSignedIn      = internal.ErrNotSignedIn
)

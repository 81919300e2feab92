package accountsync

import (
	"context"

	"github.com/teslasoft/id-agent/internal/models"
)

// Listener is implemented by the host application. Calls arrive one at a
// time from the goroutine running Dispatch and must not block for long.
type Listener interface {
	OnAuthFinished(name string, email string, isDev bool, token string)
	OnAuthCanceled()
	OnSignedOut()
	OnAuthFailed(state string, message string)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	Finished  func(name string, email string, isDev bool, token string)
	Canceled  func()
	SignedOut func()
	Failed    func(state string, message string)
}

func (l ListenerFuncs) OnAuthFinished(name string, email string, isDev bool, token string) {
	if l.Finished != nil {
		l.Finished(name, email, isDev, token)
	}
}

func (l ListenerFuncs) OnAuthCanceled() {
	if l.Canceled != nil {
		l.Canceled()
	}
}

func (l ListenerFuncs) OnSignedOut() {
	if l.SignedOut != nil {
		l.SignedOut()
	}
}

func (l ListenerFuncs) OnAuthFailed(state string, message string) {
	if l.Failed != nil {
		l.Failed(state, message)
	}
}

// Deliver forwards a single outcome to the matching callback.
func Deliver(listener Listener, outcome models.Outcome) {
	switch outcome.Kind {
	case models.OutcomeFinished:
		listener.OnAuthFinished(
			outcome.Account.UserName,
			outcome.Account.UserEmail,
			outcome.Account.IsDev,
			outcome.Token,
		)
	case models.OutcomeCanceled:
		listener.OnAuthCanceled()
	case models.OutcomeSignedOut:
		listener.OnSignedOut()
	case models.OutcomeFailed:
		failure := outcome.Failure
		if failure == nil {
			failure = models.NewFailure(models.StateUnknown, "", nil)
		}
		listener.OnAuthFailed(failure.State, failure.Message)
	}
}

// Dispatch drains outcomes into listener until the channel closes or ctx
// is done. Run it on its own goroutine so the controller never waits on
// host code.
func Dispatch(ctx context.Context, outcomes <-chan models.Outcome, listener Listener) {
	for {
		select {
		case <-ctx.Done():
			return
		case outcome, ok := <-outcomes:
			if !ok {
				return
			}
			Deliver(listener, outcome)
		}
	}
}

package models

type OutcomeKind int

const (
	OutcomeFinished OutcomeKind = iota
	OutcomeCanceled
	OutcomeSignedOut
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeFinished:
		return "finished"
	case OutcomeCanceled:
		return "canceled"
	case OutcomeSignedOut:
		return "signed_out"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of one sync attempt as seen by the host.
type Outcome struct {
	Kind    OutcomeKind
	Account AccountInfo // OutcomeFinished
	Token   string      // OutcomeFinished
	Failure *Failure    // OutcomeFailed
}

func Finished(account AccountInfo, token string) Outcome {
	return Outcome{Kind: OutcomeFinished, Account: account, Token: token}
}

func Canceled() Outcome {
	return Outcome{Kind: OutcomeCanceled}
}

func SignedOut() Outcome {
	return Outcome{Kind: OutcomeSignedOut}
}

func Failed(f *Failure) Outcome {
	return Outcome{Kind: OutcomeFailed, Failure: f}
}

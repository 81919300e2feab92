package accountsync

import "github.com/teslasoft/id-agent/internal/models"

type Phase int

const (
	// PhaseDisabled shows the sign-in prompt.
	PhaseDisabled Phase = iota
	// PhaseDelegating waits on the core authenticator.
	PhaseDelegating
	// PhaseVerifying waits on the sync call.
	PhaseVerifying
	// PhaseSynced shows the verified account.
	PhaseSynced
)

func (p Phase) String() string {
	switch p {
	case PhaseDisabled:
		return "disabled"
	case PhaseDelegating:
		return "delegating"
	case PhaseVerifying:
		return "verifying"
	case PhaseSynced:
		return "synced"
	default:
		return "unknown"
	}
}

// Snapshot is everything a view needs to draw the widget.
type Snapshot struct {
	Phase     Phase
	AccountID string
	Account   models.AccountInfo
}

// Loading is true while the loader should replace the account icon.
func (s Snapshot) Loading() bool {
	return s.Phase == PhaseDelegating || s.Phase == PhaseVerifying
}

// View receives every state change. Render is called from the controller
// loop, so implementations should hand the snapshot off quickly.
type View interface {
	Render(snapshot Snapshot)
}

type ViewFunc func(snapshot Snapshot)

func (f ViewFunc) Render(snapshot Snapshot) {
	f(snapshot)
}

type noopView struct{}

func (noopView) Render(Snapshot) {}

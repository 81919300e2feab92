// Package accountsync drives the sign-in widget: it loads the stored
// session, hands sign-in to the core authenticator, verifies the result with
// the ID service and reports one outcome per attempt.
package accountsync

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/teslasoft/id-agent/internal/models"
	"github.com/teslasoft/id-agent/internal/sessions"
)

var ErrAlreadyRunning = errors.New("controller is already running")

const queueSize = 16

// Authenticator obtains a fresh session from the core authenticator.
type Authenticator interface {
	Authenticate(ctx context.Context) models.DelegateResult
}

// Verifier exchanges a stored session for account metadata.
type Verifier interface {
	Verify(ctx context.Context, accountID string, signature string) (*models.AccountInfo, error)
}

type eventKind int

const (
	eventTap eventKind = iota
	eventRefresh
	eventSignOut
	eventDelegated
	eventVerified
)

type event struct {
	kind       eventKind
	generation uint64
	delegated  models.DelegateResult
	account    *models.AccountInfo
	err        error
}

// Controller owns the sync state. All state changes happen on the
// goroutine running Run; the delegate and verify calls run on workers
// that post their results back.
type Controller struct {
	store    sessions.Store
	auth     Authenticator
	verifier Verifier
	view     View

	events   chan event
	outcomes chan models.Outcome
	done     chan struct{}
	started  atomic.Bool
	workers  sync.WaitGroup

	mu       sync.RWMutex
	snapshot Snapshot

	// Owned by the loop
	generation uint64
	previous   Snapshot
	token      string
}

// New builds a controller. view may be nil.
func New(store sessions.Store, auth Authenticator, verifier Verifier, view View) *Controller {
	if view == nil {
		view = noopView{}
	}
	return &Controller{
		store:    store,
		auth:     auth,
		verifier: verifier,
		view:     view,
		events:   make(chan event, queueSize),
		outcomes: make(chan models.Outcome, queueSize),
		done:     make(chan struct{}),
	}
}

// Outcomes is closed once Run returns.
func (c *Controller) Outcomes() <-chan models.Outcome {
	return c.outcomes
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// Tap is the user pressing the sign-in button. It is ignored while a
// delegate or verify call is in flight.
func (c *Controller) Tap() {
	c.post(event{kind: eventTap})
}

// Refresh re-verifies the stored session without involving the
// authenticator.
func (c *Controller) Refresh() {
	c.post(event{kind: eventRefresh})
}

// SignOut clears the stored session. Any call still in flight is
// abandoned and its result dropped.
func (c *Controller) SignOut() {
	c.post(event{kind: eventSignOut})
}

// Run loads the persisted session and processes events until ctx is done.
// It may only be called once.
func (c *Controller) Run(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		close(c.done)
		c.workers.Wait()
		close(c.outcomes)
	}()

	c.load(ctx)

	for {
		select {
		case <-ctx.Done():
			logrus.Debugln("Account sync controller stopped")
			return nil
		case ev := <-c.events:
			c.handle(ctx, ev)
		}
	}
}

func (c *Controller) post(ev event) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

func (c *Controller) handle(ctx context.Context, ev event) {
	switch ev.kind {
	case eventTap:
		c.onTap(ctx)
	case eventRefresh:
		c.onRefresh(ctx)
	case eventSignOut:
		c.onSignOut(ctx)
	case eventDelegated:
		if c.isStale(ev) {
			return
		}
		c.onDelegated(ctx, ev.delegated)
	case eventVerified:
		if c.isStale(ev) {
			return
		}
		c.onVerified(ctx, ev.account, ev.err)
	}
}

func (c *Controller) isStale(ev event) bool {
	if ev.generation == c.generation {
		return false
	}
	logrus.WithFields(logrus.Fields{
		"generation": ev.generation,
		"current":    c.generation,
	}).Debugln("Dropping result of an abandoned call")
	return true
}

func (c *Controller) busy() bool {
	return c.Snapshot().Loading()
}

// load picks the starting phase from the store: a session goes straight to
// verification, no session leaves the widget disabled.
func (c *Controller) load(ctx context.Context) {
	session, err := c.store.Load()
	if err != nil {
		logrus.WithError(err).Errorln("Failed to load stored session")
		c.disable()
		return
	}

	if !session.IsSignedIn() {
		logrus.Debugln("No stored session, waiting for sign-in")
		c.disable()
		return
	}

	c.startVerify(ctx, *session)
}

func (c *Controller) onTap(ctx context.Context) {
	if c.busy() {
		logrus.Debugln("Ignoring tap while a sync is in flight")
		return
	}

	c.previous = c.Snapshot()
	c.generation++
	generation := c.generation

	c.setSnapshot(Snapshot{
		Phase:     PhaseDelegating,
		AccountID: c.previous.AccountID,
		Account:   c.previous.Account,
	})

	c.workers.Add(1)
	go func() {
		defer c.workers.Done()
		result := c.auth.Authenticate(ctx)
		c.post(event{kind: eventDelegated, generation: generation, delegated: result})
	}()
}

func (c *Controller) onRefresh(ctx context.Context) {
	if c.busy() {
		logrus.Debugln("Ignoring refresh while a sync is in flight")
		return
	}
	c.load(ctx)
}

func (c *Controller) onSignOut(ctx context.Context) {
	c.generation++
	c.invalidate()
	c.emit(ctx, models.SignedOut())
}

func (c *Controller) onDelegated(ctx context.Context, result models.DelegateResult) {
	switch result.Kind {
	case models.DelegateSuccess:
		session := *result.Session
		if err := c.store.Save(session); err != nil {
			c.restore()
			c.emit(ctx, models.Failed(
				models.NewFailure(models.StateUnknown, "Failed to store the account session.", err),
			))
			return
		}
		c.startVerify(ctx, session)

	case models.DelegateSignedOut:
		c.invalidate()
		c.emit(ctx, models.SignedOut())

	case models.DelegatePermissionDenied:
		c.restore()
		c.emit(ctx, models.Failed(
			models.NewFailure(models.StatePermissionDenied, models.MessagePermissionDenied, result.Err),
		))

	case models.DelegateCoreUnavailable:
		c.restore()
		c.emit(ctx, models.Failed(
			models.NewFailure(models.StateCoreUnavailable, models.MessageCoreUnavailable, result.Err),
		))

	default:
		c.restore()
		c.emit(ctx, models.Canceled())
	}
}

func (c *Controller) startVerify(ctx context.Context, session models.Session) {
	c.generation++
	generation := c.generation
	c.token = session.Token

	c.setSnapshot(Snapshot{
		Phase:     PhaseVerifying,
		AccountID: session.AccountID,
	})

	c.workers.Add(1)
	go func() {
		defer c.workers.Done()
		account, err := c.verifier.Verify(ctx, session.AccountID, session.Signature)
		c.post(event{kind: eventVerified, generation: generation, account: account, err: err})
	}()
}

func (c *Controller) onVerified(ctx context.Context, account *models.AccountInfo, err error) {
	if err == nil && account == nil {
		err = models.NewFailure(models.StateInvalidAccount, "Account response was empty.", nil)
	}

	if err != nil {
		failure := models.AsFailure(err)
		if errors.Is(err, models.ErrNoInternet) {
			// Keep the session for the next attempt
			c.disable()
		} else {
			c.invalidate()
		}
		c.emit(ctx, models.Failed(failure))
		return
	}

	current := c.Snapshot()
	c.setSnapshot(Snapshot{
		Phase:     PhaseSynced,
		AccountID: current.AccountID,
		Account:   *account,
	})
	c.emit(ctx, models.Finished(*account, c.token))
}

// restore puts back whatever was shown before the tap.
func (c *Controller) restore() {
	if c.previous.Phase == PhaseSynced {
		c.setSnapshot(c.previous)
		return
	}
	c.disable()
}

func (c *Controller) invalidate() {
	if err := c.store.Clear(); err != nil {
		logrus.WithError(err).Errorln("Failed to clear stored session")
	}
	c.token = ""
	c.disable()
}

func (c *Controller) disable() {
	c.setSnapshot(Snapshot{Phase: PhaseDisabled})
}

func (c *Controller) setSnapshot(snapshot Snapshot) {
	c.mu.Lock()
	c.snapshot = snapshot
	c.mu.Unlock()

	c.view.Render(snapshot)
}

func (c *Controller) emit(ctx context.Context, outcome models.Outcome) {
	fields := logrus.Fields{
		"outcome": outcome.Kind.String(),
	}
	if outcome.Failure != nil {
		fields["state"] = outcome.Failure.State
	}
	entry := logrus.WithFields(fields)
	if outcome.Failure != nil && outcome.Failure.Err != nil {
		entry = entry.WithError(outcome.Failure.Err)
	}
	entry.Infoln("Account sync finished")

	select {
	case c.outcomes <- outcome:
	case <-ctx.Done():
	}
}

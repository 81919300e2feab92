// Package account embeds the Teslasoft ID sign-in flow in a host
// application. A Controller is built from a Config, driven with Tap,
// Refresh and SignOut, and reports to a Listener through Dispatch.
package account

import (
	"github.com/teslasoft/id-agent/internal/accountsync"
	"github.com/teslasoft/id-agent/internal/config"
	"github.com/teslasoft/id-agent/internal/delegate"
	"github.com/teslasoft/id-agent/internal/sessions"
	"github.com/teslasoft/id-agent/internal/teslasoft"
)

type Controller = accountsync.Controller

type Listener = accountsync.Listener

type ListenerFuncs = accountsync.ListenerFuncs

type Snapshot = accountsync.Snapshot

type Phase = accountsync.Phase

const (
	PhaseDisabled   = accountsync.PhaseDisabled
	PhaseDelegating = accountsync.PhaseDelegating
	PhaseVerifying  = accountsync.PhaseVerifying
	PhaseSynced     = accountsync.PhaseSynced
)

type View = accountsync.View

type ViewFunc = accountsync.ViewFunc

// PromptFunc asks the user to grant the account permission. It is called
// at most once per sign-in.
type PromptFunc = delegate.PromptFunc

// Dispatch delivers outcomes to listener until the channel closes.
var Dispatch = accountsync.Dispatch

// ErrAlreadyRunning is returned by Run on a second call.
var ErrAlreadyRunning = accountsync.ErrAlreadyRunning

// Client bundles a controller with the clients it was built from.
type Client struct {
	Controller  *Controller
	Verifier    *teslasoft.Verifier
	Permissions *delegate.FilePermissionGate
	Store       *sessions.FileStore
}

// New wires the session file, the core authenticator and the ID service
// described by cfg. view and prompt may be nil; without a prompt an
// ungranted permission is refused.
func New(cfg *config.Config, view View, prompt PromptFunc) *Client {
	store := sessions.NewFileStore(cfg.GetStoragePath())
	gate := delegate.NewFilePermissionGate(cfg.GetStoragePath(), prompt)

	auth := delegate.New(gate, delegate.NewExecLauncher(cfg.Core.Executable), cfg.Core.Component())
	auth.Timeout = cfg.Core.Timeout

	verifier := teslasoft.NewVerifier(teslasoft.Options{
		Endpoint: cfg.GetEndpoint(),
		Timeout:  cfg.Teslasoft.Timeout,
		Strict:   cfg.Teslasoft.Strict,
	})

	return &Client{
		Controller:  accountsync.New(store, auth, verifier, view),
		Verifier:    verifier,
		Permissions: gate,
		Store:       store,
	}
}

// NewSettingsClient returns the app settings client for cfg's app
// credentials, reading the session from the same store as the controller.
func (c *Client) NewSettingsClient(cfg *config.Config) *teslasoft.SettingsClient {
	return teslasoft.NewSettingsClient(teslasoft.Options{
		Endpoint: cfg.GetEndpoint(),
		Timeout:  cfg.Teslasoft.Timeout,
		Strict:   cfg.Teslasoft.Strict,
	}, c.Store, cfg.App.APIKey, cfg.App.AppID)
}

// Package delegate hands sign-in over to the separately installed core
// authenticator and decodes what it sends back.
package delegate

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/teslasoft/id-agent/internal/models"
)

// Delegate checks the account permission, launches the account picker and
// turns its raw answer into a models.DelegateResult.
type Delegate struct {
	gate      PermissionGate
	launcher  Launcher
	component string

	// Timeout bounds how long the picker may stay open. Zero waits forever.
	Timeout time.Duration
}

func New(gate PermissionGate, launcher Launcher, component string) *Delegate {
	return &Delegate{
		gate:      gate,
		launcher:  launcher,
		component: component,
	}
}

// Authenticate never returns an error; every failure is one of the
// result kinds so the caller has a single path to handle.
func (d *Delegate) Authenticate(ctx context.Context) models.DelegateResult {
	if !d.gate.Granted(PermissionAuthenticateAccounts) {
		granted, err := d.gate.Request(ctx, PermissionAuthenticateAccounts)
		if err != nil {
			logrus.WithError(err).Warnln("Permission request failed")
		}
		if err != nil || !granted {
			return models.DelegateResult{
				Kind: models.DelegatePermissionDenied,
				Code: models.ResultPermissionDenied,
				Err:  err,
			}
		}
	}

	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	code, extras, err := d.launcher.Launch(ctx, d.component)

	var result models.DelegateResult
	if err != nil {
		result = models.DecodeMalformedResult(code, err)
	} else {
		result = models.DecodeDelegateResult(code, extras)
	}

	entry := logrus.WithFields(logrus.Fields{
		"component": d.component,
		"code":      code,
		"result":    result.Kind.String(),
	})
	if result.Err != nil {
		entry = entry.WithError(result.Err)
	}
	entry.Debugln("Core authenticator finished")

	return result
}

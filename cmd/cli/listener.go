package cli

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/teslasoft/id-agent/internal/accountsync"
)

// consoleListener is the host side of a sync: it logs each outcome and
// prints a styled line for the user.
type consoleListener struct {
	out io.Writer
}

var _ accountsync.Listener = (*consoleListener)(nil)

func newConsoleListener(out io.Writer) *consoleListener {
	return &consoleListener{out: out}
}

func (l *consoleListener) OnAuthFinished(name string, email string, isDev bool, token string) {
	logrus.WithFields(logrus.Fields{
		"name":   name,
		"email":  email,
		"is_dev": isDev,
		"token":  len(token) > 0,
	}).Debugln("Account synced")

	fmt.Fprintln(l.out, successStyle.Render("✓ Signed in as "+name))
	fmt.Fprintf(l.out, "  %s %s\n", headerStyle.Render("Email:"), email)
	if isDev {
		fmt.Fprintf(l.out, "  %s\n", devBadgeStyle.Render("DEVELOPER"))
	}
}

func (l *consoleListener) OnAuthCanceled() {
	logrus.Debugln("Sign-in canceled")
	fmt.Fprintln(l.out, warningStyle.Render("Sign-in canceled"))
}

func (l *consoleListener) OnSignedOut() {
	logrus.Debugln("Signed out")
	fmt.Fprintln(l.out, infoStyle.Render("Signed out of Teslasoft ID"))
}

func (l *consoleListener) OnAuthFailed(state string, message string) {
	logrus.WithField("state", state).Debugln("Account sync failed")
	fmt.Fprintf(l.out, "%s %s\n", errorStyle.Render("✗ "+state), message)
}

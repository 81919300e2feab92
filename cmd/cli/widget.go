package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/teslasoft/id-agent/internal/accountsync"
	"github.com/teslasoft/id-agent/internal/delegate"
	"github.com/teslasoft/id-agent/internal/models"
)

type snapshotMsg accountsync.Snapshot

type outcomeMsg models.Outcome

// widgetCommands is the part of the controller the widget drives.
type widgetCommands interface {
	Tap()
	Refresh()
	SignOut()
}

type widgetModel struct {
	commands widgetCommands
	avatar   func(uid string) string
	snapshot accountsync.Snapshot
	spinner  spinner.Model
	status   string
	quitting bool
}

func newWidgetModel(commands widgetCommands, avatar func(uid string) string) widgetModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#3b82f6"))

	return widgetModel{
		commands: commands,
		avatar:   avatar,
		spinner:  s,
		// Nothing has been loaded yet
		snapshot: accountsync.Snapshot{Phase: accountsync.PhaseVerifying},
	}
}

func (m widgetModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m widgetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter", " ":
			m.status = ""
			m.commands.Tap()
		case "r":
			m.status = ""
			m.commands.Refresh()
		case "s":
			m.commands.SignOut()
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case snapshotMsg:
		m.snapshot = accountsync.Snapshot(msg)

	case outcomeMsg:
		m.status = describeOutcome(models.Outcome(msg))
	}

	return m, nil
}

func (m widgetModel) View() string {
	if m.quitting {
		return ""
	}

	var body strings.Builder

	switch {
	case m.snapshot.Loading():
		fmt.Fprintf(&body, "%s %s\n", m.spinner.View(), loadingText(m.snapshot.Phase))
		if len(m.snapshot.AccountID) > 0 {
			body.WriteString(mutedStyle.Render(m.snapshot.AccountID))
		}

	case m.snapshot.Phase == accountsync.PhaseSynced:
		account := m.snapshot.Account
		body.WriteString(headerStyle.Render(account.GetName()))
		if account.IsDev {
			body.WriteString(" " + devBadgeStyle.Render("DEV"))
		}
		body.WriteString("\n" + account.UserEmail)
		if m.avatar != nil && len(m.snapshot.AccountID) > 0 {
			body.WriteString("\n" + mutedStyle.Render(m.avatar(m.snapshot.AccountID)))
		}

	default:
		body.WriteString(headerStyle.Render("Sign in with Teslasoft ID"))
		body.WriteString("\n" + mutedStyle.Render("Sync your data across devices"))
	}

	view := titleStyle.Render("Teslasoft ID") + "\n" + cardStyle.Render(body.String())
	if len(m.status) > 0 {
		view += "\n" + m.status
	}
	view += "\n" + helpStyle.Render("enter: sign in • r: refresh • s: sign out • q: quit")

	return view
}

func loadingText(phase accountsync.Phase) string {
	if phase == accountsync.PhaseDelegating {
		return "Waiting for Teslasoft Core..."
	}
	return "Syncing account..."
}

func describeOutcome(outcome models.Outcome) string {
	switch outcome.Kind {
	case models.OutcomeFinished:
		return successStyle.Render("Account synced")
	case models.OutcomeCanceled:
		return warningStyle.Render("Sign-in canceled")
	case models.OutcomeSignedOut:
		return infoStyle.Render("Signed out")
	case models.OutcomeFailed:
		failure := outcome.Failure
		if failure == nil {
			failure = models.NewFailure(models.StateUnknown, "", nil)
		}
		return errorStyle.Render(failure.State) + " " + failure.Message
	}
	return ""
}

// programView forwards controller snapshots into the running program.
type programView struct {
	program *tea.Program
}

func (v *programView) Render(snapshot accountsync.Snapshot) {
	v.program.Send(snapshotMsg(snapshot))
}

// redirectLogs keeps log lines off the alternate screen.
func redirectLogs() (func(), error) {
	path := filepath.Join(cfg.GetStoragePath(), "tsid.log")
	if err := os.MkdirAll(cfg.GetStoragePath(), 0700); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	previous := logrus.StandardLogger().Out
	logrus.SetOutput(file)

	return func() {
		logrus.SetOutput(previous)
		file.Close()
	}, nil
}

// ensurePermission asks for the account permission before the widget takes
// over the terminal, since the prompt cannot be drawn on top of it.
func ensurePermission(ctx context.Context) error {
	gate := newPermissionGate(promptForPermission)
	if gate.Granted(delegate.PermissionAuthenticateAccounts) {
		return nil
	}

	granted, err := gate.Request(ctx, delegate.PermissionAuthenticateAccounts)
	if err != nil {
		return err
	}
	if !granted {
		fmt.Println(warningStyle.Render("Permission not granted. Signing in will be refused until you allow it."))
	}
	return nil
}

func runWidget(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if err := ensurePermission(ctx); err != nil {
		return err
	}

	restoreLogs, err := redirectLogs()
	if err != nil {
		return err
	}
	defer restoreLogs()

	view := &programView{}
	client := newClient(view, nil)
	ctrl := client.Controller

	program := tea.NewProgram(newWidgetModel(ctrl, client.Verifier.AvatarURL), tea.WithAltScreen())
	view.program = program

	stop := startController(ctx, ctrl)
	defer stop()

	go accountsync.Dispatch(ctx, ctrl.Outcomes(), accountsync.ListenerFuncs{
		Finished: func(name string, email string, isDev bool, token string) {
			program.Send(outcomeMsg(models.Finished(models.AccountInfo{
				UserName:  name,
				UserEmail: email,
				IsDev:     isDev,
			}, token)))
		},
		Canceled: func() {
			program.Send(outcomeMsg(models.Canceled()))
		},
		SignedOut: func() {
			program.Send(outcomeMsg(models.SignedOut()))
		},
		Failed: func(state string, message string) {
			program.Send(outcomeMsg(models.Failed(models.NewFailure(state, message, nil))))
		},
	})

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("widget failed: %w", err)
	}

	return nil
}

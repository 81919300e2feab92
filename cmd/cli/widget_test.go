package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/teslasoft/id-agent/internal/accountsync"
	"github.com/teslasoft/id-agent/internal/models"
)

type recordingCommands struct {
	taps, refreshes, signOuts int
}

func (r *recordingCommands) Tap()     { r.taps++ }
func (r *recordingCommands) Refresh() { r.refreshes++ }
func (r *recordingCommands) SignOut() { r.signOuts++ }

func key(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m widgetModel, msg tea.Msg) widgetModel {
	next, _ := m.Update(msg)
	return next.(widgetModel)
}

func TestWidgetModel_Keys(t *testing.T) {
	commands := &recordingCommands{}
	m := newWidgetModel(commands, nil)

	m = update(m, key("enter"))
	m = update(m, key("r"))
	m = update(m, key("s"))

	assert.Equal(t, 1, commands.taps)
	assert.Equal(t, 1, commands.refreshes)
	assert.Equal(t, 1, commands.signOuts)

	m = update(m, key("q"))
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
}

func TestWidgetModel_View(t *testing.T) {
	avatar := func(uid string) string { return "https://id.example/xauth/users/" + uid + ".png" }
	m := newWidgetModel(&recordingCommands{}, avatar)

	t.Run("loading", func(t *testing.T) {
		m := update(m, snapshotMsg{Phase: accountsync.PhaseDelegating})
		assert.Contains(t, m.View(), "Waiting for Teslasoft Core")
	})

	t.Run("disabled", func(t *testing.T) {
		m := update(m, snapshotMsg{Phase: accountsync.PhaseDisabled})
		assert.Contains(t, m.View(), "Sign in with Teslasoft ID")
	})

	t.Run("synced", func(t *testing.T) {
		m := update(m, snapshotMsg{
			Phase:     accountsync.PhaseSynced,
			AccountID: "u1",
			Account: models.AccountInfo{
				UserName:  "Ada",
				UserEmail: "ada@example.com",
				IsDev:     true,
			},
		})
		view := m.View()
		assert.Contains(t, view, "Ada")
		assert.Contains(t, view, "ada@example.com")
		assert.Contains(t, view, "DEV")
		assert.Contains(t, view, "users/u1.png")
	})

	t.Run("failure status", func(t *testing.T) {
		m := update(m, outcomeMsg(models.Failed(
			models.NewFailure(models.StateCoreUnavailable, models.MessageCoreUnavailable, nil),
		)))
		assert.Contains(t, m.View(), models.StateCoreUnavailable)
	})
}

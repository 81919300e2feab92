package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/teslasoft/id-agent/internal/accountsync"
	"github.com/teslasoft/id-agent/internal/models"
)

func TestConsoleListener(t *testing.T) {
	tests := []struct {
		name     string
		outcome  models.Outcome
		contains []string
		excludes []string
	}{
		{
			name: "finished developer",
			outcome: models.Finished(models.AccountInfo{
				UserName:  "Ada",
				UserEmail: "ada@example.com",
				IsDev:     true,
			}, "tok"),
			contains: []string{"Signed in as Ada", "ada@example.com", "DEVELOPER"},
			excludes: []string{"tok"},
		},
		{
			name:     "finished user",
			outcome:  models.Finished(models.AccountInfo{UserName: "Bob", UserEmail: "bob@example.com"}, ""),
			contains: []string{"Signed in as Bob"},
			excludes: []string{"DEVELOPER"},
		},
		{
			name:     "canceled",
			outcome:  models.Canceled(),
			contains: []string{"Sign-in canceled"},
		},
		{
			name:     "signed out",
			outcome:  models.SignedOut(),
			contains: []string{"Signed out"},
		},
		{
			name: "failed",
			outcome: models.Failed(
				models.NewFailure(models.StateNoInternet, models.MessageNoInternet, nil),
			),
			contains: []string{models.StateNoInternet, models.MessageNoInternet},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			accountsync.Deliver(newConsoleListener(&out), tt.outcome)

			for _, want := range tt.contains {
				assert.Contains(t, out.String(), want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, out.String(), unwanted)
			}
		})
	}
}

func TestOutcomeError(t *testing.T) {
	assert.NoError(t, outcomeError(models.Canceled()))
	assert.NoError(t, outcomeError(models.SignedOut()))

	err := outcomeError(models.Failed(
		models.NewFailure(models.StatePermissionDenied, models.MessagePermissionDenied, nil),
	))
	assert.ErrorIs(t, err, models.ErrPermissionDenied)
}

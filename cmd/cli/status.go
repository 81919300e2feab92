package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/teslasoft/id-agent/internal/accountsync"
	"github.com/teslasoft/id-agent/internal/common"
	"github.com/teslasoft/id-agent/internal/models"
	"github.com/teslasoft/id-agent/internal/teslasoft"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Verify the stored account with the ID service",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cleanup := common.WithInterrupt(cmd.Context())
	defer cleanup()

	session, err := newStore().Load()
	if err != nil {
		return fmt.Errorf("failed to read stored session: %w", err)
	}

	fmt.Println(titleStyle.Render("Teslasoft ID"))
	fmt.Printf("%s %s\n", headerStyle.Render("Endpoint:"), cfg.GetEndpoint())

	if !session.IsSignedIn() {
		fmt.Println(warningStyle.Render("Not signed in. Run 'tsid login' to sign in."))
		return nil
	}

	fmt.Printf("%s %s\n", headerStyle.Render("Account:"), session.AccountID)
	fmt.Printf("%s %s\n", headerStyle.Render("Avatar:"), teslasoft.AvatarURL(cfg.GetEndpoint(), session.AccountID))
	fmt.Println()

	// A stored session goes straight to verification
	ctrl := newClient(nil, nil).Controller
	stop := startController(ctx, ctrl)
	defer stop()

	outcome, err := awaitOutcome(ctx, ctrl.Outcomes())
	if err != nil {
		return err
	}

	accountsync.Deliver(newConsoleListener(cmd.OutOrStdout()), outcome)
	if outcome.Kind == models.OutcomeFailed && !isRetryable(outcome) {
		fmt.Println(mutedStyle.Render("The stored account was removed. Run 'tsid login' to sign in again."))
	}

	return outcomeError(outcome)
}

func isRetryable(outcome models.Outcome) bool {
	return outcome.Failure != nil && outcome.Failure.State == models.StateNoInternet
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

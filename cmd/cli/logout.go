package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/teslasoft/id-agent/internal/accountsync"
	"github.com/teslasoft/id-agent/internal/common"
	"github.com/teslasoft/id-agent/internal/delegate"
	"github.com/teslasoft/id-agent/internal/models"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and remove the stored account",
	RunE:  runLogout,
}

func runLogout(cmd *cobra.Command, args []string) error {
	ctx, cleanup := common.WithInterrupt(cmd.Context())
	defer cleanup()

	client := newClient(nil, nil)
	ctrl := client.Controller
	stop := startController(ctx, ctrl)
	defer stop()

	ctrl.SignOut()

	// A verify of the stored session may report first
	for {
		outcome, err := awaitOutcome(ctx, ctrl.Outcomes())
		if err != nil {
			return err
		}
		if outcome.Kind == models.OutcomeSignedOut {
			accountsync.Deliver(newConsoleListener(cmd.OutOrStdout()), outcome)
			break
		}
		logrus.WithField("outcome", outcome.Kind.String()).Debugln("Skipping outcome before sign-out")
	}

	revoke, _ := cmd.Flags().GetBool("revoke")
	if revoke {
		if err := client.Permissions.Revoke(delegate.PermissionAuthenticateAccounts); err != nil {
			return fmt.Errorf("failed to revoke permission: %w", err)
		}
		fmt.Println(mutedStyle.Render("Account permission revoked."))
	}

	return nil
}

func init() {
	logoutCmd.Flags().Bool("revoke", false, "Also revoke this app's permission to use your Teslasoft ID")
	rootCmd.AddCommand(logoutCmd)
}

package cli

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/teslasoft/id-agent/internal/accountsync"
	"github.com/teslasoft/id-agent/internal/common"
	"github.com/teslasoft/id-agent/internal/models"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with your Teslasoft ID",
	Long: `Opens the Teslasoft Core account picker and stores the chosen account.

If an account is already stored it is verified first and the picker is only
shown when that fails or --force is given.`,
	RunE: runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {

	// Set up signal handling for graceful cancellation
	ctx, cleanup := common.WithInterrupt(cmd.Context())
	defer cleanup()

	force, _ := cmd.Flags().GetBool("force")

	session, err := newStore().Load()
	if err != nil {
		return fmt.Errorf("failed to read stored session: %w", err)
	}

	ctrl := newClient(nil, promptForPermission).Controller
	stop := startController(ctx, ctrl)
	defer stop()

	listener := newConsoleListener(cmd.OutOrStdout())

	if session.IsSignedIn() {
		fmt.Println(infoStyle.Render("Verifying stored account..."))

		outcome, err := awaitOutcome(ctx, ctrl.Outcomes())
		if err != nil {
			return err
		}

		if outcome.Kind == models.OutcomeFinished && !force {
			accountsync.Deliver(listener, outcome)
			fmt.Println(mutedStyle.Render("Already signed in. Use --force to pick another account."))
			return nil
		}

		if outcome.Failure != nil && errors.Is(outcome.Failure, models.ErrNoInternet) {
			accountsync.Deliver(listener, outcome)
			return outcome.Failure
		}

		logrus.WithField("outcome", outcome.Kind.String()).Debugln("Stored account not usable, starting sign-in")
	}

	fmt.Println(infoStyle.Render("Waiting for Teslasoft Core..."))
	ctrl.Tap()

	outcome, err := awaitOutcome(ctx, ctrl.Outcomes())
	if err != nil {
		if errors.Is(err, ctx.Err()) {
			fmt.Println("\nLogin cancelled.")
		}
		return err
	}

	accountsync.Deliver(listener, outcome)
	return outcomeError(outcome)
}

func init() {
	loginCmd.Flags().BoolP("force", "f", false, "Pick an account even if one is already signed in")
	rootCmd.AddCommand(loginCmd)
}

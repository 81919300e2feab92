package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/teslasoft/id-agent/internal/accountsync"
	"github.com/teslasoft/id-agent/internal/common"
	"github.com/teslasoft/id-agent/internal/config"
	"github.com/teslasoft/id-agent/internal/delegate"
	"github.com/teslasoft/id-agent/internal/models"
	"github.com/teslasoft/id-agent/internal/sessions"
	"github.com/teslasoft/id-agent/sdk/account"
)

// Global configuration instance
var cfg *config.Config

// loadConfig loads the configuration based on the --config flag or default locations
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, err := cmd.Flags().GetString("config")

	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	return config.Load(configFile)
}

func preRunConfigE(cmd *cobra.Command, _ []string) error {
	// Load configuration before any command runs
	var err error
	cfg, err = loadConfig(cmd)

	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// check if verbose flag is set
	verbose, err := cmd.Flags().GetBool("verbose")
	if err == nil && verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	endpoint, err := cmd.Flags().GetString("endpoint")
	if err == nil && len(endpoint) > 0 {
		if !common.IsValidURL(endpoint) {
			return fmt.Errorf("invalid endpoint: %s", endpoint)
		}
		cfg.Teslasoft.Endpoint = endpoint
	}

	return nil
}

func newStore() *sessions.FileStore {
	return sessions.NewFileStore(cfg.GetStoragePath())
}

func newPermissionGate(prompt delegate.PromptFunc) *delegate.FilePermissionGate {
	return delegate.NewFilePermissionGate(cfg.GetStoragePath(), prompt)
}

// newClient wires the store, the core authenticator and the ID service
// into a sync controller. prompt may be nil when no terminal prompt can be
// shown, in which case an ungranted permission is refused.
func newClient(view accountsync.View, prompt delegate.PromptFunc) *account.Client {
	return account.New(cfg, view, prompt)
}

// promptForPermission asks the user to let this app use their Teslasoft ID.
func promptForPermission(ctx context.Context, permission string) (bool, error) {
	var allow bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Allow access to your Teslasoft ID?").
				Description(fmt.Sprintf("This app is asking for %s.\nYou can revoke it later with 'tsid logout --revoke'.", permission)).
				Affirmative("Allow").
				Negative("No thanks").
				Value(&allow),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return false, fmt.Errorf("permission prompt cancelled: %w", err)
	}

	return allow, nil
}

// awaitOutcome blocks until the controller reports the next outcome.
func awaitOutcome(ctx context.Context, outcomes <-chan models.Outcome) (models.Outcome, error) {
	select {
	case outcome, ok := <-outcomes:
		if !ok {
			return models.Outcome{}, fmt.Errorf("account sync stopped")
		}
		return outcome, nil
	case <-ctx.Done():
		return models.Outcome{}, ctx.Err()
	}
}

// startController runs ctrl until the returned stop function is called.
func startController(ctx context.Context, ctrl *accountsync.Controller) func() {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		if err := ctrl.Run(ctx); err != nil {
			logrus.WithError(err).Errorln("Account sync controller failed")
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

// outcomeError turns a failed outcome into the command's error.
func outcomeError(outcome models.Outcome) error {
	if outcome.Kind == models.OutcomeFailed && outcome.Failure != nil {
		return outcome.Failure
	}
	return nil
}

var rootCmd = &cobra.Command{
	Use:   "tsid",
	Short: "Teslasoft ID - sign in once, sync your account everywhere",
	Long: `tsid signs you in with your Teslasoft ID through the Teslasoft Core
authenticator and keeps your account session verified against the ID service.

Run without a subcommand to open the interactive sign-in widget.`,
	PersistentPreRunE: preRunConfigE,
	SilenceUsage:      true,
	RunE:              runWidget,
}

func init() {

	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is $HOME/.config/teslasoft/config.yaml)")
	rootCmd.PersistentFlags().String("endpoint", "", "Override the Teslasoft ID endpoint (e.g., http://localhost:8080)")

}

func GetCommandOptions() *cobra.Command {
	return rootCmd
}

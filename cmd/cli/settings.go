package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/teslasoft/id-agent/internal/common"
	"github.com/teslasoft/id-agent/internal/teslasoft"
)

var errNoAppCredentials = errors.New("app.api_key and app.app_id must be configured")

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Read and sync this app's settings with your Teslasoft ID",
}

var settingsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the settings stored for this app",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cleanup := common.WithInterrupt(cmd.Context())
		defer cleanup()

		client, err := newSettingsClient()
		if err != nil {
			return err
		}

		settings, err := client.AppSettings(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), settings)
		return nil
	},
}

var settingsPushCmd = &cobra.Command{
	Use:   "push [settings]",
	Short: "Replace the settings stored for this app",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cleanup := common.WithInterrupt(cmd.Context())
		defer cleanup()

		settings, err := settingsPayload(cmd, args)
		if err != nil {
			return err
		}

		client, err := newSettingsClient()
		if err != nil {
			return err
		}

		if err := client.SyncAppSettings(ctx, settings); err != nil {
			return err
		}

		fmt.Println(successStyle.Render("✓ Settings synced"))
		return nil
	},
}

func newSettingsClient() (*teslasoft.SettingsClient, error) {
	if !cfg.HasAppCredentials() {
		return nil, errNoAppCredentials
	}
	return newClient(nil, nil).NewSettingsClient(cfg), nil
}

// settingsPayload takes the settings from the argument or from --file.
func settingsPayload(cmd *cobra.Command, args []string) (string, error) {
	file, _ := cmd.Flags().GetString("file")

	switch {
	case len(args) > 0 && len(file) > 0:
		return "", errors.New("pass settings either as an argument or with --file, not both")
	case len(args) > 0:
		return args[0], nil
	case len(file) > 0:
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read settings file: %w", err)
		}
		return string(data), nil
	default:
		return "", errors.New("no settings given")
	}
}

func init() {
	settingsPushCmd.Flags().String("file", "", "Read the settings from a file")

	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsPushCmd)
	rootCmd.AddCommand(settingsCmd)
}

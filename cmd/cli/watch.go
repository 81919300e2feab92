package cli

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/teslasoft/id-agent/internal/accountsync"
	"github.com/teslasoft/id-agent/internal/common"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the stored account verified in the background",
	Long: `Verifies the stored account now and then again on every sync interval
until interrupted. A failed verification that is not a network problem
removes the stored account.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cleanup := common.WithInterrupt(cmd.Context())
	defer cleanup()

	interval := cfg.Sync.Interval
	if flag, err := cmd.Flags().GetDuration("interval"); err == nil && flag > 0 {
		interval = flag
	}

	ctrl := newClient(nil, nil).Controller
	stop := startController(ctx, ctrl)
	defer stop()

	go accountsync.Dispatch(ctx, ctrl.Outcomes(), newConsoleListener(cmd.OutOrStdout()))

	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	// The controller verifies once on start
	_, err := scheduler.Every(interval).WaitForSchedule().Do(func() {
		logrus.Debugln("Refreshing stored account")
		ctrl.Refresh()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule account refresh: %w", err)
	}

	scheduler.StartAsync()
	defer scheduler.Stop()

	fmt.Println(infoStyle.Render(fmt.Sprintf("Watching account, refreshing every %s. Press Ctrl+C to stop.", interval)))

	<-ctx.Done()
	return nil
}

func init() {
	watchCmd.Flags().Duration("interval", 0, "Refresh interval (default from sync.interval)")
	rootCmd.AddCommand(watchCmd)
}

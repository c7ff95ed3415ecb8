package daemon

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/isaacphi/tracetail/internal/appState"
	"github.com/isaacphi/tracetail/internal/scheduler"
)

var DaemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run scheduled maintenance jobs",
	Long: `Invoke the configured maintenance commands on their intervals. A PID file
ensures only one daemon runs at a time; job output goes to the structured log.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := appState.Get()

		jobs := make([]scheduler.Job, 0, len(app.Config.Daemon.Jobs))
		for _, j := range app.Config.Daemon.Jobs {
			jobs = append(jobs, scheduler.Job{
				Name:     j.Name,
				Command:  j.Command,
				Args:     j.Args,
				Interval: j.Interval,
			})
		}

		sched := scheduler.New(jobs, app.Config.Daemon.PIDFile, app.Config.Daemon.JobTimeout, app.Logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := sched.Run(ctx); err != nil {
			if errors.Is(err, scheduler.ErrAlreadyRunning) {
				return fmt.Errorf("another daemon is already running: %w", err)
			}
			return err
		}
		return nil
	},
}

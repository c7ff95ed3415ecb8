package watch

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/isaacphi/tracetail/internal/appState"
	"github.com/isaacphi/tracetail/internal/render"
	"github.com/isaacphi/tracetail/internal/supervisor"
)

var (
	maxIterations int
	delay         time.Duration
	logDir        string
)

var WatchCmd = &cobra.Command{
	Use:   "watch [-- agent command...]",
	Short: "Supervise an unattended agent loop",
	Long: `Run the agent command repeatedly, render its trace live, and tee the raw
output to a dated log file. Interrupt with Ctrl-C to stop and print a summary.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := appState.Get()

		cfg := supervisor.Config{
			Command:       app.Config.Watch.Command,
			Args:          app.Config.Watch.Args,
			MaxIterations: app.Config.Watch.MaxIterations,
			Delay:         app.Config.Watch.Delay,
			LogDir:        app.Config.Watch.LogDir,
		}
		if len(args) > 0 {
			cfg.Command = args[0]
			cfg.Args = args[1:]
		}
		if cmd.Flags().Changed("max-iterations") {
			cfg.MaxIterations = maxIterations
		}
		if cmd.Flags().Changed("delay") {
			cfg.Delay = delay
		}
		if cmd.Flags().Changed("log-dir") {
			cfg.LogDir = logDir
		}

		r := render.New(os.Stdout, render.Options{
			UnknownLimit:     app.Config.Render.UnknownLimit,
			TodoLimit:        app.Config.Render.TodoLimit,
			EditPreview:      app.Config.Render.EditPreview,
			DescriptionWidth: app.Config.Render.DescriptionWidth,
		})

		sup, err := supervisor.New(cfg, r, app.Logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		summary, err := sup.Run(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("\nrun %s stopped after %d %s in %s\n",
			summary.RunID, summary.Iterations, iterations(summary.Iterations),
			summary.Elapsed.Round(time.Second))
		return nil
	},
}

func iterations(n int) string {
	if n == 1 {
		return "iteration"
	}
	return "iterations"
}

func init() {
	WatchCmd.Flags().IntVar(&maxIterations, "max-iterations", 0, "Stop after this many iterations (0 = until interrupted)")
	WatchCmd.Flags().DurationVar(&delay, "delay", 5*time.Second, "Pause between iterations")
	WatchCmd.Flags().StringVar(&logDir, "log-dir", "logs", "Directory for dated raw output logs")
}

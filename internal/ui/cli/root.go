package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/isaacphi/tracetail/internal/appState"
	"github.com/isaacphi/tracetail/internal/config"
	configCmd "github.com/isaacphi/tracetail/internal/ui/cli/config"
	"github.com/isaacphi/tracetail/internal/ui/cli/daemon"
	"github.com/isaacphi/tracetail/internal/ui/cli/render"
	"github.com/isaacphi/tracetail/internal/ui/cli/watch"
)

var (
	logLevel string
	logFile  string
)

var rootCmd = &cobra.Command{
	Use:               "tracetail",
	Short:             "Live transcript renderer for agent traces",
	Long:              `tracetail renders line-delimited agent trace events as a readable transcript, supervises unattended agent loops, and schedules maintenance jobs.`,
	DisableAutoGenTag: true,
}

func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set logging level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file path (defaults to stderr)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		overrides := &config.RuntimeOverrides{}
		if logLevel != "" {
			overrides.LogLevel = &logLevel
		}
		if logFile != "" {
			overrides.LogFile = &logFile
		}
		return appState.Initialize(overrides)
	}

	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return appState.Cleanup()
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(
		render.RenderCmd,
		watch.WatchCmd,
		daemon.DaemonCmd,
		configCmd.ConfigCmd,
	)
}

package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/isaacphi/tracetail/internal/config"
)

var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the merged configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		return cfg.Print()
	},
}

// Package config implements the stratus config command.
package config

import (
	"fmt"

	"github.com/spf13/cobra"

	appconfig "github.com/voleary/stratus/internal/config"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate stratus configuration",
	}
	cmd.AddCommand(newValidateCommand())
	return cmd
}

func newValidateCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a config file without running anything",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := appconfig.LoadConfig(configFile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config OK: %d input(s), output %s, stale findings %q\n",
				len(cfg.Inputs), cfg.OutputDir, cfg.StalePolicy())
			for _, input := range cfg.Inputs {
				fmt.Fprintf(out, "  %s: %s\n", input.Scanner, input.Root)
			}
			if len(cfg.RemediationTables) > 0 {
				fmt.Fprintf(out, "  remediation tables: %v\n", cfg.RemediationTables)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "stratus.yaml", "path to the config file")
	return cmd
}

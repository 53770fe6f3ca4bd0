// Package aggregate implements the stratus aggregate command.
package aggregate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voleary/stratus/internal/config"
	"github.com/voleary/stratus/internal/pipeline"
	"github.com/voleary/stratus/pkg/logger"
)

// NewAggregateCommand creates the aggregate command.
func NewAggregateCommand() *cobra.Command {
	var (
		configFile string
		outputDir  string
	)

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Run one aggregation pass over configured scanner output",
		Long: `Aggregate parses every configured scanner input root, normalizes the
results into the canonical schema, merges them with the previous run, and
writes findings, CSV, and summary artifacts to the output directory.`,
		Example: `  stratus aggregate --config stratus.yaml
  stratus aggregate -c stratus.yaml -o /var/lib/stratus/results`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(configFile)
			if err != nil {
				return err
			}
			if outputDir != "" {
				cfg.OutputDir = outputDir
			}

			p, err := pipeline.New(cfg, logger.GetGlobalLogger())
			if err != nil {
				return err
			}

			summary, err := p.Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), pipeline.RenderSummary(summary))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "stratus.yaml", "path to the config file")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "override the configured output directory")

	return cmd
}

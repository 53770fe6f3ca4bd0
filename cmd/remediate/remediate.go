// Package remediate implements the stratus remediate command.
package remediate

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voleary/stratus/internal/config"
	"github.com/voleary/stratus/internal/models"
	"github.com/voleary/stratus/internal/remediation"
	"github.com/voleary/stratus/internal/storage"
	"github.com/voleary/stratus/pkg/logger"
)

// NewRemediateCommand creates the remediate command. It only renders a
// plan; nothing is ever executed against a cloud account.
func NewRemediateCommand() *cobra.Command {
	var (
		configFile string
		checkID    string
		resource   string
		severity   string
		outFile    string
	)

	cmd := &cobra.Command{
		Use:   "remediate",
		Short: "Render a dry-run remediation plan from the latest aggregation",
		Example: `  stratus remediate --config stratus.yaml
  stratus remediate -c stratus.yaml --check s3_bucket_default_encryption
  stratus remediate -c stratus.yaml --severity critical -w plan.txt`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(configFile)
			if err != nil {
				return err
			}

			if severity != "" && !models.Severity(severity).Valid() {
				return fmt.Errorf("invalid severity %q", severity)
			}

			log := logger.GetGlobalLogger()
			store, err := storage.NewStore(cfg.OutputDir, log)
			if err != nil {
				return err
			}

			findings, path, err := store.LoadLatest()
			if err != nil {
				return err
			}
			if path == "" {
				return fmt.Errorf("no aggregated findings in %s; run stratus aggregate first", cfg.OutputDir)
			}
			log.Info("Building remediation plan", "baseline", path, "findings", len(findings))

			resolver, err := remediation.NewResolver(log, cfg.RemediationTables...)
			if err != nil {
				return err
			}

			items := resolver.Plan(findings, remediation.Filter{
				CheckID:  checkID,
				Resource: resource,
				Severity: models.Severity(severity),
			})

			out := cmd.OutOrStdout()
			if outFile != "" {
				f, err := os.Create(outFile) //nolint:gosec // operator-chosen output path
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				out = f
			}
			return remediation.WritePlan(out, items)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "stratus.yaml", "path to the config file")
	cmd.Flags().StringVar(&checkID, "check", "", "only plan this check id")
	cmd.Flags().StringVar(&resource, "resource", "", "only plan this resource")
	cmd.Flags().StringVar(&severity, "severity", "", "only plan findings with this severity")
	cmd.Flags().StringVarP(&outFile, "write", "w", "", "write the plan to a file instead of stdout")

	return cmd
}

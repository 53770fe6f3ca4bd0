// Package list implements the stratus list command.
package list

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/voleary/stratus/internal/config"
	"github.com/voleary/stratus/internal/models"
	"github.com/voleary/stratus/internal/storage"
	"github.com/voleary/stratus/pkg/logger"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	var (
		configFile string
		dir        string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored aggregation runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			outputDir := dir
			if outputDir == "" {
				cfg, err := config.LoadConfig(configFile)
				if err != nil {
					return err
				}
				outputDir = cfg.OutputDir
			}

			store, err := storage.NewStore(outputDir, logger.GetGlobalLogger())
			if err != nil {
				return err
			}

			runs, err := store.ListRuns()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No aggregation runs found.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RUN TIME\tTOTAL\tCRITICAL\tHIGH\tARTIFACT")
			for _, run := range runs {
				total, critical, high := "-", "-", "-"
				if run.SummaryJSON != "" {
					if st, err := store.LoadSummary(run.SummaryJSON); err == nil {
						total = fmt.Sprintf("%d", st.Total)
						critical = fmt.Sprintf("%d", st.BySeverity[models.SeverityCritical])
						high = fmt.Sprintf("%d", st.BySeverity[models.SeverityHigh])
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					run.Timestamp.Format(time.RFC3339), total, critical, high, run.FindingsJSON)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "stratus.yaml", "path to the config file")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "read runs from this directory instead of the config")

	return cmd
}

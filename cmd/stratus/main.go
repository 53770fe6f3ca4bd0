// Command stratus aggregates raw cloud security scanner output into
// canonical, timestamped finding artifacts.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voleary/stratus/cmd/aggregate"
	configcmd "github.com/voleary/stratus/cmd/config"
	"github.com/voleary/stratus/cmd/list"
	"github.com/voleary/stratus/cmd/remediate"
	"github.com/voleary/stratus/pkg/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		debug     bool
		logFormat string
	)

	root := &cobra.Command{
		Use:   "stratus",
		Short: "Aggregate cloud security scanner findings",
		Long: `Stratus ingests raw scanner output (Prowler for AWS, ScoutSuite for
Azure), normalizes it into a canonical finding schema, merges it with the
previous run, and writes timestamped JSON and CSV artifacts together with
summary statistics.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.SetupLogger(debug, logFormat)
		},
	}

	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text or json)")

	root.AddCommand(aggregate.NewAggregateCommand())
	root.AddCommand(list.NewListCommand())
	root.AddCommand(remediate.NewRemediateCommand())
	root.AddCommand(configcmd.NewConfigCommand())

	return root
}

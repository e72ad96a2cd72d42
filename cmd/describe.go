package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/peekknuf/govdataqa/internal/profiler"
	"github.com/peekknuf/govdataqa/internal/report"
)

var describeSource sourceFlags

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Generate per-column statistics for one dataset",
	Long: `Profile every column of a dataset: inferred type, null and distinct
counts, mean and standard deviation of numeric columns and sample values.

Examples:
  govdataqa describe --csv escuelas.csv
  govdataqa describe --dataset gdxc-w37w --limit 5000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := describeSource.load(cmd.Context())
		if err != nil {
			return err
		}
		report.NewPrinter(os.Stdout, !noColor).Profile(ds.name, profiler.Profile(ds.table))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeSource.bind(describeCmd)
}

package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/peekknuf/govdataqa/internal/dimensions"
	"github.com/peekknuf/govdataqa/internal/report"
)

var dimensionsCmd = &cobra.Command{
	Use:   "dimensions",
	Short: "List the quality dimensions and their ranges",
	Run: func(cmd *cobra.Command, args []string) {
		report.NewPrinter(os.Stdout, !noColor).Dimensions(dimensions.All())
	},
}

func init() {
	rootCmd.AddCommand(dimensionsCmd)
}

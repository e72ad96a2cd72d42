package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/peekknuf/govdataqa/internal/conformity"
	"github.com/peekknuf/govdataqa/internal/report"
)

var (
	conformitySource sourceFlags
	conformityJSON   bool
)

var conformityCmd = &cobra.Command{
	Use:   "conformity",
	Short: "Explain reference-based conformity for one dataset",
	Long: `Detect department, municipality, year, coordinate and e-mail columns
and validate their values against reference data and ranges. Prints every
detected column with its counts and a few invalid samples.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := conformitySource.load(cmd.Context())
		if err != nil {
			return err
		}
		rep := conformity.New(referenceProvider(cmd.Context())).Validate(ds.table, ds.meta)
		if conformityJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		}
		report.NewPrinter(os.Stdout, !noColor).Conformity(rep)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(conformityCmd)
	conformitySource.bind(conformityCmd)
	conformityCmd.Flags().BoolVar(&conformityJSON, "json", false, "print the report as JSON")
}

package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/peekknuf/govdataqa/internal/dimensions"
	"github.com/peekknuf/govdataqa/internal/report"
	"github.com/peekknuf/govdataqa/internal/scoring"
)

var (
	scoreSource     sourceFlags
	scoreDimensions []string
	scoreFormat     string
	scoreDetails    bool
	scoreExponent   float64
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one dataset on every quality dimension",
	Long: `Load a dataset with its metadata and compute the quality dimensions.

Examples:
  govdataqa score --dataset gdxc-w37w
  govdataqa score --csv contratos.csv --meta contratos.meta.yaml
  govdataqa score --sqlite datos.db --query "SELECT * FROM escuelas" --format json
  govdataqa score --csv datos.csv --dimension completitud --dimension unicidad`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if scoreFormat != "text" && scoreFormat != "json" {
			return fmt.Errorf("unknown format %q", scoreFormat)
		}
		for _, d := range scoreDimensions {
			if _, ok := dimensions.Lookup(dimensions.Name(d)); !ok {
				return fmt.Errorf("%w: %q (see govdataqa dimensions)", scoring.ErrUnknownDimension, d)
			}
		}

		ds, err := scoreSource.load(cmd.Context())
		if err != nil {
			return err
		}

		opts := cfg.ScoringOptions()
		if cmd.Flags().Changed("exponent") {
			opts.UniquenessExponent = scoreExponent
		}
		session := scoring.NewSession(ds.table, ds.meta, referenceProvider(cmd.Context()), scoring.WithOptions(opts))

		var results []dimensions.Result
		if len(scoreDimensions) == 0 {
			results = session.Results()
		}
		for _, name := range dimensions.Names() {
			if !slices.Contains(scoreDimensions, string(name)) {
				continue
			}
			r, err := session.Score(name)
			if err != nil {
				return err
			}
			results = append(results, r)
		}

		summary := report.Summary{
			Source:  ds.name,
			Session: session.ID,
			Rows:    ds.table.RowCount(),
			Columns: ds.table.ColumnCount(),
			Results: results,
		}
		if scoreFormat == "json" {
			return report.JSON(os.Stdout, summary, scoreDetails)
		}
		report.NewPrinter(os.Stdout, !noColor).Scores(summary)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreSource.bind(scoreCmd)
	scoreCmd.Flags().StringSliceVar(&scoreDimensions, "dimension", nil,
		"only report these dimensions (repeatable)")
	scoreCmd.Flags().StringVar(&scoreFormat, "format", "text", "output format: text or json")
	scoreCmd.Flags().BoolVar(&scoreDetails, "details", false, "include calculator details in JSON output")
	scoreCmd.Flags().Float64Var(&scoreExponent, "exponent", dimensions.DefaultUniquenessExponent,
		"uniqueness penalty exponent k")
}

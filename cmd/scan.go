package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/peekknuf/govdataqa/internal/connectors"
	"github.com/peekknuf/govdataqa/internal/metadata"
	"github.com/peekknuf/govdataqa/internal/parser"
	"github.com/peekknuf/govdataqa/internal/reference"
	"github.com/peekknuf/govdataqa/internal/report"
	"github.com/peekknuf/govdataqa/internal/scoring"
)

var (
	dirPath   string
	recursive bool
	workers   int
	minSize   int64
	maxSize   int64
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Score every CSV dataset in a directory",
	Long: `Scan a directory for CSV files, pair each with its sidecar metadata
(<name>.meta.json, .meta.yaml or .meta.yml) and score them concurrently.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		datasets, err := connectors.DiscoverDatasets(dirPath, connectors.DiscoveryOptions{
			Recursive: recursive,
			MinSize:   minSize,
			MaxSize:   maxSize,
		})
		if err != nil {
			return err
		}

		n := workers
		if n <= 0 {
			n = cfg.Scan.Workers
		}

		bar := progressbar.NewOptions(len(datasets),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetDescription("[cyan][reset] Scoring datasets..."),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionShowCount(),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(os.Stderr)
			}),
		)

		start := time.Now()
		entries, err := scoreAll(cmd.Context(), datasets, n, referenceProvider(cmd.Context()), func() { _ = bar.Add(1) })
		_ = bar.Finish()
		if err != nil {
			return err
		}
		report.NewPrinter(os.Stdout, !noColor).Scan(entries, time.Since(start))
		return nil
	},
}

// scoreAll runs one scoring session per dataset with at most n in flight.
// Per-file failures are recorded in the entries; only cancellation aborts.
func scoreAll(ctx context.Context, datasets []connectors.Dataset, n int, refs reference.Provider, done func()) ([]report.ScanEntry, error) {
	entries := make([]report.ScanEntry, len(datasets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(n, len(datasets))))

	for i, ds := range datasets {
		i, ds := i, ds
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			entries[i] = scoreFile(ds, refs)
			if entries[i].Err != nil {
				log.Printf("Failed to score %s: %s", ds.Path, eris.ToString(entries[i].Err, false))
			}
			done()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

func scoreFile(ds connectors.Dataset, refs reference.Provider) report.ScanEntry {
	start := time.Now()
	entry := report.ScanEntry{Path: ds.Path, Size: ds.Size}

	t, err := parser.ReadFile(ds.Path, parser.DefaultParserConfig())
	if err != nil {
		entry.Err = err
		return entry
	}
	var meta metadata.Document
	if ds.HasMetadata() {
		if meta, err = metadata.Load(ds.MetadataPath); err != nil {
			entry.Err = err
			return entry
		}
	}

	session := scoring.NewSession(t, meta, refs, scoring.WithOptions(cfg.ScoringOptions()))
	entry.Summary = report.Summary{
		Source:  ds.Name,
		Session: session.ID,
		Rows:    t.RowCount(),
		Columns: t.ColumnCount(),
		Results: session.Results(),
	}
	entry.Elapsed = time.Since(start)
	return entry
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVarP(&dirPath, "dir", "d", "",
		"Directory to scan (required)")
	scanCmd.Flags().BoolVarP(&recursive, "recursive", "r", false,
		"Search directories recursively")
	scanCmd.Flags().IntVarP(&workers, "workers", "w", 0,
		"Datasets scored in parallel (default from config, CPU count)")
	scanCmd.Flags().Int64Var(&minSize, "min-size", 0,
		"Minimum file size in bytes")
	scanCmd.Flags().Int64Var(&maxSize, "max-size", 0,
		"Maximum file size in bytes")

	scanCmd.MarkFlagRequired("dir")
}

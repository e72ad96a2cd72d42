package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/peekknuf/govdataqa/internal/connectors"
	"github.com/peekknuf/govdataqa/internal/metadata"
	"github.com/peekknuf/govdataqa/internal/parser"
	"github.com/peekknuf/govdataqa/internal/reference"
	"github.com/peekknuf/govdataqa/internal/table"
)

// sourceFlags selects where a single dataset is read from.
type sourceFlags struct {
	dataset  string
	csvPath  string
	sqlite   string
	query    string
	metaPath string
	limit    int
}

func (f *sourceFlags) bind(c *cobra.Command) {
	c.Flags().StringVar(&f.dataset, "dataset", "", "Socrata dataset id (xxxx-xxxx)")
	c.Flags().StringVar(&f.csvPath, "csv", "", "CSV file to load")
	c.Flags().StringVar(&f.sqlite, "sqlite", "", "SQLite database to query")
	c.Flags().StringVar(&f.query, "query", "", "SQL query to run with --sqlite")
	c.Flags().StringVar(&f.metaPath, "meta", "", "metadata file (.json, .yaml); overrides remote metadata")
	c.Flags().IntVar(&f.limit, "limit", 0, "maximum rows to fetch from the portal (default from config)")
	c.MarkFlagsMutuallyExclusive("dataset", "csv", "sqlite")
	c.MarkFlagsOneRequired("dataset", "csv", "sqlite")
	c.MarkFlagsRequiredTogether("sqlite", "query")
}

// loaded is a dataset ready to score.
type loaded struct {
	name  string
	table *table.Table
	meta  metadata.Document
}

func (f *sourceFlags) load(ctx context.Context) (loaded, error) {
	var out loaded
	var err error

	switch {
	case f.dataset != "":
		client := socrataClient()
		out.name = f.dataset
		if out.table, err = client.FetchTable(ctx, f.dataset, f.limit); err != nil {
			return out, err
		}
		if f.metaPath == "" {
			out.meta, err = client.FetchMetadata(ctx, f.dataset)
			if errors.Is(err, connectors.ErrNotFound) {
				log.Printf("No metadata published for %s", f.dataset)
				err = nil
			}
			if err != nil {
				return out, err
			}
		}
	case f.csvPath != "":
		out.name = filepath.Base(f.csvPath)
		if out.table, err = parser.ReadFile(f.csvPath, parser.DefaultParserConfig()); err != nil {
			return out, err
		}
		if f.metaPath == "" {
			f.metaPath = connectors.Sidecar(f.csvPath)
		}
	case f.sqlite != "":
		out.name = fmt.Sprintf("%s: %s", filepath.Base(f.sqlite), f.query)
		if out.table, err = connectors.LoadSQLite(ctx, f.sqlite, f.query); err != nil {
			return out, err
		}
	}

	if f.metaPath != "" {
		if out.meta, err = metadata.Load(f.metaPath); err != nil {
			return out, err
		}
	}
	return out, nil
}

var remote *connectors.SocrataClient

func socrataClient() *connectors.SocrataClient {
	if remote != nil {
		return remote
	}
	remote = connectors.NewSocrataClient(cfg.SocrataConfig())
	if cfg.Cache.Enabled {
		cache, err := connectors.OpenRowCache(cfg.Cache.Dir, cfg.Cache.TTL)
		if err != nil {
			log.Printf("Row cache disabled: %s", eris.ToString(err, false))
		} else {
			remote.UseCache(cache)
		}
	}
	return remote
}

// referenceProvider builds the shared reference sets from configuration.
func referenceProvider(ctx context.Context) reference.Provider {
	var departments, municipalities reference.Loader
	if f := cfg.Reference.DepartmentsFile; f != "" {
		departments = reference.FromFile("departamentos", f, "departamento")
	}
	switch {
	case cfg.Reference.MunicipalitiesFile != "":
		municipalities = reference.FromFile("municipios", cfg.Reference.MunicipalitiesFile, cfg.Reference.MunicipalitiesColumn)
	case cfg.Reference.MunicipalitiesDataset != "":
		municipalities = reference.Fallback(
			socrataClient().ReferenceLoader(ctx, "municipios", cfg.Reference.MunicipalitiesDataset, cfg.Reference.MunicipalitiesColumn),
			reference.EmbeddedMunicipalities())
	}
	return reference.NewCached(departments, municipalities)
}

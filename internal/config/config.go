// Package config layers defaults, an optional YAML or TOML file and
// GOVDATAQA_* environment variables into one Config.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/peekknuf/govdataqa/internal/connectors"
	"github.com/peekknuf/govdataqa/internal/dimensions"
)

const envPrefix = "GOVDATAQA_"

// DefaultFile is looked up in the home directory when no file is given.
const DefaultFile = ".govdataqa.yaml"

type Config struct {
	Socrata   Socrata   `yaml:"socrata" toml:"socrata"`
	Cache     Cache     `yaml:"cache" toml:"cache"`
	Reference Reference `yaml:"reference" toml:"reference"`
	Scoring   Scoring   `yaml:"scoring" toml:"scoring"`
	Scan      Scan      `yaml:"scan" toml:"scan"`
}

type Socrata struct {
	Domain     string        `yaml:"domain" toml:"domain"`
	AppToken   string        `yaml:"app_token" toml:"app_token"`
	PageSize   int           `yaml:"page_size" toml:"page_size"`
	RowLimit   int           `yaml:"row_limit" toml:"row_limit"`
	RateLimit  float64       `yaml:"rate_limit" toml:"rate_limit"`
	Burst      int           `yaml:"burst" toml:"burst"`
	Timeout    time.Duration `yaml:"timeout" toml:"timeout"`
	MaxRetries int           `yaml:"max_retries" toml:"max_retries"`
}

type Cache struct {
	Dir     string        `yaml:"dir" toml:"dir"`
	Enabled bool          `yaml:"enabled" toml:"enabled"`
	TTL     time.Duration `yaml:"ttl" toml:"ttl"`
}

type Reference struct {
	DepartmentsFile       string `yaml:"departments_file" toml:"departments_file"`
	MunicipalitiesFile    string `yaml:"municipalities_file" toml:"municipalities_file"`
	MunicipalitiesDataset string `yaml:"municipalities_dataset" toml:"municipalities_dataset"`
	MunicipalitiesColumn  string `yaml:"municipalities_column" toml:"municipalities_column"`
}

type Scoring struct {
	UniquenessExponent   float64 `yaml:"uniqueness_exponent" toml:"uniqueness_exponent"`
	SimilarityValueLimit int     `yaml:"similarity_value_limit" toml:"similarity_value_limit"`
}

type Scan struct {
	Workers int `yaml:"workers" toml:"workers"`
}

func Default() Config {
	sc := connectors.DefaultSocrataConfig()
	opts := dimensions.DefaultOptions()
	return Config{
		Socrata: Socrata{
			Domain:     sc.Domain,
			PageSize:   sc.PageSize,
			RowLimit:   sc.RowLimit,
			RateLimit:  sc.RateLimit,
			Burst:      sc.RateBurst,
			Timeout:    sc.Timeout,
			MaxRetries: sc.MaxRetries,
		},
		Cache: Cache{Enabled: true, TTL: 24 * time.Hour},
		Reference: Reference{
			MunicipalitiesColumn: "nom_mpio",
		},
		Scoring: Scoring{
			UniquenessExponent:   opts.UniquenessExponent,
			SimilarityValueLimit: opts.SimilarityValueLimit,
		},
		Scan: Scan{Workers: runtime.NumCPU()},
	}
}

// Load builds the configuration. An empty path falls back to
// ~/.govdataqa.yaml when that file exists.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			candidate := filepath.Join(home, DefaultFile)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, c); err != nil {
			return eris.Wrapf(err, "config: parse %s", path)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return eris.Wrapf(err, "config: read %s", path)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return eris.Wrapf(err, "config: parse %s", path)
		}
	default:
		return eris.Errorf("config: unsupported file type %q", filepath.Ext(path))
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok {
			*dst = v
		}
	}
	str("DOMAIN", &c.Socrata.Domain)
	str("APP_TOKEN", &c.Socrata.AppToken)
	str("CACHE_DIR", &c.Cache.Dir)
	str("DEPARTMENTS_FILE", &c.Reference.DepartmentsFile)
	str("MUNICIPALITIES_FILE", &c.Reference.MunicipalitiesFile)
	str("MUNICIPALITIES_DATASET", &c.Reference.MunicipalitiesDataset)

	if v, ok := lookup(envPrefix + "ROW_LIMIT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return eris.Wrapf(err, "config: %sROW_LIMIT", envPrefix)
		}
		c.Socrata.RowLimit = n
	}
	if v, ok := lookup(envPrefix + "CACHE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return eris.Wrapf(err, "config: %sCACHE", envPrefix)
		}
		c.Cache.Enabled = b
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Socrata.PageSize <= 0 {
		errs = append(errs, errors.New("socrata.page_size must be positive"))
	}
	if c.Socrata.RowLimit <= 0 {
		errs = append(errs, errors.New("socrata.row_limit must be positive"))
	}
	if c.Scoring.UniquenessExponent <= 0 {
		errs = append(errs, errors.New("scoring.uniqueness_exponent must be positive"))
	}
	if c.Scan.Workers < 0 {
		errs = append(errs, errors.New("scan.workers must not be negative"))
	}
	if ds := c.Reference.MunicipalitiesDataset; ds != "" && !connectors.ValidDatasetID(ds) {
		errs = append(errs, eris.Errorf("reference.municipalities_dataset %q is not a dataset id", ds))
	}
	if len(errs) > 0 {
		return eris.Wrap(errors.Join(errs...), "config: invalid")
	}
	return nil
}

// SocrataConfig converts the socrata section for the API client.
func (c Config) SocrataConfig() connectors.SocrataConfig {
	return connectors.SocrataConfig{
		Domain:     c.Socrata.Domain,
		AppToken:   c.Socrata.AppToken,
		PageSize:   c.Socrata.PageSize,
		RowLimit:   c.Socrata.RowLimit,
		RateLimit:  c.Socrata.RateLimit,
		RateBurst:  c.Socrata.Burst,
		Timeout:    c.Socrata.Timeout,
		MaxRetries: c.Socrata.MaxRetries,
	}
}

func (c Config) ScoringOptions() dimensions.Options {
	return dimensions.Options{
		UniquenessExponent:   c.Scoring.UniquenessExponent,
		SimilarityValueLimit: c.Scoring.SimilarityValueLimit,
	}
}

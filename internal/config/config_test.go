package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, name := range []string{"DOMAIN", "APP_TOKEN", "ROW_LIMIT", "CACHE", "CACHE_DIR",
		"DEPARTMENTS_FILE", "MUNICIPALITIES_FILE", "MUNICIPALITIES_DATASET"} {
		os.Unsetenv(envPrefix + name)
	}
}

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Socrata.Domain != "www.datos.gov.co" {
		t.Errorf("Expected default domain, got %s", cfg.Socrata.Domain)
	}
	if cfg.Socrata.PageSize != 1000 || cfg.Socrata.RowLimit != 50000 {
		t.Errorf("Expected page 1000 / limit 50000, got %d / %d", cfg.Socrata.PageSize, cfg.Socrata.RowLimit)
	}
	if cfg.Scoring.UniquenessExponent != 1.5 {
		t.Errorf("Expected exponent 1.5, got %f", cfg.Scoring.UniquenessExponent)
	}
	if cfg.Reference.MunicipalitiesColumn != "nom_mpio" {
		t.Errorf("Expected nom_mpio, got %s", cfg.Reference.MunicipalitiesColumn)
	}
}

func TestLoadYAML(t *testing.T) {
	isolate(t)
	path := write(t, "cfg.yaml", `
socrata:
  domain: datos.example.org
  page_size: 200
  timeout: 5s
scoring:
  uniqueness_exponent: 2
reference:
  municipalities_dataset: gdxc-w37w
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Socrata.Domain != "datos.example.org" || cfg.Socrata.PageSize != 200 {
		t.Errorf("Expected overrides, got %+v", cfg.Socrata)
	}
	if cfg.Socrata.Timeout != 5*time.Second {
		t.Errorf("Expected 5s timeout, got %v", cfg.Socrata.Timeout)
	}
	if cfg.Socrata.RowLimit != 50000 {
		t.Errorf("Expected untouched default row limit, got %d", cfg.Socrata.RowLimit)
	}
	if cfg.ScoringOptions().UniquenessExponent != 2 {
		t.Errorf("Expected exponent 2, got %f", cfg.ScoringOptions().UniquenessExponent)
	}
}

func TestLoadTOML(t *testing.T) {
	isolate(t)
	path := write(t, "cfg.toml", `
[socrata]
app_token = "abc"
row_limit = 1000

[scan]
workers = 3
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Socrata.AppToken != "abc" || cfg.Socrata.RowLimit != 1000 {
		t.Errorf("Expected TOML overrides, got %+v", cfg.Socrata)
	}
	if cfg.Scan.Workers != 3 {
		t.Errorf("Expected 3 workers, got %d", cfg.Scan.Workers)
	}
	if sc := cfg.SocrataConfig(); sc.AppToken != "abc" || sc.RateBurst != 5 {
		t.Errorf("Expected client config to carry values, got %+v", sc)
	}
}

func TestHomeDefaultFile(t *testing.T) {
	isolate(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.WriteFile(filepath.Join(home, DefaultFile), []byte("scan:\n  workers: 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Scan.Workers != 7 {
		t.Errorf("Expected 7 workers from home file, got %d", cfg.Scan.Workers)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	isolate(t)
	path := write(t, "cfg.yaml", "socrata:\n  domain: from-file.org\n")
	t.Setenv("GOVDATAQA_DOMAIN", "from-env.org")
	t.Setenv("GOVDATAQA_ROW_LIMIT", "123")
	t.Setenv("GOVDATAQA_CACHE", "false")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Socrata.Domain != "from-env.org" {
		t.Errorf("Expected env to win over file, got %s", cfg.Socrata.Domain)
	}
	if cfg.Socrata.RowLimit != 123 {
		t.Errorf("Expected row limit 123, got %d", cfg.Socrata.RowLimit)
	}
	if cfg.Cache.Enabled {
		t.Errorf("Expected cache disabled")
	}

	t.Setenv("GOVDATAQA_ROW_LIMIT", "many")
	if _, err := Load(path); err == nil {
		t.Errorf("Expected error for non-numeric row limit")
	}
}

func TestLoadErrors(t *testing.T) {
	isolate(t)
	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(t.TempDir(), "nope.yaml")},
		{"unsupported extension", write(t, "cfg.ini", "x=1")},
		{"bad yaml", write(t, "bad.yaml", "socrata: [")},
		{"invalid values", write(t, "neg.yaml", "socrata:\n  page_size: -1\n")},
		{"invalid dataset id", write(t, "id.yaml", "reference:\n  municipalities_dataset: municipios\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.path); err == nil {
				t.Errorf("Expected error")
			}
		})
	}
}

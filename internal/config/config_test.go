package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
[[datasources]]
name = "movies"
root = "/movies"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Scraper.Threshold != 0.75 {
		t.Errorf("Threshold = %v, want 0.75", cfg.Scraper.Threshold)
	}
	if cfg.Scraper.Workers != 3 {
		t.Errorf("Scraper.Workers = %d, want 3", cfg.Scraper.Workers)
	}
	if cfg.Scanner.Workers != 4 {
		t.Errorf("Scanner.Workers = %d, want 4", cfg.Scanner.Workers)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if len(cfg.Scanner.SkipFolders) == 0 {
		t.Error("SkipFolders default not applied")
	}
	if len(cfg.Datasources) != 1 || cfg.Datasources[0].Root != "/movies" {
		t.Errorf("Datasources = %+v", cfg.Datasources)
	}
}

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("MEDIARR_TEST_ROOT", "/srv/media")
	path := writeConfig(t, `
[[datasources]]
root = "${MEDIARR_TEST_ROOT}"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Datasources[0].Root != "/srv/media" {
		t.Errorf("Root = %q, want /srv/media", cfg.Datasources[0].Root)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.toml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	root := t.TempDir()
	cfg := &Config{
		Datasources: []DatasourceConfig{{Name: "m", Root: root}},
		Scraper:     ScraperConfig{Threshold: 0.75, Workers: 3},
		Scanner:     ScannerConfig{Workers: 4},
	}
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("unexpected validation errors: %v", errs)
	}

	cfg.Scraper.Threshold = 1.5
	if errs := cfg.Validate(); len(errs) == 0 {
		t.Error("expected error for out-of-range threshold")
	}
}

func TestValidate_NoDatasources(t *testing.T) {
	cfg := &Config{Scraper: ScraperConfig{Threshold: 0.5, Workers: 1}, Scanner: ScannerConfig{Workers: 1}}
	if errs := cfg.Validate(); len(errs) == 0 {
		t.Error("expected error for missing datasources")
	}
}

func TestValidate_DuplicateRoots(t *testing.T) {
	root := t.TempDir()
	cfg := &Config{
		Datasources: []DatasourceConfig{{Root: root}, {Root: root}},
		Scraper:     ScraperConfig{Threshold: 0.5, Workers: 1},
		Scanner:     ScannerConfig{Workers: 1},
	}
	if errs := cfg.Validate(); len(errs) == 0 {
		t.Error("expected error for duplicate roots")
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesTemplates(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	for _, name := range []string{"config.toml", "credentials.toml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("template %s not created: %v", name, err)
		}
	}

	if cfg.Quotes.BaseURL == "" {
		t.Error("BaseURL default not applied")
	}
	if cfg.Quotes.MasterURL == "" {
		t.Error("MasterURL default not applied")
	}
	if cfg.Data.Dir == "" {
		t.Error("data dir default not applied")
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `[data]
dir = "/tmp/scanner-data"

[quotes]
base_url = "https://example.test/v3"
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Data.Dir != "/tmp/scanner-data" {
		t.Errorf("Data.Dir = %q, want /tmp/scanner-data", cfg.Data.Dir)
	}
	if cfg.Quotes.BaseURL != "https://example.test/v3" {
		t.Errorf("Quotes.BaseURL = %q, want the configured URL", cfg.Quotes.BaseURL)
	}
	if cfg.Data.MasterPath != filepath.Join("/tmp/scanner-data", "NSE.json") {
		t.Errorf("Data.MasterPath = %q, want it derived from the data dir", cfg.Data.MasterPath)
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("UPSTOX_ACCESS_TOKEN", "env-token")
	t.Setenv("SCANNER_DATA_DIR", filepath.Join(dir, "env-data"))

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Credentials.Upstox.AccessToken != "env-token" {
		t.Errorf("AccessToken = %q, want env-token", cfg.Credentials.Upstox.AccessToken)
	}
	if cfg.Data.Dir != filepath.Join(dir, "env-data") {
		t.Errorf("Data.Dir = %q, want the env override", cfg.Data.Dir)
	}
}

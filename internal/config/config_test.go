package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 9000
dashboard:
  provider: github
  organization: acme
  team: core
  default_window_days: 7
providers:
  github:
    token: abc123
cache:
  stale_after_minutes: 2
  refresh_interval_minutes: 15
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Dashboard.Organization != "acme" || cfg.Dashboard.Team != "core" {
		t.Errorf("Dashboard = %s/%s, want acme/core", cfg.Dashboard.Organization, cfg.Dashboard.Team)
	}
	if cfg.Cache.StaleAfterMinutes != 2 {
		t.Errorf("Cache.StaleAfterMinutes = %d, want 2", cfg.Cache.StaleAfterMinutes)
	}
	// Unset sections keep their defaults
	if cfg.Cache.RefreshDebounceSeconds != 5 {
		t.Errorf("Cache.RefreshDebounceSeconds = %d, want default 5", cfg.Cache.RefreshDebounceSeconds)
	}
	if cfg.Logging.RetentionDays != 14 {
		t.Errorf("Logging.RetentionDays = %d, want default 14", cfg.Logging.RetentionDays)
	}
}

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("TEAMPULSE_TEST_TOKEN", "secret-token")

	path := writeConfig(t, `
dashboard:
  organization: acme
  team: core
providers:
  github:
    token: ${TEAMPULSE_TEST_TOKEN}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Providers.GitHub.Token != "secret-token" {
		t.Errorf("GitHub.Token = %q, want %q", cfg.Providers.GitHub.Token, "secret-token")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() error = nil for missing file, want error")
	}
}

func TestLoad_MissingOrganization(t *testing.T) {
	path := writeConfig(t, `
dashboard:
  team: core
`)

	if _, err := Load(path); err == nil {
		t.Error("Load() error = nil for missing organization, want validation error")
	}
}

func TestLoad_BadProvider(t *testing.T) {
	path := writeConfig(t, `
dashboard:
  provider: sourceforge
  organization: acme
  team: core
`)

	if _, err := Load(path); err == nil {
		t.Error("Load() error = nil for unknown provider, want validation error")
	}
}

func TestLoad_BadWindowChoice(t *testing.T) {
	path := writeConfig(t, `
dashboard:
  organization: acme
  team: core
  default_window_days: 12
`)

	if _, err := Load(path); err == nil {
		t.Error("Load() error = nil for window outside {0,7,14,30}, want validation error")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Dashboard.DefaultWindowDays != 14 {
		t.Errorf("Dashboard.DefaultWindowDays = %d, want 14", cfg.Dashboard.DefaultWindowDays)
	}
	if cfg.Cache.StaleAfterMinutes != 3 || cfg.Cache.RefreshIntervalMinutes != 10 {
		t.Errorf("Cache defaults = %d/%d, want 3/10",
			cfg.Cache.StaleAfterMinutes, cfg.Cache.RefreshIntervalMinutes)
	}
}

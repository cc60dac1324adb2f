package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromFile_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Monitor.Listen != ":8080" {
		t.Fatalf("default listen got=%q", cfg.Monitor.Listen)
	}
	if cfg.Dashboard.PollIntervalSec != 10 {
		t.Fatalf("default poll interval got=%d", cfg.Dashboard.PollIntervalSec)
	}
	if cfg.Dashboard.Theme != "dark" {
		t.Fatalf("default theme got=%q", cfg.Dashboard.Theme)
	}
	if len(cfg.Dashboard.Timezones) == 0 || cfg.Dashboard.Timezones[0] != "UTC" {
		t.Fatalf("default timezones got=%v", cfg.Dashboard.Timezones)
	}
}

func TestLoadFromFile_OverridesAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
monitor:
  listen: ":9090"
  db_path: "data/x.db"
dashboard:
  base_url: "http://10.0.0.5:9090"
  poll_interval_sec: 5
  theme: light
log_level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Monitor.Listen != ":9090" {
		t.Fatalf("listen got=%q", cfg.Monitor.Listen)
	}
	if cfg.Dashboard.PollIntervalSec != 5 {
		t.Fatalf("poll interval got=%d", cfg.Dashboard.PollIntervalSec)
	}
	if cfg.Dashboard.Theme != "light" {
		t.Fatalf("theme got=%q", cfg.Dashboard.Theme)
	}
	// 没写的字段补默认
	if cfg.Monitor.TradesCSV != "logs/trades.csv" {
		t.Fatalf("trades csv default got=%q", cfg.Monitor.TradesCSV)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cfg := Default()
	cfg.Dashboard.BaseURL = "ftp://nope"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("non-http base_url should fail")
	}

	cfg = Default()
	cfg.Dashboard.Theme = "solarized"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("unknown theme should fail")
	}

	cfg = Default()
	cfg.Dashboard.Timezones = []string{"Mars/Olympus"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("unknown timezone should fail")
	}
}

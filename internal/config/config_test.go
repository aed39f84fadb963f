package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Grid.CellWidth != 80 || cfg.Grid.CellHeight != 30 {
		t.Errorf("expected 80x30 cells, got %vx%v", cfg.Grid.CellWidth, cfg.Grid.CellHeight)
	}
	if cfg.Search.DebounceMS != 200 {
		t.Errorf("expected debounce_ms 200, got %d", cfg.Search.DebounceMS)
	}
	keys := cfg.SourceKeys()
	if len(keys) != 2 || keys[0] != "majors" || keys[1] != "liberal-arts" {
		t.Errorf("unexpected default sources %v", keys)
	}
	if cfg.UI.Theme != "mocha" {
		t.Errorf("expected theme mocha, got %s", cfg.UI.Theme)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should return defaults
	if cfg.Grid.CellWidth != 80 {
		t.Errorf("expected default cell_width, got %v", cfg.Grid.CellWidth)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[grid]
cell_width = 100
cell_height = 24

[catalog]
tolerate_partial = true

[[catalog.sources]]
key = "majors"
kind = "csv"
location = "/data/majors.csv"

[[catalog.sources]]
key = "mirror"
kind = "sqlite"

[search]
debounce_ms = 50

[dataset]
path = "/data/tables.toml"

[storage]
db_path = "/tmp/test.db"

[ui]
theme = "latte"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Grid.CellWidth != 100 || cfg.Grid.CellHeight != 24 {
		t.Errorf("expected 100x24 cells, got %vx%v", cfg.Grid.CellWidth, cfg.Grid.CellHeight)
	}
	// Unset fields keep their defaults
	if cfg.Grid.HeaderWidth != 120 {
		t.Errorf("expected default header_width, got %v", cfg.Grid.HeaderWidth)
	}
	if !cfg.Catalog.AllowPartial {
		t.Error("expected tolerate_partial true")
	}
	if len(cfg.Catalog.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(cfg.Catalog.Sources))
	}
	src, ok := cfg.Source("majors")
	if !ok || src.Kind != "csv" || src.Location != "/data/majors.csv" {
		t.Errorf("unexpected majors source %+v", src)
	}
	if cfg.Search.DebounceMS != 50 {
		t.Errorf("expected debounce_ms 50, got %d", cfg.Search.DebounceMS)
	}
	if cfg.Dataset.Path != "/data/tables.toml" {
		t.Errorf("expected dataset path, got %s", cfg.Dataset.Path)
	}
	if cfg.Storage.DBPath != "/tmp/test.db" {
		t.Errorf("expected db_path /tmp/test.db, got %s", cfg.Storage.DBPath)
	}
	if cfg.UI.Theme != "latte" {
		t.Errorf("expected theme latte, got %s", cfg.UI.Theme)
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[grid]
cell_width = 90
cell_height = 20

[storage]
db_path = "/tmp/test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("TIMETABLE_CELL_WIDTH", "64")
	t.Setenv("TIMETABLE_DEBOUNCE_MS", "0")
	t.Setenv("TIMETABLE_TOLERATE_PARTIAL", "true")
	t.Setenv("TIMETABLE_CATALOG_BASE_URL", "http://example.test/data")
	t.Setenv("TIMETABLE_UI_THEME", "frappe")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Env should override file
	if cfg.Grid.CellWidth != 64 {
		t.Errorf("expected cell_width 64 from env, got %v", cfg.Grid.CellWidth)
	}
	// File value should be kept when no env override
	if cfg.Grid.CellHeight != 20 {
		t.Errorf("expected cell_height 20 from file, got %v", cfg.Grid.CellHeight)
	}
	if cfg.Search.DebounceMS != 0 {
		t.Errorf("expected debounce_ms 0 from env, got %d", cfg.Search.DebounceMS)
	}
	if !cfg.Catalog.AllowPartial {
		t.Error("expected tolerate_partial from env")
	}
	src, _ := cfg.Source("majors")
	if src.Location != "http://example.test/data/schedules-majors.json" {
		t.Errorf("expected rewritten location, got %s", src.Location)
	}
	if cfg.UI.Theme != "frappe" {
		t.Errorf("expected theme frappe from env, got %s", cfg.UI.Theme)
	}
}

func TestLoadFrom_InvalidEnv(t *testing.T) {
	t.Setenv("TIMETABLE_CELL_HEIGHT", "tall")
	if _, err := LoadFrom("/nonexistent/path/config.toml"); err == nil {
		t.Error("expected error for a non-numeric cell height")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero cell width", func(c *Config) { c.Grid.CellWidth = 0 }},
		{"negative header", func(c *Config) { c.Grid.HeaderHeight = -1 }},
		{"negative debounce", func(c *Config) { c.Search.DebounceMS = -5 }},
		{"no sources", func(c *Config) { c.Catalog.Sources = nil }},
		{"source without key", func(c *Config) { c.Catalog.Sources[0].Key = "" }},
		{"duplicate source", func(c *Config) { c.Catalog.Sources[1].Key = c.Catalog.Sources[0].Key }},
		{"unknown kind", func(c *Config) { c.Catalog.Sources[0].Kind = "ftp" }},
		{"missing location", func(c *Config) { c.Catalog.Sources[0].Location = "" }},
		{"empty db path", func(c *Config) { c.Storage.DBPath = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_SQLiteSourceNeedsNoLocation(t *testing.T) {
	cfg := Default()
	cfg.Catalog.Sources = []SourceConfig{{Key: "majors", Kind: "sqlite"}}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/test.db", filepath.Join(home, "test.db")},
		{"/absolute/path.db", "/absolute/path.db"},
		{"relative/path.db", "relative/path.db"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := expandPath(tc.input)
			if got != tc.want {
				t.Errorf("expandPath(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.toml")

	cfg := Default()
	cfg.Grid.CellWidth = 72
	cfg.Catalog.Sources = append(cfg.Catalog.Sources, SourceConfig{Key: "local", Kind: "file", Location: "/data/local.json"})
	cfg.Search.DebounceMS = 120

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Grid.CellWidth != 72 {
		t.Errorf("expected cell_width 72, got %v", loaded.Grid.CellWidth)
	}
	if len(loaded.Catalog.Sources) != 3 {
		t.Errorf("expected 3 sources, got %d", len(loaded.Catalog.Sources))
	}
	if loaded.Search.DebounceMS != 120 {
		t.Errorf("expected debounce_ms 120, got %d", loaded.Search.DebounceMS)
	}
}

func TestLoadFrom_SourcesReplaceDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `
[[catalog.sources]]
key = "local"
kind = "file"
location = "/data/local.json"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if keys := cfg.SourceKeys(); len(keys) != 1 || keys[0] != "local" {
		t.Errorf("expected only the file's source, got %v", keys)
	}
}

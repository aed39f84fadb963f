// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the application configuration.
type Config struct {
	Grid    GridConfig    `toml:"grid"`
	Catalog CatalogConfig `toml:"catalog"`
	Search  SearchConfig  `toml:"search"`
	Dataset DatasetConfig `toml:"dataset"`
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
	Log     LogConfig     `toml:"log"`
}

// GridConfig holds the pixel geometry of the timetable grid.
type GridConfig struct {
	CellWidth    float64 `toml:"cell_width"`
	CellHeight   float64 `toml:"cell_height"`
	HeaderWidth  float64 `toml:"header_width"`  // period label column
	HeaderHeight float64 `toml:"header_height"` // day label row
}

// CatalogConfig lists the lecture catalog sources.
type CatalogConfig struct {
	Sources      []SourceConfig `toml:"sources"`
	AllowPartial bool           `toml:"tolerate_partial"` // use the sources that loaded when others fail
}

// SourceConfig describes one catalog source.
type SourceConfig struct {
	Key      string `toml:"key"`
	Kind     string `toml:"kind"`     // "http", "file", "csv", "sqlite"
	Location string `toml:"location"` // URL or path; unused for sqlite
}

// SearchConfig holds search settings.
type SearchConfig struct {
	DebounceMS int `toml:"debounce_ms"`
}

// DatasetConfig points at the initial timetable dataset.
type DatasetConfig struct {
	Path string `toml:"path"` // empty uses the built-in dataset
}

// StorageConfig holds the catalog mirror settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "macchiato", "frappe", "latte"
}

// LogConfig holds event log settings.
type LogConfig struct {
	Path string `toml:"path"` // empty disables the log unless --debug is set
}

// DefaultBaseURL serves the two catalog files during local development.
const DefaultBaseURL = "http://localhost:5173/"

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			CellWidth:    80,
			CellHeight:   30,
			HeaderWidth:  120,
			HeaderHeight: 40,
		},
		Catalog: CatalogConfig{
			Sources: []SourceConfig{
				{Key: "majors", Kind: "http", Location: DefaultBaseURL + "schedules-majors.json"},
				{Key: "liberal-arts", Kind: "http", Location: DefaultBaseURL + "schedules-liberal-arts.json"},
			},
		},
		Search: SearchConfig{
			DebounceMS: 200,
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme: "mocha",
		},
	}
}

// defaultDBPath returns the default catalog mirror path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "timetable.db"
	}
	return filepath.Join(home, ".local", "share", "timetable", "timetable.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "timetable", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Dataset.Path = expandPath(cfg.Dataset.Path)
	cfg.Log.Path = expandPath(cfg.Log.Path)
	for i, src := range cfg.Catalog.Sources {
		if src.Kind == "file" || src.Kind == "csv" {
			cfg.Catalog.Sources[i].Location = expandPath(src.Location)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	// A sources list in the file replaces the defaults instead of merging into them.
	var probe struct {
		Catalog struct {
			Sources []SourceConfig `toml:"sources"`
		} `toml:"catalog"`
	}
	if err := toml.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	if len(probe.Catalog.Sources) > 0 {
		cfg.Catalog.Sources = nil
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	floats := []struct {
		env string
		dst *float64
	}{
		{"TIMETABLE_CELL_WIDTH", &cfg.Grid.CellWidth},
		{"TIMETABLE_CELL_HEIGHT", &cfg.Grid.CellHeight},
	}
	for _, f := range floats {
		if v := os.Getenv(f.env); v != "" {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", f.env, err)
			}
			*f.dst = n
		}
	}

	if v := os.Getenv("TIMETABLE_DEBOUNCE_MS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TIMETABLE_DEBOUNCE_MS: %w", err)
		}
		cfg.Search.DebounceMS = n
	}
	if v := os.Getenv("TIMETABLE_TOLERATE_PARTIAL"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TIMETABLE_TOLERATE_PARTIAL: %w", err)
		}
		cfg.Catalog.AllowPartial = b
	}

	// A base URL rewrites the location of every http source by file name.
	if v := os.Getenv("TIMETABLE_CATALOG_BASE_URL"); v != "" {
		base := strings.TrimSuffix(v, "/") + "/"
		for i, src := range cfg.Catalog.Sources {
			if src.Kind == "http" || src.Kind == "" {
				cfg.Catalog.Sources[i].Location = base + filepath.Base(src.Location)
			}
		}
	}

	if v := os.Getenv("TIMETABLE_DATASET"); v != "" {
		cfg.Dataset.Path = v
	}
	if v := os.Getenv("TIMETABLE_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("TIMETABLE_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("TIMETABLE_LOG_PATH"); v != "" {
		cfg.Log.Path = v
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

var validKinds = map[string]bool{
	"":       true, // http
	"http":   true,
	"file":   true,
	"csv":    true,
	"sqlite": true,
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Grid.CellWidth <= 0 || c.Grid.CellHeight <= 0 {
		return errors.New("cell_width and cell_height must be positive")
	}
	if c.Grid.HeaderWidth < 0 || c.Grid.HeaderHeight < 0 {
		return errors.New("header_width and header_height cannot be negative")
	}
	if c.Search.DebounceMS < 0 {
		return errors.New("debounce_ms cannot be negative")
	}

	if len(c.Catalog.Sources) == 0 {
		return errors.New("at least one catalog source must be configured")
	}
	seen := make(map[string]bool, len(c.Catalog.Sources))
	for _, src := range c.Catalog.Sources {
		if src.Key == "" {
			return errors.New("catalog source key must be set")
		}
		if seen[src.Key] {
			return fmt.Errorf("duplicate catalog source: %s", src.Key)
		}
		seen[src.Key] = true
		if !validKinds[strings.ToLower(src.Kind)] {
			return fmt.Errorf("invalid kind for source %s: %s", src.Key, src.Kind)
		}
		if src.Kind != "sqlite" && src.Location == "" {
			return fmt.Errorf("location must be set for source %s", src.Key)
		}
	}

	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

// SourceKeys returns the configured source keys in order.
func (c *Config) SourceKeys() []string {
	keys := make([]string, 0, len(c.Catalog.Sources))
	for _, src := range c.Catalog.Sources {
		keys = append(keys, src.Key)
	}
	return keys
}

// Source returns the source with the given key.
func (c *Config) Source(key string) (SourceConfig, bool) {
	for _, src := range c.Catalog.Sources {
		if src.Key == key {
			return src, true
		}
	}
	return SourceConfig{}, false
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

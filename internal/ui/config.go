package ui

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timetable/internal/config"
	"github.com/javiermolinar/timetable/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  timetable config`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInteractive()
		},
	}
}

func runConfigInteractive() error {
	configPath := config.DefaultConfigPath()
	fmt.Printf("Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		fmt.Println("No config file found. Creating with default values...")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Created %s\n\n", configPath)
	}

	printConfig(cfg)

	if !promptYesNo("\nWould you like to edit the configuration?") {
		return nil
	}

	reader := bufio.NewReader(os.Stdin)

	cfg.Grid.CellWidth = promptFloat(reader, "Cell width (px)", cfg.Grid.CellWidth)
	cfg.Grid.CellHeight = promptFloat(reader, "Cell height (px)", cfg.Grid.CellHeight)
	cfg.Search.DebounceMS = promptInt(reader, "Search debounce (ms)", cfg.Search.DebounceMS)
	cfg.Catalog.AllowPartial = promptValue(reader, "Tolerate partial catalog (true/false)", strconv.FormatBool(cfg.Catalog.AllowPartial)) == "true"
	cfg.Dataset.Path = promptValue(reader, "Dataset path (empty for built-in)", cfg.Dataset.Path)
	cfg.Storage.DBPath = promptValue(reader, "Catalog mirror path", cfg.Storage.DBPath)
	cfg.Log.Path = promptValue(reader, "Event log path (empty to disable)", cfg.Log.Path)
	cfg.UI.Theme = promptTheme(reader, cfg.UI.Theme)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println("\nConfiguration saved!")
	return nil
}

func printConfig(cfg *config.Config) {
	fmt.Println("Current configuration:")
	fmt.Println("──────────────────────")
	fmt.Println("[grid]")
	fmt.Printf("  cell_width       = %g\n", cfg.Grid.CellWidth)
	fmt.Printf("  cell_height      = %g\n", cfg.Grid.CellHeight)
	fmt.Printf("  header_width     = %g\n", cfg.Grid.HeaderWidth)
	fmt.Printf("  header_height    = %g\n", cfg.Grid.HeaderHeight)
	fmt.Println("\n[catalog]")
	fmt.Printf("  tolerate_partial = %t\n", cfg.Catalog.AllowPartial)
	for _, src := range cfg.Catalog.Sources {
		fmt.Printf("  source %-9s = %s %s\n", src.Key, src.Kind, src.Location)
	}
	fmt.Println("\n[search]")
	fmt.Printf("  debounce_ms      = %d\n", cfg.Search.DebounceMS)
	fmt.Println("\n[dataset]")
	fmt.Printf("  path             = %s\n", cfg.Dataset.Path)
	fmt.Println("\n[storage]")
	fmt.Printf("  db_path          = %s\n", cfg.Storage.DBPath)
	fmt.Println("\n[ui]")
	fmt.Printf("  theme            = %s\n", cfg.UI.Theme)
	fmt.Println("\n[log]")
	fmt.Printf("  path             = %s\n", cfg.Log.Path)
}

func promptYesNo(question string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Printf("  %s: ", label)
	} else {
		fmt.Printf("  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(reader *bufio.Reader, label string, current int) int {
	for {
		value := promptValue(reader, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Printf("  Invalid number %q\n", value)
	}
}

func promptFloat(reader *bufio.Reader, label string, current float64) float64 {
	for {
		value := promptValue(reader, label, strconv.FormatFloat(current, 'g', -1, 64))
		n, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return n
		}
		fmt.Printf("  Invalid number %q\n", value)
	}
}

func promptTheme(reader *bufio.Reader, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(reader, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Printf("  Invalid theme %q. Available: %s\n", value, options)
	}
}

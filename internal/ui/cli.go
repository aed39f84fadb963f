package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timetable/internal/config"
	"github.com/javiermolinar/timetable/internal/db"
	"github.com/javiermolinar/timetable/internal/debuglog"
	"github.com/javiermolinar/timetable/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config *config.Config
	root   *cobra.Command
	out    io.Writer
	debug  bool // Enable debug logging

	log    *debuglog.Logger
	mirror *db.Mirror
}

// NewApp creates a new CLI application with the given config.
func NewApp(cfg *config.Config) *App {
	a := &App{config: cfg, out: os.Stdout}

	a.root = &cobra.Command{
		Use:   "timetable",
		Short: "Build weekly course timetables from a lecture catalog",
		Long: `Timetable assembles weekly course timetables.

Search the lecture catalog, place lectures on a day/period grid and
drag them around. Without a subcommand the interactive grid opens.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.openLog()
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return tui.Run(tui.Deps{
				Config:  a.config,
				Store:   a.loadStore(),
				Catalog: a.newCache(),
				Log:     a.log,
			})
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to "+debuglog.DefaultPath+")")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.searchCmd())
	a.root.AddCommand(a.majorsCmd())
	a.root.AddCommand(a.parseCmd())
	a.root.AddCommand(a.tablesCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.moveCmd())
	a.root.AddCommand(a.catalogCmd())
	a.root.AddCommand(a.exportCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			a.printf("timetable %s (commit: %s)\n", Version, Commit)
		},
	}
}

// SetOutput redirects command output.
func (a *App) SetOutput(w io.Writer) {
	a.out = w
	a.root.SetOut(w)
	a.root.SetErr(w)
}

// SetArgs overrides the command line arguments.
func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the event log and the catalog mirror.
func (a *App) Close() error {
	var err error
	if a.mirror != nil {
		err = a.mirror.Close()
		a.mirror = nil
	}
	if cerr := a.log.Close(); cerr != nil && err == nil {
		err = cerr
	}
	a.log = nil
	return err
}

func (a *App) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	_, _ = fmt.Fprintln(a.out, args...)
}

package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timetable/internal/dataset"
	"github.com/javiermolinar/timetable/internal/export"
)

func (a *App) exportCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export [table...]",
		Short: "Export timetables as CSV, XLSX or TOML",
		Long: `Export timetables. Without table arguments every table is exported.

The format defaults to the extension of --output, or csv on stdout.
XLSX workbooks hold a list sheet and a weekly grid sheet per table.`,
		Example: `  timetable export schedule-1
  timetable export --output week.xlsx
  timetable export schedule-1 --format toml --output mine.toml`,
		RunE: func(_ *cobra.Command, args []string) error {
			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(output), ".")
			}
			if format == "" {
				format = "csv"
			}
			format = strings.ToLower(format)
			if format == "xlsx" && output == "" {
				return fmt.Errorf("xlsx export needs --output")
			}

			st := a.loadStore()
			for _, id := range args {
				if _, err := table(st, id); err != nil {
					return err
				}
			}

			var w io.Writer = a.out
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			c := st.Snapshot()
			switch format {
			case "csv":
				return export.WriteCSV(w, export.Rows(c, args...))
			case "xlsx":
				return export.WriteXLSX(w, c, args...)
			case "toml":
				for _, id := range c.IDs() {
					if len(args) > 0 && !slices.Contains(args, id) {
						c = c.Without(id)
					}
				}
				data, err := dataset.Encode(c)
				if err != nil {
					return err
				}
				_, err = w.Write(data)
				return err
			default:
				return fmt.Errorf("unsupported export format: %s", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Export format: csv, xlsx or toml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

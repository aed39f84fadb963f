package ui

import (
	"github.com/spf13/cobra"
)

func (a *App) showCmd() *cobra.Command {
	var (
		list    bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "show [table]",
		Short: "Show a timetable as a weekly grid",
		Long: `Display a timetable as a weekly grid, days across and periods down.

Without an argument the first table is shown. With --list the entries are
printed with the indexes used by 'move' and 'tables delete-entry'.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if noColor {
				DisableColor()
			}

			st := a.loadStore()
			c := st.Snapshot()
			if c.Len() == 0 {
				a.println("No tables.")
				return nil
			}
			id := c.IDs()[0]
			if len(args) == 1 {
				id = args[0]
			}
			t, err := table(st, id)
			if err != nil {
				return err
			}

			a.printf("=== %s ===\n\n", formatHeader(id))
			if list {
				a.printEntries(t)
				return nil
			}
			if t.Len() == 0 {
				a.println("  (empty)")
				return nil
			}
			a.printf("%s", renderWeek(t, termWidth()))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "List entries with their indexes")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

package ui

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timetable/internal/store"
)

// outputFlag registers the flag that writes the edited dataset.
func outputFlag(cmd *cobra.Command, output *string) {
	cmd.Flags().StringVarP(output, "output", "o", "", "Write the edited tables to this dataset file ('-' for the configured dataset)")
}

// commit writes the store if an output was requested.
func (a *App) commit(st *store.Store, output string) error {
	if output == "" {
		a.println(formatMuted("(not saved; use --output to write the dataset)"))
		return nil
	}
	if err := a.saveDataset(st, output); err != nil {
		return err
	}
	a.println(formatMuted("saved"))
	return nil
}

// table looks a table up in the current snapshot.
func table(st *store.Store, id string) (*store.Table, error) {
	t, ok := st.Snapshot().Table(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrTableNotFound, id)
	}
	return t, nil
}

func (a *App) tablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List timetables",
		Long: `List the timetables of the dataset with their entry counts.

Subcommands create, duplicate and remove tables or delete single entries.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := a.loadStore().Snapshot()
			if c.Len() == 0 {
				a.println("No tables.")
				return nil
			}
			for _, id := range c.IDs() {
				t, _ := c.Table(id)
				a.printf("  %s  %s\n", formatID(id), formatMuted(fmt.Sprintf("%d entries", t.Len())))
			}
			return nil
		},
	}

	cmd.AddCommand(a.tablesNewCmd())
	cmd.AddCommand(a.tablesDuplicateCmd())
	cmd.AddCommand(a.tablesRemoveCmd())
	cmd.AddCommand(a.tablesDeleteEntryCmd())
	return cmd
}

func (a *App) tablesNewCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "new [table]",
		Short: "Create an empty table",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			st := a.loadStore()
			if err := st.CreateTable(args[0]); err != nil {
				return err
			}
			a.printf("Created table %s\n", formatID(args[0]))
			return a.commit(st, output)
		},
	}
	outputFlag(cmd, &output)
	return cmd
}

func (a *App) tablesDuplicateCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "duplicate [table]",
		Short: "Copy a table under a new id",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			st := a.loadStore()
			id, err := st.Duplicate(args[0])
			if err != nil {
				return err
			}
			a.printf("Duplicated %s as %s\n", args[0], formatID(id))
			return a.commit(st, output)
		},
	}
	outputFlag(cmd, &output)
	return cmd
}

func (a *App) tablesRemoveCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "remove [table]",
		Short: "Remove a table",
		Long: `Remove a table. Other tables keep their ids.

The last remaining table cannot be removed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			st := a.loadStore()
			if err := st.Remove(args[0]); err != nil {
				return err
			}
			a.printf("Removed table %s\n", args[0])
			return a.commit(st, output)
		},
	}
	outputFlag(cmd, &output)
	return cmd
}

func (a *App) tablesDeleteEntryCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "delete-entry [table] [index]",
		Short: "Delete one entry of a table by index",
		Long: `Delete one entry of a table by index. Later entries shift down by one;
run 'timetable show' to see the current indexes.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[1], err)
			}
			st := a.loadStore()
			if err := st.DeleteEntry(args[0], index); err != nil {
				return err
			}
			t, _ := table(st, args[0])
			a.printEntries(t)
			return a.commit(st, output)
		},
	}
	outputFlag(cmd, &output)
	return cmd
}

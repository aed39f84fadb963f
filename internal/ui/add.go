package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) addCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "add [table] [lecture-id]",
		Short: "Add a catalog lecture to a table",
		Long: `Add a catalog lecture to a table.

One entry is added per contiguous run of periods in the lecture's
schedule, so a lecture meeting on two days adds two entries.`,
		Example: `  timetable add schedule-1 CS101
  timetable add schedule-1 CS101 --output -`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			tableID, lectureID := args[0], args[1]

			st := a.loadStore()
			if _, err := table(st, tableID); err != nil {
				return err
			}

			s, err := a.loadSession(context.Background())
			if err != nil {
				return err
			}
			defer s.Close()

			lecture, ok := s.Catalog().Lecture(lectureID)
			if !ok {
				return fmt.Errorf("lecture not found in catalog: %s", lectureID)
			}

			n, err := s.Add(st, tableID, lecture)
			if err != nil {
				return fmt.Errorf("adding lecture: %w", err)
			}
			if n == 0 {
				a.println(formatWarning(fmt.Sprintf("%s has no parsable schedule; nothing added", lectureID)))
				return nil
			}

			a.printf("Added %s (%s) to %s as %d entries\n", formatID(lecture.ID), lecture.Title, tableID, n)
			t, _ := table(st, tableID)
			a.printEntries(t)
			return a.commit(st, output)
		},
	}

	outputFlag(cmd, &output)
	return cmd
}

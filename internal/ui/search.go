package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/timetable/internal/catalog"
	"github.com/javiermolinar/timetable/internal/timetable"
)

func (a *App) searchCmd() *cobra.Command {
	var (
		grades  []int
		days    []string
		periods []int
		majors  []string
		credits string
		limit   int
		copyIDs bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the lecture catalog",
		Long: `Search the lecture catalog by text, grade, major, credits, day and period.

The query matches lecture ids and titles case-insensitively. Every other
filter is optional and combines with the query.`,
		Example: `  timetable search cs
  timetable search --day Mon --period 1 --period 2
  timetable search algebra --grade 1 --credits 3 --copy`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if noColor {
				DisableColor()
			}

			s, err := a.loadSession(context.Background())
			if err != nil {
				return err
			}
			defer s.Close()

			if len(args) == 1 {
				s.SetQueryInput(args[0])
				s.FlushQuery()
			}
			s.SetGrades(grades...)
			s.SetDays(days...)
			s.SetPeriods(periods...)
			s.SetMajors(majors...)
			s.SetCredits(credits)

			results := s.Results()
			total := len(results)
			if total == 0 {
				a.println("No lectures match.")
				return nil
			}
			if limit > 0 && len(results) > limit {
				results = results[:limit]
			}

			titleWidth := min(max(termWidth()-70, 20), 40)
			index := s.Catalog().Index
			for _, l := range results {
				a.printLecture(l, index.Slots(l), titleWidth)
			}
			a.printf("\n%s\n", formatMuted(fmt.Sprintf("%d of %d lectures shown (catalog: %d)", len(results), total, s.Catalog().Len())))

			if copyIDs {
				ids := make([]string, len(results))
				for i, l := range results {
					ids[i] = l.ID
				}
				if err := clipboard.WriteAll(strings.Join(ids, "\n")); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				a.println(formatMuted("ids copied to clipboard"))
			}
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&grades, "grade", nil, "Grade to include (repeatable)")
	cmd.Flags().StringSliceVar(&days, "day", nil, "Day label to include, e.g. Mon (repeatable)")
	cmd.Flags().IntSliceVar(&periods, "period", nil, "Period to include (repeatable)")
	cmd.Flags().StringSliceVar(&majors, "major", nil, "Major to include, as listed by 'timetable majors' (repeatable)")
	cmd.Flags().StringVar(&credits, "credits", "", "Credit prefix, e.g. 3")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum results to print (0 for all)")
	cmd.Flags().BoolVar(&copyIDs, "copy", false, "Copy the printed lecture ids to the clipboard")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

func (a *App) majorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "majors",
		Short: "List the majors in the catalog",
		RunE: func(_ *cobra.Command, _ []string) error {
			s, err := a.loadSession(context.Background())
			if err != nil {
				return err
			}
			defer s.Close()

			cat := s.Catalog()
			counts := make(map[string]int, len(cat.Majors))
			for _, l := range cat.Lectures {
				counts[l.Major]++
			}
			for _, m := range cat.Majors {
				a.printf("  %4d  %s\n", counts[m], catalog.MajorLabel(m))
				if label := catalog.MajorLabel(m); label != m {
					a.printf("        %s\n", formatMuted("--major "+quote(m)))
				}
			}
			return nil
		},
	}
}

func (a *App) parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [descriptor]",
		Short: "Parse a schedule descriptor",
		Long: `Parse a schedule descriptor into day/period slots.

Segments are separated by <p> or newlines. Each segment is a day label
followed by comma-separated periods and an optional room in parentheses.`,
		Example: `  timetable parse "Mon1,2,3(A101)<p>Wed4,6"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			slots := timetable.ParseSchedule(args[0])
			if len(slots) == 0 {
				a.println(formatWarning("no slots (empty or malformed descriptor)"))
				return nil
			}
			for _, s := range slots {
				line := fmt.Sprintf("  %s %-6s %s", formatSlot(s.Day), formatRange(s.Range), formatTimes(s.Range))
				if s.Room != "" {
					line += "  " + formatMuted(s.Room)
				}
				a.println(line)
			}
			a.printf("\ncanonical: %s\n", timetable.FormatSchedule(slots))
			return nil
		},
	}
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

package ui

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timetable/internal/drag"
)

func (a *App) moveCmd() *cobra.Command {
	var (
		days    int
		periods int
		dx      float64
		dy      float64
		output  string
	)

	cmd := &cobra.Command{
		Use:   "move [table] [index]",
		Short: "Move an entry by whole cells or by a pixel drag",
		Long: `Move one entry of a table, as if it were dragged on the grid.

--days and --periods move by whole cells. --dx and --dy give a raw pixel
displacement that is converted to cells with the configured cell size,
rounding toward negative infinity. Moves that would leave the grid or
change nothing are rejected and leave the table as it was.`,
		Example: `  timetable move schedule-1 0 --days 1 --periods 1
  timetable move schedule-1 0 --dx -41`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[1], err)
			}
			pixels := cmd.Flags().Changed("dx") || cmd.Flags().Changed("dy")
			cells := cmd.Flags().Changed("days") || cmd.Flags().Changed("periods")
			if pixels && cells {
				return errors.New("use either --days/--periods or --dx/--dy")
			}

			g := a.geometry()
			if cells {
				dx = float64(days) * g.CellWidth
				dy = float64(periods) * g.CellHeight
			}

			st := a.loadStore()
			engine := drag.NewEngine(st, g, a.log)
			if err := engine.Start(drag.ID{TableID: args[0], Index: index}); err != nil {
				return err
			}
			res := engine.End(dx, dy)

			switch res.Outcome {
			case drag.Moved:
				a.printf("Moved %s: %s %s → %s %s\n",
					formatID(res.Before.Lecture.ID),
					res.Before.Day, formatRange(res.Before.Range),
					formatSlot(res.After.Day), formatSlot(formatRange(res.After.Range)))
			case drag.MissingEntry:
				return fmt.Errorf("no entry %d in table %s", index, args[0])
			default:
				a.printf("%s (%s, day %+d, period %+d)\n",
					formatWarning("move rejected"), res.Outcome, res.DayDelta, res.PeriodDelta)
				return nil
			}
			return a.commit(st, output)
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Days to move (negative moves left)")
	cmd.Flags().IntVar(&periods, "periods", 0, "Periods to move (negative moves up)")
	cmd.Flags().Float64Var(&dx, "dx", 0, "Horizontal drag in pixels")
	cmd.Flags().Float64Var(&dy, "dy", 0, "Vertical drag in pixels")
	outputFlag(cmd, &output)
	return cmd
}

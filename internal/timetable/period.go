package timetable

import "fmt"

// Period is one row of the grid.
type Period struct {
	ID    int    // 1-based
	Start string // "HH:MM"
	End   string // "HH:MM"
}

// Label returns "HH:MM~HH:MM".
func (p Period) Label() string {
	return p.Start + "~" + p.End
}

const (
	dayPeriods        = 18 // 30-minute periods from 09:00
	eveningPeriods    = 6  // 50-minute periods from 18:00
	firstPeriodMins   = 9 * 60
	dayPeriodMins     = 30
	eveningStartMins  = firstPeriodMins + dayPeriods*dayPeriodMins
	eveningPeriodMins = 50
	eveningStrideMins = 55
)

// Periods is the fixed row order of the grid.
var Periods = buildPeriods()

// PeriodCount is the number of defined periods.
var PeriodCount = len(Periods)

func buildPeriods() []Period {
	periods := make([]Period, 0, dayPeriods+eveningPeriods)
	for i := range dayPeriods {
		start := firstPeriodMins + i*dayPeriodMins
		periods = append(periods, Period{
			ID:    len(periods) + 1,
			Start: minutesToTime(start),
			End:   minutesToTime(start + dayPeriodMins),
		})
	}
	for i := range eveningPeriods {
		start := eveningStartMins + i*eveningStrideMins
		periods = append(periods, Period{
			ID:    len(periods) + 1,
			Start: minutesToTime(start),
			End:   minutesToTime(start + eveningPeriodMins),
		})
	}
	return periods
}

// PeriodByID returns the period with the given 1-based id.
func PeriodByID(id int) (Period, bool) {
	if id < 1 || id > len(Periods) {
		return Period{}, false
	}
	return Periods[id-1], true
}

// IsEvening reports whether the period belongs to the evening block.
func IsEvening(id int) bool {
	return id > dayPeriods
}

func minutesToTime(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

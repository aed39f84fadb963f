package timetable

// DayLabels is the fixed column order of the grid.
var DayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// dayAliases maps alternate spellings found in catalog data to DayLabels.
var dayAliases = map[string]string{
	"월": "Mon",
	"화": "Tue",
	"수": "Wed",
	"목": "Thu",
	"금": "Fri",
	"토": "Sat",
}

// DayIndex returns the column of a day label, or -1 if it is not a label.
func DayIndex(day string) int {
	for i, d := range DayLabels {
		if d == day {
			return i
		}
	}
	return -1
}

// DayAt returns the label at index i. ok is false outside the label set.
func DayAt(i int) (day string, ok bool) {
	if i < 0 || i >= len(DayLabels) {
		return "", false
	}
	return DayLabels[i], true
}

// NextDay returns the label after day, or "" for the last label.
func NextDay(day string) string {
	i := DayIndex(day)
	if i < 0 {
		return ""
	}
	next, _ := DayAt(i + 1)
	return next
}

// NormalizeDay maps a label or alias to its canonical label.
// Returns "" if s is neither.
func NormalizeDay(s string) string {
	if DayIndex(s) >= 0 {
		return s
	}
	return dayAliases[s]
}

// matchDayPrefix finds the day label or alias that s starts with.
// It returns the canonical label and the remainder of s.
func matchDayPrefix(s string) (day, rest string, ok bool) {
	for _, d := range DayLabels {
		if len(s) >= len(d) && s[:len(d)] == d {
			return d, s[len(d):], true
		}
	}
	for alias, d := range dayAliases {
		if len(s) >= len(alias) && s[:len(alias)] == alias {
			return d, s[len(alias):], true
		}
	}
	return "", s, false
}

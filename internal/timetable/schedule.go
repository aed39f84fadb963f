package timetable

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Slot is one contiguous run of periods on one day.
type Slot struct {
	Day   string
	Range []int
	Room  string
}

// segmentSep splits a descriptor into per-day segments.
var segmentSep = regexp.MustCompile(`(?i)<p>|\r?\n`)

// ParseSchedule converts a descriptor such as "Mon1,2,3(A101)<p>Tue4,6"
// into slots, one per maximal contiguous run of periods within a segment.
// Empty or malformed input returns nil.
func ParseSchedule(descriptor string) []Slot {
	var slots []Slot
	for _, seg := range segmentSep.Split(descriptor, -1) {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		parsed, ok := parseSegment(seg)
		if !ok {
			return nil
		}
		slots = append(slots, parsed...)
	}
	return slots
}

func parseSegment(seg string) ([]Slot, bool) {
	day, rest, ok := matchDayPrefix(seg)
	if !ok {
		return nil, false
	}

	var room string
	if open := strings.IndexByte(rest, '('); open >= 0 {
		closing := strings.LastIndexByte(rest, ')')
		if closing < open {
			return nil, false
		}
		room = strings.TrimSpace(rest[open+1 : closing])
		rest = rest[:open]
	}

	periods, ok := parsePeriods(rest)
	if !ok {
		return nil, false
	}

	runs := contiguousRuns(periods)
	slots := make([]Slot, 0, len(runs))
	for _, r := range runs {
		slots = append(slots, Slot{Day: day, Range: r, Room: room})
	}
	return slots, true
}

// parsePeriods reads "1,2,3" or "1~3" style lists. The result is sorted and unique.
func parsePeriods(s string) ([]int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}

	var periods []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		from, to, isSpan := strings.Cut(part, "~")
		lo, ok := parsePeriod(from)
		if !ok {
			return nil, false
		}
		hi := lo
		if isSpan {
			if hi, ok = parsePeriod(to); !ok || hi < lo {
				return nil, false
			}
		}
		for p := lo; p <= hi; p++ {
			periods = append(periods, p)
		}
	}

	slices.Sort(periods)
	return slices.Compact(periods), true
}

func parsePeriod(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// contiguousRuns splits sorted unique periods into maximal runs.
func contiguousRuns(periods []int) [][]int {
	var runs [][]int
	start := 0
	for i := 1; i <= len(periods); i++ {
		if i == len(periods) || periods[i] != periods[i-1]+1 {
			runs = append(runs, slices.Clone(periods[start:i]))
			start = i
		}
	}
	return runs
}

// FormatSchedule returns the canonical descriptor for slots.
// ParseSchedule(FormatSchedule(s)) reproduces s for parser output s.
func FormatSchedule(slots []Slot) string {
	segs := make([]string, 0, len(slots))
	for _, s := range slots {
		var b strings.Builder
		b.WriteString(s.Day)
		for i, p := range s.Range {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Itoa(p))
		}
		if s.Room != "" {
			b.WriteString("(" + s.Room + ")")
		}
		segs = append(segs, b.String())
	}
	return strings.Join(segs, "<p>")
}

// Days returns the distinct days of slots in first-seen order.
func Days(slots []Slot) []string {
	var days []string
	for _, s := range slots {
		if !slices.Contains(days, s.Day) {
			days = append(days, s.Day)
		}
	}
	return days
}

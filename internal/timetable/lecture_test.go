package timetable

import (
	"errors"
	"testing"
)

func TestValidateRange(t *testing.T) {
	tests := []struct {
		name  string
		input []int
		want  error
	}{
		{name: "single", input: []int{1}, want: nil},
		{name: "contiguous", input: []int{3, 4, 5}, want: nil},
		{name: "empty", input: nil, want: ErrEmptyRange},
		{name: "zero", input: []int{0, 1}, want: ErrPeriodBelowFirst},
		{name: "gap", input: []int{1, 3}, want: ErrRangeNotContig},
		{name: "descending", input: []int{3, 2}, want: ErrRangeNotContig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRange(tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("ValidateRange(%v) = %v, want %v", tt.input, err, tt.want)
			}
		})
	}
}

func TestEntry_Validate(t *testing.T) {
	e := Entry{Day: "Sun", Range: []int{1}}
	if err := e.Validate(); !errors.Is(err, ErrUnknownDay) {
		t.Errorf("expected ErrUnknownDay, got %v", err)
	}

	e = Entry{Day: "Mon", Range: []int{1, 2}}
	if err := e.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestEntry_MovedCopiesRange(t *testing.T) {
	rng := []int{2, 3}
	e := Entry{Lecture: Lecture{ID: "CS101"}, Day: "Mon", Range: []int{1, 2}, Room: "A"}
	moved := e.Moved("Tue", rng)
	rng[0] = 99

	if moved.Range[0] != 2 {
		t.Error("Moved should copy the range")
	}
	if moved.Lecture.ID != "CS101" || moved.Room != "A" {
		t.Error("Moved should keep lecture and room")
	}
	if e.Day != "Mon" {
		t.Error("Moved should not modify the original")
	}
}

func TestEntriesFor(t *testing.T) {
	l := Lecture{ID: "MA201", Schedule: "Mon1,2<p>Wed3"}
	entries := EntriesFor(l, ParseSchedule(l.Schedule))
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].Day != "Wed" || entries[1].Lecture.ID != "MA201" {
		t.Errorf("unexpected second entry: %+v", entries[1])
	}
}

func TestDayHelpers(t *testing.T) {
	if NextDay("Mon") != "Tue" {
		t.Errorf("NextDay(Mon) = %q", NextDay("Mon"))
	}
	if NextDay("Sat") != "" {
		t.Errorf("NextDay(Sat) = %q, want empty", NextDay("Sat"))
	}
	if NextDay("Sun") != "" {
		t.Errorf("NextDay(Sun) = %q, want empty", NextDay("Sun"))
	}
	if NormalizeDay("수") != "Wed" {
		t.Errorf("NormalizeDay(수) = %q", NormalizeDay("수"))
	}
	if _, ok := DayAt(len(DayLabels)); ok {
		t.Error("DayAt past the end should fail")
	}
}

func TestPeriods(t *testing.T) {
	if PeriodCount != 24 {
		t.Fatalf("expected 24 periods, got %d", PeriodCount)
	}

	tests := []struct {
		id    int
		label string
	}{
		{id: 1, label: "09:00~09:30"},
		{id: 18, label: "17:30~18:00"},
		{id: 19, label: "18:00~18:50"},
		{id: 24, label: "22:35~23:25"},
	}
	for _, tt := range tests {
		p, ok := PeriodByID(tt.id)
		if !ok {
			t.Fatalf("PeriodByID(%d) not found", tt.id)
		}
		if p.Label() != tt.label {
			t.Errorf("period %d label = %q, want %q", tt.id, p.Label(), tt.label)
		}
	}

	if _, ok := PeriodByID(0); ok {
		t.Error("PeriodByID(0) should fail")
	}
	if !IsEvening(19) || IsEvening(18) {
		t.Error("IsEvening boundary is wrong")
	}
}

package timetable

import (
	"reflect"
	"testing"
)

func TestParseSchedule(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Slot
	}{
		{name: "empty", input: "", want: nil},
		{name: "blank", input: "   ", want: nil},
		{
			name:  "single run",
			input: "Mon1,2,3",
			want:  []Slot{{Day: "Mon", Range: []int{1, 2, 3}}},
		},
		{
			name:  "two segments",
			input: "Mon1,2<p>Wed5",
			want: []Slot{
				{Day: "Mon", Range: []int{1, 2}},
				{Day: "Wed", Range: []int{5}},
			},
		},
		{
			name:  "non contiguous periods split into runs",
			input: "Tue1,2,5,6",
			want: []Slot{
				{Day: "Tue", Range: []int{1, 2}},
				{Day: "Tue", Range: []int{5, 6}},
			},
		},
		{
			name:  "unsorted and duplicated periods",
			input: "Fri4,3,3,5",
			want:  []Slot{{Day: "Fri", Range: []int{3, 4, 5}}},
		},
		{
			name:  "room suffix",
			input: "Thu7,8(Eng-203)",
			want:  []Slot{{Day: "Thu", Range: []int{7, 8}, Room: "Eng-203"}},
		},
		{
			name:  "span syntax",
			input: "Sat2~4",
			want:  []Slot{{Day: "Sat", Range: []int{2, 3, 4}}},
		},
		{
			name:  "korean day alias",
			input: "월1,2,3(공학관)<P>화4",
			want: []Slot{
				{Day: "Mon", Range: []int{1, 2, 3}, Room: "공학관"},
				{Day: "Tue", Range: []int{4}},
			},
		},
		{
			name:  "newline separated",
			input: "Mon1\nTue2",
			want: []Slot{
				{Day: "Mon", Range: []int{1}},
				{Day: "Tue", Range: []int{2}},
			},
		},
		{name: "unknown day", input: "Sun1,2", want: nil},
		{name: "missing periods", input: "Mon", want: nil},
		{name: "non numeric period", input: "Mon1,x", want: nil},
		{name: "zero period", input: "Mon0,1", want: nil},
		{name: "reversed span", input: "Mon4~2", want: nil},
		{name: "one bad segment spoils all", input: "Mon1<p>garbage", want: nil},
		{name: "unclosed room", input: "Mon1(A", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSchedule(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSchedule(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatSchedule(t *testing.T) {
	slots := []Slot{
		{Day: "Mon", Range: []int{1, 2, 3}, Room: "A101"},
		{Day: "Tue", Range: []int{4}},
	}
	want := "Mon1,2,3(A101)<p>Tue4"
	if got := FormatSchedule(slots); got != want {
		t.Errorf("FormatSchedule() = %q, want %q", got, want)
	}
	if got := FormatSchedule(nil); got != "" {
		t.Errorf("FormatSchedule(nil) = %q, want empty", got)
	}
}

func TestParseSchedule_RoundTrip(t *testing.T) {
	descriptors := []string{
		"Mon1,2,3",
		"Mon1,2,4,5<p>Fri9",
		"화3,4(Lab)<p>목10~12",
		"Wed2,2,1",
		"",
	}

	for _, d := range descriptors {
		first := ParseSchedule(d)
		second := ParseSchedule(FormatSchedule(first))
		if !reflect.DeepEqual(first, second) {
			t.Errorf("round trip of %q: %#v != %#v", d, first, second)
		}
	}
}

func TestDays(t *testing.T) {
	got := Days(ParseSchedule("Tue1<p>Mon2<p>Tue5"))
	want := []string{"Tue", "Mon"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Days() = %v, want %v", got, want)
	}
}

package availability

import (
	"math"
	"testing"
)

func TestInterval_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"disjoint before", Interval{MustClock("08:00"), MustClock("09:00")}, Interval{MustClock("10:00"), MustClock("11:00")}, false},
		{"touching end", Interval{MustClock("09:00"), MustClock("10:00")}, Interval{MustClock("10:00"), MustClock("11:00")}, false},
		{"touching start", Interval{MustClock("11:00"), MustClock("12:00")}, Interval{MustClock("10:00"), MustClock("11:00")}, false},
		{"start inside", Interval{MustClock("10:30"), MustClock("11:30")}, Interval{MustClock("10:00"), MustClock("11:00")}, true},
		{"end inside", Interval{MustClock("09:30"), MustClock("10:30")}, Interval{MustClock("10:00"), MustClock("11:00")}, true},
		{"contains", Interval{MustClock("09:00"), MustClock("12:00")}, Interval{MustClock("10:00"), MustClock("11:00")}, true},
		{"contained", Interval{MustClock("10:15"), MustClock("10:45")}, Interval{MustClock("10:00"), MustClock("11:00")}, true},
		{"identical", Interval{MustClock("10:00"), MustClock("11:00")}, Interval{MustClock("10:00"), MustClock("11:00")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("a.Overlaps(b) = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("b.Overlaps(a) = %v, want %v (must be symmetric)", got, tt.want)
			}
		})
	}
}

func baseQuery() Query {
	return Query{
		Date:        monday,
		DurationMin: 60,
		Hours:       weekdayHours("07:00", "20:00"),
	}
}

func TestIsAvailable_AppointmentOverlap(t *testing.T) {
	q := baseQuery()
	q.Appointments = []Appointment{
		{Date: "2024-01-15", Start: MustClock("10:00"), End: MustClock("11:00")},
	}

	if IsAvailable(MustClock("09:30"), q) {
		t.Error("09:30-10:30 overlaps 10:00-11:00 and must be unavailable")
	}
	if !IsAvailable(MustClock("08:00"), q) {
		t.Error("08:00-09:00 must be available")
	}
	if !IsAvailable(MustClock("09:00"), q) {
		t.Error("09:00-10:00 ends exactly when the appointment starts and must be available")
	}
	if !IsAvailable(MustClock("11:00"), q) {
		t.Error("11:00-12:00 starts when the appointment ends and must be available")
	}
}

func TestIsAvailable_CancelledAndOtherDatesIgnored(t *testing.T) {
	q := baseQuery()
	q.Appointments = []Appointment{
		{Date: "2024-01-15", Start: MustClock("10:00"), End: MustClock("11:00"), Cancelled: true},
		{Date: "2024-01-16", Start: MustClock("10:00"), End: MustClock("11:00")},
	}
	q.Blocks = []Block{{Date: "2024-01-14", Start: MustClock("10:00"), End: MustClock("11:00")}}

	if !IsAvailable(MustClock("10:00"), q) {
		t.Error("cancelled appointments and records from other dates must not block")
	}
}

func TestIsAvailable_Blocks(t *testing.T) {
	q := baseQuery()
	q.Blocks = []Block{{Date: "2024-01-15", Start: MustClock("12:00"), End: MustClock("13:00")}}

	if IsAvailable(MustClock("11:30"), q) {
		t.Error("11:30-12:30 overlaps block 12:00-13:00")
	}
	if !IsAvailable(MustClock("13:00"), q) {
		t.Error("13:00-14:00 must be available after the block")
	}
	if IsAvailable(MustClock("11:00"), withDuration(q, 180)) {
		t.Error("a candidate containing the whole block must be unavailable")
	}
}

func TestIsAvailable_BufferOnCandidateOnly(t *testing.T) {
	q := baseQuery()
	q.BufferMin = 15
	q.Appointments = []Appointment{
		{Date: "2024-01-15", Start: MustClock("10:00"), End: MustClock("11:00")},
	}

	// 09:00 + 60 + 15 = 10:15 reaches into the appointment.
	if IsAvailable(MustClock("09:00"), q) {
		t.Error("buffer must extend the candidate into the appointment")
	}
	// The appointment is not padded, so the next slot can start at its end.
	if !IsAvailable(MustClock("11:00"), q) {
		t.Error("existing appointments must not be padded with the buffer")
	}
	if !IsAvailable(MustClock("08:45"), q) {
		t.Error("08:45-10:00 including buffer must be available")
	}
}

func TestListSlots_MarksConflicts(t *testing.T) {
	q := baseQuery()
	q.Hours = weekdayHours("09:00", "12:00")
	q.Appointments = []Appointment{
		{Date: "2024-01-15", Start: MustClock("10:00"), End: MustClock("11:00")},
	}

	want := map[string]bool{
		"09:00": true,
		"09:15": false,
		"09:30": false,
		"09:45": false,
		"10:00": false,
		"10:30": false,
		"10:45": false,
		"11:00": true,
	}

	got := ListSlots(q)
	if len(got) != 9 {
		t.Fatalf("expected 9 slots, got %d", len(got))
	}
	for _, s := range got {
		if w, ok := want[s.Time]; ok && w != s.Available {
			t.Errorf("slot %s: expected available=%v, got %v", s.Time, w, s.Available)
		}
	}
}

func withDuration(q Query, d int) Query {
	q.DurationMin = d
	return q
}

func TestIsAvailable_HugeBufferDoesNotWrap(t *testing.T) {
	q := baseQuery()
	q.BufferMin = math.MaxInt
	q.Appointments = []Appointment{
		{Date: "2024-01-15", Start: MustClock("18:00"), End: MustClock("19:00")},
	}

	if got := Occupied(MustClock("09:00"), 60, math.MaxInt); got.End < got.Start {
		t.Fatalf("occupied interval wrapped: %+v", got)
	}
	if IsAvailable(MustClock("09:00"), q) {
		t.Error("a buffer longer than the day must reach the later appointment")
	}
}

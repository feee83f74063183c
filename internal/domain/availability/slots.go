package availability

import "time"

// SlotStep is the spacing between candidate start times. It does not depend
// on the service duration.
const SlotStep = 15

type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// Query carries everything needed to list the slots of one salon day.
// Appointments and Blocks may contain records for other dates; they are
// skipped by date.
type Query struct {
	Date         time.Time
	DurationMin  int
	BufferMin    int
	Hours        BusinessHours
	Appointments []Appointment
	Blocks       []Block
}

// GenerateSlots returns the candidate start times for date. A closed day, a
// non-positive duration or one longer than a day gives an empty result.
func GenerateSlots(hours BusinessHours, date time.Time, durationMin int) []Clock {
	day := hours.For(WeekdayOf(date))
	if !day.IsOpen || durationMin <= 0 || durationMin > int(EndOfDay) {
		return []Clock{}
	}

	out := []Clock{}
	for cursor := day.OpenTime; cursor.Add(durationMin) <= day.CloseTime; cursor = cursor.Add(SlotStep) {
		out = append(out, cursor)
	}
	return out
}

// ListSlots runs the generator and marks every candidate with the conflict
// filter.
func ListSlots(q Query) []TimeSlot {
	candidates := GenerateSlots(q.Hours, q.Date, q.DurationMin)

	slots := make([]TimeSlot, 0, len(candidates))
	for _, start := range candidates {
		slots = append(slots, TimeSlot{
			Time:      start.String(),
			Available: IsAvailable(start, q),
		})
	}
	return slots
}

// MarkPast flags slots that already started as unavailable when date is
// the same calendar day as now. now must be in the salon's timezone.
func MarkPast(slots []TimeSlot, date time.Time, now time.Time) []TimeSlot {
	today := now.Format(DateLayout)
	day := date.Format(DateLayout)

	if day > today {
		return slots
	}

	out := make([]TimeSlot, len(slots))
	copy(out, slots)

	if day < today {
		for i := range out {
			out[i].Available = false
		}
		return out
	}

	current := ClockOf(now)
	for i := range out {
		start, err := ParseClock(out[i].Time)
		if err != nil || start < current {
			out[i].Available = false
		}
	}
	return out
}

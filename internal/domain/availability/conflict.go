package availability

// Interval is the half-open range [Start, End).
type Interval struct {
	Start Clock
	End   Clock
}

// Overlaps reports whether two half-open intervals share any minute.
// Touching intervals (one ends where the other starts) do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && o.Start < i.End
}

type Appointment struct {
	Date      string
	Start     Clock
	End       Clock
	Cancelled bool
}

type Block struct {
	Date  string
	Start Clock
	End   Clock
}

// Occupied is the interval a candidate holds: the service plus the buffer.
// Existing appointments and blocks are never padded. Each length is capped
// at one day so the end never wraps around.
func Occupied(start Clock, durationMin, bufferMin int) Interval {
	return Interval{Start: start, End: start.Add(dayCap(durationMin) + dayCap(bufferMin))}
}

func dayCap(minutes int) int {
	if minutes < 0 {
		return 0
	}
	if minutes > int(EndOfDay) {
		return int(EndOfDay)
	}
	return minutes
}

// IsAvailable checks one candidate start against the query's appointments
// and blocks for the query date.
func IsAvailable(start Clock, q Query) bool {
	slot := Occupied(start, q.DurationMin, q.BufferMin)
	date := q.Date.Format(DateLayout)

	return !ConflictsWithAppointments(slot, date, q.Appointments) &&
		!ConflictsWithBlocks(slot, date, q.Blocks)
}

func ConflictsWithAppointments(slot Interval, date string, apps []Appointment) bool {
	for _, ap := range apps {
		if ap.Cancelled || ap.Date != date {
			continue
		}
		if slot.Overlaps(Interval{Start: ap.Start, End: ap.End}) {
			return true
		}
	}
	return false
}

func ConflictsWithBlocks(slot Interval, date string, blocks []Block) bool {
	for _, b := range blocks {
		if b.Date != date {
			continue
		}
		if slot.Overlaps(Interval{Start: b.Start, End: b.End}) {
			return true
		}
	}
	return false
}

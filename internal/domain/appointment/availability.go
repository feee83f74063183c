package appointment

import (
	"fmt"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

const DefaultDurationMin = 30

type AvailabilityInput struct {
	SalonID uint

	// ServiceID wins over DurationMin when both are set.
	ServiceID   uint
	DurationMin int

	Date string
}

// ToEngineAppointments converts stored appointments to the engine's view.
// A row with unparseable times fails the whole conversion: skipping it would
// free its interval.
func ToEngineAppointments(apps []models.Appointment) ([]availability.Appointment, error) {
	out := make([]availability.Appointment, 0, len(apps))
	for _, ap := range apps {
		start, end, err := parseRange(ap.StartTime, ap.EndTime)
		if err != nil {
			return nil, fmt.Errorf("appointment %d: %w", ap.ID, err)
		}
		out = append(out, availability.Appointment{
			Date:      ap.Date,
			Start:     start,
			End:       end,
			Cancelled: !Status(ap.Status).OccupiesTime(),
		})
	}
	return out, nil
}

func ToEngineBlocks(blocks []models.AvailabilityBlock) ([]availability.Block, error) {
	out := make([]availability.Block, 0, len(blocks))
	for _, b := range blocks {
		start, end, err := parseRange(b.StartTime, b.EndTime)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", b.ID, err)
		}
		out = append(out, availability.Block{Date: b.Date, Start: start, End: end})
	}
	return out, nil
}

func parseRange(startTime, endTime string) (availability.Clock, availability.Clock, error) {
	start, err := availability.ParseClock(startTime)
	if err != nil {
		return 0, 0, err
	}
	end, err := availability.ParseClock(endTime)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

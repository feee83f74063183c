package appointment

import (
	"context"
	"fmt"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

// Execute recomputes the slot list from current storage state on every
// call.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]availability.TimeSlot, error) {

	date, err := availability.ParseDate(in.Date)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidDate)
	}
	if in.ServiceID == 0 && (in.DurationMin < 0 || in.DurationMin > int(availability.EndOfDay)) {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidDuration)
	}

	shop, err := uc.repo.GetSalonByID(ctx, in.SalonID)
	if err != nil {
		return nil, notFoundOr(err, httperr.CodeSalonNotFound, "load salon")
	}

	duration := in.DurationMin
	if in.ServiceID != 0 {
		service, err := uc.repo.GetService(ctx, in.SalonID, in.ServiceID)
		if err != nil {
			return nil, notFoundOr(err, httperr.CodeServiceNotFound, "load service")
		}
		duration = service.DurationMin
	}
	if duration == 0 {
		duration = domain.DefaultDurationMin
	}

	dateKey := date.Format(availability.DateLayout)

	appointments, err := uc.repo.ListActiveAppointmentsForDate(ctx, in.SalonID, dateKey)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	blocks, err := uc.repo.ListBlocksForDate(ctx, in.SalonID, dateKey)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}

	// a stored row the engine cannot read must not silently free its time
	engineApps, err := domain.ToEngineAppointments(appointments)
	if err != nil {
		return nil, fmt.Errorf("convert appointments: %w", err)
	}
	engineBlocks, err := domain.ToEngineBlocks(blocks)
	if err != nil {
		return nil, fmt.Errorf("convert blocks: %w", err)
	}

	return availability.ListSlots(availability.Query{
		Date:         date,
		DurationMin:  duration,
		BufferMin:    shop.BookingBufferMin,
		Hours:        shop.BusinessHours,
		Appointments: engineApps,
		Blocks:       engineBlocks,
	}), nil
}

package appointment

import (
	"context"
	"fmt"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

// Execute lists every appointment of the day, cancelled ones included.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	salonID uint,
	date string,
) ([]dto.AppointmentListDTO, error) {

	day, err := availability.ParseDate(date)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidDate)
	}
	key := day.Format(availability.DateLayout)

	appointments, err := uc.repo.ListAppointmentsForPeriod(ctx, salonID, key, key)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	return dto.FromAppointments(appointments), nil
}

package appointment

import (
	"context"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
)

type ListAppointmentsByMonth struct {
	repo domain.Repository
}

func NewListAppointmentsByMonth(
	repo domain.Repository,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		repo: repo,
	}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	salonID uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		salonID,
		first.Format(availability.DateLayout),
		last.Format(availability.DateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	return dto.FromAppointments(appointments), nil
}

package appointment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

type SetStatusInput struct {
	SalonID       uint
	UserID        *uint
	AppointmentID uint
	Status        string
}

type SetAppointmentStatus struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	check domain.ConflictCheck
	now   func() time.Time
}

func NewSetAppointmentStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
	recheckBlocks bool,
) *SetAppointmentStatus {
	return &SetAppointmentStatus{
		repo:  repo,
		audit: audit,
		check: domain.ConflictCheck{IncludeBlocks: recheckBlocks},
		now:   time.Now,
	}
}

func (uc *SetAppointmentStatus) Execute(
	ctx context.Context,
	in SetStatusInput,
) (*models.Appointment, error) {

	to, err := domain.ParseStatus(in.Status)
	if err != nil {
		return nil, err
	}

	shop, err := uc.repo.GetSalonByID(ctx, in.SalonID)
	if err != nil {
		return nil, notFoundOr(err, httperr.CodeSalonNotFound, "load salon")
	}

	ap, err := uc.repo.GetAppointmentForSalon(ctx, in.AppointmentID, in.SalonID)
	if err != nil {
		return nil, notFoundOr(err, httperr.CodeAppointmentNotFound, "load appointment")
	}

	from := domain.Status(ap.Status)
	now := uc.now().In(timezone.Location(shop.Timezone))
	if err := domain.Transition(ap, to, now); err != nil {
		return nil, err
	}

	if from == domain.StatusCancelled && to == domain.StatusConfirmed {
		// the interval may have been booked while this one was cancelled
		err = uc.repo.RestoreIfSlotFree(ctx, ap, uc.check)
	} else {
		err = uc.repo.UpdateAppointment(ctx, ap, from)
	}
	if err != nil {
		// invalid_transition here means the status changed since it was read
		if httperr.KindOf(err) != httperr.KindUnknown {
			return nil, err
		}
		return nil, fmt.Errorf("update appointment status: %w", err)
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  in.SalonID,
		UserID:   in.UserID,
		Action:   statusAction(from, to),
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"from": string(from), "to": string(to)},
	})

	return ap, nil
}

func statusAction(from, to domain.Status) string {
	if from == domain.StatusCancelled && to == domain.StatusConfirmed {
		return "appointment_restored"
	}
	return "appointment_" + strings.ReplaceAll(string(to), "-", "_")
}

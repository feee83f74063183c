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

// CancelByToken lets a client cancel with the token issued at booking time,
// up to the salon's cancellation window.
type CancelByToken struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewCancelByToken(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CancelByToken {
	return &CancelByToken{
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
}

func (uc *CancelByToken) Execute(
	ctx context.Context,
	token string,
) (*models.Appointment, error) {

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidInput)
	}

	ap, err := uc.repo.GetAppointmentByToken(ctx, token)
	if err != nil {
		return nil, notFoundOr(err, httperr.CodeAppointmentNotFound, "load appointment")
	}

	shop, err := uc.repo.GetSalonByID(ctx, ap.SalonID)
	if err != nil {
		return nil, notFoundOr(err, httperr.CodeSalonNotFound, "load salon")
	}

	loc := timezone.Location(shop.Timezone)
	now := uc.now().In(loc)

	start, err := time.ParseInLocation("2006-01-02 15:04", ap.Date+" "+ap.StartTime, loc)
	if err != nil {
		return nil, fmt.Errorf("parse appointment start: %w", err)
	}

	window := time.Duration(shop.CancellationHours) * time.Hour
	if now.Add(window).After(start) {
		return nil, httperr.ErrBusiness(httperr.CodeCancellationClosed)
	}

	from := domain.Status(ap.Status)
	if err := domain.Transition(ap, domain.StatusCancelled, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap, from); err != nil {
		if httperr.KindOf(err) != httperr.KindUnknown {
			return nil, err
		}
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  ap.SalonID,
		Action:   "appointment_cancelled_by_client",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}

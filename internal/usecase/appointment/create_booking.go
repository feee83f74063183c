package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

const defaultLockTTL = 5 * time.Second

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	SalonID   uint
	ServiceID uint

	Date      string // YYYY-MM-DD
	StartTime string // HH:MM

	ClientName  string
	ClientEmail string
	ClientPhone string
	Notes       string
}

type BookingOptions struct {
	// RecheckBlocks adds availability blocks to the commit-time check.
	RecheckBlocks bool

	Locker  domain.SlotLocker
	LockTTL time.Duration

	Logger *zap.Logger
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	check   domain.ConflictCheck
	locker  domain.SlotLocker
	lockTTL time.Duration
	log     *zap.Logger
}

func NewCreateBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
	opts BookingOptions,
) *CreateBooking {
	uc := &CreateBooking{
		repo:    repo,
		audit:   audit,
		check:   domain.ConflictCheck{IncludeBlocks: opts.RecheckBlocks},
		locker:  opts.Locker,
		lockTTL: opts.LockTTL,
		log:     opts.Logger,
	}
	if uc.lockTTL <= 0 {
		uc.lockTTL = defaultLockTTL
	}
	if uc.log == nil {
		uc.log = zap.NewNop()
	}
	return uc
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. Input (no storage access before this passes)
	// --------------------------------------------------
	date, start, err := validateBookingInput(in)
	if err != nil {
		return nil, err
	}
	dateKey := date.Format(availability.DateLayout)

	// --------------------------------------------------
	// 2. Salon / service
	// --------------------------------------------------
	if _, err := uc.repo.GetSalonByID(ctx, in.SalonID); err != nil {
		return nil, notFoundOr(err, httperr.CodeSalonNotFound, "load salon")
	}

	service, err := uc.repo.GetService(ctx, in.SalonID, in.ServiceID)
	if err != nil {
		return nil, notFoundOr(err, httperr.CodeServiceNotFound, "load service")
	}
	if service.DurationMin <= 0 {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidDuration)
	}

	end := start.Add(service.DurationMin)
	if end > availability.EndOfDay {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidTime)
	}

	ap := &models.Appointment{
		SalonID:           in.SalonID,
		ServiceID:         service.ID,
		ClientName:        strings.TrimSpace(in.ClientName),
		ClientEmail:       strings.ToLower(strings.TrimSpace(in.ClientEmail)),
		ClientPhone:       strings.TrimSpace(in.ClientPhone),
		Date:              dateKey,
		StartTime:         start.String(),
		EndTime:           end.String(),
		StartMinute:       start.Minutes(),
		EndMinute:         end.Minutes(),
		Status:            string(domain.InitialStatus()),
		Notes:             in.Notes,
		CancellationToken: uuid.NewString(),
	}

	// --------------------------------------------------
	// 3. Cross-instance lock for the salon day (optional)
	// --------------------------------------------------
	if uc.locker != nil {
		unlock, err := uc.locker.Lock(ctx, lockKey(in.SalonID, dateKey), uc.lockTTL)
		switch {
		case err == nil:
			defer unlock()
		case errors.Is(err, domain.ErrLockTimeout):
			return nil, httperr.ErrBusiness(httperr.CodeBookingBusy)
		default:
			uc.log.Warn("booking lock unavailable, relying on store constraints",
				zap.Uint("salon_id", in.SalonID),
				zap.String("date", dateKey),
				zap.Error(err),
			)
		}
	}

	// --------------------------------------------------
	// 4. Commit-time conflict check + insert
	// --------------------------------------------------
	if err := uc.repo.InsertIfSlotFree(ctx, ap, uc.check); err != nil {
		if httperr.KindOf(err) == httperr.KindConflict {
			uc.audit.Dispatch(audit.Event{
				SalonID: in.SalonID,
				Action:  "appointment_conflict",
				Entity:  "appointment",
				Metadata: map[string]any{
					"date":  ap.Date,
					"start": ap.StartTime,
					"end":   ap.EndTime,
				},
			})
			return nil, err
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	// --------------------------------------------------
	// 5. Audit
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		SalonID:  in.SalonID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	uc.log.Info("appointment booked",
		zap.Uint("salon_id", ap.SalonID),
		zap.Uint("appointment_id", ap.ID),
		zap.String("date", ap.Date),
		zap.String("start", ap.StartTime),
	)

	return ap, nil
}

func validateBookingInput(in CreateBookingInput) (time.Time, availability.Clock, error) {
	if in.SalonID == 0 || in.ServiceID == 0 ||
		strings.TrimSpace(in.Date) == "" ||
		strings.TrimSpace(in.StartTime) == "" ||
		strings.TrimSpace(in.ClientName) == "" ||
		strings.TrimSpace(in.ClientEmail) == "" {
		return time.Time{}, 0, httperr.ErrBusiness(httperr.CodeInvalidInput)
	}

	if !validators.IsEmail(strings.TrimSpace(in.ClientEmail)) {
		return time.Time{}, 0, httperr.ErrBusiness(httperr.CodeInvalidInput)
	}

	date, err := availability.ParseDate(in.Date)
	if err != nil {
		return time.Time{}, 0, httperr.ErrBusiness(httperr.CodeInvalidDate)
	}

	start, err := availability.ParseClock(in.StartTime)
	if err != nil || start >= availability.EndOfDay {
		return time.Time{}, 0, httperr.ErrBusiness(httperr.CodeInvalidTime)
	}

	return date, start, nil
}

func lockKey(salonID uint, date string) string {
	return fmt.Sprintf("booking:%d:%s", salonID, date)
}

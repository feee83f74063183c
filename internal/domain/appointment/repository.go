package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

var (
	// ErrNotFound is returned by repositories when a scoped lookup misses.
	ErrNotFound = errors.New("record not found")

	// ErrLockTimeout means another booking for the same salon day held the
	// lock for longer than the caller was willing to wait.
	ErrLockTimeout = errors.New("booking lock timeout")
)

// ConflictCheck selects what the commit-time overlap check looks at.
// Appointments are always checked.
type ConflictCheck struct {
	IncludeBlocks bool
}

type Repository interface {
	// -------- Salon --------
	GetSalonByID(
		ctx context.Context,
		id uint,
	) (*models.Salon, error)

	GetSalonBySlug(
		ctx context.Context,
		slug string,
	) (*models.Salon, error)

	// -------- Service --------
	GetService(
		ctx context.Context,
		salonID uint,
		serviceID uint,
	) (*models.Service, error)

	ListActiveServices(
		ctx context.Context,
		salonID uint,
	) ([]models.Service, error)

	// -------- Availability --------
	ListActiveAppointmentsForDate(
		ctx context.Context,
		salonID uint,
		date string,
	) ([]models.Appointment, error)

	ListBlocksForDate(
		ctx context.Context,
		salonID uint,
		date string,
	) ([]models.AvailabilityBlock, error)

	// -------- Appointment (create / conflict) --------

	// InsertIfSlotFree re-checks overlaps and inserts ap atomically. It
	// returns a slot_unavailable business error when the slot is taken.
	InsertIfSlotFree(
		ctx context.Context,
		ap *models.Appointment,
		check ConflictCheck,
	) error

	// -------- Appointment (state change) --------
	GetAppointmentForSalon(
		ctx context.Context,
		appointmentID uint,
		salonID uint,
	) (*models.Appointment, error)

	GetAppointmentByToken(
		ctx context.Context,
		token string,
	) (*models.Appointment, error)

	// UpdateAppointment writes ap's status and timestamps only if the
	// stored status is still from. Otherwise it returns an
	// invalid_transition business error and writes nothing.
	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
		from Status,
	) error

	// RestoreIfSlotFree saves ap back as confirmed only if it is still
	// cancelled and no other appointment took its interval meanwhile.
	RestoreIfSlotFree(
		ctx context.Context,
		ap *models.Appointment,
		check ConflictCheck,
	) error

	// -------- Listing --------
	ListAppointmentsForPeriod(
		ctx context.Context,
		salonID uint,
		fromDate string,
		toDate string,
	) ([]models.Appointment, error)
}

// SlotLocker serialises booking attempts for one salon day across
// processes. It narrows contention; the store still enforces the invariant.
type SlotLocker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (unlock func(), err error)
}

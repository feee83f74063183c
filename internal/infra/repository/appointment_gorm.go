package repository

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// --------------------------------------------------
// Salon
// --------------------------------------------------

func (r *AppointmentGormRepository) GetSalonByID(
	ctx context.Context,
	id uint,
) (*models.Salon, error) {

	var shop models.Salon
	if err := r.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &shop, nil
}

func (r *AppointmentGormRepository) GetSalonBySlug(
	ctx context.Context,
	slug string,
) (*models.Salon, error) {

	var shop models.Salon
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&shop).Error; err != nil {
		return nil, notFound(err)
	}
	return &shop, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	salonID uint,
	serviceID uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ? AND active = true", serviceID, salonID).
		First(&service).Error; err != nil {
		return nil, notFound(err)
	}
	return &service, nil
}

func (r *AppointmentGormRepository) ListActiveServices(
	ctx context.Context,
	salonID uint,
) ([]models.Service, error) {

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("salon_id = ? AND active = true", salonID).
		Order("display_order ASC, name ASC").
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) ListActiveAppointmentsForDate(
	ctx context.Context,
	salonID uint,
	date string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "appointment_date", "start_time", "end_time", "status").
		Where(
			"salon_id = ? AND appointment_date = ? AND status <> ?",
			salonID, date, string(domain.StatusCancelled),
		).
		Order("start_minute ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListBlocksForDate(
	ctx context.Context,
	salonID uint,
	date string,
) ([]models.AvailabilityBlock, error) {

	var blocks []models.AvailabilityBlock
	if err := r.db.WithContext(ctx).
		Where("salon_id = ? AND block_date = ?", salonID, date).
		Order("start_time ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

var serializable = &sql.TxOptions{Isolation: sql.LevelSerializable}

func (r *AppointmentGormRepository) InsertIfSlotFree(
	ctx context.Context,
	ap *models.Appointment,
	check domain.ConflictCheck,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := assertSlotFree(tx, ap, check); err != nil {
			return err
		}
		return tx.Create(ap).Error
	}, serializable)

	return slotError(err)
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointmentForSalon(
	ctx context.Context,
	appointmentID uint,
	salonID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Where("id = ? AND salon_id = ?", appointmentID, salonID).
		First(&ap).Error; err != nil {
		return nil, notFound(err)
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) GetAppointmentByToken(
	ctx context.Context,
	token string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("cancellation_token = ?", token).
		First(&ap).Error; err != nil {
		return nil, notFound(err)
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
	from domain.Status,
) error {
	return slotError(compareAndSetStatus(r.db.WithContext(ctx), ap, from))
}

func (r *AppointmentGormRepository) RestoreIfSlotFree(
	ctx context.Context,
	ap *models.Appointment,
	check domain.ConflictCheck,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := assertSlotFree(tx, ap, check); err != nil {
			return err
		}
		return compareAndSetStatus(tx, ap, domain.StatusCancelled)
	}, serializable)

	return slotError(err)
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	salonID uint,
	fromDate string,
	toDate string,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Service").
		Where(
			"salon_id = ? AND appointment_date >= ? AND appointment_date <= ?",
			salonID,
			fromDate,
			toDate,
		).
		Order("appointment_date ASC, start_minute ASC").
		Find(&apps).Error

	if err != nil {
		return nil, err
	}

	return apps, nil
}

// --------------------------------------------------
// helpers
// --------------------------------------------------

// assertSlotFree locks the overlapping rows of the salon day. ap.ID is
// excluded so a restore does not collide with itself.
func assertSlotFree(
	tx *gorm.DB,
	ap *models.Appointment,
	check domain.ConflictCheck,
) error {

	var ids []uint
	if err := tx.
		Model(&models.Appointment{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"salon_id = ? AND appointment_date = ? AND status <> ? AND id <> ? AND start_minute < ? AND end_minute > ?",
			ap.SalonID,
			ap.Date,
			string(domain.StatusCancelled),
			ap.ID,
			ap.EndMinute,
			ap.StartMinute,
		).
		Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) > 0 {
		return httperr.ErrBusiness(httperr.CodeSlotUnavailable)
	}

	if !check.IncludeBlocks {
		return nil
	}

	// block times are stored as zero-padded HH:MM so string order is time order
	var blocks int64
	if err := tx.
		Model(&models.AvailabilityBlock{}).
		Where(
			"salon_id = ? AND block_date = ? AND start_time < ? AND end_time > ?",
			ap.SalonID,
			ap.Date,
			ap.EndTime,
			ap.StartTime,
		).
		Count(&blocks).Error; err != nil {
		return err
	}
	if blocks > 0 {
		return httperr.ErrBusiness(httperr.CodeSlotUnavailable)
	}

	return nil
}

// compareAndSetStatus writes the status change only while the row still
// holds from, so a decision taken on a stale read cannot land.
func compareAndSetStatus(db *gorm.DB, ap *models.Appointment, from domain.Status) error {
	res := db.
		Model(&models.Appointment{}).
		Where("id = ? AND salon_id = ? AND status = ?", ap.ID, ap.SalonID, string(from)).
		Updates(map[string]any{
			"status":       ap.Status,
			"cancelled_at": ap.CancelledAt,
			"completed_at": ap.CompletedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness(httperr.CodeInvalidTransition)
	}
	return nil
}

// slotError maps the database's own overlap guarantees to the same
// business error the explicit check returns.
func slotError(err error) error {
	if err == nil {
		return nil
	}
	if httperr.IsExclusionConflict(err) || httperr.IsSerializationFailure(err) {
		return httperr.ErrBusiness(httperr.CodeSlotUnavailable)
	}
	return err
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)

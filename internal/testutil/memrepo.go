// Package testutil holds in-memory doubles shared by package tests.
package testutil

import (
	"context"
	"sort"
	"sync"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// MemRepo is a domain.Repository kept in maps behind one mutex, so
// InsertIfSlotFree is atomic the way a serializable transaction is.
type MemRepo struct {
	mu sync.Mutex

	salons       map[uint]models.Salon
	services     map[uint]models.Service
	blocks       []models.AvailabilityBlock
	appointments map[uint]models.Appointment
	nextID       uint

	// Calls counts every repository method invocation.
	Calls int
}

func NewMemRepo() *MemRepo {
	return &MemRepo{
		salons:       map[uint]models.Salon{},
		services:     map[uint]models.Service{},
		appointments: map[uint]models.Appointment{},
		nextID:       1,
	}
}

func (r *MemRepo) id() uint {
	id := r.nextID
	r.nextID++
	return id
}

// -------- seeding --------

func (r *MemRepo) AddSalon(s models.Salon) models.Salon {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == 0 {
		s.ID = r.id()
	}
	r.salons[s.ID] = s
	return s
}

func (r *MemRepo) AddService(s models.Service) models.Service {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == 0 {
		s.ID = r.id()
	}
	r.services[s.ID] = s
	return s
}

func (r *MemRepo) AddBlock(b models.AvailabilityBlock) models.AvailabilityBlock {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == 0 {
		b.ID = r.id()
	}
	r.blocks = append(r.blocks, b)
	return b
}

func (r *MemRepo) AddAppointment(ap models.Appointment) models.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ap.ID == 0 {
		ap.ID = r.id()
	}
	fillMinutes(&ap)
	r.appointments[ap.ID] = ap
	return ap
}

// Appointments returns every stored appointment of the salon ordered by
// date and start.
func (r *MemRepo) Appointments(salonID uint) []models.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(ap models.Appointment) bool { return ap.SalonID == salonID })
}

// -------- domain.Repository --------

func (r *MemRepo) GetSalonByID(_ context.Context, id uint) (*models.Salon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	s, ok := r.salons[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (r *MemRepo) GetSalonBySlug(_ context.Context, slug string) (*models.Salon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	for _, s := range r.salons {
		if s.Slug == slug {
			return &s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MemRepo) GetService(_ context.Context, salonID, serviceID uint) (*models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	s, ok := r.services[serviceID]
	if !ok || s.SalonID != salonID || !s.Active {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (r *MemRepo) ListActiveServices(_ context.Context, salonID uint) ([]models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	out := []models.Service{}
	for _, s := range r.services {
		if s.SalonID == salonID && s.Active {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *MemRepo) ListActiveAppointmentsForDate(_ context.Context, salonID uint, date string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	return r.filter(func(ap models.Appointment) bool {
		return ap.SalonID == salonID && ap.Date == date && domain.Status(ap.Status).OccupiesTime()
	}), nil
}

func (r *MemRepo) ListBlocksForDate(_ context.Context, salonID uint, date string) ([]models.AvailabilityBlock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	out := []models.AvailabilityBlock{}
	for _, b := range r.blocks {
		if b.SalonID == salonID && b.Date == date {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *MemRepo) InsertIfSlotFree(_ context.Context, ap *models.Appointment, check domain.ConflictCheck) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++

	fillMinutes(ap)
	if r.taken(ap, check) {
		return httperr.ErrBusiness(httperr.CodeSlotUnavailable)
	}

	ap.ID = r.id()
	r.appointments[ap.ID] = *ap
	return nil
}

func (r *MemRepo) GetAppointmentForSalon(_ context.Context, appointmentID, salonID uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	ap, ok := r.appointments[appointmentID]
	if !ok || ap.SalonID != salonID {
		return nil, domain.ErrNotFound
	}
	return &ap, nil
}

func (r *MemRepo) GetAppointmentByToken(_ context.Context, token string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	for _, ap := range r.appointments {
		if ap.CancellationToken == token {
			return &ap, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MemRepo) UpdateAppointment(_ context.Context, ap *models.Appointment, from domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	if !r.holds(ap, from) {
		return httperr.ErrBusiness(httperr.CodeInvalidTransition)
	}
	r.appointments[ap.ID] = *ap
	return nil
}

func (r *MemRepo) RestoreIfSlotFree(_ context.Context, ap *models.Appointment, check domain.ConflictCheck) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	if !r.holds(ap, domain.StatusCancelled) {
		return httperr.ErrBusiness(httperr.CodeInvalidTransition)
	}
	if r.taken(ap, check) {
		return httperr.ErrBusiness(httperr.CodeSlotUnavailable)
	}
	r.appointments[ap.ID] = *ap
	return nil
}

func (r *MemRepo) ListAppointmentsForPeriod(_ context.Context, salonID uint, fromDate, toDate string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	return r.filter(func(ap models.Appointment) bool {
		return ap.SalonID == salonID && ap.Date >= fromDate && ap.Date <= toDate
	}), nil
}

// -------- internals (caller holds mu) --------

func (r *MemRepo) filter(keep func(models.Appointment) bool) []models.Appointment {
	out := []models.Appointment{}
	for _, ap := range r.appointments {
		if keep(ap) {
			if s, ok := r.services[ap.ServiceID]; ok {
				ap.Service = s
			}
			out = append(out, ap)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartMinute < out[j].StartMinute
	})
	return out
}

// holds reports whether ap is stored for its salon with status from.
func (r *MemRepo) holds(ap *models.Appointment, from domain.Status) bool {
	stored, ok := r.appointments[ap.ID]
	return ok && stored.SalonID == ap.SalonID && domain.Status(stored.Status) == from
}

func (r *MemRepo) taken(ap *models.Appointment, check domain.ConflictCheck) bool {
	slot := availability.Interval{
		Start: availability.Clock(ap.StartMinute),
		End:   availability.Clock(ap.EndMinute),
	}

	for id, other := range r.appointments {
		if id == ap.ID || other.SalonID != ap.SalonID || other.Date != ap.Date {
			continue
		}
		if !domain.Status(other.Status).OccupiesTime() {
			continue
		}
		o := availability.Interval{
			Start: availability.Clock(other.StartMinute),
			End:   availability.Clock(other.EndMinute),
		}
		if slot.Overlaps(o) {
			return true
		}
	}

	if !check.IncludeBlocks {
		return false
	}

	var blocks []models.AvailabilityBlock
	for _, b := range r.blocks {
		if b.SalonID == ap.SalonID {
			blocks = append(blocks, b)
		}
	}
	engine, err := domain.ToEngineBlocks(blocks)
	if err != nil {
		// unreadable blocks hold the slot
		return true
	}
	return availability.ConflictsWithBlocks(slot, ap.Date, engine)
}

func fillMinutes(ap *models.Appointment) {
	if ap.StartMinute == 0 && ap.EndMinute == 0 {
		if c, err := availability.ParseClock(ap.StartTime); err == nil {
			ap.StartMinute = c.Minutes()
		}
		if c, err := availability.ParseClock(ap.EndTime); err == nil {
			ap.EndMinute = c.Minutes()
		}
	}
}

var _ domain.Repository = (*MemRepo)(nil)

package appointment

import (
	"context"
	"testing"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

func book(t *testing.T, f fixture, start string) *models.Appointment {
	t.Helper()
	ap, err := NewCreateBooking(f.repo, nil, BookingOptions{}).Execute(context.Background(), f.booking(start))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return ap
}

func TestSetStatus_Transitions(t *testing.T) {
	tests := []struct {
		to       string
		wantErr  string
		stamped  func(*models.Appointment) bool
		finalSts domain.Status
	}{
		{"completed", "", func(ap *models.Appointment) bool { return ap.CompletedAt != nil }, domain.StatusCompleted},
		{"no-show", "", func(*models.Appointment) bool { return true }, domain.StatusNoShow},
		{"cancelled", "", func(ap *models.Appointment) bool { return ap.CancelledAt != nil }, domain.StatusCancelled},
		{"confirmed", httperr.CodeInvalidTransition, nil, domain.StatusConfirmed},
		{"archived", httperr.CodeInvalidStatus, nil, domain.StatusConfirmed},
	}

	for _, tt := range tests {
		t.Run(tt.to, func(t *testing.T) {
			f := newFixture(t)
			ap := book(t, f, "10:00")
			uc := NewSetAppointmentStatus(f.repo, nil, false)

			got, err := uc.Execute(context.Background(), SetStatusInput{
				SalonID:       f.salon.ID,
				AppointmentID: ap.ID,
				Status:        tt.to,
			})

			if tt.wantErr != "" {
				expectCode(t, err, tt.wantErr)
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !tt.stamped(got) {
					t.Error("expected timestamp to be set")
				}
			}

			stored, _ := f.repo.GetAppointmentForSalon(context.Background(), ap.ID, f.salon.ID)
			if domain.Status(stored.Status) != tt.finalSts {
				t.Errorf("expected stored status %s, got %s", tt.finalSts, stored.Status)
			}
		})
	}
}

func TestSetStatus_TerminalStatesAreFinal(t *testing.T) {
	f := newFixture(t)
	ap := book(t, f, "10:00")
	uc := NewSetAppointmentStatus(f.repo, nil, false)

	in := SetStatusInput{SalonID: f.salon.ID, AppointmentID: ap.ID, Status: "completed"}
	if _, err := uc.Execute(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, to := range []string{"confirmed", "cancelled", "no-show"} {
		in.Status = to
		_, err := uc.Execute(context.Background(), in)
		expectCode(t, err, httperr.CodeInvalidTransition)
	}
}

func TestSetStatus_ScopedToSalon(t *testing.T) {
	f := newFixture(t)
	ap := book(t, f, "10:00")
	other := f.repo.AddSalon(models.Salon{Name: "Other", Slug: "other"})

	uc := NewSetAppointmentStatus(f.repo, nil, false)
	_, err := uc.Execute(context.Background(), SetStatusInput{
		SalonID:       other.ID,
		AppointmentID: ap.ID,
		Status:        "cancelled",
	})
	expectCode(t, err, httperr.CodeAppointmentNotFound)
}

func TestSetStatus_InvalidStatusSkipsStorage(t *testing.T) {
	f := newFixture(t)
	uc := NewSetAppointmentStatus(f.repo, nil, false)

	_, err := uc.Execute(context.Background(), SetStatusInput{SalonID: f.salon.ID, AppointmentID: 1, Status: "Done"})
	expectCode(t, err, httperr.CodeInvalidStatus)
	if f.repo.Calls != 0 {
		t.Errorf("expected no storage access, got %d calls", f.repo.Calls)
	}
}

func TestSetStatus_CancelFreesSlot(t *testing.T) {
	f := newFixture(t)
	ap := book(t, f, "10:00")

	uc := NewSetAppointmentStatus(f.repo, nil, false)
	if _, err := uc.Execute(context.Background(), SetStatusInput{
		SalonID:       f.salon.ID,
		AppointmentID: ap.ID,
		Status:        "cancelled",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	slots, err := NewGetAvailability(f.repo).Execute(context.Background(), domain.AvailabilityInput{
		SalonID:   f.salon.ID,
		ServiceID: f.service.ID,
		Date:      testDate,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range slots {
		if s.Time == "10:00" && !s.Available {
			t.Error("expected 10:00 to be available after cancellation")
		}
	}

	if _, err := NewCreateBooking(f.repo, nil, BookingOptions{}).Execute(context.Background(), f.booking("10:00")); err != nil {
		t.Fatalf("expected rebooking to succeed: %v", err)
	}
}

func TestSetStatus_RestoreChecksOverlap(t *testing.T) {
	f := newFixture(t)
	first := book(t, f, "10:00")
	uc := NewSetAppointmentStatus(f.repo, nil, false)

	cancel := SetStatusInput{SalonID: f.salon.ID, AppointmentID: first.ID, Status: "cancelled"}
	if _, err := uc.Execute(context.Background(), cancel); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	book(t, f, "10:30")

	restore := SetStatusInput{SalonID: f.salon.ID, AppointmentID: first.ID, Status: "confirmed"}
	_, err := uc.Execute(context.Background(), restore)
	expectCode(t, err, httperr.CodeSlotUnavailable)

	stored, _ := f.repo.GetAppointmentForSalon(context.Background(), first.ID, f.salon.ID)
	if stored.Status != string(domain.StatusCancelled) {
		t.Errorf("expected appointment to stay cancelled, got %s", stored.Status)
	}
}

func TestSetStatus_RestoreWhenFree(t *testing.T) {
	f := newFixture(t)
	ap := book(t, f, "10:00")
	uc := NewSetAppointmentStatus(f.repo, nil, false)

	for _, to := range []string{"cancelled", "confirmed"} {
		if _, err := uc.Execute(context.Background(), SetStatusInput{
			SalonID:       f.salon.ID,
			AppointmentID: ap.ID,
			Status:        to,
		}); err != nil {
			t.Fatalf("%s: unexpected error: %v", to, err)
		}
	}

	stored, _ := f.repo.GetAppointmentForSalon(context.Background(), ap.ID, f.salon.ID)
	if stored.Status != string(domain.StatusConfirmed) || stored.CancelledAt != nil {
		t.Errorf("expected confirmed without cancelled_at, got %s %v", stored.Status, stored.CancelledAt)
	}
}

func TestStatusAction(t *testing.T) {
	if got := statusAction(domain.StatusConfirmed, domain.StatusNoShow); got != "appointment_no_show" {
		t.Errorf("unexpected action %s", got)
	}
	if got := statusAction(domain.StatusCancelled, domain.StatusConfirmed); got != "appointment_restored" {
		t.Errorf("unexpected action %s", got)
	}
}

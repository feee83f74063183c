package appointment

import (
	"testing"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/testutil"
)

// 2030-01-14 is a Monday.
const testDate = "2030-01-14"

type fixture struct {
	repo    *testutil.MemRepo
	salon   models.Salon
	service models.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	var hours availability.BusinessHours
	for d := availability.Monday; d <= availability.Saturday; d++ {
		hours.Set(d, availability.DayHours{
			IsOpen:    true,
			OpenTime:  availability.MustClock("09:00"),
			CloseTime: availability.MustClock("17:00"),
		})
	}

	repo := testutil.NewMemRepo()
	salon := repo.AddSalon(models.Salon{
		Name:              "Studio Bela",
		Slug:              "studio-bela",
		Timezone:          "America/Sao_Paulo",
		BusinessHours:     hours,
		CancellationHours: 24,
	})
	service := repo.AddService(models.Service{
		SalonID:     salon.ID,
		Name:        "Corte",
		DurationMin: 60,
		Active:      true,
	})

	return fixture{repo: repo, salon: salon, service: service}
}

func (f fixture) booking(start string) CreateBookingInput {
	return CreateBookingInput{
		SalonID:     f.salon.ID,
		ServiceID:   f.service.ID,
		Date:        testDate,
		StartTime:   start,
		ClientName:  "Ana",
		ClientEmail: "ana@example.com",
	}
}

func expectCode(t *testing.T, err error, code string) {
	t.Helper()
	if !httperr.IsBusiness(err, code) {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

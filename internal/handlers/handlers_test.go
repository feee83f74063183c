package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/testutil"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testSecret = "test-secret"
	// 2030-01-14 is a Monday.
	testDate = "2030-01-14"
)

type env struct {
	repo    *testutil.MemRepo
	salon   models.Salon
	service models.Service
	public  *PublicHandler
	router  *gin.Engine
}

func newEnv(t *testing.T) *env {
	t.Helper()

	repo := testutil.NewMemRepo()
	salon := repo.AddSalon(models.Salon{
		Name:              "Studio Bela",
		Slug:              "studio-bela",
		Timezone:          "America/Sao_Paulo",
		BusinessHours:     defaultBusinessHours(),
		CancellationHours: 24,
	})
	service := repo.AddService(models.Service{
		SalonID:     salon.ID,
		Name:        "Escova",
		DurationMin: 60,
		Active:      true,
	})

	log := zap.NewNop()
	public := NewPublicHandler(
		repo,
		appointment.NewGetAvailability(repo),
		appointment.NewCreateBooking(repo, nil, appointment.BookingOptions{Logger: log}),
		appointment.NewCancelByToken(repo, nil),
		log,
	)
	appts := NewAppointmentHandler(
		repo,
		appointment.NewSetAppointmentStatus(repo, nil, false),
		appointment.NewListAppointmentsByDate(repo),
		appointment.NewListAppointmentsByMonth(repo),
		log,
	)

	r := gin.New()
	pub := r.Group("/api/public")
	pub.GET("/:slug", public.Salon)
	pub.GET("/:slug/availability", public.Availability)
	pub.POST("/:slug/bookings", public.CreateBooking)
	pub.POST("/appointments/:token/cancel", public.CancelBooking)

	me := r.Group("/api/me", middleware.AuthMiddleware(testSecret))
	me.GET("/appointments", appts.ListByDate)
	me.GET("/appointments/month", appts.ListByMonth)
	me.GET("/appointments/:id", appts.Get)
	me.PATCH("/appointments/:id/status", appts.UpdateStatus)

	return &env{repo: repo, salon: salon, service: service, public: public, router: r}
}

func (e *env) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *env) ownerToken(t *testing.T, salonID uint) string {
	t.Helper()
	tok, err := SignToken(testSecret, 1, salonID, "owner", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return tok
}

func (e *env) book(t *testing.T, start string) map[string]any {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/public/studio-bela/bookings", map[string]any{
		"service_id":   e.service.ID,
		"date":         testDate,
		"start_time":   start,
		"client_name":  "Ana",
		"client_email": "ana@example.com",
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return out
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var e httperr.HTTPError
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("unexpected error: %v (%s)", err, w.Body.String())
	}
	return e.Code
}

// ======================================================
// PUBLIC
// ======================================================

func TestPublic_SalonPage(t *testing.T) {
	e := newEnv(t)
	e.repo.AddService(models.Service{SalonID: e.salon.ID, Name: "Antigo", DurationMin: 30})

	w := e.do(t, http.MethodGet, "/api/public/studio-bela", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var out struct {
		Salon    map[string]any   `json:"salon"`
		Services []map[string]any `json:"services"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Salon["slug"] != "studio-bela" {
		t.Errorf("unexpected salon %v", out.Salon)
	}
	if len(out.Services) != 1 {
		t.Errorf("expected only the active service, got %d", len(out.Services))
	}

	w = e.do(t, http.MethodGet, "/api/public/nope", nil, "")
	if w.Code != http.StatusNotFound || errorCode(t, w) != httperr.CodeSalonNotFound {
		t.Fatalf("expected 404 salon_not_found, got %d %s", w.Code, w.Body.String())
	}
}

func TestPublic_Availability(t *testing.T) {
	e := newEnv(t)
	e.book(t, "10:00")

	w := e.do(t, http.MethodGet, "/api/public/studio-bela/availability?date="+testDate+"&service_id="+itoa(e.service.ID), nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var out struct {
		Date  string                  `json:"date"`
		Slots []availability.TimeSlot `json:"slots"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Date != testDate {
		t.Errorf("expected date %s, got %s", testDate, out.Date)
	}
	got := map[string]bool{}
	for _, s := range out.Slots {
		got[s.Time] = s.Available
	}
	if got["09:30"] || !got["09:00"] || !got["11:00"] {
		t.Errorf("unexpected availability %v", got)
	}
	if last := out.Slots[len(out.Slots)-1].Time; last != "17:00" {
		t.Errorf("expected last slot 17:00 for a 18:00 close, got %s", last)
	}
}

func TestPublic_AvailabilityMarksPast(t *testing.T) {
	e := newEnv(t)
	saoPaulo, _ := time.LoadLocation("America/Sao_Paulo")
	e.public.now = func() time.Time { return time.Date(2030, 1, 14, 12, 5, 0, 0, saoPaulo) }

	w := e.do(t, http.MethodGet, "/api/public/studio-bela/availability?date="+testDate+"&duration=30", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var out struct {
		Slots []availability.TimeSlot `json:"slots"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	for _, s := range out.Slots {
		past := s.Time <= "12:00"
		if past && s.Available {
			t.Errorf("slot %s already started and must be unavailable", s.Time)
		}
		if !past && !s.Available {
			t.Errorf("slot %s is in the future and must be available", s.Time)
		}
	}
}

func TestPublic_AvailabilityErrors(t *testing.T) {
	e := newEnv(t)

	tests := []struct {
		query string
		code  int
		err   string
	}{
		{"", http.StatusBadRequest, "missing_params"},
		{"?date=2030-13-01", http.StatusBadRequest, httperr.CodeInvalidDate},
		{"?date=" + testDate + "&service_id=abc", http.StatusBadRequest, httperr.CodeInvalidInput},
		{"?date=" + testDate + "&service_id=999", http.StatusNotFound, httperr.CodeServiceNotFound},
		{"?date=" + testDate + "&duration=-10", http.StatusBadRequest, httperr.CodeInvalidDuration},
		{"?date=" + testDate + "&duration=1441", http.StatusBadRequest, httperr.CodeInvalidDuration},
		{"?date=" + testDate + "&duration=9223372036854775807", http.StatusBadRequest, httperr.CodeInvalidDuration},
	}

	for _, tt := range tests {
		w := e.do(t, http.MethodGet, "/api/public/studio-bela/availability"+tt.query, nil, "")
		if w.Code != tt.code || errorCode(t, w) != tt.err {
			t.Errorf("%q: expected %d %s, got %d %s", tt.query, tt.code, tt.err, w.Code, w.Body.String())
		}
	}
}

func TestPublic_BookingConflict(t *testing.T) {
	e := newEnv(t)
	out := e.book(t, "10:00")
	if out["cancellation_token"] == "" {
		t.Error("expected cancellation token in response")
	}

	w := e.do(t, http.MethodPost, "/api/public/studio-bela/bookings", map[string]any{
		"service_id":   e.service.ID,
		"date":         testDate,
		"start_time":   "10:30",
		"client_name":  "Bia",
		"client_email": "bia@example.com",
	}, "")
	if w.Code != http.StatusConflict || errorCode(t, w) != httperr.CodeSlotUnavailable {
		t.Fatalf("expected 409 slot_unavailable, got %d %s", w.Code, w.Body.String())
	}
}

func TestPublic_BookingValidation(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/api/public/studio-bela/bookings", map[string]any{
		"service_id": e.service.ID,
		"date":       testDate,
	}, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	w = e.do(t, http.MethodPost, "/api/public/studio-bela/bookings", map[string]any{
		"service_id":   e.service.ID,
		"date":         testDate,
		"start_time":   "7pm",
		"client_name":  "Ana",
		"client_email": "ana@example.com",
	}, "")
	if w.Code != http.StatusBadRequest || errorCode(t, w) != httperr.CodeInvalidTime {
		t.Fatalf("expected 400 invalid_time, got %d %s", w.Code, w.Body.String())
	}
}

func TestPublic_CancelByToken(t *testing.T) {
	e := newEnv(t)
	out := e.book(t, "10:00")
	token := out["cancellation_token"].(string)

	w := e.do(t, http.MethodPost, "/api/public/appointments/"+token+"/cancel", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// the slot is free again
	e.book(t, "10:00")

	w = e.do(t, http.MethodPost, "/api/public/appointments/unknown/cancel", nil, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

// ======================================================
// OWNER
// ======================================================

func TestAppointments_StatusFlow(t *testing.T) {
	e := newEnv(t)
	out := e.book(t, "10:00")
	id := uint(out["appointment"].(map[string]any)["id"].(float64))
	token := e.ownerToken(t, e.salon.ID)

	path := "/api/me/appointments/" + itoa(id) + "/status"

	w := e.do(t, http.MethodPatch, path, map[string]string{"status": "completed"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodPatch, path, map[string]string{"status": "cancelled"}, token)
	if w.Code != http.StatusUnprocessableEntity || errorCode(t, w) != httperr.CodeInvalidTransition {
		t.Fatalf("expected 422 invalid_transition, got %d %s", w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodPatch, path, map[string]string{"status": "done"}, token)
	if w.Code != http.StatusBadRequest || errorCode(t, w) != httperr.CodeInvalidStatus {
		t.Fatalf("expected 400 invalid_status, got %d %s", w.Code, w.Body.String())
	}
}

func TestAppointments_TenantIsolation(t *testing.T) {
	e := newEnv(t)
	out := e.book(t, "10:00")
	id := uint(out["appointment"].(map[string]any)["id"].(float64))

	other := e.repo.AddSalon(models.Salon{Name: "Outro", Slug: "outro"})
	token := e.ownerToken(t, other.ID)

	w := e.do(t, http.MethodGet, "/api/me/appointments/"+itoa(id), nil, token)
	if w.Code != http.StatusNotFound || errorCode(t, w) != httperr.CodeAppointmentNotFound {
		t.Fatalf("expected 404 appointment_not_found, got %d %s", w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodPatch, "/api/me/appointments/"+itoa(id)+"/status", map[string]string{"status": "cancelled"}, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestAppointments_List(t *testing.T) {
	e := newEnv(t)
	e.book(t, "14:00")
	e.book(t, "09:00")
	token := e.ownerToken(t, e.salon.ID)

	w := e.do(t, http.MethodGet, "/api/me/appointments?date="+testDate, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var out struct {
		Data []struct {
			StartTime string `json:"start_time"`
		} `json:"data"`
		Total int `json:"total"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Total != 2 || out.Data[0].StartTime != "09:00" {
		t.Errorf("unexpected list %+v", out)
	}

	w = e.do(t, http.MethodGet, "/api/me/appointments/month?year=2030&month=1", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = e.do(t, http.MethodGet, "/api/me/appointments/month?year=2030&month=13", nil, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	w = e.do(t, http.MethodGet, "/api/me/appointments?date="+testDate, nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}

func TestRespondError_HidesInfrastructureErrors(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(c, zap.NewNop(), errors.New("pq: connection reset"))

	if w.Code != http.StatusInternalServerError || errorCode(t, w) != "internal_error" {
		t.Fatalf("expected 500 internal_error, got %d %s", w.Code, w.Body.String())
	}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

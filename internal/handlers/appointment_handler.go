package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	repo        domain.Repository
	setStatus   *appointment.SetAppointmentStatus
	listByDate  *appointment.ListAppointmentsByDate
	listByMonth *appointment.ListAppointmentsByMonth
	log         *zap.Logger
}

func NewAppointmentHandler(
	repo domain.Repository,
	setStatus *appointment.SetAppointmentStatus,
	listByDate *appointment.ListAppointmentsByDate,
	listByMonth *appointment.ListAppointmentsByMonth,
	log *zap.Logger,
) *AppointmentHandler {
	return &AppointmentHandler{
		repo:        repo,
		setStatus:   setStatus,
		listByDate:  listByDate,
		listByMonth: listByMonth,
		log:         log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// LIST
// ======================================================

// ListByDate defaults to today in the salon's timezone.
func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	salonID := middleware.SalonID(c)

	date := c.Query("date")
	if date == "" {
		shop, err := h.repo.GetSalonByID(c.Request.Context(), salonID)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		date = timezone.NowIn(shop.Timezone).Format("2006-01-02")
	}

	items, err := h.listByDate.Execute(c.Request.Context(), salonID, date)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.List(c, items)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	salonID := middleware.SalonID(c)

	year, err1 := strconv.Atoi(c.Query("year"))
	month, err2 := strconv.Atoi(c.Query("month"))
	if err1 != nil || err2 != nil || year < 1970 || month < 1 || month > 12 {
		httperr.BadRequest(c, httperr.CodeInvalidDate, "Ano ou mês inválido.")
		return
	}

	items, err := h.listByMonth.Execute(c.Request.Context(), salonID, year, month)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	httpresp.List(c, items)
}

// ======================================================
// DETAIL
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ap, err := h.repo.GetAppointmentForSalon(c.Request.Context(), id, middleware.SalonID(c))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = httperr.ErrBusiness(httperr.CodeAppointmentNotFound)
		}
		respondError(c, h.log, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, messages[httperr.CodeInvalidInput])
		return
	}

	ap, err := h.setStatus.Execute(c.Request.Context(), appointment.SetStatusInput{
		SalonID:       middleware.SalonID(c),
		UserID:        middleware.UserID(c),
		AppointmentID: id,
		Status:        req.Status,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

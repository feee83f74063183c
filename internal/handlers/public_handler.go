package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	repo         domain.Repository
	availability *appointment.GetAvailability
	create       *appointment.CreateBooking
	cancel       *appointment.CancelByToken
	log          *zap.Logger
	now          func() time.Time
}

func NewPublicHandler(
	repo domain.Repository,
	availability *appointment.GetAvailability,
	create *appointment.CreateBooking,
	cancel *appointment.CancelByToken,
	log *zap.Logger,
) *PublicHandler {
	return &PublicHandler{
		repo:         repo,
		availability: availability,
		create:       create,
		cancel:       cancel,
		log:          log,
		now:          time.Now,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateBookingRequest struct {
	ServiceID   uint   `json:"service_id" binding:"required"`
	Date        string `json:"date" binding:"required"`       // YYYY-MM-DD
	StartTime   string `json:"start_time" binding:"required"` // HH:MM
	ClientName  string `json:"client_name" binding:"required"`
	ClientEmail string `json:"client_email" binding:"required"`
	ClientPhone string `json:"client_phone"`
	Notes       string `json:"notes"`
}

type publicSalon struct {
	ID            uint                       `json:"id"`
	Name          string                     `json:"name"`
	Slug          string                     `json:"slug"`
	Phone         string                     `json:"phone"`
	Address       string                     `json:"address"`
	Timezone      string                     `json:"timezone"`
	LogoURL       string                     `json:"logo_url"`
	BusinessHours availability.BusinessHours `json:"business_hours"`
}

func toPublicSalon(s *models.Salon) publicSalon {
	return publicSalon{
		ID:            s.ID,
		Name:          s.Name,
		Slug:          s.Slug,
		Phone:         s.Phone,
		Address:       s.Address,
		Timezone:      s.Timezone,
		LogoURL:       s.LogoURL,
		BusinessHours: s.BusinessHours,
	}
}

////////////////////////////////////////////////////////
// SALON PAGE
////////////////////////////////////////////////////////

func (h *PublicHandler) Salon(c *gin.Context) {
	shop, ok := h.salonBySlug(c)
	if !ok {
		return
	}

	services, err := h.repo.ListActiveServices(c.Request.Context(), shop.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"salon":    toPublicSalon(shop),
		"services": services,
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_params", "Data obrigatória.")
		return
	}

	in := domain.AvailabilityInput{Date: dateStr}

	if s := c.Query("service_id"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil || id == 0 {
			httperr.BadRequest(c, httperr.CodeInvalidInput, "Serviço inválido.")
			return
		}
		in.ServiceID = uint(id)
	} else if s := c.Query("duration"); s != "" {
		d, err := strconv.Atoi(s)
		if err != nil {
			httperr.BadRequest(c, httperr.CodeInvalidDuration, messages[httperr.CodeInvalidDuration])
			return
		}
		in.DurationMin = d
	}

	shop, ok := h.salonBySlug(c)
	if !ok {
		return
	}
	in.SalonID = shop.ID

	slots, err := h.availability.Execute(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	// the engine is clock-free; hide what already started in the salon's day
	date, _ := availability.ParseDate(dateStr)
	now := h.now().In(timezone.Location(shop.Timezone))
	slots = availability.MarkPast(slots, date, now)

	c.JSON(http.StatusOK, gin.H{
		"date":  date.Format(availability.DateLayout),
		"slots": slots,
	})
}

////////////////////////////////////////////////////////
// BOOKING
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateBooking(c *gin.Context) {
	var req PublicCreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, messages[httperr.CodeInvalidInput])
		return
	}

	shop, ok := h.salonBySlug(c)
	if !ok {
		return
	}

	ap, err := h.create.Execute(
		c.Request.Context(),
		appointment.CreateBookingInput{
			SalonID:     shop.ID,
			ServiceID:   req.ServiceID,
			Date:        req.Date,
			StartTime:   req.StartTime,
			ClientName:  req.ClientName,
			ClientEmail: req.ClientEmail,
			ClientPhone: req.ClientPhone,
			Notes:       req.Notes,
		},
	)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"appointment":        ap,
		"cancellation_token": ap.CancellationToken,
	})
}

func (h *PublicHandler) CancelBooking(c *gin.Context) {
	ap, err := h.cancel.Execute(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

////////////////////////////////////////////////////////
// HELPERS
////////////////////////////////////////////////////////

func (h *PublicHandler) salonBySlug(c *gin.Context) (*models.Salon, bool) {
	shop, err := h.repo.GetSalonBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			httperr.NotFound(c, httperr.CodeSalonNotFound, messages[httperr.CodeSalonNotFound])
			return nil, false
		}
		respondError(c, h.log, err)
		return nil, false
	}
	return shop, true
}

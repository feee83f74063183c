package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type BusinessHoursHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
	log   *zap.Logger
}

func NewBusinessHoursHandler(db *gorm.DB, audit *audit.Dispatcher, log *zap.Logger) *BusinessHoursHandler {
	return &BusinessHoursHandler{db: db, audit: audit, log: log}
}

func (h *BusinessHoursHandler) Get(c *gin.Context) {
	var shop models.Salon
	if err := h.db.WithContext(c.Request.Context()).
		Select("id", "business_hours").
		First(&shop, middleware.SalonID(c)).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, httperr.CodeSalonNotFound, messages[httperr.CodeSalonNotFound])
			return
		}
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, shop.BusinessHours)
}

// Update replaces the whole week. Weekdays missing from the body are
// stored as closed.
func (h *BusinessHoursHandler) Update(c *gin.Context) {
	salonID := middleware.SalonID(c)

	var hours availability.BusinessHours
	if err := c.ShouldBindJSON(&hours); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if err := hours.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_business_hours",
			"details": err.Error(),
		})
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.Salon{ID: salonID}).
		Select("business_hours").
		Updates(&models.Salon{BusinessHours: hours}).Error; err != nil {

		respondError(c, h.log, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		SalonID: salonID,
		UserID:  middleware.UserID(c),
		Action:  "business_hours_updated",
		Entity:  "salon",
	})

	c.JSON(http.StatusOK, hours)
}

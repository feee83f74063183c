package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type ServiceHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
	log   *zap.Logger
}

func NewServiceHandler(db *gorm.DB, audit *audit.Dispatcher, log *zap.Logger) *ServiceHandler {
	return &ServiceHandler{db: db, audit: audit, log: log}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	DurationMin  int     `json:"duration" binding:"required,min=1"`
	Price        float64 `json:"price" binding:"min=0"`
	DisplayOrder int     `json:"display_order"`
}

type UpdateServiceRequest struct {
	Name         *string  `json:"name,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Category     *string  `json:"category,omitempty"`
	DurationMin  *int     `json:"duration,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	Active       *bool    `json:"is_active,omitempty"`
	DisplayOrder *int     `json:"display_order,omitempty"`
}

func validDuration(d int) bool {
	return d > 0 && d < int(availability.EndOfDay)
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	salonID := middleware.SalonID(c)

	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	activeStr := strings.TrimSpace(c.Query("active"))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Where("salon_id = ?", salonID)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	switch activeStr {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", like, like)
	}

	var services []models.Service
	if err := q.
		Order("display_order ASC, id ASC").
		Find(&services).Error; err != nil {

		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	salonID := middleware.SalonID(c)

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}
	if !validDuration(req.DurationMin) {
		httperr.BadRequest(c, httperr.CodeInvalidDuration, messages[httperr.CodeInvalidDuration])
		return
	}

	service := models.Service{
		SalonID:      salonID,
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Category:     strings.ToLower(req.Category),
		DurationMin:  req.DurationMin,
		Price:        req.Price,
		Active:       true,
		DisplayOrder: req.DisplayOrder,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&service).Error; err != nil {
		respondError(c, h.log, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   middleware.UserID(c),
		Action:   "service_created",
		Entity:   "service",
		EntityID: &service.ID,
	})

	c.JSON(http.StatusCreated, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	salonID := middleware.SalonID(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var service models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND salon_id = ?", id, salonID).
		First(&service).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, httperr.CodeServiceNotFound, messages[httperr.CodeServiceNotFound])
			return
		}
		respondError(c, h.log, err)
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Name != nil {
		service.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.Category != nil {
		service.Category = strings.ToLower(*req.Category)
	}
	if req.DurationMin != nil {
		if !validDuration(*req.DurationMin) {
			httperr.BadRequest(c, httperr.CodeInvalidDuration, messages[httperr.CodeInvalidDuration])
			return
		}
		service.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if req.Active != nil {
		service.Active = *req.Active
	}
	if req.DisplayOrder != nil {
		service.DisplayOrder = *req.DisplayOrder
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&service).Error; err != nil {
		respondError(c, h.log, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   middleware.UserID(c),
		Action:   "service_updated",
		Entity:   "service",
		EntityID: &service.ID,
		Metadata: req,
	})

	c.JSON(http.StatusOK, service)
}

package handlers

import (
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

type BlockHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
	log   *zap.Logger
}

func NewBlockHandler(db *gorm.DB, audit *audit.Dispatcher, log *zap.Logger) *BlockHandler {
	return &BlockHandler{db: db, audit: audit, log: log}
}

type CreateBlockRequest struct {
	Date      string `json:"block_date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Reason    string `json:"reason"`
}

// parseBlock normalises the request to the stored YYYY-MM-DD / HH:MM form.
func parseBlock(req CreateBlockRequest) (date, start, end string, code string) {
	d, err := availability.ParseDate(req.Date)
	if err != nil {
		return "", "", "", httperr.CodeInvalidDate
	}
	s, err1 := availability.ParseClock(req.StartTime)
	e, err2 := availability.ParseClock(req.EndTime)
	if err1 != nil || err2 != nil || s >= e {
		return "", "", "", httperr.CodeInvalidTime
	}
	return d.Format(availability.DateLayout), s.String(), e.String(), ""
}

// List returns blocks of one date, or every block from a date on.
func (h *BlockHandler) List(c *gin.Context) {
	salonID := middleware.SalonID(c)

	q := h.db.WithContext(c.Request.Context()).Where("salon_id = ?", salonID)

	if date := c.Query("date"); date != "" {
		if _, err := availability.ParseDate(date); err != nil {
			httperr.BadRequest(c, httperr.CodeInvalidDate, messages[httperr.CodeInvalidDate])
			return
		}
		q = q.Where("block_date = ?", date)
	} else if from := c.Query("from"); from != "" {
		if _, err := availability.ParseDate(from); err != nil {
			httperr.BadRequest(c, httperr.CodeInvalidDate, messages[httperr.CodeInvalidDate])
			return
		}
		q = q.Where("block_date >= ?", from)
	}

	var blocks []models.AvailabilityBlock
	if err := q.Order("block_date ASC, start_time ASC").Find(&blocks).Error; err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, blocks)
}

func (h *BlockHandler) Create(c *gin.Context) {
	salonID := middleware.SalonID(c)

	var req CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, messages[httperr.CodeInvalidInput])
		return
	}

	date, start, end, code := parseBlock(req)
	if code != "" {
		httperr.BadRequest(c, code, messages[code])
		return
	}

	block := models.AvailabilityBlock{
		SalonID:   salonID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Reason:    strings.TrimSpace(req.Reason),
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&block).Error; err != nil {
		respondError(c, h.log, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   middleware.UserID(c),
		Action:   "block_created",
		Entity:   "availability_block",
		EntityID: &block.ID,
		Metadata: map[string]string{"date": date, "start": start, "end": end},
	})

	c.JSON(http.StatusCreated, block)
}

func (h *BlockHandler) Delete(c *gin.Context) {
	salonID := middleware.SalonID(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND salon_id = ?", id, salonID).
		Delete(&models.AvailabilityBlock{})
	if res.Error != nil {
		respondError(c, h.log, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, httperr.CodeBlockNotFound, messages[httperr.CodeBlockNotFound])
		return
	}

	h.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   middleware.UserID(c),
		Action:   "block_deleted",
		Entity:   "availability_block",
		EntityID: &id,
	})

	c.Status(http.StatusNoContent)
}

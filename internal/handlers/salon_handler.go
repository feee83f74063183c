package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/imageproc"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

// LogoUploader stores an encoded logo and returns its public URL.
type LogoUploader interface {
	Upload(ctx context.Context, key, contentType string, body []byte) (string, error)
}

type SalonHandler struct {
	db       *gorm.DB
	audit    *audit.Dispatcher
	uploader LogoUploader
	log      *zap.Logger
}

// NewSalonHandler accepts a nil uploader; logo uploads then answer 503.
func NewSalonHandler(db *gorm.DB, audit *audit.Dispatcher, uploader LogoUploader, log *zap.Logger) *SalonHandler {
	return &SalonHandler{db: db, audit: audit, uploader: uploader, log: log}
}

type UpdateSalonRequest struct {
	Name              *string `json:"name"`
	Email             *string `json:"email"`
	Phone             *string `json:"phone"`
	Address           *string `json:"address"`
	Timezone          *string `json:"timezone"`
	BookingBufferMin  *int    `json:"booking_buffer"`
	CancellationHours *int    `json:"cancellation_hours"`
}

func (h *SalonHandler) load(c *gin.Context) (*models.Salon, bool) {
	var shop models.Salon
	if err := h.db.WithContext(c.Request.Context()).First(&shop, middleware.SalonID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, httperr.CodeSalonNotFound, messages[httperr.CodeSalonNotFound])
			return nil, false
		}
		respondError(c, h.log, err)
		return nil, false
	}
	return &shop, true
}

func (h *SalonHandler) GetMeSalon(c *gin.Context) {
	shop, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, shop)
}

func (h *SalonHandler) UpdateMeSalon(c *gin.Context) {
	shop, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateSalonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			httperr.BadRequest(c, "invalid_name", "Nome obrigatório.")
			return
		}
		shop.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		shop.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		shop.Phone = *req.Phone
	}
	if req.Address != nil {
		shop.Address = *req.Address
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Fuso horário inválido.")
			return
		}
		shop.Timezone = *req.Timezone
	}
	if req.BookingBufferMin != nil {
		if *req.BookingBufferMin < 0 || *req.BookingBufferMin > 240 {
			httperr.BadRequest(c, "invalid_booking_buffer", "Intervalo entre atendimentos deve estar entre 0 e 240 minutos.")
			return
		}
		shop.BookingBufferMin = *req.BookingBufferMin
	}
	if req.CancellationHours != nil {
		if *req.CancellationHours < 0 {
			httperr.BadRequest(c, "invalid_cancellation_hours", "Antecedência de cancelamento deve ser zero ou positiva.")
			return
		}
		shop.CancellationHours = *req.CancellationHours
	}

	if err := h.db.WithContext(c.Request.Context()).Save(shop).Error; err != nil {
		respondError(c, h.log, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		SalonID:  shop.ID,
		UserID:   middleware.UserID(c),
		Action:   "salon_updated",
		Entity:   "salon",
		EntityID: &shop.ID,
		Metadata: req,
	})

	c.JSON(http.StatusOK, shop)
}

// UploadLogo expects a multipart "logo" field.
func (h *SalonHandler) UploadLogo(c *gin.Context) {
	if h.uploader == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "logo_upload_disabled", "Upload de logo indisponível.")
		return
	}

	file, err := c.FormFile("logo")
	if err != nil {
		httperr.BadRequest(c, "missing_logo", "Arquivo de logo obrigatório.")
		return
	}
	if file.Size > imageproc.MaxLogoBytes {
		httperr.BadRequest(c, "logo_too_large", "Logo deve ter no máximo 5MB.")
		return
	}

	f, err := file.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_logo", "Não foi possível ler o arquivo.")
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, imageproc.MaxLogoBytes+1))
	if err != nil {
		httperr.BadRequest(c, "invalid_logo", "Não foi possível ler o arquivo.")
		return
	}

	encoded, err := imageproc.LogoToWebP(raw)
	if err != nil {
		if errors.Is(err, imageproc.ErrTooLarge) {
			httperr.BadRequest(c, "logo_too_large", "Logo deve ter no máximo 5MB.")
			return
		}
		httperr.BadRequest(c, "invalid_logo", "Formato de imagem não suportado.")
		return
	}

	shop, ok := h.load(c)
	if !ok {
		return
	}

	key := fmt.Sprintf("salons/%d/logo-%d.webp", shop.ID, time.Now().Unix())
	url, err := h.uploader.Upload(c.Request.Context(), key, "image/webp", encoded)
	if err != nil {
		h.log.Error("logo upload", zap.Uint("salon_id", shop.ID), zap.Error(err))
		httperr.Internal(c, "logo_upload_failed", "Erro ao enviar logo.")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(shop).
		Update("logo_url", url).Error; err != nil {
		respondError(c, h.log, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		SalonID:  shop.ID,
		UserID:   middleware.UserID(c),
		Action:   "salon_logo_updated",
		Entity:   "salon",
		EntityID: &shop.ID,
	})

	c.JSON(http.StatusOK, gin.H{"logo_url": url})
}

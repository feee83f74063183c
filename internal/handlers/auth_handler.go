package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

const tokenTTL = 24 * time.Hour

type AuthHandler struct {
	db     *gorm.DB
	secret string
	log    *zap.Logger

	// CheckEmailDomain enables the DNS lookup on registration.
	CheckEmailDomain bool
}

func NewAuthHandler(db *gorm.DB, secret string, log *zap.Logger) *AuthHandler {
	return &AuthHandler{db: db, secret: secret, log: log, CheckEmailDomain: true}
}

// --------- Requests ---------

type RegisterRequest struct {
	SalonName    string `json:"salon_name" binding:"required"`
	SalonSlug    string `json:"salon_slug"`
	SalonPhone   string `json:"salon_phone"`
	SalonAddress string `json:"salon_address"`
	Timezone     string `json:"timezone"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	// the slug defaults to the salon name, transliterated
	s := slug.Make(req.SalonSlug)
	if s == "" {
		s = slug.Make(req.SalonName)
	}
	if !slug.IsSlug(s) {
		httperr.BadRequest(c, "invalid_slug", "Endereço do salão inválido.")
		return
	}

	tz := strings.TrimSpace(req.Timezone)
	if tz == "" {
		tz = timezone.DefaultTimezone
	}
	if !timezone.IsValid(tz) {
		httperr.BadRequest(c, "invalid_timezone", "Fuso horário inválido.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if h.CheckEmailDomain && !validators.IsEmailDomainValid(email) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_email_domain",
			"message": "O domínio do e-mail informado não parece ser válido.",
		})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	shop := models.Salon{
		Name:              req.SalonName,
		Slug:              s,
		Phone:             req.SalonPhone,
		Address:           req.SalonAddress,
		Timezone:          tz,
		BusinessHours:     defaultBusinessHours(),
		CancellationHours: 24,
	}
	user := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         "owner",
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Salon{}).Where("slug = ?", s).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errSlugTaken
		}

		if err := tx.Create(&shop).Error; err != nil {
			return err
		}

		user.SalonID = shop.ID
		return tx.Omit("Salon").Create(&user).Error
	})

	switch {
	case errors.Is(err, errSlugTaken):
		httperr.Conflict(c, "slug_already_exists", "Este endereço já está em uso.")
		return
	case httperr.IsUniqueViolation(err):
		httperr.Conflict(c, "email_already_exists", "E-mail já cadastrado.")
		return
	case err != nil:
		h.log.Error("register salon", zap.String("slug", s), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_register"})
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.Info("salon registered", zap.Uint("salon_id", shop.ID), zap.String("slug", shop.Slug))

	c.JSON(http.StatusCreated, gin.H{
		"user":  userJSON(&user),
		"salon": shop,
		"token": token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Salon").
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
			return
		}
		h.log.Error("login lookup", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  userJSON(&user),
		"salon": user.Salon,
		"token": token,
	})
}

// --------- JWT ---------

var errSlugTaken = errors.New("slug taken")

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	return SignToken(h.secret, user.ID, user.SalonID, user.Role, time.Now())
}

// SignToken issues the HS256 token AuthMiddleware accepts.
func SignToken(secret string, userID, salonID uint, role string, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":     userID,
		"salonId": salonID,
		"role":    role,
		"exp":     now.Add(tokenTTL).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func userJSON(u *models.User) gin.H {
	return gin.H{
		"id":       u.ID,
		"name":     u.Name,
		"email":    u.Email,
		"phone":    u.Phone,
		"role":     u.Role,
		"salon_id": u.SalonID,
	}
}

// defaultBusinessHours opens a new salon Monday to Friday, 09:00-18:00.
func defaultBusinessHours() availability.BusinessHours {
	var h availability.BusinessHours
	for d := availability.Monday; d <= availability.Friday; d++ {
		h.Set(d, availability.DayHours{
			IsOpen:    true,
			OpenTime:  availability.MustClock("09:00"),
			CloseTime: availability.MustClock("18:00"),
		})
	}
	return h
}

package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/handlers"
	infraRepo "github.com/BruksfildServices01/salon-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
)

// Infra carries the process-wide singletons built in main.
// Locker and Uploader are optional and must be left as untyped nil when
// their backend is not configured.
type Infra struct {
	Logger   *zap.Logger
	Audit    *audit.Dispatcher
	Locker   domain.SlotLocker
	Uploader handlers.LogoUploader
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, infra Infra) {
	log := infra.Logger
	if log == nil {
		log = zap.NewNop()
	}

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins()))

	// ======================================================
	// INFRA
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	// ======================================================
	// USE CASES: APPOINTMENTS
	// ======================================================
	getAvailabilityUC := ucAppointment.NewGetAvailability(appointmentRepo)

	createBookingUC := ucAppointment.NewCreateBooking(
		appointmentRepo,
		infra.Audit,
		ucAppointment.BookingOptions{
			RecheckBlocks: cfg.BookingRecheckBlocks,
			Locker:        infra.Locker,
			LockTTL:       cfg.LockTTL(),
			Logger:        log,
		},
	)

	setStatusUC := ucAppointment.NewSetAppointmentStatus(
		appointmentRepo,
		infra.Audit,
		cfg.BookingRecheckBlocks,
	)

	cancelByTokenUC := ucAppointment.NewCancelByToken(
		appointmentRepo,
		infra.Audit,
	)

	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(
		appointmentRepo,
	)

	listAppointmentsByMonthUC := ucAppointment.NewListAppointmentsByMonth(
		appointmentRepo,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg.JWTSecret, log)
	meHandler := handlers.NewMeHandler(db, log)
	salonHandler := handlers.NewSalonHandler(db, infra.Audit, infra.Uploader, log)

	serviceHandler := handlers.NewServiceHandler(db, infra.Audit, log)
	businessHoursHandler := handlers.NewBusinessHoursHandler(db, infra.Audit, log)
	blockHandler := handlers.NewBlockHandler(db, infra.Audit, log)

	appointmentHandler := handlers.NewAppointmentHandler(
		appointmentRepo,
		setStatusUC,
		listAppointmentsByDateUC,
		listAppointmentsByMonthUC,
		log,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db, log)

	publicHandler := handlers.NewPublicHandler(
		appointmentRepo,
		getAvailabilityUC,
		createBookingUC,
		cancelByTokenUC,
		log,
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		publicAPI.Use(middleware.RateLimit(cfg.PublicRateLimitPerMin, log))
		{
			publicAPI.GET("/:slug", publicHandler.Salon)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
			publicAPI.POST("/:slug/bookings", publicHandler.CreateBooking)
			publicAPI.POST("/appointments/:token/cancel", publicHandler.CancelBooking)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg.JWTSecret))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/salon", salonHandler.GetMeSalon)
			secured.PATCH("/me/salon", salonHandler.UpdateMeSalon)
			secured.PUT("/me/salon/logo", salonHandler.UploadLogo)

			secured.GET("/me/services", serviceHandler.List)
			secured.POST("/me/services", serviceHandler.Create)
			secured.PATCH("/me/services/:id", serviceHandler.Update)

			secured.GET("/me/business-hours", businessHoursHandler.Get)
			secured.PUT("/me/business-hours", businessHoursHandler.Update)

			secured.GET("/me/blocks", blockHandler.List)
			secured.POST("/me/blocks", blockHandler.Create)
			secured.DELETE("/me/blocks/:id", blockHandler.Delete)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.GET("/me/appointments/month", appointmentHandler.ListByMonth)
			secured.GET("/me/appointments/:id", appointmentHandler.Get)
			secured.PATCH("/me/appointments/:id/status", appointmentHandler.UpdateStatus)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}

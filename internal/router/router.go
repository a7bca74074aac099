package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"orgcomply/internal/config"
	"orgcomply/internal/domain"
	"orgcomply/internal/handler"
	"orgcomply/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	hier *domain.Hierarchy,
	calendarH *handler.CalendarHandler,
	eventH *handler.EventHandler,
	submissionH *handler.SubmissionHandler,
	appealH *handler.AppealHandler,
	complianceH *handler.ComplianceHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// API documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Protected routes - require a valid token from the identity provider
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(&cfg.JWT, hier))

	protected.GET("/calendar", calendarH.Schedule)

	events := protected.Group("/events")
	events.GET("", eventH.List)
	events.GET("/:id", eventH.GetByID)
	events.PUT("/:id/deadline-override", eventH.SetDeadlineOverride)

	submissions := protected.Group("/submissions")
	submissions.POST("", submissionH.Create)
	submissions.GET("/log", submissionH.ActivityLog)
	submissions.POST("/:id/review", submissionH.Review)
	submissions.DELETE("/:id", submissionH.Delete)

	appeals := protected.Group("/appeals")
	appeals.POST("", appealH.Create)
	appeals.GET("/:eventId/state", appealH.State)
	appeals.GET("/attachments/:id", appealH.Attachment)

	compliance := protected.Group("/compliance")
	compliance.GET("/missed", complianceH.Missed)
	compliance.GET("/export", complianceH.Export)

	return r
}

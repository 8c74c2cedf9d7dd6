package handlers

import (
	"net/http"

	"prepared/internal/query"
	"prepared/internal/reconcile"
	"prepared/pkg/config"
	"prepared/pkg/errors"
	"prepared/pkg/metrics"
	"prepared/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handlers struct {
	db         *gorm.DB
	reconciler *reconcile.Reconciler
	affected   *query.AffectedQuery
}

func NewHandlers(db *gorm.DB, reconciler *reconcile.Reconciler, affected *query.AffectedQuery) *Handlers {
	return &Handlers{
		db:         db,
		reconciler: reconciler,
		affected:   affected,
	}
}

func (h *Handlers) Register(engine *gin.Engine) {
	engine.Use(metrics.Middleware())

	r := engine.Group(config.GlobalConfig.APIPrefix)

	h.registerSystemRoutes(r)
	h.registerEmergencyRoutes(r)
	h.registerStatusRoutes(r)
	h.registerAffectedRoutes(r)
}

func (h *Handlers) registerSystemRoutes(r *gin.RouterGroup) {
	system := r.Group("system")
	{
		system.GET("/health", h.HealthCheck)

		system.GET("/metrics", metrics.Handler())
	}
}

// Emergency Module (operator lifecycle; each mutation triggers a
// reconciliation pass via the change signal)
func (h *Handlers) registerEmergencyRoutes(r *gin.RouterGroup) {
	emergencies := r.Group("emergencies")
	{
		emergencies.POST("", h.handleDeclareEmergency)

		emergencies.GET("", h.handleListEmergencies)

		emergencies.GET("/:id", h.handleGetEmergency)

		emergencies.PUT("/:id", h.handleUpdateEmergency)

		emergencies.POST("/:id/activate", h.handleActivateEmergency)

		emergencies.POST("/:id/deactivate", h.handleDeactivateEmergency)

		// explicit trigger hook for the management UI
		emergencies.POST("/:id/reconcile", h.handleReconcileEmergency)

		emergencies.GET("/:id/statuses", h.handleListStatusesByEmergency)
	}
}

// Status Module (user self-reports and dashboard reads)
func (h *Handlers) registerStatusRoutes(r *gin.RouterGroup) {
	status := r.Group("status")
	{
		status.POST("/report", h.handleReportStatus)

		status.GET("/user/:userId", h.handleListStatusesByUser)
	}
}

// Affected Module (read side consumed by alert banners and the agent layer)
func (h *Handlers) registerAffectedRoutes(r *gin.RouterGroup) {
	affected := r.Group("affected")
	{
		affected.GET("/:userId", h.handleAffectedEmergencies)
	}
}

func (h *Handlers) HealthCheck(c *gin.Context) {
	response.Success(c, "ok", nil)
}

// failWithError maps engine error codes onto HTTP statuses.
func failWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeInvalidRadius, errors.CodeInvalidStatus, errors.CodeGeomatchUnavailable:
		status = http.StatusBadRequest
	}
	response.FailWithStatus(c, status, "error", gin.H{"error": err.Error()})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/jobs"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
)

// QueueStatusFunc reports the background queue state for the health check.
type QueueStatusFunc func() (jobs.QueueStatus, error)

// RouteOptions carries optional collaborators of the router.
type RouteOptions struct {
	// QueueStatus is nil when no worker queue is configured.
	QueueStatus QueueStatusFunc
	// APIMiddleware runs on /api/v1 after authentication, e.g. rate limiting.
	APIMiddleware []gin.HandlerFunc
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	opts RouteOptions,
) {
	registerValidators()

	r.GET("/health", healthHandler(opts.QueueStatus))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services, opts.APIMiddleware)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	extra []gin.HandlerFunc,
) {
	chain := append([]gin.HandlerFunc{middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer)}, extra...)
	v1 := r.Group("/api/v1", chain...)

	registerAccountRoutes(v1, service.Account)
	registerJournalRoutes(v1, service.Journal, service.Posting)
	registerLedgerRoutes(v1, service.Ledger)
	registerReportingRoutes(v1, service.Reporting)
	registerPeriodRoutes(v1, service.Period)
	registerRecurringRoutes(v1, service.Recurring)
}

// healthHandler godoc
// @Summary Service health
// @Description Reports ok, and the background queue depth when a worker queue is configured.
// @Tags root
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func healthHandler(queueStatus QueueStatusFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if queueStatus == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		status, err := queueStatus()
		if err != nil {
			middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Queue health check failed", "error", err.Error())
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": "queue unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "queue": status})
	}
}

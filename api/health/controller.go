package health

import (
	"context"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"campodigital/config"
	"campodigital/infrastructure/persistence/gormdb/po"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by *gormdb.Session.
type Pinger interface {
	Ping(ctx context.Context) error
}

// OutboxBacklog is satisfied by *gormdb.OutboxRepository.
type OutboxBacklog interface {
	CountByStatus(ctx context.Context, status po.EventStatus) (int64, error)
}

// Controller Health check controller for the worker's ops listener
type Controller struct {
	config    *config.Config
	db        Pinger
	outbox    OutboxBacklog
	timeout   time.Duration
	startTime time.Time
}

// NewController Create health check controller. db and outbox may be nil.
func NewController(cfg *config.Config, db Pinger, outbox OutboxBacklog) *Controller {
	return &Controller{
		config:    cfg,
		db:        db,
		outbox:    outbox,
		timeout:   2 * time.Second,
		startTime: time.Now(),
	}
}

// RegisterRoutes Register health check routes
func (c *Controller) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", c.Health)
	router.GET("/health/live", c.Liveness)
	router.GET("/health/ready", c.Readiness)
}

// HealthResponse Health check response
type HealthResponse struct {
	Status    string           `json:"status"`
	Version   string           `json:"version"`
	Uptime    string           `json:"uptime"`
	Timestamp string           `json:"timestamp"`
	Checks    map[string]Check `json:"checks,omitempty"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check Check item
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo System information
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumCPU       int    `json:"num_cpu"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
}

// Health Complete health check. A failed outbox count degrades the report
// but only an unreachable database makes it unhealthy.
func (c *Controller) Health(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), c.timeout)
	defer cancel()

	checks := make(map[string]Check)
	overallStatus := "healthy"

	if c.db != nil {
		dbCheck := c.checkDatabase(reqCtx)
		checks["database"] = dbCheck
		if dbCheck.Status != "healthy" {
			overallStatus = "unhealthy"
		}
	}
	if c.outbox != nil {
		outboxCheck := c.checkOutbox(reqCtx)
		checks["outbox"] = outboxCheck
		if outboxCheck.Status != "healthy" && overallStatus == "healthy" {
			overallStatus = "degraded"
		}
	}

	response := HealthResponse{
		Status:    overallStatus,
		Version:   c.config.App.Version,
		Uptime:    time.Since(c.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	// Only expose system info in development mode
	if c.config.IsDevelopment() {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)
		response.System = &SystemInfo{
			GoVersion:    runtime.Version(),
			NumCPU:       runtime.NumCPU(),
			NumGoroutine: runtime.NumGoroutine(),
			MemAlloc:     memStats.Alloc,
		}
	}

	statusCode := http.StatusOK
	if overallStatus == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	ctx.JSON(statusCode, response)
}

// Liveness Liveness check (Kubernetes liveness probe)
func (c *Controller) Liveness(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

// Readiness Readiness check (Kubernetes readiness probe)
func (c *Controller) Readiness(ctx *gin.Context) {
	if c.db != nil {
		reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), c.timeout)
		defer cancel()
		if err := c.db.Ping(reqCtx); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "not_ready",
				"message": "database not available",
			})
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

func (c *Controller) checkDatabase(ctx context.Context) Check {
	start := time.Now()
	err := c.db.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		return Check{
			Status:  "unhealthy",
			Message: err.Error(),
			Latency: latency.String(),
		}
	}

	return Check{
		Status:  "healthy",
		Latency: latency.String(),
	}
}

// checkOutbox reports the relay backlog: pending and permanently failed events.
func (c *Controller) checkOutbox(ctx context.Context) Check {
	start := time.Now()
	pending, err := c.outbox.CountByStatus(ctx, po.EventStatusPending)
	if err != nil {
		return Check{Status: "unhealthy", Message: err.Error(), Latency: time.Since(start).String()}
	}
	failed, err := c.outbox.CountByStatus(ctx, po.EventStatusFailed)
	if err != nil {
		return Check{Status: "unhealthy", Message: err.Error(), Latency: time.Since(start).String()}
	}

	return Check{
		Status:  "healthy",
		Message: "pending=" + strconv.FormatInt(pending, 10) + " failed=" + strconv.FormatInt(failed, 10),
		Latency: time.Since(start).String(),
	}
}

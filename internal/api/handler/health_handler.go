package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mmtopup/storefront/internal/core/gate"
)

// HealthHandler handles GET /api/health, the liveness probe. It reports the
// store selected at startup without touching it.
type HealthHandler struct {
	router *gate.Router
	now    func() time.Time
}

func NewHealthHandler(router *gate.Router) *HealthHandler {
	return &HealthHandler{router: router, now: time.Now}
}

type livenessResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
}

// Liveness godoc
//
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  livenessResponse
// @Router       /api/health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, livenessResponse{
		Status:    "OK",
		Timestamp: h.now().UTC().Format(time.RFC3339Nano),
		Database:  databaseLabel(h.router),
	})
}

func databaseLabel(r *gate.Router) string {
	if r.Connected() {
		return "connected"
	}
	return "fallback"
}

// ReadinessHandler handles GET /api/health/ready. Each optional dependency
// is pinged only when it was configured.
type ReadinessHandler struct {
	router *gate.Router
	db     *sql.DB
	mongo  *mongo.Database
	redis  *redis.Client
}

func NewReadinessHandler(router *gate.Router, db *sql.DB, mdb *mongo.Database, rdb *redis.Client) *ReadinessHandler {
	return &ReadinessHandler{router: router, db: db, mongo: mdb, redis: rdb}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Store        string                      `json:"store"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness godoc
//
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  readinessResponse
// @Failure      503  {object}  readinessResponse
// @Router       /api/health/ready [get]
func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	healthy := true
	check := func(name string, ping func(context.Context) error) {
		if err := ping(ctx); err != nil {
			deps[name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			return
		}
		deps[name] = dependencyStatus{Status: "ok"}
	}

	// The fallback store is always ready; only a selected primary is pinged.
	if h.router.Connected() && h.db != nil {
		check("postgres", h.db.PingContext)
	}
	if h.mongo != nil {
		check("mongodb", func(ctx context.Context) error {
			return h.mongo.Client().Ping(ctx, nil)
		})
	}
	if h.redis != nil {
		check("redis", func(ctx context.Context) error {
			return h.redis.Ping(ctx).Err()
		})
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Store:        string(h.router.Backend()),
		Dependencies: deps,
	})
}

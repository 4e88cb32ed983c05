package http

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	DB        string    `json:"db,omitempty"`
	Search    string    `json:"search,omitempty"`
}

// SearchHealth reports whether the search backend answered its last health check.
type SearchHealth interface {
	Healthy() bool
}

type HealthHandler struct {
	serviceName string
	version     string
	db          *sql.DB
	search      SearchHealth
	log         *slog.Logger
}

func NewHealthHandler(serviceName, version string, db *sql.DB, search SearchHealth, log *slog.Logger) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		db:          db,
		search:      search,
		log:         log,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	dbStatus := "disabled"
	if h.db != nil {
		if h.pingDB(c.Request.Context()) != nil {
			dbStatus = "down"
		} else {
			dbStatus = "up"
		}
	}

	searchStatus := "disabled"
	if h.search != nil {
		searchStatus = "down"
		if h.search.Healthy() {
			searchStatus = "up"
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		DB:        dbStatus,
		Search:    searchStatus,
	})
}

// Status answers 200 only when the database is reachable and migrated.
func (h *HealthHandler) Status(c *gin.Context) {
	if h.db == nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
	defer cancel()

	var ok bool
	if err := h.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM role LIMIT 1)`).Scan(&ok); err != nil || !ok {
		h.log.ErrorContext(ctx, "status check could not query the database", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusOK)
}

func (h *HealthHandler) pingDB(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return h.db.PingContext(pingCtx)
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
	r.GET("/status", h.Status)
}

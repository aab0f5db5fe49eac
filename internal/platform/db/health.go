package db

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const pingTimeout = 5 * time.Second

var errNoPool = errors.New("database pool not configured")

// PoolStats is a snapshot of the connection pool.
type PoolStats struct {
	TotalConns    int32 `json:"total_conns"`
	IdleConns     int32 `json:"idle_conns"`
	AcquiredConns int32 `json:"acquired_conns"`
	MaxConns      int32 `json:"max_conns"`
}

// HealthStatus is the body of /health and /health/db.
type HealthStatus struct {
	Status   string     `json:"status"`
	Version  string     `json:"version"`
	Database string     `json:"database,omitempty"`
	Latency  string     `json:"latency,omitempty"`
	Pool     *PoolStats `json:"pool,omitempty"`
}

// Checker serves the liveness and database readiness endpoints.
type Checker struct {
	version string
	ping    func(ctx context.Context) error
	stats   func() PoolStats
	now     func() time.Time
	logger  zerolog.Logger
}

// NewChecker reports on pool. A nil pool is always unavailable.
func NewChecker(pool *pgxpool.Pool, version string, logger zerolog.Logger) *Checker {
	h := &Checker{
		version: version,
		ping:    func(context.Context) error { return errNoPool },
		stats:   func() PoolStats { return PoolStats{} },
		now:     time.Now,
		logger:  logger.With().Str("component", "db_health").Logger(),
	}
	if pool != nil {
		h.ping = pool.Ping
		h.stats = func() PoolStats {
			st := pool.Stat()
			return PoolStats{
				TotalConns:    st.TotalConns(),
				IdleConns:     st.IdleConns(),
				AcquiredConns: st.AcquiredConns(),
				MaxConns:      st.MaxConns(),
			}
		}
	}
	return h
}

func (h *Checker) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Live)
	e.GET("/health/db", h.Ready)
}

// Live answers as long as the process serves requests.
func (h *Checker) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthStatus{Status: "ok", Version: h.version})
}

// Ready pings the database and reports pool usage. An unreachable database is
// a 503.
func (h *Checker) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), pingTimeout)
	defer cancel()

	start := h.now()
	err := h.ping(ctx)
	stats := h.stats()
	out := HealthStatus{
		Status:   "ok",
		Version:  h.version,
		Database: "up",
		Latency:  h.now().Sub(start).String(),
		Pool:     &stats,
	}
	if err != nil {
		h.logger.Warn().Err(err).Msg("database ping failed")
		out.Status = "unavailable"
		out.Database = "down"
		return c.JSON(http.StatusServiceUnavailable, out)
	}
	return c.JSON(http.StatusOK, out)
}

package main

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/clin/clin/docs"
	"github.com/clin/clin/internal/config"
	"github.com/clin/clin/internal/domain/dashboard"
	"github.com/clin/clin/internal/domain/healthcondition"
	"github.com/clin/clin/internal/domain/patient"
	"github.com/clin/clin/internal/domain/session"
	"github.com/clin/clin/internal/domain/user"
	"github.com/clin/clin/internal/platform/apperr"
	"github.com/clin/clin/internal/platform/auth"
	"github.com/clin/clin/internal/platform/db"
	"github.com/clin/clin/internal/platform/middleware"
	"github.com/clin/clin/pkg/pagination"
)

const version = "1.0.0"

// newServer wires repositories, services and handlers onto an echo
// instance. Nothing touches the pool until a request needs the store.
func newServer(cfg *config.Config, logger zerolog.Logger, pool *pgxpool.Pool) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperr.ErrorHandler(logger)

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit(cfg.BodyLimit))

	tokens := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.JWTExpiresIn)
	policy := auth.DefaultPolicy()
	tx := db.PoolTransactor{Pool: pool}

	userSvc := user.NewService(user.NewRepo(pool), policy, cfg.BcryptCost, logger)
	sessionSvc := session.NewService(userSvc, tokens, logger)
	conditionSvc := healthcondition.NewService(healthcondition.NewRepo(pool), tx, logger)
	patientSvc := patient.NewService(patient.NewRepo(pool), conditionSvc, tx, policy, logger)

	db.NewChecker(pool, version, logger).RegisterRoutes(e)
	e.GET("/swagger/*", echo.WrapHandler(httpSwagger.WrapHandler))

	public := e.Group("")
	userHandler := user.NewHandler(userSvc)
	userHandler.RegisterPublicRoutes(public)
	session.NewHandler(sessionSvc).RegisterRoutes(public, middleware.RateLimit(middleware.LoginRateLimitConfig()))

	api := e.Group("", auth.Middleware(tokens))
	userHandler.RegisterRoutes(api)
	patient.NewHandler(patientSvc).RegisterRoutes(api)
	healthcondition.NewHandler(conditionSvc).RegisterRoutes(api)
	dashboard.NewHandler(patientSvc).RegisterRoutes(api)

	return e
}

// withCORS wraps the router so preflight requests are answered before echo
// routing and authentication run.
func withCORS(cfg *config.Config, h http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, middleware.RequestIDHeader},
		ExposedHeaders: []string{pagination.TotalCountHeader, middleware.RequestIDHeader},
	}).Handler(h)
}

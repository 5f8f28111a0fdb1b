package api

import (
	"database/sql"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/communitycore/membership-system/internal/api/handler"
	"github.com/communitycore/membership-system/internal/api/middleware"
	"github.com/communitycore/membership-system/internal/core/domain"
	"github.com/communitycore/membership-system/internal/core/service"
	"github.com/communitycore/membership-system/internal/infrastructure/db/postgres"
	"github.com/communitycore/membership-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// A nil rdb disables the settings cache; every read then hits Postgres.
func NewRouter(db *sql.DB, rdb *goredis.Client, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("membership"))

	// --- Repositories ---
	credentialRepo := postgres.NewCredentialRepository(db)
	memberRepo := postgres.NewMemberRepository(db)
	settingsRepo := postgres.NewSettingsRepository(db)
	auditRepo := postgres.NewAuditRepository(db)

	// --- Services ---
	tokenService := service.NewTokenService(jwtSecret, 0)

	var settingsCache service.SettingsCache
	if rdb != nil {
		settingsCache = redis.NewSettingsCache(rdb)
	}

	auditService := service.NewAuditService(auditRepo, log)
	authService := service.NewAuthService(credentialRepo, memberRepo, tokenService, log)
	gate := service.NewAccessGate(memberRepo, log)
	settingsService := service.NewSettingsService(settingsRepo, auditService, settingsCache, log)
	memberService := service.NewMemberService(memberRepo, credentialRepo, auditService, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	userHandler := handler.NewUserHandler(memberService)
	memberHandler := handler.NewMemberHandler(gate, memberService)
	auditHandler := handler.NewAuditHandler(auditService)

	authRequired := middleware.Auth(tokenService)
	adminOnly := middleware.RequireRoles(gate, domain.RoleAdmin)
	memberDirectory := middleware.RequireRoles(gate, domain.RoleAdmin, domain.RoleWelfareAdmin)
	anyMember := middleware.RequireAuthenticated(gate)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, authRequired)

	// --- Settings ---
	e.GET("/v1/settings", settingsHandler.Get, authRequired, anyMember)
	e.PUT("/v1/settings", settingsHandler.Update, authRequired, adminOnly)

	// --- Member administration (listing also serves welfare coordinators) ---
	e.GET("/v1/users", userHandler.List, authRequired, memberDirectory)
	e.POST("/v1/users", userHandler.Create, authRequired, adminOnly)
	e.POST("/v1/users/:id/reset-password", userHandler.ResetPassword, authRequired, adminOnly)
	e.POST("/v1/users/:id/status", userHandler.SetStatus, authRequired, adminOnly)

	// --- Member self-service (self-or-admin enforced in the handler) ---
	e.PUT("/v1/members/:id", memberHandler.UpdateProfile, authRequired)

	// --- Audit log ---
	e.GET("/v1/audit-logs", auditHandler.List, authRequired, adminOnly)
	e.GET("/v1/audit-logs/export", auditHandler.Export, authRequired, adminOnly)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}

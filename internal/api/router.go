package api

import (
	"path/filepath"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/bankportal/portal-gateway/docs"
	"github.com/bankportal/portal-gateway/internal/api/handler"
	"github.com/bankportal/portal-gateway/internal/api/middleware"
	"github.com/bankportal/portal-gateway/internal/core/domain"
	"github.com/bankportal/portal-gateway/internal/core/ports"
	"github.com/bankportal/portal-gateway/internal/core/service"
	"github.com/bankportal/portal-gateway/internal/navigation"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Auth      ports.AuthService
	Table     *navigation.Table
	Gate      *service.Gatekeeper
	Checks    map[string]handler.DependencyCheck
	StaticDir string
	Cookie    handler.CookieOptions
	Log       zerolog.Logger
	// Registry receives the HTTP metrics; nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddlewareWithConfig(promConfig(d.Registry)))

	// --- Health probes, metrics and docs (no session) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(promHandlerConfig(d.Registry)))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.Static("/assets", filepath.Join(d.StaticDir, "assets"))

	// --- Everything else sees the caller's session ---
	withSession := e.Group("", middleware.Session(d.Auth, d.Log))

	authHandler := handler.NewAuthHandler(d.Auth, d.Cookie)
	withSession.POST("/auth/login", authHandler.Login)
	withSession.POST("/auth/logout", authHandler.Logout, middleware.RequireRole())
	withSession.GET("/users/me", authHandler.Me, middleware.RequireRole())
	withSession.POST("/users", authHandler.Register, middleware.RequireRole(domain.RoleAdmin))

	navHandler := handler.NewNavigationHandler(d.Table, d.Gate)
	withSession.GET("/navigation/default", navHandler.Default)
	withSession.GET("/navigation/check", navHandler.Check)

	// --- SPA pages, gated by the route table ---
	pageHandler := handler.NewPageHandler(d.StaticDir)
	withSession.GET("/*", pageHandler.Index, middleware.Pages(d.Table, d.Gate, d.Log))

	return e
}

func promConfig(reg *prometheus.Registry) echoprometheus.MiddlewareConfig {
	cfg := echoprometheus.MiddlewareConfig{
		Subsystem: "portal_http",
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health"
		},
	}
	if reg != nil {
		cfg.Registerer = reg
	}
	return cfg
}

func promHandlerConfig(reg *prometheus.Registry) echoprometheus.HandlerConfig {
	if reg == nil {
		return echoprometheus.HandlerConfig{}
	}
	return echoprometheus.HandlerConfig{Gatherer: reg}
}

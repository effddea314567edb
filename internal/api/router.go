package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/prometheus/client_golang/prometheus"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/exes/food-network/internal/api/handler"
	"github.com/exes/food-network/internal/api/middleware"
	"github.com/exes/food-network/internal/core/domain"
	"github.com/exes/food-network/internal/core/ports"
	"github.com/exes/food-network/internal/infrastructure/http/handlers"
)

// Deps carries everything the router needs. HealthChecks may be empty; a nil
// Registry means the default Prometheus registry.
type Deps struct {
	Log          zerolog.Logger
	Auth         ports.AuthService
	Machines     ports.MachineService
	Food         ports.FoodService
	Dispatcher   handler.TelemetryDispatcher
	HealthChecks []handlers.DependencyCheck
	Registry     *prometheus.Registry
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
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "food_network",
		Registerer: registerer(d.Registry),
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth)
	machineHandler := handler.NewMachineHandler(d.Machines)
	foodHandler := handler.NewFoodHandler(d.Food)
	telemetryHandler := handler.NewTelemetryHandler(d.Dispatcher)
	authMiddleware := middleware.Auth(d.Auth)
	machineOnly := middleware.MachineOnly()

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/verify", authHandler.Verify, authMiddleware, middleware.RBAC(domain.RoleAdmin, domain.RoleVolunteer))
	e.POST("/auth/logout", authHandler.Logout, authMiddleware)

	// --- Public machine data ---
	public := e.Group("/v1/public")
	public.GET("/machines", machineHandler.Snapshot)
	public.GET("/locate", machineHandler.Locate)

	// --- Kiosk routes (device token) ---
	e.POST("/machine/auth", authHandler.MachineAuth)
	e.POST("/machine/status", telemetryHandler.Receive, authMiddleware, machineOnly)
	food := e.Group("/food", authMiddleware, machineOnly)
	food.POST("/donate", foodHandler.Donate)
	food.POST("/collect", foodHandler.Collect)

	// --- Admin routes ---
	admin := e.Group("/v1", authMiddleware, middleware.RBAC(domain.RoleAdmin))
	admin.POST("/machines", machineHandler.Register)
	admin.GET("/machines/:id", machineHandler.Get)
	admin.PUT("/machines/:id/status", machineHandler.SetStatus)
	admin.GET("/admin/stats", machineHandler.Stats)

	// --- Volunteer routes ---
	volunteer := e.Group("/v1/volunteer", authMiddleware, middleware.RBAC(domain.RoleVolunteer, domain.RoleAdmin))
	volunteer.GET("/expired", foodHandler.Expired)
	volunteer.GET("/machines/:id/expired-items", foodHandler.ExpiredItems)
	volunteer.POST("/food-items/:id/remove", foodHandler.RemoveExpired)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.HealthChecks...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: gatherer(d.Registry),
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func registerer(r *prometheus.Registry) prometheus.Registerer {
	if r == nil {
		return prometheus.DefaultRegisterer
	}
	return r
}

func gatherer(r *prometheus.Registry) prometheus.Gatherer {
	if r == nil {
		return prometheus.DefaultGatherer
	}
	return r
}

// requestLogger emits one structured line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

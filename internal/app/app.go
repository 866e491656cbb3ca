package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/burevuh-next/logistics-analyzer/internal/config"
	apperrors "github.com/burevuh-next/logistics-analyzer/internal/errors"
	"github.com/burevuh-next/logistics-analyzer/internal/infrastructure"
	customMiddleware "github.com/burevuh-next/logistics-analyzer/internal/middleware"
	"github.com/burevuh-next/logistics-analyzer/internal/services"
	handlers "github.com/burevuh-next/logistics-analyzer/internal/transport/http"
	"github.com/burevuh-next/logistics-analyzer/pkg/contracts"
)

// AppName is reported in startup logs
const AppName = "Logistics Analyzer"

// Application is the dashboard API server container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Services      *ServiceContainer
	errorHandler  *apperrors.ErrorHandler
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Telemetry services.Telemetry
	Analytics *services.AnalyticsService
	Dashboard *services.DashboardService
	Health    *services.HealthService
}

// New loads the configuration and logger and builds the application
func New() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	paths, err := config.ResolvePaths(cfg.Paths, "")
	if err != nil {
		return nil, err
	}
	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFromTelemetry(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	return NewApplication(cfg, paths, providers, logger)
}

// NewApplication wires services, handlers and the router from explicit
// dependencies. providers may be nil, in which case telemetry is disabled.
func NewApplication(cfg *config.Config, paths *config.Paths, providers *infrastructure.OTelProviders, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version))

	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	telemetry := services.NoopTelemetry()
	if providers != nil {
		var err error
		if telemetry, err = services.NewTelemetry(providers); err != nil {
			return nil, fmt.Errorf("failed to create business metrics: %w", err)
		}
	}

	dataset := cfg.Analysis.Dataset
	if dataset != "" && !filepath.IsAbs(dataset) {
		dataset = filepath.Join(paths.BaseDir, dataset)
	}
	if !config.FileExists(dataset) {
		logger.Warn("dataset not found, API will answer 404 until it exists",
			slog.String("path", dataset))
	}

	analytics := services.NewAnalyticsService(cfg.Analysis, telemetry, logger)
	dashboard := services.NewDashboardService(analytics, dataset, logger)

	a := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: providers,
		errorHandler:  apperrors.NewErrorHandler(logger, false),
		Services: &ServiceContainer{
			Telemetry: telemetry,
			Analytics: analytics,
			Dashboard: dashboard,
			Health:    services.NewHealthService(contracts.Version, contracts.BuildTime, paths, dashboard, logger),
		},
	}
	a.setupRouter()
	a.createServer()
	return a, nil
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// RequestID → RealIP → OTel → Logger → Recoverer → Timeout
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StripSlashes)

	r.NotFound(a.errorHandler.NotFound)
	r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.NewOTelMiddleware(a.Services.Telemetry.Tracer, a.Services.Telemetry.Metrics, a.Logger).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.errorHandler))
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))
		r.Use(customMiddleware.SecurityHeaders)
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			Logger:         a.Logger,
		}))
		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.errorHandler,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
	})

	if a.OTelProviders != nil && a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	health := handlers.NewHealthHandler(a.Services.Health, a.Logger)
	analytics := handlers.NewAnalyticsHandler(a.Services.Dashboard, a.Logger, a.errorHandler)
	clientLog := handlers.NewClientLogHandler(a.Logger, a.errorHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Mount("/health", health.Routes())
		r.Get("/version", health.Version)

		v1 := analytics.Routes()
		v1.Post("/client-log", clientLog.Handle)
		r.Mount("/v1", v1)
	})
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start starts serving in the background. cancel is called if the listener fails.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting server",
		slog.String("address", a.Server.Addr),
		slog.String("dataset", a.Services.Dashboard.DatasetPath()),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "shutdown complete")
	return infrastructure.CloseLogFile()
}

// Run serves until SIGINT, SIGTERM or a listener failure
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx, stop); err != nil {
		return err
	}
	<-ctx.Done()
	return a.Stop(ctx)
}

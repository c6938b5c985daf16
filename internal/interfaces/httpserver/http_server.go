package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"resty.dev/v3"

	"command-center/internal/catalog"
	"command-center/internal/config"
	"command-center/internal/domain/telemetry"
	"command-center/internal/domain/widget"
	"command-center/internal/infrastructure/databricks"
	"command-center/internal/infrastructure/metrics"
	"command-center/internal/infrastructure/n8n"
	"command-center/internal/interfaces/httpserver/handlers"
	"command-center/internal/interfaces/httpserver/middlewares"
	"command-center/internal/interfaces/httpserver/routes"
)

// HttpServer wraps the gin engine with graceful shutdown helpers. A second
// plain listener exposes prometheus metrics so they never share the public
// port.
type HttpServer struct {
	cfg         *config.Config
	engine      *gin.Engine
	log         zerolog.Logger
	handlerProv *handlers.Provider
	routeProv   *routes.Provider
}

// New constructs the HTTP server with default middleware and routes.
func New(
	cfg *config.Config,
	log zerolog.Logger,
	cat *catalog.Catalog,
	factory *databricks.Factory,
	n8nClient *n8n.Client,
	httpClient *resty.Client,
	telemetryService *telemetry.Service,
	widgetService *widget.Service,
) *HttpServer {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middlewares.RequestID())
	engine.Use(middlewares.CORSMiddleware())
	engine.Use(middlewares.LoggingMiddleware(log))
	if cfg.EnableTracing {
		engine.Use(middlewares.TracingMiddleware(cfg.ServiceName))
	}
	engine.Use(middlewares.MetricsMiddleware())
	engine.Use(middlewares.ForwardedToken(log))

	handlerProvider := handlers.NewProvider(cfg, cat, factory, n8nClient, httpClient, telemetryService, widgetService, log)
	routeProvider := routes.NewProvider(handlerProvider, cfg.DevMode)
	registerCoreRoutes(engine, cfg, routeProvider)

	return &HttpServer{
		cfg:         cfg,
		engine:      engine,
		log:         log,
		handlerProv: handlerProvider,
		routeProv:   routeProvider,
	}
}

// Run starts the public and metrics listeners and handles graceful shutdown
// via context cancellation.
func (s *HttpServer) Run(ctx context.Context) error {
	apiServer := &http.Server{
		Addr:    s.cfg.Addr(),
		Handler: s.engine,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", metrics.Handler())
	metricsServer := &http.Server{
		Addr:    s.cfg.MetricsAddr(),
		Handler: metricsMux,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		s.log.Info().Str("addr", apiServer.Addr).Msg("HTTP server listening")
		return serveUntilShutdown(groupCtx, apiServer, s.cfg.ShutdownTimeout)
	})
	group.Go(func() error {
		s.log.Info().Str("addr", metricsServer.Addr).Msg("metrics server listening")
		return serveUntilShutdown(groupCtx, metricsServer, s.cfg.ShutdownTimeout)
	})

	err := group.Wait()
	if err != nil {
		s.log.Error().Err(err).Msg("HTTP server stopped with error")
		return err
	}
	s.log.Info().Msg("HTTP servers stopped")
	return nil
}

func serveUntilShutdown(ctx context.Context, server *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func registerCoreRoutes(engine *gin.Engine, cfg *config.Config, routeProvider *routes.Provider) {
	engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": cfg.ServiceName,
			"status":  "ok",
		})
	})

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	engine.GET("/readyz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	routeProvider.Register(engine)
}

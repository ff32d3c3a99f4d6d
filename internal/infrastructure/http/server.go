package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mrops-br/product-inventory/internal/infrastructure/config"
	"github.com/mrops-br/product-inventory/internal/infrastructure/http/handler"
	"github.com/mrops-br/product-inventory/internal/infrastructure/http/middleware"
	"github.com/mrops-br/product-inventory/internal/infrastructure/telemetry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

// Server represents the HTTP server
type Server struct {
	router     *chi.Mux
	config     *config.ServerConfig
	cookieName string
	handler    *handler.InventoryHandler
	logger     *slog.Logger
	telemetry  *telemetry.Telemetry
	httpServer *http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.Config,
	handler *handler.InventoryHandler,
	logger *slog.Logger,
	telem *telemetry.Telemetry,
) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		config:     &cfg.Server,
		cookieName: cfg.Session.CookieName,
		handler:    handler,
		logger:     logger,
		telemetry:  telem,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(s.config.Host, s.config.Port),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	return s
}

// setupMiddleware configures the middleware chain
func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(middleware.StructuredLogger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	meter := s.telemetry.MeterProvider.Meter("product-inventory")
	s.router.Use(middleware.ActiveRequestsMiddleware(meter))
	s.router.Use(middleware.DurationMillisecondsMiddleware(meter))
}

// setupRoutes configures the page and operational routes. Group
// middleware runs after chi has matched the route, so HTTPRouteContext
// sees the route pattern.
func (s *Server) setupRoutes() {
	s.router.Group(func(r chi.Router) {
		r.Use(middleware.HTTPRouteContext())

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(s.cookieName))
			r.Get("/", s.handler.ShowInventory)
			r.Post("/", s.handler.AddProduct)
		})

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("OK"))
		})

		r.Handle("/metrics", promhttp.HandlerFor(s.telemetry.Registry, promhttp.HandlerOpts{}))
	})
}

// Handler returns the router wrapped with otelhttp for automatic HTTP
// metrics and tracing.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, "http-server",
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
		otelhttp.WithTracerProvider(s.telemetry.TracerProvider),
		otelhttp.WithMeterProvider(s.telemetry.MeterProvider),
		otelhttp.WithMetricAttributesFn(func(r *http.Request) []attribute.KeyValue {
			routePattern := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					routePattern = pattern
				}
			}
			return []attribute.KeyValue{
				attribute.String("http.route", routePattern),
			}
		}),
	)
}

// Start listens and serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		slog.String("address", s.httpServer.Addr),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

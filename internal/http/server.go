package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"moodsync/internal/core"
	"moodsync/internal/flood"
)

const (
	shutdownTimeout = 10 * time.Second
	unmatchedRoute  = "unmatched"
)

// routeLabels maps chi route patterns, which lose their trailing slash, back
// to the registered routes.
var routeLabels = map[string]string{
	strings.TrimSuffix(tracksRoute, "/"): tracksRoute,
	strings.TrimSuffix(squareRoute, "/"): squareRoute,
}

type Server struct {
	config    *core.ServerConfig
	logger    *zap.Logger
	server    *http.Server
	metrics   *Metrics
	history   core.ListeningHistory
	floodgate *flood.Floodgate
}

func NewServer(config *core.ServerConfig, history core.ListeningHistory, logger *zap.Logger) *Server {
	s := &Server{
		config:    config,
		logger:    logger,
		metrics:   NewMetrics(),
		history:   history,
		floodgate: flood.New(config.TracksLimitPerMinute),
	}
	s.server = createHTTPServer(config, s.setupRoutes())
	return s
}

func createHTTPServer(config *core.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}
}

func (s *Server) setupRoutes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", homeHandler(s.logger))
	r.Get("/healthz", statusHandler("ok"))
	r.Get("/readyz", statusHandler("ready"))
	r.Handle("/metrics", s.metrics.Handler())

	r.Post(tracksRoute, s.handleTracks)
	r.Post(squareRoute, s.handleSquare)

	return r
}

// requestLogger logs every request and records it in the metrics.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			route := routeLabel(r)
			duration := time.Since(start)
			s.metrics.RecordRequest(route, status, duration)
			s.logger.Debug("HTTP request",
				zap.String("method", r.Method),
				zap.String("route", route),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", duration),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		}()

		next.ServeHTTP(ww, r)
	})
}

// routeLabel names the route a request matched, as registered, so request
// metrics share labels with the throttle metrics.
func routeLabel(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.RoutePattern() == "" {
		return unmatchedRoute
	}
	pattern := rctx.RoutePattern()
	if route, ok := routeLabels[strings.TrimSuffix(pattern, "/")]; ok {
		return route
	}
	return pattern
}

func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.server.Addr),
		zap.Int("tracks_limit_per_minute", s.config.TracksLimitPerMinute))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.floodgate.Run(runCtx)

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
		case <-done:
			return
		}
		s.logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Failed to shutdown HTTP server gracefully", zap.Error(err))
		}
	}()

	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Handler returns the routed handler, for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

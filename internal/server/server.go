// Package server assembles the application: store, cache, session,
// reload loop and HTTP surface, with graceful shutdown.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"league-admin-service/internal/cache"
	"league-admin-service/internal/config"
	"league-admin-service/internal/gateway"
	"league-admin-service/internal/http/handlers"
	"league-admin-service/internal/http/middleware"
	"league-admin-service/internal/league"
	"league-admin-service/internal/logging"
	"league-admin-service/internal/metrics"
	"league-admin-service/internal/poller"
	"league-admin-service/internal/session"
	"league-admin-service/internal/staging"
)

var metricsSetup = metrics.Setup

// Server owns the wired application components.
type Server struct {
	cfg         config.Config
	logger      *slog.Logger
	metrics     *metrics.Recorder
	store       gateway.RecordStore
	session     *session.Session
	httpServer  httpServer
	poller      Poller
	metricsStop func(context.Context) error
}

// New constructs a fully wired server from configuration.
func New(cfg config.Config, logger *slog.Logger) *Server {
	recorder, promHandler, metricsStop := buildMetrics(cfg, logger)

	store := buildStore(cfg.Store, logger, recorder)
	cacheStore := cache.NewStore(nil)
	games := cache.NewGames(cacheStore, store, cfg.Cache, recorder, logger)
	resolver := league.NewResolver(store, logger)
	queue := staging.NewQueue(logger)
	sess := session.New(store, queue, games, resolver, recorder, logger)
	plr := poller.New(sess, logger, recorder, cfg.ReloadInterval)

	return &Server{
		cfg:         cfg,
		logger:      logger,
		metrics:     recorder,
		store:       store,
		session:     sess,
		httpServer:  buildHTTPServer(cfg, sess, plr, promHandler, logger, recorder),
		poller:      plr,
		metricsStop: metricsStop,
	}
}

// newServerWithDeps is used by tests to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, sess *session.Session, httpSrv httpServer, plr Poller) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		session:    sess,
		httpServer: httpSrv,
		poller:     plr,
	}
}

func buildHTTPServer(cfg config.Config, sess *session.Session, plr Poller, promHandler http.Handler, logger *slog.Logger, recorder *metrics.Recorder) httpServer {
	var statusFn func() poller.Status
	if plr != nil {
		statusFn = plr.Status
	}

	handler := handlers.NewHandler(sess, logger, statusFn)

	var routes http.Handler = handler
	routes = middleware.AdminToken(cfg.AdminToken, routes)

	mux := http.NewServeMux()
	if promHandler != nil {
		mux.Handle("/metrics", promHandler)
	}
	mux.Handle("/", routes)

	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	wrapped := middleware.Logging(logger, recorder, mux)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      wrapped,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	return netHTTPServer{srv: srv}
}

func buildMetrics(cfg config.Config, logger *slog.Logger) (*metrics.Recorder, http.Handler, func(context.Context) error) {
	rec, handler, shutdown, err := metricsSetup(context.Background(), metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		ServiceName:  "league-admin-service",
		OtlpEndpoint: cfg.Metrics.OTLPEndpoint,
	})
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "err", err)
		return metrics.NewRecorder(), nil, nil
	}
	return rec, handler, shutdown
}

// Run starts the reload loop and HTTP server, then waits for context
// cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	logging.Info(s.logger, "http server starting", slog.String("addr", s.httpServer.Addr()))
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
	s.poller.Start(ctx)

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")
	s.gracefulShutdown()
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}

	if err := s.poller.Stop(shutdownCtx); err != nil {
		logging.Error(s.logger, "failed to stop reload loop", err)
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	logging.Info(s.logger, "shutdown complete")
}

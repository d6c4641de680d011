package server

import (
	"log/slog"
	"net/http"
	"strings"

	"league-admin-service/internal/config"
	"league-admin-service/internal/gateway"
	"league-admin-service/internal/gateway/githubstore"
	"league-admin-service/internal/gateway/localstore"
	"league-admin-service/internal/logging"
	"league-admin-service/internal/metrics"
)

// buildStore assembles the record store stack from configuration. The
// GitHub backend always gets a local mirror behind the fallback
// decorator; both backends are wrapped with metrics instrumentation.
func buildStore(cfg config.StoreConfig, logger *slog.Logger, recorder *metrics.Recorder) gateway.RecordStore {
	local := localstore.New(cfg.DataDir)

	var store gateway.RecordStore
	switch strings.ToLower(cfg.Backend) {
	case "local":
		store = local
	case "github":
		if cfg.GitHub.Repo == "" {
			logging.Warn(logger, "github backend selected without a repo, using local store",
				logging.FieldStore, cfg.Backend)
			store = local
			break
		}
		remote := githubstore.NewClient(githubstore.Config{
			BaseURL:    cfg.GitHub.BaseURL,
			Token:      cfg.GitHub.Token,
			Repo:       cfg.GitHub.Repo,
			Branch:     cfg.GitHub.Branch,
			MaxRetries: cfg.GitHub.MaxRetries,
			HTTPClient: &http.Client{Timeout: cfg.GitHub.Timeout},
			Logger:     logger,
		})
		store = gateway.NewFallback(remote, local, logger)
	default:
		logging.Warn(logger, "unknown store backend, using local store",
			logging.FieldStore, cfg.Backend)
		store = local
	}

	return gateway.NewInstrumented(store, recorder)
}

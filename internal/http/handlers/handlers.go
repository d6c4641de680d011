// Package handlers wires the admin HTTP routes to the session façade.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"league-admin-service/internal/cache"
	"league-admin-service/internal/domain"
	"league-admin-service/internal/gateway"
	"league-admin-service/internal/poller"
	"league-admin-service/internal/session"
)

// Handler routes admin requests to the session.
type Handler struct {
	session  *session.Session
	logger   *slog.Logger
	statusFn func() poller.Status
}

// NewHandler constructs a Handler.
func NewHandler(s *session.Session, logger *slog.Logger, statusFn func() poller.Status) *Handler {
	return &Handler{session: s, logger: logger, statusFn: statusFn}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == "/health":
		h.Health(w, r)
	case path == "/ready":
		h.Ready(w, r)
	case path == "/schedule":
		h.Schedule(w, r)
	case path == "/matches/pending":
		h.Pending(w, r)
	case strings.HasPrefix(path, "/matches/pending/"):
		h.WithdrawPending(w, r)
	case path == "/matches":
		h.EnqueueMatch(w, r)
	case path == "/results":
		h.EnqueueResult(w, r)
	case path == "/apply":
		h.Apply(w, r)
	case path == "/venues":
		h.Venues(w, r)
	case strings.HasPrefix(path, "/venues/"):
		h.DeleteVenue(w, r)
	case path == "/leagues":
		h.Leagues(w, r)
	case strings.HasPrefix(path, "/leagues/") && strings.HasSuffix(path, "/progress"):
		h.Progress(w, r)
	case path == "/games":
		h.Games(w, r)
	case strings.HasPrefix(path, "/games/") && strings.HasSuffix(path, "/statistics"):
		h.AttachStatistics(w, r)
	case strings.HasPrefix(path, "/games/"):
		h.GameByNumber(w, r)
	case strings.HasPrefix(path, "/schedule/matches/"):
		h.EditOrDeleteMatch(w, r)
	default:
		writeError(w, r, http.StatusNotFound, "not found", h.logger)
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic, driven by the reload loop.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	if h.statusFn == nil || h.statusFn().IsReady() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := h.statusFn().LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, http.StatusServiceUnavailable, msg, h.logger)
}

func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	logger := loggerFromContext(r, h.logger)

	matches, err := h.session.AllMatches(r.Context())
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	if league := r.URL.Query().Get("league"); league != "" {
		filtered := make([]domain.ScheduledMatch, 0, len(matches))
		for _, m := range matches {
			if m.League == league {
				filtered = append(filtered, m)
			}
		}
		matches = filtered
	}
	writeJSON(w, http.StatusOK, map[string]any{"matches": matches}, logger)
}

func (h *Handler) Leagues(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	leagues, err := h.session.Leagues(r.Context())
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leagues": leagues}, loggerFromContext(r, h.logger))
}

func (h *Handler) Progress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	name := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/leagues/"), "/progress")
	name = strings.Trim(name, "/")
	if name == "" {
		writeError(w, r, http.StatusBadRequest, "league name required", h.logger)
		return
	}
	progress, err := h.session.Progress(r.Context(), name)
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, progress, loggerFromContext(r, h.logger))
}

type gameResponse struct {
	Number        int                 `json:"number"`
	Summary       string              `json:"summary"`
	League        string              `json:"league"`
	HasStatistics bool                `json:"hasStatistics"`
	Document      domain.GameDocument `json:"document"`
}

func toGameResponse(g cache.Game) gameResponse {
	return gameResponse{
		Number:        g.Number,
		Summary:       g.Doc.Summary(),
		League:        g.Doc.LeagueName(),
		HasStatistics: g.HasStatistics,
		Document:      g.Doc,
	}
}

func (h *Handler) Games(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	q := r.URL.Query()

	var (
		games []cache.Game
		err   error
	)
	if q.Get("without_stats") == "1" || q.Get("without_stats") == "true" {
		games, err = h.session.GamesWithoutStats(r.Context(), q.Get("league"))
	} else {
		games, err = h.session.Games(r.Context())
	}
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}

	out := make([]gameResponse, 0, len(games))
	for _, g := range games {
		out = append(out, toGameResponse(g))
	}
	writeJSON(w, http.StatusOK, map[string]any{"games": out}, loggerFromContext(r, h.logger))
}

func (h *Handler) GameByNumber(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	number, ok := gameNumberFromPath(r.URL.Path)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid game number", h.logger)
		return
	}
	game, err := h.session.Game(r.Context(), number)
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGameResponse(game), loggerFromContext(r, h.logger))
}

func gameNumberFromPath(path string) (int, bool) {
	rest := strings.TrimPrefix(path, "/games/")
	rest = strings.TrimSuffix(rest, "/statistics")
	rest = strings.Trim(rest, "/")
	n, err := strconv.Atoi(rest)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func actorFromRequest(r *http.Request) string {
	if actor := strings.TrimSpace(r.Header.Get("X-Actor")); actor != "" {
		return actor
	}
	return "unknown"
}

// writeSessionError maps session and gateway errors onto HTTP statuses.
func (h *Handler) writeSessionError(w http.ResponseWriter, r *http.Request, err error) {
	logger := loggerFromContext(r, h.logger)

	var validation *session.ValidationError
	var inUse *session.VenueInUseError
	switch {
	case errors.As(err, &validation):
		writeError(w, r, http.StatusBadRequest, validation.Error(), logger)
	case errors.As(err, &inUse):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":   inUse.Error(),
			"venue":   inUse.Venue,
			"matches": inUse.Matches,
		}, logger)
	case errors.Is(err, session.ErrVenueExists):
		writeError(w, r, http.StatusConflict, err.Error(), logger)
	case errors.Is(err, session.ErrMatchNotFound),
		errors.Is(err, session.ErrVenueNotFound),
		errors.Is(err, gateway.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error(), logger)
	case errors.Is(err, session.ErrUnsupportedImage):
		writeError(w, r, http.StatusUnsupportedMediaType, err.Error(), logger)
	case errors.Is(err, cache.ErrUnavailable):
		writeError(w, r, http.StatusServiceUnavailable, err.Error(), logger)
	default:
		logger.Error("request failed", "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal error", logger)
	}
}

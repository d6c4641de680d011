package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"league-admin-service/internal/domain"
	"league-admin-service/internal/session"
)

const maxImageBytes = 10 << 20

// Pending lists everything staged but not yet applied.
func (h *Handler) Pending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"matches": h.session.PendingMatches(),
		"results": h.session.PendingResults(),
	}, loggerFromContext(r, h.logger))
}

// WithdrawPending removes one staged item by its pending id, whichever
// queue it sits in.
func (h *Handler) WithdrawPending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/matches/pending/"), "/")
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "pending id required", h.logger)
		return
	}
	if !h.session.WithdrawMatch(id) && !h.session.WithdrawResult(id) {
		writeError(w, r, http.StatusNotFound, "no staged item with that id", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "withdrawn"}, loggerFromContext(r, h.logger))
}

type matchRequest struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	TeamHome string `json:"teamHome"`
	TeamAway string `json:"teamAway"`
	Location string `json:"location"`
}

// EnqueueMatch stages a schedule addition.
func (h *Handler) EnqueueMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body", h.logger)
		return
	}

	pending, err := h.session.EnqueueMatch(r.Context(), session.MatchInput{
		Date:     req.Date,
		Time:     req.Time,
		TeamHome: req.TeamHome,
		TeamAway: req.TeamAway,
		Location: req.Location,
	}, actorFromRequest(r))
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, pending, loggerFromContext(r, h.logger))
}

type resultRequest struct {
	MatchID  string `json:"matchId"`
	TeamA    string `json:"teamA"`
	TeamB    string `json:"teamB"`
	Score    string `json:"score"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Venue    string `json:"venue"`
	GameType string `json:"gameType"`
}

// EnqueueResult stages a game result.
func (h *Handler) EnqueueResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	var req resultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body", h.logger)
		return
	}

	pending, err := h.session.EnqueueResult(r.Context(), session.ResultInput{
		MatchID:  req.MatchID,
		TeamA:    req.TeamA,
		TeamB:    req.TeamB,
		Score:    req.Score,
		Date:     req.Date,
		Time:     req.Time,
		Venue:    req.Venue,
		GameType: req.GameType,
	}, actorFromRequest(r))
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, pending, loggerFromContext(r, h.logger))
}

// Apply flushes everything staged.
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	report, err := h.session.Flush(r.Context(), actorFromRequest(r))
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	status := http.StatusOK
	if !report.OK {
		// Partial results: some items stayed queued.
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, report, loggerFromContext(r, h.logger))
}

type venueRequest struct {
	Name string `json:"name"`
}

// Venues lists or adds venues.
func (h *Handler) Venues(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		venues, err := h.session.Venues(r.Context())
		if err != nil {
			h.writeSessionError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"venues": venues}, loggerFromContext(r, h.logger))
	case http.MethodPost:
		var req venueRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid JSON body", h.logger)
			return
		}
		if err := h.session.AddVenue(r.Context(), req.Name, actorFromRequest(r)); err != nil {
			h.writeSessionError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"status": "created"}, loggerFromContext(r, h.logger))
	default:
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
	}
}

// DeleteVenue removes a venue by name.
func (h *Handler) DeleteVenue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/venues/"), "/")
	if name == "" {
		writeError(w, r, http.StatusBadRequest, "venue name required", h.logger)
		return
	}
	if err := h.session.DeleteVenue(r.Context(), name, actorFromRequest(r)); err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"}, loggerFromContext(r, h.logger))
}

type matchUpdateRequest struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Location string `json:"location"`
}

// EditOrDeleteMatch updates or removes a schedule entry by id.
func (h *Handler) EditOrDeleteMatch(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/schedule/matches/"), "/")
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "match id required", h.logger)
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var req matchUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid JSON body", h.logger)
			return
		}
		edited, err := h.session.EditMatch(r.Context(), id, domain.MatchKey{}, session.MatchUpdate{
			Date:     req.Date,
			Time:     req.Time,
			Location: req.Location,
		}, actorFromRequest(r))
		if err != nil {
			h.writeSessionError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, edited, loggerFromContext(r, h.logger))
	case http.MethodDelete:
		if err := h.session.DeleteMatch(r.Context(), id, domain.MatchKey{}, actorFromRequest(r)); err != nil {
			h.writeSessionError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"}, loggerFromContext(r, h.logger))
	default:
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
	}
}

// AttachStatistics uploads a statistics image for a game. The extension
// comes from the ext query parameter or the Content-Type.
func (h *Handler) AttachStatistics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	number, ok := gameNumberFromPath(r.URL.Path)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid game number", h.logger)
		return
	}

	ext := r.URL.Query().Get("ext")
	if ext == "" {
		ext = extFromContentType(r.Header.Get("Content-Type"))
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxImageBytes+1))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "could not read body", h.logger)
		return
	}
	if len(payload) > maxImageBytes {
		writeError(w, r, http.StatusRequestEntityTooLarge, "image too large", h.logger)
		return
	}

	if err := h.session.AttachStatistics(r.Context(), number, ext, payload, actorFromRequest(r)); err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "attached"}, loggerFromContext(r, h.logger))
}

func extFromContentType(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/jpeg"):
		return "jpg"
	case strings.HasPrefix(contentType, "image/png"):
		return "png"
	default:
		return ""
	}
}

// Package session is the admin façade: it holds the working copies of
// the venue list and schedule, stages mutations through the queue, and
// serves the cached game views.
package session

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"league-admin-service/internal/cache"
	"league-admin-service/internal/domain"
	"league-admin-service/internal/gateway"
	"league-admin-service/internal/league"
	"league-admin-service/internal/logging"
	"league-admin-service/internal/staging"
)

// FlushRecorder counts applied mutation batches.
type FlushRecorder interface {
	RecordFlush(ctx context.Context, matches, results, failed int)
}

// Session coordinates one shared admin workspace. The in-memory venue
// list and schedule are loaded lazily and mutated under the session
// lock; every persistent change goes through the record store.
type Session struct {
	store    gateway.RecordStore
	queue    *staging.Queue
	games    *cache.Games
	resolver *league.Resolver
	logger   *slog.Logger
	metrics  FlushRecorder
	now      func() time.Time

	mu       sync.Mutex
	venues   []string
	schedule domain.Schedule
	loaded   bool
}

// New wires a session over its collaborators. recorder may be nil.
func New(store gateway.RecordStore, queue *staging.Queue, games *cache.Games, resolver *league.Resolver, recorder FlushRecorder, logger *slog.Logger) *Session {
	return &Session{
		store:    store,
		queue:    queue,
		games:    games,
		resolver: resolver,
		logger:   logger,
		metrics:  recorder,
		now:      time.Now,
	}
}

// ensureLoaded populates the working copies on first use. Callers must
// hold the session lock.
func (s *Session) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	venues, err := s.store.ReadVenues(ctx)
	if err != nil && !gateway.IsNotFound(err) {
		return err
	}
	schedule, err := s.store.ReadSchedule(ctx)
	if err != nil && !gateway.IsNotFound(err) {
		return err
	}
	s.venues = venues
	s.schedule = schedule
	s.loaded = true
	return nil
}

// Reload drops the working copies and the game views so the next read
// hits the store again.
func (s *Session) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
	s.venues = nil
	s.schedule = domain.Schedule{}
	s.games.Reset()
	return s.ensureLoaded(ctx)
}

// Venues returns the registered venue names.
func (s *Session) Venues(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	out := make([]string, len(s.venues))
	copy(out, s.venues)
	return out, nil
}

// Schedule returns a copy of the current schedule.
func (s *Session) Schedule(ctx context.Context) (domain.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return domain.Schedule{}, err
	}
	return s.schedule.Clone(), nil
}

// AllMatches flattens the schedule into one list sorted by kickoff.
func (s *Session) AllMatches(ctx context.Context) ([]domain.ScheduledMatch, error) {
	schedule, err := s.Schedule(ctx)
	if err != nil {
		return nil, err
	}
	matches := make([]domain.ScheduledMatch, 0)
	for _, stage := range schedule.Stages {
		matches = append(matches, stage.Games...)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Timestamp() < matches[j].Timestamp()
	})
	return matches, nil
}

// findMatch locates a schedule entry by id with tuple fallback. Callers
// must hold the session lock with the schedule loaded.
func (s *Session) findMatch(id string, key domain.MatchKey) (domain.ScheduledMatch, bool) {
	for _, stage := range s.schedule.Stages {
		for _, m := range stage.Games {
			if m.Matches(id, key) {
				return m, true
			}
		}
	}
	return domain.ScheduledMatch{}, false
}

// Leagues lists the league groupings derived from the roster.
func (s *Session) Leagues(ctx context.Context) ([]domain.League, error) {
	return s.resolver.Leagues(ctx)
}

// Progress reports how far a league's regular season has come, based on
// the recorded games.
func (s *Session) Progress(ctx context.Context, leagueName string) (league.SeasonProgress, error) {
	games, err := s.games.All(ctx)
	if err != nil {
		return league.SeasonProgress{}, err
	}
	docs := make([]domain.GameDocument, 0, len(games))
	for _, g := range games {
		docs = append(docs, g.Doc)
	}
	return s.resolver.Progress(ctx, leagueName, docs)
}

// Games lists every recorded game.
func (s *Session) Games(ctx context.Context) ([]cache.Game, error) {
	return s.games.All(ctx)
}

// Game returns one recorded game by number.
func (s *Session) Game(ctx context.Context, number int) (cache.Game, error) {
	return s.games.ByNumber(ctx, number)
}

// GamesWithoutStats lists games still missing a statistics image,
// optionally narrowed to one league.
func (s *Session) GamesWithoutStats(ctx context.Context, leagueName string) ([]cache.Game, error) {
	return s.games.WithoutStats(ctx, leagueName)
}

// PendingMatches lists the staged schedule additions.
func (s *Session) PendingMatches() []staging.PendingMatch {
	return s.queue.PendingMatches()
}

// PendingResults lists the staged results.
func (s *Session) PendingResults() []staging.PendingResult {
	return s.queue.PendingResults()
}

// WithdrawMatch removes a staged match before it is applied.
func (s *Session) WithdrawMatch(id string) bool {
	return s.queue.RemoveMatch(id)
}

// WithdrawResult removes a staged result before it is applied.
func (s *Session) WithdrawResult(id string) bool {
	return s.queue.RemoveResult(id)
}

// Flush applies everything staged and swaps in the updated schedule.
// Committed results invalidate the game views so the next read sees
// the new records.
func (s *Session) Flush(ctx context.Context, actor string) (staging.FlushReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return staging.FlushReport{}, err
	}

	report, updated := s.queue.Flush(ctx, s.store, s.schedule)
	s.schedule = updated
	if len(report.ResultNumbers) > 0 {
		s.games.Reset()
	}
	if s.metrics != nil {
		s.metrics.RecordFlush(ctx, report.MatchesCommitted, len(report.ResultNumbers), len(report.Failed))
	}
	logging.Info(s.logger, "applied staged mutations",
		logging.FieldActor, actor,
		"matches_committed", report.MatchesCommitted,
		"results_committed", len(report.ResultNumbers),
		"failed", len(report.Failed),
		"ok", report.OK)
	return report, nil
}

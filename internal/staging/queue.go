// Package staging holds proposed schedule and result mutations until an
// operator applies them in one batch.
package staging

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"league-admin-service/internal/domain"
	"league-admin-service/internal/logging"
)

// Store is the slice of the record store a flush writes through.
type Store interface {
	NextGameNumber(ctx context.Context) (int, error)
	WriteGame(ctx context.Context, number int, doc domain.GameDocument, message string) error
	WriteSchedule(ctx context.Context, schedule domain.Schedule, message string) error
}

// PendingMatch is a proposed schedule addition.
type PendingMatch struct {
	ID        string
	Match     domain.ScheduledMatch
	Actor     string
	CreatedAt time.Time
}

// PendingResult is a proposed game result. MatchID and MatchKey link the
// result back to the schedule entry it settles, when there is one.
type PendingResult struct {
	ID        string
	Doc       domain.GameDocument
	MatchID   string
	MatchKey  domain.MatchKey
	Actor     string
	CreatedAt time.Time
}

// FlushReport summarizes one flush. A flush never fails as a whole:
// items that could not be committed stay queued and are listed in Failed.
type FlushReport struct {
	MatchesCommitted int
	ResultNumbers    []int
	Failed           []string
	ScheduleUpdated  bool
	OK               bool
}

// Queue accumulates proposed mutations. All methods are safe for
// concurrent use.
type Queue struct {
	mu      sync.Mutex
	matches []PendingMatch
	results []PendingResult
	newID   func() string
	now     func() time.Time
	logger  *slog.Logger
}

// NewQueue constructs an empty queue.
func NewQueue(logger *slog.Logger) *Queue {
	return &Queue{
		newID:  uuid.NewString,
		now:    time.Now,
		logger: logger,
	}
}

// EnqueueMatch stages a schedule addition. The match receives a
// surrogate id here so later edits can address it unambiguously.
func (q *Queue) EnqueueMatch(match domain.ScheduledMatch, actor string) PendingMatch {
	q.mu.Lock()
	defer q.mu.Unlock()
	if match.ID == "" {
		match.ID = q.newID()
	}
	pending := PendingMatch{
		ID:        q.newID(),
		Match:     match,
		Actor:     actor,
		CreatedAt: q.now(),
	}
	q.matches = append(q.matches, pending)
	return pending
}

// EnqueueResult stages a game result.
func (q *Queue) EnqueueResult(doc domain.GameDocument, matchID string, key domain.MatchKey, actor string) PendingResult {
	q.mu.Lock()
	defer q.mu.Unlock()
	pending := PendingResult{
		ID:        q.newID(),
		Doc:       doc,
		MatchID:   matchID,
		MatchKey:  key,
		Actor:     actor,
		CreatedAt: q.now(),
	}
	q.results = append(q.results, pending)
	return pending
}

// PendingMatches returns a copy of the staged schedule additions.
func (q *Queue) PendingMatches() []PendingMatch {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]PendingMatch, len(q.matches))
	copy(out, q.matches)
	return out
}

// PendingResults returns a copy of the staged results.
func (q *Queue) PendingResults() []PendingResult {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]PendingResult, len(q.results))
	copy(out, q.results)
	return out
}

// RemoveMatch withdraws a staged match by its pending id.
func (q *Queue) RemoveMatch(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, p := range q.matches {
		if p.ID == id {
			q.matches = append(q.matches[:i], q.matches[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveResult withdraws a staged result by its pending id.
func (q *Queue) RemoveResult(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, p := range q.results {
		if p.ID == id {
			q.results = append(q.results[:i], q.results[i+1:]...)
			return true
		}
	}
	return false
}

// Clear drops everything staged.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.matches = nil
	q.results = nil
}

// Size returns the staged match and result counts.
func (q *Queue) Size() (matches, results int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.matches), len(q.results)
}

// Flush applies everything staged against the store and returns the
// updated schedule.
//
// Staged matches are committed atomically: they are appended to the
// regular season stage, the stage is re-sorted by kickoff, and a single
// schedule write persists all of them. When that write fails the
// schedule is left untouched and the matches stay queued.
//
// Results are committed per item. A contiguous number block is claimed
// upfront so successful items keep their numbers even when a neighbor
// fails; failed items stay queued for the next flush. Schedule entries
// settled by committed results are removed in one trailing write.
func (q *Queue) Flush(ctx context.Context, store Store, schedule domain.Schedule) (FlushReport, domain.Schedule) {
	q.mu.Lock()
	defer q.mu.Unlock()

	report := FlushReport{OK: true}
	working := schedule.Clone()

	if len(q.matches) > 0 {
		staged := working.Clone()
		stage := staged.EnsureStage(domain.StageRegularSeason)
		for _, p := range q.matches {
			stage.Games = append(stage.Games, p.Match)
		}
		sort.SliceStable(stage.Games, func(i, j int) bool {
			return stage.Games[i].Timestamp() < stage.Games[j].Timestamp()
		})

		message := fmt.Sprintf("Add %d scheduled matches", len(q.matches))
		if err := store.WriteSchedule(ctx, staged, message); err != nil {
			report.OK = false
			report.Failed = append(report.Failed, fmt.Sprintf("schedule write: %v", err))
			logging.Error(q.logger, "flush: schedule write failed, matches stay queued", err,
				logging.FieldCount, len(q.matches))
		} else {
			working = staged
			report.MatchesCommitted = len(q.matches)
			report.ScheduleUpdated = true
			q.matches = nil
		}
	}

	if len(q.results) > 0 {
		next, err := store.NextGameNumber(ctx)
		if err != nil {
			report.OK = false
			report.Failed = append(report.Failed, fmt.Sprintf("next game number: %v", err))
			logging.Error(q.logger, "flush: could not claim game numbers, results stay queued", err,
				logging.FieldCount, len(q.results))
			return report, working
		}

		remaining := make([]PendingResult, 0, len(q.results))
		removedAny := false
		for i, p := range q.results {
			number := next + i
			doc := p.Doc
			if doc.AddedBy == "" {
				doc.AddedBy = p.Actor
			}
			message := fmt.Sprintf("Add result game_%03d", number)
			if err := store.WriteGame(ctx, number, doc, message); err != nil {
				report.OK = false
				report.Failed = append(report.Failed, fmt.Sprintf("game %d: %v", number, err))
				logging.Error(q.logger, "flush: game write failed, result stays queued", err,
					logging.FieldGame, number)
				remaining = append(remaining, p)
				continue
			}
			report.ResultNumbers = append(report.ResultNumbers, number)
			if working.RemoveMatch(p.MatchID, p.MatchKey) {
				removedAny = true
			}
		}
		q.results = remaining

		if removedAny {
			if err := store.WriteSchedule(ctx, working, "Remove played matches from schedule"); err != nil {
				report.OK = false
				report.Failed = append(report.Failed, fmt.Sprintf("schedule cleanup: %v", err))
				logging.Error(q.logger, "flush: removing played matches from schedule failed", err)
			} else {
				report.ScheduleUpdated = true
			}
		}
	}

	return report, working
}

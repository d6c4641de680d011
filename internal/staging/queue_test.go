package staging

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"league-admin-service/internal/domain"
	"league-admin-service/internal/testutil"
)

func newTestQueue() *Queue {
	logger, _ := testutil.NewBufferLogger()
	q := NewQueue(logger)
	seq := 0
	q.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	return q
}

func match(date, kickoff, home, away string) domain.ScheduledMatch {
	return domain.ScheduledMatch{
		Date: date, Time: kickoff, TeamHome: home, TeamAway: away, Location: "Main Court", League: "North",
	}
}

func TestEnqueueMatchAssignsSurrogateID(t *testing.T) {
	q := newTestQueue()
	pending := q.EnqueueMatch(match("2026-05-01", "18:00", "Hawks", "Wolves"), "admin")

	if pending.Match.ID == "" {
		t.Fatalf("expected surrogate id on the match")
	}
	if pending.ID == pending.Match.ID {
		t.Fatalf("pending id and match id must differ")
	}
	if got := q.PendingMatches(); len(got) != 1 || got[0].Actor != "admin" {
		t.Fatalf("unexpected queue state: %+v", got)
	}
}

func TestWithdraw(t *testing.T) {
	q := newTestQueue()
	p := q.EnqueueMatch(match("2026-05-01", "18:00", "Hawks", "Wolves"), "admin")
	r := q.EnqueueResult(testutil.SampleGameDoc("Hawks", "Wolves", "70:65", "2026-05-01"), "", domain.MatchKey{}, "admin")

	if !q.RemoveMatch(p.ID) {
		t.Fatalf("expected match removal")
	}
	if q.RemoveMatch(p.ID) {
		t.Fatalf("second removal must fail")
	}
	if !q.RemoveResult(r.ID) {
		t.Fatalf("expected result removal")
	}
	matches, results := q.Size()
	if matches != 0 || results != 0 {
		t.Fatalf("queue not empty: %d %d", matches, results)
	}
}

func TestFlushCommitsMatchesSortedInOneWrite(t *testing.T) {
	q := newTestQueue()
	store := testutil.NewStubStore()

	q.EnqueueMatch(match("2026-05-08", "18:00", "Bears", "Hawks"), "admin")
	q.EnqueueMatch(match("2026-05-01", "18:00", "Hawks", "Wolves"), "admin")

	report, updated := q.Flush(context.Background(), store, domain.Schedule{Season: "2026"})
	if !report.OK || report.MatchesCommitted != 2 || !report.ScheduleUpdated {
		t.Fatalf("unexpected report: %+v", report)
	}

	stage := updated.Stage(domain.StageRegularSeason)
	if stage == nil || len(stage.Games) != 2 {
		t.Fatalf("unexpected stage: %+v", stage)
	}
	if stage.Games[0].Date != "2026-05-01" {
		t.Fatalf("matches not sorted by kickoff: %+v", stage.Games)
	}
	if len(store.Written) != 1 || store.Written[0] != "write_schedule" {
		t.Fatalf("expected a single schedule write, got %v", store.Written)
	}
	if matches, _ := q.Size(); matches != 0 {
		t.Fatalf("committed matches must leave the queue")
	}
}

func TestFlushMatchRollbackOnWriteFailure(t *testing.T) {
	q := newTestQueue()
	store := testutil.NewStubStore()
	store.Fail["write_schedule"] = errors.New("boom")

	q.EnqueueMatch(match("2026-05-01", "18:00", "Hawks", "Wolves"), "admin")

	report, updated := q.Flush(context.Background(), store, domain.Schedule{Season: "2026"})
	if report.OK || report.MatchesCommitted != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if stage := updated.Stage(domain.StageRegularSeason); stage != nil {
		t.Fatalf("failed write must leave the schedule untouched: %+v", stage)
	}
	if matches, _ := q.Size(); matches != 1 {
		t.Fatalf("failed matches must stay queued")
	}
}

func TestFlushResultsClaimContiguousNumbers(t *testing.T) {
	q := newTestQueue()
	store := testutil.NewStubStore()
	for _, n := range []int{1, 2, 5} {
		store.Games[n] = testutil.SampleGameDoc("Hawks", "Wolves", "70:65", "2026-01-01")
	}

	q.EnqueueResult(testutil.SampleGameDoc("Hawks", "Wolves", "70:65", "2026-05-01"), "", domain.MatchKey{}, "admin")
	q.EnqueueResult(testutil.SampleGameDoc("Bears", "Hawks", "61:55", "2026-05-02"), "", domain.MatchKey{}, "admin")

	report, _ := q.Flush(context.Background(), store, domain.Schedule{})
	if !report.OK {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(report.ResultNumbers) != 2 || report.ResultNumbers[0] != 6 || report.ResultNumbers[1] != 7 {
		t.Fatalf("expected numbers 6 and 7, got %v", report.ResultNumbers)
	}
	if _, ok := store.Games[6]; !ok {
		t.Fatalf("game 6 not written")
	}
	if _, ok := store.Games[7]; !ok {
		t.Fatalf("game 7 not written")
	}
}

func TestFlushFailedResultStaysQueuedAndNeighborKeepsNumber(t *testing.T) {
	q := newTestQueue()
	store := testutil.NewStubStore()

	good := testutil.SampleGameDoc("Hawks", "Wolves", "70:65", "2026-05-01")
	bad := testutil.SampleGameDoc("Bears", "Hawks", "61:55", "2026-05-02")
	q.EnqueueResult(bad, "", domain.MatchKey{}, "admin")
	q.EnqueueResult(good, "", domain.MatchKey{}, "admin")

	calls := 0
	flaky := &flakyStore{StubStore: store, failFirst: 1, calls: &calls}

	report, _ := q.Flush(context.Background(), flaky, domain.Schedule{})
	if report.OK {
		t.Fatalf("expected partial failure: %+v", report)
	}
	if len(report.ResultNumbers) != 1 || report.ResultNumbers[0] != 2 {
		t.Fatalf("surviving result must keep its claimed number, got %v", report.ResultNumbers)
	}
	if _, results := q.Size(); results != 1 {
		t.Fatalf("failed result must stay queued, have %d", results)
	}
	if len(report.Failed) != 1 {
		t.Fatalf("expected one failure entry, got %v", report.Failed)
	}
}

// flakyStore fails the first n game writes, then delegates.
type flakyStore struct {
	*testutil.StubStore
	failFirst int
	calls     *int
}

func (f *flakyStore) WriteGame(ctx context.Context, number int, doc domain.GameDocument, message string) error {
	*f.calls++
	if *f.calls <= f.failFirst {
		return errors.New("transient write failure")
	}
	return f.StubStore.WriteGame(ctx, number, doc, message)
}

func TestFlushRemovesSettledMatchesFromSchedule(t *testing.T) {
	q := newTestQueue()
	store := testutil.NewStubStore()

	schedule := domain.Schedule{
		Season: "2026",
		Stages: []domain.Stage{{Name: domain.StageRegularSeason, Games: []domain.ScheduledMatch{
			testutil.SampleMatch("m1", "2026-05-01", "18:00", "Hawks", "Wolves"),
			testutil.SampleMatch("m2", "2026-05-08", "18:00", "Bears", "Hawks"),
		}}},
	}

	doc := testutil.SampleGameDoc("Hawks", "Wolves", "70:65", "2026-05-01")
	q.EnqueueResult(doc, "m1", domain.MatchKey{}, "admin")

	report, updated := q.Flush(context.Background(), store, schedule)
	if !report.OK || !report.ScheduleUpdated {
		t.Fatalf("unexpected report: %+v", report)
	}

	stage := updated.Stage(domain.StageRegularSeason)
	if len(stage.Games) != 1 || stage.Games[0].ID != "m2" {
		t.Fatalf("settled match not removed: %+v", stage.Games)
	}
	if got := store.Sched.Stage(domain.StageRegularSeason); len(got.Games) != 1 {
		t.Fatalf("schedule cleanup not persisted: %+v", got.Games)
	}
}

func TestFlushNextNumberFailureKeepsEverythingQueued(t *testing.T) {
	q := newTestQueue()
	store := testutil.NewStubStore()
	store.Fail["next_game_number"] = errors.New("boom")

	q.EnqueueResult(testutil.SampleGameDoc("Hawks", "Wolves", "70:65", "2026-05-01"), "", domain.MatchKey{}, "admin")

	report, _ := q.Flush(context.Background(), store, domain.Schedule{})
	if report.OK || len(report.ResultNumbers) != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if _, results := q.Size(); results != 1 {
		t.Fatalf("results must stay queued")
	}
}

func TestFlushEmptyQueueIsNoop(t *testing.T) {
	q := newTestQueue()
	store := testutil.NewStubStore()

	report, updated := q.Flush(context.Background(), store, domain.Schedule{Season: "2026"})
	if !report.OK || report.ScheduleUpdated {
		t.Fatalf("unexpected report: %+v", report)
	}
	if updated.Season != "2026" {
		t.Fatalf("schedule changed: %+v", updated)
	}
	if len(store.Written) != 0 {
		t.Fatalf("no writes expected, got %v", store.Written)
	}
}

package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"league-admin-service/internal/cache"
	"league-admin-service/internal/config"
	"league-admin-service/internal/domain"
	"league-admin-service/internal/league"
	"league-admin-service/internal/staging"
	"league-admin-service/internal/testutil"
)

func newTestSession(t *testing.T, store *testutil.StubStore) *Session {
	t.Helper()
	logger, _ := testutil.NewBufferLogger()
	games := cache.NewGames(cache.NewStore(nil), store, config.CacheConfig{
		GamesTTL:        time.Minute,
		WithoutStatsTTL: 30 * time.Second,
		PerLeagueLimit:  5,
		GlobalLimit:     10,
	}, nil, logger)
	resolver := league.NewResolver(store, logger)
	queue := staging.NewQueue(logger)
	sess := New(store, queue, games, resolver, nil, logger)
	sess.now = testutil.NowAt(time.Date(2026, 6, 1, 12, 0, 0, 0, time.Local))
	return sess
}

func seededStore() *testutil.StubStore {
	store := testutil.NewStubStore()
	store.Teams = testutil.SampleTeams()
	store.Venues = []string{"Main Court", "East Gym"}
	store.Config["North"] = domain.LeagueConfig{RegularSeasonRounds: 1}
	store.Sched = domain.Schedule{
		Season: "2026",
		Stages: []domain.Stage{{Name: domain.StageRegularSeason, Games: []domain.ScheduledMatch{
			testutil.SampleMatch("m1", "2026-05-01", "18:00", "Hawks", "Wolves"),
			testutil.SampleMatch("m2", "2026-07-01", "18:00", "Bears", "Hawks"),
		}}},
	}
	return store
}

func TestAllMatchesSortedByKickoff(t *testing.T) {
	store := seededStore()
	sess := newTestSession(t, store)

	matches, err := sess.AllMatches(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 || matches[0].ID != "m1" {
		t.Fatalf("unexpected matches: %+v", matches)
	}
}

func TestMatchesForResultOnlyPastKickoffs(t *testing.T) {
	store := seededStore()
	sess := newTestSession(t, store)

	matches, err := sess.MatchesForResult(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != "m1" {
		t.Fatalf("expected only the played match, got %+v", matches)
	}
}

func TestEnqueueMatchValidation(t *testing.T) {
	store := seededStore()
	sess := newTestSession(t, store)
	ctx := context.Background()

	cases := []struct {
		name  string
		input MatchInput
	}{
		{"bad date", MatchInput{Date: "01.05.2026", Time: "18:00", TeamHome: "Hawks", TeamAway: "Wolves", Location: "Main Court"}},
		{"bad time", MatchInput{Date: "2026-05-01", Time: "6pm", TeamHome: "Hawks", TeamAway: "Wolves", Location: "Main Court"}},
		{"missing team", MatchInput{Date: "2026-05-01", Time: "18:00", TeamHome: "Hawks", Location: "Main Court"}},
		{"same team", MatchInput{Date: "2026-05-01", Time: "18:00", TeamHome: "Hawks", TeamAway: "Hawks", Location: "Main Court"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var validation *ValidationError
			if _, err := sess.EnqueueMatch(ctx, tc.input, "admin"); !errors.As(err, &validation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	input := MatchInput{Date: "2026-05-01", Time: "18:00", TeamHome: "Hawks", TeamAway: "Wolves", Location: "Nowhere"}
	if _, err := sess.EnqueueMatch(ctx, input, "admin"); !errors.Is(err, ErrVenueNotFound) {
		t.Fatalf("expected venue error, got %v", err)
	}
}

func TestEnqueueMatchClassifiesLeague(t *testing.T) {
	store := seededStore()
	sess := newTestSession(t, store)

	pending, err := sess.EnqueueMatch(context.Background(), MatchInput{
		Date: "2026-08-01", Time: "18:00", TeamHome: "Comets", TeamAway: "Pirates", Location: "Main Court",
	}, "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pending.Match.League != "South" {
		t.Fatalf("expected South, got %s", pending.Match.League)
	}
	if pending.Match.ID == "" {
		t.Fatalf("expected surrogate id")
	}
}

func TestEnqueueResultFromScheduledMatch(t *testing.T) {
	store := seededStore()
	sess := newTestSession(t, store)

	pending, err := sess.EnqueueResult(context.Background(), ResultInput{
		MatchID: "m1",
		Score:   "70:65",
	}, "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pending.Doc.MatchInfo.TeamA != "Hawks" || pending.Doc.MatchInfo.TeamB != "Wolves" {
		t.Fatalf("teams not taken from the schedule entry: %+v", pending.Doc.MatchInfo)
	}
	if pending.Doc.MatchInfo.Score != "70:65" {
		t.Fatalf("unexpected score: %s", pending.Doc.MatchInfo.Score)
	}
	if pending.Doc.MatchInfo.League != "North" {
		t.Fatalf("league not classified: %+v", pending.Doc.MatchInfo)
	}
	if pending.MatchID != "m1" {
		t.Fatalf("schedule link lost: %+v", pending)
	}
}

func TestEnqueueResultRejectsBadScore(t *testing.T) {
	store := seededStore()
	sess := newTestSession(t, store)

	var validation *ValidationError
	if _, err := sess.EnqueueResult(context.Background(), ResultInput{MatchID: "m1", Score: "70-65"}, "admin"); !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestEnqueueResultRejectsFutureDate(t *testing.T) {
	store := seededStore()
	sess := newTestSession(t, store)

	var validation *ValidationError
	_, err := sess.EnqueueResult(context.Background(), ResultInput{
		TeamA: "Hawks", TeamB: "Wolves", Score: "70:65", Date: "2026-07-15",
	}, "admin")
	if !errors.As(err, &validation) || validation.Field != "date" {
		t.Fatalf("expected a future-date rejection, got %v", err)
	}
}

func TestEnqueueResultUnknownMatch(t *testing.T) {
	store := seededStore()
	sess := newTestSession(t, store)

	if _, err := sess.EnqueueResult(context.Background(), ResultInput{MatchID: "ghost", Score: "70:65"}, "admin"); !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("expected match not found, got %v", err)
	}
}

func TestFlushCommitsAndRemovesPlayedMatch(t *testing.T) {
	store := seededStore()
	sess := newTestSession(t, store)
	ctx := context.Background()

	if _, err := sess.EnqueueResult(ctx, ResultInput{MatchID: "m1", Score: "70:65"}, "admin"); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	report, err := sess.Flush(ctx, "admin")
	if err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if !report.OK || len(report.ResultNumbers) != 1 || report.ResultNumbers[0] != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}

	matches, err := sess.AllMatches(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != "m2" {
		t.Fatalf("played match still scheduled: %+v", matches)
	}

	games, err := sess.Games(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(games) != 1 || games[0].Number != 1 {
		t.Fatalf("committed result not visible: %+v", games)
	}
}

func TestAddVenue(t *testing.T) {
	store := seededStore()
	sess := newTestSession(t, store)
	ctx := context.Background()

	if err := sess.AddVenue(ctx, "West Hall", "admin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sess.AddVenue(ctx, "West Hall", "admin"); !errors.Is(err, ErrVenueExists) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}
	if len(store.Venues) != 3 {
		t.Fatalf("venue list not persisted: %v", store.Venues)
	}
}

func TestAddVenueRollbackOnWriteFailure(t *testing.T) {
	store := seededStore()
	store.Fail["write_venues"] = errors.New("boom")
	sess := newTestSession(t, store)
	ctx := context.Background()

	if err := sess.AddVenue(ctx, "West Hall", "admin"); err == nil {
		t.Fatalf("expected error")
	}

	venues, err := sess.Venues(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(venues) != 2 {
		t.Fatalf("failed write must leave the in-memory list untouched: %v", venues)
	}
}

func TestDeleteVenueInUse(t *testing.T) {
	store := seededStore()
	sess := newTestSession(t, store)

	var inUse *VenueInUseError
	err := sess.DeleteVenue(context.Background(), "Main Court", "admin")
	if !errors.As(err, &inUse) {
		t.Fatalf("expected in-use error, got %v", err)
	}
	if inUse.Venue != "Main Court" || len(inUse.Matches) != 2 {
		t.Fatalf("unexpected conflict details: %+v", inUse)
	}
}

func TestDeleteVenueUnused(t *testing.T) {
	store := seededStore()
	sess := newTestSession(t, store)
	ctx := context.Background()

	if err := sess.DeleteVenue(ctx, "East Gym", "admin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.Venues) != 1 || store.Venues[0] != "Main Court" {
		t.Fatalf("unexpected venues: %v", store.Venues)
	}

	if err := sess.DeleteVenue(ctx, "East Gym", "admin"); !errors.Is(err, ErrVenueNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEditMatchPersistsOnce(t *testing.T) {
	store := seededStore()
	sess := newTestSession(t, store)

	edited, err := sess.EditMatch(context.Background(), "m1", domain.MatchKey{}, MatchUpdate{
		Time:     "20:00",
		Location: "East Gym",
	}, "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if edited.Time != "20:00" || edited.Location != "East Gym" || edited.Date != "2026-05-01" {
		t.Fatalf("unexpected edit: %+v", edited)
	}
	if len(store.Written) != 1 || store.Written[0] != "write_schedule" {
		t.Fatalf("expected one schedule write, got %v", store.Written)
	}
}

func TestEditMatchRollbackOnWriteFailure(t *testing.T) {
	store := seededStore()
	store.Fail["write_schedule"] = errors.New("boom")
	sess := newTestSession(t, store)
	ctx := context.Background()

	if _, err := sess.EditMatch(ctx, "m1", domain.MatchKey{}, MatchUpdate{Time: "20:00"}, "admin"); err == nil {
		t.Fatalf("expected error")
	}

	matches, err := sess.AllMatches(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if matches[0].Time != "18:00" {
		t.Fatalf("failed edit leaked into the session: %+v", matches[0])
	}
}

func TestDeleteMatch(t *testing.T) {
	store := seededStore()
	sess := newTestSession(t, store)
	ctx := context.Background()

	if err := sess.DeleteMatch(ctx, "m1", domain.MatchKey{}, "admin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sess.DeleteMatch(ctx, "m1", domain.MatchKey{}, "admin"); !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAttachStatistics(t *testing.T) {
	store := seededStore()
	store.Games[1] = testutil.SampleGameDoc("Hawks", "Wolves", "70:65", "2026-05-01")
	sess := newTestSession(t, store)
	ctx := context.Background()

	if err := sess.AttachStatistics(ctx, 1, ".PNG", []byte{1, 2}, "admin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.Images) != 1 || store.Images[0] != "game_001.png" {
		t.Fatalf("unexpected images: %v", store.Images)
	}

	// The cached views must reflect the upload without a refetch.
	missing, err := sess.GamesWithoutStats(ctx, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, g := range missing {
		if g.Number == 1 {
			t.Fatalf("patched game still reported without stats")
		}
	}
}

func TestAttachStatisticsRejectsBadInput(t *testing.T) {
	store := seededStore()
	store.Games[1] = testutil.SampleGameDoc("Hawks", "Wolves", "70:65", "2026-05-01")
	sess := newTestSession(t, store)
	ctx := context.Background()

	if err := sess.AttachStatistics(ctx, 1, "gif", []byte{1}, "admin"); !errors.Is(err, ErrUnsupportedImage) {
		t.Fatalf("expected unsupported image, got %v", err)
	}
	var validation *ValidationError
	if err := sess.AttachStatistics(ctx, 1, "png", nil, "admin"); !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := sess.AttachStatistics(ctx, 99, "png", []byte{1}, "admin"); err == nil {
		t.Fatalf("expected error for unknown game")
	}
}

func TestProgressUsesRecordedGames(t *testing.T) {
	store := seededStore()
	store.Games[1] = testutil.SampleGameDoc("Hawks", "Wolves", "70:65", "2026-05-01")
	sess := newTestSession(t, store)

	progress, err := sess.Progress(context.Background(), "North")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if progress.Required != 2 || progress.Played["Hawks"] != 1 {
		t.Fatalf("unexpected progress: %+v", progress)
	}
}

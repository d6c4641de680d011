package gateway

import (
	"context"
	"time"

	"league-admin-service/internal/domain"
)

// StoreRecorder receives one observation per store operation attempt.
type StoreRecorder interface {
	RecordStoreAttempt(ctx context.Context, op string, success bool, elapsed time.Duration)
}

// Instrumented wraps a RecordStore and reports per-operation outcomes
// and latency to a recorder.
type Instrumented struct {
	next     RecordStore
	recorder StoreRecorder
	now      func() time.Time
}

// NewInstrumented wires metrics recording around next. A nil recorder
// yields a pass-through wrapper.
func NewInstrumented(next RecordStore, recorder StoreRecorder) *Instrumented {
	return &Instrumented{next: next, recorder: recorder, now: time.Now}
}

func (i *Instrumented) observe(ctx context.Context, op string, start time.Time, err error) {
	if i.recorder == nil {
		return
	}
	// Missing documents are a normal answer, not a store failure.
	success := err == nil || IsNotFound(err)
	i.recorder.RecordStoreAttempt(ctx, op, success, i.now().Sub(start))
}

func (i *Instrumented) ListGames(ctx context.Context) ([]GameRecord, error) {
	start := i.now()
	v, err := i.next.ListGames(ctx)
	i.observe(ctx, "list_games", start, err)
	return v, err
}

func (i *Instrumented) ReadGame(ctx context.Context, number int) (GameRecord, error) {
	start := i.now()
	v, err := i.next.ReadGame(ctx, number)
	i.observe(ctx, "read_game", start, err)
	return v, err
}

func (i *Instrumented) ListStatisticsImages(ctx context.Context) ([]string, error) {
	start := i.now()
	v, err := i.next.ListStatisticsImages(ctx)
	i.observe(ctx, "list_statistics_images", start, err)
	return v, err
}

func (i *Instrumented) ReadTeams(ctx context.Context) ([]domain.Team, error) {
	start := i.now()
	v, err := i.next.ReadTeams(ctx)
	i.observe(ctx, "read_teams", start, err)
	return v, err
}

func (i *Instrumented) ReadVenues(ctx context.Context) ([]string, error) {
	start := i.now()
	v, err := i.next.ReadVenues(ctx)
	i.observe(ctx, "read_venues", start, err)
	return v, err
}

func (i *Instrumented) ReadSchedule(ctx context.Context) (domain.Schedule, error) {
	start := i.now()
	v, err := i.next.ReadSchedule(ctx)
	i.observe(ctx, "read_schedule", start, err)
	return v, err
}

func (i *Instrumented) ReadLeaguesConfig(ctx context.Context) (map[string]domain.LeagueConfig, error) {
	start := i.now()
	v, err := i.next.ReadLeaguesConfig(ctx)
	i.observe(ctx, "read_leagues_config", start, err)
	return v, err
}

func (i *Instrumented) WriteSchedule(ctx context.Context, schedule domain.Schedule, message string) error {
	start := i.now()
	err := i.next.WriteSchedule(ctx, schedule, message)
	i.observe(ctx, "write_schedule", start, err)
	return err
}

func (i *Instrumented) WriteVenues(ctx context.Context, venues []string, message string) error {
	start := i.now()
	err := i.next.WriteVenues(ctx, venues, message)
	i.observe(ctx, "write_venues", start, err)
	return err
}

func (i *Instrumented) WriteGame(ctx context.Context, number int, doc domain.GameDocument, message string) error {
	start := i.now()
	err := i.next.WriteGame(ctx, number, doc, message)
	i.observe(ctx, "write_game", start, err)
	return err
}

func (i *Instrumented) WriteStatisticsImage(ctx context.Context, number int, ext string, payload []byte, message string) error {
	start := i.now()
	err := i.next.WriteStatisticsImage(ctx, number, ext, payload, message)
	i.observe(ctx, "write_statistics_image", start, err)
	return err
}

func (i *Instrumented) NextGameNumber(ctx context.Context) (int, error) {
	start := i.now()
	v, err := i.next.NextGameNumber(ctx)
	i.observe(ctx, "next_game_number", start, err)
	return v, err
}

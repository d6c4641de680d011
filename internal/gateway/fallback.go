package gateway

import (
	"context"
	"log/slog"

	"league-admin-service/internal/domain"
	"league-admin-service/internal/logging"
)

// Fallback layers a primary store over a secondary one. Reads fall back
// to the secondary when the primary fails; successful writes are mirrored
// to the secondary so it stays usable as a warm standby. ErrNotFound from
// the primary is authoritative and does not trigger a fallback read.
type Fallback struct {
	primary   RecordStore
	secondary RecordStore
	logger    *slog.Logger
}

// NewFallback wires a fallback decorator around primary and secondary.
func NewFallback(primary, secondary RecordStore, logger *slog.Logger) *Fallback {
	return &Fallback{primary: primary, secondary: secondary, logger: logger}
}

func fallbackRead[T any](f *Fallback, ctx context.Context, op string, fn func(RecordStore) (T, error)) (T, error) {
	v, err := fn(f.primary)
	if err == nil || IsNotFound(err) {
		return v, err
	}
	logging.Warn(f.logger, "primary store read failed, falling back",
		logging.FieldOp, op, "error", err)
	return fn(f.secondary)
}

func (f *Fallback) fallbackWrite(ctx context.Context, op string, fn func(RecordStore) error) error {
	if err := fn(f.primary); err != nil {
		logging.Warn(f.logger, "primary store write failed, writing to fallback",
			logging.FieldOp, op, "error", err)
		return fn(f.secondary)
	}
	if err := fn(f.secondary); err != nil {
		logging.Warn(f.logger, "mirroring write to fallback store failed",
			logging.FieldOp, op, "error", err)
	}
	return nil
}

func (f *Fallback) ListGames(ctx context.Context) ([]GameRecord, error) {
	return fallbackRead(f, ctx, "list_games", func(s RecordStore) ([]GameRecord, error) {
		return s.ListGames(ctx)
	})
}

func (f *Fallback) ReadGame(ctx context.Context, number int) (GameRecord, error) {
	return fallbackRead(f, ctx, "read_game", func(s RecordStore) (GameRecord, error) {
		return s.ReadGame(ctx, number)
	})
}

func (f *Fallback) ListStatisticsImages(ctx context.Context) ([]string, error) {
	return fallbackRead(f, ctx, "list_statistics_images", func(s RecordStore) ([]string, error) {
		return s.ListStatisticsImages(ctx)
	})
}

func (f *Fallback) ReadTeams(ctx context.Context) ([]domain.Team, error) {
	return fallbackRead(f, ctx, "read_teams", func(s RecordStore) ([]domain.Team, error) {
		return s.ReadTeams(ctx)
	})
}

func (f *Fallback) ReadVenues(ctx context.Context) ([]string, error) {
	return fallbackRead(f, ctx, "read_venues", func(s RecordStore) ([]string, error) {
		return s.ReadVenues(ctx)
	})
}

func (f *Fallback) ReadSchedule(ctx context.Context) (domain.Schedule, error) {
	return fallbackRead(f, ctx, "read_schedule", func(s RecordStore) (domain.Schedule, error) {
		return s.ReadSchedule(ctx)
	})
}

func (f *Fallback) ReadLeaguesConfig(ctx context.Context) (map[string]domain.LeagueConfig, error) {
	return fallbackRead(f, ctx, "read_leagues_config", func(s RecordStore) (map[string]domain.LeagueConfig, error) {
		return s.ReadLeaguesConfig(ctx)
	})
}

func (f *Fallback) WriteSchedule(ctx context.Context, schedule domain.Schedule, message string) error {
	return f.fallbackWrite(ctx, "write_schedule", func(s RecordStore) error {
		return s.WriteSchedule(ctx, schedule, message)
	})
}

func (f *Fallback) WriteVenues(ctx context.Context, venues []string, message string) error {
	return f.fallbackWrite(ctx, "write_venues", func(s RecordStore) error {
		return s.WriteVenues(ctx, venues, message)
	})
}

func (f *Fallback) WriteGame(ctx context.Context, number int, doc domain.GameDocument, message string) error {
	return f.fallbackWrite(ctx, "write_game", func(s RecordStore) error {
		return s.WriteGame(ctx, number, doc, message)
	})
}

func (f *Fallback) WriteStatisticsImage(ctx context.Context, number int, ext string, payload []byte, message string) error {
	return f.fallbackWrite(ctx, "write_statistics_image", func(s RecordStore) error {
		return s.WriteStatisticsImage(ctx, number, ext, payload, message)
	})
}

func (f *Fallback) NextGameNumber(ctx context.Context) (int, error) {
	return fallbackRead(f, ctx, "next_game_number", func(s RecordStore) (int, error) {
		return s.NextGameNumber(ctx)
	})
}

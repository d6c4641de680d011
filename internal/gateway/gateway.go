// Package gateway defines the record store abstraction over the league's
// JSON document repository, plus the decorators layered on top of the
// concrete backends.
package gateway

import (
	"context"

	"league-admin-service/internal/domain"
)

// GameRecord is one stored game file. Data is nil when the stored JSON
// could not be parsed; callers that only need numbering still get the
// file name and number.
type GameRecord struct {
	FileName string
	Number   int
	Path     string
	Data     *domain.GameDocument
}

// RecordStore is the full surface the service needs from a document
// repository. Implementations must be safe for concurrent use.
type RecordStore interface {
	ListGames(ctx context.Context) ([]GameRecord, error)
	ReadGame(ctx context.Context, number int) (GameRecord, error)
	ListStatisticsImages(ctx context.Context) ([]string, error)

	ReadTeams(ctx context.Context) ([]domain.Team, error)
	ReadVenues(ctx context.Context) ([]string, error)
	ReadSchedule(ctx context.Context) (domain.Schedule, error)
	ReadLeaguesConfig(ctx context.Context) (map[string]domain.LeagueConfig, error)

	WriteSchedule(ctx context.Context, schedule domain.Schedule, message string) error
	WriteVenues(ctx context.Context, venues []string, message string) error
	WriteGame(ctx context.Context, number int, doc domain.GameDocument, message string) error
	WriteStatisticsImage(ctx context.Context, number int, ext string, payload []byte, message string) error

	NextGameNumber(ctx context.Context) (int, error)
}

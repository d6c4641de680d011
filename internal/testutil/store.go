package testutil

import (
	"context"
	"fmt"
	"sync"

	"league-admin-service/internal/domain"
	"league-admin-service/internal/gateway"
)

// StubStore is an in-memory gateway.RecordStore for tests. Errors can be
// injected per operation through the Fail map; writes are recorded so
// tests can assert on what was persisted.
type StubStore struct {
	mu sync.Mutex

	Teams    []domain.Team
	Venues   []string
	Sched    domain.Schedule
	Config   map[string]domain.LeagueConfig
	Games    map[int]domain.GameDocument
	Images   []string
	Fail     map[string]error
	Written  []string
	Messages []string
}

// NewStubStore returns an empty stub.
func NewStubStore() *StubStore {
	return &StubStore{
		Config: map[string]domain.LeagueConfig{},
		Games:  map[int]domain.GameDocument{},
		Fail:   map[string]error{},
	}
}

func (s *StubStore) fail(op string) error {
	return s.Fail[op]
}

func (s *StubStore) record(op, message string) {
	s.Written = append(s.Written, op)
	s.Messages = append(s.Messages, message)
}

func (s *StubStore) ListGames(ctx context.Context) ([]gateway.GameRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("list_games"); err != nil {
		return nil, err
	}
	records := make([]gateway.GameRecord, 0, len(s.Games))
	for number := range s.Games {
		doc := s.Games[number]
		records = append(records, gateway.GameRecord{
			FileName: gateway.GameFileName(number),
			Number:   number,
			Path:     gateway.GamePath(number),
			Data:     &doc,
		})
	}
	return records, nil
}

func (s *StubStore) ReadGame(ctx context.Context, number int) (gateway.GameRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("read_game"); err != nil {
		return gateway.GameRecord{}, err
	}
	doc, ok := s.Games[number]
	if !ok {
		return gateway.GameRecord{}, fmt.Errorf("game %d: %w", number, gateway.ErrNotFound)
	}
	return gateway.GameRecord{
		FileName: gateway.GameFileName(number),
		Number:   number,
		Path:     gateway.GamePath(number),
		Data:     &doc,
	}, nil
}

func (s *StubStore) ListStatisticsImages(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("list_statistics_images"); err != nil {
		return nil, err
	}
	out := make([]string, len(s.Images))
	copy(out, s.Images)
	return out, nil
}

func (s *StubStore) ReadTeams(ctx context.Context) ([]domain.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("read_teams"); err != nil {
		return nil, err
	}
	out := make([]domain.Team, len(s.Teams))
	copy(out, s.Teams)
	return out, nil
}

func (s *StubStore) ReadVenues(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("read_venues"); err != nil {
		return nil, err
	}
	out := make([]string, len(s.Venues))
	copy(out, s.Venues)
	return out, nil
}

func (s *StubStore) ReadSchedule(ctx context.Context) (domain.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("read_schedule"); err != nil {
		return domain.Schedule{}, err
	}
	return s.Sched.Clone(), nil
}

func (s *StubStore) ReadLeaguesConfig(ctx context.Context) (map[string]domain.LeagueConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("read_leagues_config"); err != nil {
		return nil, err
	}
	out := make(map[string]domain.LeagueConfig, len(s.Config))
	for k, v := range s.Config {
		out[k] = v
	}
	return out, nil
}

func (s *StubStore) WriteSchedule(ctx context.Context, schedule domain.Schedule, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("write_schedule"); err != nil {
		return err
	}
	s.Sched = schedule.Clone()
	s.record("write_schedule", message)
	return nil
}

func (s *StubStore) WriteVenues(ctx context.Context, venues []string, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("write_venues"); err != nil {
		return err
	}
	s.Venues = make([]string, len(venues))
	copy(s.Venues, venues)
	s.record("write_venues", message)
	return nil
}

func (s *StubStore) WriteGame(ctx context.Context, number int, doc domain.GameDocument, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("write_game"); err != nil {
		return err
	}
	s.Games[number] = doc
	s.record("write_game", message)
	return nil
}

func (s *StubStore) WriteStatisticsImage(ctx context.Context, number int, ext string, payload []byte, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("write_statistics_image"); err != nil {
		return err
	}
	s.Images = append(s.Images, gateway.ImageFileName(number, ext))
	s.record("write_statistics_image", message)
	return nil
}

func (s *StubStore) NextGameNumber(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("next_game_number"); err != nil {
		return 0, err
	}
	max := 0
	for number := range s.Games {
		if number > max {
			max = number
		}
	}
	return max + 1, nil
}

var _ gateway.RecordStore = (*StubStore)(nil)

// Package localstore implements the record store on the local
// filesystem, mirroring the repository layout under a root directory.
// It backs development runs and serves as the warm standby behind the
// fallback decorator.
package localstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"league-admin-service/internal/domain"
	"league-admin-service/internal/gateway"
)

// Store reads and writes league documents under root.
type Store struct {
	root string
}

// New constructs a filesystem store rooted at root.
func New(root string) *Store {
	return &Store{root: root}
}

func (s *Store) abs(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

func (s *Store) readJSON(rel string, out any) error {
	raw, err := os.ReadFile(s.abs(rel))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("localstore: %s: %w", rel, gateway.ErrNotFound)
		}
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("localstore: parse %s: %w", rel, err)
	}
	return nil
}

// writeFile writes atomically via a tmp file rename, skipping the write
// when the content is unchanged.
func (s *Store) writeFile(rel string, data []byte) error {
	target := s.abs(rel)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) {
		return nil
	}
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}

func (s *Store) writeJSON(rel string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return s.writeFile(rel, append(data, '\n'))
}

func (s *Store) ListGames(ctx context.Context) ([]gateway.GameRecord, error) {
	entries, err := os.ReadDir(s.abs(gateway.GamesDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	records := make([]gateway.GameRecord, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		number, ok := gateway.ExtractGameNumber(entry.Name())
		if !ok {
			continue
		}
		record := gateway.GameRecord{
			FileName: entry.Name(),
			Number:   number,
			Path:     gateway.GamePath(number),
		}
		var doc domain.GameDocument
		if err := s.readJSON(record.Path, &doc); err == nil {
			record.Data = &doc
		}
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Number < records[j].Number })
	return records, nil
}

func (s *Store) ReadGame(ctx context.Context, number int) (gateway.GameRecord, error) {
	path := gateway.GamePath(number)
	var doc domain.GameDocument
	if err := s.readJSON(path, &doc); err != nil {
		return gateway.GameRecord{}, err
	}
	return gateway.GameRecord{
		FileName: gateway.GameFileName(number),
		Number:   number,
		Path:     path,
		Data:     &doc,
	}, nil
}

func (s *Store) ListStatisticsImages(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.abs(gateway.ImagesDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) ReadTeams(ctx context.Context) ([]domain.Team, error) {
	var teams []domain.Team
	if err := s.readJSON(gateway.TeamsPath, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

func (s *Store) ReadVenues(ctx context.Context) ([]string, error) {
	var venues []string
	if err := s.readJSON(gateway.VenuesPath, &venues); err != nil {
		return nil, err
	}
	return venues, nil
}

func (s *Store) ReadSchedule(ctx context.Context) (domain.Schedule, error) {
	var schedule domain.Schedule
	if err := s.readJSON(gateway.SchedulePath, &schedule); err != nil {
		return domain.Schedule{}, err
	}
	return schedule, nil
}

func (s *Store) ReadLeaguesConfig(ctx context.Context) (map[string]domain.LeagueConfig, error) {
	cfg := make(map[string]domain.LeagueConfig)
	if err := s.readJSON(gateway.ConfigPath, &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *Store) WriteSchedule(ctx context.Context, schedule domain.Schedule, message string) error {
	return s.writeJSON(gateway.SchedulePath, schedule)
}

func (s *Store) WriteVenues(ctx context.Context, venues []string, message string) error {
	return s.writeJSON(gateway.VenuesPath, venues)
}

func (s *Store) WriteGame(ctx context.Context, number int, doc domain.GameDocument, message string) error {
	return s.writeJSON(gateway.GamePath(number), doc)
}

func (s *Store) WriteStatisticsImage(ctx context.Context, number int, ext string, payload []byte, message string) error {
	return s.writeFile(gateway.ImagePath(number, ext), payload)
}

func (s *Store) NextGameNumber(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(s.abs(gateway.GamesDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 1, nil
		}
		return 0, err
	}
	max := 0
	for _, entry := range entries {
		if n, ok := gateway.ExtractGameNumber(entry.Name()); ok && n > max {
			max = n
		}
	}
	return max + 1, nil
}

var _ gateway.RecordStore = (*Store)(nil)

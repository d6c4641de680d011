package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"league-admin-service/internal/domain"
	"league-admin-service/internal/logging"
	"league-admin-service/internal/staging"
	"league-admin-service/internal/timeutil"
)

// MatchInput is a proposed schedule entry as entered by an operator.
type MatchInput struct {
	Date     string
	Time     string
	TeamHome string
	TeamAway string
	Location string
}

func validateDate(date string) error {
	if _, err := timeutil.ParseDate(date); err != nil {
		return &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	return nil
}

func validateTime(value string) error {
	if _, err := time.Parse(timeutil.TimeLayout, value); err != nil {
		return &ValidationError{Field: "time", Reason: "must be HH:MM"}
	}
	return nil
}

// venueRegistered reports whether name is in the venue list. Callers
// must hold the session lock with the venues loaded.
func (s *Session) venueRegistered(name string) bool {
	for _, v := range s.venues {
		if v == name {
			return true
		}
	}
	return false
}

// EnqueueMatch validates and stages a schedule addition. The match is
// classified into a league here so the stored entry is self-describing.
func (s *Session) EnqueueMatch(ctx context.Context, in MatchInput, actor string) (staging.PendingMatch, error) {
	if err := validateDate(in.Date); err != nil {
		return staging.PendingMatch{}, err
	}
	if err := validateTime(in.Time); err != nil {
		return staging.PendingMatch{}, err
	}
	if strings.TrimSpace(in.TeamHome) == "" || strings.TrimSpace(in.TeamAway) == "" {
		return staging.PendingMatch{}, &ValidationError{Field: "teams", Reason: "both teams are required"}
	}
	if in.TeamHome == in.TeamAway {
		return staging.PendingMatch{}, &ValidationError{Field: "teams", Reason: "a team cannot play itself"}
	}

	s.mu.Lock()
	if err := s.ensureLoaded(ctx); err != nil {
		s.mu.Unlock()
		return staging.PendingMatch{}, err
	}
	registered := s.venueRegistered(in.Location)
	s.mu.Unlock()
	if !registered {
		return staging.PendingMatch{}, fmt.Errorf("%w: %s", ErrVenueNotFound, in.Location)
	}

	leagueName, err := s.resolver.Classify(ctx, in.TeamHome, in.TeamAway)
	if err != nil {
		return staging.PendingMatch{}, err
	}
	if leagueName == domain.UnknownLeague {
		logging.Warn(s.logger, "scheduling match with teams outside every roster",
			"team_home", in.TeamHome, "team_away", in.TeamAway)
	}

	match := domain.ScheduledMatch{
		Date:     in.Date,
		Time:     in.Time,
		TeamHome: in.TeamHome,
		TeamAway: in.TeamAway,
		Location: in.Location,
		League:   leagueName,
	}
	return s.queue.EnqueueMatch(match, actor), nil
}

// AddVenue registers a new venue and persists the list.
func (s *Session) AddVenue(ctx context.Context, name, actor string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Field: "venue", Reason: "name is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	if s.venueRegistered(name) {
		return fmt.Errorf("%w: %s", ErrVenueExists, name)
	}

	updated := make([]string, len(s.venues), len(s.venues)+1)
	copy(updated, s.venues)
	updated = append(updated, name)

	message := fmt.Sprintf("Add venue %s", name)
	if err := s.store.WriteVenues(ctx, updated, message); err != nil {
		return err
	}
	s.venues = updated
	logging.Info(s.logger, "venue added", logging.FieldVenue, name, logging.FieldActor, actor)
	return nil
}

// DeleteVenue removes a venue. Venues still referenced by scheduled
// matches cannot be removed; the error carries the offending entries.
func (s *Session) DeleteVenue(ctx context.Context, name, actor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	if !s.venueRegistered(name) {
		return fmt.Errorf("%w: %s", ErrVenueNotFound, name)
	}

	var inUse []domain.ScheduledMatch
	for _, stage := range s.schedule.Stages {
		for _, m := range stage.Games {
			if m.Location == name {
				inUse = append(inUse, m)
			}
		}
	}
	if len(inUse) > 0 {
		return &VenueInUseError{Venue: name, Matches: inUse}
	}

	updated := make([]string, 0, len(s.venues)-1)
	for _, v := range s.venues {
		if v != name {
			updated = append(updated, v)
		}
	}

	message := fmt.Sprintf("Delete venue %s", name)
	if err := s.store.WriteVenues(ctx, updated, message); err != nil {
		return err
	}
	s.venues = updated
	logging.Info(s.logger, "venue deleted", logging.FieldVenue, name, logging.FieldActor, actor)
	return nil
}

// MatchUpdate carries the fields of a schedule entry an edit may change.
// Empty fields are left as they are.
type MatchUpdate struct {
	Date     string
	Time     string
	Location string
}

// EditMatch updates a schedule entry addressed by id with tuple
// fallback. The write goes against a working copy, so a failed persist
// leaves the session schedule untouched.
func (s *Session) EditMatch(ctx context.Context, id string, key domain.MatchKey, update MatchUpdate, actor string) (domain.ScheduledMatch, error) {
	if update.Date != "" {
		if err := validateDate(update.Date); err != nil {
			return domain.ScheduledMatch{}, err
		}
	}
	if update.Time != "" {
		if err := validateTime(update.Time); err != nil {
			return domain.ScheduledMatch{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return domain.ScheduledMatch{}, err
	}
	if update.Location != "" && !s.venueRegistered(update.Location) {
		return domain.ScheduledMatch{}, fmt.Errorf("%w: %s", ErrVenueNotFound, update.Location)
	}

	working := s.schedule.Clone()
	var edited *domain.ScheduledMatch
	for i := range working.Stages {
		for j := range working.Stages[i].Games {
			m := &working.Stages[i].Games[j]
			if m.Matches(id, key) {
				if update.Date != "" {
					m.Date = update.Date
				}
				if update.Time != "" {
					m.Time = update.Time
				}
				if update.Location != "" {
					m.Location = update.Location
				}
				edited = m
			}
		}
	}
	if edited == nil {
		return domain.ScheduledMatch{}, ErrMatchNotFound
	}

	message := fmt.Sprintf("Edit match %s vs %s", edited.TeamHome, edited.TeamAway)
	if err := s.store.WriteSchedule(ctx, working, message); err != nil {
		return domain.ScheduledMatch{}, err
	}
	s.schedule = working
	logging.Info(s.logger, "match edited",
		"team_home", edited.TeamHome, "team_away", edited.TeamAway, logging.FieldActor, actor)
	return *edited, nil
}

// DeleteMatch removes a schedule entry addressed by id with tuple
// fallback.
func (s *Session) DeleteMatch(ctx context.Context, id string, key domain.MatchKey, actor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	working := s.schedule.Clone()
	if !working.RemoveMatch(id, key) {
		return ErrMatchNotFound
	}

	if err := s.store.WriteSchedule(ctx, working, "Delete scheduled match"); err != nil {
		return err
	}
	s.schedule = working
	logging.Info(s.logger, "match deleted", logging.FieldActor, actor)
	return nil
}

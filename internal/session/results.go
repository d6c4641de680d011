package session

import (
	"context"
	"fmt"
	"strings"

	"league-admin-service/internal/domain"
	"league-admin-service/internal/logging"
	"league-admin-service/internal/staging"
	"league-admin-service/internal/timeutil"
)

// ResultInput is a proposed game result. When MatchID is set the teams,
// date, time and venue come from the schedule entry; otherwise they must
// be supplied explicitly.
type ResultInput struct {
	MatchID  string
	TeamA    string
	TeamB    string
	Score    string
	Date     string
	Time     string
	Venue    string
	GameType string
}

// MatchesForResult lists schedule entries whose kickoff has passed, the
// candidates a result can settle.
func (s *Session) MatchesForResult(ctx context.Context) ([]domain.ScheduledMatch, error) {
	matches, err := s.AllMatches(ctx)
	if err != nil {
		return nil, err
	}
	cutoff := s.now().Unix()
	out := make([]domain.ScheduledMatch, 0, len(matches))
	for _, m := range matches {
		if ts := m.Timestamp(); ts > 0 && ts <= cutoff {
			out = append(out, m)
		}
	}
	return out, nil
}

// EnqueueResult validates and stages a game result. The document is
// classified into a league and a game type here, so a flush only has to
// persist it.
func (s *Session) EnqueueResult(ctx context.Context, in ResultInput, actor string) (staging.PendingResult, error) {
	home, away, err := domain.ParseScore(in.Score)
	if err != nil {
		return staging.PendingResult{}, &ValidationError{Field: "score", Reason: err.Error()}
	}

	var matchKey domain.MatchKey
	if in.MatchID != "" {
		s.mu.Lock()
		if err := s.ensureLoaded(ctx); err != nil {
			s.mu.Unlock()
			return staging.PendingResult{}, err
		}
		match, ok := s.findMatch(in.MatchID, domain.MatchKey{})
		s.mu.Unlock()
		if !ok {
			return staging.PendingResult{}, fmt.Errorf("%w: %s", ErrMatchNotFound, in.MatchID)
		}
		in.TeamA = match.TeamHome
		in.TeamB = match.TeamAway
		in.Date = match.Date
		in.Time = match.Time
		in.Venue = match.Location
		matchKey = match.Key()
	} else {
		if strings.TrimSpace(in.TeamA) == "" || strings.TrimSpace(in.TeamB) == "" {
			return staging.PendingResult{}, &ValidationError{Field: "teams", Reason: "both teams are required"}
		}
		if err := validateDate(in.Date); err != nil {
			return staging.PendingResult{}, err
		}
		if played, _ := timeutil.ParseDate(in.Date); played.After(s.now()) {
			return staging.PendingResult{}, &ValidationError{Field: "date", Reason: "must not be in the future"}
		}
	}

	leagueName, err := s.resolver.Classify(ctx, in.TeamA, in.TeamB)
	if err != nil {
		return staging.PendingResult{}, err
	}

	gameType := domain.GameType(in.GameType)
	if gameType != domain.GameTypeRegular && gameType != domain.GameTypePlayoff {
		gameType = s.classifyGameType(ctx, leagueName)
	}

	doc := domain.GameDocument{
		MatchInfo: domain.MatchInfo{
			TeamA:    in.TeamA,
			TeamB:    in.TeamB,
			Score:    domain.FormatScore(home, away),
			Date:     in.Date,
			Time:     in.Time,
			Venue:    in.Venue,
			GameType: gameType,
		},
		AddedBy: actor,
	}
	if leagueName != domain.UnknownLeague {
		doc.MatchInfo.League = leagueName
	}

	return s.queue.EnqueueResult(doc, in.MatchID, matchKey, actor), nil
}

// classifyGameType decides regular versus playoff from the league's
// season progress. Failures fall back to regular; a broken roster or
// config never blocks recording a result.
func (s *Session) classifyGameType(ctx context.Context, leagueName string) domain.GameType {
	games, err := s.games.All(ctx)
	if err != nil {
		logging.Warn(s.logger, "game listing unavailable, defaulting to regular season",
			logging.FieldLeague, leagueName, "error", err)
		return domain.GameTypeRegular
	}
	docs := make([]domain.GameDocument, 0, len(games))
	for _, g := range games {
		docs = append(docs, g.Doc)
	}
	gameType, err := s.resolver.GameType(ctx, leagueName, docs)
	if err != nil {
		logging.Warn(s.logger, "game type classification failed, defaulting to regular season",
			logging.FieldLeague, leagueName, "error", err)
		return domain.GameTypeRegular
	}
	return gameType
}

var allowedImageExts = map[string]bool{"jpg": true, "jpeg": true, "png": true}

// AttachStatistics stores a statistics image for an existing game and
// patches the cached views in place.
func (s *Session) AttachStatistics(ctx context.Context, number int, ext string, payload []byte, actor string) error {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if !allowedImageExts[ext] {
		return fmt.Errorf("%w: %s", ErrUnsupportedImage, ext)
	}
	if len(payload) == 0 {
		return &ValidationError{Field: "image", Reason: "payload is empty"}
	}

	if _, err := s.games.ByNumber(ctx, number); err != nil {
		return err
	}

	message := fmt.Sprintf("Add statistics for game_%03d", number)
	if err := s.store.WriteStatisticsImage(ctx, number, ext, payload, message); err != nil {
		return err
	}
	s.games.MarkStatisticsAdded(number)
	logging.Info(s.logger, "statistics attached",
		logging.FieldGame, number, logging.FieldActor, actor)
	return nil
}

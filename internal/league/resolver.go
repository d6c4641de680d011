// Package league groups teams into leagues and decides where in the
// season a league stands.
package league

import (
	"context"
	"log/slog"

	"league-admin-service/internal/domain"
	"league-admin-service/internal/logging"
)

// Source is the slice of the record store the resolver reads from.
type Source interface {
	ReadTeams(ctx context.Context) ([]domain.Team, error)
	ReadLeaguesConfig(ctx context.Context) (map[string]domain.LeagueConfig, error)
}

// Resolver derives league membership from the team roster and season
// shape from the leagues configuration.
type Resolver struct {
	source Source
	logger *slog.Logger
}

// NewResolver constructs a resolver over source.
func NewResolver(source Source, logger *slog.Logger) *Resolver {
	return &Resolver{source: source, logger: logger}
}

// Leagues groups the roster by league, preserving the order in which
// leagues first appear in the team list.
func (r *Resolver) Leagues(ctx context.Context) ([]domain.League, error) {
	teams, err := r.source.ReadTeams(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	leagues := make([]domain.League, 0)
	for _, team := range teams {
		name := team.League
		if name == "" {
			name = domain.UnknownLeague
		}
		i, ok := index[name]
		if !ok {
			i = len(leagues)
			index[name] = i
			leagues = append(leagues, domain.League{Name: name})
		}
		leagues[i].Teams = append(leagues[i].Teams, team)
	}
	return leagues, nil
}

// Classify resolves the league of a pairing. The first league containing
// either team wins; a pairing no league claims resolves to the unknown
// league sentinel.
func (r *Resolver) Classify(ctx context.Context, teamA, teamB string) (string, error) {
	leagues, err := r.Leagues(ctx)
	if err != nil {
		return "", err
	}
	for _, l := range leagues {
		if l.HasTeam(teamA) || l.HasTeam(teamB) {
			return l.Name, nil
		}
	}
	return domain.UnknownLeague, nil
}

// rounds looks up the regular season round count for a league. Leagues
// missing from the configuration run a single round.
func (r *Resolver) rounds(cfg map[string]domain.LeagueConfig, name string) int {
	lc, ok := cfg[name]
	if !ok || lc.RegularSeasonRounds <= 0 {
		logging.Warn(r.logger, "league missing from configuration, assuming one round",
			logging.FieldLeague, name)
		return 1
	}
	return lc.RegularSeasonRounds
}

// SeasonProgress describes how far a league's regular season has come.
type SeasonProgress struct {
	League   string
	Required int
	Played   map[string]int
	Finished bool
}

// Progress computes each team's game count against the quota implied by
// league size and configured rounds. Every game of the league counts,
// whatever its recorded type. The season is finished when every team has
// met the quota.
func (r *Resolver) Progress(ctx context.Context, leagueName string, games []domain.GameDocument) (SeasonProgress, error) {
	leagues, err := r.Leagues(ctx)
	if err != nil {
		return SeasonProgress{}, err
	}
	cfg, err := r.source.ReadLeaguesConfig(ctx)
	if err != nil {
		return SeasonProgress{}, err
	}

	var members []string
	for _, l := range leagues {
		if l.Name == leagueName {
			members = l.TeamNames()
			break
		}
	}

	progress := SeasonProgress{
		League:   leagueName,
		Required: (len(members) - 1) * r.rounds(cfg, leagueName),
		Played:   make(map[string]int, len(members)),
	}
	for _, name := range members {
		progress.Played[name] = 0
	}
	if len(members) == 0 {
		return progress, nil
	}

	for _, game := range games {
		if game.LeagueName() != leagueName {
			continue
		}
		home, away := game.Teams()
		if _, ok := progress.Played[home]; ok {
			progress.Played[home]++
		}
		if _, ok := progress.Played[away]; ok {
			progress.Played[away]++
		}
	}

	progress.Finished = true
	for _, count := range progress.Played {
		if count < progress.Required {
			progress.Finished = false
			break
		}
	}
	return progress, nil
}

// GameType decides whether the next game in a league is regular season
// or playoff. Errors resolve to regular so a broken configuration never
// blocks recording a result.
func (r *Resolver) GameType(ctx context.Context, leagueName string, games []domain.GameDocument) (domain.GameType, error) {
	if leagueName == "" || leagueName == domain.UnknownLeague {
		return domain.GameTypeRegular, nil
	}
	progress, err := r.Progress(ctx, leagueName, games)
	if err != nil {
		return domain.GameTypeRegular, err
	}
	if progress.Finished && progress.Required > 0 {
		return domain.GameTypePlayoff, nil
	}
	return domain.GameTypeRegular, nil
}

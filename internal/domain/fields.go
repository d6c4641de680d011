package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Game documents have accumulated several shapes over time. Each logical
// attribute is resolved through a fixed fallback order, documented on the
// accessor that owns it; "?" placeholders stand in for missing values so a
// half-broken record still renders.

// LeagueName resolves the league label of a game document.
// Order: match_info.league, match_info.competition, top-level league,
// then the UnknownLeague sentinel.
func (g GameDocument) LeagueName() string {
	if g.MatchInfo.League != "" {
		return g.MatchInfo.League
	}
	if g.MatchInfo.Competition != "" {
		return g.MatchInfo.Competition
	}
	if g.League != "" {
		return g.League
	}
	return UnknownLeague
}

// Teams resolves the home and away team names.
// Order: match_info.team_a/team_b, top-level teamHome/teamAway, "?".
func (g GameDocument) Teams() (home, away string) {
	home, away = g.MatchInfo.TeamA, g.MatchInfo.TeamB
	if home == "" {
		home = g.TeamHome
	}
	if away == "" {
		away = g.TeamAway
	}
	if home == "" {
		home = "?"
	}
	if away == "" {
		away = "?"
	}
	return home, away
}

// Score returns the recorded score, or the "?:?" placeholder.
func (g GameDocument) Score() string {
	if g.MatchInfo.Score == "" {
		return "?:?"
	}
	return g.MatchInfo.Score
}

// Summary renders a one-line description for listings.
func (g GameDocument) Summary() string {
	home, away := g.Teams()
	date := g.MatchInfo.Date
	if date == "" {
		date = "?"
	}
	return fmt.Sprintf("%s vs %s (%s) - %s", home, away, g.Score(), date)
}

// ParseScore splits an "H:A" score string into its integer parts.
func ParseScore(s string) (home, away int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("score must be in H:A form, got %q", s)
	}
	home, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("home score is not a number: %q", parts[0])
	}
	away, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("away score is not a number: %q", parts[1])
	}
	if home < 0 || away < 0 {
		return 0, 0, fmt.Errorf("scores must be non-negative, got %d:%d", home, away)
	}
	return home, away, nil
}

// FormatScore renders an "H:A" score string.
func FormatScore(home, away int) string {
	return strconv.Itoa(home) + ":" + strconv.Itoa(away)
}

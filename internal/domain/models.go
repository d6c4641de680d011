package domain

import (
	"league-admin-service/internal/timeutil"
)

// UnknownLeague is the sentinel league label used when neither team of a
// match can be found in any roster.
const UnknownLeague = "Unknown league"

// StageRegularSeason is the schedule stage new matches are appended to.
const StageRegularSeason = "Regular Season"

// GameType classifies a match within the season.
type GameType string

const (
	GameTypeRegular GameType = "regular"
	GameTypePlayoff GameType = "playoff"
)

// Team is one roster entry from the teams document.
type Team struct {
	Name   string `json:"name"`
	City   string `json:"city,omitempty"`
	League string `json:"league"`
}

// League groups the teams sharing a league label, in roster load order.
type League struct {
	Name  string
	Teams []Team
}

// HasTeam reports whether the roster contains the exact team name.
func (l League) HasTeam(name string) bool {
	for _, t := range l.Teams {
		if t.Name == name {
			return true
		}
	}
	return false
}

// TeamNames returns the roster names in load order.
func (l League) TeamNames() []string {
	names := make([]string, 0, len(l.Teams))
	for _, t := range l.Teams {
		names = append(names, t.Name)
	}
	return names
}

// LeagueConfig is the per-league section of the leagues config document.
type LeagueConfig struct {
	RegularSeasonRounds int `json:"regularSeasonRounds"`
}

// MatchKey identifies a scheduled match by its legacy tuple. Records written
// before surrogate ids existed can only be matched this way; two matches with
// identical teams, date and time are indistinguishable under it.
type MatchKey struct {
	TeamHome string
	TeamAway string
	Date     string
	Time     string
}

// ScheduledMatch is one entry inside a schedule stage.
type ScheduledMatch struct {
	ID       string `json:"id,omitempty"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	TeamHome string `json:"teamHome"`
	TeamAway string `json:"teamAway"`
	Location string `json:"location"`
	League   string `json:"league,omitempty"`
}

// Key returns the legacy identity tuple of the match.
func (m ScheduledMatch) Key() MatchKey {
	return MatchKey{
		TeamHome: m.TeamHome,
		TeamAway: m.TeamAway,
		Date:     m.Date,
		Time:     m.Time,
	}
}

// Timestamp derives epoch seconds from the match date and time.
func (m ScheduledMatch) Timestamp() int64 {
	return timeutil.Timestamp(m.Date, m.Time)
}

// Matches reports whether the entry is identified by the given id or,
// when no id is available on either side, by the legacy tuple.
func (m ScheduledMatch) Matches(id string, key MatchKey) bool {
	if id != "" && m.ID != "" {
		return m.ID == id
	}
	return m.Key() == key
}

// Stage is a named phase of the season grouping scheduled matches.
type Stage struct {
	Name  string           `json:"name"`
	Games []ScheduledMatch `json:"games"`
}

// Schedule is the persisted schedule document.
type Schedule struct {
	Season string  `json:"season"`
	Stages []Stage `json:"stages"`
}

// Stage returns a pointer to the named stage, or nil.
func (s *Schedule) Stage(name string) *Stage {
	for i := range s.Stages {
		if s.Stages[i].Name == name {
			return &s.Stages[i]
		}
	}
	return nil
}

// EnsureStage returns the named stage, creating it when absent.
func (s *Schedule) EnsureStage(name string) *Stage {
	if st := s.Stage(name); st != nil {
		return st
	}
	s.Stages = append(s.Stages, Stage{Name: name, Games: []ScheduledMatch{}})
	return &s.Stages[len(s.Stages)-1]
}

// RemoveMatch deletes every entry identified by id (tuple fallback) across
// all stages and reports whether anything was removed.
func (s *Schedule) RemoveMatch(id string, key MatchKey) bool {
	removed := false
	for i := range s.Stages {
		games := s.Stages[i].Games[:0]
		for _, g := range s.Stages[i].Games {
			if g.Matches(id, key) {
				removed = true
				continue
			}
			games = append(games, g)
		}
		s.Stages[i].Games = games
	}
	return removed
}

// Clone returns a deep copy of the schedule.
func (s Schedule) Clone() Schedule {
	out := Schedule{Season: s.Season, Stages: make([]Stage, len(s.Stages))}
	for i, st := range s.Stages {
		games := make([]ScheduledMatch, len(st.Games))
		copy(games, st.Games)
		out.Stages[i] = Stage{Name: st.Name, Games: games}
	}
	return out
}

// MatchInfo is the nested result block of a game document.
type MatchInfo struct {
	TeamA       string   `json:"team_a"`
	TeamB       string   `json:"team_b"`
	Score       string   `json:"score"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Venue       string   `json:"venue"`
	League      string   `json:"league,omitempty"`
	Competition string   `json:"competition,omitempty"`
	GameType    GameType `json:"gameType,omitempty"`
}

// GameDocument is a played game persisted as its own record. Older records
// sometimes carry schedule-style fields at the top level instead of a
// match_info block; the accessors in fields.go normalize both shapes.
type GameDocument struct {
	MatchInfo MatchInfo `json:"match_info"`
	AddedBy   string    `json:"added_by,omitempty"`

	TeamHome string `json:"teamHome,omitempty"`
	TeamAway string `json:"teamAway,omitempty"`
	League   string `json:"league,omitempty"`
}

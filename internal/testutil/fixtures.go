package testutil

import "league-admin-service/internal/domain"

// SampleTeams returns a two-league roster fixture.
func SampleTeams() []domain.Team {
	return []domain.Team{
		{Name: "Hawks", City: "Riverside", League: "North"},
		{Name: "Wolves", City: "Hillcrest", League: "North"},
		{Name: "Bears", City: "Lakeview", League: "North"},
		{Name: "Comets", City: "Easton", League: "South"},
		{Name: "Pirates", City: "Weston", League: "South"},
	}
}

// SampleMatch returns a schedule entry fixture.
func SampleMatch(id, date, timeOfDay, home, away string) domain.ScheduledMatch {
	return domain.ScheduledMatch{
		ID:       id,
		Date:     date,
		Time:     timeOfDay,
		TeamHome: home,
		TeamAway: away,
		Location: "Main Court",
		League:   "North",
	}
}

// SampleGameDoc returns a played game fixture in the current shape.
func SampleGameDoc(teamA, teamB, score, date string) domain.GameDocument {
	return domain.GameDocument{
		MatchInfo: domain.MatchInfo{
			TeamA:    teamA,
			TeamB:    teamB,
			Score:    score,
			Date:     date,
			Time:     "19:00",
			Venue:    "Main Court",
			League:   "North",
			GameType: domain.GameTypeRegular,
		},
	}
}

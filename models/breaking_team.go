package models

// BreakingTeam is a team's membership in an elimination bracket.
// EffectiveSeed starts equal to Seed and carries forward as the team
// advances through bracket rounds.
type BreakingTeam struct {
	TeamID        int      `json:"team_id"`
	Seed          int      `json:"seed"`
	EffectiveSeed int      `json:"effective_seed"`
	Division      Division `json:"type_of_team"`
}

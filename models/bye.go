package models

// Bye records a round in which a team had no opponent and takes a win.
type Bye struct {
	TeamID      int `json:"team_id"`
	RoundNumber int `json:"round_number"`
}

// NoShow records a forfeit for a team that was not checked in when the
// round was paired. LenientLate softens the penalty: the team is scored as
// if it had performed at its running average instead of at zero.
type NoShow struct {
	TeamID      int  `json:"team_id"`
	RoundNumber int  `json:"round_number"`
	LenientLate bool `json:"lenient_late"`
}

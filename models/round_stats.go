package models

// DebaterRole is the speaking position a debater held in a round.
type DebaterRole int

const (
	RolePM DebaterRole = iota
	RoleMG
	RoleLO
	RoleMO
)

func (r DebaterRole) String() string {
	switch r {
	case RolePM:
		return "pm"
	case RoleMG:
		return "mg"
	case RoleLO:
		return "lo"
	case RoleMO:
		return "mo"
	}
	return "unknown"
}

// RoundStats is one debater's score for one round. An iron-man debater
// (covering both of a team's speaking positions) has two rows for the round.
type RoundStats struct {
	ID        int         `json:"id"`
	DebaterID int         `json:"debater_id"`
	RoundID   int         `json:"round_id"`
	Speaks    float64     `json:"speaks"`
	Ranks     float64     `json:"ranks"`
	Role      DebaterRole `json:"debater_role"`
}

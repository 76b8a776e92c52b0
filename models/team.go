package models

// Seed is the pre-tournament seeding category used for round one pairing.
type Seed int

const (
	Unseeded Seed = iota
	FreeSeed
	HalfSeed
	FullSeed
)

func (s Seed) String() string {
	switch s {
	case FreeSeed:
		return "free_seed"
	case HalfSeed:
		return "half_seed"
	case FullSeed:
		return "full_seed"
	default:
		return "unseeded"
	}
}

type Team struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	SchoolID       int    `json:"school_id"`
	HybridSchoolID *int   `json:"hybrid_school_id,omitempty"`
	Seed           Seed   `json:"seed"`
	CheckedIn      bool   `json:"checked_in"`
	DebaterIDs     []int  `json:"debater_ids"`
}

// SchoolIDs returns the team's school plus its hybrid school, if any.
func (t *Team) SchoolIDs() []int {
	ids := []int{t.SchoolID}
	if t.HybridSchoolID != nil {
		ids = append(ids, *t.HybridSchoolID)
	}
	return ids
}

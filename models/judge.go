package models

type Judge struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Rank       float64 `json:"rank"`
	SchoolIDs  []int   `json:"school_ids"`
	WingOnly   bool    `json:"wing_only"`
	BallotCode string  `json:"ballot_code"`
}

// AffiliatedWith reports whether the judge is affiliated with any of the
// given schools.
func (j *Judge) AffiliatedWith(schoolIDs ...int) bool {
	for _, own := range j.SchoolIDs {
		for _, id := range schoolIDs {
			if own == id {
				return true
			}
		}
	}
	return false
}

// CheckIn records that a judge is available for a given in-round number.
// Round number zero is used for outround availability.
type CheckIn struct {
	JudgeID     int `json:"judge_id"`
	RoundNumber int `json:"round_number"`
}

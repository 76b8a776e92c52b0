package models

// NoviceStatus marks whether a debater competes in the varsity or novice
// division.
type NoviceStatus int

const (
	Varsity NoviceStatus = iota
	Novice
)

func (n NoviceStatus) String() string {
	if n == Novice {
		return "novice"
	}
	return "varsity"
}

type Debater struct {
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	NoviceStatus NoviceStatus `json:"novice_status"`
}

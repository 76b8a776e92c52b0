package models

// Pairing is the common view of an in-round Round and an elimination
// Outround: two sides, a judge panel with a single chair, and a room.
// The assignment engines are written once against this interface.
type Pairing interface {
	Gov() int
	Opp() int
	Chair() *int
	Judges() []int
	Room() *int

	SetChair(judgeID int)
	AddJudge(judgeID int)
	SetRoom(roomID int)
	ClearJudges()

	Involves(teamID int) bool
}

var (
	_ Pairing = (*Round)(nil)
	_ Pairing = (*Outround)(nil)
)

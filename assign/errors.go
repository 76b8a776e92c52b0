package assign

import "fmt"

// JudgeAssignmentError reports that a judge matching could not cover every
// pairing. Reason tells tab staff which of the failure modes they hit:
// too few judges overall, no chair-eligible judges, or one pairing that
// conflicts with every remaining judge.
type JudgeAssignmentError struct {
	Reason string
}

func (e JudgeAssignmentError) Error() string {
	return "judge assignment failed: " + e.Reason
}

// RoomAssignmentError reports a pairing that could not be given a room.
type RoomAssignmentError struct {
	GovTeamID int
	OppTeamID int
}

func (e RoomAssignmentError) Error() string {
	return fmt.Sprintf("room assignment failed: no room available for %d vs %d",
		e.GovTeamID, e.OppTeamID)
}

package brackets

import "fmt"

// The pairing engines raise typed errors so the command layer can show tab
// staff what exactly blocked the round. None of these are transient:
// retrying without fixing the underlying data reproduces the same error.

type NotEnoughJudgesError struct {
	Have, Need int
}

func (e NotEnoughJudgesError) Error() string {
	return fmt.Sprintf("not enough checked-in judges: have %d, need %d", e.Have, e.Need)
}

type NotEnoughRoomsError struct {
	Have, Need int
}

func (e NotEnoughRoomsError) Error() string {
	return fmt.Sprintf("not enough ranked rooms: have %d, need %d", e.Have, e.Need)
}

type NotEnoughTeamsError struct {
	Have int
}

func (e NotEnoughTeamsError) Error() string {
	return fmt.Sprintf("not enough teams to pair: have %d", e.Have)
}

type PrevRoundNotEnteredError struct {
	RoundNumber int
}

func (e PrevRoundNotEnteredError) Error() string {
	return fmt.Sprintf("round %d has results that are not entered yet", e.RoundNumber)
}

// ByeAssignmentError reports a team that both had a bye and debated in the
// same round.
type ByeAssignmentError struct {
	TeamID      int
	RoundNumber int
}

func (e ByeAssignmentError) Error() string {
	return fmt.Sprintf("team %d both had a bye and debated in round %d", e.TeamID, e.RoundNumber)
}

// NoShowAssignmentError reports a team that both forfeited and debated in
// the same round.
type NoShowAssignmentError struct {
	TeamID      int
	RoundNumber int
}

func (e NoShowAssignmentError) Error() string {
	return fmt.Sprintf("team %d both debated and had a no-show in round %d", e.TeamID, e.RoundNumber)
}

// BadBreakError reports an inconsistent outround seeding or break
// configuration.
type BadBreakError struct {
	Reason string
}

func (e BadBreakError) Error() string {
	return "bad break: " + e.Reason
}

package models

// Victor is the recorded result of a round.
type Victor int

const (
	VictorNone Victor = iota
	VictorGov
	VictorOpp
	VictorGovViaForfeit
	VictorOppViaForfeit
	VictorAllDrop
	VictorAllWin
)

// PullUp marks which side of a round, if either, was pulled up from the
// bracket below when the pairing was generated.
type PullUp int

const (
	PullUpNone PullUp = iota
	PullUpGov
	PullUpOpp
)

// Round is a single in-round debate between two teams.
type Round struct {
	ID          int    `json:"id"`
	RoundNumber int    `json:"round_number"`
	GovTeamID   int    `json:"gov_team_id"`
	OppTeamID   int    `json:"opp_team_id"`
	ChairID     *int   `json:"chair_id,omitempty"`
	JudgeIDs    []int  `json:"judge_ids"`
	RoomID      *int   `json:"room_id,omitempty"`
	Victor      Victor `json:"victor"`
	PullUp      PullUp `json:"pullup"`
}

func (r *Round) Gov() int  { return r.GovTeamID }
func (r *Round) Opp() int  { return r.OppTeamID }
func (r *Round) Chair() *int { return r.ChairID }
func (r *Round) Judges() []int { return r.JudgeIDs }
func (r *Round) Room() *int { return r.RoomID }

func (r *Round) SetChair(judgeID int)  { r.ChairID = &judgeID }
func (r *Round) AddJudge(judgeID int)  { r.JudgeIDs = append(r.JudgeIDs, judgeID) }
func (r *Round) SetRoom(roomID int)    { r.RoomID = &roomID }
func (r *Round) ClearJudges() {
	r.ChairID = nil
	r.JudgeIDs = nil
}

// Involves reports whether the team debated in this round.
func (r *Round) Involves(teamID int) bool {
	return r.GovTeamID == teamID || r.OppTeamID == teamID
}

// WonByForfeit reports whether the team won this round without debating it.
func (r *Round) WonByForfeit(teamID int) bool {
	if !r.Involves(teamID) {
		return false
	}
	switch r.Victor {
	case VictorAllWin:
		return true
	case VictorGovViaForfeit:
		return r.GovTeamID == teamID
	case VictorOppViaForfeit:
		return r.OppTeamID == teamID
	}
	return false
}

// Forfeited reports whether the team lost this round by forfeit.
func (r *Round) Forfeited(teamID int) bool {
	if !r.Involves(teamID) {
		return false
	}
	switch r.Victor {
	case VictorGovViaForfeit:
		return r.OppTeamID == teamID
	case VictorOppViaForfeit:
		return r.GovTeamID == teamID
	}
	return false
}

// WinnerID returns the id of the winning team, or false when the round has
// no single winner (unentered, all-drop, all-win).
func (r *Round) WinnerID() (int, bool) {
	switch r.Victor {
	case VictorGov, VictorGovViaForfeit:
		return r.GovTeamID, true
	case VictorOpp, VictorOppViaForfeit:
		return r.OppTeamID, true
	}
	return 0, false
}

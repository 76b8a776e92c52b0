package models

// Division separates the varsity and novice elimination brackets.
type Division int

const (
	DivisionVarsity Division = iota
	DivisionNovice
)

func (d Division) String() string {
	if d == DivisionNovice {
		return "novice"
	}
	return "varsity"
}

// Outround is one elimination-bracket debate. NumTeams is the bracket size
// the debate belongs to (8 for quarters of an 8-team break, and so on).
type Outround struct {
	ID        int      `json:"id"`
	NumTeams  int      `json:"num_teams"`
	Division  Division `json:"type_of_round"`
	GovTeamID int      `json:"gov_team_id"`
	OppTeamID int      `json:"opp_team_id"`
	ChairID   *int     `json:"chair_id,omitempty"`
	JudgeIDs  []int    `json:"judge_ids"`
	RoomID    *int     `json:"room_id,omitempty"`
	Victor    Victor   `json:"victor"`
}

func (o *Outround) Gov() int       { return o.GovTeamID }
func (o *Outround) Opp() int       { return o.OppTeamID }
func (o *Outround) Chair() *int    { return o.ChairID }
func (o *Outround) Judges() []int  { return o.JudgeIDs }
func (o *Outround) Room() *int     { return o.RoomID }

func (o *Outround) SetChair(judgeID int) { o.ChairID = &judgeID }
func (o *Outround) AddJudge(judgeID int) { o.JudgeIDs = append(o.JudgeIDs, judgeID) }
func (o *Outround) SetRoom(roomID int)   { o.RoomID = &roomID }
func (o *Outround) ClearJudges() {
	o.ChairID = nil
	o.JudgeIDs = nil
}

func (o *Outround) Involves(teamID int) bool {
	return o.GovTeamID == teamID || o.OppTeamID == teamID
}

// WinnerID returns the advancing team, or false when the result is not in.
func (o *Outround) WinnerID() (int, bool) {
	switch o.Victor {
	case VictorGov, VictorGovViaForfeit:
		return o.GovTeamID, true
	case VictorOpp, VictorOppViaForfeit:
		return o.OppTeamID, true
	}
	return 0, false
}

// LoserID returns the eliminated team, or false when the result is not in.
func (o *Outround) LoserID() (int, bool) {
	switch o.Victor {
	case VictorGov, VictorGovViaForfeit:
		return o.OppTeamID, true
	case VictorOpp, VictorOppViaForfeit:
		return o.GovTeamID, true
	}
	return 0, false
}

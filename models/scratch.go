package models

// ScratchType distinguishes who imposed a scratch.
type ScratchType int

const (
	TeamScratch ScratchType = iota
	TabScratch
)

// Scratch is a hard conflict: the judge may never judge the team.
type Scratch struct {
	JudgeID int         `json:"judge_id"`
	TeamID  int         `json:"team_id"`
	Type    ScratchType `json:"scratch_type"`
}

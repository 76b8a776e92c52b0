package rankings

import (
	"log/slog"
	"sort"

	"github.com/apdatab/tabcore/models"
)

// TeamScore is a team's full scoring record. Teams compare by Key: smaller
// sorts first, so wins dominate, then speaks, and so on down to opponent
// strength.
type TeamScore struct {
	TeamID          int
	Wins            int
	Speaks          float64
	Ranks           float64
	SingleAdjSpeaks float64
	SingleAdjRanks  float64
	DoubleAdjSpeaks float64
	DoubleAdjRanks  float64
	OppStrength     float64
}

// Key is the ascending sort key: negated where larger is better.
func (t TeamScore) Key() [8]float64 {
	return [8]float64{
		-float64(t.Wins),
		-t.Speaks,
		t.Ranks,
		-t.SingleAdjSpeaks,
		t.SingleAdjRanks,
		-t.DoubleAdjSpeaks,
		t.DoubleAdjRanks,
		-t.OppStrength,
	}
}

// DebaterScore is a speaker's scoring record, compared the same way minus
// wins and opponent strength.
type DebaterScore struct {
	DebaterID       int
	Speaks          float64
	Ranks           float64
	SingleAdjSpeaks float64
	SingleAdjRanks  float64
	DoubleAdjSpeaks float64
	DoubleAdjRanks  float64
}

func (d DebaterScore) Key() [6]float64 {
	return [6]float64{
		-d.Speaks,
		d.Ranks,
		-d.SingleAdjSpeaks,
		d.SingleAdjRanks,
		-d.DoubleAdjSpeaks,
		d.DoubleAdjRanks,
	}
}

// TeamScoreFor computes one team's score. Malformed history for a single
// team degrades that team to a neutral score instead of failing the whole
// ranking pass.
func (s *Stats) TeamScoreFor(teamID int, logger *slog.Logger) (score TeamScore) {
	score = TeamScore{TeamID: teamID}
	defer func() {
		if r := recover(); r != nil {
			if logger != nil {
				logger.Error("failed to score team, using neutral score",
					slog.Int("team_id", teamID), slog.Any("panic", r))
			}
			score = TeamScore{TeamID: teamID}
		}
	}()
	score.Wins = s.TotWins(teamID)
	score.Speaks = s.TotSpeaks(teamID)
	score.Ranks = s.TotRanks(teamID)
	score.SingleAdjSpeaks = s.SingleAdjustedSpeaks(teamID)
	score.SingleAdjRanks = s.SingleAdjustedRanks(teamID)
	score.DoubleAdjSpeaks = s.DoubleAdjustedSpeaks(teamID)
	score.DoubleAdjRanks = s.DoubleAdjustedRanks(teamID)
	score.OppStrength = s.OppStrength(teamID)
	return score
}

// DebaterScoreFor computes one speaker's score with the same per-entity
// degradation as TeamScoreFor.
func (s *Stats) DebaterScoreFor(debaterID int, logger *slog.Logger) (score DebaterScore) {
	score = DebaterScore{DebaterID: debaterID}
	defer func() {
		if r := recover(); r != nil {
			if logger != nil {
				logger.Error("failed to score debater, using neutral score",
					slog.Int("debater_id", debaterID), slog.Any("panic", r))
			}
			score = DebaterScore{DebaterID: debaterID}
		}
	}()
	speaks := s.SpeaksForDebater(debaterID)
	ranks := s.RanksForDebater(debaterID)
	sortedSpeaks := append([]float64(nil), speaks...)
	sortedRanks := append([]float64(nil), ranks...)
	sort.Float64s(sortedSpeaks)
	sort.Float64s(sortedRanks)
	score.Speaks = sum(speaks)
	score.Ranks = sum(ranks)
	score.SingleAdjSpeaks = sum(drop(sortedSpeaks, 1))
	score.SingleAdjRanks = sum(drop(sortedRanks, 1))
	score.DoubleAdjSpeaks = sum(drop(sortedSpeaks, 2))
	score.DoubleAdjRanks = sum(drop(sortedRanks, 2))
	return score
}

// RankTeams orders all teams best first. The sort is stable, so true ties
// keep input order.
func (s *Stats) RankTeams(logger *slog.Logger) []TeamScore {
	ids := make([]int, 0, len(s.teams))
	for id := range s.teams {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	scores := make([]TeamScore, 0, len(ids))
	for _, id := range ids {
		scores = append(scores, s.TeamScoreFor(id, logger))
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return less8(scores[i].Key(), scores[j].Key())
	})
	return scores
}

// RankNoviceTeams ranks only teams whose debaters are all novices.
func (s *Stats) RankNoviceTeams(logger *slog.Logger) []TeamScore {
	all := s.RankTeams(logger)
	out := all[:0:0]
	for _, score := range all {
		if s.isNoviceTeam(score.TeamID) {
			out = append(out, score)
		}
	}
	return out
}

func (s *Stats) isNoviceTeam(teamID int) bool {
	team := s.teams[teamID]
	if team == nil || len(team.DebaterIDs) == 0 {
		return false
	}
	for _, d := range team.DebaterIDs {
		deb := s.debaters[d]
		if deb == nil || deb.NoviceStatus != models.Novice {
			return false
		}
	}
	return true
}

// RankSpeakers orders all debaters best first.
func (s *Stats) RankSpeakers(logger *slog.Logger) []DebaterScore {
	ids := make([]int, 0, len(s.debaters))
	for id := range s.debaters {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	scores := make([]DebaterScore, 0, len(ids))
	for _, id := range ids {
		scores = append(scores, s.DebaterScoreFor(id, logger))
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return less6(scores[i].Key(), scores[j].Key())
	})
	return scores
}

// RankNoviceSpeakers ranks only novice debaters.
func (s *Stats) RankNoviceSpeakers(logger *slog.Logger) []DebaterScore {
	all := s.RankSpeakers(logger)
	out := all[:0:0]
	for _, score := range all {
		deb := s.debaters[score.DebaterID]
		if deb != nil && deb.NoviceStatus == models.Novice {
			out = append(out, score)
		}
	}
	return out
}

// RankTeamsExceptRecord orders the given teams ignoring wins, the ordering
// used inside a win bracket where every team has the same record.
func (s *Stats) RankTeamsExceptRecord(teamIDs []int) []int {
	type scored struct {
		id  int
		key [8]float64
	}
	rows := make([]scored, 0, len(teamIDs))
	for _, id := range teamIDs {
		score := s.TeamScoreFor(id, nil)
		score.Wins = 0
		rows = append(rows, scored{id: id, key: score.Key()})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return less8(rows[i].key, rows[j].key)
	})
	out := make([]int, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.id)
	}
	return out
}

func less8(a, b [8]float64) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func less6(a, b [6]float64) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

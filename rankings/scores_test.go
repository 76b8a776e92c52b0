package rankings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apdatab/tabcore/models"
)

func TestRankTeamsWinsDominateSpeaks(t *testing.T) {
	in := twoTeamInput(2)
	in.Rounds = []*models.Round{decidedRound(1, 1, 1, 2, models.VictorOpp)}
	in.RoundStats = []*models.RoundStats{
		// The losing team out-speaks the winner; wins still decide.
		{ID: 1, DebaterID: 1, RoundID: 1, Speaks: 27, Ranks: 1},
		{ID: 2, DebaterID: 2, RoundID: 1, Speaks: 27, Ranks: 2},
		{ID: 3, DebaterID: 3, RoundID: 1, Speaks: 24, Ranks: 3},
		{ID: 4, DebaterID: 4, RoundID: 1, Speaks: 23, Ranks: 4},
	}
	stats := NewStats(in)

	ranked := stats.RankTeams(nil)
	require.Len(t, ranked, 2)
	assert.Equal(t, 2, ranked[0].TeamID)
	assert.Equal(t, 1, ranked[1].TeamID)
}

func TestRankTeamsSpeaksBreakWinTies(t *testing.T) {
	in := twoTeamInput(3)
	in.Rounds = []*models.Round{
		decidedRound(1, 1, 1, 2, models.VictorGov),
		decidedRound(2, 2, 2, 1, models.VictorGov),
	}
	in.RoundStats = []*models.RoundStats{
		{ID: 1, DebaterID: 1, RoundID: 1, Speaks: 26, Ranks: 1},
		{ID: 2, DebaterID: 2, RoundID: 1, Speaks: 25, Ranks: 2},
		{ID: 3, DebaterID: 3, RoundID: 1, Speaks: 24, Ranks: 3},
		{ID: 4, DebaterID: 4, RoundID: 1, Speaks: 23, Ranks: 4},
		{ID: 5, DebaterID: 1, RoundID: 2, Speaks: 26, Ranks: 1},
		{ID: 6, DebaterID: 2, RoundID: 2, Speaks: 25, Ranks: 2},
		{ID: 7, DebaterID: 3, RoundID: 2, Speaks: 24, Ranks: 3},
		{ID: 8, DebaterID: 4, RoundID: 2, Speaks: 23, Ranks: 4},
	}
	stats := NewStats(in)

	ranked := stats.RankTeams(nil)
	require.Len(t, ranked, 2)
	assert.Equal(t, 1, ranked[0].TeamID)
	assert.Equal(t, ranked[0].Wins, ranked[1].Wins, "tie on wins broken by speaks")
}

func TestRankNoviceTeamsRequiresAllNovices(t *testing.T) {
	in := twoTeamInput(2)
	in.Debaters = []*models.Debater{
		{ID: 1, NoviceStatus: models.Novice}, {ID: 2, NoviceStatus: models.Varsity},
		{ID: 3, NoviceStatus: models.Novice}, {ID: 4, NoviceStatus: models.Novice},
	}
	stats := NewStats(in)

	novice := stats.RankNoviceTeams(nil)
	require.Len(t, novice, 1)
	assert.Equal(t, 2, novice[0].TeamID)
}

func TestRankNoviceSpeakersFilters(t *testing.T) {
	in := twoTeamInput(2)
	in.Debaters = []*models.Debater{
		{ID: 1, NoviceStatus: models.Varsity}, {ID: 2, NoviceStatus: models.Novice},
		{ID: 3, NoviceStatus: models.Varsity}, {ID: 4, NoviceStatus: models.Novice},
	}
	stats := NewStats(in)

	novice := stats.RankNoviceSpeakers(nil)
	require.Len(t, novice, 2)
	for _, score := range novice {
		assert.Contains(t, []int{2, 4}, score.DebaterID)
	}
}

func TestRankTeamsExceptRecordIgnoresWins(t *testing.T) {
	in := twoTeamInput(3)
	in.Rounds = []*models.Round{
		decidedRound(1, 1, 1, 2, models.VictorGov),
		decidedRound(2, 2, 1, 2, models.VictorGov),
	}
	in.RoundStats = []*models.RoundStats{
		// Team 2 loses twice but has the better speaks.
		{ID: 1, DebaterID: 1, RoundID: 1, Speaks: 22, Ranks: 3},
		{ID: 2, DebaterID: 2, RoundID: 1, Speaks: 22, Ranks: 4},
		{ID: 3, DebaterID: 3, RoundID: 1, Speaks: 26, Ranks: 1},
		{ID: 4, DebaterID: 4, RoundID: 1, Speaks: 26, Ranks: 2},
		{ID: 5, DebaterID: 1, RoundID: 2, Speaks: 22, Ranks: 3},
		{ID: 6, DebaterID: 2, RoundID: 2, Speaks: 22, Ranks: 4},
		{ID: 7, DebaterID: 3, RoundID: 2, Speaks: 26, Ranks: 1},
		{ID: 8, DebaterID: 4, RoundID: 2, Speaks: 26, Ranks: 2},
	}
	stats := NewStats(in)

	assert.Equal(t, 1, stats.RankTeams(nil)[0].TeamID)
	assert.Equal(t, []int{2, 1}, stats.RankTeamsExceptRecord([]int{1, 2}))
}

func TestScoringSurvivesUnknownTeam(t *testing.T) {
	stats := NewStats(twoTeamInput(2))
	score := stats.TeamScoreFor(99, nil)
	assert.Equal(t, 99, score.TeamID)
	assert.Zero(t, score.Wins)
}

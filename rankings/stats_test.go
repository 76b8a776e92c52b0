package rankings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apdatab/tabcore/models"
)

func twoTeamInput(currentRound int) Input {
	return Input{
		CurrentRound: currentRound,
		Teams: []*models.Team{
			{ID: 1, Name: "MIT A", SchoolID: 1, DebaterIDs: []int{1, 2}},
			{ID: 2, Name: "Harvard A", SchoolID: 2, DebaterIDs: []int{3, 4}},
		},
		Debaters: []*models.Debater{
			{ID: 1, Name: "Ada"}, {ID: 2, Name: "Ben"},
			{ID: 3, Name: "Cal"}, {ID: 4, Name: "Dee"},
		},
	}
}

func decidedRound(id, number, gov, opp int, victor models.Victor) *models.Round {
	return &models.Round{ID: id, RoundNumber: number, GovTeamID: gov, OppTeamID: opp, Victor: victor}
}

func TestTotWinsCountsDecisionsForfeitsAndByes(t *testing.T) {
	in := twoTeamInput(4)
	in.Rounds = []*models.Round{
		decidedRound(1, 1, 1, 2, models.VictorGov),
		decidedRound(2, 2, 2, 1, models.VictorOppViaForfeit),
	}
	in.Byes = []models.Bye{{TeamID: 1, RoundNumber: 3}}
	stats := NewStats(in)

	assert.Equal(t, 3, stats.TotWins(1), "decision + forfeit win + bye")
	assert.Equal(t, 0, stats.TotWins(2))
	assert.Equal(t, 1, stats.NumForfeitWins(1))
	assert.Equal(t, 1, stats.NumByes(1))
}

func TestOppStrengthAveragesOpponentWins(t *testing.T) {
	in := twoTeamInput(2)
	in.Rounds = []*models.Round{decidedRound(1, 1, 1, 2, models.VictorGov)}
	stats := NewStats(in)

	assert.InDelta(t, 0.0, stats.OppStrength(1), 1e-9)
	assert.InDelta(t, 1.0, stats.OppStrength(2), 1e-9)
}

func TestPriorMeetingFindsEarliestRound(t *testing.T) {
	in := twoTeamInput(4)
	in.Rounds = []*models.Round{
		decidedRound(1, 3, 1, 2, models.VictorGov),
		decidedRound(2, 1, 2, 1, models.VictorOpp),
	}
	stats := NewStats(in)

	prior, ok := stats.PriorMeeting(1, 2)
	require.True(t, ok)
	assert.Equal(t, 1, prior.RoundNumber)
	assert.True(t, stats.HitBefore(2, 1))
}

func TestByeSubstitutesRunningAverage(t *testing.T) {
	in := twoTeamInput(3)
	in.Rounds = []*models.Round{decidedRound(1, 1, 1, 2, models.VictorGov)}
	in.Byes = []models.Bye{{TeamID: 1, RoundNumber: 2}}
	in.RoundStats = []*models.RoundStats{
		{ID: 1, DebaterID: 1, RoundID: 1, Speaks: 26, Ranks: 1, Role: models.RolePM},
	}
	stats := NewStats(in)

	assert.Equal(t, []float64{26, 26}, stats.SpeaksForDebater(1))
	assert.Equal(t, []float64{1, 1}, stats.RanksForDebater(1))
}

func TestStrictForfeitSubstitutesFloorAndCeiling(t *testing.T) {
	in := twoTeamInput(3)
	in.Rounds = []*models.Round{decidedRound(1, 1, 1, 2, models.VictorGov)}
	in.NoShows = []models.NoShow{{TeamID: 2, RoundNumber: 2, LenientLate: false}}
	in.RoundStats = []*models.RoundStats{
		{ID: 1, DebaterID: 3, RoundID: 1, Speaks: 25.5, Ranks: 3, Role: models.RoleLO},
	}
	stats := NewStats(in)

	assert.Equal(t, []float64{25.5, MinimumDebaterSpeaks}, stats.SpeaksForDebater(3))
	assert.Equal(t, []float64{3, MaximumDebaterRanks}, stats.RanksForDebater(3))
}

func TestLenientLateNoShowSubstitutesAverage(t *testing.T) {
	in := twoTeamInput(3)
	in.Rounds = []*models.Round{decidedRound(1, 1, 1, 2, models.VictorGov)}
	in.NoShows = []models.NoShow{{TeamID: 2, RoundNumber: 2, LenientLate: true}}
	in.RoundStats = []*models.RoundStats{
		{ID: 1, DebaterID: 3, RoundID: 1, Speaks: 25.5, Ranks: 3, Role: models.RoleLO},
	}
	stats := NewStats(in)

	assert.Equal(t, []float64{25.5, 25.5}, stats.SpeaksForDebater(3))
}

func TestForfeitWinScoredAtAverageNotBallot(t *testing.T) {
	in := twoTeamInput(3)
	in.Rounds = []*models.Round{
		decidedRound(1, 1, 1, 2, models.VictorGov),
		decidedRound(2, 2, 1, 2, models.VictorGovViaForfeit),
	}
	in.RoundStats = []*models.RoundStats{
		{ID: 1, DebaterID: 1, RoundID: 1, Speaks: 24, Ranks: 2, Role: models.RolePM},
		// A ballot entered for the forfeit round must not leak into totals.
		{ID: 2, DebaterID: 1, RoundID: 2, Speaks: 30, Ranks: 1, Role: models.RolePM},
	}
	stats := NewStats(in)

	assert.Equal(t, []float64{24, 24}, stats.SpeaksForDebater(1))
}

func TestIronManRoundsAverageTheTwoRoles(t *testing.T) {
	in := twoTeamInput(2)
	in.Rounds = []*models.Round{decidedRound(1, 1, 1, 2, models.VictorGov)}
	in.RoundStats = []*models.RoundStats{
		{ID: 1, DebaterID: 1, RoundID: 1, Speaks: 26, Ranks: 1, Role: models.RolePM},
		{ID: 2, DebaterID: 1, RoundID: 1, Speaks: 24, Ranks: 3, Role: models.RoleMG},
	}
	stats := NewStats(in)

	assert.Equal(t, []float64{25}, stats.SpeaksForDebater(1))
	assert.Equal(t, []float64{2}, stats.RanksForDebater(1))
}

func TestDuplicateBallotRowsKeepBest(t *testing.T) {
	in := twoTeamInput(2)
	in.Rounds = []*models.Round{
		decidedRound(1, 1, 1, 2, models.VictorGov),
		decidedRound(2, 1, 1, 2, models.VictorGov),
	}
	in.RoundStats = []*models.RoundStats{
		{ID: 1, DebaterID: 1, RoundID: 1, Speaks: 23, Ranks: 2, Role: models.RolePM},
		{ID: 2, DebaterID: 1, RoundID: 2, Speaks: 26, Ranks: 1, Role: models.RolePM},
	}
	stats := NewStats(in)

	assert.Equal(t, []float64{26}, stats.SpeaksForDebater(1))
}

func TestAdjustedTotalsDropExtremes(t *testing.T) {
	in := twoTeamInput(4)
	in.Rounds = []*models.Round{
		decidedRound(1, 1, 1, 2, models.VictorGov),
		decidedRound(2, 2, 2, 1, models.VictorGov),
		decidedRound(3, 3, 1, 2, models.VictorGov),
	}
	in.RoundStats = []*models.RoundStats{
		{ID: 1, DebaterID: 1, RoundID: 1, Speaks: 26, Ranks: 1},
		{ID: 2, DebaterID: 2, RoundID: 1, Speaks: 25, Ranks: 2},
		{ID: 3, DebaterID: 1, RoundID: 2, Speaks: 20, Ranks: 4},
		{ID: 4, DebaterID: 2, RoundID: 2, Speaks: 24, Ranks: 3},
		{ID: 5, DebaterID: 1, RoundID: 3, Speaks: 27, Ranks: 1},
		{ID: 6, DebaterID: 2, RoundID: 3, Speaks: 25.5, Ranks: 2},
	}
	stats := NewStats(in)

	assert.InDelta(t, 147.5, stats.TotSpeaks(1), 1e-9)
	// Sorted flat list {20,24,25,25.5,26,27}: single-adjusted drops 20 and 27.
	assert.InDelta(t, 100.5, stats.SingleAdjustedSpeaks(1), 1e-9)
	// Double-adjusted drops {20,24} and {26,27}.
	assert.InDelta(t, 50.5, stats.DoubleAdjustedSpeaks(1), 1e-9)
}

func TestPullUpFlagsReadBothSides(t *testing.T) {
	in := twoTeamInput(3)
	r := decidedRound(1, 1, 1, 2, models.VictorGov)
	r.PullUp = models.PullUpOpp
	in.Rounds = []*models.Round{r}
	stats := NewStats(in)

	assert.True(t, stats.PulledUp(2))
	assert.False(t, stats.PulledUp(1))
	assert.True(t, stats.HitPullUp(1))
	assert.False(t, stats.HitPullUp(2))
}

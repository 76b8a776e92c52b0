package brackets

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apdatab/tabcore/config"
	"github.com/apdatab/tabcore/models"
	"github.com/apdatab/tabcore/rankings"
)

func TestGenBracketSeparatesTopSeeds(t *testing.T) {
	assert.Equal(t, [][2]int{{1, 2}}, GenBracket(2))
	assert.Equal(t, [][2]int{{2, 3}, {1, 4}}, GenBracket(4))
	assert.Equal(t, [][2]int{{2, 7}, {3, 6}, {4, 5}, {1, 8}}, GenBracket(8))
}

func TestGenBracketSixteenEmissionOrder(t *testing.T) {
	// Only seed 2 keeps natural branch order; seed 3's subtree is reversed
	// like every other non-top branch, which first shows at sixteen teams.
	assert.Equal(t, [][2]int{
		{2, 15}, {7, 10}, {6, 11}, {3, 14},
		{5, 12}, {4, 13}, {8, 9}, {1, 16},
	}, GenBracket(16))
}

func TestGenBracketEverySeedAppearsOnce(t *testing.T) {
	for _, size := range []int{2, 4, 8, 16, 32} {
		slots := GenBracket(size)
		require.Len(t, slots, size/2, "bracket of %d", size)
		seen := make(map[int]bool)
		for _, slot := range slots {
			assert.Equal(t, size+1, slot[0]+slot[1], "seeds in a slot sum to %d", size+1)
			seen[slot[0]] = true
			seen[slot[1]] = true
		}
		assert.Len(t, seen, size)
	}
}

func breakFixture(numTeams int) (*config.Settings, *rankings.Stats) {
	teams := makeTeams(numTeams)
	var rounds []*models.Round
	// Team i wins numTeams-i rounds against a rotating opponent, so the
	// final ranking is exactly 1, 2, ..., numTeams.
	id := 1
	for i, team := range teams {
		for w := 0; w < numTeams-i-1; w++ {
			opp := teams[(i+w+1)%numTeams]
			rounds = append(rounds, &models.Round{
				ID: id, RoundNumber: w + 1,
				GovTeamID: team.ID, OppTeamID: opp.ID,
				Victor: models.VictorGov,
			})
			id++
		}
	}
	stats := rankings.NewStats(rankings.Input{
		CurrentRound: 6,
		Teams:        teams,
		Rounds:       rounds,
	})
	return config.Default(), stats
}

func TestPerformBreakSeedsTopTeams(t *testing.T) {
	settings, stats := breakFixture(6)
	settings.VarTeamsToBreak = 4

	breaking, err := PerformBreak(BreakParams{
		Settings: settings,
		Stats:    stats,
		Division: models.DivisionVarsity,
	})
	require.NoError(t, err)
	require.Len(t, breaking, 4)
	for i, bt := range breaking {
		assert.Equal(t, i+1, bt.TeamID, "ranking position becomes seed")
		assert.Equal(t, i+1, bt.Seed)
		assert.Equal(t, bt.Seed, bt.EffectiveSeed)
		assert.Equal(t, models.DivisionVarsity, bt.Division)
	}
}

func TestPerformBreakRoundsUpToPowerOfTwo(t *testing.T) {
	settings, stats := breakFixture(8)
	settings.VarTeamsToBreak = 6

	breaking, err := PerformBreak(BreakParams{
		Settings: settings,
		Stats:    stats,
		Division: models.DivisionVarsity,
	})
	require.NoError(t, err)
	assert.Len(t, breaking, 8, "6-team break fills an 8 bracket")
}

func TestPerformBreakExcludesOtherDivision(t *testing.T) {
	settings, stats := breakFixture(6)
	settings.VarTeamsToBreak = 2

	breaking, err := PerformBreak(BreakParams{
		Settings: settings,
		Stats:    stats,
		Division: models.DivisionVarsity,
		Exclude:  map[int]bool{1: true, 2: true},
	})
	require.NoError(t, err)
	require.Len(t, breaking, 2)
	assert.Equal(t, 3, breaking[0].TeamID)
	assert.Equal(t, 4, breaking[1].TeamID)
}

func fourTeamBreak() []models.BreakingTeam {
	var breaking []models.BreakingTeam
	for seed := 1; seed <= 4; seed++ {
		breaking = append(breaking, models.BreakingTeam{
			TeamID: seed, Seed: seed, EffectiveSeed: seed,
			Division: models.DivisionVarsity,
		})
	}
	return breaking
}

func TestPairOutroundSemis(t *testing.T) {
	settings, stats := breakFixture(4)
	outrounds, err := PairOutround(OutroundParams{
		Settings:      settings,
		Stats:         stats,
		Division:      models.DivisionVarsity,
		BreakingTeams: fourTeamBreak(),
		NumRooms:      4,
		Rng:           rand.New(rand.NewSource(7)),
	})
	require.NoError(t, err)
	require.Len(t, outrounds, 2)

	first := map[int]bool{outrounds[0].GovTeamID: true, outrounds[0].OppTeamID: true}
	second := map[int]bool{outrounds[1].GovTeamID: true, outrounds[1].OppTeamID: true}
	assert.Equal(t, map[int]bool{1: true, 4: true}, first, "1v4 debate listed first")
	assert.Equal(t, map[int]bool{2: true, 3: true}, second)
	for _, o := range outrounds {
		assert.Equal(t, 4, o.NumTeams)
		assert.Equal(t, models.DivisionVarsity, o.Division)
	}
}

func TestPairOutroundExcludesLosersAndCarriesSeeds(t *testing.T) {
	settings, stats := breakFixture(4)
	breaking := fourTeamBreak()
	semis := []*models.Outround{
		{ID: 1, NumTeams: 4, Division: models.DivisionVarsity,
			GovTeamID: 1, OppTeamID: 4, Victor: models.VictorGov},
		{ID: 2, NumTeams: 4, Division: models.DivisionVarsity,
			GovTeamID: 3, OppTeamID: 2, Victor: models.VictorGov},
	}
	// Team 3 knocked out the 2 seed and inherits its slot.
	CarryEffectiveSeed(&breaking[2], &breaking[1])
	assert.Equal(t, 2, breaking[2].EffectiveSeed)

	finals, err := PairOutround(OutroundParams{
		Settings:       settings,
		Stats:          stats,
		Division:       models.DivisionVarsity,
		BreakingTeams:  breaking,
		PriorOutrounds: semis,
		NumRooms:       2,
		Rng:            rand.New(rand.NewSource(7)),
	})
	require.NoError(t, err)
	require.Len(t, finals, 1)
	assert.Equal(t, 2, finals[0].NumTeams)
	assert.True(t, finals[0].Involves(1))
	assert.True(t, finals[0].Involves(3))
	assert.False(t, finals[0].Involves(2), "losers never reappear")
	assert.False(t, finals[0].Involves(4))
}

func TestSidelockFlipsPriorSides(t *testing.T) {
	teams := makeTeams(4)
	stats := rankings.NewStats(rankings.Input{
		CurrentRound: 6,
		Teams:        teams,
		Rounds: []*models.Round{
			{ID: 1, RoundNumber: 3, GovTeamID: 1, OppTeamID: 4, Victor: models.VictorGov},
		},
	})
	settings := config.Default()
	settings.Sidelock = true

	outrounds, err := PairOutround(OutroundParams{
		Settings:      settings,
		Stats:         stats,
		Division:      models.DivisionVarsity,
		BreakingTeams: fourTeamBreak(),
		NumRooms:      2,
		Rng:           rand.New(rand.NewSource(7)),
	})
	require.NoError(t, err)
	for _, o := range outrounds {
		if o.Involves(1) && o.Involves(4) {
			assert.Equal(t, 4, o.GovTeamID, "sides flip from the in-round meeting")
			assert.Equal(t, 1, o.OppTeamID)
		}
	}
}

func TestPairOutroundNeedsTwoTeams(t *testing.T) {
	settings, stats := breakFixture(4)
	_, err := PairOutround(OutroundParams{
		Settings:      settings,
		Stats:         stats,
		Division:      models.DivisionVarsity,
		BreakingTeams: fourTeamBreak()[:1],
		NumRooms:      2,
		Rng:           rand.New(rand.NewSource(7)),
	})
	var want NotEnoughTeamsError
	require.ErrorAs(t, err, &want)
}

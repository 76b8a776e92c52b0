package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apdatab/tabcore/models"
)

func TestReplaceRoundScopedToRoundNumber(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.ReplaceRound(ctx, 1,
		[]*models.Round{{RoundNumber: 1, GovTeamID: 1, OppTeamID: 2}},
		[]models.Bye{{TeamID: 3, RoundNumber: 1}},
		[]models.NoShow{{TeamID: 4, RoundNumber: 1}}))
	require.NoError(t, m.ReplaceRound(ctx, 2,
		[]*models.Round{{RoundNumber: 2, GovTeamID: 2, OppTeamID: 1}},
		nil, nil))

	// Re-pairing round 2 must leave round 1 and its byes and no-shows alone.
	require.NoError(t, m.ReplaceRound(ctx, 2,
		[]*models.Round{
			{RoundNumber: 2, GovTeamID: 1, OppTeamID: 3},
			{RoundNumber: 2, GovTeamID: 2, OppTeamID: 4},
		},
		nil, nil))

	roundOne, err := m.ListRoundsByNumber(ctx, 1)
	require.NoError(t, err)
	require.Len(t, roundOne, 1)
	assert.Equal(t, 1, roundOne[0].GovTeamID)

	roundTwo, err := m.ListRoundsByNumber(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, roundTwo, 2)

	byes, err := m.ListByes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Bye{{TeamID: 3, RoundNumber: 1}}, byes)

	noShows, err := m.ListNoShows(ctx)
	require.NoError(t, err)
	assert.Len(t, noShows, 1)
}

func TestReplaceOutroundsScopedToDivisionAndBracket(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.ReplaceOutrounds(ctx, models.DivisionVarsity, 4, []*models.Outround{
		{NumTeams: 4, Division: models.DivisionVarsity, GovTeamID: 1, OppTeamID: 4},
		{NumTeams: 4, Division: models.DivisionVarsity, GovTeamID: 2, OppTeamID: 3},
	}))
	require.NoError(t, m.ReplaceOutrounds(ctx, models.DivisionNovice, 4, []*models.Outround{
		{NumTeams: 4, Division: models.DivisionNovice, GovTeamID: 5, OppTeamID: 8},
	}))

	// Re-bracketing the varsity semis must not touch the novice rows.
	require.NoError(t, m.ReplaceOutrounds(ctx, models.DivisionVarsity, 4, []*models.Outround{
		{NumTeams: 4, Division: models.DivisionVarsity, GovTeamID: 1, OppTeamID: 3},
	}))

	all, err := m.ListOutrounds(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	var varsity, novice int
	for _, o := range all {
		if o.Division == models.DivisionVarsity {
			varsity++
		} else {
			novice++
		}
	}
	assert.Equal(t, 1, varsity)
	assert.Equal(t, 1, novice)
}

func TestListRoundsReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	chair := 7
	require.NoError(t, m.ReplaceRound(ctx, 1, []*models.Round{{
		RoundNumber: 1,
		GovTeamID:   1,
		OppTeamID:   2,
		ChairID:     &chair,
		JudgeIDs:    []int{7, 8},
	}}, nil, nil))

	rounds, err := m.ListRounds(ctx)
	require.NoError(t, err)
	require.Len(t, rounds, 1)

	rounds[0].GovTeamID = 99
	rounds[0].JudgeIDs[0] = 99
	*rounds[0].ChairID = 99

	again, err := m.ListRounds(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, again[0].GovTeamID)
	assert.Equal(t, []int{7, 8}, again[0].JudgeIDs)
	assert.Equal(t, 7, *again[0].ChairID)
}

func TestCheckInsFilteredByRound(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.CreateJudge(ctx, &models.Judge{ID: 7, Name: "A", Rank: 50}))
	require.NoError(t, m.CheckInJudge(ctx, 7, 1))
	require.NoError(t, m.CheckInJudge(ctx, 7, 2))
	require.NoError(t, m.CreateRoom(ctx, &models.Room{ID: 9, Name: "101", Rank: 80}))
	require.NoError(t, m.CheckInRoom(ctx, 9, 1))

	judgeIns, err := m.ListJudgeCheckIns(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []models.CheckIn{{JudgeID: 7, RoundNumber: 1}}, judgeIns)

	roomIns, err := m.ListRoomCheckIns(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, roomIns)
}

func TestUpdateBreakingTeam(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.ReplaceBreak(ctx, models.DivisionVarsity, []models.BreakingTeam{
		{TeamID: 1, Seed: 1, EffectiveSeed: 1, Division: models.DivisionVarsity},
		{TeamID: 2, Seed: 2, EffectiveSeed: 2, Division: models.DivisionVarsity},
	}))

	require.NoError(t, m.UpdateBreakingTeam(ctx, models.BreakingTeam{
		TeamID: 2, Seed: 2, EffectiveSeed: 1, Division: models.DivisionVarsity,
	}))

	breaking, err := m.ListBreakingTeams(ctx, models.DivisionVarsity)
	require.NoError(t, err)
	require.Len(t, breaking, 2)
	assert.Equal(t, 1, breaking[1].EffectiveSeed)

	err = m.UpdateBreakingTeam(ctx, models.BreakingTeam{TeamID: 3, Division: models.DivisionVarsity})
	assert.Error(t, err)
}

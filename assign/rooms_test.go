package assign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apdatab/tabcore/models"
)

func TestBestRoomsCoverTopPairings(t *testing.T) {
	pairings := twoPairings()
	rooms := []*models.Room{
		{ID: 1, Name: "Basement", Rank: 10},
		{ID: 2, Name: "Auditorium", Rank: 100},
	}
	require.NoError(t, Rooms(RoomParams{Pairings: pairings, Rooms: rooms}))

	require.NotNil(t, pairings[0].Room())
	require.NotNil(t, pairings[1].Room())
	assert.Equal(t, 2, *pairings[0].Room(), "highest ranked room on the top pairing")
	assert.Equal(t, 1, *pairings[1].Room())
}

func TestSpareRoomsLeaveWorstUnused(t *testing.T) {
	pairings := twoPairings()
	rooms := []*models.Room{
		{ID: 1, Rank: 90},
		{ID: 2, Rank: 80},
		{ID: 3, Rank: 5},
	}
	require.NoError(t, Rooms(RoomParams{Pairings: pairings, Rooms: rooms}))

	used := map[int]bool{*pairings[0].Room(): true, *pairings[1].Room(): true}
	assert.False(t, used[3], "weak room skipped while better ones remain")
}

func TestTooFewRoomsFails(t *testing.T) {
	pairings := twoPairings()
	rooms := []*models.Room{{ID: 1, Rank: 50}}
	err := Rooms(RoomParams{Pairings: pairings, Rooms: rooms})
	var want RoomAssignmentError
	require.ErrorAs(t, err, &want)
	assert.Equal(t, 3, want.GovTeamID)
}

func TestNoPairingsIsANoOp(t *testing.T) {
	assert.NoError(t, Rooms(RoomParams{}))
}

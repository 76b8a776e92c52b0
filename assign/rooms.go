package assign

import (
	"sort"

	"github.com/apdatab/tabcore/matching"
	"github.com/apdatab/tabcore/models"
)

// RoomParams carries one room assignment run. Pairings must be in the
// round's canonical order, best pairing first; rooms are those checked in
// for the round.
type RoomParams struct {
	Pairings []models.Pairing
	Rooms    []*models.Room
}

// Rooms matches rooms to pairings so the best rooms cover the top of the
// ordering. Weight penalizes positional mismatch plus a flat term for weak
// rooms, so a low-ranked room is used only when nothing better remains.
func Rooms(p RoomParams) error {
	if len(p.Pairings) == 0 {
		return nil
	}
	if len(p.Rooms) < len(p.Pairings) {
		first := p.Pairings[len(p.Rooms)]
		return RoomAssignmentError{GovTeamID: first.Gov(), OppTeamID: first.Opp()}
	}

	rooms := append([]*models.Room(nil), p.Rooms...)
	sort.SliceStable(rooms, func(i, j int) bool { return rooms[i].Rank > rooms[j].Rank })

	n := len(p.Pairings)
	var edges []matching.Edge
	for roomIdx, room := range rooms {
		for pairingIdx := range p.Pairings {
			gap := roomIdx - pairingIdx
			if gap < 0 {
				gap = -gap
			}
			w := -float64(gap) - (100 - room.Rank)
			edges = append(edges, matching.Edge{I: pairingIdx, J: n + roomIdx, Weight: w})
		}
	}

	mates := matching.MaxWeightMatching(edges, true)
	for pairingIdx, pairing := range p.Pairings {
		mate := matching.Unmatched
		if pairingIdx < len(mates) {
			mate = mates[pairingIdx]
		}
		if mate == matching.Unmatched {
			return RoomAssignmentError{GovTeamID: pairing.Gov(), OppTeamID: pairing.Opp()}
		}
		pairing.SetRoom(rooms[mate-n].ID)
	}
	return nil
}

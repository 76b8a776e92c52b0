// Package brackets implements the pairing algorithms: Swiss power-pairing
// for in-rounds and single-elimination bracket generation for outrounds.
// Judge and room assignment live in the assign package; both are resolved
// through the matching primitive.
package brackets

import (
	"math/rand"
	"sort"

	"github.com/apdatab/tabcore/config"
	"github.com/apdatab/tabcore/matching"
	"github.com/apdatab/tabcore/models"
	"github.com/apdatab/tabcore/rankings"
)

// SwissParams carries everything one Swiss pairing run reads.
type SwissParams struct {
	Settings *config.Settings
	Stats    *rankings.Stats

	// Teams is every registered team; non-checked-in teams are recorded as
	// no-shows for the round.
	Teams []*models.Team

	// Checked-in judge and ranked room counts for the pre-pairing
	// validation.
	NumJudges int
	NumRooms  int

	Rng *rand.Rand
}

// SwissResult is a fully computed round: nothing is persisted by the
// engine, so a raised error leaves no partial state anywhere.
type SwissResult struct {
	Rounds  []*models.Round
	Byes    []models.Bye
	NoShows []models.NoShow
}

// PairRound pairs the current round. The steps follow classic Swiss
// procedure: validate, record forfeits, bucket by wins, even out odd
// buckets with byes and pull-ups, pair each bucket by maximum-weight
// matching, pick sides, and order the final pairings.
func PairRound(p SwissParams) (*SwissResult, error) {
	settings := p.Settings
	stats := p.Stats
	// The stats context is the one source of the round number: its history
	// covers rounds 1..cur-1 by construction.
	cur := stats.CurrentRound()

	checkedIn := make([]*models.Team, 0, len(p.Teams))
	for _, t := range p.Teams {
		if t.CheckedIn {
			checkedIn = append(checkedIn, t)
		}
	}

	if err := ValidateRoundData(stats, len(checkedIn), p.NumJudges, p.NumRooms); err != nil {
		return nil, err
	}

	result := &SwissResult{}

	// Teams not checked in forfeit the round.
	for _, t := range p.Teams {
		if !t.CheckedIn {
			result.NoShows = append(result.NoShows, models.NoShow{
				TeamID:      t.ID,
				RoundNumber: cur,
				LenientLate: settings.LenientLate >= cur,
			})
		}
	}

	var buckets [][]*models.Team
	pulledUp := make(map[int]bool)

	if cur == 1 {
		bucket, bye := firstRoundOrder(checkedIn, settings, p.Rng)
		if bye != nil {
			result.Byes = append(result.Byes, models.Bye{TeamID: bye.ID, RoundNumber: cur})
		}
		buckets = [][]*models.Team{bucket}
	} else {
		var err error
		buckets, err = winBuckets(checkedIn, stats, p.Rng)
		if err != nil {
			return nil, err
		}
		byes, err := fixOddBuckets(buckets, stats, pulledUp)
		if err != nil {
			return nil, err
		}
		for _, byeTeam := range byes {
			result.Byes = append(result.Byes, models.Bye{TeamID: byeTeam.ID, RoundNumber: cur})
		}
	}

	var pairs [][2]*models.Team
	for _, bucket := range buckets {
		bucketPairs, err := perfectPairing(bucket, stats, settings, cur)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, bucketPairs...)
	}

	pairs = assignSides(pairs, stats, p.Rng)
	orderPairings(pairs, stats, cur, p.Rng)

	for _, pair := range pairs {
		round := &models.Round{
			RoundNumber: cur,
			GovTeamID:   pair[0].ID,
			OppTeamID:   pair[1].ID,
		}
		if pulledUp[pair[0].ID] {
			round.PullUp = models.PullUpGov
		} else if pulledUp[pair[1].ID] {
			round.PullUp = models.PullUpOpp
		}
		result.Rounds = append(result.Rounds, round)
	}
	return result, nil
}

// ValidateRoundData checks the pre-conditions for pairing: at least half as
// many checked-in judges and ranked rooms as checked-in teams, all previous
// results entered, and no team with both a result and a bye or no-show.
func ValidateRoundData(stats *rankings.Stats, numTeams, numJudges, numRooms int) error {
	need := numTeams / 2
	if numJudges < need {
		return NotEnoughJudgesError{Have: numJudges, Need: need}
	}
	if numRooms < need {
		return NotEnoughRoomsError{Have: numRooms, Need: need}
	}
	return ProperlyEnteredData(stats, stats.CurrentRound()-1)
}

// ProperlyEnteredData verifies the given round's results are complete and
// consistent before anything later is paired.
func ProperlyEnteredData(stats *rankings.Stats, roundNumber int) error {
	for _, prev := range stats.RoundsInNumber(roundNumber) {
		if prev.Victor == models.VictorNone {
			return PrevRoundNotEnteredError{RoundNumber: roundNumber}
		}
		for _, teamID := range []int{prev.GovTeamID, prev.OppTeamID} {
			if stats.HadByeIn(teamID, roundNumber) {
				return ByeAssignmentError{TeamID: teamID, RoundNumber: roundNumber}
			}
			if _, ok := stats.NoShowIn(teamID, roundNumber); ok {
				return NoShowAssignmentError{TeamID: teamID, RoundNumber: roundNumber}
			}
		}
	}
	return nil
}

// firstRoundOrder shuffles then sorts checked-in teams by seed so equally
// seeded teams land in random order, pulling one bye first if the count is
// odd.
func firstRoundOrder(teams []*models.Team, settings *config.Settings, rng *rand.Rand) ([]*models.Team, *models.Team) {
	list := append([]*models.Team(nil), teams...)
	var bye *models.Team

	if len(list)%2 == 1 {
		pool := list
		if !settings.FairBye {
			unseeded := make([]*models.Team, 0, len(list))
			for _, t := range list {
				if t.Seed < models.HalfSeed {
					unseeded = append(unseeded, t)
				}
			}
			if len(unseeded) > 0 {
				pool = unseeded
			}
		}
		bye = pool[rng.Intn(len(pool))]
		list = removeTeam(list, bye)
	}

	rng.Shuffle(len(list), func(i, j int) { list[i], list[j] = list[j], list[i] })
	sort.SliceStable(list, func(i, j int) bool { return list[i].Seed > list[j].Seed })
	return list, bye
}

// winBuckets partitions checked-in teams into win brackets. Teams whose
// whole history is byes, forfeit wins, and lenient no-shows have no real
// speaks; they are spliced into the middle of their bracket instead of being
// sorted on fictitious totals.
func winBuckets(teams []*models.Team, stats *rankings.Stats, rng *rand.Rand) ([][]*models.Team, error) {
	cur := stats.CurrentRound()
	middle := middleOfBracketTeams(teams, stats, rng)
	inMiddle := make(map[int]bool, len(middle))
	for _, t := range middle {
		inMiddle[t.ID] = true
	}

	buckets := make([][]*models.Team, cur)
	for _, t := range teams {
		if inMiddle[t.ID] {
			continue
		}
		wins := stats.TotWins(t.ID)
		if wins >= cur {
			wins = cur - 1
		}
		buckets[wins] = append(buckets[wins], t)
	}
	for i := range buckets {
		buckets[i] = sortExceptRecord(buckets[i], stats)
	}
	for _, t := range middle {
		wins := stats.TotWins(t.ID)
		if wins >= cur {
			wins = cur - 1
		}
		mid := len(buckets[wins]) / 2
		buckets[wins] = insertTeam(buckets[wins], t, mid)
	}
	return buckets, nil
}

// middleOfBracketTeams finds teams whose only results are byes, forfeit
// wins, or lenient-late no-shows. Randomized for fairness.
func middleOfBracketTeams(teams []*models.Team, stats *rankings.Stats, rng *rand.Rand) []*models.Team {
	var out []*models.Team
	for _, t := range teams {
		if isMiddleOfBracket(stats, t.ID) {
			out = append(out, t)
		}
	}
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func lenientNoShowRounds(stats *rankings.Stats, teamID int) []int {
	var rounds []int
	for rn := 1; rn < stats.CurrentRound(); rn++ {
		if ns, ok := stats.NoShowIn(teamID, rn); ok && ns.LenientLate {
			rounds = append(rounds, rn)
		}
	}
	return rounds
}

// fixOddBuckets walks brackets top-down and evens each odd bucket: the
// bottom bracket gives out a bye, the 1-up bracket gives a bye when the
// bottom is empty (never to a team that already had one), and any other
// bracket pulls up the lowest-ranked team from below, preferring teams
// never pulled up before.
func fixOddBuckets(buckets [][]*models.Team, stats *rankings.Stats, pulledUp map[int]bool) ([]*models.Team, error) {
	var byes []*models.Team
	for bracket := len(buckets) - 1; bracket >= 0; bracket-- {
		if len(buckets[bracket])%2 == 0 {
			continue
		}
		switch {
		case bracket == 0:
			last := len(buckets[0]) - 1
			byes = append(byes, buckets[0][last])
			buckets[0] = buckets[0][:last]
		case bracket == 1 && len(buckets[0]) == 0:
			found := false
			for i := len(buckets[1]) - 1; i >= 0; i-- {
				if stats.HadBye(buckets[1][i].ID) {
					continue
				}
				byes = append(byes, buckets[1][i])
				buckets[1] = removeTeam(buckets[1], buckets[1][i])
				found = true
				break
			}
			if !found {
				return nil, NotEnoughTeamsError{Have: len(buckets[1])}
			}
		default:
			below := buckets[bracket-1]
			if len(below) == 0 {
				return nil, NotEnoughTeamsError{Have: 0}
			}
			pullUp := below[len(below)-1]
			for i := len(below) - 1; i >= 0; i-- {
				if !stats.PulledUp(below[i].ID) {
					pullUp = below[i]
					break
				}
			}
			buckets[bracket-1] = removeTeam(below, pullUp)
			buckets[bracket] = append(buckets[bracket], pullUp)
			pulledUp[pullUp.ID] = true
			buckets[bracket] = resortWithMiddleSplice(buckets[bracket], stats)
		}
	}
	return byes, nil
}

// resortWithMiddleSplice re-sorts a bucket after a pull-up, keeping
// average-speaks teams spliced at the middle rather than sorted on their
// fictitious totals.
func resortWithMiddleSplice(bucket []*models.Team, stats *rankings.Stats) []*models.Team {
	var normal, middle []*models.Team
	for _, t := range bucket {
		if isMiddleOfBracket(stats, t.ID) {
			middle = append(middle, t)
		} else {
			normal = append(normal, t)
		}
	}
	sorted := sortExceptRecord(normal, stats)
	for _, t := range middle {
		sorted = insertTeam(sorted, t, len(sorted)/2)
	}
	return sorted
}

func isMiddleOfBracket(stats *rankings.Stats, teamID int) bool {
	avgSpeakRounds := stats.NumByes(teamID) + stats.NumForfeitWins(teamID) +
		len(lenientNoShowRounds(stats, teamID))
	return avgSpeakRounds == stats.CurrentRound()-1
}

func sortExceptRecord(teams []*models.Team, stats *rankings.Stats) []*models.Team {
	ids := make([]int, 0, len(teams))
	byID := make(map[int]*models.Team, len(teams))
	for _, t := range teams {
		ids = append(ids, t.ID)
		byID[t.ID] = t
	}
	ranked := stats.RankTeamsExceptRecord(ids)
	out := make([]*models.Team, 0, len(ranked))
	for _, id := range ranked {
		out = append(out, byID[id])
	}
	return out
}

// perfectPairing pairs the teams of one evened bucket by maximum-weight
// matching over the complete graph, with weights penalizing deviations from
// seed-adjacent pairing, side imbalance, same-school rounds, pull-up
// rematches, and plain rematches.
func perfectPairing(teams []*models.Team, stats *rankings.Stats, settings *config.Settings, roundNumber int) ([][2]*models.Team, error) {
	if len(teams) == 0 {
		return nil, nil
	}
	n := len(teams)
	var edges []matching.Edge
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			w := calcWeight(settings, stats, roundNumber,
				teams[i], teams[j], i, j,
				teams[n-i-1], teams[n-j-1], n-i-1, n-j-1)
			edges = append(edges, matching.Edge{I: i, J: j, Weight: w})
		}
	}
	mates := matching.MaxWeightMatching(edges, true)

	var pairs [][2]*models.Team
	for v := 0; v < n; v++ {
		mate := matching.Unmatched
		if v < len(mates) {
			mate = mates[v]
		}
		if mate == matching.Unmatched {
			return nil, NotEnoughTeamsError{Have: n}
		}
		if v < mate {
			pairs = append(pairs, [2]*models.Team{teams[v], teams[mate]})
		}
	}
	return pairs, nil
}

// calcWeight scores pairing teamA against teamB when their ideal power
// paired opponents sit at the mirrored bracket positions. All penalties are
// negative; the matcher avoids the worst ones unless no alternative exists.
func calcWeight(settings *config.Settings, stats *rankings.Stats, roundNumber int,
	teamA, teamB *models.Team, aIdx, bIdx int,
	aOpt, bOpt *models.Team, aOptIdx, bOptIdx int) float64 {

	var weight float64
	if roundNumber == 1 {
		weight = settings.PowerPairingMultiple *
			(abs(int(aOpt.Seed)-int(teamB.Seed)) + abs(int(bOpt.Seed)-int(teamA.Seed))) / 2.0
	} else {
		weight = settings.PowerPairingMultiple *
			(abs(aOptIdx-bIdx) + abs(bOptIdx-aIdx)) / 2.0
	}

	half := settings.TotalRounds/2 + 1
	if stats.NumOpps(teamA.ID) >= half && stats.NumOpps(teamB.ID) >= half {
		weight += settings.HighOppPenalty
	}
	if stats.NumOpps(teamA.ID) >= half+1 && stats.NumOpps(teamB.ID) >= half+1 {
		weight += settings.HigherOppPenalty
	}
	if stats.NumGovs(teamA.ID) >= half && stats.NumGovs(teamB.ID) >= half {
		weight += settings.HighGovPenalty
	}
	if sharesSchool(teamA, teamB) {
		weight += settings.SameSchoolPenalty
	}
	if (stats.HitPullUp(teamA.ID) && stats.TotWins(teamB.ID) < stats.TotWins(teamA.ID)) ||
		(stats.HitPullUp(teamB.ID) && stats.TotWins(teamA.ID) < stats.TotWins(teamB.ID)) {
		weight += settings.HitPullUpBefore
	}
	if stats.HitBefore(teamA.ID, teamB.ID) {
		weight += settings.HitTeamBefore
	}
	return weight
}

// assignSides puts the team with fewer prior gov rounds on gov; ties fall
// to fewer opp rounds, then a coin flip.
func assignSides(pairs [][2]*models.Team, stats *rankings.Stats, rng *rand.Rand) [][2]*models.Team {
	out := make([][2]*models.Team, 0, len(pairs))
	for _, pair := range pairs {
		t1, t2 := pair[0], pair[1]
		g1, g2 := stats.NumGovs(t1.ID), stats.NumGovs(t2.ID)
		o1, o2 := stats.NumOpps(t1.ID), stats.NumOpps(t2.ID)
		switch {
		case g1 < g2:
			out = append(out, [2]*models.Team{t1, t2})
		case g2 < g1:
			out = append(out, [2]*models.Team{t2, t1})
		case o1 < o2:
			out = append(out, [2]*models.Team{t2, t1})
		case o2 < o1:
			out = append(out, [2]*models.Team{t1, t2})
		case rng.Intn(2) == 0:
			out = append(out, [2]*models.Team{t1, t2})
		default:
			out = append(out, [2]*models.Team{t2, t1})
		}
	}
	return out
}

// orderPairings sorts the flattened pairing list: round one randomly within
// descending higher-seed, later rounds by the better team's position in the
// full ranking. Rooms are later handed out best-first in this order.
func orderPairings(pairs [][2]*models.Team, stats *rankings.Stats, roundNumber int, rng *rand.Rand) {
	if roundNumber == 1 {
		rng.Shuffle(len(pairs), func(i, j int) { pairs[i], pairs[j] = pairs[j], pairs[i] })
		sort.SliceStable(pairs, func(i, j int) bool {
			return highestSeed(pairs[i]) > highestSeed(pairs[j])
		})
		return
	}
	position := make(map[int]int)
	for idx, score := range stats.RankTeams(nil) {
		position[score.TeamID] = idx
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return bestPosition(pairs[i], position) < bestPosition(pairs[j], position)
	})
}

func highestSeed(pair [2]*models.Team) models.Seed {
	if pair[0].Seed > pair[1].Seed {
		return pair[0].Seed
	}
	return pair[1].Seed
}

func bestPosition(pair [2]*models.Team, position map[int]int) int {
	p0, p1 := position[pair[0].ID], position[pair[1].ID]
	if p0 < p1 {
		return p0
	}
	return p1
}

func sharesSchool(a, b *models.Team) bool {
	for _, sa := range a.SchoolIDs() {
		for _, sb := range b.SchoolIDs() {
			if sa == sb {
				return true
			}
		}
	}
	return false
}

func removeTeam(teams []*models.Team, target *models.Team) []*models.Team {
	out := teams[:0:0]
	for _, t := range teams {
		if t.ID != target.ID {
			out = append(out, t)
		}
	}
	return out
}

func insertTeam(teams []*models.Team, t *models.Team, at int) []*models.Team {
	out := make([]*models.Team, 0, len(teams)+1)
	out = append(out, teams[:at]...)
	out = append(out, t)
	out = append(out, teams[at:]...)
	return out
}

func abs(v int) float64 {
	if v < 0 {
		return float64(-v)
	}
	return float64(v)
}

package brackets

import (
	"math/rand"
	"sort"

	"github.com/apdatab/tabcore/config"
	"github.com/apdatab/tabcore/models"
	"github.com/apdatab/tabcore/rankings"
)

// GenBracket builds the standard single-elimination seeding order for a
// power-of-two bracket: 1 plays numTeams, 2 plays numTeams-1, interleaved so
// the top seeds cannot meet before the final.
func GenBracket(numTeams int) [][2]int {
	limit := 1
	for 1<<(limit-1) < numTeams {
		limit++
	}
	return branch(1, 1, limit)
}

func branch(seed, level, limit int) [][2]int {
	levelSum := 1<<level + 1
	if limit == level+1 {
		return [][2]int{{seed, levelSum - seed}}
	}
	if seed == 2 {
		return append(branch(seed, level+1, limit),
			branch(levelSum-seed, level+1, limit)...)
	}
	return append(branch(levelSum-seed, level+1, limit),
		branch(seed, level+1, limit)...)
}

// BreakParams selects one division's elimination field.
type BreakParams struct {
	Settings *config.Settings
	Stats    *rankings.Stats
	Division models.Division

	// Exclude holds team ids already breaking in another division, so a
	// varsity breaker is never double-broken into the novice bracket.
	Exclude map[int]bool
}

// PerformBreak picks the division's breaking teams from the full ranking
// and seeds them. The configured break size is rounded up to the next power
// of two when enough teams exist, so the bracket can be generated without
// structural byes.
func PerformBreak(p BreakParams) ([]models.BreakingTeam, error) {
	var ranked []rankings.TeamScore
	if p.Division == models.DivisionNovice {
		ranked = p.Stats.RankNoviceTeams(nil)
	} else {
		ranked = p.Stats.RankTeams(nil)
	}

	eligible := make([]int, 0, len(ranked))
	for _, score := range ranked {
		if p.Exclude[score.TeamID] {
			continue
		}
		eligible = append(eligible, score.TeamID)
	}

	want := nextPowerOfTwo(p.Settings.TeamsToBreak(p.Division))
	if want < 2 {
		return nil, BadBreakError{Reason: "break size must be at least 2"}
	}
	if len(eligible) < 2 {
		return nil, BadBreakError{Reason: "fewer than 2 teams eligible to break"}
	}
	if want > len(eligible) {
		want = len(eligible)
	}

	breaking := make([]models.BreakingTeam, 0, want)
	for i := 0; i < want; i++ {
		breaking = append(breaking, models.BreakingTeam{
			TeamID:        eligible[i],
			Seed:          i + 1,
			EffectiveSeed: i + 1,
			Division:      p.Division,
		})
	}
	return breaking, nil
}

// OutroundParams carries one bracket-round pairing run for a division.
type OutroundParams struct {
	Settings *config.Settings
	Stats    *rankings.Stats
	Division models.Division

	// BreakingTeams is the division's full break, effective seeds current.
	BreakingTeams []models.BreakingTeam

	// PriorOutrounds is every recorded elimination debate; teams that lost
	// one never reappear.
	PriorOutrounds []*models.Outround

	NumRooms int

	Rng *rand.Rand
}

// PairOutround pairs the next elimination round for the division. The
// surviving teams' effective seeds are slotted into the generated bracket;
// a bracket slot whose seed has no surviving team is skipped, which hands
// the present team a walkover handled by the result entry.
func PairOutround(p OutroundParams) ([]*models.Outround, error) {
	lost := make(map[int]bool)
	for _, o := range p.PriorOutrounds {
		if loser, ok := o.LoserID(); ok {
			lost[loser] = true
		}
	}

	alive := make([]models.BreakingTeam, 0, len(p.BreakingTeams))
	for _, bt := range p.BreakingTeams {
		if !lost[bt.TeamID] {
			alive = append(alive, bt)
		}
	}
	if len(alive) < 2 {
		return nil, NotEnoughTeamsError{Have: len(alive)}
	}

	numTeams := nextPowerOfTwo(len(alive))
	if p.NumRooms < len(alive)/2 {
		return nil, NotEnoughRoomsError{Have: p.NumRooms, Need: len(alive) / 2}
	}
	if err := ProperlyEnteredData(p.Stats, p.Settings.TotalRounds); err != nil {
		return nil, err
	}

	bySeed := make(map[int]models.BreakingTeam, len(alive))
	for _, bt := range alive {
		bySeed[bt.EffectiveSeed] = bt
	}

	var outrounds []*models.Outround
	for _, slot := range GenBracket(numTeams) {
		one, okOne := bySeed[slot[0]]
		two, okTwo := bySeed[slot[1]]
		if !okOne || !okTwo {
			continue
		}
		gov, opp := outroundSides(p.Settings, p.Stats, one.TeamID, two.TeamID, p.Rng)
		outrounds = append(outrounds, &models.Outround{
			NumTeams:  numTeams,
			Division:  p.Division,
			GovTeamID: gov,
			OppTeamID: opp,
		})
	}
	sortBySeedSum(outrounds, bySeedIndex(alive))
	return outrounds, nil
}

// outroundSides picks gov for an elimination debate: with sidelock on and a
// prior meeting between the two, sides flip from that meeting; otherwise
// the team with fewer gov rounds takes gov, ties by coin flip.
func outroundSides(settings *config.Settings, stats *rankings.Stats, one, two int, rng *rand.Rand) (gov, opp int) {
	if settings.Sidelock {
		if prior, ok := stats.PriorMeeting(one, two); ok {
			if prior.GovTeamID == one {
				return two, one
			}
			return one, two
		}
	}
	g1, g2 := stats.NumGovs(one), stats.NumGovs(two)
	switch {
	case g1 < g2:
		return one, two
	case g2 < g1:
		return two, one
	case rng.Intn(2) == 0:
		return one, two
	default:
		return two, one
	}
}

// CarryEffectiveSeed moves the better effective seed onto the winner after
// an elimination result, so later bracket rounds slot the winner where the
// higher seed would have gone.
func CarryEffectiveSeed(winner, loser *models.BreakingTeam) {
	if loser.EffectiveSeed < winner.EffectiveSeed {
		winner.EffectiveSeed = loser.EffectiveSeed
	}
}

func bySeedIndex(breaking []models.BreakingTeam) map[int]int {
	seeds := make(map[int]int, len(breaking))
	for _, bt := range breaking {
		seeds[bt.TeamID] = bt.EffectiveSeed
	}
	return seeds
}

// sortBySeedSum orders debates best-seed-first so room and panel strength
// line up with the top of the bracket.
func sortBySeedSum(outrounds []*models.Outround, seeds map[int]int) {
	sort.SliceStable(outrounds, func(i, j int) bool {
		return minSeed(outrounds[i], seeds) < minSeed(outrounds[j], seeds)
	})
}

func minSeed(o *models.Outround, seeds map[int]int) int {
	gov, opp := seeds[o.GovTeamID], seeds[o.OppTeamID]
	if gov < opp {
		return gov
	}
	return opp
}

func nextPowerOfTwo(v int) int {
	n := 1
	for n < v {
		n <<= 1
	}
	return n
}

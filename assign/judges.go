// Package assign fills in judges and rooms on already-paired rounds. Both
// assignments reduce to maximum-weight bipartite matching: pairings on one
// side, judges or rooms on the other, weights encoding how badly tab policy
// wants each edge.
package assign

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/apdatab/tabcore/config"
	"github.com/apdatab/tabcore/matching"
	"github.com/apdatab/tabcore/models"
	"github.com/apdatab/tabcore/rankings"
)

// JudgeParams carries one in-round judge assignment run. Pairings must be
// in the round's canonical order, best pairing first; judges are everyone
// checked in for the round.
type JudgeParams struct {
	Settings  *config.Settings
	Stats     *rankings.Stats
	Pairings  []models.Pairing
	Judges    []*models.Judge
	Scratches []models.Scratch
	Rng       *rand.Rand
}

// Judges assigns a chair to every pairing, then fills wing layers while
// spare judges remain. Pairings are mutated in place; an error means no
// pairing keeps a partial panel.
func Judges(p JudgeParams) error {
	for _, pairing := range p.Pairings {
		pairing.ClearJudges()
	}
	if len(p.Pairings) == 0 {
		return nil
	}

	judges := shuffledByRank(p.Judges, p.Rng)
	scratched := scratchIndex(p.Scratches)

	chairs := make([]*models.Judge, 0, len(judges))
	for _, j := range judges {
		if !j.WingOnly {
			chairs = append(chairs, j)
		}
	}
	if len(chairs) == 0 {
		return JudgeAssignmentError{Reason: "no chair-eligible judges are checked in"}
	}
	if len(chairs) < len(p.Pairings) {
		return JudgeAssignmentError{Reason: fmt.Sprintf(
			"need %d chair-eligible judges, have %d", len(p.Pairings), len(chairs))}
	}

	used := make(map[int]bool)
	if err := matchLayer(p, chairs, scratched, used, layerOpts{setChair: true, requireAll: true}); err != nil {
		return err
	}

	// Wing layers only while every pairing can get one more judge.
	numWings := len(judges)/len(p.Pairings) - 1
	if numWings > p.Settings.MaxWings {
		numWings = p.Settings.MaxWings
	}
	for layer := 0; layer < numWings; layer++ {
		remaining := make([]*models.Judge, 0, len(judges))
		for _, j := range judges {
			if !used[j.ID] {
				remaining = append(remaining, j)
			}
		}
		if len(remaining) < len(p.Pairings) {
			break
		}
		opts := layerOpts{helpChairs: p.Settings.WingMode == config.WingModeHelpChairs}
		if err := matchLayer(p, remaining, scratched, used, opts); err != nil {
			return err
		}
	}
	return nil
}

// layerOpts controls one matching pass: whether matched judges become
// chairs, whether weights target the reversed pairing order, and whether a
// pairing left unmatched is an error.
type layerOpts struct {
	setChair   bool
	helpChairs bool
	requireAll bool
}

func matchLayer(p JudgeParams, judges []*models.Judge, scratched map[[2]int]bool,
	used map[int]bool, opts layerOpts) error {

	n := len(p.Pairings)
	var edges []matching.Edge
	for judgeIdx, judge := range judges {
		for pairingIdx, pairing := range p.Pairings {
			if judgeConflict(p, judge, pairing, scratched) {
				continue
			}
			w := assignmentWeight(pairingIdx, judgeIdx, n, opts.helpChairs)
			if p.Settings.AllowRejudges {
				w += p.Settings.RejudgePenalty * float64(timesJudged(p.Stats, judge.ID, pairing))
			}
			edges = append(edges, matching.Edge{I: pairingIdx, J: n + judgeIdx, Weight: w})
		}
	}
	if len(edges) == 0 && opts.requireAll {
		return JudgeAssignmentError{Reason: "every remaining judge conflicts with every pairing"}
	}

	mates := matching.MaxWeightMatching(edges, true)
	for pairingIdx, pairing := range p.Pairings {
		mate := matching.Unmatched
		if pairingIdx < len(mates) {
			mate = mates[pairingIdx]
		}
		if mate == matching.Unmatched {
			if opts.requireAll {
				return JudgeAssignmentError{Reason: fmt.Sprintf(
					"no conflict-free judge for pairing %d vs %d",
					pairing.Gov(), pairing.Opp())}
			}
			continue
		}
		judge := judges[mate-n]
		if opts.setChair {
			pairing.SetChair(judge.ID)
		}
		pairing.AddJudge(judge.ID)
		used[judge.ID] = true
	}
	return nil
}

// assignmentWeight penalizes giving a weaker judge a stronger pairing: zero
// when the judge's rank position is at or above the pairing's position,
// quadratic in the gap otherwise. Under help_weaker_chairs, wing passes
// score against the reversed pairing order so strong spare judges land with
// weak chairs.
func assignmentWeight(pairingIdx, judgeIdx, numPairings int, helpChairs bool) float64 {
	target := pairingIdx
	if helpChairs {
		target = numPairings - 1 - pairingIdx
	}
	gap := judgeIdx - target
	if gap <= 0 {
		return 0
	}
	return -float64(gap * gap)
}

// judgeConflict reports whether the judge may not see this pairing at all.
// Scratches are absolute. Affiliation and having judged a team before are
// absolute too unless rejudges are explicitly allowed, in which case they
// become weight penalties instead.
func judgeConflict(p JudgeParams, judge *models.Judge, pairing models.Pairing,
	scratched map[[2]int]bool) bool {

	for _, teamID := range []int{pairing.Gov(), pairing.Opp()} {
		if scratched[[2]int{judge.ID, teamID}] {
			return true
		}
		if p.Settings.AllowRejudges {
			continue
		}
		if team := p.Stats.Team(teamID); team != nil && judge.AffiliatedWith(team.SchoolIDs()...) {
			return true
		}
		if hadJudged(p.Stats, judge.ID, teamID) {
			return true
		}
	}
	return false
}

// EligibleJudges filters to judges who may see the pairing at all, for tab
// staff tooling that lists manual-assignment candidates.
func EligibleJudges(p JudgeParams, pairing models.Pairing) []*models.Judge {
	scratched := scratchIndex(p.Scratches)
	out := make([]*models.Judge, 0, len(p.Judges))
	for _, judge := range p.Judges {
		if !judgeConflict(p, judge, pairing, scratched) {
			out = append(out, judge)
		}
	}
	return out
}

func hadJudged(stats *rankings.Stats, judgeID, teamID int) bool {
	for _, r := range stats.Rounds(teamID) {
		for _, id := range r.JudgeIDs {
			if id == judgeID {
				return true
			}
		}
	}
	return false
}

func timesJudged(stats *rankings.Stats, judgeID int, pairing models.Pairing) int {
	count := 0
	for _, teamID := range []int{pairing.Gov(), pairing.Opp()} {
		for _, r := range stats.Rounds(teamID) {
			for _, id := range r.JudgeIDs {
				if id == judgeID {
					count++
				}
			}
		}
	}
	return count
}

// OutroundJudgeParams carries one bracket round's panel assignment.
// Outrounds must be ordered best seed first; judges are those checked in
// for outrounds and not already sitting on another bracket's panels.
type OutroundJudgeParams struct {
	Settings  *config.Settings
	Stats     *rankings.Stats
	Division  models.Division
	Outrounds []*models.Outround
	Judges    []*models.Judge
	Scratches []models.Scratch
	Rng       *rand.Rand
}

// OutroundJudges seats a full fixed-size panel on every elimination debate.
// Panel layers may snake, reversing direction each layer so total panel
// strength evens out across the bracket.
func OutroundJudges(p OutroundJudgeParams) error {
	if len(p.Outrounds) == 0 {
		return nil
	}
	panelSize := p.Settings.PanelSize(p.Division)
	need := len(p.Outrounds) * panelSize
	if len(p.Judges) < need {
		return JudgeAssignmentError{Reason: fmt.Sprintf(
			"need %d judges for %d panels of %d, have %d",
			need, len(p.Outrounds), panelSize, len(p.Judges))}
	}

	for _, o := range p.Outrounds {
		o.ClearJudges()
	}
	judges := shuffledByRank(p.Judges, p.Rng)
	scratched := scratchIndex(p.Scratches)
	used := make(map[int]bool)

	pairings := make([]models.Pairing, len(p.Outrounds))
	for i, o := range p.Outrounds {
		pairings[i] = o
	}
	inner := JudgeParams{
		Settings:  p.Settings,
		Stats:     p.Stats,
		Pairings:  pairings,
		Judges:    judges,
		Scratches: p.Scratches,
		Rng:       p.Rng,
	}

	for layer := 0; layer < panelSize; layer++ {
		remaining := make([]*models.Judge, 0, len(judges))
		for _, j := range judges {
			if used[j.ID] {
				continue
			}
			if layer == 0 && j.WingOnly {
				continue
			}
			remaining = append(remaining, j)
		}
		if layer == 0 && len(remaining) < len(p.Outrounds) {
			return JudgeAssignmentError{Reason: fmt.Sprintf(
				"need %d chair-eligible judges for panels, have %d",
				len(p.Outrounds), len(remaining))}
		}

		ordered := pairings
		if p.Settings.SnakePanels && layer%2 == 1 {
			ordered = reversePairings(pairings)
		}
		inner.Pairings = ordered
		opts := layerOpts{setChair: layer == 0, requireAll: true}
		if err := matchLayer(inner, remaining, scratched, used, opts); err != nil {
			return err
		}
	}
	return nil
}

func reversePairings(pairings []models.Pairing) []models.Pairing {
	out := make([]models.Pairing, len(pairings))
	for i, pairing := range pairings {
		out[len(pairings)-1-i] = pairing
	}
	return out
}

// shuffledByRank shuffles first so equally ranked judges land in seeded
// random order, then sorts best rank first.
func shuffledByRank(judges []*models.Judge, rng *rand.Rand) []*models.Judge {
	out := append([]*models.Judge(nil), judges...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rank > out[j].Rank })
	return out
}

func scratchIndex(scratches []models.Scratch) map[[2]int]bool {
	idx := make(map[[2]int]bool, len(scratches))
	for _, s := range scratches {
		idx[[2]int{s.JudgeID, s.TeamID}] = true
	}
	return idx
}

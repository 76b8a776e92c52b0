// Package rankings computes team and speaker standings from completed
// rounds. All aggregates are memoized inside a Stats context built once per
// run, so a full ranking pass touches each round a bounded number of times.
package rankings

import (
	"sort"

	"github.com/apdatab/tabcore/models"
)

const (
	// MaximumDebaterRanks is the rank substituted for a strict forfeit loss.
	MaximumDebaterRanks = 3.5
	// MinimumDebaterSpeaks is the speak score substituted for a strict
	// forfeit loss.
	MinimumDebaterSpeaks = 0.0
)

// Input is the tournament history a Stats context is built from.
type Input struct {
	CurrentRound int
	Teams        []*models.Team
	Debaters     []*models.Debater
	Rounds       []*models.Round
	Outrounds    []*models.Outround
	Byes         []models.Bye
	NoShows      []models.NoShow
	RoundStats   []*models.RoundStats
}

// Stats answers aggregate questions about the tournament history. It is
// read-only after construction and memoizes per-team and per-debater values
// for the duration of one pairing or ranking run.
type Stats struct {
	currentRound int

	teams    map[int]*models.Team
	debaters map[int]*models.Debater

	allRounds       []*models.Round
	roundsByID      map[int]*models.Round
	govRounds       map[int][]*models.Round
	oppRounds       map[int][]*models.Round
	govOutrounds    map[int][]*models.Outround
	oppOutrounds    map[int][]*models.Outround
	byesByTeam      map[int][]models.Bye
	noShowsByTeam   map[int][]models.NoShow
	statsByDebater  map[int][]*models.RoundStats
	teamOfDebater   map[int]*models.Team

	winsMemo   map[int]int
	speaksMemo map[int][]float64
	ranksMemo  map[int][]float64
	avgSpkMemo map[int]float64
	avgRnkMemo map[int]float64
}

// NewStats indexes the history for one scoring run.
func NewStats(in Input) *Stats {
	s := &Stats{
		currentRound:   in.CurrentRound,
		teams:          make(map[int]*models.Team, len(in.Teams)),
		debaters:       make(map[int]*models.Debater, len(in.Debaters)),
		roundsByID:     make(map[int]*models.Round, len(in.Rounds)),
		govRounds:      make(map[int][]*models.Round),
		oppRounds:      make(map[int][]*models.Round),
		govOutrounds:   make(map[int][]*models.Outround),
		oppOutrounds:   make(map[int][]*models.Outround),
		byesByTeam:     make(map[int][]models.Bye),
		noShowsByTeam:  make(map[int][]models.NoShow),
		statsByDebater: make(map[int][]*models.RoundStats),
		teamOfDebater:  make(map[int]*models.Team),
		winsMemo:       make(map[int]int),
		speaksMemo:     make(map[int][]float64),
		ranksMemo:      make(map[int][]float64),
		avgSpkMemo:     make(map[int]float64),
		avgRnkMemo:     make(map[int]float64),
	}
	for _, t := range in.Teams {
		s.teams[t.ID] = t
		for _, d := range t.DebaterIDs {
			s.teamOfDebater[d] = t
		}
	}
	for _, d := range in.Debaters {
		s.debaters[d.ID] = d
	}
	s.allRounds = in.Rounds
	for _, r := range in.Rounds {
		s.roundsByID[r.ID] = r
		s.govRounds[r.GovTeamID] = append(s.govRounds[r.GovTeamID], r)
		s.oppRounds[r.OppTeamID] = append(s.oppRounds[r.OppTeamID], r)
	}
	for _, o := range in.Outrounds {
		s.govOutrounds[o.GovTeamID] = append(s.govOutrounds[o.GovTeamID], o)
		s.oppOutrounds[o.OppTeamID] = append(s.oppOutrounds[o.OppTeamID], o)
	}
	for _, b := range in.Byes {
		s.byesByTeam[b.TeamID] = append(s.byesByTeam[b.TeamID], b)
	}
	for _, n := range in.NoShows {
		s.noShowsByTeam[n.TeamID] = append(s.noShowsByTeam[n.TeamID], n)
	}
	for _, rs := range in.RoundStats {
		s.statsByDebater[rs.DebaterID] = append(s.statsByDebater[rs.DebaterID], rs)
	}
	return s
}

// CurrentRound is the round currently being paired; completed history covers
// rounds 1..CurrentRound-1.
func (s *Stats) CurrentRound() int { return s.currentRound }

// Team looks up a team by id.
func (s *Stats) Team(teamID int) *models.Team { return s.teams[teamID] }

// Debater looks up a debater by id.
func (s *Stats) Debater(debaterID int) *models.Debater { return s.debaters[debaterID] }

// RoundsInNumber returns every in-round with the given round number.
func (s *Stats) RoundsInNumber(roundNumber int) []*models.Round {
	var out []*models.Round
	for _, r := range s.allRounds {
		if r.RoundNumber == roundNumber {
			out = append(out, r)
		}
	}
	return out
}

// Rounds returns the team's in-rounds, gov and opp.
func (s *Stats) Rounds(teamID int) []*models.Round {
	out := make([]*models.Round, 0,
		len(s.govRounds[teamID])+len(s.oppRounds[teamID]))
	out = append(out, s.govRounds[teamID]...)
	out = append(out, s.oppRounds[teamID]...)
	return out
}

func (s *Stats) NumByes(teamID int) int { return len(s.byesByTeam[teamID]) }

func (s *Stats) HadBye(teamID int) bool { return len(s.byesByTeam[teamID]) > 0 }

// HadByeIn reports whether the team had a bye in the given round.
func (s *Stats) HadByeIn(teamID, roundNumber int) bool {
	for _, b := range s.byesByTeam[teamID] {
		if b.RoundNumber == roundNumber {
			return true
		}
	}
	return false
}

// NoShowIn returns the team's no-show for the given round, if any.
func (s *Stats) NoShowIn(teamID, roundNumber int) (models.NoShow, bool) {
	for _, n := range s.noShowsByTeam[teamID] {
		if n.RoundNumber == roundNumber {
			return n, true
		}
	}
	return models.NoShow{}, false
}

func (s *Stats) NumForfeitWins(teamID int) int {
	n := 0
	for _, r := range s.govRounds[teamID] {
		if r.Victor == models.VictorAllWin || r.Victor == models.VictorGovViaForfeit {
			n++
		}
	}
	for _, r := range s.oppRounds[teamID] {
		if r.Victor == models.VictorAllWin || r.Victor == models.VictorOppViaForfeit {
			n++
		}
	}
	return n
}

// NumGovs counts rounds judged with the team on gov, outrounds included.
func (s *Stats) NumGovs(teamID int) int {
	return len(s.govRounds[teamID]) + len(s.govOutrounds[teamID])
}

// NumOpps counts rounds judged with the team on opp, outrounds included.
func (s *Stats) NumOpps(teamID int) int {
	return len(s.oppRounds[teamID]) + len(s.oppOutrounds[teamID])
}

// HitPullUp reports whether the team has ever debated an opponent that was
// pulled up into its bracket.
func (s *Stats) HitPullUp(teamID int) bool {
	for _, r := range s.govRounds[teamID] {
		if r.PullUp == models.PullUpOpp {
			return true
		}
	}
	for _, r := range s.oppRounds[teamID] {
		if r.PullUp == models.PullUpGov {
			return true
		}
	}
	return false
}

// PulledUp reports whether the team itself has ever been pulled up.
func (s *Stats) PulledUp(teamID int) bool {
	for _, r := range s.govRounds[teamID] {
		if r.PullUp == models.PullUpGov {
			return true
		}
	}
	for _, r := range s.oppRounds[teamID] {
		if r.PullUp == models.PullUpOpp {
			return true
		}
	}
	return false
}

// HitBefore reports whether the two teams have already debated each other in
// an in-round.
func (s *Stats) HitBefore(teamA, teamB int) bool {
	_, ok := s.PriorMeeting(teamA, teamB)
	return ok
}

// PriorMeeting returns the earliest in-round the two teams met in, if any.
func (s *Stats) PriorMeeting(teamA, teamB int) (*models.Round, bool) {
	var found *models.Round
	for _, r := range s.govRounds[teamA] {
		if r.OppTeamID == teamB && (found == nil || r.RoundNumber < found.RoundNumber) {
			found = r
		}
	}
	for _, r := range s.oppRounds[teamA] {
		if r.GovTeamID == teamB && (found == nil || r.RoundNumber < found.RoundNumber) {
			found = r
		}
	}
	return found, found != nil
}

// TotWins is decision wins plus forfeit/all-win rounds plus byes.
func (s *Stats) TotWins(teamID int) int {
	if w, ok := s.winsMemo[teamID]; ok {
		return w
	}
	wins := 0
	for _, r := range s.govRounds[teamID] {
		if r.Victor == models.VictorGov {
			wins++
		}
	}
	for _, r := range s.oppRounds[teamID] {
		if r.Victor == models.VictorOpp {
			wins++
		}
	}
	wins += s.NumByes(teamID) + s.NumForfeitWins(teamID)
	s.winsMemo[teamID] = wins
	return wins
}

// OppStrength is the mean of opponents' total wins over the team's played
// rounds; byes contribute nothing.
func (s *Stats) OppStrength(teamID int) float64 {
	count := 0
	wins := 0
	for _, r := range s.govRounds[teamID] {
		wins += s.TotWins(r.OppTeamID)
		count++
	}
	for _, r := range s.oppRounds[teamID] {
		wins += s.TotWins(r.GovTeamID)
		count++
	}
	if count == 0 {
		return 0
	}
	return float64(wins) / float64(count)
}

// statsPerRound groups a debater's score rows by round number. Iron-man
// rounds produce two rows for the same round.
func (s *Stats) statsPerRound(debaterID int) map[int][]*models.RoundStats {
	grouped := make(map[int][]*models.RoundStats)
	for _, rs := range s.statsByDebater[debaterID] {
		r, ok := s.roundsByID[rs.RoundID]
		if !ok {
			continue
		}
		grouped[r.RoundNumber] = append(grouped[r.RoundNumber], rs)
	}
	return grouped
}

// AvgSpeaks is the debater's average speaks over genuinely debated rounds.
// Forfeit rounds are excluded entirely: missing the round is penalty enough,
// and the average backs the lenient substitutions.
func (s *Stats) AvgSpeaks(debaterID int) float64 {
	if v, ok := s.avgSpkMemo[debaterID]; ok {
		return v
	}
	v := s.avgStat(debaterID, func(rs *models.RoundStats) float64 { return rs.Speaks })
	s.avgSpkMemo[debaterID] = v
	return v
}

// AvgRanks is the debater's average ranks over genuinely debated rounds.
func (s *Stats) AvgRanks(debaterID int) float64 {
	if v, ok := s.avgRnkMemo[debaterID]; ok {
		return v
	}
	v := s.avgStat(debaterID, func(rs *models.RoundStats) float64 { return rs.Ranks })
	s.avgRnkMemo[debaterID] = v
	return v
}

func (s *Stats) avgStat(debaterID int, value func(*models.RoundStats) float64) float64 {
	team := s.teamOfDebater[debaterID]
	perRound := s.statsPerRound(debaterID)
	var real []float64
	for rn := 1; rn <= s.currentRound-1; rn++ {
		rows := perRound[rn]
		if len(rows) == 0 {
			continue
		}
		round := s.roundsByID[rows[0].RoundID]
		if team != nil && (round.WonByForfeit(team.ID) || round.Forfeited(team.ID)) {
			continue
		}
		sum := 0.0
		for _, rs := range rows {
			sum += value(rs)
		}
		real = append(real, sum/float64(len(rows)))
	}
	if len(real) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range real {
		sum += v
	}
	return sum / float64(len(real))
}

// SpeaksForDebater returns one speak value per completed round. Iron-man
// rounds are averaged into a single value; forfeit wins, byes, and lenient
// no-shows substitute the debater's running average; strict forfeits
// substitute the minimum.
func (s *Stats) SpeaksForDebater(debaterID int) []float64 {
	if v, ok := s.speaksMemo[debaterID]; ok {
		return v
	}
	v := s.statList(debaterID,
		func(rs *models.RoundStats) float64 { return rs.Speaks },
		s.AvgSpeaks, MinimumDebaterSpeaks)
	s.speaksMemo[debaterID] = v
	return v
}

// RanksForDebater is the analog for ranks; strict forfeits substitute the
// maximum rank.
func (s *Stats) RanksForDebater(debaterID int) []float64 {
	if v, ok := s.ranksMemo[debaterID]; ok {
		return v
	}
	v := s.statList(debaterID,
		func(rs *models.RoundStats) float64 { return rs.Ranks },
		s.AvgRanks, MaximumDebaterRanks)
	s.ranksMemo[debaterID] = v
	return v
}

func (s *Stats) statList(debaterID int, value func(*models.RoundStats) float64,
	avg func(int) float64, forfeitValue float64) []float64 {

	team := s.teamOfDebater[debaterID]
	perRound := s.statsPerRound(debaterID)
	var out []float64
	for rn := 1; rn <= s.currentRound-1; rn++ {
		rows := perRound[rn]
		if len(rows) > 0 {
			// If a debater somehow has rows from two distinct rounds with
			// the same round number, keep the best-scored one.
			sort.Slice(rows, func(i, j int) bool {
				return value(rows[i]) > value(rows[j])
			})
			if !sameRound(rows) {
				rows = rows[:1]
			}
			round := s.roundsByID[rows[0].RoundID]
			switch {
			case team != nil && round.WonByForfeit(team.ID):
				out = append(out, avg(debaterID))
			case team != nil && round.Forfeited(team.ID):
				out = append(out, forfeitValue)
			default:
				sum := 0.0
				for _, rs := range rows {
					sum += value(rs)
				}
				out = append(out, sum/float64(len(rows)))
			}
			continue
		}
		if v, ok := s.abnormalRoundStat(team, debaterID, rn, avg, forfeitValue); ok {
			out = append(out, v)
		}
	}
	return out
}

// abnormalRoundStat supplies the substitute value for a round with no score
// rows: byes and lenient no-shows get the running average, strict no-shows
// the forfeit value. A round the team simply was not paired into contributes
// nothing.
func (s *Stats) abnormalRoundStat(team *models.Team, debaterID, roundNumber int,
	avg func(int) float64, forfeitValue float64) (float64, bool) {

	if team == nil {
		return forfeitValue, true
	}
	noShow, hadNoShow := s.NoShowIn(team.ID, roundNumber)
	if s.HadByeIn(team.ID, roundNumber) || (hadNoShow && noShow.LenientLate) {
		return avg(debaterID), true
	}
	if hadNoShow {
		return forfeitValue, true
	}
	return 0, false
}

func sameRound(rows []*models.RoundStats) bool {
	for _, rs := range rows[1:] {
		if rs.RoundID != rows[0].RoundID {
			return false
		}
	}
	return true
}

// teamStatList is the flat, sorted list of a team's per-round values across
// both debaters, used for totals and drop-high/low adjustments.
func (s *Stats) teamStatList(teamID int, list func(int) []float64) []float64 {
	team := s.teams[teamID]
	if team == nil {
		return nil
	}
	var all []float64
	for _, d := range team.DebaterIDs {
		all = append(all, list(d)...)
	}
	sort.Float64s(all)
	return all
}

func (s *Stats) TotSpeaks(teamID int) float64 {
	return sum(s.teamStatList(teamID, s.SpeaksForDebater))
}

func (s *Stats) TotRanks(teamID int) float64 {
	return sum(s.teamStatList(teamID, s.RanksForDebater))
}

func (s *Stats) SingleAdjustedSpeaks(teamID int) float64 {
	return sum(drop(s.teamStatList(teamID, s.SpeaksForDebater), 1))
}

func (s *Stats) SingleAdjustedRanks(teamID int) float64 {
	return sum(drop(s.teamStatList(teamID, s.RanksForDebater), 1))
}

func (s *Stats) DoubleAdjustedSpeaks(teamID int) float64 {
	return sum(drop(s.teamStatList(teamID, s.SpeaksForDebater), 2))
}

func (s *Stats) DoubleAdjustedRanks(teamID int) float64 {
	return sum(drop(s.teamStatList(teamID, s.RanksForDebater), 2))
}

func sum(vals []float64) float64 {
	total := 0.0
	for _, v := range vals {
		total += v
	}
	return total
}

// drop removes the n lowest and n highest values of a sorted list.
func drop(sorted []float64, n int) []float64 {
	if len(sorted) <= 2*n {
		return nil
	}
	return sorted[n : len(sorted)-n]
}

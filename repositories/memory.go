package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/apdatab/tabcore/models"
)

// Memory is the in-process store backing the full repository surface. All
// methods copy on the way out, so callers can mutate results freely and
// write back through Update methods.
type Memory struct {
	mu sync.Mutex

	nextID int

	teams    map[int]*models.Team
	debaters map[int]*models.Debater
	judges   map[int]*models.Judge
	rooms    map[int]*models.Room
	schools  map[int]*models.School

	judgeCheckIns []models.CheckIn
	roomCheckIns  []models.RoomCheckIn
	scratches     []models.Scratch

	rounds     map[int]*models.Round
	byes       []models.Bye
	noShows    []models.NoShow
	roundStats map[int]*models.RoundStats

	outrounds map[int]*models.Outround
	breaking  map[models.Division][]models.BreakingTeam
}

func NewMemory() *Memory {
	return &Memory{
		nextID:     1,
		teams:      make(map[int]*models.Team),
		debaters:   make(map[int]*models.Debater),
		judges:     make(map[int]*models.Judge),
		rooms:      make(map[int]*models.Room),
		schools:    make(map[int]*models.School),
		rounds:     make(map[int]*models.Round),
		roundStats: make(map[int]*models.RoundStats),
		outrounds:  make(map[int]*models.Outround),
		breaking:   make(map[models.Division][]models.BreakingTeam),
	}
}

var (
	_ TeamRepository         = (*Memory)(nil)
	_ DebaterRepository      = (*Memory)(nil)
	_ JudgeRepository        = (*Memory)(nil)
	_ RoomRepository         = (*Memory)(nil)
	_ SchoolRepository       = (*Memory)(nil)
	_ ScratchRepository      = (*Memory)(nil)
	_ RoundRepository        = (*Memory)(nil)
	_ RoundStatsRepository   = (*Memory)(nil)
	_ OutroundRepository     = (*Memory)(nil)
	_ BreakingTeamRepository = (*Memory)(nil)
)

func (m *Memory) allocate() int {
	id := m.nextID
	m.nextID++
	return id
}

func (m *Memory) CreateTeam(_ context.Context, team *models.Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if team.ID == 0 {
		team.ID = m.allocate()
	}
	copied := *team
	m.teams[team.ID] = &copied
	return nil
}

func (m *Memory) GetTeamByID(_ context.Context, id int) (*models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	team, ok := m.teams[id]
	if !ok {
		return nil, fmt.Errorf("team %d not found", id)
	}
	copied := *team
	return &copied, nil
}

func (m *Memory) ListTeams(_ context.Context) ([]*models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Team, 0, len(m.teams))
	for _, t := range m.teams {
		copied := *t
		out = append(out, &copied)
	}
	sortByID(out, func(t *models.Team) int { return t.ID })
	return out, nil
}

func (m *Memory) UpdateTeam(_ context.Context, team *models.Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.teams[team.ID]; !ok {
		return fmt.Errorf("team %d not found", team.ID)
	}
	copied := *team
	m.teams[team.ID] = &copied
	return nil
}

func (m *Memory) CreateDebater(_ context.Context, debater *models.Debater) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if debater.ID == 0 {
		debater.ID = m.allocate()
	}
	copied := *debater
	m.debaters[debater.ID] = &copied
	return nil
}

func (m *Memory) ListDebaters(_ context.Context) ([]*models.Debater, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Debater, 0, len(m.debaters))
	for _, d := range m.debaters {
		copied := *d
		out = append(out, &copied)
	}
	sortByID(out, func(d *models.Debater) int { return d.ID })
	return out, nil
}

func (m *Memory) CreateJudge(_ context.Context, judge *models.Judge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if judge.ID == 0 {
		judge.ID = m.allocate()
	}
	copied := *judge
	m.judges[judge.ID] = &copied
	return nil
}

func (m *Memory) ListJudges(_ context.Context) ([]*models.Judge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Judge, 0, len(m.judges))
	for _, j := range m.judges {
		copied := *j
		out = append(out, &copied)
	}
	sortByID(out, func(j *models.Judge) int { return j.ID })
	return out, nil
}

func (m *Memory) CheckInJudge(_ context.Context, judgeID, roundNumber int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.judges[judgeID]; !ok {
		return fmt.Errorf("judge %d not found", judgeID)
	}
	for _, ci := range m.judgeCheckIns {
		if ci.JudgeID == judgeID && ci.RoundNumber == roundNumber {
			return nil
		}
	}
	m.judgeCheckIns = append(m.judgeCheckIns, models.CheckIn{JudgeID: judgeID, RoundNumber: roundNumber})
	return nil
}

func (m *Memory) ListJudgeCheckIns(_ context.Context, roundNumber int) ([]models.CheckIn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.CheckIn
	for _, ci := range m.judgeCheckIns {
		if ci.RoundNumber == roundNumber {
			out = append(out, ci)
		}
	}
	return out, nil
}

func (m *Memory) CreateRoom(_ context.Context, room *models.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if room.ID == 0 {
		room.ID = m.allocate()
	}
	copied := *room
	m.rooms[room.ID] = &copied
	return nil
}

func (m *Memory) ListRooms(_ context.Context) ([]*models.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		copied := *r
		out = append(out, &copied)
	}
	sortByID(out, func(r *models.Room) int { return r.ID })
	return out, nil
}

func (m *Memory) CheckInRoom(_ context.Context, roomID, roundNumber int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[roomID]; !ok {
		return fmt.Errorf("room %d not found", roomID)
	}
	for _, ci := range m.roomCheckIns {
		if ci.RoomID == roomID && ci.RoundNumber == roundNumber {
			return nil
		}
	}
	m.roomCheckIns = append(m.roomCheckIns, models.RoomCheckIn{RoomID: roomID, RoundNumber: roundNumber})
	return nil
}

func (m *Memory) ListRoomCheckIns(_ context.Context, roundNumber int) ([]models.RoomCheckIn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.RoomCheckIn
	for _, ci := range m.roomCheckIns {
		if ci.RoundNumber == roundNumber {
			out = append(out, ci)
		}
	}
	return out, nil
}

func (m *Memory) CreateSchool(_ context.Context, school *models.School) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if school.ID == 0 {
		school.ID = m.allocate()
	}
	copied := *school
	m.schools[school.ID] = &copied
	return nil
}

func (m *Memory) ListSchools(_ context.Context) ([]*models.School, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.School, 0, len(m.schools))
	for _, s := range m.schools {
		copied := *s
		out = append(out, &copied)
	}
	sortByID(out, func(s *models.School) int { return s.ID })
	return out, nil
}

func (m *Memory) CreateScratch(_ context.Context, scratch models.Scratch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.scratches {
		if s.JudgeID == scratch.JudgeID && s.TeamID == scratch.TeamID {
			return nil
		}
	}
	m.scratches = append(m.scratches, scratch)
	return nil
}

func (m *Memory) ListScratches(_ context.Context) ([]models.Scratch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Scratch(nil), m.scratches...), nil
}

func (m *Memory) ListRounds(_ context.Context) ([]*models.Round, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Round, 0, len(m.rounds))
	for _, r := range m.rounds {
		out = append(out, copyRound(r))
	}
	sortByID(out, func(r *models.Round) int { return r.ID })
	return out, nil
}

func (m *Memory) ListRoundsByNumber(_ context.Context, roundNumber int) ([]*models.Round, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Round
	for _, r := range m.rounds {
		if r.RoundNumber == roundNumber {
			out = append(out, copyRound(r))
		}
	}
	sortByID(out, func(r *models.Round) int { return r.ID })
	return out, nil
}

func (m *Memory) UpdateRound(_ context.Context, round *models.Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rounds[round.ID]; !ok {
		return fmt.Errorf("round %d not found", round.ID)
	}
	m.rounds[round.ID] = copyRound(round)
	return nil
}

func (m *Memory) ReplaceRound(_ context.Context, roundNumber int, rounds []*models.Round,
	byes []models.Bye, noShows []models.NoShow) error {

	m.mu.Lock()
	defer m.mu.Unlock()

	for id, r := range m.rounds {
		if r.RoundNumber == roundNumber {
			delete(m.rounds, id)
		}
	}
	m.byes = deleteByRound(m.byes, roundNumber, func(b models.Bye) int { return b.RoundNumber })
	m.noShows = deleteByRound(m.noShows, roundNumber, func(n models.NoShow) int { return n.RoundNumber })

	for _, r := range rounds {
		if r.ID == 0 {
			r.ID = m.allocate()
		}
		m.rounds[r.ID] = copyRound(r)
	}
	m.byes = append(m.byes, byes...)
	m.noShows = append(m.noShows, noShows...)
	return nil
}

func (m *Memory) ListByes(_ context.Context) ([]models.Bye, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Bye(nil), m.byes...), nil
}

func (m *Memory) ListNoShows(_ context.Context) ([]models.NoShow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.NoShow(nil), m.noShows...), nil
}

func (m *Memory) CreateRoundStats(_ context.Context, stats *models.RoundStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if stats.ID == 0 {
		stats.ID = m.allocate()
	}
	copied := *stats
	m.roundStats[stats.ID] = &copied
	return nil
}

func (m *Memory) ListRoundStats(_ context.Context) ([]*models.RoundStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.RoundStats, 0, len(m.roundStats))
	for _, rs := range m.roundStats {
		copied := *rs
		out = append(out, &copied)
	}
	sortByID(out, func(rs *models.RoundStats) int { return rs.ID })
	return out, nil
}

func (m *Memory) ListOutrounds(_ context.Context) ([]*models.Outround, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Outround, 0, len(m.outrounds))
	for _, o := range m.outrounds {
		out = append(out, copyOutround(o))
	}
	sortByID(out, func(o *models.Outround) int { return o.ID })
	return out, nil
}

func (m *Memory) UpdateOutround(_ context.Context, outround *models.Outround) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.outrounds[outround.ID]; !ok {
		return fmt.Errorf("outround %d not found", outround.ID)
	}
	m.outrounds[outround.ID] = copyOutround(outround)
	return nil
}

func (m *Memory) ReplaceOutrounds(_ context.Context, division models.Division, numTeams int,
	outrounds []*models.Outround) error {

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, o := range m.outrounds {
		if o.Division == division && o.NumTeams == numTeams {
			delete(m.outrounds, id)
		}
	}
	for _, o := range outrounds {
		if o.ID == 0 {
			o.ID = m.allocate()
		}
		m.outrounds[o.ID] = copyOutround(o)
	}
	return nil
}

func (m *Memory) ReplaceBreak(_ context.Context, division models.Division,
	breaking []models.BreakingTeam) error {

	m.mu.Lock()
	defer m.mu.Unlock()
	m.breaking[division] = append([]models.BreakingTeam(nil), breaking...)
	return nil
}

func (m *Memory) ListBreakingTeams(_ context.Context, division models.Division) ([]models.BreakingTeam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.BreakingTeam(nil), m.breaking[division]...), nil
}

func (m *Memory) UpdateBreakingTeam(_ context.Context, breaking models.BreakingTeam) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, bt := range m.breaking[breaking.Division] {
		if bt.TeamID == breaking.TeamID {
			m.breaking[breaking.Division][i] = breaking
			return nil
		}
	}
	return fmt.Errorf("team %d is not breaking in the %s division", breaking.TeamID, breaking.Division)
}

func copyRound(r *models.Round) *models.Round {
	copied := *r
	copied.JudgeIDs = append([]int(nil), r.JudgeIDs...)
	if r.ChairID != nil {
		chair := *r.ChairID
		copied.ChairID = &chair
	}
	if r.RoomID != nil {
		room := *r.RoomID
		copied.RoomID = &room
	}
	return &copied
}

func copyOutround(o *models.Outround) *models.Outround {
	copied := *o
	copied.JudgeIDs = append([]int(nil), o.JudgeIDs...)
	if o.ChairID != nil {
		chair := *o.ChairID
		copied.ChairID = &chair
	}
	if o.RoomID != nil {
		room := *o.RoomID
		copied.RoomID = &room
	}
	return &copied
}

func deleteByRound[T any](rows []T, roundNumber int, number func(T) int) []T {
	out := rows[:0]
	for _, row := range rows {
		if number(row) != roundNumber {
			out = append(out, row)
		}
	}
	return out
}

func sortByID[T any](rows []T, id func(T) int) {
	sort.Slice(rows, func(i, j int) bool { return id(rows[i]) < id(rows[j]) })
}

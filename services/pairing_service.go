package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"

	"github.com/apdatab/tabcore/assign"
	"github.com/apdatab/tabcore/brackets"
	"github.com/apdatab/tabcore/config"
	"github.com/apdatab/tabcore/models"
)

// PairingRun is one committed pairing of the current round, tagged with an
// audit id that appears in every log line of the run.
type PairingRun struct {
	RunID   string           `json:"run_id"`
	Rounds  []*models.Round  `json:"rounds"`
	Byes    []models.Bye     `json:"byes"`
	NoShows []models.NoShow  `json:"no_shows"`
}

type PairingService interface {
	// PairRound pairs the current round and assigns rooms. Re-running it
	// clears the previous attempt's rows for the round first. Judges are
	// assigned separately by the JudgeService.
	PairRound(ctx context.Context) (*PairingRun, error)
}

type pairingService struct {
	settings *config.Settings
	repos    Repos
	logger   *slog.Logger
}

func NewPairingService(settings *config.Settings, repos Repos, logger *slog.Logger) PairingService {
	return &pairingService{settings: settings, repos: repos, logger: logger}
}

func (s *pairingService) PairRound(ctx context.Context) (*PairingRun, error) {
	runID := uuid.NewString()
	cur := s.settings.CurrentRound
	logger := s.logger.With("run_id", runID, "round", cur)

	if err := s.ensureAffiliationScratches(ctx); err != nil {
		return nil, err
	}

	stats, teams, err := loadStats(ctx, s.repos, cur)
	if err != nil {
		return nil, err
	}
	judgeCheckIns, err := s.repos.Judges.ListJudgeCheckIns(ctx, cur)
	if err != nil {
		return nil, fmt.Errorf("load judge check-ins: %w", err)
	}
	rooms, err := checkedInRooms(ctx, s.repos, cur)
	if err != nil {
		return nil, err
	}

	// Seeded per round so a re-pair of the same round reproduces the same
	// coin flips but different rounds draw different ones.
	rng := rand.New(rand.NewSource(s.settings.PairingSeed + int64(cur)))

	result, err := brackets.PairRound(brackets.SwissParams{
		Settings:  s.settings,
		Stats:     stats,
		Teams:     teams,
		NumJudges: len(judgeCheckIns),
		NumRooms:  len(rooms),
		Rng:       rng,
	})
	if err != nil {
		logger.Warn("pairing aborted", "error", err)
		return nil, fmt.Errorf("pair round %d: %w", cur, err)
	}

	pairings := make([]models.Pairing, len(result.Rounds))
	for i, r := range result.Rounds {
		pairings[i] = r
	}
	if err := assign.Rooms(assign.RoomParams{Pairings: pairings, Rooms: rooms}); err != nil {
		logger.Warn("room assignment aborted", "error", err)
		return nil, fmt.Errorf("assign rooms for round %d: %w", cur, err)
	}

	if err := s.repos.Rounds.ReplaceRound(ctx, cur, result.Rounds, result.Byes, result.NoShows); err != nil {
		return nil, fmt.Errorf("commit round %d: %w", cur, err)
	}
	s.settings.PairingReleased = false
	logger.Info("round paired",
		"pairings", len(result.Rounds),
		"byes", len(result.Byes),
		"no_shows", len(result.NoShows))

	return &PairingRun{
		RunID:   runID,
		Rounds:  result.Rounds,
		Byes:    result.Byes,
		NoShows: result.NoShows,
	}, nil
}

// ensureAffiliationScratches creates a tab-imposed scratch for every
// judge/team school overlap, so affiliation conflicts hold even when
// rejudges are allowed.
func (s *pairingService) ensureAffiliationScratches(ctx context.Context) error {
	judges, err := s.repos.Judges.ListJudges(ctx)
	if err != nil {
		return fmt.Errorf("load judges: %w", err)
	}
	teams, err := s.repos.Teams.ListTeams(ctx)
	if err != nil {
		return fmt.Errorf("load teams: %w", err)
	}
	for _, judge := range judges {
		for _, team := range teams {
			if !judge.AffiliatedWith(team.SchoolIDs()...) {
				continue
			}
			scratch := models.Scratch{JudgeID: judge.ID, TeamID: team.ID, Type: models.TabScratch}
			if err := s.repos.Scratches.CreateScratch(ctx, scratch); err != nil {
				return fmt.Errorf("create affiliation scratch: %w", err)
			}
		}
	}
	return nil
}

// checkedInRooms returns the round's usable rooms, ranked rooms only.
func checkedInRooms(ctx context.Context, repos Repos, roundNumber int) ([]*models.Room, error) {
	checkIns, err := repos.Rooms.ListRoomCheckIns(ctx, roundNumber)
	if err != nil {
		return nil, fmt.Errorf("load room check-ins: %w", err)
	}
	all, err := repos.Rooms.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	byID := make(map[int]*models.Room, len(all))
	for _, r := range all {
		byID[r.ID] = r
	}
	var rooms []*models.Room
	for _, ci := range checkIns {
		if room := byID[ci.RoomID]; room != nil && room.Rank > 0 {
			rooms = append(rooms, room)
		}
	}
	return rooms, nil
}

// checkedInJudges returns the round's available judges.
func checkedInJudges(ctx context.Context, repos Repos, roundNumber int) ([]*models.Judge, error) {
	checkIns, err := repos.Judges.ListJudgeCheckIns(ctx, roundNumber)
	if err != nil {
		return nil, fmt.Errorf("load judge check-ins: %w", err)
	}
	all, err := repos.Judges.ListJudges(ctx)
	if err != nil {
		return nil, fmt.Errorf("load judges: %w", err)
	}
	byID := make(map[int]*models.Judge, len(all))
	for _, j := range all {
		byID[j.ID] = j
	}
	var judges []*models.Judge
	for _, ci := range checkIns {
		if judge := byID[ci.JudgeID]; judge != nil {
			judges = append(judges, judge)
		}
	}
	return judges, nil
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"

	"github.com/apdatab/tabcore/assign"
	"github.com/apdatab/tabcore/config"
	"github.com/apdatab/tabcore/models"
	"github.com/apdatab/tabcore/rankings"
)

type JudgeService interface {
	// AssignJudges clears and re-assigns the current round's chairs and
	// wings. The round must already be paired.
	AssignJudges(ctx context.Context) error
}

type judgeService struct {
	settings *config.Settings
	repos    Repos
	logger   *slog.Logger
}

func NewJudgeService(settings *config.Settings, repos Repos, logger *slog.Logger) JudgeService {
	return &judgeService{settings: settings, repos: repos, logger: logger}
}

func (s *judgeService) AssignJudges(ctx context.Context) error {
	cur := s.settings.CurrentRound

	stats, _, err := loadStats(ctx, s.repos, cur)
	if err != nil {
		return err
	}
	rounds, err := s.repos.Rounds.ListRoundsByNumber(ctx, cur)
	if err != nil {
		return fmt.Errorf("load round %d pairings: %w", cur, err)
	}
	if len(rounds) == 0 {
		return fmt.Errorf("assign judges for round %d: %w", cur, ErrRoundNotFound)
	}
	judges, err := checkedInJudges(ctx, s.repos, cur)
	if err != nil {
		return err
	}
	scratches, err := s.repos.Scratches.ListScratches(ctx)
	if err != nil {
		return fmt.Errorf("load scratches: %w", err)
	}

	rng := rand.New(rand.NewSource(s.settings.JudgeSeed))
	ordered := orderForJudging(rounds, stats, rng)

	pairings := make([]models.Pairing, len(ordered))
	for i, r := range ordered {
		pairings[i] = r
	}
	err = assign.Judges(assign.JudgeParams{
		Settings:  s.settings,
		Stats:     stats,
		Pairings:  pairings,
		Judges:    judges,
		Scratches: scratches,
		Rng:       rng,
	})
	if err != nil {
		s.logger.Warn("judge assignment aborted", "round", cur, "error", err)
		return fmt.Errorf("assign judges for round %d: %w", cur, err)
	}

	for _, r := range ordered {
		if err := s.repos.Rounds.UpdateRound(ctx, r); err != nil {
			return fmt.Errorf("save judges for round %d: %w", r.ID, err)
		}
	}
	s.logger.Info("judges assigned", "round", cur,
		"pairings", len(ordered), "judges", len(judges))
	return nil
}

// orderForJudging puts the strongest pairing first, shuffling before the
// stable sort so equal pairings come out in seeded random order. This is
// the canonical ordering the rank-gap weights are computed against.
func orderForJudging(rounds []*models.Round, stats *rankings.Stats, rng *rand.Rand) []*models.Round {
	position := make(map[int]int)
	for idx, score := range stats.RankTeams(nil) {
		position[score.TeamID] = idx
	}
	ordered := append([]*models.Round(nil), rounds...)
	rng.Shuffle(len(ordered), func(i, j int) { ordered[i], ordered[j] = ordered[j], ordered[i] })
	sort.SliceStable(ordered, func(i, j int) bool {
		return bestRoundPosition(ordered[i], position) < bestRoundPosition(ordered[j], position)
	})
	return ordered
}

func bestRoundPosition(r *models.Round, position map[int]int) int {
	gov, opp := position[r.GovTeamID], position[r.OppTeamID]
	if gov < opp {
		return gov
	}
	return opp
}

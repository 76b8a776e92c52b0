package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/apdatab/tabcore/config"
	"github.com/apdatab/tabcore/models"
)

type ResultService interface {
	// EnterResult records an in-round's victor plus the ballot's per-debater
	// speaks and ranks. Decided rounds need a corrected re-entry, not a
	// second entry.
	EnterResult(ctx context.Context, roundID int, victor models.Victor,
		ballots []models.RoundStats) error
}

type resultService struct {
	settings *config.Settings
	repos    Repos
	logger   *slog.Logger
}

func NewResultService(settings *config.Settings, repos Repos, logger *slog.Logger) ResultService {
	return &resultService{settings: settings, repos: repos, logger: logger}
}

func (s *resultService) EnterResult(ctx context.Context, roundID int, victor models.Victor,
	ballots []models.RoundStats) error {

	if victor == models.VictorNone {
		return ErrVictorRequired
	}
	rounds, err := s.repos.Rounds.ListRounds(ctx)
	if err != nil {
		return fmt.Errorf("load rounds: %w", err)
	}
	var target *models.Round
	for _, r := range rounds {
		if r.ID == roundID {
			target = r
			break
		}
	}
	if target == nil {
		return fmt.Errorf("round %d: %w", roundID, ErrRoundNotFound)
	}
	if target.Victor != models.VictorNone {
		return fmt.Errorf("round %d: %w", roundID, ErrVictorAlreadySet)
	}

	members := make(map[int]bool)
	for _, teamID := range []int{target.GovTeamID, target.OppTeamID} {
		team, err := s.repos.Teams.GetTeamByID(ctx, teamID)
		if err != nil {
			return fmt.Errorf("load team %d: %w", teamID, err)
		}
		for _, debaterID := range team.DebaterIDs {
			members[debaterID] = true
		}
	}
	for _, ballot := range ballots {
		if !members[ballot.DebaterID] {
			return fmt.Errorf("debater %d in round %d: %w",
				ballot.DebaterID, roundID, ErrStatsTeamMismatch)
		}
	}

	target.Victor = victor
	if err := s.repos.Rounds.UpdateRound(ctx, target); err != nil {
		return fmt.Errorf("save round %d: %w", roundID, err)
	}
	for i := range ballots {
		ballots[i].RoundID = roundID
		if err := s.repos.RoundStats.CreateRoundStats(ctx, &ballots[i]); err != nil {
			return fmt.Errorf("save ballot for debater %d: %w", ballots[i].DebaterID, err)
		}
	}
	s.logger.Info("result entered", "round_id", roundID,
		"victor", victor, "ballots", len(ballots))
	return nil
}

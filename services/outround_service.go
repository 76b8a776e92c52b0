package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/apdatab/tabcore/assign"
	"github.com/apdatab/tabcore/brackets"
	"github.com/apdatab/tabcore/config"
	"github.com/apdatab/tabcore/models"
	"github.com/apdatab/tabcore/rankings"
)

// BreakResult is both divisions' seeded breaks.
type BreakResult struct {
	Varsity []models.BreakingTeam `json:"varsity"`
	Novice  []models.BreakingTeam `json:"novice"`
}

type OutroundService interface {
	// PerformBreak seeds both divisions' elimination fields from final
	// in-round standings. A varsity breaker never also breaks novice.
	PerformBreak(ctx context.Context) (*BreakResult, error)

	// PairBracket pairs the division's next elimination round, seating
	// panels and rooms, and commits it. Re-running replaces only that
	// bracket size's debates.
	PairBracket(ctx context.Context, division models.Division) ([]*models.Outround, error)

	// EnterResult records an elimination debate's victor and carries the
	// winner's effective seed forward.
	EnterResult(ctx context.Context, outroundID int, victor models.Victor) error
}

type outroundService struct {
	settings *config.Settings
	repos    Repos
	logger   *slog.Logger
}

func NewOutroundService(settings *config.Settings, repos Repos, logger *slog.Logger) OutroundService {
	return &outroundService{settings: settings, repos: repos, logger: logger}
}

func (s *outroundService) PerformBreak(ctx context.Context) (*BreakResult, error) {
	stats, _, err := loadStats(ctx, s.repos, s.settings.TotalRounds+1)
	if err != nil {
		return nil, err
	}

	varsity, err := brackets.PerformBreak(brackets.BreakParams{
		Settings: s.settings,
		Stats:    stats,
		Division: models.DivisionVarsity,
	})
	if err != nil {
		return nil, fmt.Errorf("varsity break: %w", err)
	}
	exclude := make(map[int]bool, len(varsity))
	for _, bt := range varsity {
		exclude[bt.TeamID] = true
	}
	novice, err := brackets.PerformBreak(brackets.BreakParams{
		Settings: s.settings,
		Stats:    stats,
		Division: models.DivisionNovice,
		Exclude:  exclude,
	})
	if err != nil {
		return nil, fmt.Errorf("novice break: %w", err)
	}

	if err := s.repos.Breaks.ReplaceBreak(ctx, models.DivisionVarsity, varsity); err != nil {
		return nil, fmt.Errorf("save varsity break: %w", err)
	}
	if err := s.repos.Breaks.ReplaceBreak(ctx, models.DivisionNovice, novice); err != nil {
		return nil, fmt.Errorf("save novice break: %w", err)
	}
	s.logger.Info("break performed",
		"varsity", len(varsity), "novice", len(novice))
	return &BreakResult{Varsity: varsity, Novice: novice}, nil
}

func (s *outroundService) PairBracket(ctx context.Context, division models.Division) ([]*models.Outround, error) {
	in, err := loadInput(ctx, s.repos)
	if err != nil {
		return nil, err
	}
	in = historyBefore(in, s.settings.TotalRounds+1)
	// The division's undecided debates are the attempt being replaced;
	// decided ones still feed loser exclusion and side history.
	in.Outrounds = withoutPendingOutrounds(in.Outrounds, division)
	stats := rankings.NewStats(in)
	prior := in.Outrounds

	breaking, err := s.repos.Breaks.ListBreakingTeams(ctx, division)
	if err != nil {
		return nil, fmt.Errorf("load breaking teams: %w", err)
	}
	rooms, err := checkedInRooms(ctx, s.repos, 0)
	if err != nil {
		return nil, err
	}
	judges, err := checkedInJudges(ctx, s.repos, 0)
	if err != nil {
		return nil, err
	}
	scratches, err := s.repos.Scratches.ListScratches(ctx)
	if err != nil {
		return nil, fmt.Errorf("load scratches: %w", err)
	}

	// Judges and rooms sitting on another bracket's undecided debates are
	// not available for this one.
	judges = withoutBusyJudges(judges, prior, division)
	rooms = withoutBusyRooms(rooms, prior, division)

	rng := rand.New(rand.NewSource(s.settings.PairingSeed + int64(s.settings.TotalRounds)))
	outrounds, err := brackets.PairOutround(brackets.OutroundParams{
		Settings:       s.settings,
		Stats:          stats,
		Division:       division,
		BreakingTeams:  breaking,
		PriorOutrounds: prior,
		NumRooms:       len(rooms),
		Rng:            rng,
	})
	if err != nil {
		s.logger.Warn("outround pairing aborted", "division", division.String(), "error", err)
		return nil, fmt.Errorf("pair %s bracket: %w", division, err)
	}
	if len(outrounds) == 0 {
		return nil, fmt.Errorf("pair %s bracket: no debates generated", division)
	}

	err = assign.OutroundJudges(assign.OutroundJudgeParams{
		Settings:  s.settings,
		Stats:     stats,
		Division:  division,
		Outrounds: outrounds,
		Judges:    judges,
		Scratches: scratches,
		Rng:       rng,
	})
	if err != nil {
		return nil, fmt.Errorf("seat %s panels: %w", division, err)
	}

	pairings := make([]models.Pairing, len(outrounds))
	for i, o := range outrounds {
		pairings[i] = o
	}
	if err := assign.Rooms(assign.RoomParams{Pairings: pairings, Rooms: rooms}); err != nil {
		return nil, fmt.Errorf("assign %s outround rooms: %w", division, err)
	}

	numTeams := outrounds[0].NumTeams
	if err := s.repos.Outrounds.ReplaceOutrounds(ctx, division, numTeams, outrounds); err != nil {
		return nil, fmt.Errorf("commit %s bracket of %d: %w", division, numTeams, err)
	}
	s.settings.PairingReleased = false
	s.logger.Info("bracket paired",
		"division", division.String(), "num_teams", numTeams, "debates", len(outrounds))
	return outrounds, nil
}

func (s *outroundService) EnterResult(ctx context.Context, outroundID int, victor models.Victor) error {
	if victor == models.VictorNone {
		return ErrVictorRequired
	}
	all, err := s.repos.Outrounds.ListOutrounds(ctx)
	if err != nil {
		return fmt.Errorf("load outrounds: %w", err)
	}
	var target *models.Outround
	for _, o := range all {
		if o.ID == outroundID {
			target = o
			break
		}
	}
	if target == nil {
		return fmt.Errorf("outround %d: %w", outroundID, ErrOutroundNotFound)
	}

	target.Victor = victor
	if err := s.repos.Outrounds.UpdateOutround(ctx, target); err != nil {
		return fmt.Errorf("save outround %d: %w", outroundID, err)
	}

	winnerID, ok := target.WinnerID()
	if !ok {
		return nil
	}
	loserID, _ := target.LoserID()

	breaking, err := s.repos.Breaks.ListBreakingTeams(ctx, target.Division)
	if err != nil {
		return fmt.Errorf("load breaking teams: %w", err)
	}
	var winner, loser *models.BreakingTeam
	for i := range breaking {
		switch breaking[i].TeamID {
		case winnerID:
			winner = &breaking[i]
		case loserID:
			loser = &breaking[i]
		}
	}
	if winner == nil || loser == nil {
		return fmt.Errorf("outround %d teams: %w", outroundID, ErrNotBreaking)
	}
	brackets.CarryEffectiveSeed(winner, loser)
	if err := s.repos.Breaks.UpdateBreakingTeam(ctx, *winner); err != nil {
		return fmt.Errorf("carry seed for team %d: %w", winner.TeamID, err)
	}
	s.logger.Info("outround result entered",
		"outround", outroundID, "winner", winnerID, "effective_seed", winner.EffectiveSeed)
	return nil
}

func withoutPendingOutrounds(outrounds []*models.Outround, division models.Division) []*models.Outround {
	out := make([]*models.Outround, 0, len(outrounds))
	for _, o := range outrounds {
		if o.Division == division && o.Victor == models.VictorNone {
			continue
		}
		out = append(out, o)
	}
	return out
}

func withoutBusyJudges(judges []*models.Judge, outrounds []*models.Outround, division models.Division) []*models.Judge {
	busy := make(map[int]bool)
	for _, o := range outrounds {
		if o.Division == division || o.Victor != models.VictorNone {
			continue
		}
		for _, id := range o.JudgeIDs {
			busy[id] = true
		}
	}
	out := make([]*models.Judge, 0, len(judges))
	for _, j := range judges {
		if !busy[j.ID] {
			out = append(out, j)
		}
	}
	return out
}

func withoutBusyRooms(rooms []*models.Room, outrounds []*models.Outround, division models.Division) []*models.Room {
	busy := make(map[int]bool)
	for _, o := range outrounds {
		if o.Division == division || o.Victor != models.VictorNone || o.RoomID == nil {
			continue
		}
		busy[*o.RoomID] = true
	}
	out := make([]*models.Room, 0, len(rooms))
	for _, r := range rooms {
		if !busy[r.ID] {
			out = append(out, r)
		}
	}
	return out
}

// Package services orchestrates the engines against the repositories: one
// service per tab-staff command, each a short synchronous computation that
// loads state, runs an engine, and commits the result atomically.
package services

import (
	"context"
	"fmt"

	"github.com/apdatab/tabcore/models"
	"github.com/apdatab/tabcore/rankings"
	"github.com/apdatab/tabcore/repositories"
)

// Repos bundles the repository interfaces the services depend on.
type Repos struct {
	Teams      repositories.TeamRepository
	Debaters   repositories.DebaterRepository
	Judges     repositories.JudgeRepository
	Rooms      repositories.RoomRepository
	Schools    repositories.SchoolRepository
	Scratches  repositories.ScratchRepository
	Rounds     repositories.RoundRepository
	RoundStats repositories.RoundStatsRepository
	Outrounds  repositories.OutroundRepository
	Breaks     repositories.BreakingTeamRepository
}

// MemoryRepos wires every repository slot to one in-memory store.
func MemoryRepos(m *repositories.Memory) Repos {
	return Repos{
		Teams:      m,
		Debaters:   m,
		Judges:     m,
		Rooms:      m,
		Schools:    m,
		Scratches:  m,
		Rounds:     m,
		RoundStats: m,
		Outrounds:  m,
		Breaks:     m,
	}
}

// loadInput reads the full tournament state as one raw scoring input. The
// caller sets CurrentRound and trims whatever it is about to regenerate.
func loadInput(ctx context.Context, repos Repos) (rankings.Input, error) {
	var in rankings.Input
	var err error

	if in.Teams, err = repos.Teams.ListTeams(ctx); err != nil {
		return in, fmt.Errorf("load teams: %w", err)
	}
	if in.Debaters, err = repos.Debaters.ListDebaters(ctx); err != nil {
		return in, fmt.Errorf("load debaters: %w", err)
	}
	if in.Rounds, err = repos.Rounds.ListRounds(ctx); err != nil {
		return in, fmt.Errorf("load rounds: %w", err)
	}
	if in.Outrounds, err = repos.Outrounds.ListOutrounds(ctx); err != nil {
		return in, fmt.Errorf("load outrounds: %w", err)
	}
	if in.Byes, err = repos.Rounds.ListByes(ctx); err != nil {
		return in, fmt.Errorf("load byes: %w", err)
	}
	if in.NoShows, err = repos.Rounds.ListNoShows(ctx); err != nil {
		return in, fmt.Errorf("load no-shows: %w", err)
	}
	if in.RoundStats, err = repos.RoundStats.ListRoundStats(ctx); err != nil {
		return in, fmt.Errorf("load round stats: %w", err)
	}
	return in, nil
}

// historyBefore restricts the input to rounds strictly before currentRound.
// Rows at currentRound itself are a previous attempt about to be replaced;
// feeding them back would make re-runs see their own output as history.
func historyBefore(in rankings.Input, currentRound int) rankings.Input {
	in.CurrentRound = currentRound

	rounds := make([]*models.Round, 0, len(in.Rounds))
	for _, r := range in.Rounds {
		if r.RoundNumber < currentRound {
			rounds = append(rounds, r)
		}
	}
	in.Rounds = rounds

	byes := make([]models.Bye, 0, len(in.Byes))
	for _, b := range in.Byes {
		if b.RoundNumber < currentRound {
			byes = append(byes, b)
		}
	}
	in.Byes = byes

	noShows := make([]models.NoShow, 0, len(in.NoShows))
	for _, ns := range in.NoShows {
		if ns.RoundNumber < currentRound {
			noShows = append(noShows, ns)
		}
	}
	in.NoShows = noShows
	return in
}

// loadStats builds the scoring context for running round currentRound:
// everything entered before it, nothing from the round itself. Each caller
// gets its own context: the memoization inside is not safe for concurrent
// use.
func loadStats(ctx context.Context, repos Repos, currentRound int) (*rankings.Stats, []*models.Team, error) {
	in, err := loadInput(ctx, repos)
	if err != nil {
		return nil, nil, err
	}
	in = historyBefore(in, currentRound)
	return rankings.NewStats(in), in.Teams, nil
}

package services

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/apdatab/tabcore/config"
	"github.com/apdatab/tabcore/rankings"
)

// Standings is the full set of orderings reporting and the break read.
type Standings struct {
	Teams          []rankings.TeamScore    `json:"teams"`
	NoviceTeams    []rankings.TeamScore    `json:"novice_teams"`
	Speakers       []rankings.DebaterScore `json:"speakers"`
	NoviceSpeakers []rankings.DebaterScore `json:"novice_speakers"`
}

type StandingsService interface {
	Standings(ctx context.Context) (*Standings, error)
}

type standingsService struct {
	settings *config.Settings
	repos    Repos
	logger   *slog.Logger
}

func NewStandingsService(settings *config.Settings, repos Repos, logger *slog.Logger) StandingsService {
	return &standingsService{settings: settings, repos: repos, logger: logger}
}

// Standings computes team and speaker orderings concurrently. The two
// goroutines build independent scoring contexts because the memoization
// inside a context is not safe to share.
func (s *standingsService) Standings(ctx context.Context) (*Standings, error) {
	out := &Standings{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stats, _, err := loadStats(gctx, s.repos, s.settings.TotalRounds+1)
		if err != nil {
			return err
		}
		out.Teams = stats.RankTeams(s.logger)
		out.NoviceTeams = stats.RankNoviceTeams(s.logger)
		return nil
	})
	g.Go(func() error {
		stats, _, err := loadStats(gctx, s.repos, s.settings.TotalRounds+1)
		if err != nil {
			return err
		}
		out.Speakers = stats.RankSpeakers(s.logger)
		out.NoviceSpeakers = stats.RankNoviceSpeakers(s.logger)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

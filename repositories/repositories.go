// Package repositories defines the storage contracts the services depend
// on, one interface per entity, plus an in-memory implementation. The
// engines themselves never touch storage; they take and return plain
// records.
package repositories

import (
	"context"

	"github.com/apdatab/tabcore/models"
)

type TeamRepository interface {
	CreateTeam(ctx context.Context, team *models.Team) error
	GetTeamByID(ctx context.Context, id int) (*models.Team, error)
	ListTeams(ctx context.Context) ([]*models.Team, error)
	UpdateTeam(ctx context.Context, team *models.Team) error
}

type DebaterRepository interface {
	CreateDebater(ctx context.Context, debater *models.Debater) error
	ListDebaters(ctx context.Context) ([]*models.Debater, error)
}

type JudgeRepository interface {
	CreateJudge(ctx context.Context, judge *models.Judge) error
	ListJudges(ctx context.Context) ([]*models.Judge, error)
	CheckInJudge(ctx context.Context, judgeID, roundNumber int) error
	ListJudgeCheckIns(ctx context.Context, roundNumber int) ([]models.CheckIn, error)
}

type RoomRepository interface {
	CreateRoom(ctx context.Context, room *models.Room) error
	ListRooms(ctx context.Context) ([]*models.Room, error)
	CheckInRoom(ctx context.Context, roomID, roundNumber int) error
	ListRoomCheckIns(ctx context.Context, roundNumber int) ([]models.RoomCheckIn, error)
}

type SchoolRepository interface {
	CreateSchool(ctx context.Context, school *models.School) error
	ListSchools(ctx context.Context) ([]*models.School, error)
}

type ScratchRepository interface {
	CreateScratch(ctx context.Context, scratch models.Scratch) error
	ListScratches(ctx context.Context) ([]models.Scratch, error)
}

type RoundRepository interface {
	ListRounds(ctx context.Context) ([]*models.Round, error)
	ListRoundsByNumber(ctx context.Context, roundNumber int) ([]*models.Round, error)
	UpdateRound(ctx context.Context, round *models.Round) error

	// ReplaceRound atomically clears one round number's pairing state and
	// writes the new one. Either every row lands or none do.
	ReplaceRound(ctx context.Context, roundNumber int, rounds []*models.Round,
		byes []models.Bye, noShows []models.NoShow) error

	ListByes(ctx context.Context) ([]models.Bye, error)
	ListNoShows(ctx context.Context) ([]models.NoShow, error)
}

type RoundStatsRepository interface {
	CreateRoundStats(ctx context.Context, stats *models.RoundStats) error
	ListRoundStats(ctx context.Context) ([]*models.RoundStats, error)
}

type OutroundRepository interface {
	ListOutrounds(ctx context.Context) ([]*models.Outround, error)
	UpdateOutround(ctx context.Context, outround *models.Outround) error

	// ReplaceOutrounds atomically swaps one bracket size's debates for a
	// division, leaving earlier and later bracket rounds untouched.
	ReplaceOutrounds(ctx context.Context, division models.Division, numTeams int,
		outrounds []*models.Outround) error
}

type BreakingTeamRepository interface {
	ReplaceBreak(ctx context.Context, division models.Division,
		breaking []models.BreakingTeam) error
	ListBreakingTeams(ctx context.Context, division models.Division) ([]models.BreakingTeam, error)
	UpdateBreakingTeam(ctx context.Context, breaking models.BreakingTeam) error
}

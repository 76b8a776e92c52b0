package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/apdatab/tabcore/models"
)

// Wing placement modes for judge assignment.
const (
	WingModeBalance    = "balance"
	WingModeHelpChairs = "help_weaker_chairs"
)

// Settings holds every tournament-wide tunable the engines read. Defaults
// mirror standard APDA tab policy; all penalty weights express relative
// priority (same-school outranks side-balance outranks seed alignment,
// rematch avoidance outranks everything), not hard constraints.
type Settings struct {
	CurrentRound int
	TotalRounds  int

	// LenientLate is the last round number for which a no-show is scored
	// leniently (average performance instead of zero).
	LenientLate int

	// FairBye draws the round-one bye from all checked-in teams; when false
	// only unseeded teams are eligible.
	FairBye bool

	// Pairing penalty weights.
	PowerPairingMultiple float64
	HighOppPenalty       float64
	HighGovPenalty       float64
	HigherOppPenalty     float64
	SameSchoolPenalty    float64
	HitPullUpBefore      float64
	HitTeamBefore        float64

	// Judge assignment.
	AllowRejudges  bool
	RejudgePenalty float64
	WingMode       string
	MaxWings       int

	// Outrounds.
	VarTeamsToBreak int
	NovTeamsToBreak int
	VarPanelSize    int
	NovPanelSize    int
	Sidelock        bool
	SnakePanels     bool

	// PairingReleased marks the current pairing as published to
	// competitors. Re-pairing resets it.
	PairingReleased bool

	// Seeds for the deterministic random contract. Fixed values keep
	// pairings reproducible for auditing and tests.
	PairingSeed int64
	JudgeSeed   int64
}

// Default returns the settings a fresh tournament starts with.
func Default() *Settings {
	return &Settings{
		CurrentRound:         1,
		TotalRounds:          5,
		LenientLate:          0,
		FairBye:              true,
		PowerPairingMultiple: -1,
		HighOppPenalty:       0,
		HighGovPenalty:       -100,
		HigherOppPenalty:     -10,
		SameSchoolPenalty:    -1000,
		HitPullUpBefore:      -10000,
		HitTeamBefore:        -100000,
		AllowRejudges:        false,
		RejudgePenalty:       -50,
		WingMode:             WingModeBalance,
		MaxWings:             2,
		VarTeamsToBreak:      8,
		NovTeamsToBreak:      4,
		VarPanelSize:         3,
		NovPanelSize:         3,
		Sidelock:             false,
		SnakePanels:          true,
		PairingSeed:          0xBEEF,
		JudgeSeed:            1337,
	}
}

// Load builds Settings from environment variables on top of the defaults.
// A .env file is loaded when present; a missing file is not an error.
func Load() (*Settings, error) {
	_ = godotenv.Load()

	s := Default()
	var err error

	if err = loadInt("TAB_CURRENT_ROUND", &s.CurrentRound); err != nil {
		return nil, err
	}
	if err = loadInt("TAB_TOTAL_ROUNDS", &s.TotalRounds); err != nil {
		return nil, err
	}
	if err = loadInt("TAB_LENIENT_LATE", &s.LenientLate); err != nil {
		return nil, err
	}
	if err = loadBool("TAB_FAIR_BYE", &s.FairBye); err != nil {
		return nil, err
	}
	if err = loadFloat("TAB_POWER_PAIRING_MULTIPLE", &s.PowerPairingMultiple); err != nil {
		return nil, err
	}
	if err = loadFloat("TAB_SAME_SCHOOL_PENALTY", &s.SameSchoolPenalty); err != nil {
		return nil, err
	}
	if err = loadFloat("TAB_HIT_TEAM_BEFORE", &s.HitTeamBefore); err != nil {
		return nil, err
	}
	if err = loadBool("TAB_ALLOW_REJUDGES", &s.AllowRejudges); err != nil {
		return nil, err
	}
	if v := os.Getenv("TAB_WING_MODE"); v != "" {
		if v != WingModeBalance && v != WingModeHelpChairs {
			return nil, fmt.Errorf("invalid TAB_WING_MODE %q", v)
		}
		s.WingMode = v
	}
	if err = loadInt("TAB_VAR_TEAMS_TO_BREAK", &s.VarTeamsToBreak); err != nil {
		return nil, err
	}
	if err = loadInt("TAB_NOV_TEAMS_TO_BREAK", &s.NovTeamsToBreak); err != nil {
		return nil, err
	}
	if err = loadInt("TAB_VAR_PANEL_SIZE", &s.VarPanelSize); err != nil {
		return nil, err
	}
	if err = loadInt("TAB_NOV_PANEL_SIZE", &s.NovPanelSize); err != nil {
		return nil, err
	}
	if err = loadBool("TAB_SIDELOCK", &s.Sidelock); err != nil {
		return nil, err
	}

	if s.CurrentRound < 1 {
		return nil, fmt.Errorf("TAB_CURRENT_ROUND must be at least 1, got %d", s.CurrentRound)
	}
	if s.TotalRounds < 1 {
		return nil, fmt.Errorf("TAB_TOTAL_ROUNDS must be at least 1, got %d", s.TotalRounds)
	}
	return s, nil
}

// PanelSize returns the configured outround panel size for a division.
func (s *Settings) PanelSize(division models.Division) int {
	if division == models.DivisionNovice {
		return s.NovPanelSize
	}
	return s.VarPanelSize
}

// TeamsToBreak returns the configured break size for a division.
func (s *Settings) TeamsToBreak(division models.Division) int {
	if division == models.DivisionNovice {
		return s.NovTeamsToBreak
	}
	return s.VarTeamsToBreak
}

func loadInt(key string, dst *int) error {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	*dst = v
	return nil
}

func loadFloat(key string, dst *float64) error {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	*dst = v
	return nil
}

func loadBool(key string, dst *bool) error {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	*dst = v
	return nil
}

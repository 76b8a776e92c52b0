package services

import "errors"

// Sentinel errors shared across services. Engine-level failures (not
// enough judges, bad break, unassignable pairing) come through as the typed
// errors from the brackets and assign packages, wrapped with context.
var (
	ErrRoundNotFound     = errors.New("round not found")
	ErrOutroundNotFound  = errors.New("outround not found")
	ErrVictorRequired    = errors.New("a victor is required to enter a result")
	ErrVictorAlreadySet  = errors.New("round already has a victor entered")
	ErrStatsTeamMismatch = errors.New("round stats debater is not in the round")
	ErrNotBreaking       = errors.New("team is not in the break")
)

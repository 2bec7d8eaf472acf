package services

import "errors"

var (
	ErrTournamentNameRequired = errors.New("tournament name is required")
	ErrInvalidFormat          = errors.New("unknown tournament format")
	ErrInvalidConfig          = errors.New("invalid tournament configuration")
	ErrWrongFormat            = errors.New("operation not available for this tournament format")

	ErrTeamNotFound      = errors.New("team not found")
	ErrTeamNameRequired  = errors.New("team name is required")
	ErrDuplicateTeamName = errors.New("a team with this name is already registered")
	ErrNotEnoughTeams    = errors.New("not enough teams registered")

	ErrPoolNotFound     = errors.New("pool not found")
	ErrPoolsNotAssigned = errors.New("teams have not been assigned to pools yet")

	ErrMatchNotFound      = errors.New("match not found")
	ErrInvalidScore       = errors.New("scores must be zero or positive")
	ErrInvalidForfeitSide = errors.New("forfeit side must be 1 or 2")

	ErrPoolsNotFinished    = errors.New("all pool matches must be played before finalizing")
	ErrKnockoutNotReady    = errors.New("knockout bracket has not been generated")
	ErrKnockoutInProgress  = errors.New("knockout bracket already exists; reset it first")

	ErrBreakNotFound      = errors.New("break not found")
	ErrAssignmentNotFound = errors.New("schedule assignment not found")
	ErrInvalidTimeWindow  = errors.New("schedule start must be before end")
	ErrInvalidDuration    = errors.New("match duration must be positive")
)

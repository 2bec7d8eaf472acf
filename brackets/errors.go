package brackets

import "errors"

var (
	// ErrNotEnoughTeams is returned when a stage needs at least two teams.
	ErrNotEnoughTeams = errors.New("not enough teams (minimum 2 required)")

	// ErrNotPowerOfTwo is returned when a bracket is requested for a team
	// count that cannot fill a single-elimination tree.
	ErrNotPowerOfTwo = errors.New("team count must be a power of two")

	// ErrDrawNotAllowed rejects equal scores at the knockout stage.
	ErrDrawNotAllowed = errors.New("knockout match cannot end in a draw")

	// ErrMatchNotReady rejects a result for a match missing one or both teams.
	ErrMatchNotReady = errors.New("both teams must be assigned before recording a result")

	// ErrMatchNotFound is returned when a bracket match id is unknown.
	ErrMatchNotFound = errors.New("bracket match not found")

	// ErrUndoBlocked rejects an undo when a downstream match already has a result.
	ErrUndoBlocked = errors.New("cannot undo: a subsequent match has already been played")

	// ErrNegativeScore rejects scores below zero.
	ErrNegativeScore = errors.New("scores must be zero or positive")
)

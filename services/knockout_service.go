package services

import (
	"context"
	"fmt"

	"github.com/tmarchal/boccia-manager/brackets"
	"github.com/tmarchal/boccia-manager/models"
)

// KnockoutService drives the single-elimination stage: qualification from
// the pools, bracket generation and result propagation.
type KnockoutService interface {
	FinalizePools(ctx context.Context, tournamentID int) (*models.Tournament, error)
	GenerateFromTeams(ctx context.Context, tournamentID int) (*models.Tournament, error)
	RecordResult(ctx context.Context, tournamentID int, matchID string, score1, score2 int) (*models.Tournament, error)
	UndoResult(ctx context.Context, tournamentID int, matchID string) (*models.Tournament, error)
}

type knockoutService struct {
	tournaments TournamentService
	hub         *brackets.Hub
}

func NewKnockoutService(tournaments TournamentService, hub *brackets.Hub) KnockoutService {
	return &knockoutService{tournaments: tournaments, hub: hub}
}

// FinalizePools closes the pool stage: every pool match must be played, the
// top N of each pool qualify, and the seeded bracket is generated from them.
func (s *knockoutService) FinalizePools(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	t, err := s.tournaments.Mutate(ctx, tournamentID, func(t *models.Tournament) error {
		if t.Info.Format != models.FormatPoolsKnockout {
			return fmt.Errorf("%w: %s cannot finalize pools into a bracket", ErrWrongFormat, t.Info.Format)
		}
		if t.Knockout.Generated() {
			return ErrKnockoutInProgress
		}
		if len(t.Pools) == 0 {
			return ErrPoolsNotAssigned
		}
		for _, m := range t.Matches {
			if !m.Played {
				return fmt.Errorf("%w: match %s is still open", ErrPoolsNotFinished, m.ID)
			}
		}

		qualifiers := make([]models.QualifiedTeam, 0, len(t.Pools)*t.Config.TeamsQualifying)
		for _, pool := range t.Pools {
			standings := brackets.ComputeStandings(pool, t.Matches, t.Config.ScoringRules)
			n := t.Config.TeamsQualifying
			if n > len(standings) {
				n = len(standings)
			}
			for rank := 0; rank < n; rank++ {
				qualifiers = append(qualifiers, models.QualifiedTeam{
					Name: standings[rank].Name,
					Pool: pool.ID,
					Rank: rank + 1,
				})
			}
		}

		seeded := brackets.SortTeamsForKnockout(qualifiers)
		names := make([]string, len(seeded))
		for i, q := range seeded {
			names[i] = q.Name
		}
		k, err := brackets.BuildBracket(names)
		if err != nil {
			return err
		}
		t.Knockout = *k
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.broadcast(t, "BRACKET_UPDATED")
	return t, nil
}

// GenerateFromTeams builds the bracket straight from the registration list,
// for tournaments without a pool stage. Registration order is bracket order.
func (s *knockoutService) GenerateFromTeams(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	t, err := s.tournaments.Mutate(ctx, tournamentID, func(t *models.Tournament) error {
		if t.Info.Format != models.FormatKnockoutOnly {
			return fmt.Errorf("%w: %s generates its bracket from pool results", ErrWrongFormat, t.Info.Format)
		}
		if t.Knockout.Generated() {
			return ErrKnockoutInProgress
		}

		names := make([]string, len(t.Teams))
		for i, team := range t.Teams {
			names[i] = team.Name
		}
		k, err := brackets.BuildBracket(names)
		if err != nil {
			return err
		}
		t.Knockout = *k
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.broadcast(t, "BRACKET_UPDATED")
	return t, nil
}

func (s *knockoutService) RecordResult(ctx context.Context, tournamentID int, matchID string, score1, score2 int) (*models.Tournament, error) {
	t, err := s.tournaments.Mutate(ctx, tournamentID, func(t *models.Tournament) error {
		if !t.Knockout.Generated() {
			return ErrKnockoutNotReady
		}
		return brackets.RecordResult(&t.Knockout, matchID, score1, score2)
	})
	if err != nil {
		return nil, err
	}
	s.broadcast(t, "BRACKET_UPDATED")
	return t, nil
}

func (s *knockoutService) UndoResult(ctx context.Context, tournamentID int, matchID string) (*models.Tournament, error) {
	t, err := s.tournaments.Mutate(ctx, tournamentID, func(t *models.Tournament) error {
		if !t.Knockout.Generated() {
			return ErrKnockoutNotReady
		}
		return brackets.UndoResult(&t.Knockout, matchID)
	})
	if err != nil {
		return nil, err
	}
	s.broadcast(t, "BRACKET_UPDATED")
	return t, nil
}

func (s *knockoutService) broadcast(t *models.Tournament, event string) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToRoom(roomID(t.ID), brackets.Event{Type: event, Payload: t})
}

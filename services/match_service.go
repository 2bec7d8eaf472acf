package services

import (
	"context"
	"fmt"

	"github.com/tmarchal/boccia-manager/brackets"
	"github.com/tmarchal/boccia-manager/models"
)

// GenerateResult is the outcome of a pool match generation run. Warnings
// carry the pools whose match quota could not be met exactly.
type GenerateResult struct {
	Tournament *models.Tournament `json:"tournament"`
	Warnings   []string           `json:"warnings,omitempty"`
}

// MatchService handles the pool stage: match generation and results.
type MatchService interface {
	Generate(ctx context.Context, tournamentID int) (*GenerateResult, error)
	SaveResult(ctx context.Context, tournamentID int, matchID string, score1, score2 int) (*models.Tournament, error)
	EditResult(ctx context.Context, tournamentID int, matchID string) (*models.Tournament, error)
	SetForfeit(ctx context.Context, tournamentID int, matchID string, side models.ForfeitSide) (*models.Tournament, error)
}

type matchService struct {
	tournaments TournamentService
	knockout    KnockoutService
	hub         *brackets.Hub
}

func NewMatchService(tournaments TournamentService, knockout KnockoutService, hub *brackets.Hub) MatchService {
	return &matchService{tournaments: tournaments, knockout: knockout, hub: hub}
}

// Generate builds the match list for every pool, replacing any previous
// pool matches. Existing results are lost; court assignments referring to
// the old matches are dropped with them. Knockout-only tournaments have no
// pool matches to generate, so the call becomes a bracket generation.
func (s *matchService) Generate(ctx context.Context, tournamentID int) (*GenerateResult, error) {
	current, err := s.tournaments.Get(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if current.Info.Format == models.FormatKnockoutOnly {
		t, err := s.knockout.GenerateFromTeams(ctx, tournamentID)
		if err != nil {
			return nil, err
		}
		return &GenerateResult{Tournament: t}, nil
	}

	var warnings []string
	t, err := s.tournaments.Mutate(ctx, tournamentID, func(t *models.Tournament) error {
		if !t.Info.Format.HasPools() {
			return fmt.Errorf("%w: %s has no pool stage", ErrWrongFormat, t.Info.Format)
		}
		if len(t.Pools) == 0 {
			return ErrPoolsNotAssigned
		}

		matches := make([]*models.Match, 0)
		for _, pool := range t.Pools {
			sched, err := brackets.GeneratePoolMatches(pool, t.Config.MatchesPerTeam)
			if err != nil {
				return err
			}
			matches = append(matches, sched.Matches...)
			warnings = append(warnings, sched.Warnings...)
		}

		t.Matches = matches
		t.Knockout = models.Knockout{}
		t.Schedule.Assignments = []*models.ScheduleAssignment{}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(t, "MATCHES_GENERATED")
	return &GenerateResult{Tournament: t, Warnings: warnings}, nil
}

func (s *matchService) SaveResult(ctx context.Context, tournamentID int, matchID string, score1, score2 int) (*models.Tournament, error) {
	if score1 < 0 || score2 < 0 {
		return nil, ErrInvalidScore
	}
	t, err := s.tournaments.Mutate(ctx, tournamentID, func(t *models.Tournament) error {
		m := t.MatchByID(matchID)
		if m == nil {
			return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
		}
		s1, s2 := score1, score2
		m.Score1 = &s1
		m.Score2 = &s2
		m.Played = true
		m.Forfeit = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.broadcast(t, "MATCH_UPDATED")
	return t, nil
}

// EditResult reopens a played match so a corrected score can be entered.
func (s *matchService) EditResult(ctx context.Context, tournamentID int, matchID string) (*models.Tournament, error) {
	t, err := s.tournaments.Mutate(ctx, tournamentID, func(t *models.Tournament) error {
		m := t.MatchByID(matchID)
		if m == nil {
			return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
		}
		m.Score1 = nil
		m.Score2 = nil
		m.Played = false
		m.Forfeit = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.broadcast(t, "MATCH_UPDATED")
	return t, nil
}

// SetForfeit records a walkover: the forfeiting side scores zero and the
// opponent is awarded the conventional scoreline.
func (s *matchService) SetForfeit(ctx context.Context, tournamentID int, matchID string, side models.ForfeitSide) (*models.Tournament, error) {
	if side != models.ForfeitTeam1 && side != models.ForfeitTeam2 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidForfeitSide, side)
	}
	t, err := s.tournaments.Mutate(ctx, tournamentID, func(t *models.Tournament) error {
		m := t.MatchByID(matchID)
		if m == nil {
			return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
		}
		winner, loser := models.ForfeitScore, 0
		if side == models.ForfeitTeam1 {
			m.Score1, m.Score2 = &loser, &winner
		} else {
			m.Score1, m.Score2 = &winner, &loser
		}
		forfeit := side
		m.Forfeit = &forfeit
		m.Played = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.broadcast(t, "MATCH_UPDATED")
	return t, nil
}

func (s *matchService) broadcast(t *models.Tournament, event string) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToRoom(roomID(t.ID), brackets.Event{Type: event, Payload: t})
}

// roomID names the websocket room of a tournament.
func roomID(tournamentID int) string {
	return fmt.Sprintf("tournament_%d", tournamentID)
}

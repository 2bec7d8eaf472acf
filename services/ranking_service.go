package services

import (
	"context"
	"fmt"

	"github.com/tmarchal/boccia-manager/brackets"
	"github.com/tmarchal/boccia-manager/models"
)

// RankingService exposes standings and the overall ranking. Both are pure
// recomputations from the state document; nothing is cached or stored.
type RankingService interface {
	PoolStandings(ctx context.Context, tournamentID, poolID int) ([]*models.Standing, error)
	OverallRanking(ctx context.Context, tournamentID int) ([]models.RankingEntry, error)
}

type rankingService struct {
	tournaments TournamentService
}

func NewRankingService(tournaments TournamentService) RankingService {
	return &rankingService{tournaments: tournaments}
}

func (s *rankingService) PoolStandings(ctx context.Context, tournamentID, poolID int) ([]*models.Standing, error) {
	t, err := s.tournaments.Get(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	pool := t.PoolByID(poolID)
	if pool == nil {
		return nil, fmt.Errorf("%w: %d", ErrPoolNotFound, poolID)
	}
	return brackets.ComputeStandings(pool, t.Matches, t.Config.ScoringRules), nil
}

func (s *rankingService) OverallRanking(ctx context.Context, tournamentID int) ([]models.RankingEntry, error) {
	t, err := s.tournaments.Get(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return brackets.ComputeOverallRanking(t), nil
}

package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/tmarchal/boccia-manager/models"
	"github.com/tmarchal/boccia-manager/repositories"
)

// TournamentService owns the tournament lifecycle and the per-tournament
// lock. Every mutation of a tournament's state document, from any service,
// goes through Mutate so concurrent organizers cannot interleave a
// read-modify-write.
type TournamentService interface {
	Create(ctx context.Context, info models.TournamentInfo, cfg *models.TournamentConfig) (*models.Tournament, error)
	Get(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context) ([]*models.Tournament, error)
	UpdateInfo(ctx context.Context, id int, info models.TournamentInfo) (*models.Tournament, error)
	UpdateConfig(ctx context.Context, id int, cfg models.TournamentConfig) (*models.Tournament, error)
	Reset(ctx context.Context, id int) (*models.Tournament, error)
	Delete(ctx context.Context, id int) error

	// Mutate loads the tournament, applies fn under the tournament's lock
	// and persists the result. fn returning an error aborts the save.
	Mutate(ctx context.Context, id int, fn func(*models.Tournament) error) (*models.Tournament, error)
}

type tournamentService struct {
	repo repositories.TournamentRepository

	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func NewTournamentService(repo repositories.TournamentRepository) TournamentService {
	return &tournamentService{
		repo:  repo,
		locks: make(map[int]*sync.Mutex),
	}
}

func (s *tournamentService) lockFor(id int) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *tournamentService) Create(ctx context.Context, info models.TournamentInfo, cfg *models.TournamentConfig) (*models.Tournament, error) {
	if err := validateInfo(info); err != nil {
		return nil, err
	}
	config := models.DefaultTournamentConfig()
	if cfg != nil {
		config = *cfg
	}
	if err := validateConfig(info.Format, config); err != nil {
		return nil, err
	}

	t := &models.Tournament{
		Info:     info,
		Config:   config,
		Teams:    []*models.Team{},
		Pools:    []*models.Pool{},
		Matches:  []*models.Match{},
		Schedule: models.DefaultSchedule(),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *tournamentService) Get(ctx context.Context, id int) (*models.Tournament, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *tournamentService) List(ctx context.Context) ([]*models.Tournament, error) {
	return s.repo.List(ctx)
}

func (s *tournamentService) UpdateInfo(ctx context.Context, id int, info models.TournamentInfo) (*models.Tournament, error) {
	if err := validateInfo(info); err != nil {
		return nil, err
	}
	return s.Mutate(ctx, id, func(t *models.Tournament) error {
		if info.Format != t.Info.Format && stageStarted(t) {
			return fmt.Errorf("%w: cannot change format after matches exist", ErrInvalidConfig)
		}
		t.Info = info
		return nil
	})
}

func (s *tournamentService) UpdateConfig(ctx context.Context, id int, cfg models.TournamentConfig) (*models.Tournament, error) {
	return s.Mutate(ctx, id, func(t *models.Tournament) error {
		if err := validateConfig(t.Info.Format, cfg); err != nil {
			return err
		}
		t.Config = cfg
		return nil
	})
}

// Reset clears the competition state but keeps the registered teams and the
// settings, so an organizer can re-run the draw from scratch.
func (s *tournamentService) Reset(ctx context.Context, id int) (*models.Tournament, error) {
	return s.Mutate(ctx, id, func(t *models.Tournament) error {
		t.Pools = []*models.Pool{}
		t.Matches = []*models.Match{}
		t.Knockout = models.Knockout{}
		t.Schedule.Assignments = []*models.ScheduleAssignment{}
		for _, team := range t.Teams {
			team.Pool = nil
		}
		return nil
	})
}

func (s *tournamentService) Delete(ctx context.Context, id int) error {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.locks, id)
	s.mu.Unlock()
	return nil
}

func (s *tournamentService) Mutate(ctx context.Context, id int, fn func(*models.Tournament) error) (*models.Tournament, error) {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(t); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, nil, t); err != nil {
		return nil, err
	}
	return t, nil
}

func stageStarted(t *models.Tournament) bool {
	return len(t.Matches) > 0 || t.Knockout.Generated()
}

func validateInfo(info models.TournamentInfo) error {
	if strings.TrimSpace(info.Name) == "" {
		return ErrTournamentNameRequired
	}
	switch info.Format {
	case models.FormatPoolsOnly, models.FormatKnockoutOnly, models.FormatPoolsKnockout:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, info.Format)
	}
}

func validateConfig(format models.TournamentFormat, cfg models.TournamentConfig) error {
	if format.HasPools() {
		if cfg.NumPools < 1 {
			return fmt.Errorf("%w: at least one pool is required", ErrInvalidConfig)
		}
		if cfg.TeamsPerPool < 2 {
			return fmt.Errorf("%w: pools need at least two teams", ErrInvalidConfig)
		}
		if cfg.MatchesPerTeam < 1 || cfg.MatchesPerTeam > cfg.TeamsPerPool-1 {
			return fmt.Errorf("%w: matches per team must be between 1 and %d", ErrInvalidConfig, cfg.TeamsPerPool-1)
		}
		if format.HasKnockout() {
			if cfg.TeamsQualifying < 1 || cfg.TeamsQualifying > cfg.TeamsPerPool {
				return fmt.Errorf("%w: teams qualifying must be between 1 and %d", ErrInvalidConfig, cfg.TeamsPerPool)
			}
			qualifiers := cfg.NumPools * cfg.TeamsQualifying
			if !models.IsPowerOfTwo(qualifiers) {
				return fmt.Errorf("%w: %d qualifiers cannot fill a bracket (need a power of two)", ErrInvalidConfig, qualifiers)
			}
		}
	}
	if format == models.FormatKnockoutOnly {
		if cfg.NumKnockoutTeams < 2 || !models.IsPowerOfTwo(cfg.NumKnockoutTeams) {
			return fmt.Errorf("%w: knockout size must be a power of two, got %d", ErrInvalidConfig, cfg.NumKnockoutTeams)
		}
	}
	for _, v := range []int{cfg.ScoringRules.Win, cfg.ScoringRules.Loss, cfg.ScoringRules.Draw, cfg.ScoringRules.Forfeit} {
		if v < 0 {
			return fmt.Errorf("%w: scoring values must be zero or positive", ErrInvalidConfig)
		}
	}
	return nil
}

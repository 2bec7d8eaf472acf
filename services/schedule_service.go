package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tmarchal/boccia-manager/brackets"
	"github.com/tmarchal/boccia-manager/models"
	"github.com/tmarchal/boccia-manager/repositories"
	"github.com/tmarchal/boccia-manager/schedule"
)

// ScheduleResult is the outcome of an automatic timetable run.
type ScheduleResult struct {
	Tournament        *models.Tournament `json:"tournament"`
	Assigned          int                `json:"assigned"`
	Unassigned        int                `json:"unassigned"`
	UnassignedMatches []string           `json:"unassignedMatches,omitempty"`
}

// ScheduleService manages courts and the tournament timetable.
type ScheduleService interface {
	CreateCourt(ctx context.Context, name, description string, available bool) (*models.Court, error)
	ListCourts(ctx context.Context) ([]*models.Court, error)
	UpdateCourt(ctx context.Context, id, name, description string, available bool) (*models.Court, error)
	DeleteCourt(ctx context.Context, id string) error

	UpdateSettings(ctx context.Context, tournamentID, matchDuration int, startTime, endTime string) (*models.Tournament, error)
	AddBreak(ctx context.Context, tournamentID int, name, start, end string) (*models.Tournament, error)
	DeleteBreak(ctx context.Context, tournamentID int, breakID string) (*models.Tournament, error)

	AutoGenerate(ctx context.Context, tournamentID int) (*ScheduleResult, error)
	ManualAssign(ctx context.Context, tournamentID int, matchID, courtID, start string) (*models.Tournament, error)
	DeleteAssignment(ctx context.Context, tournamentID int, assignmentID string) (*models.Tournament, error)
	Clear(ctx context.Context, tournamentID int) (*models.Tournament, error)
}

type scheduleService struct {
	tournaments TournamentService
	courts      repositories.CourtRepository
	hub         *brackets.Hub
}

func NewScheduleService(tournaments TournamentService, courts repositories.CourtRepository, hub *brackets.Hub) ScheduleService {
	return &scheduleService{tournaments: tournaments, courts: courts, hub: hub}
}

func (s *scheduleService) CreateCourt(ctx context.Context, name, description string, available bool) (*models.Court, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: court name is required", ErrInvalidConfig)
	}
	court := &models.Court{
		ID:          fmt.Sprintf("c%d", time.Now().UnixNano()),
		Name:        name,
		Available:   available,
		Description: description,
	}
	if err := s.courts.Create(ctx, court); err != nil {
		return nil, err
	}
	return court, nil
}

func (s *scheduleService) ListCourts(ctx context.Context) ([]*models.Court, error) {
	return s.courts.List(ctx)
}

func (s *scheduleService) UpdateCourt(ctx context.Context, id, name, description string, available bool) (*models.Court, error) {
	court, err := s.courts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	court.Name = strings.TrimSpace(name)
	if court.Name == "" {
		return nil, fmt.Errorf("%w: court name is required", ErrInvalidConfig)
	}
	court.Description = description
	court.Available = available
	if err := s.courts.Update(ctx, court); err != nil {
		return nil, err
	}
	return court, nil
}

func (s *scheduleService) DeleteCourt(ctx context.Context, id string) error {
	return s.courts.Delete(ctx, id)
}

func (s *scheduleService) UpdateSettings(ctx context.Context, tournamentID, matchDuration int, startTime, endTime string) (*models.Tournament, error) {
	if matchDuration <= 0 {
		return nil, ErrInvalidDuration
	}
	start, err := schedule.TimeToMinutes(startTime)
	if err != nil {
		return nil, err
	}
	end, err := schedule.TimeToMinutes(endTime)
	if err != nil {
		return nil, err
	}
	if start >= end {
		return nil, ErrInvalidTimeWindow
	}
	t, err := s.tournaments.Mutate(ctx, tournamentID, func(t *models.Tournament) error {
		t.Schedule.MatchDuration = matchDuration
		t.Schedule.StartTime = startTime
		t.Schedule.EndTime = endTime
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.broadcast(t)
	return t, nil
}

func (s *scheduleService) AddBreak(ctx context.Context, tournamentID int, name, start, end string) (*models.Tournament, error) {
	startMin, err := schedule.TimeToMinutes(start)
	if err != nil {
		return nil, err
	}
	endMin, err := schedule.TimeToMinutes(end)
	if err != nil {
		return nil, err
	}
	if startMin >= endMin {
		return nil, ErrInvalidTimeWindow
	}
	t, err := s.tournaments.Mutate(ctx, tournamentID, func(t *models.Tournament) error {
		t.Schedule.Breaks = append(t.Schedule.Breaks, &models.Break{
			ID:    fmt.Sprintf("b%d", time.Now().UnixNano()),
			Name:  name,
			Start: start,
			End:   end,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.broadcast(t)
	return t, nil
}

func (s *scheduleService) DeleteBreak(ctx context.Context, tournamentID int, breakID string) (*models.Tournament, error) {
	t, err := s.tournaments.Mutate(ctx, tournamentID, func(t *models.Tournament) error {
		kept := t.Schedule.Breaks[:0]
		found := false
		for _, b := range t.Schedule.Breaks {
			if b.ID == breakID {
				found = true
				continue
			}
			kept = append(kept, b)
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrBreakNotFound, breakID)
		}
		t.Schedule.Breaks = kept
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.broadcast(t)
	return t, nil
}

// AutoGenerate replaces the whole timetable with a fresh greedy assignment
// of every unplayed match.
func (s *scheduleService) AutoGenerate(ctx context.Context, tournamentID int) (*ScheduleResult, error) {
	courts, err := s.courts.List(ctx)
	if err != nil {
		return nil, err
	}

	var genResult *schedule.Result
	t, err := s.tournaments.Mutate(ctx, tournamentID, func(t *models.Tournament) error {
		result, err := schedule.AutoGenerate(&t.Schedule, courts, schedulableMatches(t))
		if err != nil {
			return err
		}
		genResult = result
		t.Schedule.Assignments = result.Assignments
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(t)
	return &ScheduleResult{
		Tournament:        t,
		Assigned:          genResult.Assigned,
		Unassigned:        genResult.Unassigned,
		UnassignedMatches: genResult.UnassignedMatches,
	}, nil
}

func (s *scheduleService) ManualAssign(ctx context.Context, tournamentID int, matchID, courtID, start string) (*models.Tournament, error) {
	courts, err := s.courts.List(ctx)
	if err != nil {
		return nil, err
	}
	t, err := s.tournaments.Mutate(ctx, tournamentID, func(t *models.Tournament) error {
		assignment, err := schedule.ManualAssign(&t.Schedule, courts, schedulableMatches(t), matchID, courtID, start)
		if err != nil {
			return err
		}
		kept := t.Schedule.Assignments[:0]
		for _, a := range t.Schedule.Assignments {
			if a.MatchID != matchID {
				kept = append(kept, a)
			}
		}
		t.Schedule.Assignments = append(kept, assignment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.broadcast(t)
	return t, nil
}

func (s *scheduleService) DeleteAssignment(ctx context.Context, tournamentID int, assignmentID string) (*models.Tournament, error) {
	t, err := s.tournaments.Mutate(ctx, tournamentID, func(t *models.Tournament) error {
		kept := t.Schedule.Assignments[:0]
		found := false
		for _, a := range t.Schedule.Assignments {
			if a.ID == assignmentID {
				found = true
				continue
			}
			kept = append(kept, a)
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrAssignmentNotFound, assignmentID)
		}
		t.Schedule.Assignments = kept
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.broadcast(t)
	return t, nil
}

func (s *scheduleService) Clear(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	t, err := s.tournaments.Mutate(ctx, tournamentID, func(t *models.Tournament) error {
		t.Schedule.Assignments = []*models.ScheduleAssignment{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.broadcast(t)
	return t, nil
}

// schedulableMatches flattens the unplayed matches of both stages into the
// scheduler's input. Knockout matches with unresolved slots still take part;
// the scheduler just cannot apply team constraints to the empty sides.
func schedulableMatches(t *models.Tournament) []schedule.Match {
	out := make([]schedule.Match, 0, len(t.Matches)+len(t.Knockout.Matches))
	for _, m := range t.Matches {
		if m.Played {
			continue
		}
		out = append(out, schedule.Match{ID: m.ID, Team1: m.Team1, Team2: m.Team2})
	}
	for _, km := range t.Knockout.Matches {
		if km.Played {
			continue
		}
		sm := schedule.Match{ID: km.ID, Knockout: true}
		if km.Team1 != nil {
			sm.Team1 = *km.Team1
		}
		if km.Team2 != nil {
			sm.Team2 = *km.Team2
		}
		out = append(out, sm)
	}
	return out
}

func (s *scheduleService) broadcast(t *models.Tournament) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToRoom(roomID(t.ID), brackets.Event{Type: "SCHEDULE_UPDATED", Payload: t})
}

package services

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/tmarchal/boccia-manager/models"
)

// TeamService manages team registration. Pools, matches and the bracket all
// reference teams by name, so renames and deletions cascade through the
// whole state document.
type TeamService interface {
	Add(ctx context.Context, tournamentID int, name string, players []string) (*models.Tournament, error)
	Update(ctx context.Context, tournamentID int, teamID, newName string, players []string) (*models.Tournament, error)
	Delete(ctx context.Context, tournamentID int, teamID string) (*models.Tournament, error)
	AssignToPools(ctx context.Context, tournamentID int) (*models.Tournament, error)
}

type teamService struct {
	tournaments TournamentService
}

func NewTeamService(tournaments TournamentService) TeamService {
	return &teamService{tournaments: tournaments}
}

func (s *teamService) Add(ctx context.Context, tournamentID int, name string, players []string) (*models.Tournament, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}
	return s.tournaments.Mutate(ctx, tournamentID, func(t *models.Tournament) error {
		if t.TeamByName(name) != nil {
			return fmt.Errorf("%w: %s", ErrDuplicateTeamName, name)
		}
		t.Teams = append(t.Teams, &models.Team{
			ID:      nextTeamID(t.Teams),
			Name:    name,
			Players: players,
		})
		return nil
	})
}

func (s *teamService) Update(ctx context.Context, tournamentID int, teamID, newName string, players []string) (*models.Tournament, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, ErrTeamNameRequired
	}
	return s.tournaments.Mutate(ctx, tournamentID, func(t *models.Tournament) error {
		team := teamByID(t, teamID)
		if team == nil {
			return fmt.Errorf("%w: %s", ErrTeamNotFound, teamID)
		}
		if other := t.TeamByName(newName); other != nil && other.ID != teamID {
			return fmt.Errorf("%w: %s", ErrDuplicateTeamName, newName)
		}

		oldName := team.Name
		team.Name = newName
		team.Players = players
		if oldName != newName {
			renameEverywhere(t, oldName, newName)
		}
		return nil
	})
}

func (s *teamService) Delete(ctx context.Context, tournamentID int, teamID string) (*models.Tournament, error) {
	return s.tournaments.Mutate(ctx, tournamentID, func(t *models.Tournament) error {
		team := teamByID(t, teamID)
		if team == nil {
			return fmt.Errorf("%w: %s", ErrTeamNotFound, teamID)
		}
		name := team.Name

		teams := t.Teams[:0]
		for _, tm := range t.Teams {
			if tm.ID != teamID {
				teams = append(teams, tm)
			}
		}
		t.Teams = teams

		for _, p := range t.Pools {
			kept := p.Teams[:0]
			for _, n := range p.Teams {
				if n != name {
					kept = append(kept, n)
				}
			}
			p.Teams = kept
		}

		removed := make(map[string]bool)
		matches := t.Matches[:0]
		for _, m := range t.Matches {
			if m.Involves(name) {
				removed[m.ID] = true
				continue
			}
			matches = append(matches, m)
		}
		t.Matches = matches

		// Knockout slots holding the team are vacated; any recorded result
		// of such a match no longer stands.
		for _, km := range t.Knockout.Matches {
			hit := false
			if km.Team1 != nil && *km.Team1 == name {
				km.Team1 = nil
				hit = true
			}
			if km.Team2 != nil && *km.Team2 == name {
				km.Team2 = nil
				hit = true
			}
			if hit && km.Played {
				km.Played = false
				km.Score1 = nil
				km.Score2 = nil
			}
		}

		assignments := t.Schedule.Assignments[:0]
		for _, a := range t.Schedule.Assignments {
			if !removed[a.MatchID] {
				assignments = append(assignments, a)
			}
		}
		t.Schedule.Assignments = assignments
		return nil
	})
}

// AssignToPools shuffles the registered teams and deals them into pools
// round-robin, so pool sizes never differ by more than one. Re-assigning
// discards existing pools, matches and the bracket.
func (s *teamService) AssignToPools(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	return s.tournaments.Mutate(ctx, tournamentID, func(t *models.Tournament) error {
		if !t.Info.Format.HasPools() {
			return fmt.Errorf("%w: %s has no pool stage", ErrWrongFormat, t.Info.Format)
		}
		numPools := t.Config.NumPools
		if len(t.Teams) < numPools*2 {
			return fmt.Errorf("%w: %d pools need at least %d teams, have %d",
				ErrNotEnoughTeams, numPools, numPools*2, len(t.Teams))
		}

		shuffled := make([]*models.Team, len(t.Teams))
		copy(shuffled, t.Teams)
		rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		pools := make([]*models.Pool, numPools)
		for i := range pools {
			pools[i] = &models.Pool{
				ID:    i + 1,
				Name:  fmt.Sprintf("Pool %c", 'A'+i),
				Teams: []string{},
			}
		}
		for i, team := range shuffled {
			p := pools[i%numPools]
			p.Teams = append(p.Teams, team.Name)
			poolName := p.Name
			team.Pool = &poolName
		}

		t.Pools = pools
		t.Matches = []*models.Match{}
		t.Knockout = models.Knockout{}
		t.Schedule.Assignments = []*models.ScheduleAssignment{}
		return nil
	})
}

func teamByID(t *models.Tournament, id string) *models.Team {
	for _, team := range t.Teams {
		if team.ID == id {
			return team
		}
	}
	return nil
}

func nextTeamID(teams []*models.Team) string {
	max := 0
	for _, t := range teams {
		if n, err := strconv.Atoi(strings.TrimPrefix(t.ID, "t")); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("t%d", max+1)
}

func renameEverywhere(t *models.Tournament, oldName, newName string) {
	for _, p := range t.Pools {
		for i, n := range p.Teams {
			if n == oldName {
				p.Teams[i] = newName
			}
		}
	}
	for _, m := range t.Matches {
		if m.Team1 == oldName {
			m.Team1 = newName
		}
		if m.Team2 == oldName {
			m.Team2 = newName
		}
	}
	for _, km := range t.Knockout.Matches {
		if km.Team1 != nil && *km.Team1 == oldName {
			name := newName
			km.Team1 = &name
		}
		if km.Team2 != nil && *km.Team2 == oldName {
			name := newName
			km.Team2 = &name
		}
	}
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/tmarchal/boccia-manager/models"
)

func newTeamFixture(t *testing.T, format models.TournamentFormat) (TeamService, int) {
	t.Helper()
	repo := newMemoryTournamentRepo()
	id := seedTournament(repo, &models.Tournament{
		Info:     models.TournamentInfo{Name: "Open", Format: format},
		Config:   models.DefaultTournamentConfig(),
		Schedule: models.DefaultSchedule(),
	})
	return NewTeamService(NewTournamentService(repo)), id
}

func TestTeamServiceAdd(t *testing.T) {
	teams, id := newTeamFixture(t, models.FormatPoolsOnly)
	ctx := context.Background()

	got, err := teams.Add(ctx, id, "  Alpha  ", []string{"Anna", "Axel"})
	if err != nil {
		t.Fatalf("Add() returned error: %v", err)
	}
	if got.Teams[0].ID != "t1" || got.Teams[0].Name != "Alpha" {
		t.Errorf("unexpected first team: %+v", got.Teams[0])
	}

	got, err = teams.Add(ctx, id, "Bravo", nil)
	if err != nil {
		t.Fatalf("Add() returned error: %v", err)
	}
	if got.Teams[1].ID != "t2" {
		t.Errorf("expected sequential id t2, got %s", got.Teams[1].ID)
	}

	if _, err := teams.Add(ctx, id, "Alpha", nil); !errors.Is(err, ErrDuplicateTeamName) {
		t.Errorf("duplicate name: error = %v, want ErrDuplicateTeamName", err)
	}
	if _, err := teams.Add(ctx, id, "   ", nil); !errors.Is(err, ErrTeamNameRequired) {
		t.Errorf("blank name: error = %v, want ErrTeamNameRequired", err)
	}
}

func TestTeamServiceRenameCascades(t *testing.T) {
	repo := newMemoryTournamentRepo()
	id := seedTournament(repo, &models.Tournament{
		Info:   models.TournamentInfo{Name: "Open", Format: models.FormatPoolsKnockout},
		Config: models.DefaultTournamentConfig(),
		Teams: []*models.Team{
			{ID: "t1", Name: "Old"},
			{ID: "t2", Name: "Bravo"},
		},
		Pools: []*models.Pool{
			{ID: 1, Name: "Pool A", Teams: []string{"Old", "Bravo"}},
		},
		Matches: []*models.Match{
			{ID: "p1m1", Pool: 1, Team1: "Old", Team2: "Bravo"},
		},
		Knockout: models.Knockout{
			Rounds: []*models.KnockoutRound{{ID: 1, Name: "Final", NumMatches: 1}},
			Matches: []*models.KnockoutMatch{
				{ID: "r1m1", Round: 1, Match: 1, Team1: strPtr("Old"), Team2: strPtr("Bravo")},
			},
		},
		Schedule: models.DefaultSchedule(),
	})
	teams := NewTeamService(NewTournamentService(repo))

	got, err := teams.Update(context.Background(), id, "t1", "New", nil)
	if err != nil {
		t.Fatalf("Update() returned error: %v", err)
	}
	if got.Pools[0].Teams[0] != "New" {
		t.Errorf("pool entry not renamed: %v", got.Pools[0].Teams)
	}
	if got.Matches[0].Team1 != "New" {
		t.Errorf("match slot not renamed: %+v", got.Matches[0])
	}
	if km := got.Knockout.MatchByID("r1m1"); km.Team1 == nil || *km.Team1 != "New" {
		t.Errorf("bracket slot not renamed: %+v", km)
	}

	if _, err := teams.Update(context.Background(), id, "t1", "Bravo", nil); !errors.Is(err, ErrDuplicateTeamName) {
		t.Errorf("rename onto existing name: error = %v, want ErrDuplicateTeamName", err)
	}
	if _, err := teams.Update(context.Background(), id, "t9", "X", nil); !errors.Is(err, ErrTeamNotFound) {
		t.Errorf("unknown team: error = %v, want ErrTeamNotFound", err)
	}
}

func TestTeamServiceDeleteCascades(t *testing.T) {
	sched := models.DefaultSchedule()
	sched.Assignments = []*models.ScheduleAssignment{
		{ID: "a1", MatchID: "p1m1", CourtID: "c1", StartTime: "09:00", EndTime: "09:30"},
		{ID: "a2", MatchID: "p1m2", CourtID: "c1", StartTime: "09:30", EndTime: "10:00"},
	}
	repo := newMemoryTournamentRepo()
	id := seedTournament(repo, &models.Tournament{
		Info:   models.TournamentInfo{Name: "Open", Format: models.FormatPoolsKnockout},
		Config: models.DefaultTournamentConfig(),
		Teams: []*models.Team{
			{ID: "t1", Name: "Alpha"},
			{ID: "t2", Name: "Bravo"},
			{ID: "t3", Name: "Charlie"},
		},
		Pools: []*models.Pool{
			{ID: 1, Name: "Pool A", Teams: []string{"Alpha", "Bravo", "Charlie"}},
		},
		Matches: []*models.Match{
			{ID: "p1m1", Pool: 1, Team1: "Alpha", Team2: "Bravo"},
			{ID: "p1m2", Pool: 1, Team1: "Bravo", Team2: "Charlie"},
		},
		Knockout: models.Knockout{
			Rounds: []*models.KnockoutRound{{ID: 1, Name: "Final", NumMatches: 1}},
			Matches: []*models.KnockoutMatch{
				{
					ID: "r1m1", Round: 1, Match: 1,
					Team1: strPtr("Alpha"), Team2: strPtr("Charlie"),
					Score1: intPtr(5), Score2: intPtr(3), Played: true,
				},
			},
		},
		Schedule: sched,
	})
	teams := NewTeamService(NewTournamentService(repo))

	got, err := teams.Delete(context.Background(), id, "t1")
	if err != nil {
		t.Fatalf("Delete() returned error: %v", err)
	}
	if len(got.Teams) != 2 {
		t.Fatalf("expected 2 teams left, got %d", len(got.Teams))
	}
	if got.Pools[0].HasTeam("Alpha") {
		t.Error("pool still lists the deleted team")
	}
	if len(got.Matches) != 1 || got.Matches[0].ID != "p1m2" {
		t.Errorf("expected only p1m2 to survive, got %+v", got.Matches)
	}

	km := got.Knockout.MatchByID("r1m1")
	if km.Team1 != nil {
		t.Error("bracket slot of the deleted team not vacated")
	}
	if km.Played || km.Score1 != nil {
		t.Error("result of a vacated bracket match must be cleared")
	}

	if len(got.Schedule.Assignments) != 1 || got.Schedule.Assignments[0].MatchID != "p1m2" {
		t.Errorf("orphan court assignment not dropped: %+v", got.Schedule.Assignments)
	}
}

func TestTeamServiceAssignToPools(t *testing.T) {
	teams, id := newTeamFixture(t, models.FormatPoolsOnly)
	ctx := context.Background()

	names := []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo"}
	for _, n := range names {
		if _, err := teams.Add(ctx, id, n, nil); err != nil {
			t.Fatalf("Add(%s) returned error: %v", n, err)
		}
	}

	got, err := teams.AssignToPools(ctx, id)
	if err != nil {
		t.Fatalf("AssignToPools() returned error: %v", err)
	}
	if len(got.Pools) != 2 {
		t.Fatalf("expected 2 pools, got %d", len(got.Pools))
	}

	seen := make(map[string]bool)
	for _, p := range got.Pools {
		if len(p.Teams) < 2 || len(p.Teams) > 3 {
			t.Errorf("pool %s has %d teams, sizes must differ by at most one", p.Name, len(p.Teams))
		}
		for _, n := range p.Teams {
			if seen[n] {
				t.Errorf("team %s assigned twice", n)
			}
			seen[n] = true
		}
	}
	if len(seen) != len(names) {
		t.Errorf("expected all %d teams assigned, got %d", len(names), len(seen))
	}
	for _, team := range got.Teams {
		if team.Pool == nil {
			t.Errorf("team %s has no pool reference", team.Name)
		}
	}
}

func TestTeamServiceAssignToPoolsErrors(t *testing.T) {
	t.Run("wrong format", func(t *testing.T) {
		teams, id := newTeamFixture(t, models.FormatKnockoutOnly)
		if _, err := teams.AssignToPools(context.Background(), id); !errors.Is(err, ErrWrongFormat) {
			t.Errorf("error = %v, want ErrWrongFormat", err)
		}
	})
	t.Run("not enough teams", func(t *testing.T) {
		teams, id := newTeamFixture(t, models.FormatPoolsOnly)
		ctx := context.Background()
		for _, n := range []string{"Alpha", "Bravo", "Charlie"} {
			if _, err := teams.Add(ctx, id, n, nil); err != nil {
				t.Fatal(err)
			}
		}
		if _, err := teams.AssignToPools(ctx, id); !errors.Is(err, ErrNotEnoughTeams) {
			t.Errorf("error = %v, want ErrNotEnoughTeams", err)
		}
	})
}

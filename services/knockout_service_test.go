package services

import (
	"context"
	"errors"
	"testing"

	"github.com/tmarchal/boccia-manager/brackets"
	"github.com/tmarchal/boccia-manager/models"
)

func newKnockoutFixture(t *testing.T, allPlayed bool) (KnockoutService, int) {
	t.Helper()
	cfg := models.DefaultTournamentConfig()
	cfg.NumPools = 2
	cfg.TeamsPerPool = 2
	cfg.MatchesPerTeam = 1
	cfg.TeamsQualifying = 1

	repo := newMemoryTournamentRepo()
	id := seedTournament(repo, &models.Tournament{
		Info:   models.TournamentInfo{Name: "Open", Format: models.FormatPoolsKnockout},
		Config: cfg,
		Teams: []*models.Team{
			{ID: "t1", Name: "Alpha"},
			{ID: "t2", Name: "Bravo"},
			{ID: "t3", Name: "Charlie"},
			{ID: "t4", Name: "Delta"},
		},
		Pools: []*models.Pool{
			{ID: 1, Name: "Pool A", Teams: []string{"Alpha", "Bravo"}},
			{ID: 2, Name: "Pool B", Teams: []string{"Charlie", "Delta"}},
		},
		Matches: []*models.Match{
			{ID: "p1m1", Pool: 1, Team1: "Alpha", Team2: "Bravo", Score1: intPtr(5), Score2: intPtr(2), Played: true},
			{ID: "p2m1", Pool: 2, Team1: "Charlie", Team2: "Delta", Score1: intPtr(4), Score2: intPtr(1), Played: allPlayed},
		},
		Schedule: models.DefaultSchedule(),
	})
	return NewKnockoutService(NewTournamentService(repo), nil), id
}

func TestKnockoutServiceFinalizePools(t *testing.T) {
	knockout, id := newKnockoutFixture(t, true)
	ctx := context.Background()

	got, err := knockout.FinalizePools(ctx, id)
	if err != nil {
		t.Fatalf("FinalizePools() returned error: %v", err)
	}
	if !got.Knockout.Generated() {
		t.Fatal("expected a generated bracket")
	}
	final := got.Knockout.MatchByID("r1m1")
	if final == nil {
		t.Fatal("expected a final at r1m1")
	}
	if *final.Team1 != "Alpha" || *final.Team2 != "Charlie" {
		t.Errorf("final pairing = %v vs %v, want the two pool winners", *final.Team1, *final.Team2)
	}

	if _, err := knockout.FinalizePools(ctx, id); !errors.Is(err, ErrKnockoutInProgress) {
		t.Errorf("second finalize: error = %v, want ErrKnockoutInProgress", err)
	}
}

func TestKnockoutServiceFinalizePoolsOpenMatch(t *testing.T) {
	knockout, id := newKnockoutFixture(t, false)
	if _, err := knockout.FinalizePools(context.Background(), id); !errors.Is(err, ErrPoolsNotFinished) {
		t.Errorf("error = %v, want ErrPoolsNotFinished", err)
	}
}

func TestKnockoutServiceFinalizePoolsWrongFormat(t *testing.T) {
	repo := newMemoryTournamentRepo()
	id := seedTournament(repo, &models.Tournament{
		Info:     models.TournamentInfo{Name: "Open", Format: models.FormatPoolsOnly},
		Config:   models.DefaultTournamentConfig(),
		Schedule: models.DefaultSchedule(),
	})
	knockout := NewKnockoutService(NewTournamentService(repo), nil)
	if _, err := knockout.FinalizePools(context.Background(), id); !errors.Is(err, ErrWrongFormat) {
		t.Errorf("error = %v, want ErrWrongFormat", err)
	}
}

func TestKnockoutServiceGenerateFromTeams(t *testing.T) {
	repo := newMemoryTournamentRepo()
	id := seedTournament(repo, &models.Tournament{
		Info:   models.TournamentInfo{Name: "Cup", Format: models.FormatKnockoutOnly},
		Config: models.DefaultTournamentConfig(),
		Teams: []*models.Team{
			{ID: "t1", Name: "Alpha"},
			{ID: "t2", Name: "Bravo"},
			{ID: "t3", Name: "Charlie"},
			{ID: "t4", Name: "Delta"},
		},
		Schedule: models.DefaultSchedule(),
	})
	knockout := NewKnockoutService(NewTournamentService(repo), nil)
	ctx := context.Background()

	got, err := knockout.GenerateFromTeams(ctx, id)
	if err != nil {
		t.Fatalf("GenerateFromTeams() returned error: %v", err)
	}
	if len(got.Knockout.Rounds) != 2 {
		t.Fatalf("expected 2 rounds for 4 teams, got %d", len(got.Knockout.Rounds))
	}
	semis := got.Knockout.MatchesInRound(1)
	if *semis[0].Team1 != "Alpha" || *semis[0].Team2 != "Bravo" {
		t.Errorf("first semifinal = %v vs %v, want registration order", *semis[0].Team1, *semis[0].Team2)
	}

	// results feed the winners forward and can be undone
	if _, err := knockout.RecordResult(ctx, id, "r1m1", 6, 6); !errors.Is(err, brackets.ErrDrawNotAllowed) {
		t.Errorf("draw: error = %v, want ErrDrawNotAllowed", err)
	}
	got, err = knockout.RecordResult(ctx, id, "r1m1", 6, 2)
	if err != nil {
		t.Fatalf("RecordResult() returned error: %v", err)
	}
	final := got.Knockout.MatchByID("r2m1")
	if final.Team1 == nil || *final.Team1 != "Alpha" {
		t.Errorf("winner not propagated to the final: %+v", final)
	}

	got, err = knockout.UndoResult(ctx, id, "r1m1")
	if err != nil {
		t.Fatalf("UndoResult() returned error: %v", err)
	}
	if got.Knockout.MatchByID("r2m1").Team1 != nil {
		t.Error("undo must clear the propagated slot")
	}
}

func TestKnockoutServiceRequiresBracket(t *testing.T) {
	repo := newMemoryTournamentRepo()
	id := seedTournament(repo, &models.Tournament{
		Info:     models.TournamentInfo{Name: "Cup", Format: models.FormatKnockoutOnly},
		Config:   models.DefaultTournamentConfig(),
		Schedule: models.DefaultSchedule(),
	})
	knockout := NewKnockoutService(NewTournamentService(repo), nil)

	if _, err := knockout.RecordResult(context.Background(), id, "r1m1", 1, 0); !errors.Is(err, ErrKnockoutNotReady) {
		t.Errorf("record: error = %v, want ErrKnockoutNotReady", err)
	}
	if _, err := knockout.UndoResult(context.Background(), id, "r1m1"); !errors.Is(err, ErrKnockoutNotReady) {
		t.Errorf("undo: error = %v, want ErrKnockoutNotReady", err)
	}
}

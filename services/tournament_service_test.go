package services

import (
	"context"
	"errors"
	"testing"

	"github.com/tmarchal/boccia-manager/models"
)

func TestTournamentServiceCreateValidation(t *testing.T) {
	poolsCfg := func(mutate func(*models.TournamentConfig)) *models.TournamentConfig {
		cfg := models.DefaultTournamentConfig()
		mutate(&cfg)
		return &cfg
	}

	tests := []struct {
		name    string
		info    models.TournamentInfo
		cfg     *models.TournamentConfig
		wantErr error
	}{
		{
			name:    "blank name",
			info:    models.TournamentInfo{Name: "   ", Format: models.FormatPoolsOnly},
			wantErr: ErrTournamentNameRequired,
		},
		{
			name:    "unknown format",
			info:    models.TournamentInfo{Name: "Open", Format: "swiss"},
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "zero pools",
			info:    models.TournamentInfo{Name: "Open", Format: models.FormatPoolsOnly},
			cfg:     poolsCfg(func(c *models.TournamentConfig) { c.NumPools = 0 }),
			wantErr: ErrInvalidConfig,
		},
		{
			name: "too many matches per team",
			info: models.TournamentInfo{Name: "Open", Format: models.FormatPoolsOnly},
			cfg: poolsCfg(func(c *models.TournamentConfig) {
				c.TeamsPerPool = 4
				c.MatchesPerTeam = 4
			}),
			wantErr: ErrInvalidConfig,
		},
		{
			name: "qualifiers not a power of two",
			info: models.TournamentInfo{Name: "Open", Format: models.FormatPoolsKnockout},
			cfg: poolsCfg(func(c *models.TournamentConfig) {
				c.NumPools = 3
				c.TeamsQualifying = 2
			}),
			wantErr: ErrInvalidConfig,
		},
		{
			name: "knockout size not a power of two",
			info: models.TournamentInfo{Name: "Open", Format: models.FormatKnockoutOnly},
			cfg: poolsCfg(func(c *models.TournamentConfig) {
				c.NumKnockoutTeams = 6
			}),
			wantErr: ErrInvalidConfig,
		},
		{
			name: "negative scoring value",
			info: models.TournamentInfo{Name: "Open", Format: models.FormatPoolsOnly},
			cfg: poolsCfg(func(c *models.TournamentConfig) {
				c.ScoringRules.Loss = -1
			}),
			wantErr: ErrInvalidConfig,
		},
		{
			name: "valid with defaults",
			info: models.TournamentInfo{Name: "Spring Open", Format: models.FormatPoolsKnockout},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewTournamentService(newMemoryTournamentRepo())
			created, err := svc.Create(context.Background(), tt.info, tt.cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Create() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() returned error: %v", err)
			}
			if created.ID == 0 {
				t.Error("expected a persisted id")
			}
			if created.Config.NumPools != 2 {
				t.Errorf("default config not applied, NumPools = %d", created.Config.NumPools)
			}
			if created.Schedule.StartTime != "09:00" || created.Schedule.MatchDuration != 30 {
				t.Errorf("expected the default schedule settings, got %+v", created.Schedule)
			}
		})
	}
}

func TestTournamentServiceUpdateInfoLocksFormat(t *testing.T) {
	repo := newMemoryTournamentRepo()
	id := seedTournament(repo, &models.Tournament{
		Info:   models.TournamentInfo{Name: "Open", Format: models.FormatPoolsOnly},
		Config: models.DefaultTournamentConfig(),
		Matches: []*models.Match{
			{ID: "p1m1", Pool: 1, Team1: "Alpha", Team2: "Bravo"},
		},
		Schedule: models.DefaultSchedule(),
	})
	svc := NewTournamentService(repo)

	_, err := svc.UpdateInfo(context.Background(), id, models.TournamentInfo{
		Name:   "Open",
		Format: models.FormatKnockoutOnly,
	})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig changing format mid-stage, got %v", err)
	}

	updated, err := svc.UpdateInfo(context.Background(), id, models.TournamentInfo{
		Name:     "Autumn Open",
		Location: "Lyon",
		Format:   models.FormatPoolsOnly,
	})
	if err != nil {
		t.Fatalf("UpdateInfo() returned error: %v", err)
	}
	if updated.Info.Name != "Autumn Open" || updated.Info.Location != "Lyon" {
		t.Errorf("info not updated: %+v", updated.Info)
	}
}

func TestTournamentServiceReset(t *testing.T) {
	pool := "Pool A"
	repo := newMemoryTournamentRepo()
	id := seedTournament(repo, &models.Tournament{
		Info:   models.TournamentInfo{Name: "Open", Format: models.FormatPoolsKnockout},
		Config: models.DefaultTournamentConfig(),
		Teams: []*models.Team{
			{ID: "t1", Name: "Alpha", Pool: &pool},
			{ID: "t2", Name: "Bravo", Pool: &pool},
		},
		Pools: []*models.Pool{
			{ID: 1, Name: "Pool A", Teams: []string{"Alpha", "Bravo"}},
		},
		Matches: []*models.Match{
			{ID: "p1m1", Pool: 1, Team1: "Alpha", Team2: "Bravo", Played: true},
		},
		Knockout: models.Knockout{
			Rounds:  []*models.KnockoutRound{{ID: 1, Name: "Final", NumMatches: 1}},
			Matches: []*models.KnockoutMatch{{ID: "r1m1", Round: 1, Match: 1}},
		},
		Schedule: func() models.Schedule {
			s := models.DefaultSchedule()
			s.Assignments = []*models.ScheduleAssignment{
				{ID: "a1", MatchID: "p1m1", CourtID: "c1", StartTime: "09:00", EndTime: "09:30"},
			}
			return s
		}(),
	})
	svc := NewTournamentService(repo)

	reset, err := svc.Reset(context.Background(), id)
	if err != nil {
		t.Fatalf("Reset() returned error: %v", err)
	}
	if len(reset.Pools) != 0 || len(reset.Matches) != 0 {
		t.Error("expected pools and matches to be cleared")
	}
	if reset.Knockout.Generated() {
		t.Error("expected the bracket to be cleared")
	}
	if len(reset.Schedule.Assignments) != 0 {
		t.Error("expected court assignments to be cleared")
	}
	if len(reset.Teams) != 2 {
		t.Fatalf("expected teams to survive the reset, got %d", len(reset.Teams))
	}
	for _, team := range reset.Teams {
		if team.Pool != nil {
			t.Errorf("team %s still assigned to a pool", team.Name)
		}
	}
}

func TestTournamentServiceMutatePersists(t *testing.T) {
	repo := newMemoryTournamentRepo()
	id := seedTournament(repo, &models.Tournament{
		Info:     models.TournamentInfo{Name: "Open", Format: models.FormatPoolsOnly},
		Config:   models.DefaultTournamentConfig(),
		Schedule: models.DefaultSchedule(),
	})
	svc := NewTournamentService(repo)

	_, err := svc.Mutate(context.Background(), id, func(t *models.Tournament) error {
		t.Teams = append(t.Teams, &models.Team{ID: "t1", Name: "Alpha"})
		return nil
	})
	if err != nil {
		t.Fatalf("Mutate() returned error: %v", err)
	}

	stored, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get() returned error: %v", err)
	}
	if len(stored.Teams) != 1 || stored.Teams[0].Name != "Alpha" {
		t.Errorf("mutation was not persisted: %+v", stored.Teams)
	}

	boom := errors.New("boom")
	_, err = svc.Mutate(context.Background(), id, func(t *models.Tournament) error {
		t.Teams = nil
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the callback error, got %v", err)
	}
	stored, _ = svc.Get(context.Background(), id)
	if len(stored.Teams) != 1 {
		t.Error("failed mutation must not be persisted")
	}
}

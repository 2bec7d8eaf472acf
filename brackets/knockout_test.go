package brackets

import (
	"errors"
	"fmt"
	"testing"

	"github.com/tmarchal/boccia-manager/models"
)

func qualified(n int) []models.QualifiedTeam {
	teams := make([]models.QualifiedTeam, 0, n)
	for i := 1; i <= n; i++ {
		teams = append(teams, models.QualifiedTeam{
			Name: fmt.Sprintf("Seed%d", i),
			Pool: 1,
			Rank: i,
		})
	}
	return teams
}

func names(teams []models.QualifiedTeam) []string {
	out := make([]string, len(teams))
	for i, t := range teams {
		out[i] = t.Name
	}
	return out
}

func TestSortTeamsForKnockout(t *testing.T) {
	tests := []struct {
		name  string
		teams []models.QualifiedTeam
		want  []string
	}{
		{
			name:  "eight seeds",
			teams: qualified(8),
			want:  []string{"Seed1", "Seed8", "Seed4", "Seed5", "Seed2", "Seed7", "Seed3", "Seed6"},
		},
		{
			name:  "four seeds",
			teams: qualified(4),
			want:  []string{"Seed1", "Seed4", "Seed2", "Seed3"},
		},
		{
			name:  "two seeds",
			teams: qualified(2),
			want:  []string{"Seed1", "Seed2"},
		},
		{
			// Not a power of two: plain rank order, no placement.
			name:  "six seeds",
			teams: qualified(6),
			want:  []string{"Seed1", "Seed2", "Seed3", "Seed4", "Seed5", "Seed6"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(SortTeamsForKnockout(tt.teams))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestSortTeamsForKnockoutPoolTieBreak(t *testing.T) {
	teams := []models.QualifiedTeam{
		{Name: "B1", Pool: 2, Rank: 1},
		{Name: "A1", Pool: 1, Rank: 1},
		{Name: "B2", Pool: 2, Rank: 2},
		{Name: "A2", Pool: 1, Rank: 2},
	}
	got := names(SortTeamsForKnockout(teams))
	// Rank first, pool breaks the tie: A1, B1, A2, B2 seeded into [1,4,2,3].
	want := []string{"A1", "B2", "B1", "A2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestBuildBracketStructure(t *testing.T) {
	teams := []string{"Seed1", "Seed8", "Seed4", "Seed5", "Seed2", "Seed7", "Seed3", "Seed6"}
	k, err := BuildBracket(teams)
	if err != nil {
		t.Fatalf("BuildBracket: %v", err)
	}

	wantRounds := []struct {
		name       string
		numMatches int
	}{
		{"Quarterfinal", 4},
		{"Semifinal", 2},
		{"Final", 1},
	}
	if len(k.Rounds) != len(wantRounds) {
		t.Fatalf("got %d rounds, want %d", len(k.Rounds), len(wantRounds))
	}
	for i, want := range wantRounds {
		if k.Rounds[i].Name != want.name || k.Rounds[i].NumMatches != want.numMatches {
			t.Errorf("round %d = %s/%d, want %s/%d",
				i, k.Rounds[i].Name, k.Rounds[i].NumMatches, want.name, want.numMatches)
		}
	}
	if got, want := len(k.Matches), 7; got != want {
		t.Fatalf("got %d matches, want %d", got, want)
	}

	// Adjacent bracket positions meet in round one.
	wantPairs := [][2]string{
		{"Seed1", "Seed8"},
		{"Seed4", "Seed5"},
		{"Seed2", "Seed7"},
		{"Seed3", "Seed6"},
	}
	for i, m := range k.MatchesInRound(1) {
		if *m.Team1 != wantPairs[i][0] || *m.Team2 != wantPairs[i][1] {
			t.Errorf("match %s = %s vs %s, want %s vs %s",
				m.ID, *m.Team1, *m.Team2, wantPairs[i][0], wantPairs[i][1])
		}
	}

	// Feeder wiring: matches 2i+1 and 2i+2 of round r feed match i+1 of r+1.
	wantNext := map[string]string{
		"r1m1": "r2m1", "r1m2": "r2m1",
		"r1m3": "r2m2", "r1m4": "r2m2",
		"r2m1": "r3m1", "r2m2": "r3m1",
	}
	for id, next := range wantNext {
		m := k.MatchByID(id)
		if m == nil || m.NextMatchID == nil {
			t.Fatalf("match %s missing next match link", id)
		}
		if *m.NextMatchID != next {
			t.Errorf("match %s feeds %s, want %s", id, *m.NextMatchID, next)
		}
	}
	if final := k.MatchByID("r3m1"); final.NextMatchID != nil {
		t.Error("final must not have a next match")
	}
}

func TestBuildBracketErrors(t *testing.T) {
	if _, err := BuildBracket([]string{"Solo"}); !errors.Is(err, ErrNotEnoughTeams) {
		t.Errorf("one team: got %v, want ErrNotEnoughTeams", err)
	}
	if _, err := BuildBracket([]string{"A", "B", "C"}); !errors.Is(err, ErrNotPowerOfTwo) {
		t.Errorf("three teams: got %v, want ErrNotPowerOfTwo", err)
	}
}

func fourTeamBracket(t *testing.T) *models.Knockout {
	t.Helper()
	k, err := BuildBracket([]string{"Alpha", "Delta", "Bravo", "Charlie"})
	if err != nil {
		t.Fatalf("BuildBracket: %v", err)
	}
	return k
}

func TestRecordResultPropagation(t *testing.T) {
	k := fourTeamBracket(t)

	if err := RecordResult(k, "r1m1", 7, 3); err != nil {
		t.Fatalf("RecordResult r1m1: %v", err)
	}
	final := k.MatchByID("r2m1")
	if final.Team1 == nil || *final.Team1 != "Alpha" {
		t.Errorf("odd feeder winner must land in team1, got %v", final.Team1)
	}
	if final.Team2 != nil {
		t.Errorf("team2 must stay empty until the even feeder resolves, got %q", *final.Team2)
	}

	if err := RecordResult(k, "r1m2", 2, 6); err != nil {
		t.Fatalf("RecordResult r1m2: %v", err)
	}
	if final.Team2 == nil || *final.Team2 != "Charlie" {
		t.Errorf("even feeder winner must land in team2, got %v", final.Team2)
	}
	if final.Status() != models.KnockoutReady {
		t.Errorf("final status = %s, want ready", final.Status())
	}
}

func TestRecordResultRejections(t *testing.T) {
	k := fourTeamBracket(t)

	tests := []struct {
		name    string
		matchID string
		s1, s2  int
		wantErr error
	}{
		{"unknown match", "r9m9", 5, 3, ErrMatchNotFound},
		{"pending final", "r2m1", 5, 3, ErrMatchNotReady},
		{"draw", "r1m1", 4, 4, ErrDrawNotAllowed},
		{"negative score", "r1m1", -1, 3, ErrNegativeScore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := RecordResult(k, tt.matchID, tt.s1, tt.s2); !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}

	if err := RecordResult(k, "r1m1", 5, 3); err != nil {
		t.Fatalf("RecordResult: %v", err)
	}
	if err := RecordResult(k, "r1m1", 3, 5); !errors.Is(err, ErrMatchNotReady) {
		t.Errorf("re-recording a played match: got %v, want ErrMatchNotReady", err)
	}
}

func TestUndoResult(t *testing.T) {
	k := fourTeamBracket(t)
	mustRecord := func(id string, s1, s2 int) {
		t.Helper()
		if err := RecordResult(k, id, s1, s2); err != nil {
			t.Fatalf("RecordResult %s: %v", id, err)
		}
	}
	mustRecord("r1m1", 7, 3)
	mustRecord("r1m2", 2, 6)
	mustRecord("r2m1", 5, 4)

	if err := UndoResult(k, "r1m1"); !errors.Is(err, ErrUndoBlocked) {
		t.Fatalf("undo with played final: got %v, want ErrUndoBlocked", err)
	}

	if err := UndoResult(k, "r2m1"); err != nil {
		t.Fatalf("UndoResult final: %v", err)
	}
	final := k.MatchByID("r2m1")
	if final.Played || final.Score1 != nil || final.Score2 != nil {
		t.Error("final result not cleared")
	}
	// Both feeders still resolved, so the final keeps its teams.
	if final.Team1 == nil || final.Team2 == nil {
		t.Error("final teams must survive undoing its own result")
	}

	// Sibling still played: only the odd feeder's slot is cleared.
	if err := UndoResult(k, "r1m1"); err != nil {
		t.Fatalf("UndoResult r1m1: %v", err)
	}
	if final.Team1 != nil {
		t.Errorf("final team1 = %q, want cleared", *final.Team1)
	}
	if final.Team2 == nil || *final.Team2 != "Charlie" {
		t.Error("final team2 must survive while its feeder is still played")
	}

	// Sibling unplayed now: undoing the other feeder clears both slots.
	if err := UndoResult(k, "r1m2"); err != nil {
		t.Fatalf("UndoResult r1m2: %v", err)
	}
	if final.Team1 != nil || final.Team2 != nil {
		t.Error("both final slots must clear once both feeders are unplayed")
	}
}

package models

import "time"

// TournamentFormat enumerates the supported competition formats.
type TournamentFormat string

const (
	FormatPoolsOnly     TournamentFormat = "pools-only"
	FormatKnockoutOnly  TournamentFormat = "knockout-only"
	FormatPoolsKnockout TournamentFormat = "pools-knockout"
)

// HasPools reports whether the format includes a pool stage.
func (f TournamentFormat) HasPools() bool {
	return f == FormatPoolsOnly || f == FormatPoolsKnockout
}

// HasKnockout reports whether the format includes a knockout stage.
func (f TournamentFormat) HasKnockout() bool {
	return f == FormatKnockoutOnly || f == FormatPoolsKnockout
}

// TournamentInfo holds the descriptive header of a tournament.
type TournamentInfo struct {
	Name     string           `json:"name"`
	Date     string           `json:"date"`
	Location string           `json:"location"`
	Format   TournamentFormat `json:"format"`
}

// ScoringRules are the points awarded per match outcome in the pool stage.
type ScoringRules struct {
	Win     int `json:"win"`
	Loss    int `json:"loss"`
	Draw    int `json:"draw"`
	Forfeit int `json:"forfeit"`
}

// DefaultScoringRules returns the standard Boccia pool scoring.
func DefaultScoringRules() ScoringRules {
	return ScoringRules{Win: 3, Loss: 1, Draw: 2, Forfeit: 0}
}

// TournamentConfig holds the configurable parameters collected by the setup wizard.
type TournamentConfig struct {
	NumPools          int          `json:"numPools"`
	TeamsPerPool      int          `json:"teamsPerPool"`
	MatchesPerTeam    int          `json:"matchesPerTeam"`
	QualificationMode string       `json:"qualificationMode"`
	TeamsQualifying   int          `json:"teamsQualifying"`
	NumKnockoutTeams  int          `json:"numKnockoutTeams"`
	ScoringRules      ScoringRules `json:"scoringRules"`
	Tiebreakers       []string     `json:"tiebreakers"`
	MatchDuration     int          `json:"matchDuration"` // minutes
}

// DefaultTournamentConfig mirrors the defaults offered by the setup wizard.
func DefaultTournamentConfig() TournamentConfig {
	return TournamentConfig{
		NumPools:          2,
		TeamsPerPool:      4,
		MatchesPerTeam:    3,
		QualificationMode: "top-n",
		TeamsQualifying:   2,
		NumKnockoutTeams:  8,
		ScoringRules:      DefaultScoringRules(),
		Tiebreakers:       []string{"points", "wins", "pointsDiff", "pointsFor"},
		MatchDuration:     30,
	}
}

// Tournament is the canonical state document. The repository persists it as a
// single JSON document; every service reads and mutates this structure.
type Tournament struct {
	ID        int              `json:"id" db:"id"`
	Info      TournamentInfo   `json:"info"`
	Config    TournamentConfig `json:"config"`
	Teams     []*Team          `json:"teams"`
	Pools     []*Pool          `json:"pools"`
	Matches   []*Match         `json:"matches"`
	Knockout  Knockout         `json:"knockout"`
	Schedule  Schedule         `json:"schedule"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" db:"updated_at"`
}

// TeamByName returns the registered team with the given name, or nil.
func (t *Tournament) TeamByName(name string) *Team {
	for _, team := range t.Teams {
		if team.Name == name {
			return team
		}
	}
	return nil
}

// PoolByID returns the pool with the given id, or nil.
func (t *Tournament) PoolByID(id int) *Pool {
	for _, p := range t.Pools {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// MatchByID returns the pool match with the given id, or nil.
func (t *Tournament) MatchByID(id string) *Match {
	for _, m := range t.Matches {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// AnyMatchByID looks the id up among pool matches first, then knockout matches.
func (t *Tournament) AnyMatchByID(id string) (team1, team2 string, ok bool) {
	if m := t.MatchByID(id); m != nil {
		return m.Team1, m.Team2, true
	}
	if km := t.Knockout.MatchByID(id); km != nil {
		t1, t2 := "", ""
		if km.Team1 != nil {
			t1 = *km.Team1
		}
		if km.Team2 != nil {
			t2 = *km.Team2
		}
		return t1, t2, true
	}
	return "", "", false
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

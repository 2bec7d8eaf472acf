package models

// ForfeitSide marks which side of a match forfeited.
type ForfeitSide string

const (
	ForfeitTeam1 ForfeitSide = "1"
	ForfeitTeam2 ForfeitSide = "2"
)

// ForfeitScore is the conventional scoreline awarded to the winner of a
// forfeited match.
const ForfeitScore = 20

// Match is a pool-stage match. Scores are nil until a result is recorded.
// Draws are allowed at pool stage (equal scores with no forfeit marker).
type Match struct {
	ID      string       `json:"id"`
	Pool    int          `json:"pool"`
	Team1   string       `json:"team1"`
	Team2   string       `json:"team2"`
	Score1  *int         `json:"score1"`
	Score2  *int         `json:"score2"`
	Played  bool         `json:"played"`
	Forfeit *ForfeitSide `json:"forfeit"`
}

// Involves reports whether the named team plays in this match.
func (m *Match) Involves(name string) bool {
	return m.Team1 == name || m.Team2 == name
}

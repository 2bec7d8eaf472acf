package models

// KnockoutMatchStatus is the lifecycle state of a bracket match.
type KnockoutMatchStatus string

const (
	KnockoutPending KnockoutMatchStatus = "pending" // one or both team slots empty
	KnockoutReady   KnockoutMatchStatus = "ready"   // both teams assigned, not played
	KnockoutPlayed  KnockoutMatchStatus = "played"
)

// KnockoutRound is one level of the single-elimination bracket.
type KnockoutRound struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	NumMatches int    `json:"numMatches"`
}

// KnockoutMatch is a bracket match. Team slots are nil until the feeding
// matches resolve. NextMatchID is nil only for the final.
type KnockoutMatch struct {
	ID          string  `json:"id"`
	Round       int     `json:"round"`
	Match       int     `json:"match"` // 1-based slot within the round
	Team1       *string `json:"team1"`
	Team2       *string `json:"team2"`
	Score1      *int    `json:"score1"`
	Score2      *int    `json:"score2"`
	Played      bool    `json:"played"`
	NextMatchID *string `json:"nextMatchId"`
}

// Status derives the state machine position of the match.
func (m *KnockoutMatch) Status() KnockoutMatchStatus {
	switch {
	case m.Played:
		return KnockoutPlayed
	case m.Team1 != nil && m.Team2 != nil:
		return KnockoutReady
	default:
		return KnockoutPending
	}
}

// Winner returns the winning team of a played match.
func (m *KnockoutMatch) Winner() string {
	if !m.Played || m.Score1 == nil || m.Score2 == nil {
		return ""
	}
	if *m.Score1 > *m.Score2 {
		return deref(m.Team1)
	}
	return deref(m.Team2)
}

// Loser returns the losing team of a played match.
func (m *KnockoutMatch) Loser() string {
	if !m.Played || m.Score1 == nil || m.Score2 == nil {
		return ""
	}
	if *m.Score1 > *m.Score2 {
		return deref(m.Team2)
	}
	return deref(m.Team1)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Knockout holds the whole single-elimination stage.
type Knockout struct {
	Rounds  []*KnockoutRound `json:"rounds"`
	Matches []*KnockoutMatch `json:"matches"`
}

// Generated reports whether a bracket exists.
func (k *Knockout) Generated() bool {
	return len(k.Rounds) > 0
}

// MatchByID returns the bracket match with the given id, or nil.
func (k *Knockout) MatchByID(id string) *KnockoutMatch {
	for _, m := range k.Matches {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// MatchesInRound returns the matches of one round ordered by slot.
func (k *Knockout) MatchesInRound(roundID int) []*KnockoutMatch {
	out := make([]*KnockoutMatch, 0)
	for _, m := range k.Matches {
		if m.Round == roundID {
			out = append(out, m)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Match < out[j-1].Match; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// Complete reports whether every bracket match is either played or missing a
// team (unreachable). An empty bracket is not complete.
func (k *Knockout) Complete() bool {
	if !k.Generated() {
		return false
	}
	for _, m := range k.Matches {
		if !m.Played && m.Team1 != nil && m.Team2 != nil {
			return false
		}
	}
	return true
}

// QualifiedTeam is a pool-stage qualifier fed into the seeding step.
type QualifiedTeam struct {
	Name string `json:"name"`
	Pool int    `json:"pool"`
	Rank int    `json:"rank"`
}

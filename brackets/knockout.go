package brackets

import (
	"fmt"
	"math/bits"
	"sort"

	"github.com/tmarchal/boccia-manager/models"
)

// SortTeamsForKnockout orders qualified teams so that the strongest meet as
// late as possible. Teams are ranked by (pool rank, pool id) and placed into
// the standard seeding order: for 8 teams the result reads 1,8,4,5,2,7,3,6,
// so adjacent positions are first-round opponents and seeds 1 and 2 sit in
// opposite halves of the bracket.
//
// Callers must validate the team count; a count that is not a power of two
// falls back to plain rank order instead of failing.
func SortTeamsForKnockout(teams []models.QualifiedTeam) []models.QualifiedTeam {
	sorted := make([]models.QualifiedTeam, len(teams))
	copy(sorted, teams)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Rank != sorted[j].Rank {
			return sorted[i].Rank < sorted[j].Rank
		}
		return sorted[i].Pool < sorted[j].Pool
	})

	if !models.IsPowerOfTwo(len(sorted)) {
		return sorted
	}

	order := seedOrder(len(sorted))
	placed := make([]models.QualifiedTeam, len(sorted))
	for pos, seed := range order {
		placed[pos] = sorted[seed-1]
	}
	return placed
}

// seedOrder expands the classic seeding pattern: each round doubles the
// bracket, pairing every seed s with its complement size+1-s.
func seedOrder(n int) []int {
	order := []int{1}
	for size := 2; size <= n; size *= 2 {
		next := make([]int, 0, size)
		for _, s := range order {
			next = append(next, s, size+1-s)
		}
		order = next
	}
	return order
}

// BuildBracket constructs a single-elimination bracket for the given teams,
// already in bracket order (adjacent teams meet in the first round). Rounds
// are named by distance to the final; every pair of round-r matches is wired
// to the round-r+1 match it feeds via NextMatchID.
func BuildBracket(teams []string) (*models.Knockout, error) {
	n := len(teams)
	if n < 2 {
		return nil, ErrNotEnoughTeams
	}
	if !models.IsPowerOfTwo(n) {
		return nil, fmt.Errorf("%w: got %d teams", ErrNotPowerOfTwo, n)
	}

	numRounds := bits.Len(uint(n)) - 1

	k := &models.Knockout{
		Rounds:  make([]*models.KnockoutRound, 0, numRounds),
		Matches: make([]*models.KnockoutMatch, 0, n-1),
	}

	for r := 0; r < numRounds; r++ {
		k.Rounds = append(k.Rounds, &models.KnockoutRound{
			ID:         r + 1,
			Name:       roundName(numRounds - r),
			NumMatches: 1 << (numRounds - r - 1),
		})
	}

	// First round: adjacent bracket positions face each other.
	first := k.Rounds[0]
	for i := 0; i < first.NumMatches; i++ {
		t1, t2 := teams[2*i], teams[2*i+1]
		k.Matches = append(k.Matches, &models.KnockoutMatch{
			ID:    matchID(first.ID, i+1),
			Round: first.ID,
			Match: i + 1,
			Team1: &t1,
			Team2: &t2,
		})
	}

	// Later rounds start empty; wire both feeders to their destination.
	for r := 1; r < len(k.Rounds); r++ {
		round := k.Rounds[r]
		prev := k.Rounds[r-1]
		for i := 0; i < round.NumMatches; i++ {
			id := matchID(round.ID, i+1)
			for _, feederSlot := range []int{2*i + 1, 2*i + 2} {
				if feeder := matchAt(k, prev.ID, feederSlot); feeder != nil {
					next := id
					feeder.NextMatchID = &next
				}
			}
			k.Matches = append(k.Matches, &models.KnockoutMatch{
				ID:    id,
				Round: round.ID,
				Match: i + 1,
			})
		}
	}

	return k, nil
}

// roundName names a round by its distance to the final (1 = final).
func roundName(fromFinal int) string {
	switch fromFinal {
	case 1:
		return "Final"
	case 2:
		return "Semifinal"
	case 3:
		return "Quarterfinal"
	default:
		return fmt.Sprintf("Round %d", fromFinal)
	}
}

func matchID(round, slot int) string {
	return fmt.Sprintf("r%dm%d", round, slot)
}

func matchAt(k *models.Knockout, roundID, slot int) *models.KnockoutMatch {
	for _, m := range k.Matches {
		if m.Round == roundID && m.Match == slot {
			return m
		}
	}
	return nil
}

// siblingOf returns the other match feeding the same destination, or nil.
func siblingOf(k *models.Knockout, m *models.KnockoutMatch) *models.KnockoutMatch {
	if m.NextMatchID == nil {
		return nil
	}
	for _, other := range k.Matches {
		if other.ID == m.ID || other.NextMatchID == nil {
			continue
		}
		if *other.NextMatchID == *m.NextMatchID {
			return other
		}
	}
	return nil
}

// RecordResult stores a knockout result and propagates the winner into the
// downstream match. Draws are rejected: knockout matches must have a winner.
// The feeder in the odd slot of a pair fills team1 of the next match, the
// even slot fills team2; when the sibling feeder is unresolved the winner
// takes whichever slot is still empty.
func RecordResult(k *models.Knockout, matchID string, score1, score2 int) error {
	m := k.MatchByID(matchID)
	if m == nil {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	if m.Played || m.Team1 == nil || m.Team2 == nil {
		return fmt.Errorf("match %s: %w", matchID, ErrMatchNotReady)
	}
	if score1 < 0 || score2 < 0 {
		return ErrNegativeScore
	}
	if score1 == score2 {
		return fmt.Errorf("match %s: %w", matchID, ErrDrawNotAllowed)
	}

	m.Score1 = &score1
	m.Score2 = &score2
	m.Played = true

	winner := m.Winner()
	if m.NextMatchID == nil {
		return nil
	}
	next := k.MatchByID(*m.NextMatchID)
	if next == nil {
		return nil
	}

	if sibling := siblingOf(k, m); sibling != nil {
		if m.Match%2 == 1 {
			next.Team1 = &winner
		} else {
			next.Team2 = &winner
		}
		return nil
	}
	if next.Team1 == nil {
		next.Team1 = &winner
	} else {
		next.Team2 = &winner
	}
	return nil
}

// hasDownstreamResult walks NextMatchID links and reports whether any match
// built on top of m has already been played.
func hasDownstreamResult(k *models.Knockout, m *models.KnockoutMatch) bool {
	if m.NextMatchID == nil {
		return false
	}
	next := k.MatchByID(*m.NextMatchID)
	if next == nil {
		return false
	}
	return next.Played || hasDownstreamResult(k, next)
}

// UndoResult reverts a knockout result. It fails with ErrUndoBlocked when a
// downstream match already has a result; otherwise it clears the match and
// removes the slot(s) it had populated in the next match: both slots when
// the sibling feeder is also unplayed, only its own otherwise.
func UndoResult(k *models.Knockout, matchID string) error {
	m := k.MatchByID(matchID)
	if m == nil {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	if hasDownstreamResult(k, m) {
		return fmt.Errorf("match %s: %w", matchID, ErrUndoBlocked)
	}

	m.Played = false
	m.Score1 = nil
	m.Score2 = nil

	if m.NextMatchID == nil {
		return nil
	}
	next := k.MatchByID(*m.NextMatchID)
	if next == nil {
		return nil
	}

	sibling := siblingOf(k, m)
	if sibling != nil && sibling.Played {
		if m.Match%2 == 1 {
			next.Team1 = nil
		} else {
			next.Team2 = nil
		}
		return nil
	}
	next.Team1 = nil
	next.Team2 = nil
	return nil
}

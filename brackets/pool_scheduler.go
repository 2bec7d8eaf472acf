package brackets

import (
	"fmt"

	"github.com/tmarchal/boccia-manager/models"
)

// maxPairingAttempts bounds the partial-schedule loop so an unsatisfiable
// quota (odd total degree, for instance) degrades instead of spinning.
const maxPairingAttempts = 1000

// PoolSchedule is the output of GeneratePoolMatches. Warnings carry
// partial-success conditions: the schedule is still usable, but some teams
// ended up above or below the requested quota.
type PoolSchedule struct {
	Matches  []*models.Match
	Warnings []string
}

// GeneratePoolMatches builds the match list for one pool.
//
// When matchesPerTeam covers the full round robin (>= len(teams)-1) every
// unordered pair meets exactly once. Otherwise a balanced partial schedule is
// produced: the least-busy team is repeatedly paired with the least-busy
// opponent it has not met yet, falling back to repeat pairings only when no
// fresh opponent remains under quota.
func GeneratePoolMatches(pool *models.Pool, matchesPerTeam int) (*PoolSchedule, error) {
	teams := pool.Teams
	if len(teams) < 2 {
		return nil, fmt.Errorf("pool %q: %w", pool.Name, ErrNotEnoughTeams)
	}
	if matchesPerTeam < 1 {
		return nil, fmt.Errorf("pool %q: matches per team must be at least 1", pool.Name)
	}

	out := &PoolSchedule{Matches: make([]*models.Match, 0)}
	seq := 0
	newMatch := func(t1, t2 string) *models.Match {
		seq++
		return &models.Match{
			ID:    fmt.Sprintf("p%dm%d", pool.ID, seq),
			Pool:  pool.ID,
			Team1: t1,
			Team2: t2,
		}
	}

	if matchesPerTeam >= len(teams)-1 {
		for i := 0; i < len(teams); i++ {
			for j := i + 1; j < len(teams); j++ {
				out.Matches = append(out.Matches, newMatch(teams[i], teams[j]))
			}
		}
		return out, nil
	}

	played := make([][]bool, len(teams))
	for i := range played {
		played[i] = make([]bool, len(teams))
	}
	count := make([]int, len(teams))

	allAtQuota := func() bool {
		for _, c := range count {
			if c < matchesPerTeam {
				return false
			}
		}
		return true
	}

	attempts := 0
	for !allAtQuota() && attempts < maxPairingAttempts {
		attempts++

		team := leastBusy(count)
		if count[team] >= matchesPerTeam {
			continue
		}

		// Fresh opponents first, then already-played opponents.
		opponent := pickOpponent(team, count, played, matchesPerTeam, true)
		if opponent < 0 {
			opponent = pickOpponent(team, count, played, matchesPerTeam, false)
		}
		if opponent < 0 {
			// Nobody left under quota to pair with; the bound will expire.
			continue
		}

		out.Matches = append(out.Matches, newMatch(teams[team], teams[opponent]))
		played[team][opponent] = true
		played[opponent][team] = true
		count[team]++
		count[opponent]++
	}

	if attempts >= maxPairingAttempts {
		out.Warnings = append(out.Warnings, fmt.Sprintf(
			"pool %q: could not give every team exactly %d matches; some teams will play more or fewer",
			pool.Name, matchesPerTeam))
	}

	return out, nil
}

func leastBusy(count []int) int {
	best := 0
	for i, c := range count {
		if c < count[best] {
			best = i
		}
	}
	return best
}

// pickOpponent returns the index of the opponent with the fewest matches so
// far among those still under quota, restricted to unplayed pairings when
// freshOnly is set. Returns -1 when no candidate exists.
func pickOpponent(team int, count []int, played [][]bool, quota int, freshOnly bool) int {
	best := -1
	for i := range count {
		if i == team || count[i] >= quota {
			continue
		}
		if freshOnly && played[team][i] {
			continue
		}
		if best < 0 || count[i] < count[best] {
			best = i
		}
	}
	return best
}

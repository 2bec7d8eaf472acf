package brackets

import (
	"fmt"
	"sort"

	"github.com/tmarchal/boccia-manager/models"
)

// ComputeOverallRanking derives the final classification of a tournament
// from its current state. Once the bracket is complete the knockout decides
// the podium: champion, runner-up, both semifinal losers at a shared third
// place, then the losers of each earlier round as shared tiers, and finally
// the teams that never qualified, ordered by their pool results. While the
// bracket is absent or unfinished the ranking is the union of all pool
// standings instead.
func ComputeOverallRanking(t *models.Tournament) []models.RankingEntry {
	if t.Knockout.Complete() {
		return knockoutRanking(t)
	}
	return poolRanking(t)
}

func knockoutRanking(t *models.Tournament) []models.RankingEntry {
	k := &t.Knockout
	entries := make([]models.RankingEntry, 0, len(t.Teams))

	final := k.Rounds[len(k.Rounds)-1]
	for _, m := range k.MatchesInRound(final.ID) {
		if !m.Played {
			continue
		}
		entries = append(entries,
			models.RankingEntry{Name: m.Winner(), Rank: 1, Status: "Champion"},
			models.RankingEntry{Name: m.Loser(), Rank: 2, Status: "Runner-up"},
		)
	}

	// Earlier rounds in reverse order; losers of one round share a rank.
	for r := len(k.Rounds) - 2; r >= 0; r-- {
		round := k.Rounds[r]
		rank := len(entries) + 1
		status := "Eliminated in " + round.Name
		if round.Name == "Semifinal" {
			status = "Semifinalist"
		}
		for _, m := range k.MatchesInRound(round.ID) {
			if !m.Played {
				continue
			}
			entries = append(entries, models.RankingEntry{
				Name:   m.Loser(),
				Rank:   rank,
				Status: status,
			})
		}
	}

	// Teams that never reached the bracket, ordered by pool results.
	inBracket := make(map[string]bool)
	for _, m := range k.Matches {
		if m.Team1 != nil {
			inBracket[*m.Team1] = true
		}
		if m.Team2 != nil {
			inBracket[*m.Team2] = true
		}
	}
	rest := poolStandingsUnion(t)
	rank := len(entries) + 1
	for i := range rest {
		s := rest[i].standing
		if inBracket[s.Name] {
			continue
		}
		entries = append(entries, models.RankingEntry{
			Name:       s.Name,
			Rank:       rank,
			Status:     "Not qualified",
			Points:     &s.Points,
			PointsDiff: &s.PointsDiff,
		})
		rank++
	}
	return entries
}

func poolRanking(t *models.Tournament) []models.RankingEntry {
	union := poolStandingsUnion(t)
	entries := make([]models.RankingEntry, 0, len(union))
	for i := range union {
		s := union[i].standing
		entries = append(entries, models.RankingEntry{
			Name:       s.Name,
			Rank:       i + 1,
			Status:     fmt.Sprintf("%s, position %d", union[i].poolName, union[i].position),
			Points:     &s.Points,
			PointsDiff: &s.PointsDiff,
		})
	}
	return entries
}

type pooledStanding struct {
	standing *models.Standing
	poolName string
	position int
}

// poolStandingsUnion merges every pool's standings and orders the whole
// field by points, then points difference, then points scored, then name.
func poolStandingsUnion(t *models.Tournament) []pooledStanding {
	out := make([]pooledStanding, 0, len(t.Teams))
	for _, p := range t.Pools {
		standings := ComputeStandings(p, t.Matches, t.Config.ScoringRules)
		for i, s := range standings {
			out = append(out, pooledStanding{standing: s, poolName: p.Name, position: i + 1})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].standing, out[j].standing
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.PointsDiff != b.PointsDiff {
			return a.PointsDiff > b.PointsDiff
		}
		if a.PointsFor != b.PointsFor {
			return a.PointsFor > b.PointsFor
		}
		return a.Name < b.Name
	})
	return out
}

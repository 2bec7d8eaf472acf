package brackets

import (
	"sort"

	"github.com/tmarchal/boccia-manager/models"
)

// ComputeStandings derives the ordered standings table of one pool from its
// played matches. It is a pure function: same matches and rules, same output.
//
// Sort precedence: points, wins, points difference, points scored, then team
// name ascending as the deterministic final tie-break.
func ComputeStandings(pool *models.Pool, matches []*models.Match, rules models.ScoringRules) []*models.Standing {
	standings := make([]*models.Standing, 0, len(pool.Teams))
	byName := make(map[string]*models.Standing, len(pool.Teams))
	for _, name := range pool.Teams {
		s := &models.Standing{Name: name}
		standings = append(standings, s)
		byName[name] = s
	}

	for _, m := range matches {
		if m.Pool != pool.ID || !m.Played || m.Score1 == nil || m.Score2 == nil {
			continue
		}
		t1, t2 := byName[m.Team1], byName[m.Team2]
		if t1 == nil || t2 == nil {
			continue
		}

		t1.Played++
		t2.Played++
		t1.PointsFor += *m.Score1
		t1.PointsAgainst += *m.Score2
		t2.PointsFor += *m.Score2
		t2.PointsAgainst += *m.Score1

		switch {
		case m.Forfeit != nil && *m.Forfeit == models.ForfeitTeam1:
			t2.Wins++
			t1.Losses++
			t2.Points += rules.Win
			t1.Points += rules.Forfeit
		case m.Forfeit != nil && *m.Forfeit == models.ForfeitTeam2:
			t1.Wins++
			t2.Losses++
			t1.Points += rules.Win
			t2.Points += rules.Forfeit
		case *m.Score1 > *m.Score2:
			t1.Wins++
			t2.Losses++
			t1.Points += rules.Win
			t2.Points += rules.Loss
		case *m.Score1 < *m.Score2:
			t2.Wins++
			t1.Losses++
			t2.Points += rules.Win
			t1.Points += rules.Loss
		default:
			// Draws only exist at pool stage.
			t1.Draws++
			t2.Draws++
			t1.Points += rules.Draw
			t2.Points += rules.Draw
		}
	}

	for _, s := range standings {
		s.PointsDiff = s.PointsFor - s.PointsAgainst
	}

	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.PointsDiff != b.PointsDiff {
			return a.PointsDiff > b.PointsDiff
		}
		if a.PointsFor != b.PointsFor {
			return a.PointsFor > b.PointsFor
		}
		return a.Name < b.Name
	})

	return standings
}

package schedule

import (
	"errors"
	"fmt"

	"github.com/tmarchal/boccia-manager/models"
)

// ErrAssignmentConflict marks any rejection caused by a scheduling clash.
// Use errors.As with *ConflictError to read the individual conflicts.
var ErrAssignmentConflict = errors.New("assignment conflicts with existing schedule")

// ConflictType categorizes a scheduling clash.
type ConflictType string

const (
	ConflictCourt ConflictType = "court" // court already booked in the window
	ConflictBreak ConflictType = "break" // window overlaps a scheduled break
	ConflictTeam  ConflictType = "team"  // a team already plays in the window
	ConflictDay   ConflictType = "day"   // window runs past the end of the day
)

// Conflict describes one reason a candidate assignment was rejected.
type Conflict struct {
	Type    ConflictType `json:"type"`
	Message string       `json:"message"`
	MatchID string       `json:"matchId,omitempty"`
}

// ConflictError rejects an assignment with the full conflict list, so the
// caller can show every clash at once instead of the first one found.
type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v: %d conflict(s)", ErrAssignmentConflict, len(e.Conflicts))
}

func (e *ConflictError) Unwrap() error { return ErrAssignmentConflict }

// Match is the scheduler's view of a tournament match: just an id, the teams
// (blank when a knockout slot is not yet resolved) and whether it belongs to
// the bracket, which gets court priority.
type Match struct {
	ID       string
	Team1    string
	Team2    string
	Knockout bool
}

// CheckConflicts tests a candidate assignment against the current schedule
// and returns every clash it would cause. The assignment with the same id as
// the candidate is ignored, so moving an existing assignment does not
// conflict with itself. A nil return means the slot is free.
func CheckConflicts(sched *models.Schedule, matches []Match, candidate models.ScheduleAssignment) ([]Conflict, error) {
	window, err := assignmentSpan(candidate)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]Match, len(matches))
	for _, m := range matches {
		byID[m.ID] = m
	}
	team1, team2 := byID[candidate.MatchID].Team1, byID[candidate.MatchID].Team2

	var conflicts []Conflict
	for _, a := range sched.Assignments {
		if a.ID == candidate.ID {
			continue
		}
		other, err := assignmentSpan(*a)
		if err != nil {
			return nil, err
		}
		if !window.overlaps(other) {
			continue
		}
		if a.CourtID == candidate.CourtID {
			conflicts = append(conflicts, Conflict{
				Type:    ConflictCourt,
				Message: fmt.Sprintf("court already booked from %s to %s", a.StartTime, a.EndTime),
				MatchID: a.MatchID,
			})
		}
		m := byID[a.MatchID]
		for _, team := range []string{m.Team1, m.Team2} {
			if team == "" {
				continue
			}
			if team == team1 || team == team2 {
				conflicts = append(conflicts, Conflict{
					Type:    ConflictTeam,
					Message: fmt.Sprintf("%s already plays from %s to %s", team, a.StartTime, a.EndTime),
					MatchID: a.MatchID,
				})
			}
		}
	}

	for _, b := range sched.Breaks {
		span, err := breakSpan(b)
		if err != nil {
			return nil, err
		}
		if window.overlaps(span) {
			conflicts = append(conflicts, Conflict{
				Type:    ConflictBreak,
				Message: fmt.Sprintf("overlaps break %q (%s to %s)", b.Name, b.Start, b.End),
			})
		}
	}

	return conflicts, nil
}

func assignmentSpan(a models.ScheduleAssignment) (timespan, error) {
	start, err := TimeToMinutes(a.StartTime)
	if err != nil {
		return timespan{}, err
	}
	end, err := TimeToMinutes(a.EndTime)
	if err != nil {
		return timespan{}, err
	}
	return timespan{start: start, end: end}, nil
}

func breakSpan(b *models.Break) (timespan, error) {
	start, err := TimeToMinutes(b.Start)
	if err != nil {
		return timespan{}, err
	}
	end, err := TimeToMinutes(b.End)
	if err != nil {
		return timespan{}, err
	}
	return timespan{start: start, end: end}, nil
}

package schedule

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tmarchal/boccia-manager/models"
)

var (
	ErrNoCourtsAvailable = errors.New("no available courts")
	ErrCourtNotFound     = errors.New("court not found")
	ErrCourtUnavailable  = errors.New("court is marked unavailable")
	ErrMatchNotFound     = errors.New("match not found")
)

// Result is the output of AutoGenerate. Assignments replace the previous
// schedule wholesale; matches that could not fit before the end of the day
// are listed in UnassignedMatches.
type Result struct {
	Assignments       []*models.ScheduleAssignment
	Assigned          int
	Unassigned        int
	UnassignedMatches []string
}

// AutoGenerate builds a complete timetable for the given matches on the
// available courts. Knockout matches are placed first, otherwise input order
// is kept. Each court carries a next-free cursor and each team a busy-until
// cursor; a match goes to the court where it can start earliest, with starts
// pushed past breaks and past the moment both teams are free. A match whose
// earliest possible slot would run past the end of the day stays unassigned.
func AutoGenerate(sched *models.Schedule, courts []*models.Court, matches []Match) (*Result, error) {
	duration := sched.MatchDuration
	if duration <= 0 {
		duration = models.DefaultSchedule().MatchDuration
	}
	dayStart, err := TimeToMinutes(sched.StartTime)
	if err != nil {
		return nil, err
	}
	dayEnd, err := TimeToMinutes(sched.EndTime)
	if err != nil {
		return nil, err
	}
	breaks := make([]timespan, 0, len(sched.Breaks))
	for _, b := range sched.Breaks {
		span, err := breakSpan(b)
		if err != nil {
			return nil, err
		}
		breaks = append(breaks, span)
	}

	open := make([]*models.Court, 0, len(courts))
	for _, c := range courts {
		if c.Available {
			open = append(open, c)
		}
	}
	if len(open) == 0 {
		return nil, ErrNoCourtsAvailable
	}

	ordered := make([]Match, len(matches))
	copy(ordered, matches)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Knockout && !ordered[j].Knockout
	})

	courtFree := make(map[string]int, len(open))
	for _, c := range open {
		courtFree[c.ID] = dayStart
	}
	teamBusy := make(map[string]int)

	result := &Result{Assignments: make([]*models.ScheduleAssignment, 0, len(ordered))}
	seq := 0
	for _, m := range ordered {
		bestCourt := ""
		bestStart := -1
		for _, c := range open {
			start := earliestStart(courtFree[c.ID], duration, m, teamBusy, breaks)
			if start+duration > dayEnd {
				continue
			}
			if bestStart == -1 || start < bestStart {
				bestCourt = c.ID
				bestStart = start
			}
		}
		if bestStart == -1 {
			result.Unassigned++
			result.UnassignedMatches = append(result.UnassignedMatches, m.ID)
			continue
		}

		seq++
		end := bestStart + duration
		result.Assignments = append(result.Assignments, &models.ScheduleAssignment{
			ID:        fmt.Sprintf("a%d", seq),
			MatchID:   m.ID,
			CourtID:   bestCourt,
			StartTime: MinutesToTime(bestStart),
			EndTime:   MinutesToTime(end),
		})
		result.Assigned++
		courtFree[bestCourt] = end
		for _, team := range []string{m.Team1, m.Team2} {
			if team != "" {
				teamBusy[team] = end
			}
		}
	}

	return result, nil
}

// earliestStart advances a candidate start past team occupancy and breaks
// until the whole match window is clear.
func earliestStart(courtFree, duration int, m Match, teamBusy map[string]int, breaks []timespan) int {
	start := courtFree
	for {
		moved := false
		for _, team := range []string{m.Team1, m.Team2} {
			if team == "" {
				continue
			}
			if until, ok := teamBusy[team]; ok && until > start {
				start = until
				moved = true
			}
		}
		window := timespan{start: start, end: start + duration}
		for _, b := range breaks {
			if window.overlaps(b) {
				start = b.end
				window = timespan{start: start, end: start + duration}
				moved = true
			}
		}
		if !moved {
			return start
		}
	}
}

// ManualAssign validates a hand-placed assignment and returns it. The
// schedule is not mutated: the caller swaps the returned assignment in only
// on success. Rejections carry the full conflict list via *ConflictError.
func ManualAssign(sched *models.Schedule, courts []*models.Court, matches []Match, matchID, courtID, start string) (*models.ScheduleAssignment, error) {
	var match *Match
	for i := range matches {
		if matches[i].ID == matchID {
			match = &matches[i]
			break
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}

	var court *models.Court
	for _, c := range courts {
		if c.ID == courtID {
			court = c
			break
		}
	}
	if court == nil {
		return nil, fmt.Errorf("%w: %s", ErrCourtNotFound, courtID)
	}
	if !court.Available {
		return nil, fmt.Errorf("%w: %s", ErrCourtUnavailable, court.Name)
	}

	duration := sched.MatchDuration
	if duration <= 0 {
		duration = models.DefaultSchedule().MatchDuration
	}
	startMin, err := TimeToMinutes(start)
	if err != nil {
		return nil, err
	}
	dayEnd, err := TimeToMinutes(sched.EndTime)
	if err != nil {
		return nil, err
	}
	end := startMin + duration
	if end > dayEnd {
		return nil, &ConflictError{Conflicts: []Conflict{{
			Type:    ConflictDay,
			Message: fmt.Sprintf("match would end at %s, after the day ends at %s", MinutesToTime(end), sched.EndTime),
		}}}
	}

	candidate := models.ScheduleAssignment{
		MatchID:   matchID,
		CourtID:   courtID,
		StartTime: start,
		EndTime:   MinutesToTime(end),
	}
	// Moving an already scheduled match must not clash with its own slot.
	if prev := sched.AssignmentForMatch(matchID); prev != nil {
		candidate.ID = prev.ID
	} else {
		candidate.ID = "m-" + matchID
	}

	conflicts, err := CheckConflicts(sched, matches, candidate)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &ConflictError{Conflicts: conflicts}
	}

	out := candidate
	return &out, nil
}

package models

// Break is a window during which no match may be scheduled.
type Break struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Start string `json:"start"` // HH:MM
	End   string `json:"end"`   // HH:MM
}

// ScheduleAssignment places a match on a court for a time window.
type ScheduleAssignment struct {
	ID        string `json:"id"`
	MatchID   string `json:"matchId"`
	CourtID   string `json:"courtId"`
	StartTime string `json:"startTime"` // HH:MM
	EndTime   string `json:"endTime"`   // HH:MM
}

// Schedule holds the timetable settings and the current assignments.
type Schedule struct {
	MatchDuration int                   `json:"matchDuration"` // minutes
	StartTime     string                `json:"startTime"`     // HH:MM
	EndTime       string                `json:"endTime"`       // HH:MM
	Breaks        []*Break              `json:"breaks"`
	Assignments   []*ScheduleAssignment `json:"assignments"`
}

// DefaultSchedule returns the schedule settings used before any configuration.
func DefaultSchedule() Schedule {
	return Schedule{
		MatchDuration: 30,
		StartTime:     "09:00",
		EndTime:       "18:00",
		Breaks:        []*Break{},
		Assignments:   []*ScheduleAssignment{},
	}
}

// AssignmentForMatch returns the assignment of the given match, or nil.
func (s *Schedule) AssignmentForMatch(matchID string) *ScheduleAssignment {
	for _, a := range s.Assignments {
		if a.MatchID == matchID {
			return a
		}
	}
	return nil
}

package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeToMinutes parses an "HH:MM" clock time into minutes since midnight.
func TimeToMinutes(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// MinutesToTime formats minutes since midnight as "HH:MM".
func MinutesToTime(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// timespan is a half-open interval in minutes since midnight.
type timespan struct {
	start, end int
}

func (a timespan) overlaps(b timespan) bool {
	return !(a.end <= b.start || a.start >= b.end)
}

package services

import (
	"strconv"
	"strings"
	"time"

	"showgrounds/paddock/internal/constants"
)

// ResolveRunDate returns the UTC calendar day for a run. A valid YYYY-MM-DD
// override wins; anything else falls back to today in UTC.
func ResolveRunDate(override string, now time.Time) time.Time {
	override = strings.TrimSpace(override)
	if len(override) > 10 {
		override = override[:10]
	}
	if override != "" {
		if d, err := time.Parse(constants.DateLayout, override); err == nil {
			return d
		}
	}
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// parseProviderDate reads "YYYY-MM-DD" or an ISO datetime and returns the UTC day
func parseProviderDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if strings.Contains(s, "T") {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			t, err = time.Parse("2006-01-02T15:04:05", s)
		}
		if err != nil {
			return time.Time{}, false
		}
		y, m, d := t.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	}
	if len(s) < 10 {
		return time.Time{}, false
	}
	t, err := time.Parse(constants.DateLayout, s[:10])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// clockParts parses "HH:MM:SS" with an optional fractional part. All three
// fields are required.
func clockParts(s string) (h, m, sec int, ok bool) {
	s = strings.TrimSpace(strings.SplitN(strings.TrimSpace(s), ".", 2)[0])
	parts := strings.Split(s, ":")
	if len(parts) < 3 {
		return 0, 0, 0, false
	}
	var err error
	if h, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, 0, false
	}
	if m, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, 0, false
	}
	if sec, err = strconv.Atoi(parts[2]); err != nil {
		return 0, 0, 0, false
	}
	return h, m, sec, true
}

// estimatedStart combines an entry class's scheduled date and start time into
// "YYYY-MM-DD HH:MM:SS". Either part missing or unreadable gives nil.
func estimatedStart(scheduledDate, startTime *string) *string {
	if scheduledDate == nil || startTime == nil {
		return nil
	}
	day, ok := parseProviderDate(*scheduledDate)
	if !ok {
		return nil
	}
	h, m, sec, ok := clockParts(*startTime)
	if !ok {
		return nil
	}
	s := time.Date(day.Year(), day.Month(), day.Day(), h, m, sec, 0, time.UTC).Format(constants.DateTimeLayout)
	return &s
}

// normalizeClockTime strips a leading date so "2026-02-19 07:15:00" and
// "07:15:00" compare equal.
func normalizeClockTime(s *string) string {
	if s == nil {
		return ""
	}
	fields := strings.Fields(*s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// parseEstimatedStartLocal reads a stored estimated start as a wall-clock
// time in loc. Accepted forms: "YYYY-MM-DD HH:MM:SS", "HH:MM[:SS]" on
// scheduledDate, RFC3339.
func parseEstimatedStartLocal(estimated *string, scheduledDate *time.Time, loc *time.Location) (time.Time, bool) {
	if estimated == nil {
		return time.Time{}, false
	}
	s := strings.TrimSpace(*estimated)
	if s == "" {
		return time.Time{}, false
	}

	if strings.Contains(s, " ") && len(s) >= 19 {
		if t, err := time.ParseInLocation(constants.DateTimeLayout, s[:19], loc); err == nil {
			return t, true
		}
	}

	if scheduledDate != nil && strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		h, errH := strconv.Atoi(parts[0])
		m, errM := strconv.Atoi(parts[1])
		sec := 0
		var errS error
		if len(parts) >= 3 {
			sec, errS = strconv.Atoi(strings.SplitN(parts[2], ".", 2)[0])
		}
		if errH == nil && errM == nil && errS == nil {
			y, mo, d := scheduledDate.Date()
			return time.Date(y, mo, d, h, m, sec, 0, loc), true
		}
	}

	// any offset is dropped; the wall clock is what the venue board shows
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), true
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, loc); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// formatTimeDisplay renders "HH:MM" when the day is known, "YYYY-MM-DD HH:MM"
// otherwise. Unreadable values are shown as stored.
func formatTimeDisplay(estimated *string, scheduledDate *time.Time) string {
	t, ok := parseEstimatedStartLocal(estimated, scheduledDate, time.UTC)
	if !ok {
		if estimated == nil || *estimated == "" {
			return constants.NoValue
		}
		return *estimated
	}
	if scheduledDate != nil {
		return t.Format("15:04")
	}
	return t.Format("2006-01-02 15:04")
}

// trimmedLimit trims s and cuts it to max runes; blank gives nil
func trimmedLimit(s *string, max int) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	if r := []rune(v); len(r) > max {
		v = string(r[:max])
	}
	return &v
}

func strOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

func strPtr(s string) *string {
	return &s
}

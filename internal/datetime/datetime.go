// Package datetime normalizes the date and time strings people type into
// spreadsheet cells into comparable local-time values.
package datetime

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/existflow/sheetboard/internal/logger"
)

// dateLayouts are tried in order after dotted dates have been rewritten.
var dateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

var (
	whitespace   = regexp.MustCompile(`\s+`)
	twelveHour   = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})\s*(AM|PM)$`)
	twentyFourHr = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)
)

// TimeOfDay is an hour/minute pair without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// On returns the instant at this time of day on day's calendar date, in day's location.
func (t TimeOfDay) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, 0, 0, day.Location())
}

// String renders the time as HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseDate parses raw into a local time. It accepts ISO-like dates and the
// dotted "2025. 09. 22" form. ok is false for empty or unparseable input.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if strings.Contains(s, ".") {
		s = strings.ReplaceAll(whitespace.ReplaceAllString(s, ""), ".", "-")
		s = strings.TrimSuffix(s, "-")
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Local(), true
	}

	logger.Debug("Unparseable date", logger.F("raw", raw))
	return time.Time{}, false
}

// ParseTime parses "HH:MM[:SS]" (24 hour) or "H:MM AM|PM".
func ParseTime(raw string) (TimeOfDay, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return TimeOfDay{}, false
	}

	if m := twelveHour.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour < 1 || hour > 12 || minute > 59 {
			logger.Debug("Time out of range", logger.F("raw", raw))
			return TimeOfDay{}, false
		}
		switch {
		case strings.EqualFold(m[3], "PM") && hour != 12:
			hour += 12
		case strings.EqualFold(m[3], "AM") && hour == 12:
			hour = 0
		}
		return TimeOfDay{Hour: hour, Minute: minute}, true
	}

	if m := twentyFourHr.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		second := 0
		if m[3] != "" {
			second, _ = strconv.Atoi(m[3])
		}
		if hour > 23 || minute > 59 || second > 59 {
			logger.Debug("Time out of range", logger.F("raw", raw))
			return TimeOfDay{}, false
		}
		return TimeOfDay{Hour: hour, Minute: minute}, true
	}

	logger.Debug("Unparseable time", logger.F("raw", raw))
	return TimeOfDay{}, false
}

// Midnight returns the start of t's calendar day in t's location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DaysBetween counts calendar days from a to b, ignoring the clock and any
// DST transitions between them.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from) / (24 * time.Hour))
}

// Display renders a sheet date as "2025. 9. 22."; unparseable input is
// returned unchanged.
func Display(raw string) string {
	t, ok := ParseDate(raw)
	if !ok {
		return raw
	}
	return t.Format("2006. 1. 2.")
}

// Package deadline turns due dates into urgency buckets and countdown labels.
package deadline

import (
	"fmt"
	"strings"
	"time"

	"github.com/existflow/sheetboard/internal/datetime"
	"github.com/existflow/sheetboard/internal/model"
)

// Unknown is returned by DaysUntil for a missing or unparseable date so
// such items sort after every real deadline. It is a sort key only; use
// Days to tell a missing date from one that is 999 days away.
const Unknown = 999

// Days counts calendar days from today to the due date in raw. ok is false
// when raw is missing or unparseable.
func Days(raw string, today time.Time) (days int, ok bool) {
	due, ok := datetime.ParseDate(raw)
	if !ok {
		return 0, false
	}
	return datetime.DaysBetween(today, due), true
}

// DaysUntil is Days with Unknown in place of a missing date.
func DaysUntil(raw string, today time.Time) int {
	days, ok := Days(raw, today)
	if !ok {
		return Unknown
	}
	return days
}

// Classify returns the bucket for the due date in raw. A missing or
// unparseable date is safe.
func Classify(raw string, today time.Time) model.Bucket {
	if strings.TrimSpace(raw) == "" {
		return model.BucketSafe
	}
	days, ok := Days(raw, today)
	if !ok {
		return model.BucketSafe
	}
	return ClassifyDays(days)
}

// ClassifyDays maps a day count to its bucket.
func ClassifyDays(days int) model.Bucket {
	switch {
	case days < 0:
		return model.BucketOverdue
	case days < 5:
		return model.BucketUrgent
	case days < 10:
		return model.BucketSoon
	case days < 20:
		return model.BucketWarning
	case days < 30:
		return model.BucketNormal
	default:
		return model.BucketSafe
	}
}

// Label renders the compact countdown: D+3, D-Day, D-1, D-12 or D-? when
// the date is missing.
func Label(raw string, today time.Time) string {
	days, ok := Days(raw, today)
	switch {
	case !ok:
		return "D-?"
	case days < 0:
		return fmt.Sprintf("D+%d", -days)
	case days == 0:
		return "D-Day"
	default:
		return fmt.Sprintf("D-%d", days)
	}
}

// VerboseLabel is the long form of Label.
func VerboseLabel(raw string, today time.Time) string {
	days, ok := Days(raw, today)
	switch {
	case !ok:
		return "마감일 미정"
	case days < 0:
		return fmt.Sprintf("%d일 지연", -days)
	case days == 0:
		return "오늘 마감"
	default:
		return fmt.Sprintf("%d일 남음", days)
	}
}

// Labeler picks between Label and VerboseLabel.
func Labeler(verbose bool) func(string, time.Time) string {
	if verbose {
		return VerboseLabel
	}
	return Label
}

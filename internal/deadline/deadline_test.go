package deadline

import (
	"testing"
	"time"

	"github.com/existflow/sheetboard/internal/model"
	"github.com/stretchr/testify/assert"
)

var today = time.Date(2025, 1, 10, 15, 4, 0, 0, time.Local)

func TestDaysUntil(t *testing.T) {
	assert.Equal(t, 0, DaysUntil("2025-01-10", today))
	assert.Equal(t, 3, DaysUntil("2025. 01. 13", today))
	assert.Equal(t, -1, DaysUntil("2025-01-09", today))
	assert.Equal(t, Unknown, DaysUntil("", today))
	assert.Equal(t, Unknown, DaysUntil("someday", today))
}

func TestClassify_Missing(t *testing.T) {
	assert.Equal(t, model.BucketSafe, Classify("", today))
	assert.Equal(t, model.BucketSafe, Classify("not a date", today))
}

func TestClassifyDays_Thresholds(t *testing.T) {
	tests := []struct {
		days int
		want model.Bucket
	}{
		{-30, model.BucketOverdue},
		{-1, model.BucketOverdue},
		{0, model.BucketUrgent},
		{4, model.BucketUrgent},
		{5, model.BucketSoon},
		{9, model.BucketSoon},
		{10, model.BucketWarning},
		{19, model.BucketWarning},
		{20, model.BucketNormal},
		{29, model.BucketNormal},
		{30, model.BucketSafe},
		{Unknown, model.BucketSafe},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyDays(tt.days), "days=%d", tt.days)
	}
}

func TestClassifyDays_Monotonic(t *testing.T) {
	prev := ClassifyDays(60).Rank()
	for days := 59; days >= -60; days-- {
		rank := ClassifyDays(days).Rank()
		assert.LessOrEqual(t, rank, prev, "urgency dropped at days=%d", days)
		prev = rank
	}
}

func TestDueInThreeDays(t *testing.T) {
	assert.Equal(t, model.BucketUrgent, Classify("2025-01-13", today))
	assert.Equal(t, "D-3", Label("2025-01-13", today))
}

func TestDueYesterday(t *testing.T) {
	assert.Equal(t, model.BucketOverdue, Classify("2025-01-09", today))
	assert.Equal(t, "D+1", Label("2025-01-09", today))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "D-Day", Label("2025-01-10", today))
	assert.Equal(t, "D-1", Label("2025-01-11", today))
	assert.Equal(t, "D+10", Label("2024-12-31", today))
	assert.Equal(t, "D-?", Label("", today))
}

func TestVerboseLabel(t *testing.T) {
	assert.Equal(t, "2일 지연", VerboseLabel("2025-01-08", today))
	assert.Equal(t, "오늘 마감", VerboseLabel("2025-01-10", today))
	assert.Equal(t, "5일 남음", VerboseLabel("2025-01-15", today))
	assert.Equal(t, "D-5", Labeler(false)("2025-01-15", today))
	assert.Equal(t, "5일 남음", Labeler(true)("2025-01-15", today))
}

func TestDays_NineHundredNinetyNineIsARealDate(t *testing.T) {
	days, ok := Days("2027-10-06", today)
	assert.True(t, ok)
	assert.Equal(t, 999, days)

	_, ok = Days("", today)
	assert.False(t, ok)

	assert.Equal(t, "D-999", Label("2027-10-06", today))
	assert.Equal(t, "999일 남음", VerboseLabel("2027-10-06", today))
	assert.Equal(t, model.BucketSafe, Classify("2027-10-06", today))
}

package model

import (
	"testing"
	"time"

	"github.com/existflow/sheetboard/internal/datetime"
	"github.com/stretchr/testify/assert"
)

func TestBucket_RankOrder(t *testing.T) {
	for i, b := range Buckets {
		assert.Equal(t, i, b.Rank(), b)
		assert.True(t, b.Valid())
	}
	assert.Equal(t, RankUnknown, Bucket("later").Rank())
	assert.False(t, Bucket("").Valid())
}

func TestCourseProgram_IsCompleted(t *testing.T) {
	assert.True(t, (&CourseProgram{}).IsCompleted())
	assert.False(t, (&CourseProgram{NextSubject: &Course{}}).IsCompleted())
	assert.False(t, (&CourseProgram{CurrentSubjects: []Course{{}}}).IsCompleted())
}

func TestTodoItem_StartsAt(t *testing.T) {
	day := time.Date(2025, 1, 10, 0, 0, 0, 0, time.Local)
	item := TodoItem{DateObj: &day}
	_, ok := item.StartsAt()
	assert.False(t, ok)

	item.TimeObj = &datetime.TimeOfDay{Hour: 9, Minute: 30}
	at, ok := item.StartsAt()
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, 1, 10, 9, 30, 0, 0, time.Local), at)
}

func TestSettings(t *testing.T) {
	s := DefaultSettings()
	assert.False(t, s.HasCredentials())
	assert.Equal(t, "A:E", s.TaskRange())

	s.SheetID, s.APIKey, s.SheetRange = "sheet", "key", ""
	assert.True(t, s.HasCredentials())
	assert.Equal(t, "A:E", s.TaskRange())
}

func TestSettings_MaskedAPIKey(t *testing.T) {
	assert.Equal(t, "", Settings{}.MaskedAPIKey())
	assert.Equal(t, "****", Settings{APIKey: "abcd"}.MaskedAPIKey())
	assert.Equal(t, "*****fghi", Settings{APIKey: "abcdefghi"}.MaskedAPIKey())
}

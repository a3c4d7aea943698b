package model

import (
	"time"

	"github.com/existflow/sheetboard/internal/datetime"
)

// TodoItem is one row of the to-do sheet
type TodoItem struct {
	ID      int                 `json:"id"`
	Date    string              `json:"date"`
	Content string              `json:"content"`
	Time    string              `json:"time"`
	DateObj *time.Time          `json:"-"` // nil when Date did not parse
	TimeObj *datetime.TimeOfDay `json:"-"` // nil when Time did not parse
}

// StartsAt returns the scheduled instant when both date and time parsed
func (t *TodoItem) StartsAt() (time.Time, bool) {
	if t.DateObj == nil || t.TimeObj == nil {
		return time.Time{}, false
	}
	return t.TimeObj.On(*t.DateObj), true
}

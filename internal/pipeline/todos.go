package pipeline

import (
	"sort"
	"time"

	"github.com/existflow/sheetboard/internal/datetime"
	"github.com/existflow/sheetboard/internal/model"
)

// Sections splits to-do items into the two visible days.
type Sections struct {
	Today    []model.TodoItem `json:"today"`
	Tomorrow []model.TodoItem `json:"tomorrow"`
}

// TodoSections partitions items into today and tomorrow relative to now.
// Items whose date did not parse appear in neither. Each section is ordered
// by time of day with untimed items last.
func TodoSections(items []model.TodoItem, now time.Time) Sections {
	var s Sections
	tomorrow := datetime.Midnight(now).AddDate(0, 0, 1)
	for _, item := range items {
		if item.DateObj == nil {
			continue
		}
		switch {
		case datetime.SameDay(*item.DateObj, now):
			s.Today = append(s.Today, item)
		case datetime.SameDay(*item.DateObj, tomorrow):
			s.Tomorrow = append(s.Tomorrow, item)
		}
	}
	sortByTime(s.Today)
	sortByTime(s.Tomorrow)
	return s
}

// TodayTodos returns the items dated today, in sheet order.
func TodayTodos(items []model.TodoItem, now time.Time) []model.TodoItem {
	var out []model.TodoItem
	for _, item := range items {
		if item.DateObj != nil && datetime.SameDay(*item.DateObj, now) {
			out = append(out, item)
		}
	}
	return out
}

func sortByTime(items []model.TodoItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].TimeObj, items[j].TimeObj
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		if a.Hour != b.Hour {
			return a.Hour < b.Hour
		}
		return a.Minute < b.Minute
	})
}

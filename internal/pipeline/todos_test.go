package pipeline

import (
	"testing"
	"time"

	"github.com/existflow/sheetboard/internal/datetime"
	"github.com/existflow/sheetboard/internal/model"
	"github.com/stretchr/testify/assert"
)

func todo(id int, date *time.Time, tod *datetime.TimeOfDay) model.TodoItem {
	return model.TodoItem{ID: id, DateObj: date, TimeObj: tod}
}

func todoIDs(items []model.TodoItem) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestTodoSections(t *testing.T) {
	now := time.Date(2025, 1, 10, 13, 0, 0, 0, time.Local)
	items := []model.TodoItem{
		todo(1, day(2025, 1, 10), &datetime.TimeOfDay{Hour: 15}),
		todo(2, day(2025, 1, 11), nil),
		todo(3, day(2025, 1, 10), nil),
		todo(4, day(2025, 1, 10), &datetime.TimeOfDay{Hour: 9, Minute: 30}),
		todo(5, nil, &datetime.TimeOfDay{Hour: 8}),
		todo(6, day(2025, 1, 12), nil),
		todo(7, day(2025, 1, 11), &datetime.TimeOfDay{Hour: 8}),
	}

	s := TodoSections(items, now)
	assert.Equal(t, []int{4, 1, 3}, todoIDs(s.Today))
	assert.Equal(t, []int{7, 2}, todoIDs(s.Tomorrow))
	assert.Equal(t, []int{1, 3, 4}, todoIDs(TodayTodos(items, now)))
}

func TestTodoSections_MonthBoundary(t *testing.T) {
	now := time.Date(2025, 1, 31, 23, 0, 0, 0, time.Local)
	s := TodoSections([]model.TodoItem{todo(1, day(2025, 2, 1), nil)}, now)
	assert.Empty(t, s.Today)
	assert.Equal(t, []int{1}, todoIDs(s.Tomorrow))
}

// Package pipeline derives the presentation lists from projected records.
package pipeline

import (
	"sort"
	"time"

	"github.com/existflow/sheetboard/internal/deadline"
	"github.com/existflow/sheetboard/internal/model"
)

// FilterAll is accepted in place of an empty filter value.
const FilterAll = "all"

// Filter narrows the active task list. Empty fields match everything.
type Filter struct {
	Category string
	Deadline model.Bucket
}

func (f Filter) matches(t model.Task) bool {
	if f.Category != "" && f.Category != FilterAll && t.Category != f.Category {
		return false
	}
	if f.Deadline != "" && f.Deadline != FilterAll && t.DeadlineStatus != f.Deadline {
		return false
	}
	return true
}

// Summary holds dashboard totals.
type Summary struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Overdue   int `json:"overdue"`
}

// ActiveTasks returns pending tasks matching f, most urgent first.
// Overdue tasks lead, the most overdue first; the rest follow bucket rank
// and then the number of days left. Equal keys keep their input order.
func ActiveTasks(tasks []model.Task, f Filter, today time.Time) []model.Task {
	type keyed struct {
		task model.Task
		days int
	}

	var list []keyed
	for _, t := range tasks {
		if t.Status != model.StatusPending || !f.matches(t) {
			continue
		}
		list = append(list, keyed{task: t, days: deadline.DaysUntil(t.DueDate, today)})
	}

	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		aOver := a.task.DeadlineStatus == model.BucketOverdue
		bOver := b.task.DeadlineStatus == model.BucketOverdue
		if aOver != bOver {
			return aOver
		}
		if !aOver {
			if ra, rb := a.task.DeadlineStatus.Rank(), b.task.DeadlineStatus.Rank(); ra != rb {
				return ra < rb
			}
		}
		return a.days < b.days
	})

	out := make([]model.Task, len(list))
	for i, k := range list {
		out[i] = k.task
	}
	return out
}

// CompletedTasks returns completed tasks, newest first. Tasks from the same
// fetch share a timestamp and come out in reverse sheet order.
func CompletedTasks(tasks []model.Task) []model.Task {
	var out []model.Task
	for i := len(tasks) - 1; i >= 0; i-- {
		if tasks[i].Status == model.StatusCompleted {
			out = append(out, tasks[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Categories returns the distinct non-empty categories in first-seen order.
func Categories(tasks []model.Task) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range tasks {
		if t.Category == "" || seen[t.Category] {
			continue
		}
		seen[t.Category] = true
		out = append(out, t.Category)
	}
	return out
}

// Summarize counts tasks by status. Overdue counts pending tasks only.
func Summarize(tasks []model.Task) Summary {
	s := Summary{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case model.StatusCompleted:
			s.Completed++
		default:
			s.Pending++
			if t.DeadlineStatus == model.BucketOverdue {
				s.Overdue++
			}
		}
	}
	return s
}

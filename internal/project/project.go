// Package project converts raw spreadsheet rows into typed records.
package project

import (
	"strings"
	"time"

	"github.com/existflow/sheetboard/internal/datetime"
	"github.com/existflow/sheetboard/internal/deadline"
	"github.com/existflow/sheetboard/internal/logger"
	"github.com/existflow/sheetboard/internal/model"
)

var (
	taskHeaderFirst   = []string{"구분", "category"}
	courseHeaderFirst = []string{"과정", "course"}
	todoHeaderFirst   = []string{"날짜", "date"}
	todoHeaderSecond  = []string{"투두", "todo"}
)

// Report counts cells that held text but failed to parse. The affected
// fields fall back to their defaults; the record is always kept.
type Report struct {
	Rows         int
	DateFailures int
	TimeFailures int
}

// Failures is the number of cells that could not be parsed.
func (r Report) Failures() int {
	return r.DateFailures + r.TimeFailures
}

// Log writes a single warning for the batch when anything failed to parse.
func (r Report) Log(section string) {
	if r.Failures() == 0 {
		return
	}
	logger.Warn("Rows with unparseable values",
		logger.F("section", section),
		logger.F("rows", r.Rows),
		logger.F("dates", r.DateFailures),
		logger.F("times", r.TimeFailures))
}

// IsTaskHeader reports whether row is the header of the task sheet.
func IsTaskHeader(row []string) bool {
	return cellHas(row, 0, taskHeaderFirst)
}

// IsCourseHeader reports whether row is the header of the course sheet.
func IsCourseHeader(row []string) bool {
	return cellHas(row, 0, courseHeaderFirst)
}

// IsTodoHeader reports whether row is the header of the to-do sheet.
func IsTodoHeader(row []string) bool {
	return cellHas(row, 0, todoHeaderFirst) || cellHas(row, 1, todoHeaderSecond)
}

// NormalizeStatus maps free-form status text onto the status enum.
// Anything unrecognised, including an empty cell, is pending.
func NormalizeStatus(raw string) model.Status {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(s, "완료"), strings.Contains(s, "completed"):
		return model.StatusCompleted
	case strings.Contains(s, "시작"), strings.Contains(s, "진행"), strings.Contains(s, "pending"):
		return model.StatusPending
	default:
		return model.StatusPending
	}
}

// Tasks projects task rows (category, title, due date, status, details).
// Every task gets its deadline bucket relative to today and fetchedAt as
// its creation time.
func Tasks(rows [][]string, today, fetchedAt time.Time) ([]model.Task, Report) {
	data := dataRows(rows, IsTaskHeader)
	tasks := make([]model.Task, 0, len(data))
	var report Report

	for _, row := range data {
		if blank(row) {
			continue
		}
		t := model.Task{
			ID:        len(tasks) + 1,
			Category:  cell(row, 0),
			Title:     cell(row, 1),
			DueDate:   cell(row, 2),
			Status:    NormalizeStatus(cell(row, 3)),
			Details:   cell(row, 4),
			CreatedAt: fetchedAt,
		}
		if failed(t.DueDate) {
			report.DateFailures++
		}
		t.DeadlineStatus = deadline.Classify(t.DueDate, today)
		tasks = append(tasks, t)
	}

	report.Rows = len(tasks)
	return tasks, report
}

// Courses projects course rows (course, subject, start, end, class time).
func Courses(rows [][]string) ([]model.Course, Report) {
	data := dataRows(rows, IsCourseHeader)
	courses := make([]model.Course, 0, len(data))
	var report Report

	for _, row := range data {
		if blank(row) {
			continue
		}
		c := model.Course{
			ID:         len(courses) + 1,
			CourseName: cell(row, 0),
			Subject:    cell(row, 1),
			StartDate:  cell(row, 2),
			EndDate:    cell(row, 3),
			ClassTime:  cell(row, 4),
		}
		c.Start = parseDate(c.StartDate, &report)
		c.End = parseDate(c.EndDate, &report)
		courses = append(courses, c)
	}

	report.Rows = len(courses)
	return courses, report
}

// TodoItems projects to-do rows (date, content, time). Rows without a
// date and without content are dropped.
func TodoItems(rows [][]string) ([]model.TodoItem, Report) {
	data := dataRows(rows, IsTodoHeader)
	items := make([]model.TodoItem, 0, len(data))
	var report Report

	for _, row := range data {
		if cell(row, 0) == "" && cell(row, 1) == "" {
			continue
		}
		item := model.TodoItem{
			ID:      len(items) + 1,
			Date:    cell(row, 0),
			Content: cell(row, 1),
			Time:    cell(row, 2),
		}
		item.DateObj = parseDate(item.Date, &report)
		if tod, ok := datetime.ParseTime(item.Time); ok {
			item.TimeObj = &tod
		} else if item.Time != "" {
			report.TimeFailures++
		}
		items = append(items, item)
	}

	report.Rows = len(items)
	return items, report
}

// dataRows drops the first row when it looks like a header
func dataRows(rows [][]string, isHeader func([]string) bool) [][]string {
	if len(rows) > 0 && isHeader(rows[0]) {
		return rows[1:]
	}
	return rows
}

func parseDate(raw string, report *Report) *time.Time {
	if t, ok := datetime.ParseDate(raw); ok {
		return &t
	}
	if raw != "" {
		report.DateFailures++
	}
	return nil
}

func failed(raw string) bool {
	if raw == "" {
		return false
	}
	_, ok := datetime.ParseDate(raw)
	return !ok
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func cellHas(row []string, i int, tokens []string) bool {
	s := strings.ToLower(cell(row, i))
	if s == "" {
		return false
	}
	for _, tok := range tokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}

func blank(row []string) bool {
	for i := range row {
		if cell(row, i) != "" {
			return false
		}
	}
	return true
}

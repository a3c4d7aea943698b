package dashboard

import (
	"time"

	"github.com/existflow/sheetboard/internal/model"
	"github.com/existflow/sheetboard/internal/pipeline"
	"github.com/existflow/sheetboard/internal/watch"
)

// Section is one of the three independently fetched datasets
type Section string

const (
	SectionTasks   Section = "tasks"
	SectionCourses Section = "courses"
	SectionTodos   Section = "todos"
)

// Severity of a notification
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is transient feedback about a refresh or a settings change
type Notification struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// SectionError replaces a section's list after a failed refresh
type SectionError struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// View is everything a surface needs to draw the dashboard
type View struct {
	ActiveTasks    []model.Task             `json:"active_tasks"`
	CompletedTasks []model.Task             `json:"completed_tasks"`
	Labels         map[int]string           `json:"labels"` // task id -> countdown label
	Programs       []model.CourseProgram    `json:"programs"`
	Todos          pipeline.Sections        `json:"todos"`
	UrgentTodos    map[int]bool             `json:"urgent_todos,omitempty"`
	Categories     []string                 `json:"categories"`
	Summary        pipeline.Summary         `json:"summary"`
	Filter         pipeline.Filter          `json:"-"`
	Errors         map[Section]SectionError `json:"errors,omitempty"`
	Alert          watch.AlertState         `json:"alert"`
	RefreshedAt    time.Time                `json:"refreshed_at"`
	Now            time.Time                `json:"now"`
}

// Error returns the placeholder for section, if it failed last time
func (v View) Error(section Section) (SectionError, bool) {
	e, ok := v.Errors[section]
	return e, ok
}

// Surface renders the dashboard. Calls arrive from timer goroutines.
type Surface interface {
	Render(View)
	Notify(Notification)
	Alert(watch.AlertState)
}

package tui

import (
	"context"
	"time"

	"github.com/existflow/sheetboard/internal/dashboard"
	"github.com/existflow/sheetboard/internal/logger"
	"github.com/existflow/sheetboard/internal/model"
	"github.com/existflow/sheetboard/internal/pipeline"
	"github.com/existflow/sheetboard/internal/watch"
)

// Pane represents which list is focused
type Pane int

const (
	PaneTasks Pane = iota
	PaneTodos
	PaneCourses
	PaneCompleted
)

var panes = []Pane{PaneTasks, PaneTodos, PaneCourses, PaneCompleted}

func (p Pane) String() string {
	switch p {
	case PaneTodos:
		return "할 일"
	case PaneCourses:
		return "과정"
	case PaneCompleted:
		return "완료"
	default:
		return "진행 중"
	}
}

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeHelp
)

// notificationTTL is how long a notification stays in the status bar
const notificationTTL = 3 * time.Second

// Controller is the part of the dashboard the TUI drives
type Controller interface {
	Refresh(ctx context.Context) error
	SetFilter(f pipeline.Filter)
	DismissAlert()
	View() dashboard.View
}

// Model is the main TUI model
type Model struct {
	ctrl Controller
	ctx  context.Context

	view  dashboard.View
	alert watch.AlertState

	// UI state
	width    int
	height   int
	pane     Pane
	mode     Mode
	cursor   int
	expanded map[int]bool // task id -> details shown

	// Filter cycling: index 0 is "all"
	categoryIdx int
	deadlineIdx int

	notification   dashboard.Notification
	notificationAt time.Time
	refreshing     bool
	now            time.Time
}

// NewModel creates a new TUI model
func NewModel(ctx context.Context, ctrl Controller) Model {
	logger.Info("Initializing TUI model")

	v := ctrl.View()
	return Model{
		ctrl:     ctrl,
		ctx:      ctx,
		view:     v,
		alert:    v.Alert,
		pane:     PaneTasks,
		mode:     ModeNormal,
		expanded: make(map[int]bool),
		now:      time.Now(),
	}
}

// filter returns the task filter selected by the cycling indices
func (m Model) filter() pipeline.Filter {
	var f pipeline.Filter
	if m.categoryIdx > 0 && m.categoryIdx <= len(m.view.Categories) {
		f.Category = m.view.Categories[m.categoryIdx-1]
	}
	if m.deadlineIdx > 0 && m.deadlineIdx <= len(model.Buckets) {
		f.Deadline = model.Buckets[m.deadlineIdx-1]
	}
	return f
}

// rows returns the number of selectable rows in the focused pane
func (m Model) rows() int {
	switch m.pane {
	case PaneTodos:
		return len(m.view.Todos.Today) + len(m.view.Todos.Tomorrow)
	case PaneCourses:
		return len(m.view.Programs)
	case PaneCompleted:
		return len(m.view.CompletedTasks)
	default:
		return len(m.view.ActiveTasks)
	}
}

// currentTask returns the task under the cursor in a task pane
func (m Model) currentTask() *model.Task {
	var list []model.Task
	switch m.pane {
	case PaneTasks:
		list = m.view.ActiveTasks
	case PaneCompleted:
		list = m.view.CompletedTasks
	default:
		return nil
	}
	if m.cursor < len(list) {
		return &list[m.cursor]
	}
	return nil
}

func (m *Model) clampCursor() {
	if n := m.rows(); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/sheetboard/internal/dashboard"
	"github.com/existflow/sheetboard/internal/logger"
	"github.com/existflow/sheetboard/internal/model"
	"github.com/existflow/sheetboard/internal/pipeline"
	"github.com/existflow/sheetboard/internal/watch"
)

// tickMsg is sent every second for the clock and notification expiry
type tickMsg time.Time

// viewMsg carries a fresh dashboard view
type viewMsg dashboard.View

// notifyMsg carries a dashboard notification
type notifyMsg dashboard.Notification

// alertMsg carries an alert state change
type alertMsg watch.AlertState

// refreshDoneMsg is sent when a manual refresh returns
type refreshDoneMsg struct{ err error }

// Init initializes the model with a tick command
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) refreshCmd() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return refreshDoneMsg{err: ctrl.Refresh(ctx)}
	}
}

// filterCmd applies f off the event loop, since the dashboard renders back
// into the program
func (m Model) filterCmd(f pipeline.Filter) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctrl.SetFilter(f)
		return viewMsg(ctrl.View())
	}
}

func (m Model) dismissCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctrl.DismissAlert()
		return alertMsg(ctrl.View().Alert)
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.now = time.Time(msg)
		if m.notification.Message != "" && m.now.Sub(m.notificationAt) >= notificationTTL {
			m.notification = dashboard.Notification{}
		}
		return m, tickCmd()

	case viewMsg:
		m.view = dashboard.View(msg)
		m.clampCursor()
		return m, nil

	case notifyMsg:
		m.notification = dashboard.Notification(msg)
		m.notificationAt = time.Now()
		return m, nil

	case alertMsg:
		m.alert = watch.AlertState(msg)
		return m, nil

	case refreshDoneMsg:
		m.refreshing = false
		if msg.err != nil {
			logger.Debug("Manual refresh finished with errors", logger.F("error", msg.err))
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.alert.Active {
			return m.handleAlertKeys(msg)
		}
		if m.mode == ModeHelp {
			m.mode = ModeNormal
			return m, nil
		}
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

// handleAlertKeys only lets the alert be closed or the app quit
func (m Model) handleAlertKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Dismiss), key.Matches(msg, keys.Enter):
		m.alert = watch.AlertState{}
		return m, m.dismissCmd()
	}
	return m, nil
}

// handleNormalKeys handles key presses in normal mode
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp

	case key.Matches(msg, keys.Tab):
		m.pane = panes[(int(m.pane)+1)%len(panes)]
		m.cursor = 0

	case key.Matches(msg, keys.BackTab):
		m.pane = panes[(int(m.pane)+len(panes)-1)%len(panes)]
		m.cursor = 0

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < m.rows()-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Enter):
		if t := m.currentTask(); t != nil {
			m.expanded[t.ID] = !m.expanded[t.ID]
		}

	case key.Matches(msg, keys.Category):
		m.categoryIdx = (m.categoryIdx + 1) % (len(m.view.Categories) + 1)
		return m.applyFilter()

	case key.Matches(msg, keys.Deadline):
		m.deadlineIdx = (m.deadlineIdx + 1) % (len(model.Buckets) + 1)
		return m.applyFilter()

	case key.Matches(msg, keys.Clear):
		m.categoryIdx, m.deadlineIdx = 0, 0
		return m.applyFilter()

	case key.Matches(msg, keys.Refresh):
		if m.refreshing {
			return m, nil
		}
		m.refreshing = true
		m.notification = dashboard.Notification{Message: "새로고침 중...", Severity: dashboard.SeverityInfo}
		m.notificationAt = time.Now()
		return m, m.refreshCmd()

	case key.Matches(msg, keys.Dismiss):
		return m, m.dismissCmd()
	}

	return m, nil
}

func (m Model) applyFilter() (tea.Model, tea.Cmd) {
	f := m.filter()
	m.pane = PaneTasks
	m.cursor = 0
	logger.Debug("Task filter changed",
		logger.F("category", f.Category),
		logger.F("deadline", string(f.Deadline)))
	m.notification = dashboard.Notification{Message: filterLabel(f.Category, f.Deadline), Severity: dashboard.SeverityInfo}
	m.notificationAt = time.Now()
	return m, m.filterCmd(f)
}

func filterLabel(category string, deadline model.Bucket) string {
	c, d := "전체 구분", "전체 마감"
	if category != "" {
		c = category
	}
	if deadline != "" {
		d = deadline.Label()
	}
	return fmt.Sprintf("필터: %s / %s", c, d)
}

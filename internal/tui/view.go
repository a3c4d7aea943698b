package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/sheetboard/internal/dashboard"
	"github.com/existflow/sheetboard/internal/model"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := m.renderHeader()
	statusBar := m.renderStatusBar()
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(statusBar)

	var body string
	switch {
	case m.mode == ModeHelp:
		body = m.renderHelp()
	case m.pane == PaneTodos:
		body = m.renderTodos()
	case m.pane == PaneCourses:
		body = m.renderCourses()
	case m.pane == PaneCompleted:
		body = m.renderTaskList(m.view.CompletedTasks, dashboard.SectionTasks, "완료된 작업이 없습니다.", true)
	default:
		body = m.renderTaskList(m.view.ActiveTasks, dashboard.SectionTasks, "진행 중인 작업이 없습니다.", false)
	}
	body = ListStyle.Width(m.width).Height(max(bodyHeight, 1)).Render(body)

	// Upcoming to-do alert overlays everything
	if m.alert.Active {
		body = lipgloss.Place(
			m.width, max(bodyHeight, 1),
			lipgloss.Center, lipgloss.Center,
			m.renderAlert(),
			lipgloss.WithWhitespaceChars(" "),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, statusBar)
}

func (m Model) renderHeader() string {
	title := HeaderStyle.Render("SheetBoard")
	clock := HelpStyle.Render(m.now.Format("2006-01-02 15:04:05"))

	s := m.view.Summary
	summary := HelpStyle.Render(fmt.Sprintf("전체 %d · 완료 %d · 진행 %d · ", s.Total, s.Completed, s.Pending)) +
		BucketStyle(model.BucketOverdue).Render(fmt.Sprintf("지연 %d", s.Overdue))

	var tabs []string
	for _, p := range panes {
		style := TabStyle
		if p == m.pane {
			style = TabActiveStyle
		}
		tabs = append(tabs, style.Render(p.String()))
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top, title, " ", clock, "  ", summary)
	return lipgloss.JoinVertical(lipgloss.Left, top, lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (m Model) renderTaskList(tasks []model.Task, section dashboard.Section, empty string, done bool) string {
	width := m.width - 8
	var b strings.Builder

	if e, ok := m.view.Error(section); ok {
		b.WriteString(ErrorStyle.Render("⚠ "+e.Message) + "\n")
		b.WriteString(HelpStyle.Render("  "+e.Detail) + "\n\n")
	}

	if !done {
		b.WriteString(HelpStyle.Render(filterLabel(m.view.Filter.Category, m.view.Filter.Deadline)) + "\n\n")
	}

	if len(tasks) == 0 {
		b.WriteString(PlaceholderStyle.Render("  " + empty))
		return b.String()
	}

	for i, t := range tasks {
		cursor := "  "
		style := ItemStyle
		if i == m.cursor {
			cursor = "❯ "
			style = ItemSelectedStyle
		}
		if done {
			style = ItemDoneStyle
		}

		badge := BucketStyle(t.DeadlineStatus).Render(fmt.Sprintf("%-8s", m.view.Labels[t.ID]))
		title := truncate(t.Title, max(width-30, 10))
		category := HelpStyle.Render(truncate(t.Category, 12))

		b.WriteString(style.Render(cursor) + badge + style.Render(" "+title+" ") + category + "\n")
		if m.expanded[t.ID] {
			details := t.Details
			if details == "" {
				details = "세부 내용 없음"
			}
			b.WriteString(DetailStyle.Render(fmt.Sprintf("마감일: %s · %s", t.DueDate, details)) + "\n")
		}
	}
	return b.String()
}

func (m Model) renderTodos() string {
	var b strings.Builder

	if e, ok := m.view.Error(dashboard.SectionTodos); ok {
		b.WriteString(ErrorStyle.Render("⚠ "+e.Message) + "\n")
		b.WriteString(HelpStyle.Render("  "+e.Detail) + "\n\n")
	}

	today, tomorrow := m.view.Todos.Today, m.view.Todos.Tomorrow
	if len(today) == 0 && len(tomorrow) == 0 {
		b.WriteString(PlaceholderStyle.Render("  오늘과 내일 할 일이 없습니다."))
		return b.String()
	}

	row := 0
	section := func(title string, items []model.TodoItem, urgentAware bool) {
		if len(items) == 0 {
			return
		}
		b.WriteString(SectionStyle.Render(fmt.Sprintf("%s (%d개)", title, len(items))) + "\n")
		for _, item := range items {
			cursor := "  "
			style := ItemStyle
			if row == m.cursor {
				cursor = "❯ "
				style = ItemSelectedStyle
			}
			at := "     "
			if item.TimeObj != nil {
				at = item.TimeObj.String()
			}
			line := style.Render(fmt.Sprintf("%s%s  %s", cursor, at, item.Content))
			if urgentAware && m.view.UrgentTodos[item.ID] {
				line += " " + BucketStyle(model.BucketOverdue).Render("곧 시작")
			}
			b.WriteString(line + "\n")
			row++
		}
		b.WriteString("\n")
	}
	section("오늘 할 일", today, true)
	section("내일 할 일", tomorrow, false)
	return b.String()
}

func (m Model) renderCourses() string {
	var b strings.Builder

	if e, ok := m.view.Error(dashboard.SectionCourses); ok {
		b.WriteString(ErrorStyle.Render("⚠ "+e.Message) + "\n")
		b.WriteString(HelpStyle.Render("  "+e.Detail) + "\n\n")
	}

	if len(m.view.Programs) == 0 {
		b.WriteString(PlaceholderStyle.Render("  과정 정보가 없습니다."))
		return b.String()
	}

	for i, p := range m.view.Programs {
		cursor := "  "
		if i == m.cursor {
			cursor = "❯ "
		}
		var indicators []string
		for _, s := range p.Indicators {
			indicators = append(indicators, ProgramStyle(s).Render("● "+s.Label()))
		}
		b.WriteString(SectionStyle.Render(cursor+p.CourseName) + "  " + strings.Join(indicators, " ") + "\n")

		for _, c := range p.CurrentSubjects {
			b.WriteString(fmt.Sprintf("    %s %s  %s ~ %s  %s\n",
				ProgramStyle(model.ProgramActive).Render("▶"), c.Subject,
				formatDate(c.StartDate), formatDate(c.EndDate), HelpStyle.Render(c.ClassTime)))
		}
		if n := p.NextSubject; n != nil {
			b.WriteString(fmt.Sprintf("    %s %s  %s ~ %s  %s\n",
				ProgramStyle(model.ProgramUpcoming).Render("◷"), n.Subject,
				formatDate(n.StartDate), formatDate(n.EndDate), HelpStyle.Render(n.ClassTime)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderAlert() string {
	var b strings.Builder
	b.WriteString(BucketStyle(model.BucketOverdue).Render("⏰ 곧 시작할 일정이 있습니다!") + "\n\n")
	for _, item := range m.alert.Items {
		at := ""
		if item.TimeObj != nil {
			at = item.TimeObj.String() + "  "
		}
		b.WriteString("  " + at + item.Content + "\n")
	}
	b.WriteString("\n30분 미만으로 남은 일정이 있습니다. 준비해주세요!\n\n")
	b.WriteString(HelpStyle.Render(formatCountdown(m.alert.Remaining) + " 후 자동으로 닫힙니다 · esc 닫기"))
	return ModalStyle.Render(b.String())
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(SectionStyle.Render("Keys") + "\n\n")
	for _, k := range helpBindings() {
		h := k.Help()
		b.WriteString(fmt.Sprintf("  %-12s %s\n", h.Key, HelpStyle.Render(h.Desc)))
	}
	b.WriteString("\n" + HelpStyle.Render("Press any key to return"))
	return b.String()
}

func (m Model) renderStatusBar() string {
	help := "tab:pane  c:category  f:deadline  enter:details  r:refresh  ?:help  q:quit"
	if m.notification.Message != "" {
		help = NotificationStyle(m.notification.Severity).Render(m.notification.Message)
	}

	updated := ""
	if !m.view.RefreshedAt.IsZero() {
		updated = "updated " + m.view.RefreshedAt.Format("15:04")
	}

	gap := m.width - lipgloss.Width(help) - lipgloss.Width(updated) - 2
	return StatusBarStyle.Width(m.width).Render(help + repeat(" ", gap) + HelpStyle.Render(updated))
}

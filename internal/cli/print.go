package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/sheetboard/internal/dashboard"
	"github.com/existflow/sheetboard/internal/datetime"
	"github.com/existflow/sheetboard/internal/model"
	"github.com/existflow/sheetboard/internal/tui"
)

const ruleWidth = 60

// pad fills s with spaces up to width display cells, truncating longer text
func pad(s string, width int) string {
	if w := lipgloss.Width(s); w > width {
		r := []rune(s)
		for len(r) > 0 && lipgloss.Width(string(r))+3 > width {
			r = r[:len(r)-1]
		}
		s = string(r) + "..."
	}
	if w := lipgloss.Width(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

func printHeading(w io.Writer, icon, title string) {
	fmt.Fprintf(w, "\n%s %s\n", icon, title)
	fmt.Fprintln(w, strings.Repeat("─", ruleWidth))
}

// printSectionError prints the placeholder a failed section shows instead of its list
func printSectionError(w io.Writer, v dashboard.View, section dashboard.Section) bool {
	e, ok := v.Error(section)
	if !ok {
		return false
	}
	fmt.Fprintf(w, "  ❌ %s\n", e.Message)
	if e.Detail != "" {
		fmt.Fprintf(w, "     %s\n", e.Detail)
	}
	return true
}

func printSummary(w io.Writer, v dashboard.View) {
	s := v.Summary
	fmt.Fprintf(w, "전체 %d · 진행 중 %d · 완료 %d · 지연 %d\n", s.Total, s.Pending, s.Completed, s.Overdue)
}

func printTasks(w io.Writer, v dashboard.View, done bool) {
	tasks, title := v.ActiveTasks, "진행 중인 작업"
	if done {
		tasks, title = v.CompletedTasks, "완료된 작업"
	}

	printHeading(w, "📋", fmt.Sprintf("%s (%d)", title, len(tasks)))
	if printSectionError(w, v, dashboard.SectionTasks) {
		return
	}
	if len(tasks) == 0 {
		fmt.Fprintln(w, "  표시할 작업이 없습니다.")
		return
	}
	for _, t := range tasks {
		printTask(w, t, v.Labels[t.ID])
	}
}

func printTask(w io.Writer, t model.Task, label string) {
	icon := "[ ]"
	if t.IsCompleted() {
		icon = "[x]"
	}

	tag := pad(label, 6)
	if !t.IsCompleted() {
		tag = tui.BucketStyle(t.DeadlineStatus).Render(tag)
	}

	fmt.Fprintf(w, "  %s  %s  %s  %s  %s\n",
		icon, tag, pad(t.Title, 40), pad(datetime.Display(t.DueDate), 14), t.Category)
}

func printTodos(w io.Writer, v dashboard.View) {
	days := []struct {
		title string
		items []model.TodoItem
	}{
		{"오늘", v.Todos.Today},
		{"내일", v.Todos.Tomorrow},
	}

	for _, day := range days {
		printHeading(w, "🗓", fmt.Sprintf("%s 할 일 (%d)", day.title, len(day.items)))
		if printSectionError(w, v, dashboard.SectionTodos) {
			continue
		}
		if len(day.items) == 0 {
			fmt.Fprintln(w, "  할 일이 없습니다.")
			continue
		}
		for _, item := range day.items {
			clock := item.Time
			if clock == "" {
				clock = "--:--"
			}
			marker := " "
			if v.UrgentTodos[item.ID] {
				marker = "⏰"
			}
			fmt.Fprintf(w, "  %s %s  %s\n", marker, pad(clock, 8), item.Content)
		}
	}
}

func printCourses(w io.Writer, v dashboard.View) {
	printHeading(w, "🎓", fmt.Sprintf("과정 (%d)", len(v.Programs)))
	if printSectionError(w, v, dashboard.SectionCourses) {
		return
	}
	if len(v.Programs) == 0 {
		fmt.Fprintln(w, "  과정 정보가 없습니다.")
		return
	}

	for _, p := range v.Programs {
		var tags []string
		for _, ind := range p.Indicators {
			tags = append(tags, tui.ProgramStyle(ind).Render(ind.Label()))
		}
		fmt.Fprintf(w, "  %s  %s\n", p.CourseName, strings.Join(tags, " "))

		for _, c := range p.CurrentSubjects {
			fmt.Fprintf(w, "    ▶ %s  %s ~ %s  %s\n",
				c.Subject, datetime.Display(c.StartDate), datetime.Display(c.EndDate), c.ClassTime)
		}
		if n := p.NextSubject; n != nil {
			fmt.Fprintf(w, "    ⏭ %s  %s ~ %s  %s\n",
				n.Subject, datetime.Display(n.StartDate), datetime.Display(n.EndDate), n.ClassTime)
		}
	}
}

// printBoard prints every section once
func printBoard(w io.Writer, v dashboard.View) {
	printSummary(w, v)
	printTasks(w, v, false)
	printTodos(w, v)
	printCourses(w, v)
	fmt.Fprintln(w)
}

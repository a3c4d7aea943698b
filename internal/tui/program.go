package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/sheetboard/internal/dashboard"
	"github.com/existflow/sheetboard/internal/logger"
	"github.com/existflow/sheetboard/internal/watch"
)

// Surface forwards dashboard events into a running program. Send is safe
// to call from the dashboard's timer goroutines.
type Surface struct {
	p *tea.Program
}

// NewSurface wraps p
func NewSurface(p *tea.Program) *Surface {
	return &Surface{p: p}
}

func (s *Surface) Render(v dashboard.View) { s.p.Send(viewMsg(v)) }

func (s *Surface) Notify(n dashboard.Notification) { s.p.Send(notifyMsg(n)) }

func (s *Surface) Alert(a watch.AlertState) { s.p.Send(alertMsg(a)) }

// Run starts the dashboard and blocks until the user quits
func Run(ctx context.Context, d *dashboard.Dashboard) error {
	ctx, cancel := context.WithCancel(ctx)

	p := tea.NewProgram(NewModel(ctx, d), tea.WithAltScreen(), tea.WithContext(ctx))
	d.Attach(NewSurface(p))
	go d.Start(ctx)

	_, err := p.Run()
	cancel()
	d.Stop()

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("TUI exited with error", logger.F("error", err))
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

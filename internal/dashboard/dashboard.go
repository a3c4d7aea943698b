// Package dashboard owns the fetched records and runs the refresh cycle.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/existflow/sheetboard/internal/deadline"
	"github.com/existflow/sheetboard/internal/logger"
	"github.com/existflow/sheetboard/internal/model"
	"github.com/existflow/sheetboard/internal/pipeline"
	"github.com/existflow/sheetboard/internal/project"
	"github.com/existflow/sheetboard/internal/schedule"
	"github.com/existflow/sheetboard/internal/sheets"
	"github.com/existflow/sheetboard/internal/watch"
	"github.com/google/uuid"
)

// Source is the remote spreadsheet
type Source interface {
	CheckAccess(ctx context.Context, creds sheets.Credentials) error
	Values(ctx context.Context, creds sheets.Credentials, rng string) ([][]string, error)
}

// SettingsSaver persists settings changes
type SettingsSaver interface {
	Save(ctx context.Context, s model.Settings) error
}

// Options tune the refresh cycle
type Options struct {
	CourseRange   string
	TodoRange     string
	DiscardStale  bool          // drop responses older than the newest applied one
	FetchTimeout  time.Duration // zero means no limit
	VerboseLabels bool
	Saver         SettingsSaver
}

// Dashboard holds the three record collections and replaces each one
// wholesale when its sheet is fetched successfully. A failed fetch keeps
// the old records and only sets the section's error placeholder.
type Dashboard struct {
	source  Source
	clock   schedule.Clock
	watcher *watch.Watcher
	poller  *schedule.Poller
	opts    Options

	mu          sync.Mutex
	settings    model.Settings
	filter      pipeline.Filter
	tasks       []model.Task
	courses     []model.Course
	todos       []model.TodoItem
	errs        map[Section]SectionError
	issued      map[Section]uint64
	applied     map[Section]uint64
	refreshedAt time.Time
	surfaces    []Surface
	ctx         context.Context
	closed      bool
}

// New creates a dashboard. Nothing is fetched until Start or Refresh.
func New(source Source, clock schedule.Clock, settings model.Settings, opts Options) *Dashboard {
	if opts.CourseRange == "" {
		opts.CourseRange = "시트2!A:E"
	}
	if opts.TodoRange == "" {
		opts.TodoRange = "시트3!A:C"
	}

	d := &Dashboard{
		source:   source,
		clock:    clock,
		watcher:  watch.New(clock),
		opts:     opts,
		settings: settings,
		errs:     make(map[Section]SectionError),
		issued:   make(map[Section]uint64),
		applied:  make(map[Section]uint64),
		ctx:      context.Background(),
	}
	d.poller = schedule.NewPoller(clock, d.refreshInBackground, d.Scan)
	d.watcher.Subscribe(d.forwardAlert)
	return d
}

// Attach adds a surface that receives renders, notifications and alerts
func (d *Dashboard) Attach(s Surface) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.surfaces = append(d.surfaces, s)
}

// Start loads every section once and arms the timers. Timer-driven
// refreshes run with ctx. Start does nothing once Stop has been called.
func (d *Dashboard) Start(ctx context.Context) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.ctx = ctx
	d.mu.Unlock()

	if err := d.Refresh(ctx); err != nil {
		logger.Warn("Initial refresh failed", logger.F("error", err))
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || ctx.Err() != nil {
		return
	}
	d.poller.Start(d.settings.RefreshInterval)
}

// Stop cancels the timers and any open alert. A stopped dashboard cannot
// be started again.
func (d *Dashboard) Stop() {
	d.mu.Lock()
	d.closed = true
	d.poller.Stop()
	d.mu.Unlock()

	d.watcher.Dismiss()
}

// Settings returns the current settings
func (d *Dashboard) Settings() model.Settings {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settings
}

// UpdateSettings persists s, applies it and restarts the configurable
// refresh timer.
func (d *Dashboard) UpdateSettings(ctx context.Context, s model.Settings) error {
	if s.SheetRange == "" {
		s.SheetRange = model.DefaultSettings().SheetRange
	}
	if d.opts.Saver != nil {
		if err := d.opts.Saver.Save(ctx, s); err != nil {
			d.notify(Notification{Message: "설정을 저장하지 못했습니다.", Severity: SeverityError})
			return fmt.Errorf("failed to save settings: %w", err)
		}
	}

	d.mu.Lock()
	d.settings = s
	d.mu.Unlock()

	d.poller.Reconfigure(s.RefreshInterval)
	logger.Info("Settings updated",
		logger.F("sheet", s.SheetID),
		logger.F("range", s.SheetRange),
		logger.F("interval_min", s.RefreshInterval))
	d.notify(Notification{Message: "설정이 저장되었습니다.", Severity: SeveritySuccess})
	return nil
}

// SetFilter changes the active task filter and re-renders
func (d *Dashboard) SetFilter(f pipeline.Filter) {
	d.mu.Lock()
	d.filter = f
	d.mu.Unlock()
	d.render()
}

// DismissAlert closes the upcoming to-do alert
func (d *Dashboard) DismissAlert() {
	d.watcher.Dismiss()
}

// Alert returns the current alert state
func (d *Dashboard) Alert() watch.AlertState {
	return d.watcher.Snapshot()
}

// Refresh fetches tasks, courses and to-dos. Each section succeeds or fails
// on its own; the returned error joins the failures.
func (d *Dashboard) Refresh(ctx context.Context) error {
	return errors.Join(
		d.RefreshTasks(ctx),
		d.RefreshCourses(ctx),
		d.RefreshTodos(ctx),
	)
}

func (d *Dashboard) refreshInBackground() {
	d.mu.Lock()
	ctx := d.ctx
	d.mu.Unlock()
	go d.Refresh(ctx)
}

// RefreshTasks reloads the task sheet after checking the key can read it
func (d *Dashboard) RefreshTasks(ctx context.Context) error {
	s := d.Settings()
	return d.run(ctx, SectionTasks, s.TaskRange(), true, func(rows [][]string, fetchedAt time.Time) (int, project.Report, func()) {
		tasks, report := project.Tasks(rows, fetchedAt, fetchedAt)
		return len(tasks), report, func() { d.tasks = tasks }
	})
}

// RefreshCourses reloads the course sheet
func (d *Dashboard) RefreshCourses(ctx context.Context) error {
	return d.run(ctx, SectionCourses, d.opts.CourseRange, false, func(rows [][]string, _ time.Time) (int, project.Report, func()) {
		courses, report := project.Courses(rows)
		return len(courses), report, func() { d.courses = courses }
	})
}

// RefreshTodos reloads the to-do sheet and scans it for upcoming items
func (d *Dashboard) RefreshTodos(ctx context.Context) error {
	err := d.run(ctx, SectionTodos, d.opts.TodoRange, false, func(rows [][]string, _ time.Time) (int, project.Report, func()) {
		items, report := project.TodoItems(rows)
		return len(items), report, func() { d.todos = items }
	})
	if err == nil {
		d.Scan()
	}
	return err
}

// Scan checks today's cached to-dos for items starting soon. It never
// touches the network.
func (d *Dashboard) Scan() {
	now := d.clock.Now()
	d.mu.Lock()
	today := pipeline.TodayTodos(d.todos, now)
	d.mu.Unlock()

	d.watcher.Scan(today, now)
}

// projector turns fetched rows into records. It returns the record count,
// the parse report and a function that installs the records; the installer
// runs with d.mu held.
type projector func(rows [][]string, fetchedAt time.Time) (int, project.Report, func())

func (d *Dashboard) run(ctx context.Context, section Section, rng string, preflight bool, proj projector) error {
	d.mu.Lock()
	creds := sheets.Credentials{SheetID: d.settings.SheetID, APIKey: d.settings.APIKey}
	d.issued[section]++
	gen := d.issued[section]
	d.mu.Unlock()

	log := logger.WithFields(
		logger.F("cycle", uuid.NewString()[:8]),
		logger.F("section", section))
	log.Debug("Refresh started", logger.F("range", rng), logger.F("gen", gen))

	rows, err := d.fetch(ctx, creds, rng, preflight)
	fetchedAt := d.clock.Now()

	var (
		count   int
		report  project.Report
		install func()
	)
	if err == nil {
		count, report, install = proj(rows, fetchedAt)
		if count == 0 {
			err = ErrNoData
		}
	}

	d.mu.Lock()
	if d.opts.DiscardStale && gen < d.applied[section] {
		d.mu.Unlock()
		log.Debug("Discarding stale response", logger.F("gen", gen))
		return nil
	}
	d.applied[section] = gen
	if err != nil {
		d.errs[section] = SectionError{Message: placeholder(section), Detail: err.Error()}
	} else {
		delete(d.errs, section)
		install()
		d.refreshedAt = fetchedAt
	}
	d.mu.Unlock()

	if err != nil {
		log.Error("Refresh failed", logger.F("error", err))
		d.notify(Notification{Message: userMessage(section, err), Severity: SeverityError})
		d.render()
		return fmt.Errorf("%s: %w", section, err)
	}

	report.Log(string(section))
	log.Info("Refresh complete", logger.F("records", count))
	if section == SectionTasks {
		d.notify(Notification{Message: "데이터를 성공적으로 불러왔습니다.", Severity: SeveritySuccess})
	}
	d.render()
	return nil
}

func (d *Dashboard) fetch(ctx context.Context, creds sheets.Credentials, rng string, preflight bool) ([][]string, error) {
	if !creds.Valid() {
		return nil, ErrCredentialsMissing
	}
	if d.opts.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opts.FetchTimeout)
		defer cancel()
	}

	if preflight {
		if err := d.source.CheckAccess(ctx, creds); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
	}

	rows, err := d.source.Values(ctx, creds, rng)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	return rows, nil
}

// View builds the presentation model with the current filter
func (d *Dashboard) View() View {
	d.mu.Lock()
	f := d.filter
	d.mu.Unlock()
	return d.ViewWith(f)
}

// ViewWith builds the presentation model with an explicit task filter
func (d *Dashboard) ViewWith(f pipeline.Filter) View {
	now := d.clock.Now()
	label := deadline.Labeler(d.opts.VerboseLabels)

	d.mu.Lock()
	tasks, courses, todos := d.tasks, d.courses, d.todos
	errs := make(map[Section]SectionError, len(d.errs))
	for k, v := range d.errs {
		errs[k] = v
	}
	refreshedAt := d.refreshedAt
	d.mu.Unlock()

	v := View{
		ActiveTasks:    pipeline.ActiveTasks(tasks, f, now),
		CompletedTasks: pipeline.CompletedTasks(tasks),
		Labels:         make(map[int]string, len(tasks)),
		Programs:       pipeline.CourseProgramView(courses, now),
		Todos:          pipeline.TodoSections(todos, now),
		Categories:     pipeline.Categories(tasks),
		Summary:        pipeline.Summarize(tasks),
		Filter:         f,
		Errors:         errs,
		Alert:          d.watcher.Snapshot(),
		RefreshedAt:    refreshedAt,
		Now:            now,
	}
	for _, t := range tasks {
		v.Labels[t.ID] = label(t.DueDate, now)
	}
	for _, item := range v.Todos.Today {
		if watch.IsUrgent(item, now) {
			if v.UrgentTodos == nil {
				v.UrgentTodos = make(map[int]bool)
			}
			v.UrgentTodos[item.ID] = true
		}
	}
	return v
}

// Tasks returns the current task records
func (d *Dashboard) Tasks() []model.Task {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tasks
}

// Courses returns the current course records
func (d *Dashboard) Courses() []model.Course {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.courses
}

// Todos returns the current to-do records
func (d *Dashboard) Todos() []model.TodoItem {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.todos
}

func (d *Dashboard) snapshotSurfaces() []Surface {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Surface(nil), d.surfaces...)
}

func (d *Dashboard) render() {
	surfaces := d.snapshotSurfaces()
	if len(surfaces) == 0 {
		return
	}
	v := d.View()
	for _, s := range surfaces {
		s.Render(v)
	}
}

func (d *Dashboard) notify(n Notification) {
	for _, s := range d.snapshotSurfaces() {
		s.Notify(n)
	}
}

func (d *Dashboard) forwardAlert(a watch.AlertState) {
	for _, s := range d.snapshotSurfaces() {
		s.Alert(a)
	}
}

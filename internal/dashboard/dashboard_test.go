package dashboard

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/existflow/sheetboard/internal/model"
	"github.com/existflow/sheetboard/internal/pipeline"
	"github.com/existflow/sheetboard/internal/schedule"
	"github.com/existflow/sheetboard/internal/sheets"
	"github.com/existflow/sheetboard/internal/watch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type response struct {
	rows [][]string
	err  error
	gate chan struct{}
}

type fakeSource struct {
	mu        sync.Mutex
	accessErr error
	responses map[string][]response
	calls     map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{responses: make(map[string][]response), calls: make(map[string]int)}
}

func (f *fakeSource) queue(rng string, r response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[rng] = append(f.responses[rng], r)
}

func (f *fakeSource) callCount(rng string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[rng]
}

func (f *fakeSource) CheckAccess(ctx context.Context, creds sheets.Credentials) error {
	return f.accessErr
}

func (f *fakeSource) Values(ctx context.Context, creds sheets.Credentials, rng string) ([][]string, error) {
	f.mu.Lock()
	i := f.calls[rng]
	f.calls[rng]++
	var r response
	if queued := f.responses[rng]; i < len(queued) {
		r = queued[i]
	} else if len(queued) > 0 {
		r = queued[len(queued)-1]
		r.gate = nil
	}
	f.mu.Unlock()

	if r.gate != nil {
		select {
		case <-r.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return r.rows, r.err
}

type fakeSurface struct {
	mu            sync.Mutex
	views         []View
	notifications []Notification
	alerts        []watch.AlertState
}

func (s *fakeSurface) Render(v View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views = append(s.views, v)
}

func (s *fakeSurface) Notify(n Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, n)
}

func (s *fakeSurface) Alert(a watch.AlertState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, a)
}

func (s *fakeSurface) lastNotification() Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.notifications) == 0 {
		return Notification{}
	}
	return s.notifications[len(s.notifications)-1]
}

type memSaver struct {
	saved []model.Settings
	err   error
}

func (m *memSaver) Save(ctx context.Context, s model.Settings) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, s)
	return nil
}

var (
	now   = time.Date(2025, 1, 10, 9, 0, 0, 0, time.Local)
	creds = model.Settings{SheetID: "sheet", APIKey: "key", SheetRange: "A:E", RefreshInterval: 5}
)

func taskRows(title, due string) [][]string {
	return [][]string{
		{"구분", "작업명", "마감일", "상태", "내용"},
		{"Work", title, due, "진행 중", ""},
	}
}

func newTestDashboard(t *testing.T, settings model.Settings, opts Options) (*Dashboard, *fakeSource, *fakeSurface, *schedule.ManualClock) {
	t.Helper()
	clock := schedule.NewManualClock(now)
	src := newFakeSource()
	d := New(src, clock, settings, opts)
	surface := &fakeSurface{}
	d.Attach(surface)
	t.Cleanup(d.Stop)
	return d, src, surface, clock
}

func TestRefreshTasks_Success(t *testing.T) {
	d, src, surface, _ := newTestDashboard(t, creds, Options{})
	src.queue("A:E", response{rows: [][]string{
		{"구분", "작업명", "마감일", "상태", "내용"},
		{"Work", "Report", "2025-01-13", "", "draft"},
		{"Work", "Slides", "2025-01-09", "진행", ""},
		{"Home", "Taxes", "2025-01-01", "완료", ""},
	}})

	require.NoError(t, d.RefreshTasks(context.Background()))

	v := d.View()
	require.Len(t, v.ActiveTasks, 2)
	assert.Equal(t, "Slides", v.ActiveTasks[0].Title)
	assert.Equal(t, "D+1", v.Labels[v.ActiveTasks[0].ID])
	assert.Equal(t, "D-3", v.Labels[v.ActiveTasks[1].ID])
	require.Len(t, v.CompletedTasks, 1)
	assert.Equal(t, []string{"Work", "Home"}, v.Categories)
	assert.Equal(t, pipeline.Summary{Total: 3, Completed: 1, Pending: 2, Overdue: 1}, v.Summary)
	assert.Empty(t, v.Errors)
	assert.Equal(t, now, v.RefreshedAt)
	assert.Equal(t, Notification{Message: "데이터를 성공적으로 불러왔습니다.", Severity: SeveritySuccess}, surface.lastNotification())
}

func TestRefresh_CredentialsMissing(t *testing.T) {
	d, src, surface, _ := newTestDashboard(t, model.DefaultSettings(), Options{})

	err := d.RefreshTasks(context.Background())
	assert.ErrorIs(t, err, ErrCredentialsMissing)
	assert.Zero(t, src.callCount("A:E"))
	assert.Equal(t, "시트 설정을 확인해주세요.", surface.lastNotification().Message)

	e, ok := d.View().Error(SectionTasks)
	require.True(t, ok)
	assert.Equal(t, "데이터를 불러올 수 없습니다.", e.Message)
}

func TestRefresh_AccessDenied(t *testing.T) {
	d, src, surface, _ := newTestDashboard(t, creds, Options{})
	src.accessErr = &sheets.TransportError{Status: http.StatusForbidden, Body: "denied"}

	err := d.RefreshTasks(context.Background())
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Zero(t, src.callCount("A:E"))
	assert.Equal(t, "시트 접근 권한을 확인해주세요.", surface.lastNotification().Message)
	assert.Equal(t, SeverityError, surface.lastNotification().Severity)
}

func TestRefresh_FailureKeepsRecords(t *testing.T) {
	d, src, _, _ := newTestDashboard(t, creds, Options{})
	src.queue("A:E", response{rows: taskRows("Report", "2025-01-13")})
	src.queue("A:E", response{err: &sheets.TransportError{Status: 500, Body: "backend error"}})

	require.NoError(t, d.RefreshTasks(context.Background()))
	err := d.RefreshTasks(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransport(err))

	v := d.View()
	assert.Len(t, v.ActiveTasks, 1, "records survive a failed refresh")
	e, ok := v.Error(SectionTasks)
	require.True(t, ok)
	assert.Contains(t, e.Detail, "500")

	src.queue("A:E", response{rows: taskRows("Review", "2025-01-14")})
	require.NoError(t, d.RefreshTasks(context.Background()))
	_, ok = d.View().Error(SectionTasks)
	assert.False(t, ok, "success clears the placeholder")
}

func TestRefresh_NoData(t *testing.T) {
	d, src, _, _ := newTestDashboard(t, creds, Options{})
	src.queue("A:E", response{rows: nil})
	src.queue("시트3!A:C", response{rows: [][]string{{"날짜", "투두리스트", "시간"}, {"", ""}}})

	assert.ErrorIs(t, d.RefreshTasks(context.Background()), ErrNoData)
	assert.ErrorIs(t, d.RefreshTodos(context.Background()), ErrNoData)
}

func TestRefresh_SectionsAreIndependent(t *testing.T) {
	d, src, _, _ := newTestDashboard(t, creds, Options{})
	src.queue("A:E", response{rows: taskRows("Report", "2025-01-13")})
	src.queue("시트2!A:E", response{err: errors.New("connection reset")})
	src.queue("시트3!A:C", response{rows: [][]string{{"2025-01-10", "Standup", "15:00"}}})

	err := d.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "courses")

	v := d.View()
	assert.Len(t, v.ActiveTasks, 1)
	assert.Len(t, v.Todos.Today, 1)
	_, ok := v.Error(SectionCourses)
	assert.True(t, ok)
}

func TestRefresh_LastResolvedWins(t *testing.T) {
	d, src, _, _ := newTestDashboard(t, creds, Options{})
	gate := make(chan struct{})
	src.queue("A:E", response{rows: taskRows("Y", "2025-01-13"), gate: gate})
	src.queue("A:E", response{rows: taskRows("X", "2025-01-13")})

	done := make(chan error, 1)
	go func() { done <- d.RefreshTasks(context.Background()) }()
	require.Eventually(t, func() bool { return src.callCount("A:E") == 1 }, time.Second, time.Millisecond)

	require.NoError(t, d.RefreshTasks(context.Background()))
	assert.Equal(t, "X", d.Tasks()[0].Title)

	close(gate)
	require.NoError(t, <-done)
	assert.Equal(t, "Y", d.Tasks()[0].Title)
}

func TestRefresh_DiscardStale(t *testing.T) {
	d, src, _, _ := newTestDashboard(t, creds, Options{DiscardStale: true})
	gate := make(chan struct{})
	src.queue("A:E", response{rows: taskRows("Y", "2025-01-13"), gate: gate})
	src.queue("A:E", response{rows: taskRows("X", "2025-01-13")})

	done := make(chan error, 1)
	go func() { done <- d.RefreshTasks(context.Background()) }()
	require.Eventually(t, func() bool { return src.callCount("A:E") == 1 }, time.Second, time.Millisecond)

	require.NoError(t, d.RefreshTasks(context.Background()))
	close(gate)
	require.NoError(t, <-done)
	assert.Equal(t, "X", d.Tasks()[0].Title)
}

func TestRefresh_FetchTimeout(t *testing.T) {
	d, src, _, _ := newTestDashboard(t, creds, Options{FetchTimeout: 10 * time.Millisecond})
	src.queue("시트2!A:E", response{gate: make(chan struct{})})

	err := d.RefreshCourses(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRefreshTodos_OpensAlert(t *testing.T) {
	d, src, surface, clock := newTestDashboard(t, creds, Options{})
	clock.Set(time.Date(2025, 1, 10, 23, 35, 0, 0, time.Local))
	src.queue("시트3!A:C", response{rows: [][]string{
		{"날짜", "투두리스트", "시간"},
		{"2025-01-10", "Journal", "23:59"},
		{"2025-01-11", "Gym", "07:00"},
	}})

	require.NoError(t, d.RefreshTodos(context.Background()))
	assert.True(t, d.Alert().Active)
	assert.NotEmpty(t, surface.alerts)

	v := d.View()
	assert.True(t, v.UrgentTodos[1])
	assert.Len(t, v.Todos.Tomorrow, 1)

	d.DismissAlert()
	assert.False(t, d.Alert().Active)
}

func TestStart_ArmsTimers(t *testing.T) {
	d, src, _, clock := newTestDashboard(t, creds, Options{})
	src.queue("A:E", response{rows: taskRows("Report", "2025-01-13")})
	src.queue("시트2!A:E", response{rows: [][]string{{"Backend", "Go", "2025-01-06", "2025-01-17", ""}}})
	src.queue("시트3!A:C", response{rows: [][]string{{"2025-01-10", "Standup", "09:45"}}})

	d.Start(context.Background())
	assert.Equal(t, 1, src.callCount("A:E"))
	assert.False(t, d.Alert().Active)
	assert.Len(t, d.View().Programs, 1)

	clock.Advance(15 * time.Minute)
	assert.True(t, d.Alert().Active, "minute scan opens the alert at 09:15")

	clock.Advance(5 * time.Minute)
	assert.Eventually(t, func() bool { return src.callCount("A:E") >= 3 }, time.Second, time.Millisecond)
}

func TestStart_AfterStopArmsNothing(t *testing.T) {
	d, src, _, clock := newTestDashboard(t, creds, Options{})
	src.queue("A:E", response{rows: taskRows("Report", "2025-01-13")})

	d.Stop()
	d.Start(context.Background())

	assert.Zero(t, clock.Active())
	assert.Zero(t, src.callCount("A:E"))
}

func TestStart_CancelledDuringRefreshArmsNothing(t *testing.T) {
	d, src, _, clock := newTestDashboard(t, creds, Options{})
	src.queue("A:E", response{rows: taskRows("Report", "2025-01-13")})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)

	assert.Zero(t, clock.Active())
}

func TestUpdateSettings(t *testing.T) {
	saver := &memSaver{}
	d, _, surface, _ := newTestDashboard(t, creds, Options{Saver: saver})

	next := creds
	next.SheetRange = ""
	next.RefreshInterval = 10
	require.NoError(t, d.UpdateSettings(context.Background(), next))

	require.Len(t, saver.saved, 1)
	assert.Equal(t, "A:E", saver.saved[0].SheetRange)
	assert.Equal(t, 10, d.Settings().RefreshInterval)
	assert.Equal(t, SeveritySuccess, surface.lastNotification().Severity)

	saver.err = errors.New("disk full")
	assert.Error(t, d.UpdateSettings(context.Background(), creds))
	assert.Equal(t, 10, d.Settings().RefreshInterval)
}

func TestViewWith_Filter(t *testing.T) {
	d, src, _, _ := newTestDashboard(t, creds, Options{VerboseLabels: true})
	src.queue("A:E", response{rows: [][]string{
		{"Work", "Report", "2025-01-13"},
		{"Home", "Taxes", "2025-02-28"},
	}})
	require.NoError(t, d.RefreshTasks(context.Background()))

	v := d.ViewWith(pipeline.Filter{Category: "Home"})
	require.Len(t, v.ActiveTasks, 1)
	assert.Equal(t, "Taxes", v.ActiveTasks[0].Title)
	assert.Equal(t, "3일 남음", v.Labels[1])

	d.SetFilter(pipeline.Filter{Deadline: model.BucketUrgent})
	v = d.View()
	require.Len(t, v.ActiveTasks, 1)
	assert.Equal(t, "Report", v.ActiveTasks[0].Title)
}

package pipeline

import (
	"testing"
	"time"

	"github.com/existflow/sheetboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	return &t
}

func TestCourseProgramView(t *testing.T) {
	courses := []model.Course{
		{ID: 1, CourseName: "Backend", Subject: "SQL", Start: day(2025, 1, 20), End: day(2025, 1, 31)},
		{ID: 2, CourseName: "Design", Subject: "Color", Start: day(2024, 11, 1), End: day(2024, 11, 30)},
		{ID: 3, CourseName: "Backend", Subject: "Go", Start: day(2025, 1, 6), End: day(2025, 1, 10)},
		{ID: 4, CourseName: "Backend", Subject: "Docker", Start: day(2025, 1, 13), End: day(2025, 1, 17)},
		{ID: 5, CourseName: "Backend", Subject: "TBD"},
	}

	programs := CourseProgramView(courses, today)
	require.Len(t, programs, 2)

	backend := programs[0]
	assert.Equal(t, "Backend", backend.CourseName)
	var order []string
	for _, s := range backend.Subjects {
		order = append(order, s.Subject)
	}
	assert.Equal(t, []string{"Go", "Docker", "SQL", "TBD"}, order)
	require.Len(t, backend.CurrentSubjects, 1)
	assert.Equal(t, "Go", backend.CurrentSubjects[0].Subject)
	require.NotNil(t, backend.NextSubject)
	assert.Equal(t, "Docker", backend.NextSubject.Subject)
	assert.Equal(t, []model.ProgramStatus{model.ProgramActive, model.ProgramUpcoming}, backend.Indicators)

	design := programs[1]
	assert.True(t, design.IsCompleted())
	assert.Equal(t, []model.ProgramStatus{model.ProgramCompleted}, design.Indicators)
}

func TestCourseProgramView_UpcomingOnly(t *testing.T) {
	programs := CourseProgramView([]model.Course{
		{CourseName: "Data", Subject: "Stats", Start: day(2025, 2, 1), End: day(2025, 2, 28)},
	}, today)

	require.Len(t, programs, 1)
	assert.Empty(t, programs[0].CurrentSubjects)
	assert.Equal(t, []model.ProgramStatus{model.ProgramUpcoming}, programs[0].Indicators)
}

package pipeline

import (
	"sort"
	"time"

	"github.com/existflow/sheetboard/internal/datetime"
	"github.com/existflow/sheetboard/internal/model"
)

// CourseProgramView groups courses by name in first-seen order and works
// out what is running today and what starts next.
func CourseProgramView(courses []model.Course, today time.Time) []model.CourseProgram {
	var order []string
	groups := make(map[string][]model.Course)
	for _, c := range courses {
		if _, ok := groups[c.CourseName]; !ok {
			order = append(order, c.CourseName)
		}
		groups[c.CourseName] = append(groups[c.CourseName], c)
	}

	programs := make([]model.CourseProgram, 0, len(order))
	for _, name := range order {
		programs = append(programs, buildProgram(name, groups[name], today))
	}
	return programs
}

func buildProgram(name string, subjects []model.Course, today time.Time) model.CourseProgram {
	sort.SliceStable(subjects, func(i, j int) bool {
		a, b := subjects[i].Start, subjects[j].Start
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return a.Before(*b)
	})

	p := model.CourseProgram{CourseName: name, Subjects: subjects}
	for i := range subjects {
		c := &subjects[i]
		if c.Start == nil {
			continue
		}
		started := datetime.DaysBetween(*c.Start, today) >= 0
		if started && c.End != nil && datetime.DaysBetween(today, *c.End) >= 0 {
			p.CurrentSubjects = append(p.CurrentSubjects, *c)
		}
		if !started && p.NextSubject == nil {
			next := *c
			p.NextSubject = &next
		}
	}

	if len(p.CurrentSubjects) > 0 {
		p.Indicators = append(p.Indicators, model.ProgramActive)
	}
	if p.NextSubject != nil {
		p.Indicators = append(p.Indicators, model.ProgramUpcoming)
	}
	if len(p.Indicators) == 0 {
		p.Indicators = append(p.Indicators, model.ProgramCompleted)
	}
	return p
}

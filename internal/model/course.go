package model

import "time"

// Course is one subject row of the course sheet
type Course struct {
	ID         int        `json:"id"`
	CourseName string     `json:"course_name"`
	Subject    string     `json:"subject"`
	StartDate  string     `json:"start_date"`
	EndDate    string     `json:"end_date"`
	ClassTime  string     `json:"class_time"`
	Start      *time.Time `json:"-"`
	End        *time.Time `json:"-"`
}

// ProgramStatus is a status indicator of a course program
type ProgramStatus string

const (
	ProgramActive    ProgramStatus = "active"
	ProgramUpcoming  ProgramStatus = "upcoming"
	ProgramCompleted ProgramStatus = "completed"
)

// Label returns the Korean indicator text
func (s ProgramStatus) Label() string {
	switch s {
	case ProgramActive:
		return "진행 중"
	case ProgramUpcoming:
		return "예정"
	default:
		return "완료"
	}
}

// CourseProgram groups the subjects of one course
type CourseProgram struct {
	CourseName      string          `json:"course_name"`
	Subjects        []Course        `json:"subjects"`
	CurrentSubjects []Course        `json:"current_subjects"`
	NextSubject     *Course         `json:"next_subject,omitempty"`
	Indicators      []ProgramStatus `json:"indicators"`
}

// IsCompleted reports whether nothing is running or scheduled
func (p *CourseProgram) IsCompleted() bool {
	return len(p.CurrentSubjects) == 0 && p.NextSubject == nil
}

package models

import (
	"time"

	"github.com/lib/pq"
)

// Enrollment is a student's course roster for one semester. There is at
// most one record per (student, semester); every change replaces the
// record wholesale.
type Enrollment struct {
	StudentID      string         `db:"student_id" json:"student_id"`
	Semester       string         `db:"semester" json:"semester"`
	Courses        pq.StringArray `db:"courses" json:"courses"`
	TotalCredits   int            `db:"total_credits" json:"total_credits"`
	EnrollmentDate time.Time      `db:"enrollment_date" json:"enrollment_date"`
	Status         string         `db:"status" json:"status"`
}

// EnrollmentAction distinguishes history entries.
type EnrollmentAction string

const (
	EnrollmentActionEnroll EnrollmentAction = "enroll"
	EnrollmentActionDrop   EnrollmentAction = "drop"
)

// HistoryRetention caps the enrollment history collection globally;
// the oldest entries are evicted first.
const HistoryRetention = 100

// EnrollmentHistoryEntry is an immutable record of an add/drop attempt.
type EnrollmentHistoryEntry struct {
	ID         string           `db:"id" json:"id"`
	StudentID  string           `db:"student_id" json:"student_id"`
	Action     EnrollmentAction `db:"action" json:"action"`
	CourseID   string           `db:"course_id" json:"course_id"`
	CourseName string           `db:"course_name" json:"course_name"`
	Instructor string           `db:"instructor" json:"instructor"`
	Semester   string           `db:"semester" json:"semester"`
	Timestamp  time.Time        `db:"timestamp" json:"timestamp"`
	Result     string           `db:"result" json:"result"`
}

package models

// CourseStatus reflects whether a course can accept enrollments.
type CourseStatus string

const (
	CourseStatusOpen        CourseStatus = "open"
	CourseStatusFull        CourseStatus = "full"
	CourseStatusSuspended   CourseStatus = "suspended"
	CourseStatusMaintenance CourseStatus = "maintenance"
)

// Course is a capacity-bounded offering for one semester.
// CurrentStudents must stay within [0, MaxStudents]; the open/full status
// pair is derived from occupancy, while suspended/maintenance are set
// administratively and never flipped by occupancy changes.
type Course struct {
	ID              string       `db:"id" json:"id"`
	Code            string       `db:"code" json:"code"`
	Name            string       `db:"name" json:"name"`
	Instructor      string       `db:"instructor" json:"instructor"`
	Semester        string       `db:"semester" json:"semester"`
	Credits         int          `db:"credits" json:"credits"`
	ScheduleCode    string       `db:"schedule_code" json:"schedule_code"`
	Classroom       string       `db:"classroom" json:"classroom"`
	MaxStudents     int          `db:"max_students" json:"max_students"`
	CurrentStudents int          `db:"current_students" json:"current_students"`
	Status          CourseStatus `db:"status" json:"status"`
	Department      string       `db:"department" json:"department"`
	Type            string       `db:"type" json:"type"`
	Year            int          `db:"year" json:"year"`
	Description     string       `db:"description" json:"description"`
}

package models

import "time"

// AttendanceStatus classifies a day's record for an employee.
type AttendanceStatus string

const (
	AttendanceStatusNormal AttendanceStatus = "normal"
	AttendanceStatusLate   AttendanceStatus = "late"
	AttendanceStatusAbsent AttendanceStatus = "absent"
	AttendanceStatusLeave  AttendanceStatus = "leave"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusNormal, AttendanceStatusLate, AttendanceStatusAbsent, AttendanceStatusLeave:
		return true
	default:
		return false
	}
}

// AttendanceRecord is the single record per (employee, calendar day).
// Clock times are zero-padded HH:MM:SS strings; Date is YYYY-MM-DD.
// CheckOut is only valid after CheckIn has been set on the same record.
type AttendanceRecord struct {
	ID            string           `db:"id" json:"id"`
	EmployeeID    string           `db:"employee_id" json:"employee_id"`
	Date          string           `db:"date" json:"date"`
	CheckIn       string           `db:"check_in" json:"check_in"`
	CheckOut      string           `db:"check_out" json:"check_out"`
	WorkHours     float64          `db:"work_hours" json:"work_hours"`
	OvertimeHours float64          `db:"overtime_hours" json:"overtime_hours"`
	Status        AttendanceStatus `db:"status" json:"status"`
	Note          string           `db:"note" json:"note"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at" json:"updated_at"`
}

// AttendanceDetail enriches a record with the employee profile.
type AttendanceDetail struct {
	AttendanceRecord
	Employee *Employee `json:"employee,omitempty"`
}

// AttendanceFilter narrows attendance listings.
type AttendanceFilter struct {
	Date         string
	DepartmentID string
	EmployeeID   string
}

// AttendanceStats aggregates one listing into headline numbers.
type AttendanceStats struct {
	Total          int     `json:"total"`
	Normal         int     `json:"normal"`
	Late           int     `json:"late"`
	Absent         int     `json:"absent"`
	Leave          int     `json:"leave"`
	AttendanceRate float64 `json:"attendance_rate"`
	AvgWorkHours   float64 `json:"avg_work_hours"`
}

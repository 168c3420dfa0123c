package models

import "time"

// LeaveStatus tracks the approval workflow.
type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
)

// LeaveRequest is a leave application with its approval outcome.
type LeaveRequest struct {
	ID           string      `db:"id" json:"id"`
	EmployeeID   string      `db:"employee_id" json:"employee_id"`
	EmployeeName string      `db:"employee_name" json:"employee_name"`
	LeaveType    string      `db:"leave_type" json:"leave_type"`
	StartDate    string      `db:"start_date" json:"start_date"`
	EndDate      string      `db:"end_date" json:"end_date"`
	TotalDays    int         `db:"total_days" json:"total_days"`
	Reason       string      `db:"reason" json:"reason"`
	Status       LeaveStatus `db:"status" json:"status"`
	AppliedAt    time.Time   `db:"applied_at" json:"applied_at"`
	ApprovedBy   *string     `db:"approved_by" json:"approved_by,omitempty"`
	ApprovedAt   *time.Time  `db:"approved_at" json:"approved_at,omitempty"`
	Note         string      `db:"note" json:"note"`
}

// LeaveStats summarises approved leave days for one employee and year.
type LeaveStats struct {
	TotalDays     int `json:"total_days"`
	SickLeave     int `json:"sick_leave"`
	PersonalLeave int `json:"personal_leave"`
	AnnualLeave   int `json:"annual_leave"`
	Other         int `json:"other"`
}

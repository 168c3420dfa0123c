package models

import "time"

// EmployeeStatus covers the HR lifecycle of a staff record.
type EmployeeStatus string

const (
	EmployeeStatusActive   EmployeeStatus = "active"
	EmployeeStatusInactive EmployeeStatus = "inactive"
	EmployeeStatusOnLeave  EmployeeStatus = "leave"
)

// Employee is a staff profile. Deletion is soft: the record flips to
// inactive and is never removed.
type Employee struct {
	ID           string         `db:"id" json:"id"`
	EmployeeID   string         `db:"employee_id" json:"employee_id"`
	Username     string         `db:"username" json:"username"`
	Name         string         `db:"name" json:"name"`
	Email        string         `db:"email" json:"email"`
	Phone        string         `db:"phone" json:"phone"`
	Position     string         `db:"position" json:"position"`
	Department   string         `db:"department" json:"department"`
	DepartmentID string         `db:"department_id" json:"department_id"`
	HireDate     string         `db:"hire_date" json:"hire_date"`
	Salary       int            `db:"salary" json:"salary"`
	Status       EmployeeStatus `db:"status" json:"status"`
	ContractType string         `db:"contract_type" json:"contract_type"`
	WorkType     string         `db:"work_type" json:"work_type"`
	Supervisor   *string        `db:"supervisor" json:"supervisor,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// Department is an organisational unit.
type Department struct {
	ID            string `db:"id" json:"id"`
	Name          string `db:"name" json:"name"`
	Code          string `db:"code" json:"code"`
	Type          string `db:"type" json:"type"`
	Head          string `db:"head" json:"head"`
	Location      string `db:"location" json:"location"`
	Phone         string `db:"phone" json:"phone"`
	Email         string `db:"email" json:"email"`
	EmployeeCount int    `db:"employee_count" json:"employee_count"`
	Status        string `db:"status" json:"status"`
}

// EmployeeFilter narrows employee searches.
type EmployeeFilter struct {
	Query        string
	DepartmentID string
}

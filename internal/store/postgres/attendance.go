package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campushq/campus-admin-api/internal/models"
	"github.com/campushq/campus-admin-api/internal/store"
)

const attendanceColumns = `id, employee_id, date, check_in, check_out, work_hours, overtime_hours,
	status, note, created_at, updated_at`

// GetAttendance returns the record for one employee and day.
func (s *Store) GetAttendance(ctx context.Context, employeeID, date string) (*models.AttendanceRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM attendance WHERE employee_id = $1 AND date = $2`, attendanceColumns)
	var rec models.AttendanceRecord
	if err := s.db.GetContext(ctx, &rec, query, employeeID, date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get attendance: %w", err)
	}
	return &rec, nil
}

// SaveAttendance upserts the record keyed by (employee, date).
func (s *Store) SaveAttendance(ctx context.Context, rec *models.AttendanceRecord) error {
	const query = `INSERT INTO attendance (id, employee_id, date, check_in, check_out, work_hours,
		overtime_hours, status, note, created_at, updated_at)
		VALUES (:id, :employee_id, :date, :check_in, :check_out, :work_hours,
		:overtime_hours, :status, :note, :created_at, :updated_at)
		ON CONFLICT (employee_id, date) DO UPDATE
		SET check_in = EXCLUDED.check_in, check_out = EXCLUDED.check_out,
			work_hours = EXCLUDED.work_hours, overtime_hours = EXCLUDED.overtime_hours,
			status = EXCLUDED.status, note = EXCLUDED.note, updated_at = EXCLUDED.updated_at`
	if _, err := s.db.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("save attendance: %w", err)
	}
	return nil
}

// ListAttendance filters records by day, employee and department. The
// department filter resolves through the staff roster since records
// only carry the employee number.
func (s *Store) ListAttendance(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error) {
	query := `SELECT a.id, a.employee_id, a.date, a.check_in, a.check_out, a.work_hours,
		a.overtime_hours, a.status, a.note, a.created_at, a.updated_at FROM attendance a`
	var conditions []string
	var args []interface{}

	if filter.Date != "" {
		conditions = append(conditions, fmt.Sprintf("a.date = $%d", len(args)+1))
		args = append(args, filter.Date)
	}
	if filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", len(args)+1))
		args = append(args, filter.EmployeeID)
	}
	if filter.DepartmentID != "" && filter.DepartmentID != "all" {
		conditions = append(conditions, fmt.Sprintf(
			`a.employee_id IN (SELECT employee_id FROM employees WHERE department_id = $%d OR department = $%d)`,
			len(args)+1, len(args)+1))
		args = append(args, filter.DepartmentID)
	}
	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY a.date DESC, a.employee_id"

	var records []models.AttendanceRecord
	if err := s.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}

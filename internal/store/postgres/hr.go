package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/campushq/campus-admin-api/internal/models"
	"github.com/campushq/campus-admin-api/internal/store"
)

const employeeColumns = `id, employee_id, username, name, email, phone, position, department,
	department_id, hire_date, salary, status, contract_type, work_type, supervisor, created_at, updated_at`

// ListDepartments returns every department.
func (s *Store) ListDepartments(ctx context.Context) ([]models.Department, error) {
	const query = `SELECT id, name, code, type, head, location, phone, email, employee_count, status
		FROM departments ORDER BY id`
	var departments []models.Department
	if err := s.db.SelectContext(ctx, &departments, query); err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return departments, nil
}

// GetDepartment looks a department up by id.
func (s *Store) GetDepartment(ctx context.Context, id string) (*models.Department, error) {
	const query = `SELECT id, name, code, type, head, location, phone, email, employee_count, status
		FROM departments WHERE id = $1`
	var dept models.Department
	if err := s.db.GetContext(ctx, &dept, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get department: %w", err)
	}
	return &dept, nil
}

// ListEmployees filters the staff roster by department and free text.
func (s *Store) ListEmployees(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees`, employeeColumns)
	var conditions []string
	var args []interface{}

	if filter.DepartmentID != "" && filter.DepartmentID != "all" {
		conditions = append(conditions, fmt.Sprintf("(department_id = $%d OR department = $%d)", len(args)+1, len(args)+1))
		args = append(args, filter.DepartmentID)
	}
	if filter.Query != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE $%d OR employee_id ILIKE $%d OR email ILIKE $%d OR position ILIKE $%d)",
			len(args)+1, len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Query+"%")
	}
	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY employee_id"

	var employees []models.Employee
	if err := s.db.SelectContext(ctx, &employees, query, args...); err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return employees, nil
}

// GetEmployee looks an employee up by record id.
func (s *Store) GetEmployee(ctx context.Context, id string) (*models.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees WHERE id = $1`, employeeColumns)
	var emp models.Employee
	if err := s.db.GetContext(ctx, &emp, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return &emp, nil
}

// GetEmployeeByNumber looks an employee up by staff number.
func (s *Store) GetEmployeeByNumber(ctx context.Context, employeeID string) (*models.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees WHERE employee_id = $1`, employeeColumns)
	var emp models.Employee
	if err := s.db.GetContext(ctx, &emp, query, employeeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get employee by number: %w", err)
	}
	return &emp, nil
}

// CreateEmployee inserts a staff record, rejecting duplicate staff
// numbers.
func (s *Store) CreateEmployee(ctx context.Context, emp *models.Employee) error {
	const query = `INSERT INTO employees (id, employee_id, username, name, email, phone, position,
		department, department_id, hire_date, salary, status, contract_type, work_type, supervisor,
		created_at, updated_at)
		VALUES (:id, :employee_id, :username, :name, :email, :phone, :position,
		:department, :department_id, :hire_date, :salary, :status, :contract_type, :work_type, :supervisor,
		:created_at, :updated_at)`
	if _, err := s.db.NamedExecContext(ctx, query, emp); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return store.ErrDuplicate
		}
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

// UpdateEmployee rewrites an existing staff record by id.
func (s *Store) UpdateEmployee(ctx context.Context, emp *models.Employee) error {
	const query = `UPDATE employees SET username = :username, name = :name, email = :email,
		phone = :phone, position = :position, department = :department, department_id = :department_id,
		hire_date = :hire_date, salary = :salary, status = :status, contract_type = :contract_type,
		work_type = :work_type, supervisor = :supervisor, updated_at = :updated_at
		WHERE id = :id`
	res, err := s.db.NamedExecContext(ctx, query, emp)
	if err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListLeaves filters leave requests by employee and status, newest
// applications first.
func (s *Store) ListLeaves(ctx context.Context, employeeID string, status models.LeaveStatus) ([]models.LeaveRequest, error) {
	query := `SELECT id, employee_id, employee_name, leave_type, start_date, end_date, total_days,
		reason, status, applied_at, approved_by, approved_at, note FROM leaves`
	var conditions []string
	var args []interface{}
	if employeeID != "" {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", len(args)+1))
		args = append(args, employeeID)
	}
	if status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, status)
	}
	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY applied_at DESC"

	var leaves []models.LeaveRequest
	if err := s.db.SelectContext(ctx, &leaves, query, args...); err != nil {
		return nil, fmt.Errorf("list leaves: %w", err)
	}
	return leaves, nil
}

// GetLeave looks a leave request up by id.
func (s *Store) GetLeave(ctx context.Context, id string) (*models.LeaveRequest, error) {
	const query = `SELECT id, employee_id, employee_name, leave_type, start_date, end_date, total_days,
		reason, status, applied_at, approved_by, approved_at, note FROM leaves WHERE id = $1`
	var leave models.LeaveRequest
	if err := s.db.GetContext(ctx, &leave, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get leave: %w", err)
	}
	return &leave, nil
}

// CreateLeave inserts a leave request.
func (s *Store) CreateLeave(ctx context.Context, leave *models.LeaveRequest) error {
	const query = `INSERT INTO leaves (id, employee_id, employee_name, leave_type, start_date, end_date,
		total_days, reason, status, applied_at, approved_by, approved_at, note)
		VALUES (:id, :employee_id, :employee_name, :leave_type, :start_date, :end_date,
		:total_days, :reason, :status, :applied_at, :approved_by, :approved_at, :note)`
	if _, err := s.db.NamedExecContext(ctx, query, leave); err != nil {
		return fmt.Errorf("create leave: %w", err)
	}
	return nil
}

// UpdateLeave rewrites an existing leave request by id.
func (s *Store) UpdateLeave(ctx context.Context, leave *models.LeaveRequest) error {
	const query = `UPDATE leaves SET status = :status, approved_by = :approved_by,
		approved_at = :approved_at, note = :note WHERE id = :id`
	res, err := s.db.NamedExecContext(ctx, query, leave)
	if err != nil {
		return fmt.Errorf("update leave: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

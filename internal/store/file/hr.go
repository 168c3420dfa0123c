package file

import (
	"context"
	"sort"
	"strings"

	"github.com/campushq/campus-admin-api/internal/models"
	"github.com/campushq/campus-admin-api/internal/store"
)

// ListDepartments returns every department.
func (s *Store) ListDepartments(ctx context.Context) ([]models.Department, error) {
	s.locks[colDepartments].RLock()
	defer s.locks[colDepartments].RUnlock()

	var departments []models.Department
	if err := s.read(colDepartments, &departments); err != nil {
		return nil, err
	}
	return departments, nil
}

// GetDepartment looks a department up by id.
func (s *Store) GetDepartment(ctx context.Context, id string) (*models.Department, error) {
	s.locks[colDepartments].RLock()
	defer s.locks[colDepartments].RUnlock()

	var departments []models.Department
	if err := s.read(colDepartments, &departments); err != nil {
		return nil, err
	}
	for i := range departments {
		if departments[i].ID == id {
			d := departments[i]
			return &d, nil
		}
	}
	return nil, store.ErrNotFound
}

// ListEmployees filters the staff roster by department and free text.
func (s *Store) ListEmployees(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error) {
	s.locks[colEmployees].RLock()
	defer s.locks[colEmployees].RUnlock()

	var employees []models.Employee
	if err := s.read(colEmployees, &employees); err != nil {
		return nil, err
	}
	result := make([]models.Employee, 0, len(employees))
	term := strings.ToLower(filter.Query)
	for _, e := range employees {
		if filter.DepartmentID != "" && filter.DepartmentID != "all" &&
			e.DepartmentID != filter.DepartmentID && e.Department != filter.DepartmentID {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(e.Name), term) &&
			!strings.Contains(strings.ToLower(e.EmployeeID), term) &&
			!strings.Contains(strings.ToLower(e.Email), term) &&
			!strings.Contains(strings.ToLower(e.Position), term) {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

// GetEmployee looks an employee up by record id.
func (s *Store) GetEmployee(ctx context.Context, id string) (*models.Employee, error) {
	s.locks[colEmployees].RLock()
	defer s.locks[colEmployees].RUnlock()

	var employees []models.Employee
	if err := s.read(colEmployees, &employees); err != nil {
		return nil, err
	}
	for i := range employees {
		if employees[i].ID == id {
			e := employees[i]
			return &e, nil
		}
	}
	return nil, store.ErrNotFound
}

// GetEmployeeByNumber looks an employee up by staff number.
func (s *Store) GetEmployeeByNumber(ctx context.Context, employeeID string) (*models.Employee, error) {
	s.locks[colEmployees].RLock()
	defer s.locks[colEmployees].RUnlock()

	var employees []models.Employee
	if err := s.read(colEmployees, &employees); err != nil {
		return nil, err
	}
	for i := range employees {
		if employees[i].EmployeeID == employeeID {
			e := employees[i]
			return &e, nil
		}
	}
	return nil, store.ErrNotFound
}

// CreateEmployee appends a staff record, rejecting duplicate staff
// numbers.
func (s *Store) CreateEmployee(ctx context.Context, emp *models.Employee) error {
	s.locks[colEmployees].Lock()
	defer s.locks[colEmployees].Unlock()

	var employees []models.Employee
	if err := s.read(colEmployees, &employees); err != nil {
		return err
	}
	for i := range employees {
		if employees[i].EmployeeID == emp.EmployeeID {
			return store.ErrDuplicate
		}
	}
	employees = append(employees, *emp)
	return s.write(colEmployees, employees)
}

// UpdateEmployee rewrites an existing staff record by id.
func (s *Store) UpdateEmployee(ctx context.Context, emp *models.Employee) error {
	s.locks[colEmployees].Lock()
	defer s.locks[colEmployees].Unlock()

	var employees []models.Employee
	if err := s.read(colEmployees, &employees); err != nil {
		return err
	}
	for i := range employees {
		if employees[i].ID == emp.ID {
			employees[i] = *emp
			return s.write(colEmployees, employees)
		}
	}
	return store.ErrNotFound
}

// ListLeaves filters leave requests by employee and status, newest
// applications first.
func (s *Store) ListLeaves(ctx context.Context, employeeID string, status models.LeaveStatus) ([]models.LeaveRequest, error) {
	s.locks[colLeaves].RLock()
	defer s.locks[colLeaves].RUnlock()

	var leaves []models.LeaveRequest
	if err := s.read(colLeaves, &leaves); err != nil {
		return nil, err
	}
	result := make([]models.LeaveRequest, 0, len(leaves))
	for _, l := range leaves {
		if employeeID != "" && l.EmployeeID != employeeID {
			continue
		}
		if status != "" && l.Status != status {
			continue
		}
		result = append(result, l)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].AppliedAt.After(result[j].AppliedAt)
	})
	return result, nil
}

// GetLeave looks a leave request up by id.
func (s *Store) GetLeave(ctx context.Context, id string) (*models.LeaveRequest, error) {
	s.locks[colLeaves].RLock()
	defer s.locks[colLeaves].RUnlock()

	var leaves []models.LeaveRequest
	if err := s.read(colLeaves, &leaves); err != nil {
		return nil, err
	}
	for i := range leaves {
		if leaves[i].ID == id {
			l := leaves[i]
			return &l, nil
		}
	}
	return nil, store.ErrNotFound
}

// CreateLeave appends a leave request.
func (s *Store) CreateLeave(ctx context.Context, leave *models.LeaveRequest) error {
	s.locks[colLeaves].Lock()
	defer s.locks[colLeaves].Unlock()

	var leaves []models.LeaveRequest
	if err := s.read(colLeaves, &leaves); err != nil {
		return err
	}
	leaves = append(leaves, *leave)
	return s.write(colLeaves, leaves)
}

// UpdateLeave rewrites an existing leave request by id.
func (s *Store) UpdateLeave(ctx context.Context, leave *models.LeaveRequest) error {
	s.locks[colLeaves].Lock()
	defer s.locks[colLeaves].Unlock()

	var leaves []models.LeaveRequest
	if err := s.read(colLeaves, &leaves); err != nil {
		return err
	}
	for i := range leaves {
		if leaves[i].ID == leave.ID {
			leaves[i] = *leave
			return s.write(colLeaves, leaves)
		}
	}
	return store.ErrNotFound
}

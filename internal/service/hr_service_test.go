package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/campus-admin-api/internal/models"
	"github.com/campushq/campus-admin-api/internal/store"
	appErrors "github.com/campushq/campus-admin-api/pkg/errors"
)

type mockHRStore struct {
	departments []models.Department
	employees   map[string]*models.Employee
	leaves      map[string]*models.LeaveRequest

	createEmployeeErr error
	updateEmployeeErr error
	createLeaveErr    error
}

func newMockHRStore() *mockHRStore {
	return &mockHRStore{
		employees: make(map[string]*models.Employee),
		leaves:    make(map[string]*models.LeaveRequest),
	}
}

func (m *mockHRStore) ListDepartments(_ context.Context) ([]models.Department, error) {
	return m.departments, nil
}

func (m *mockHRStore) GetDepartment(_ context.Context, id string) (*models.Department, error) {
	for i := range m.departments {
		if m.departments[i].ID == id {
			return &m.departments[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockHRStore) ListEmployees(_ context.Context, filter models.EmployeeFilter) ([]models.Employee, error) {
	out := make([]models.Employee, 0, len(m.employees))
	for _, emp := range m.employees {
		if filter.DepartmentID != "" && emp.DepartmentID != filter.DepartmentID {
			continue
		}
		out = append(out, *emp)
	}
	return out, nil
}

func (m *mockHRStore) GetEmployee(_ context.Context, id string) (*models.Employee, error) {
	emp, ok := m.employees[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *emp
	return &clone, nil
}

func (m *mockHRStore) GetEmployeeByNumber(_ context.Context, employeeID string) (*models.Employee, error) {
	for _, emp := range m.employees {
		if emp.EmployeeID == employeeID {
			clone := *emp
			return &clone, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockHRStore) CreateEmployee(_ context.Context, emp *models.Employee) error {
	if m.createEmployeeErr != nil {
		return m.createEmployeeErr
	}
	for _, existing := range m.employees {
		if existing.EmployeeID == emp.EmployeeID {
			return store.ErrDuplicate
		}
	}
	clone := *emp
	m.employees[emp.ID] = &clone
	return nil
}

func (m *mockHRStore) UpdateEmployee(_ context.Context, emp *models.Employee) error {
	if m.updateEmployeeErr != nil {
		return m.updateEmployeeErr
	}
	if _, ok := m.employees[emp.ID]; !ok {
		return store.ErrNotFound
	}
	clone := *emp
	m.employees[emp.ID] = &clone
	return nil
}

func (m *mockHRStore) ListLeaves(_ context.Context, employeeID string, status models.LeaveStatus) ([]models.LeaveRequest, error) {
	out := make([]models.LeaveRequest, 0, len(m.leaves))
	for _, leave := range m.leaves {
		if employeeID != "" && leave.EmployeeID != employeeID {
			continue
		}
		if status != "" && leave.Status != status {
			continue
		}
		out = append(out, *leave)
	}
	return out, nil
}

func (m *mockHRStore) GetLeave(_ context.Context, id string) (*models.LeaveRequest, error) {
	leave, ok := m.leaves[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *leave
	return &clone, nil
}

func (m *mockHRStore) CreateLeave(_ context.Context, leave *models.LeaveRequest) error {
	if m.createLeaveErr != nil {
		return m.createLeaveErr
	}
	clone := *leave
	m.leaves[leave.ID] = &clone
	return nil
}

func (m *mockHRStore) UpdateLeave(_ context.Context, leave *models.LeaveRequest) error {
	if _, ok := m.leaves[leave.ID]; !ok {
		return store.ErrNotFound
	}
	clone := *leave
	m.leaves[leave.ID] = &clone
	return nil
}

func (m *mockHRStore) addEmployee(id, number, name string, status models.EmployeeStatus) {
	m.employees[id] = &models.Employee{
		ID:         id,
		EmployeeID: number,
		Name:       name,
		Status:     status,
	}
}

func strPtr(s string) *string { return &s }

func TestHRServiceDepartmentByID(t *testing.T) {
	st := newMockHRStore()
	st.departments = []models.Department{
		{ID: "dept001", Name: "Engineering", Code: "ENG"},
		{ID: "dept002", Name: "Human Resources", Code: "HR"},
	}
	svc := NewHRService(st, nil, nil)

	department, err := svc.Department(context.Background(), "dept002")
	require.NoError(t, err)
	assert.Equal(t, "Human Resources", department.Name)

	_, err = svc.Department(context.Background(), "dept099")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "department not found", appErr.Message)
}

func TestHRServiceCreateEmployeeSuccess(t *testing.T) {
	st := newMockHRStore()
	svc := NewHRService(st, nil, nil)

	emp, err := svc.CreateEmployee(context.Background(), CreateEmployeeRequest{
		EmployeeID: "E001",
		Name:       "Dian Kusuma",
		Email:      "dian@campus.edu",
		Position:   "Registrar",
		Salary:     5200,
		Supervisor: "E000",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, emp.ID)
	assert.Equal(t, "E001", emp.EmployeeID)
	assert.Equal(t, models.EmployeeStatusActive, emp.Status)
	require.NotNil(t, emp.Supervisor)
	assert.Equal(t, "E000", *emp.Supervisor)

	stored, err := st.GetEmployee(context.Background(), emp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dian Kusuma", stored.Name)
}

func TestHRServiceCreateEmployeeDuplicateNumber(t *testing.T) {
	st := newMockHRStore()
	st.addEmployee("emp-1", "E001", "Dian Kusuma", models.EmployeeStatusActive)
	svc := NewHRService(st, nil, nil)

	_, err := svc.CreateEmployee(context.Background(), CreateEmployeeRequest{
		EmployeeID: "E001",
		Name:       "Another Person",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "employee number already in use", appErr.Message)
}

func TestHRServiceCreateEmployeeValidatesPayload(t *testing.T) {
	svc := NewHRService(newMockHRStore(), nil, nil)

	_, err := svc.CreateEmployee(context.Background(), CreateEmployeeRequest{
		EmployeeID: "E001",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestHRServiceUpdateEmployeeAppliesPartialFields(t *testing.T) {
	st := newMockHRStore()
	st.addEmployee("emp-1", "E001", "Dian Kusuma", models.EmployeeStatusActive)
	svc := NewHRService(st, nil, nil)

	salary := 6100
	emp, err := svc.UpdateEmployee(context.Background(), "emp-1", UpdateEmployeeRequest{
		Position: strPtr("Senior Registrar"),
		Salary:   &salary,
		Status:   strPtr("leave"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Senior Registrar", emp.Position)
	assert.Equal(t, 6100, emp.Salary)
	assert.Equal(t, models.EmployeeStatusOnLeave, emp.Status)
	assert.Equal(t, "Dian Kusuma", emp.Name)
}

func TestHRServiceUpdateEmployeeRejectsUnknownStatus(t *testing.T) {
	st := newMockHRStore()
	st.addEmployee("emp-1", "E001", "Dian Kusuma", models.EmployeeStatusActive)
	svc := NewHRService(st, nil, nil)

	_, err := svc.UpdateEmployee(context.Background(), "emp-1", UpdateEmployeeRequest{
		Status: strPtr("retired"),
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "unknown employee status", appErr.Message)
}

func TestHRServiceUpdateEmployeeClearsSupervisor(t *testing.T) {
	st := newMockHRStore()
	st.addEmployee("emp-1", "E001", "Dian Kusuma", models.EmployeeStatusActive)
	st.employees["emp-1"].Supervisor = strPtr("E000")
	svc := NewHRService(st, nil, nil)

	emp, err := svc.UpdateEmployee(context.Background(), "emp-1", UpdateEmployeeRequest{
		Supervisor: strPtr(""),
	})
	require.NoError(t, err)
	assert.Nil(t, emp.Supervisor)
}

func TestHRServiceUpdateEmployeeNotFound(t *testing.T) {
	svc := NewHRService(newMockHRStore(), nil, nil)

	_, err := svc.UpdateEmployee(context.Background(), "missing", UpdateEmployeeRequest{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestHRServiceDeactivateEmployee(t *testing.T) {
	st := newMockHRStore()
	st.addEmployee("emp-1", "E001", "Dian Kusuma", models.EmployeeStatusActive)
	svc := NewHRService(st, nil, nil)

	emp, err := svc.DeactivateEmployee(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, models.EmployeeStatusInactive, emp.Status)

	stored, err := st.GetEmployee(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, models.EmployeeStatusInactive, stored.Status)
}

func TestHRServiceDeactivateAlreadyInactive(t *testing.T) {
	st := newMockHRStore()
	st.addEmployee("emp-1", "E001", "Dian Kusuma", models.EmployeeStatusInactive)
	svc := NewHRService(st, nil, nil)

	_, err := svc.DeactivateEmployee(context.Background(), "emp-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)
	assert.Equal(t, "employee already inactive", appErr.Message)
}

func TestHRServiceApplyLeaveCopiesEmployeeName(t *testing.T) {
	st := newMockHRStore()
	st.addEmployee("emp-1", "E001", "Dian Kusuma", models.EmployeeStatusActive)
	svc := NewHRService(st, nil, nil)

	leave, err := svc.ApplyLeave(context.Background(), ApplyLeaveRequest{
		EmployeeID: "E001",
		LeaveType:  "sick",
		StartDate:  "2025-06-10",
		EndDate:    "2025-06-11",
		TotalDays:  2,
		Reason:     "flu",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, leave.ID)
	assert.Equal(t, "Dian Kusuma", leave.EmployeeName)
	assert.Equal(t, models.LeaveStatusPending, leave.Status)
	assert.Nil(t, leave.ApprovedBy)
	assert.False(t, leave.AppliedAt.IsZero())
}

func TestHRServiceApplyLeaveUnknownEmployee(t *testing.T) {
	svc := NewHRService(newMockHRStore(), nil, nil)

	_, err := svc.ApplyLeave(context.Background(), ApplyLeaveRequest{
		EmployeeID: "E999",
		LeaveType:  "sick",
		StartDate:  "2025-06-10",
		EndDate:    "2025-06-11",
		TotalDays:  2,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestHRServiceApplyLeaveValidatesPayload(t *testing.T) {
	svc := NewHRService(newMockHRStore(), nil, nil)

	_, err := svc.ApplyLeave(context.Background(), ApplyLeaveRequest{
		EmployeeID: "E001",
		LeaveType:  "sick",
		StartDate:  "2025-06-10",
		EndDate:    "2025-06-11",
		TotalDays:  0,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestHRServiceReviewLeaveApproves(t *testing.T) {
	st := newMockHRStore()
	st.leaves["lv-1"] = &models.LeaveRequest{
		ID:         "lv-1",
		EmployeeID: "E001",
		LeaveType:  "annual",
		Status:     models.LeaveStatusPending,
	}
	svc := NewHRService(st, nil, nil)

	leave, err := svc.ReviewLeave(context.Background(), "lv-1", ReviewLeaveRequest{
		Approve:    true,
		ReviewerID: "hr001",
		Note:       "enjoy",
	})
	require.NoError(t, err)

	assert.Equal(t, models.LeaveStatusApproved, leave.Status)
	require.NotNil(t, leave.ApprovedBy)
	assert.Equal(t, "hr001", *leave.ApprovedBy)
	require.NotNil(t, leave.ApprovedAt)
	assert.Equal(t, "enjoy", leave.Note)
}

func TestHRServiceReviewLeaveRejects(t *testing.T) {
	st := newMockHRStore()
	st.leaves["lv-1"] = &models.LeaveRequest{
		ID:         "lv-1",
		EmployeeID: "E001",
		LeaveType:  "personal",
		Status:     models.LeaveStatusPending,
	}
	svc := NewHRService(st, nil, nil)

	leave, err := svc.ReviewLeave(context.Background(), "lv-1", ReviewLeaveRequest{
		Approve:    false,
		ReviewerID: "hr001",
		Note:       "short staffed that week",
	})
	require.NoError(t, err)
	assert.Equal(t, models.LeaveStatusRejected, leave.Status)
}

func TestHRServiceReviewLeaveAlreadySettled(t *testing.T) {
	st := newMockHRStore()
	st.leaves["lv-1"] = &models.LeaveRequest{
		ID:         "lv-1",
		EmployeeID: "E001",
		Status:     models.LeaveStatusApproved,
	}
	svc := NewHRService(st, nil, nil)

	_, err := svc.ReviewLeave(context.Background(), "lv-1", ReviewLeaveRequest{
		Approve:    false,
		ReviewerID: "hr001",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)
	assert.Equal(t, "leave request already settled", appErr.Message)
}

func TestHRServiceLeaveStatsBucketsByType(t *testing.T) {
	st := newMockHRStore()
	st.leaves["lv-1"] = &models.LeaveRequest{ID: "lv-1", EmployeeID: "E001", LeaveType: "sick", StartDate: "2025-02-03", TotalDays: 2, Status: models.LeaveStatusApproved}
	st.leaves["lv-2"] = &models.LeaveRequest{ID: "lv-2", EmployeeID: "E001", LeaveType: "annual", StartDate: "2025-07-14", TotalDays: 5, Status: models.LeaveStatusApproved}
	st.leaves["lv-3"] = &models.LeaveRequest{ID: "lv-3", EmployeeID: "E001", LeaveType: "maternity", StartDate: "2025-09-01", TotalDays: 30, Status: models.LeaveStatusApproved}
	// Pending and prior-year entries do not count.
	st.leaves["lv-4"] = &models.LeaveRequest{ID: "lv-4", EmployeeID: "E001", LeaveType: "personal", StartDate: "2025-03-10", TotalDays: 1, Status: models.LeaveStatusPending}
	st.leaves["lv-5"] = &models.LeaveRequest{ID: "lv-5", EmployeeID: "E001", LeaveType: "sick", StartDate: "2024-11-20", TotalDays: 3, Status: models.LeaveStatusApproved}
	svc := NewHRService(st, nil, nil)

	stats, err := svc.LeaveStats(context.Background(), "E001", 2025)
	require.NoError(t, err)

	assert.Equal(t, 37, stats.TotalDays)
	assert.Equal(t, 2, stats.SickLeave)
	assert.Equal(t, 5, stats.AnnualLeave)
	assert.Equal(t, 0, stats.PersonalLeave)
	assert.Equal(t, 30, stats.Other)
}

func TestHRServiceLeaveStatsWithoutYearCountsEverything(t *testing.T) {
	st := newMockHRStore()
	st.leaves["lv-1"] = &models.LeaveRequest{ID: "lv-1", EmployeeID: "E001", LeaveType: "sick", StartDate: "2024-11-20", TotalDays: 3, Status: models.LeaveStatusApproved}
	st.leaves["lv-2"] = &models.LeaveRequest{ID: "lv-2", EmployeeID: "E001", LeaveType: "sick", StartDate: "2025-02-03", TotalDays: 2, Status: models.LeaveStatusApproved}
	svc := NewHRService(st, nil, nil)

	stats, err := svc.LeaveStats(context.Background(), "E001", 0)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalDays)
	assert.Equal(t, 5, stats.SickLeave)
}

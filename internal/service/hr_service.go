package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campushq/campus-admin-api/internal/models"
	"github.com/campushq/campus-admin-api/internal/store"
	appErrors "github.com/campushq/campus-admin-api/pkg/errors"
)

type hrStore interface {
	ListDepartments(ctx context.Context) ([]models.Department, error)
	GetDepartment(ctx context.Context, id string) (*models.Department, error)
	ListEmployees(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error)
	GetEmployee(ctx context.Context, id string) (*models.Employee, error)
	GetEmployeeByNumber(ctx context.Context, employeeID string) (*models.Employee, error)
	CreateEmployee(ctx context.Context, emp *models.Employee) error
	UpdateEmployee(ctx context.Context, emp *models.Employee) error
	ListLeaves(ctx context.Context, employeeID string, status models.LeaveStatus) ([]models.LeaveRequest, error)
	GetLeave(ctx context.Context, id string) (*models.LeaveRequest, error)
	CreateLeave(ctx context.Context, leave *models.LeaveRequest) error
	UpdateLeave(ctx context.Context, leave *models.LeaveRequest) error
}

// CreateEmployeeRequest registers a new staff member.
type CreateEmployeeRequest struct {
	EmployeeID   string `json:"employee_id" validate:"required"`
	Username     string `json:"username"`
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"omitempty,email"`
	Phone        string `json:"phone"`
	Position     string `json:"position"`
	Department   string `json:"department"`
	DepartmentID string `json:"department_id"`
	HireDate     string `json:"hire_date"`
	Salary       int    `json:"salary" validate:"gte=0"`
	ContractType string `json:"contract_type"`
	WorkType     string `json:"work_type"`
	Supervisor   string `json:"supervisor"`
}

// UpdateEmployeeRequest carries partial profile changes.
type UpdateEmployeeRequest struct {
	Name         *string `json:"name"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Phone        *string `json:"phone"`
	Position     *string `json:"position"`
	Department   *string `json:"department"`
	DepartmentID *string `json:"department_id"`
	Salary       *int    `json:"salary" validate:"omitempty,gte=0"`
	Status       *string `json:"status"`
	ContractType *string `json:"contract_type"`
	WorkType     *string `json:"work_type"`
	Supervisor   *string `json:"supervisor"`
}

// ApplyLeaveRequest files a leave application.
type ApplyLeaveRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	LeaveType  string `json:"leave_type" validate:"required"`
	StartDate  string `json:"start_date" validate:"required"`
	EndDate    string `json:"end_date" validate:"required"`
	TotalDays  int    `json:"total_days" validate:"gt=0"`
	Reason     string `json:"reason"`
}

// ReviewLeaveRequest approves or rejects a pending application.
type ReviewLeaveRequest struct {
	Approve    bool   `json:"approve"`
	ReviewerID string `json:"reviewer_id" validate:"required"`
	Note       string `json:"note"`
}

// HRService manages staff, departments and the leave workflow.
type HRService struct {
	store     hrStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewHRService constructs HRService.
func NewHRService(st hrStore, validate *validator.Validate, logger *zap.Logger) *HRService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HRService{store: st, validator: validate, logger: logger}
}

// Departments lists every organisational unit.
func (s *HRService) Departments(ctx context.Context) ([]models.Department, error) {
	departments, err := s.store.ListDepartments(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list departments")
	}
	return departments, nil
}

// Department returns one organisational unit by id.
func (s *HRService) Department(ctx context.Context, id string) (*models.Department, error) {
	department, err := s.store.GetDepartment(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}
	return department, nil
}

// Employees lists staff matching the filter.
func (s *HRService) Employees(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error) {
	employees, err := s.store.ListEmployees(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list employees")
	}
	return employees, nil
}

// Employee returns one staff record by id.
func (s *HRService) Employee(ctx context.Context, id string) (*models.Employee, error) {
	employee, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}
	return employee, nil
}

// CreateEmployee registers a staff member. Staff numbers are unique.
func (s *HRService) CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid employee payload")
	}

	now := time.Now()
	employee := &models.Employee{
		ID:           uuid.NewString(),
		EmployeeID:   req.EmployeeID,
		Username:     req.Username,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Position:     req.Position,
		Department:   req.Department,
		DepartmentID: req.DepartmentID,
		HireDate:     req.HireDate,
		Salary:       req.Salary,
		Status:       models.EmployeeStatusActive,
		ContractType: req.ContractType,
		WorkType:     req.WorkType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.Supervisor != "" {
		employee.Supervisor = &req.Supervisor
	}
	if err := s.store.CreateEmployee(ctx, employee); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "employee number already in use")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create employee")
	}
	return employee, nil
}

// UpdateEmployee applies a partial update to a staff record.
func (s *HRService) UpdateEmployee(ctx context.Context, id string, req UpdateEmployeeRequest) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid employee payload")
	}
	employee, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}

	if req.Name != nil {
		employee.Name = *req.Name
	}
	if req.Email != nil {
		employee.Email = *req.Email
	}
	if req.Phone != nil {
		employee.Phone = *req.Phone
	}
	if req.Position != nil {
		employee.Position = *req.Position
	}
	if req.Department != nil {
		employee.Department = *req.Department
	}
	if req.DepartmentID != nil {
		employee.DepartmentID = *req.DepartmentID
	}
	if req.Salary != nil {
		employee.Salary = *req.Salary
	}
	if req.Status != nil {
		status := models.EmployeeStatus(*req.Status)
		switch status {
		case models.EmployeeStatusActive, models.EmployeeStatusInactive, models.EmployeeStatusOnLeave:
			employee.Status = status
		default:
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown employee status")
		}
	}
	if req.ContractType != nil {
		employee.ContractType = *req.ContractType
	}
	if req.WorkType != nil {
		employee.WorkType = *req.WorkType
	}
	if req.Supervisor != nil {
		if *req.Supervisor == "" {
			employee.Supervisor = nil
		} else {
			employee.Supervisor = req.Supervisor
		}
	}
	employee.UpdatedAt = time.Now()

	if err := s.store.UpdateEmployee(ctx, employee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update employee")
	}
	return employee, nil
}

// DeactivateEmployee flips a staff record to inactive. Records are
// never deleted.
func (s *HRService) DeactivateEmployee(ctx context.Context, id string) (*models.Employee, error) {
	employee, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}
	if employee.Status == models.EmployeeStatusInactive {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "employee already inactive")
	}
	employee.Status = models.EmployeeStatusInactive
	employee.UpdatedAt = time.Now()
	if err := s.store.UpdateEmployee(ctx, employee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate employee")
	}
	return employee, nil
}

// Leaves lists leave applications filtered by employee and status.
func (s *HRService) Leaves(ctx context.Context, employeeID string, status models.LeaveStatus) ([]models.LeaveRequest, error) {
	leaves, err := s.store.ListLeaves(ctx, employeeID, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list leaves")
	}
	return leaves, nil
}

// ApplyLeave files a new pending application.
func (s *HRService) ApplyLeave(ctx context.Context, req ApplyLeaveRequest) (*models.LeaveRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid leave payload")
	}
	employee, err := s.store.GetEmployeeByNumber(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}

	leave := &models.LeaveRequest{
		ID:           uuid.NewString(),
		EmployeeID:   req.EmployeeID,
		EmployeeName: employee.Name,
		LeaveType:    req.LeaveType,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		TotalDays:    req.TotalDays,
		Reason:       req.Reason,
		Status:       models.LeaveStatusPending,
		AppliedAt:    time.Now(),
	}
	if err := s.store.CreateLeave(ctx, leave); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create leave")
	}
	return leave, nil
}

// ReviewLeave settles a pending application.
func (s *HRService) ReviewLeave(ctx context.Context, id string, req ReviewLeaveRequest) (*models.LeaveRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}
	leave, err := s.store.GetLeave(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "leave request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leave request")
	}
	if leave.Status != models.LeaveStatusPending {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "leave request already settled")
	}

	now := time.Now()
	if req.Approve {
		leave.Status = models.LeaveStatusApproved
	} else {
		leave.Status = models.LeaveStatusRejected
	}
	leave.ApprovedBy = &req.ReviewerID
	leave.ApprovedAt = &now
	leave.Note = req.Note
	if err := s.store.UpdateLeave(ctx, leave); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update leave request")
	}
	return leave, nil
}

// LeaveStats totals an employee's approved leave days for one year.
func (s *HRService) LeaveStats(ctx context.Context, employeeID string, year int) (*models.LeaveStats, error) {
	leaves, err := s.store.ListLeaves(ctx, employeeID, models.LeaveStatusApproved)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list leaves")
	}

	stats := &models.LeaveStats{}
	prefix := ""
	if year > 0 {
		prefix = strconv.Itoa(year)
	}
	for _, leave := range leaves {
		if prefix != "" && !strings.HasPrefix(leave.StartDate, prefix) {
			continue
		}
		stats.TotalDays += leave.TotalDays
		switch leave.LeaveType {
		case "sick":
			stats.SickLeave += leave.TotalDays
		case "personal":
			stats.PersonalLeave += leave.TotalDays
		case "annual":
			stats.AnnualLeave += leave.TotalDays
		default:
			stats.Other += leave.TotalDays
		}
	}
	return stats, nil
}

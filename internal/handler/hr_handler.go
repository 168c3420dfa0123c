package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campushq/campus-admin-api/internal/middleware"
	"github.com/campushq/campus-admin-api/internal/models"
	"github.com/campushq/campus-admin-api/internal/service"
	appErrors "github.com/campushq/campus-admin-api/pkg/errors"
	"github.com/campushq/campus-admin-api/pkg/response"
)

// HRHandler exposes staff, department and leave endpoints.
type HRHandler struct {
	service *service.HRService
	cache   *service.CacheService
}

// NewHRHandler creates a new handler.
func NewHRHandler(svc *service.HRService, cache *service.CacheService) *HRHandler {
	return &HRHandler{service: svc, cache: cache}
}

// ListDepartments godoc
// @Summary List departments
// @Tags HR
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /hr/departments [get]
func (h *HRHandler) ListDepartments(c *gin.Context) {
	departments, err := h.service.Departments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, departments, nil)
}

// GetDepartment godoc
// @Summary Get department
// @Tags HR
// @Produce json
// @Param id path string true "Department ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hr/departments/{id} [get]
func (h *HRHandler) GetDepartment(c *gin.Context) {
	department, err := h.service.Department(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, department, nil)
}

// ListEmployees godoc
// @Summary List employees
// @Description List employees filtered by department or free-text query
// @Tags HR
// @Produce json
// @Param department query string false "Department filter"
// @Param q query string false "Free-text query"
// @Success 200 {object} response.Envelope
// @Router /hr/employees [get]
func (h *HRHandler) ListEmployees(c *gin.Context) {
	filter := models.EmployeeFilter{
		Query:        c.Query("q"),
		DepartmentID: c.Query("department"),
	}

	employees, err := h.service.Employees(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employees, nil)
}

// GetEmployee godoc
// @Summary Get employee
// @Tags HR
// @Produce json
// @Param id path string true "Employee record ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hr/employees/{id} [get]
func (h *HRHandler) GetEmployee(c *gin.Context) {
	employee, err := h.service.Employee(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employee, nil)
}

// CreateEmployee godoc
// @Summary Create employee
// @Tags HR
// @Accept json
// @Produce json
// @Param payload body service.CreateEmployeeRequest true "Employee payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /hr/employees [post]
func (h *HRHandler) CreateEmployee(c *gin.Context) {
	var req service.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid employee payload"))
		return
	}

	employee, err := h.service.CreateEmployee(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.InvalidateResponses(c, h.cache, "")
	response.Created(c, employee)
}

// UpdateEmployee godoc
// @Summary Update employee
// @Description Apply a partial profile update
// @Tags HR
// @Accept json
// @Produce json
// @Param id path string true "Employee record ID"
// @Param payload body service.UpdateEmployeeRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hr/employees/{id} [put]
func (h *HRHandler) UpdateEmployee(c *gin.Context) {
	var req service.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid update payload"))
		return
	}

	employee, err := h.service.UpdateEmployee(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.InvalidateResponses(c, h.cache, "")
	response.JSON(c, http.StatusOK, employee, nil)
}

// DeactivateEmployee godoc
// @Summary Deactivate employee
// @Description Soft-delete an employee by marking them inactive
// @Tags HR
// @Produce json
// @Param id path string true "Employee record ID"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /hr/employees/{id} [delete]
func (h *HRHandler) DeactivateEmployee(c *gin.Context) {
	employee, err := h.service.DeactivateEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.InvalidateResponses(c, h.cache, "")
	response.JSON(c, http.StatusOK, employee, nil)
}

// ListLeaves godoc
// @Summary List leave requests
// @Tags HR
// @Produce json
// @Param employee_id query string false "Employee number filter"
// @Param status query string false "Status filter"
// @Success 200 {object} response.Envelope
// @Router /hr/leaves [get]
func (h *HRHandler) ListLeaves(c *gin.Context) {
	leaves, err := h.service.Leaves(c.Request.Context(), c.Query("employee_id"), models.LeaveStatus(c.Query("status")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leaves, nil)
}

// ApplyLeave godoc
// @Summary Apply for leave
// @Tags HR
// @Accept json
// @Produce json
// @Param payload body service.ApplyLeaveRequest true "Leave payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hr/leaves [post]
func (h *HRHandler) ApplyLeave(c *gin.Context) {
	var req service.ApplyLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid leave payload"))
		return
	}

	leave, err := h.service.ApplyLeave(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.InvalidateResponses(c, h.cache, "")
	response.Created(c, leave)
}

// ReviewLeave godoc
// @Summary Review leave request
// @Description Approve or reject a pending application
// @Tags HR
// @Accept json
// @Produce json
// @Param id path string true "Leave request ID"
// @Param payload body service.ReviewLeaveRequest true "Review payload"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /hr/leaves/{id}/review [post]
func (h *HRHandler) ReviewLeave(c *gin.Context) {
	var req service.ReviewLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid review payload"))
		return
	}

	leave, err := h.service.ReviewLeave(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.InvalidateResponses(c, h.cache, "")
	response.JSON(c, http.StatusOK, leave, nil)
}

// LeaveStats godoc
// @Summary Leave statistics
// @Description Summarise approved leave days for one employee and year
// @Tags HR
// @Produce json
// @Param employeeId path string true "Employee number"
// @Param year query int false "Calendar year"
// @Success 200 {object} response.Envelope
// @Router /hr/leaves/stats/{employeeId} [get]
func (h *HRHandler) LeaveStats(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))

	stats, err := h.service.LeaveStats(c.Request.Context(), c.Param("employeeId"), year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/campus-admin-api/internal/middleware"
	"github.com/campushq/campus-admin-api/internal/models"
	"github.com/campushq/campus-admin-api/internal/service"
	appErrors "github.com/campushq/campus-admin-api/pkg/errors"
	"github.com/campushq/campus-admin-api/pkg/response"
)

// AttendanceHandler exposes the clock-in/out and reporting endpoints.
type AttendanceHandler struct {
	service *service.AttendanceService
	cache   *service.CacheService
}

// NewAttendanceHandler creates a new handler.
func NewAttendanceHandler(svc *service.AttendanceService, cache *service.CacheService) *AttendanceHandler {
	return &AttendanceHandler{service: svc, cache: cache}
}

func attendanceFilterFromQuery(c *gin.Context) models.AttendanceFilter {
	return models.AttendanceFilter{
		Date:         c.Query("date"),
		DepartmentID: c.Query("department"),
		EmployeeID:   c.Query("employee_id"),
	}
}

// ClockIn godoc
// @Summary Clock in
// @Description Record the start of an employee's work day
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.ClockRequest true "Clock payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /attendance/clock-in [post]
func (h *AttendanceHandler) ClockIn(c *gin.Context) {
	var req service.ClockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid clock payload"))
		return
	}

	rec, err := h.service.ClockIn(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.InvalidateResponses(c, h.cache, "")
	response.JSON(c, http.StatusOK, rec, nil)
}

// ClockOut godoc
// @Summary Clock out
// @Description Record the end of an employee's work day and compute hours
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.ClockRequest true "Clock payload"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /attendance/clock-out [post]
func (h *AttendanceHandler) ClockOut(c *gin.Context) {
	var req service.ClockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid clock payload"))
		return
	}

	rec, err := h.service.ClockOut(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.InvalidateResponses(c, h.cache, "")
	response.JSON(c, http.StatusOK, rec, nil)
}

// Upsert godoc
// @Summary Upsert attendance record
// @Description Write one attendance record manually
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.AttendanceUpsertRequest true "Record payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /attendance/records [put]
func (h *AttendanceHandler) Upsert(c *gin.Context) {
	var req service.AttendanceUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid record payload"))
		return
	}

	rec, err := h.service.Upsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.InvalidateResponses(c, h.cache, "")
	response.JSON(c, http.StatusOK, rec, nil)
}

// List godoc
// @Summary List attendance
// @Description List attendance records with employee details
// @Tags Attendance
// @Produce json
// @Param date query string false "Date filter (YYYY-MM-DD)"
// @Param department query string false "Department filter"
// @Param employee_id query string false "Employee filter"
// @Success 200 {object} response.Envelope
// @Router /attendance/records [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	details, err := h.service.List(c.Request.Context(), attendanceFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}

// Stats godoc
// @Summary Attendance statistics
// @Description Aggregate attendance rate and average hours for a listing
// @Tags Attendance
// @Produce json
// @Param date query string false "Date filter (YYYY-MM-DD)"
// @Param department query string false "Department filter"
// @Param employee_id query string false "Employee filter"
// @Success 200 {object} response.Envelope
// @Router /attendance/stats [get]
func (h *AttendanceHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), attendanceFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

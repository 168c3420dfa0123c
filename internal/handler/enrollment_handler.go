package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campushq/campus-admin-api/internal/middleware"
	"github.com/campushq/campus-admin-api/internal/service"
	appErrors "github.com/campushq/campus-admin-api/pkg/errors"
	"github.com/campushq/campus-admin-api/pkg/response"
)

// EnrollmentHandler exposes the course catalog and add/drop endpoints.
type EnrollmentHandler struct {
	service *service.EnrollmentService
	cache   *service.CacheService
}

// NewEnrollmentHandler creates a new handler.
func NewEnrollmentHandler(svc *service.EnrollmentService, cache *service.CacheService) *EnrollmentHandler {
	return &EnrollmentHandler{service: svc, cache: cache}
}

// ListCourses godoc
// @Summary List courses
// @Description List catalog courses, optionally filtered by semester
// @Tags Enrollment
// @Produce json
// @Param semester query string false "Semester filter"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *EnrollmentHandler) ListCourses(c *gin.Context) {
	courses, err := h.service.Courses(c.Request.Context(), c.Query("semester"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// GetCourse godoc
// @Summary Get course
// @Description Fetch one catalog course by id
// @Tags Enrollment
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *EnrollmentHandler) GetCourse(c *gin.Context) {
	course, err := h.service.Course(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// GetRoster godoc
// @Summary Get student roster
// @Description Fetch the enrollment record for a student and semester
// @Tags Enrollment
// @Produce json
// @Param studentId path string true "Student ID"
// @Param semester query string true "Semester"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{studentId} [get]
func (h *EnrollmentHandler) GetRoster(c *gin.Context) {
	roster, err := h.service.Roster(c.Request.Context(), c.Param("studentId"), c.Query("semester"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster, nil)
}

// Enroll godoc
// @Summary Enroll in course
// @Description Add one course to a student roster
// @Tags Enrollment
// @Accept json
// @Produce json
// @Param payload body service.EnrollRequest true "Enroll payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /enrollments/enroll [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req service.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid enroll payload"))
		return
	}

	roster, err := h.service.Enroll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.InvalidateResponses(c, h.cache, "")
	response.JSON(c, http.StatusOK, roster, nil)
}

// Drop godoc
// @Summary Drop course
// @Description Remove one course from a student roster
// @Tags Enrollment
// @Accept json
// @Produce json
// @Param payload body service.DropRequest true "Drop payload"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /enrollments/drop [post]
func (h *EnrollmentHandler) Drop(c *gin.Context) {
	var req service.DropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid drop payload"))
		return
	}

	roster, err := h.service.Drop(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.InvalidateResponses(c, h.cache, "")
	response.JSON(c, http.StatusOK, roster, nil)
}

// ReplaceRoster godoc
// @Summary Replace roster
// @Description Rewrite a student roster wholesale
// @Tags Enrollment
// @Accept json
// @Produce json
// @Param payload body service.ReplaceRosterRequest true "Roster payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /enrollments [put]
func (h *EnrollmentHandler) ReplaceRoster(c *gin.Context) {
	var req service.ReplaceRosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid roster payload"))
		return
	}

	roster, err := h.service.ReplaceRoster(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.InvalidateResponses(c, h.cache, "")
	response.JSON(c, http.StatusOK, roster, nil)
}

// History godoc
// @Summary Enrollment history
// @Description List recent enrollment actions for a student
// @Tags Enrollment
// @Produce json
// @Param studentId path string true "Student ID"
// @Param limit query int false "Maximum entries"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{studentId}/history [get]
func (h *EnrollmentHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	entries, err := h.service.History(c.Request.Context(), c.Param("studentId"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

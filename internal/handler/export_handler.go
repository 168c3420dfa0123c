package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/campus-admin-api/internal/service"
	"github.com/campushq/campus-admin-api/pkg/response"
)

// ExportHandler serves downloadable attendance reports.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// AttendanceReport godoc
// @Summary Export attendance report
// @Description Render the filtered attendance listing as CSV or PDF
// @Tags Attendance
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Param date query string false "Date filter (YYYY-MM-DD)"
// @Param department query string false "Department filter"
// @Param employee_id query string false "Employee filter"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /attendance/export [get]
func (h *ExportHandler) AttendanceReport(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))

	result, err := h.service.AttendanceReport(c.Request.Context(), attendanceFilterFromQuery(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}

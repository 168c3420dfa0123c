package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/campushq/campus-admin-api/internal/models"
	appErrors "github.com/campushq/campus-admin-api/pkg/errors"
	"github.com/campushq/campus-admin-api/pkg/export"
)

// ExportFormat selects the rendered file type.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportResult carries a rendered attendance report.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders attendance listings into downloadable reports
// and keeps a copy on disk.
type ExportService struct {
	attendance *AttendanceService
	storage    fileStorage
	csv        csvRenderer
	pdf        pdfRenderer
	logger     *zap.Logger
}

// NewExportService constructs ExportService.
func NewExportService(attendance *AttendanceService, storage fileStorage, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		attendance: attendance,
		storage:    storage,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		logger:     logger,
	}
}

// AttendanceReport renders the filtered attendance listing in the
// requested format.
func (s *ExportService) AttendanceReport(ctx context.Context, filter models.AttendanceFilter, format ExportFormat) (*ExportResult, error) {
	details, err := s.attendance.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"Date", "Employee ID", "Name", "Department", "Check In", "Check Out", "Work Hours", "Overtime", "Status", "Note"},
	}
	for _, detail := range details {
		name, department := "", ""
		if detail.Employee != nil {
			name = detail.Employee.Name
			department = detail.Employee.Department
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Date":        detail.Date,
			"Employee ID": detail.EmployeeID,
			"Name":        name,
			"Department":  department,
			"Check In":    detail.CheckIn,
			"Check Out":   detail.CheckOut,
			"Work Hours":  fmt.Sprintf("%.2f", detail.WorkHours),
			"Overtime":    fmt.Sprintf("%.2f", detail.OvertimeHours),
			"Status":      string(detail.Status),
			"Note":        detail.Note,
		})
	}

	title := "Attendance Report"
	if filter.Date != "" {
		title = fmt.Sprintf("Attendance Report %s", filter.Date)
	}

	var payload []byte
	var contentType string
	switch format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	filename := buildReportFilename(filter, format)
	if _, err := s.storage.Save(filename, payload); err != nil {
		s.logger.Warn("failed to persist report copy", zap.String("filename", filename), zap.Error(err))
	}

	return &ExportResult{Filename: filename, ContentType: contentType, Payload: payload}, nil
}

// Cleanup removes stored report copies older than ttl.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	return s.storage.CleanupOlderThan(ttl)
}

func buildReportFilename(filter models.AttendanceFilter, format ExportFormat) string {
	scope := filter.Date
	if scope == "" {
		scope = "all"
	}
	scope = strings.ReplaceAll(scope, "/", "-")
	timestamp := time.Now().UTC().Format("20060102_150405")
	return fmt.Sprintf("attendance_%s_%s.%s", scope, timestamp, format)
}

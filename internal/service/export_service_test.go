package service

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/campus-admin-api/internal/models"
	appErrors "github.com/campushq/campus-admin-api/pkg/errors"
)

type mockFileStorage struct {
	saved   map[string][]byte
	saveErr error
	removed []string
}

func newMockFileStorage() *mockFileStorage {
	return &mockFileStorage{saved: make(map[string][]byte)}
}

func (m *mockFileStorage) Save(filename string, data []byte) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	m.saved[filename] = data
	return "/tmp/exports/" + filename, nil
}

func (m *mockFileStorage) Open(filename string) (*os.File, error) {
	return nil, os.ErrNotExist
}

func (m *mockFileStorage) CleanupOlderThan(ttl time.Duration) ([]string, error) {
	return m.removed, nil
}

func exportFixture() (*mockAttendanceStore, *mockFileStorage, *ExportService) {
	st := newMockAttendanceStore()
	st.addEmployee("E001", "Alice", "Engineering")
	st.records["E001:2025-06-02"] = &models.AttendanceRecord{
		ID:            "att-1",
		EmployeeID:    "E001",
		Date:          "2025-06-02",
		CheckIn:       "07:52:00",
		CheckOut:      "17:30:00",
		WorkHours:     8.63,
		OvertimeHours: 0.63,
		Status:        models.AttendanceStatusNormal,
	}
	storage := newMockFileStorage()
	svc := NewExportService(attendanceServiceAt(st, "18:00:00"), storage, nil)
	return st, storage, svc
}

func TestExportServiceAttendanceReportCSV(t *testing.T) {
	_, storage, svc := exportFixture()

	result, err := svc.AttendanceReport(context.Background(), models.AttendanceFilter{Date: "2025-06-02"}, ExportFormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "text/csv", result.ContentType)
	assert.True(t, strings.HasPrefix(result.Filename, "attendance_2025-06-02_"), result.Filename)
	assert.True(t, strings.HasSuffix(result.Filename, ".csv"), result.Filename)

	body := string(result.Payload)
	assert.Contains(t, body, "Date,Employee ID,Name")
	assert.Contains(t, body, "Alice")
	assert.Contains(t, body, "8.63")

	assert.Equal(t, result.Payload, storage.saved[result.Filename])
}

func TestExportServiceAttendanceReportPDF(t *testing.T) {
	_, _, svc := exportFixture()

	result, err := svc.AttendanceReport(context.Background(), models.AttendanceFilter{Date: "2025-06-02"}, ExportFormatPDF)
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasSuffix(result.Filename, ".pdf"), result.Filename)
	assert.NotEmpty(t, result.Payload)
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	_, _, svc := exportFixture()

	_, err := svc.AttendanceReport(context.Background(), models.AttendanceFilter{}, ExportFormat("xlsx"))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "unsupported export format", appErr.Message)
}

func TestExportServiceSurvivesSaveFailure(t *testing.T) {
	_, storage, svc := exportFixture()
	storage.saveErr = errors.New("disk full")

	result, err := svc.AttendanceReport(context.Background(), models.AttendanceFilter{Date: "2025-06-02"}, ExportFormatCSV)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Payload)
	assert.Empty(t, storage.saved)
}

func TestExportServiceFilenameWithoutDateScope(t *testing.T) {
	_, _, svc := exportFixture()

	result, err := svc.AttendanceReport(context.Background(), models.AttendanceFilter{}, ExportFormatCSV)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Filename, "attendance_all_"), result.Filename)
}

func TestExportServiceCleanup(t *testing.T) {
	_, storage, svc := exportFixture()
	storage.removed = []string{"attendance_all_20250101_000000.csv"}

	removed, err := svc.Cleanup(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, storage.removed, removed)
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/campus-admin-api/internal/models"
	"github.com/campushq/campus-admin-api/internal/store"
	"github.com/campushq/campus-admin-api/pkg/config"
	appErrors "github.com/campushq/campus-admin-api/pkg/errors"
)

type mockAttendanceStore struct {
	employees map[string]*models.Employee
	records   map[string]*models.AttendanceRecord
}

func newMockAttendanceStore() *mockAttendanceStore {
	return &mockAttendanceStore{
		employees: make(map[string]*models.Employee),
		records:   make(map[string]*models.AttendanceRecord),
	}
}

func (m *mockAttendanceStore) addEmployee(number, name, department string) {
	m.employees[number] = &models.Employee{
		ID:         "id-" + number,
		EmployeeID: number,
		Name:       name,
		Department: department,
		Status:     models.EmployeeStatusActive,
	}
}

func (m *mockAttendanceStore) GetEmployeeByNumber(ctx context.Context, employeeID string) (*models.Employee, error) {
	e, ok := m.employees[employeeID]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (m *mockAttendanceStore) ListEmployees(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error) {
	out := make([]models.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		out = append(out, *e)
	}
	return out, nil
}

func (m *mockAttendanceStore) GetAttendance(ctx context.Context, employeeID, date string) (*models.AttendanceRecord, error) {
	r, ok := m.records[employeeID+":"+date]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (m *mockAttendanceStore) SaveAttendance(ctx context.Context, rec *models.AttendanceRecord) error {
	copied := *rec
	m.records[rec.EmployeeID+":"+rec.Date] = &copied
	return nil
}

func (m *mockAttendanceStore) ListAttendance(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error) {
	out := make([]models.AttendanceRecord, 0, len(m.records))
	for _, r := range m.records {
		if filter.Date != "" && r.Date != filter.Date {
			continue
		}
		if filter.EmployeeID != "" && r.EmployeeID != filter.EmployeeID {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func testAttendancePolicy() config.AttendanceConfig {
	return config.AttendanceConfig{ClockInCutoff: "08:00:00", LunchBreak: 1, StandardHours: 8}
}

func attendanceServiceAt(st *mockAttendanceStore, clock string) *AttendanceService {
	svc := NewAttendanceService(st, testAttendancePolicy(), nil, nil, nil)
	fixed, _ := time.Parse("2006-01-02 15:04:05", "2025-06-02 "+clock)
	svc.now = func() time.Time { return fixed }
	return svc
}

func TestAttendanceServiceClockInOnTime(t *testing.T) {
	st := newMockAttendanceStore()
	st.addEmployee("E001", "Alice", "Engineering")
	svc := attendanceServiceAt(st, "07:52:00")

	rec, err := svc.ClockIn(context.Background(), ClockRequest{EmployeeID: "E001"})
	require.NoError(t, err)
	assert.Equal(t, "07:52:00", rec.CheckIn)
	assert.Equal(t, models.AttendanceStatusNormal, rec.Status)
	assert.Empty(t, rec.Note)
	assert.Equal(t, "2025-06-02", rec.Date)
}

func TestAttendanceServiceClockInAfterCutoffIsLate(t *testing.T) {
	st := newMockAttendanceStore()
	st.addEmployee("E001", "Alice", "Engineering")
	svc := attendanceServiceAt(st, "08:17:00")

	rec, err := svc.ClockIn(context.Background(), ClockRequest{EmployeeID: "E001"})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceStatusLate, rec.Status)
	assert.Equal(t, "late arrival", rec.Note)
}

func TestAttendanceServiceClockInAtCutoffIsNormal(t *testing.T) {
	st := newMockAttendanceStore()
	st.addEmployee("E001", "Alice", "Engineering")
	svc := attendanceServiceAt(st, "08:00:00")

	rec, err := svc.ClockIn(context.Background(), ClockRequest{EmployeeID: "E001"})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceStatusNormal, rec.Status)
}

func TestAttendanceServiceClockInTwiceRejected(t *testing.T) {
	st := newMockAttendanceStore()
	st.addEmployee("E001", "Alice", "Engineering")
	svc := attendanceServiceAt(st, "07:52:00")

	_, err := svc.ClockIn(context.Background(), ClockRequest{EmployeeID: "E001"})
	require.NoError(t, err)

	_, err = svc.ClockIn(context.Background(), ClockRequest{EmployeeID: "E001"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "already clocked in today", appErr.Message)
}

func TestAttendanceServiceClockInExplicitTimeNormalized(t *testing.T) {
	st := newMockAttendanceStore()
	st.addEmployee("E001", "Alice", "Engineering")
	svc := attendanceServiceAt(st, "12:00:00")

	rec, err := svc.ClockIn(context.Background(), ClockRequest{EmployeeID: "E001", Time: "7:5"})
	require.NoError(t, err)
	assert.Equal(t, "07:05:00", rec.CheckIn)
	assert.Equal(t, models.AttendanceStatusNormal, rec.Status)
}

func TestAttendanceServiceClockInRejectsMalformedTime(t *testing.T) {
	st := newMockAttendanceStore()
	st.addEmployee("E001", "Alice", "Engineering")
	svc := attendanceServiceAt(st, "12:00:00")

	_, err := svc.ClockIn(context.Background(), ClockRequest{EmployeeID: "E001", Time: "noon"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAttendanceServiceClockInUnknownEmployee(t *testing.T) {
	svc := attendanceServiceAt(newMockAttendanceStore(), "07:52:00")

	_, err := svc.ClockIn(context.Background(), ClockRequest{EmployeeID: "E999"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestAttendanceServiceClockOutComputesHours(t *testing.T) {
	st := newMockAttendanceStore()
	st.addEmployee("E001", "Alice", "Engineering")
	svc := attendanceServiceAt(st, "07:52:00")

	_, err := svc.ClockIn(context.Background(), ClockRequest{EmployeeID: "E001"})
	require.NoError(t, err)

	rec, err := svc.ClockOut(context.Background(), ClockRequest{EmployeeID: "E001", Time: "17:30:00"})
	require.NoError(t, err)
	// 07:52 to 17:30 is 9.63h elapsed, minus 1h lunch.
	assert.InDelta(t, 8.63, rec.WorkHours, 0.001)
	assert.InDelta(t, 0.63, rec.OvertimeHours, 0.001)
}

func TestAttendanceServiceClockOutWithoutClockIn(t *testing.T) {
	st := newMockAttendanceStore()
	st.addEmployee("E001", "Alice", "Engineering")
	svc := attendanceServiceAt(st, "17:00:00")

	_, err := svc.ClockOut(context.Background(), ClockRequest{EmployeeID: "E001"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)
	assert.Equal(t, "clock in first", appErr.Message)
}

func TestAttendanceServiceClockOutShortDayFloorsAtZero(t *testing.T) {
	st := newMockAttendanceStore()
	st.addEmployee("E001", "Alice", "Engineering")
	svc := attendanceServiceAt(st, "09:00:00")

	_, err := svc.ClockIn(context.Background(), ClockRequest{EmployeeID: "E001"})
	require.NoError(t, err)

	rec, err := svc.ClockOut(context.Background(), ClockRequest{EmployeeID: "E001", Time: "09:30:00"})
	require.NoError(t, err)
	assert.Zero(t, rec.WorkHours)
	assert.Zero(t, rec.OvertimeHours)
}

func TestAttendanceServiceClockOutOverwriteAllowed(t *testing.T) {
	st := newMockAttendanceStore()
	st.addEmployee("E001", "Alice", "Engineering")
	svc := attendanceServiceAt(st, "07:00:00")

	_, err := svc.ClockIn(context.Background(), ClockRequest{EmployeeID: "E001"})
	require.NoError(t, err)
	_, err = svc.ClockOut(context.Background(), ClockRequest{EmployeeID: "E001", Time: "16:00:00"})
	require.NoError(t, err)

	rec, err := svc.ClockOut(context.Background(), ClockRequest{EmployeeID: "E001", Time: "18:00:00"})
	require.NoError(t, err)
	assert.Equal(t, "18:00:00", rec.CheckOut)
	assert.InDelta(t, 10, rec.WorkHours, 0.001)
}

func TestAttendanceServiceUpsertRecomputesHours(t *testing.T) {
	st := newMockAttendanceStore()
	st.addEmployee("E001", "Alice", "Engineering")
	svc := attendanceServiceAt(st, "12:00:00")

	rec, err := svc.Upsert(context.Background(), AttendanceUpsertRequest{
		EmployeeID: "E001",
		Date:       "2025-06-01",
		CheckIn:    "08:00",
		CheckOut:   "17:00",
		Status:     "normal",
	})
	require.NoError(t, err)
	assert.Equal(t, "08:00:00", rec.CheckIn)
	assert.InDelta(t, 8, rec.WorkHours, 0.001)
	assert.Zero(t, rec.OvertimeHours)
}

func TestAttendanceServiceUpsertRejectsUnknownStatus(t *testing.T) {
	st := newMockAttendanceStore()
	st.addEmployee("E001", "Alice", "Engineering")
	svc := attendanceServiceAt(st, "12:00:00")

	_, err := svc.Upsert(context.Background(), AttendanceUpsertRequest{
		EmployeeID: "E001",
		Date:       "2025-06-01",
		Status:     "vacationing",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAttendanceServiceUpsertLeaveWithoutClocks(t *testing.T) {
	st := newMockAttendanceStore()
	st.addEmployee("E001", "Alice", "Engineering")
	svc := attendanceServiceAt(st, "12:00:00")

	rec, err := svc.Upsert(context.Background(), AttendanceUpsertRequest{
		EmployeeID: "E001",
		Date:       "2025-06-01",
		Status:     "leave",
		Note:       "annual leave",
	})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceStatusLeave, rec.Status)
	assert.Empty(t, rec.CheckIn)
	assert.Zero(t, rec.WorkHours)
}

func TestAttendanceServiceListJoinsEmployees(t *testing.T) {
	st := newMockAttendanceStore()
	st.addEmployee("E001", "Alice", "Engineering")
	svc := attendanceServiceAt(st, "07:30:00")

	_, err := svc.ClockIn(context.Background(), ClockRequest{EmployeeID: "E001"})
	require.NoError(t, err)

	details, err := svc.List(context.Background(), models.AttendanceFilter{Date: "2025-06-02"})
	require.NoError(t, err)
	require.Len(t, details, 1)
	require.NotNil(t, details[0].Employee)
	assert.Equal(t, "Alice", details[0].Employee.Name)
}

func TestAttendanceServiceStats(t *testing.T) {
	st := newMockAttendanceStore()
	st.addEmployee("E001", "Alice", "Engineering")
	st.addEmployee("E002", "Bob", "Engineering")
	st.addEmployee("E003", "Cara", "Engineering")
	svc := attendanceServiceAt(st, "12:00:00")

	seed := []models.AttendanceRecord{
		{ID: "a1", EmployeeID: "E001", Date: "2025-06-01", Status: models.AttendanceStatusNormal, WorkHours: 8},
		{ID: "a2", EmployeeID: "E002", Date: "2025-06-01", Status: models.AttendanceStatusLate, WorkHours: 7.5},
		{ID: "a3", EmployeeID: "E003", Date: "2025-06-01", Status: models.AttendanceStatusLeave},
	}
	for i := range seed {
		require.NoError(t, st.SaveAttendance(context.Background(), &seed[i]))
	}

	stats, err := svc.Stats(context.Background(), models.AttendanceFilter{Date: "2025-06-01"})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Normal)
	assert.Equal(t, 1, stats.Late)
	assert.Equal(t, 1, stats.Leave)
	assert.InDelta(t, 66.67, stats.AttendanceRate, 0.001)
	assert.InDelta(t, 7.75, stats.AvgWorkHours, 0.001)
}

func TestNormalizeClock(t *testing.T) {
	assert.Equal(t, "08:00:00", NormalizeClock("8:0:0"))
	assert.Equal(t, "07:05:00", NormalizeClock("7:5"))
	assert.Equal(t, "17:30:00", NormalizeClock("17:30:00"))
	assert.Equal(t, "09:00:00", NormalizeClock(" 9 "))
}

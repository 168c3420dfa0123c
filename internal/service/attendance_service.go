package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campushq/campus-admin-api/internal/ledger"
	"github.com/campushq/campus-admin-api/internal/models"
	"github.com/campushq/campus-admin-api/internal/store"
	"github.com/campushq/campus-admin-api/pkg/config"
	appErrors "github.com/campushq/campus-admin-api/pkg/errors"
)

type attendanceStore interface {
	GetEmployeeByNumber(ctx context.Context, employeeID string) (*models.Employee, error)
	ListEmployees(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error)
	GetAttendance(ctx context.Context, employeeID, date string) (*models.AttendanceRecord, error)
	SaveAttendance(ctx context.Context, rec *models.AttendanceRecord) error
	ListAttendance(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error)
}

// ClockRequest punches one employee in or out. Time is optional and
// defaults to the current wall clock; when given it must be HH:MM:SS.
type ClockRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Time       string `json:"time"`
}

// AttendanceUpsertRequest is the manual record entry used by HR.
type AttendanceUpsertRequest struct {
	EmployeeID string  `json:"employee_id" validate:"required"`
	Date       string  `json:"date" validate:"required"`
	CheckIn    string  `json:"check_in"`
	CheckOut   string  `json:"check_out"`
	Status     string  `json:"status" validate:"required"`
	Note       string  `json:"note"`
	WorkHours  float64 `json:"work_hours"`
}

// AttendanceService runs the daily clock-in/out workflow and attendance
// reporting. Mutations serialise on the (employee, day) key.
type AttendanceService struct {
	store     attendanceStore
	policy    config.AttendanceConfig
	locks     *ledger.KeyMutex
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAttendanceService constructs AttendanceService.
func NewAttendanceService(st attendanceStore, policy config.AttendanceConfig, locks *ledger.KeyMutex, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if locks == nil {
		locks = ledger.NewKeyMutex()
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy.ClockInCutoff == "" {
		policy.ClockInCutoff = "08:00:00"
	}
	return &AttendanceService{store: st, policy: policy, locks: locks, validator: validate, logger: logger, now: time.Now}
}

// ClockIn opens today's record for the employee. Arriving after the
// cutoff marks the day late; a second clock-in the same day is
// rejected.
func (s *AttendanceService) ClockIn(ctx context.Context, req ClockRequest) (*models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid clock-in payload")
	}
	if _, err := s.store.GetEmployeeByNumber(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}

	now := s.now()
	date := now.Format("2006-01-02")
	clock, err := s.clockValue(req.Time, now)
	if err != nil {
		return nil, err
	}

	key := attendanceKey(req.EmployeeID, date)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	record, err := s.store.GetAttendance(ctx, req.EmployeeID, date)
	switch {
	case err == nil:
		if record.CheckIn != "" {
			return nil, appErrors.Clone(appErrors.ErrConflict, "already clocked in today")
		}
	case errors.Is(err, store.ErrNotFound):
		record = &models.AttendanceRecord{
			ID:         uuid.NewString(),
			EmployeeID: req.EmployeeID,
			Date:       date,
			CreatedAt:  now,
		}
	default:
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance record")
	}

	record.CheckIn = clock
	record.Status = models.AttendanceStatusNormal
	record.Note = ""
	if clock > NormalizeClock(s.policy.ClockInCutoff) {
		record.Status = models.AttendanceStatusLate
		record.Note = "late arrival"
	}
	record.UpdatedAt = now

	if err := s.store.SaveAttendance(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save attendance record")
	}
	return record, nil
}

// ClockOut closes today's record and computes hours: elapsed time minus
// the lunch break, floored at zero, with anything beyond the standard
// day counted as overtime.
func (s *AttendanceService) ClockOut(ctx context.Context, req ClockRequest) (*models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid clock-out payload")
	}

	now := s.now()
	date := now.Format("2006-01-02")
	clock, err := s.clockValue(req.Time, now)
	if err != nil {
		return nil, err
	}

	key := attendanceKey(req.EmployeeID, date)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	record, err := s.store.GetAttendance(ctx, req.EmployeeID, date)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "clock in first")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance record")
	}
	if record.CheckIn == "" {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "clock in first")
	}

	record.CheckOut = clock
	record.WorkHours = s.workHours(record.CheckIn, clock)
	record.OvertimeHours = round2(math.Max(0, record.WorkHours-s.policy.StandardHours))
	record.UpdatedAt = now

	if err := s.store.SaveAttendance(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save attendance record")
	}
	return record, nil
}

// Upsert writes a manual record for one employee and day, replacing any
// existing one. Hours are recomputed when both clock values are given.
func (s *AttendanceService) Upsert(ctx context.Context, req AttendanceUpsertRequest) (*models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	status := models.AttendanceStatus(req.Status)
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown attendance status")
	}
	if _, err := s.store.GetEmployeeByNumber(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}

	key := attendanceKey(req.EmployeeID, req.Date)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	now := s.now()
	record, err := s.store.GetAttendance(ctx, req.EmployeeID, req.Date)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance record")
		}
		record = &models.AttendanceRecord{
			ID:         uuid.NewString(),
			EmployeeID: req.EmployeeID,
			Date:       req.Date,
			CreatedAt:  now,
		}
	}

	record.Status = status
	record.Note = req.Note
	record.CheckIn = ""
	record.CheckOut = ""
	record.WorkHours = req.WorkHours
	record.OvertimeHours = 0
	if req.CheckIn != "" {
		record.CheckIn = NormalizeClock(req.CheckIn)
	}
	if req.CheckOut != "" {
		record.CheckOut = NormalizeClock(req.CheckOut)
	}
	if record.CheckIn != "" && record.CheckOut != "" {
		record.WorkHours = s.workHours(record.CheckIn, record.CheckOut)
		record.OvertimeHours = round2(math.Max(0, record.WorkHours-s.policy.StandardHours))
	}
	record.UpdatedAt = now

	if err := s.store.SaveAttendance(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save attendance record")
	}
	return record, nil
}

// List returns attendance records enriched with employee profiles.
func (s *AttendanceService) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceDetail, error) {
	records, err := s.store.ListAttendance(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}

	employees, err := s.store.ListEmployees(ctx, models.EmployeeFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list employees")
	}
	byNumber := make(map[string]*models.Employee, len(employees))
	for i := range employees {
		byNumber[employees[i].EmployeeID] = &employees[i]
	}

	details := make([]models.AttendanceDetail, 0, len(records))
	for _, record := range records {
		details = append(details, models.AttendanceDetail{
			AttendanceRecord: record,
			Employee:         byNumber[record.EmployeeID],
		})
	}
	return details, nil
}

// Stats aggregates one attendance listing into headline numbers.
func (s *AttendanceService) Stats(ctx context.Context, filter models.AttendanceFilter) (*models.AttendanceStats, error) {
	records, err := s.store.ListAttendance(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}

	stats := &models.AttendanceStats{Total: len(records)}
	var hours float64
	var worked int
	for _, record := range records {
		switch record.Status {
		case models.AttendanceStatusNormal:
			stats.Normal++
		case models.AttendanceStatusLate:
			stats.Late++
		case models.AttendanceStatusAbsent:
			stats.Absent++
		case models.AttendanceStatusLeave:
			stats.Leave++
		}
		if record.WorkHours > 0 {
			hours += record.WorkHours
			worked++
		}
	}
	if stats.Total > 0 {
		stats.AttendanceRate = round2(float64(stats.Normal+stats.Late) / float64(stats.Total) * 100)
	}
	if worked > 0 {
		stats.AvgWorkHours = round2(hours / float64(worked))
	}
	return stats, nil
}

func (s *AttendanceService) clockValue(raw string, now time.Time) (string, error) {
	if raw == "" {
		return now.Format("15:04:05"), nil
	}
	clock := NormalizeClock(raw)
	if _, err := clockSeconds(clock); err != nil {
		return "", appErrors.Clone(appErrors.ErrValidation, "invalid clock time")
	}
	return clock, nil
}

func (s *AttendanceService) workHours(checkIn, checkOut string) float64 {
	in, err := clockSeconds(checkIn)
	if err != nil {
		return 0
	}
	out, err := clockSeconds(checkOut)
	if err != nil {
		return 0
	}
	elapsed := float64(out-in) / 3600
	return round2(math.Max(0, elapsed-s.policy.LunchBreak))
}

// NormalizeClock zero-pads a HH:MM:SS clock value so that string
// comparison orders times correctly. A missing seconds component is
// treated as ":00".
func NormalizeClock(raw string) string {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	for i := range parts {
		for len(parts[i]) < 2 {
			parts[i] = "0" + parts[i]
		}
	}
	return strings.Join(parts[:3], ":")
}

func clockSeconds(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed clock value %q", clock)
	}
	var total int
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("malformed clock value %q", clock)
		}
		total = total*60 + n
	}
	return total, nil
}

func attendanceKey(employeeID, date string) string {
	return "attendance:" + employeeID + ":" + date
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

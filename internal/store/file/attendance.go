package file

import (
	"context"
	"sort"

	"github.com/campushq/campus-admin-api/internal/models"
	"github.com/campushq/campus-admin-api/internal/store"
)

// GetAttendance returns the record for one employee and day.
func (s *Store) GetAttendance(ctx context.Context, employeeID, date string) (*models.AttendanceRecord, error) {
	s.locks[colAttendance].RLock()
	defer s.locks[colAttendance].RUnlock()

	var records []models.AttendanceRecord
	if err := s.read(colAttendance, &records); err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].EmployeeID == employeeID && records[i].Date == date {
			r := records[i]
			return &r, nil
		}
	}
	return nil, store.ErrNotFound
}

// SaveAttendance upserts the record keyed by (employee, date).
func (s *Store) SaveAttendance(ctx context.Context, rec *models.AttendanceRecord) error {
	s.locks[colAttendance].Lock()
	defer s.locks[colAttendance].Unlock()

	var records []models.AttendanceRecord
	if err := s.read(colAttendance, &records); err != nil {
		return err
	}
	for i := range records {
		if records[i].EmployeeID == rec.EmployeeID && records[i].Date == rec.Date {
			records[i] = *rec
			return s.write(colAttendance, records)
		}
	}
	records = append(records, *rec)
	return s.write(colAttendance, records)
}

// ListAttendance filters records by day, employee and department. The
// department filter resolves through the staff roster since records
// only carry the employee id.
func (s *Store) ListAttendance(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error) {
	var inDept map[string]bool
	if filter.DepartmentID != "" && filter.DepartmentID != "all" {
		employees, err := s.ListEmployees(ctx, models.EmployeeFilter{DepartmentID: filter.DepartmentID})
		if err != nil {
			return nil, err
		}
		inDept = make(map[string]bool, len(employees))
		for _, e := range employees {
			inDept[e.EmployeeID] = true
		}
	}

	s.locks[colAttendance].RLock()
	defer s.locks[colAttendance].RUnlock()

	var records []models.AttendanceRecord
	if err := s.read(colAttendance, &records); err != nil {
		return nil, err
	}
	result := make([]models.AttendanceRecord, 0, len(records))
	for _, r := range records {
		if filter.Date != "" && r.Date != filter.Date {
			continue
		}
		if filter.EmployeeID != "" && r.EmployeeID != filter.EmployeeID {
			continue
		}
		if inDept != nil && !inDept[r.EmployeeID] {
			continue
		}
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date > result[j].Date
		}
		return result[i].EmployeeID < result[j].EmployeeID
	})
	return result, nil
}

package file

import (
	"context"
	"time"

	"github.com/lib/pq"

	"github.com/campushq/campus-admin-api/internal/ledger"
	"github.com/campushq/campus-admin-api/internal/models"
	"github.com/campushq/campus-admin-api/internal/store"
)

// ListCourses returns the catalog, optionally filtered by semester.
func (s *Store) ListCourses(ctx context.Context, semester string) ([]models.Course, error) {
	s.locks[colCourses].RLock()
	defer s.locks[colCourses].RUnlock()

	var courses []models.Course
	if err := s.read(colCourses, &courses); err != nil {
		return nil, err
	}
	if semester == "" {
		return courses, nil
	}
	filtered := make([]models.Course, 0, len(courses))
	for _, c := range courses {
		if c.Semester == semester {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

// GetCourse looks a course up by id.
func (s *Store) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	s.locks[colCourses].RLock()
	defer s.locks[colCourses].RUnlock()

	var courses []models.Course
	if err := s.read(colCourses, &courses); err != nil {
		return nil, err
	}
	for i := range courses {
		if courses[i].ID == id {
			c := courses[i]
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

// AdjustCourseOccupancy applies the capacity ledger to one course and
// rewrites the collection.
func (s *Store) AdjustCourseOccupancy(ctx context.Context, id string, delta int) (*models.Course, error) {
	s.locks[colCourses].Lock()
	defer s.locks[colCourses].Unlock()

	var courses []models.Course
	if err := s.read(colCourses, &courses); err != nil {
		return nil, err
	}
	for i := range courses {
		if courses[i].ID != id {
			continue
		}
		occ, avail := ledger.Adjust(courses[i].CurrentStudents, courses[i].MaxStudents, delta)
		courses[i].CurrentStudents = occ
		courses[i].Status = models.CourseStatus(ledger.Transition(
			string(courses[i].Status),
			string(models.CourseStatusOpen),
			string(models.CourseStatusFull),
			avail,
		))
		if err := s.write(colCourses, courses); err != nil {
			return nil, err
		}
		c := courses[i]
		return &c, nil
	}
	return nil, store.ErrNotFound
}

// GetEnrollment returns the roster for one (student, semester) key.
func (s *Store) GetEnrollment(ctx context.Context, studentID, semester string) (*models.Enrollment, error) {
	s.locks[colEnrollments].RLock()
	defer s.locks[colEnrollments].RUnlock()

	var enrollments []models.Enrollment
	if err := s.read(colEnrollments, &enrollments); err != nil {
		return nil, err
	}
	for i := range enrollments {
		if enrollments[i].StudentID == studentID && enrollments[i].Semester == semester {
			e := enrollments[i]
			return &e, nil
		}
	}
	return nil, store.ErrNotFound
}

// ReplaceEnrollment overwrites the roster wholesale, recomputing total
// credits from the current catalog; course ids that no longer resolve
// contribute zero credits.
func (s *Store) ReplaceEnrollment(ctx context.Context, studentID, semester string, courseIDs []string) (*models.Enrollment, error) {
	courses, err := s.ListCourses(ctx, "")
	if err != nil {
		return nil, err
	}
	credits := make(map[string]int, len(courses))
	for _, c := range courses {
		credits[c.ID] = c.Credits
	}
	total := 0
	for _, id := range courseIDs {
		total += credits[id]
	}

	s.locks[colEnrollments].Lock()
	defer s.locks[colEnrollments].Unlock()

	var enrollments []models.Enrollment
	if err := s.read(colEnrollments, &enrollments); err != nil {
		return nil, err
	}

	record := models.Enrollment{
		StudentID:      studentID,
		Semester:       semester,
		Courses:        pq.StringArray(append([]string(nil), courseIDs...)),
		TotalCredits:   total,
		EnrollmentDate: time.Now().UTC(),
		Status:         "active",
	}

	replaced := false
	for i := range enrollments {
		if enrollments[i].StudentID == studentID && enrollments[i].Semester == semester {
			enrollments[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		enrollments = append(enrollments, record)
	}
	if err := s.write(colEnrollments, enrollments); err != nil {
		return nil, err
	}
	return &record, nil
}

// AddEnrollmentHistory prepends an entry and evicts beyond the global
// retention cap, oldest first.
func (s *Store) AddEnrollmentHistory(ctx context.Context, entry *models.EnrollmentHistoryEntry) error {
	s.locks[colHistory].Lock()
	defer s.locks[colHistory].Unlock()

	var history []models.EnrollmentHistoryEntry
	if err := s.read(colHistory, &history); err != nil {
		return err
	}
	history = append([]models.EnrollmentHistoryEntry{*entry}, history...)
	if len(history) > models.HistoryRetention {
		history = history[:models.HistoryRetention]
	}
	return s.write(colHistory, history)
}

// ListEnrollmentHistory returns the newest entries for one student.
func (s *Store) ListEnrollmentHistory(ctx context.Context, studentID string, limit int) ([]models.EnrollmentHistoryEntry, error) {
	s.locks[colHistory].RLock()
	defer s.locks[colHistory].RUnlock()

	var history []models.EnrollmentHistoryEntry
	if err := s.read(colHistory, &history); err != nil {
		return nil, err
	}
	result := make([]models.EnrollmentHistoryEntry, 0, limit)
	for _, h := range history {
		if h.StudentID != studentID {
			continue
		}
		result = append(result, h)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

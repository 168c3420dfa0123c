package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/campushq/campus-admin-api/internal/ledger"
	"github.com/campushq/campus-admin-api/internal/models"
	"github.com/campushq/campus-admin-api/internal/store"
)

const courseColumns = `id, code, name, instructor, semester, credits, schedule_code, classroom,
	max_students, current_students, status, department, type, year, description`

// ListCourses returns the catalog, optionally narrowed to one semester.
func (s *Store) ListCourses(ctx context.Context, semester string) ([]models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses ORDER BY code`, courseColumns)
	args := []interface{}{}
	if semester != "" {
		query = fmt.Sprintf(`SELECT %s FROM courses WHERE semester = $1 ORDER BY code`, courseColumns)
		args = append(args, semester)
	}
	var courses []models.Course
	if err := s.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// GetCourse looks a course up by id.
func (s *Store) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses WHERE id = $1`, courseColumns)
	var course models.Course
	if err := s.db.GetContext(ctx, &course, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	return &course, nil
}

// AdjustCourseOccupancy applies the capacity ledger to one course under
// a row lock and returns the updated row.
func (s *Store) AdjustCourseOccupancy(ctx context.Context, id string, delta int) (*models.Course, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin adjust occupancy: %w", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`SELECT %s FROM courses WHERE id = $1 FOR UPDATE`, courseColumns)
	var course models.Course
	if err := tx.GetContext(ctx, &course, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("lock course: %w", err)
	}

	occupancy, avail := ledger.Adjust(course.CurrentStudents, course.MaxStudents, delta)
	course.CurrentStudents = occupancy
	course.Status = models.CourseStatus(ledger.Transition(
		string(course.Status),
		string(models.CourseStatusOpen),
		string(models.CourseStatusFull),
		avail,
	))

	const update = `UPDATE courses SET current_students = $2, status = $3 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, update, id, course.CurrentStudents, course.Status); err != nil {
		return nil, fmt.Errorf("update course occupancy: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit adjust occupancy: %w", err)
	}
	return &course, nil
}

// GetEnrollment returns the roster record for one student and semester.
func (s *Store) GetEnrollment(ctx context.Context, studentID, semester string) (*models.Enrollment, error) {
	const query = `SELECT student_id, semester, courses, total_credits, enrollment_date, status
		FROM enrollments WHERE student_id = $1 AND semester = $2`
	var enrollment models.Enrollment
	if err := s.db.GetContext(ctx, &enrollment, query, studentID, semester); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get enrollment: %w", err)
	}
	return &enrollment, nil
}

// ReplaceEnrollment rewrites the roster wholesale and recomputes total
// credits from the catalog. Course ids without a catalog row count as
// zero credits.
func (s *Store) ReplaceEnrollment(ctx context.Context, studentID, semester string, courseIDs []string) (*models.Enrollment, error) {
	credits := 0
	if len(courseIDs) > 0 {
		const query = `SELECT COALESCE(SUM(credits), 0) FROM courses WHERE id = ANY($1)`
		if err := s.db.GetContext(ctx, &credits, query, pq.Array(courseIDs)); err != nil {
			return nil, fmt.Errorf("sum credits: %w", err)
		}
	}

	enrollment := &models.Enrollment{
		StudentID:      studentID,
		Semester:       semester,
		Courses:        pq.StringArray(append([]string(nil), courseIDs...)),
		TotalCredits:   credits,
		EnrollmentDate: time.Now(),
		Status:         "active",
	}
	const upsert = `INSERT INTO enrollments (student_id, semester, courses, total_credits, enrollment_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (student_id, semester) DO UPDATE
		SET courses = EXCLUDED.courses, total_credits = EXCLUDED.total_credits,
			enrollment_date = EXCLUDED.enrollment_date, status = EXCLUDED.status`
	_, err := s.db.ExecContext(ctx, upsert,
		enrollment.StudentID, enrollment.Semester, enrollment.Courses,
		enrollment.TotalCredits, enrollment.EnrollmentDate, enrollment.Status)
	if err != nil {
		return nil, fmt.Errorf("replace enrollment: %w", err)
	}
	return enrollment, nil
}

// AddEnrollmentHistory appends an entry and evicts the oldest rows
// beyond the global retention cap.
func (s *Store) AddEnrollmentHistory(ctx context.Context, entry *models.EnrollmentHistoryEntry) error {
	const insert = `INSERT INTO enrollment_history (id, student_id, action, course_id, course_name, instructor, semester, timestamp, result)
		VALUES (:id, :student_id, :action, :course_id, :course_name, :instructor, :semester, :timestamp, :result)`
	if _, err := s.db.NamedExecContext(ctx, insert, entry); err != nil {
		return fmt.Errorf("add history: %w", err)
	}
	const trim = `DELETE FROM enrollment_history WHERE id IN (
		SELECT id FROM enrollment_history ORDER BY timestamp DESC OFFSET $1)`
	if _, err := s.db.ExecContext(ctx, trim, models.HistoryRetention); err != nil {
		return fmt.Errorf("trim history: %w", err)
	}
	return nil
}

// ListEnrollmentHistory returns a student's entries, newest first.
func (s *Store) ListEnrollmentHistory(ctx context.Context, studentID string, limit int) ([]models.EnrollmentHistoryEntry, error) {
	query := `SELECT id, student_id, action, course_id, course_name, instructor, semester, timestamp, result
		FROM enrollment_history WHERE student_id = $1 ORDER BY timestamp DESC`
	args := []interface{}{studentID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}
	var entries []models.EnrollmentHistoryEntry
	if err := s.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}

package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campushq/campus-admin-api/internal/ledger"
	"github.com/campushq/campus-admin-api/internal/models"
	"github.com/campushq/campus-admin-api/internal/store"
	appErrors "github.com/campushq/campus-admin-api/pkg/errors"
)

type enrollmentStore interface {
	ListCourses(ctx context.Context, semester string) ([]models.Course, error)
	GetCourse(ctx context.Context, id string) (*models.Course, error)
	AdjustCourseOccupancy(ctx context.Context, id string, delta int) (*models.Course, error)
	GetEnrollment(ctx context.Context, studentID, semester string) (*models.Enrollment, error)
	ReplaceEnrollment(ctx context.Context, studentID, semester string, courseIDs []string) (*models.Enrollment, error)
	AddEnrollmentHistory(ctx context.Context, entry *models.EnrollmentHistoryEntry) error
	ListEnrollmentHistory(ctx context.Context, studentID string, limit int) ([]models.EnrollmentHistoryEntry, error)
}

// EnrollRequest adds one course to a student's roster.
type EnrollRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Semester  string `json:"semester" validate:"required"`
	CourseID  string `json:"course_id" validate:"required"`
}

// DropRequest removes one course from a student's roster.
type DropRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Semester  string `json:"semester" validate:"required"`
	CourseID  string `json:"course_id" validate:"required"`
}

// ReplaceRosterRequest rewrites a student's roster wholesale.
type ReplaceRosterRequest struct {
	StudentID string   `json:"student_id" validate:"required"`
	Semester  string   `json:"semester" validate:"required"`
	CourseIDs []string `json:"course_ids"`
}

// EnrollmentService runs add/drop workflows against the course capacity
// ledger. Mutations serialise on the roster key first and course keys
// second, so concurrent operations touching the same student or course
// cannot interleave their read-modify-write sequences.
type EnrollmentService struct {
	store     enrollmentStore
	locks     *ledger.KeyMutex
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(st enrollmentStore, locks *ledger.KeyMutex, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if locks == nil {
		locks = ledger.NewKeyMutex()
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{store: st, locks: locks, validator: validate, logger: logger}
}

// Courses lists the catalog, optionally narrowed to one semester.
func (s *EnrollmentService) Courses(ctx context.Context, semester string) ([]models.Course, error) {
	courses, err := s.store.ListCourses(ctx, semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// Course returns one catalog entry.
func (s *EnrollmentService) Course(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.store.GetCourse(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Roster returns the student's enrollment record for a semester. A
// student with no record yet gets an empty roster rather than an error.
func (s *EnrollmentService) Roster(ctx context.Context, studentID, semester string) (*models.Enrollment, error) {
	enrollment, err := s.store.GetEnrollment(ctx, studentID, semester)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &models.Enrollment{StudentID: studentID, Semester: semester, Status: "active"}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	return enrollment, nil
}

// Enroll adds one course to the roster, taking a seat from the course.
// The roster is written before the occupancy adjustment; if the
// adjustment fails the previous roster is restored so the two records
// cannot drift apart.
func (s *EnrollmentService) Enroll(ctx context.Context, req EnrollRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	s.lockRosterAndCourses(req.StudentID, req.Semester, req.CourseID)
	defer s.unlockRosterAndCourses(req.StudentID, req.Semester, req.CourseID)

	previous, err := s.rosterCourses(ctx, req.StudentID, req.Semester)
	if err != nil {
		return nil, err
	}
	for _, id := range previous {
		if id == req.CourseID {
			return nil, appErrors.Clone(appErrors.ErrConflict, "course already in roster")
		}
	}

	course, err := s.store.GetCourse(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if err := courseAcceptsEnrollment(course); err != nil {
		return nil, err
	}

	enrollment, err := s.store.ReplaceEnrollment(ctx, req.StudentID, req.Semester, append(previous, req.CourseID))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update roster")
	}
	if _, err := s.store.AdjustCourseOccupancy(ctx, req.CourseID, 1); err != nil {
		if _, restoreErr := s.store.ReplaceEnrollment(ctx, req.StudentID, req.Semester, previous); restoreErr != nil {
			s.logger.Error("failed to restore roster after occupancy failure",
				zap.String("student_id", req.StudentID),
				zap.String("course_id", req.CourseID),
				zap.Error(restoreErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course occupancy")
	}

	s.recordHistory(ctx, req.StudentID, models.EnrollmentActionEnroll, course)
	return enrollment, nil
}

// Drop removes one course from the roster and releases its seat.
func (s *EnrollmentService) Drop(ctx context.Context, req DropRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid drop payload")
	}

	s.lockRosterAndCourses(req.StudentID, req.Semester, req.CourseID)
	defer s.unlockRosterAndCourses(req.StudentID, req.Semester, req.CourseID)

	current, err := s.store.GetEnrollment(ctx, req.StudentID, req.Semester)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no enrollment record")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	previous := append([]string(nil), current.Courses...)
	remaining := make([]string, 0, len(previous))
	found := false
	for _, id := range previous {
		if id == req.CourseID {
			found = true
			continue
		}
		remaining = append(remaining, id)
	}
	if !found {
		// Dropping a course that was never enrolled leaves the roster,
		// credits and occupancy untouched.
		return current, nil
	}

	enrollment, err := s.store.ReplaceEnrollment(ctx, req.StudentID, req.Semester, remaining)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update roster")
	}
	course, err := s.store.AdjustCourseOccupancy(ctx, req.CourseID, -1)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Course removed from the catalog since enrollment; the
			// roster change alone is the whole operation.
			s.recordHistory(ctx, req.StudentID, models.EnrollmentActionDrop, &models.Course{ID: req.CourseID, Semester: req.Semester})
			return enrollment, nil
		}
		if _, restoreErr := s.store.ReplaceEnrollment(ctx, req.StudentID, req.Semester, previous); restoreErr != nil {
			s.logger.Error("failed to restore roster after occupancy failure",
				zap.String("student_id", req.StudentID),
				zap.String("course_id", req.CourseID),
				zap.Error(restoreErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course occupancy")
	}

	s.recordHistory(ctx, req.StudentID, models.EnrollmentActionDrop, course)
	return enrollment, nil
}

// ReplaceRoster rewrites the roster wholesale, adjusting seats for every
// course that enters or leaves it.
func (s *EnrollmentService) ReplaceRoster(ctx context.Context, req ReplaceRosterRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid roster payload")
	}
	next := dedupe(req.CourseIDs)

	s.lockRosterAndCourses(req.StudentID, req.Semester, next...)
	defer s.unlockRosterAndCourses(req.StudentID, req.Semester, next...)

	previous, err := s.rosterCourses(ctx, req.StudentID, req.Semester)
	if err != nil {
		return nil, err
	}
	added, removed := diff(previous, next)

	addedCourses := make(map[string]*models.Course, len(added))
	for _, id := range added {
		course, err := s.store.GetCourse(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found: "+id)
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
		}
		if err := courseAcceptsEnrollment(course); err != nil {
			return nil, err
		}
		addedCourses[id] = course
	}

	enrollment, err := s.store.ReplaceEnrollment(ctx, req.StudentID, req.Semester, next)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update roster")
	}

	for i, id := range added {
		if _, err := s.store.AdjustCourseOccupancy(ctx, id, 1); err != nil {
			s.rollbackAdjustments(ctx, added[:i], nil)
			if _, restoreErr := s.store.ReplaceEnrollment(ctx, req.StudentID, req.Semester, previous); restoreErr != nil {
				s.logger.Error("failed to restore roster after occupancy failure",
					zap.String("student_id", req.StudentID), zap.Error(restoreErr))
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course occupancy")
		}
	}
	for i, id := range removed {
		if _, err := s.store.AdjustCourseOccupancy(ctx, id, -1); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			s.rollbackAdjustments(ctx, added, removed[:i])
			if _, restoreErr := s.store.ReplaceEnrollment(ctx, req.StudentID, req.Semester, previous); restoreErr != nil {
				s.logger.Error("failed to restore roster after occupancy failure",
					zap.String("student_id", req.StudentID), zap.Error(restoreErr))
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course occupancy")
		}
	}

	for _, id := range added {
		s.recordHistory(ctx, req.StudentID, models.EnrollmentActionEnroll, addedCourses[id])
	}
	for _, id := range removed {
		course, err := s.store.GetCourse(ctx, id)
		if err != nil {
			course = &models.Course{ID: id, Semester: req.Semester}
		}
		s.recordHistory(ctx, req.StudentID, models.EnrollmentActionDrop, course)
	}
	return enrollment, nil
}

// History returns the student's add/drop trail, newest first.
func (s *EnrollmentService) History(ctx context.Context, studentID string, limit int) ([]models.EnrollmentHistoryEntry, error) {
	entries, err := s.store.ListEnrollmentHistory(ctx, studentID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollment history")
	}
	return entries, nil
}

func (s *EnrollmentService) rosterCourses(ctx context.Context, studentID, semester string) ([]string, error) {
	enrollment, err := s.store.GetEnrollment(ctx, studentID, semester)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	return append([]string(nil), enrollment.Courses...), nil
}

func (s *EnrollmentService) recordHistory(ctx context.Context, studentID string, action models.EnrollmentAction, course *models.Course) {
	entry := &models.EnrollmentHistoryEntry{
		ID:         uuid.NewString(),
		StudentID:  studentID,
		Action:     action,
		CourseID:   course.ID,
		CourseName: course.Name,
		Instructor: course.Instructor,
		Semester:   course.Semester,
		Timestamp:  time.Now(),
		Result:     "success",
	}
	if err := s.store.AddEnrollmentHistory(ctx, entry); err != nil {
		s.logger.Warn("failed to record enrollment history",
			zap.String("student_id", studentID),
			zap.String("course_id", course.ID),
			zap.Error(err))
	}
}

func (s *EnrollmentService) rollbackAdjustments(ctx context.Context, incremented, decremented []string) {
	for _, id := range incremented {
		if _, err := s.store.AdjustCourseOccupancy(ctx, id, -1); err != nil {
			s.logger.Error("failed to roll back occupancy increment", zap.String("course_id", id), zap.Error(err))
		}
	}
	for _, id := range decremented {
		if _, err := s.store.AdjustCourseOccupancy(ctx, id, 1); err != nil {
			s.logger.Error("failed to roll back occupancy decrement", zap.String("course_id", id), zap.Error(err))
		}
	}
}

func (s *EnrollmentService) lockRosterAndCourses(studentID, semester string, courseIDs ...string) {
	s.locks.Lock(rosterKey(studentID, semester))
	for _, key := range courseKeys(courseIDs) {
		s.locks.Lock(key)
	}
}

func (s *EnrollmentService) unlockRosterAndCourses(studentID, semester string, courseIDs ...string) {
	for _, key := range courseKeys(courseIDs) {
		s.locks.Unlock(key)
	}
	s.locks.Unlock(rosterKey(studentID, semester))
}

func rosterKey(studentID, semester string) string {
	return "roster:" + studentID + ":" + semester
}

// courseKeys returns sorted, deduplicated lock keys so every caller
// acquires course locks in the same order.
func courseKeys(courseIDs []string) []string {
	keys := make([]string, 0, len(courseIDs))
	for _, id := range dedupe(courseIDs) {
		keys = append(keys, "course:"+id)
	}
	sort.Strings(keys)
	return keys
}

func courseAcceptsEnrollment(course *models.Course) error {
	switch course.Status {
	case models.CourseStatusOpen:
	case models.CourseStatusFull:
		return appErrors.Clone(appErrors.ErrConflict, "course is full")
	default:
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "course is not open for enrollment")
	}
	if course.CurrentStudents >= course.MaxStudents {
		return appErrors.Clone(appErrors.ErrConflict, "course is full")
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		result = append(result, id)
	}
	return result
}

func diff(previous, next []string) (added, removed []string) {
	prevSet := make(map[string]bool, len(previous))
	for _, id := range previous {
		prevSet[id] = true
	}
	nextSet := make(map[string]bool, len(next))
	for _, id := range next {
		nextSet[id] = true
	}
	for _, id := range next {
		if !prevSet[id] {
			added = append(added, id)
		}
	}
	for _, id := range previous {
		if !nextSet[id] {
			removed = append(removed, id)
		}
	}
	return added, removed
}

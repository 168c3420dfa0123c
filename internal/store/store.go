// Package store defines the persistence contract shared by the database
// and file backends, and the startup adapter that picks between them.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/campushq/campus-admin-api/internal/models"
)

// Sentinel errors shared by every backend so callers observe one failure
// taxonomy regardless of which implementation is active.
var (
	ErrNotFound  = errors.New("store: not found")
	ErrDuplicate = errors.New("store: duplicate")
)

// Store is the capability interface both backends implement. Every method
// is a persistence primitive; engine-level validation and capacity policy
// live in internal/service on top of it.
type Store interface {
	// Kind names the active backend ("postgres" or "file").
	Kind() string
	Ping(ctx context.Context) error
	Close() error

	// Users.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, username string, ts time.Time) error

	// Courses. ListCourses with an empty semester returns the full
	// catalog. AdjustCourseOccupancy applies the capacity ledger to the
	// course inside the backend and returns the updated row.
	ListCourses(ctx context.Context, semester string) ([]models.Course, error)
	GetCourse(ctx context.Context, id string) (*models.Course, error)
	AdjustCourseOccupancy(ctx context.Context, id string, delta int) (*models.Course, error)

	// Enrollments: one record per (student, semester), replaced wholesale.
	// ReplaceEnrollment recomputes total credits from the referenced
	// courses; unknown course ids contribute zero credits.
	GetEnrollment(ctx context.Context, studentID, semester string) (*models.Enrollment, error)
	ReplaceEnrollment(ctx context.Context, studentID, semester string, courseIDs []string) (*models.Enrollment, error)

	// Enrollment history: append-only, capped at models.HistoryRetention
	// entries globally with the oldest evicted first.
	AddEnrollmentHistory(ctx context.Context, entry *models.EnrollmentHistoryEntry) error
	ListEnrollmentHistory(ctx context.Context, studentID string, limit int) ([]models.EnrollmentHistoryEntry, error)

	// Books. ListBooks filters by a free-text query over title, author,
	// category and ISBN when query is non-empty.
	ListBooks(ctx context.Context, query string) ([]models.Book, error)
	GetBook(ctx context.Context, id string) (*models.Book, error)
	AdjustBookCopies(ctx context.Context, id string, delta int) (*models.Book, error)

	// Loans.
	GetActiveLoan(ctx context.Context, userID, bookID string) (*models.Loan, error)
	CountActiveLoans(ctx context.Context, userID string) (int, error)
	CreateLoan(ctx context.Context, loan *models.Loan) error
	UpdateLoan(ctx context.Context, loan *models.Loan) error
	ListLoans(ctx context.Context, userID string, activeOnly bool) ([]models.Loan, error)

	// Reservations. ListReservations returns waiting entries only.
	GetActiveReservation(ctx context.Context, userID, bookID string) (*models.Reservation, error)
	CreateReservation(ctx context.Context, res *models.Reservation) error
	UpdateReservation(ctx context.Context, res *models.Reservation) error
	ListReservations(ctx context.Context, userID string) ([]models.Reservation, error)

	// Departments and employees.
	ListDepartments(ctx context.Context) ([]models.Department, error)
	GetDepartment(ctx context.Context, id string) (*models.Department, error)
	ListEmployees(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error)
	GetEmployee(ctx context.Context, id string) (*models.Employee, error)
	GetEmployeeByNumber(ctx context.Context, employeeID string) (*models.Employee, error)
	CreateEmployee(ctx context.Context, emp *models.Employee) error
	UpdateEmployee(ctx context.Context, emp *models.Employee) error

	// Attendance: one record per (employee, day); SaveAttendance upserts
	// on that key.
	GetAttendance(ctx context.Context, employeeID, date string) (*models.AttendanceRecord, error)
	SaveAttendance(ctx context.Context, rec *models.AttendanceRecord) error
	ListAttendance(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error)

	// Leave requests.
	ListLeaves(ctx context.Context, employeeID string, status models.LeaveStatus) ([]models.LeaveRequest, error)
	GetLeave(ctx context.Context, id string) (*models.LeaveRequest, error)
	CreateLeave(ctx context.Context, leave *models.LeaveRequest) error
	UpdateLeave(ctx context.Context, leave *models.LeaveRequest) error
}

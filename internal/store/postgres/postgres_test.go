package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/campus-admin-api/internal/models"
	"github.com/campushq/campus-admin-api/internal/store"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return &Store{db: sqlxdb}, mock, func() {
		db.Close()
	}
}

func courseRows(current, max int, status models.CourseStatus) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "code", "name", "instructor", "semester", "credits", "schedule_code", "classroom",
		"max_students", "current_students", "status", "department", "type", "year", "description",
	}).AddRow("CS101", "CS101", "Introduction to Computer Science", "Prof. Chang", "2025-1", 3,
		"2-3,4,5", "E101", max, current, string(status), "Computer Science", "required", 1, "")
}

func bookRows(available, total int, status models.BookStatus) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "author", "publisher", "isbn", "category", "location",
		"total_copies", "available_copies", "status", "description", "publish_year",
	}).AddRow("book001", "Foundations of Computer Science", "C. Chang", "Academic Press",
		"9789861234567", "Computer Science", "A101", total, available, string(status), "", 2023)
}

func TestGetUserByUsername(t *testing.T) {
	st, mock, cleanup := newMock(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "username", "password_hash", "name", "email", "user_type", "department",
		"status", "student_id", "employee_id", "created_at", "last_login",
	}).AddRow("admin", "admin", "hash", "System Administrator", "admin@campus.edu",
		string(models.RoleAdmin), "IT Center", "active", nil, nil, now, nil)
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE username = \$1`).
		WithArgs("admin").
		WillReturnRows(rows)

	user, err := st.GetUserByUsername(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.UserType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByUsernameNotFound(t *testing.T) {
	st, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE username = \$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := st.GetUserByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateLastLoginUnknownUser(t *testing.T) {
	st, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectExec(`UPDATE users SET last_login = \$2 WHERE username = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := st.UpdateLastLogin(context.Background(), "ghost", time.Now())
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustCourseOccupancyFillsCourse(t *testing.T) {
	st, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM courses WHERE id = \$1 FOR UPDATE`).
		WithArgs("CS101").
		WillReturnRows(courseRows(49, 50, models.CourseStatusOpen))
	mock.ExpectExec(`UPDATE courses SET current_students = \$2, status = \$3 WHERE id = \$1`).
		WithArgs("CS101", 50, string(models.CourseStatusFull)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	course, err := st.AdjustCourseOccupancy(context.Background(), "CS101", 1)
	require.NoError(t, err)
	assert.Equal(t, 50, course.CurrentStudents)
	assert.Equal(t, models.CourseStatusFull, course.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustCourseOccupancyKeepsSuspendedStatus(t *testing.T) {
	st, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM courses WHERE id = \$1 FOR UPDATE`).
		WithArgs("CS101").
		WillReturnRows(courseRows(10, 50, models.CourseStatusSuspended))
	mock.ExpectExec(`UPDATE courses SET current_students = \$2, status = \$3 WHERE id = \$1`).
		WithArgs("CS101", 11, string(models.CourseStatusSuspended)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	course, err := st.AdjustCourseOccupancy(context.Background(), "CS101", 1)
	require.NoError(t, err)
	assert.Equal(t, models.CourseStatusSuspended, course.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustCourseOccupancyUnknownCourse(t *testing.T) {
	st, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM courses WHERE id = \$1 FOR UPDATE`).
		WithArgs("GHOST").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := st.AdjustCourseOccupancy(context.Background(), "GHOST", 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceEnrollmentSumsCredits(t *testing.T) {
	st, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(credits\), 0\) FROM courses WHERE id = ANY\(\$1\)`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(7))
	mock.ExpectExec(`INSERT INTO enrollments`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	enrollment, err := st.ReplaceEnrollment(context.Background(), "student", "2025-1", []string{"CS101", "MATH101"})
	require.NoError(t, err)
	assert.Equal(t, 7, enrollment.TotalCredits)
	assert.Equal(t, []string{"CS101", "MATH101"}, []string(enrollment.Courses))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddEnrollmentHistoryTrimsBeyondCap(t *testing.T) {
	st, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectExec(`INSERT INTO enrollment_history`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM enrollment_history WHERE id IN`).
		WithArgs(models.HistoryRetention).
		WillReturnResult(sqlmock.NewResult(0, 0))

	entry := &models.EnrollmentHistoryEntry{
		ID: "hist001", StudentID: "student", Action: models.EnrollmentActionEnroll,
		CourseID: "CS101", Timestamp: time.Now(), Result: "success",
	}
	require.NoError(t, st.AddEnrollmentHistory(context.Background(), entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustBookCopiesBorrowFlipsFullyLent(t *testing.T) {
	st, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM books WHERE id = \$1 FOR UPDATE`).
		WithArgs("book001").
		WillReturnRows(bookRows(1, 3, models.BookStatusAvailable))
	mock.ExpectExec(`UPDATE books SET available_copies = \$2, status = \$3 WHERE id = \$1`).
		WithArgs("book001", 0, string(models.BookStatusFullyLent)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	book, err := st.AdjustBookCopies(context.Background(), "book001", -1)
	require.NoError(t, err)
	assert.Equal(t, 0, book.AvailableCopies)
	assert.Equal(t, models.BookStatusFullyLent, book.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetActiveLoanNotFound(t *testing.T) {
	st, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM loans WHERE user_id = \$1 AND book_id = \$2 AND status = \$3`).
		WithArgs("student", "book001", string(models.LoanStatusBorrowed)).
		WillReturnError(sql.ErrNoRows)

	_, err := st.GetActiveLoan(context.Background(), "student", "book001")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateLoanUnknownID(t *testing.T) {
	st, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectExec(`UPDATE loans SET due_date`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := st.UpdateLoan(context.Background(), &models.Loan{ID: "ghost"})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountActiveLoans(t *testing.T) {
	st, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM loans WHERE user_id = \$1 AND status = \$2`).
		WithArgs("student", string(models.LoanStatusBorrowed)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := st.CountActiveLoans(context.Background(), "student")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateEmployeeDuplicateNumber(t *testing.T) {
	st, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectExec(`INSERT INTO employees`).
		WillReturnError(&pq.Error{Code: "23505"})

	err := st.CreateEmployee(context.Background(), &models.Employee{ID: "emp099", EmployeeID: "E001", Name: "Impostor"})
	assert.ErrorIs(t, err, store.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEmployeeByNumber(t *testing.T) {
	st, mock, cleanup := newMock(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "employee_id", "username", "name", "email", "phone", "position", "department",
		"department_id", "hire_date", "salary", "status", "contract_type", "work_type",
		"supervisor", "created_at", "updated_at",
	}).AddRow("emp001", "E001", "teacher", "Albert Chang", "chang@campus.edu", "0912-345-678",
		"Professor", "Computer Science", "dept001", "2020-08-01", 85000,
		string(models.EmployeeStatusActive), "permanent", "full_time", nil, now, now)
	mock.ExpectQuery(`SELECT (.+) FROM employees WHERE employee_id = \$1`).
		WithArgs("E001").
		WillReturnRows(rows)

	emp, err := st.GetEmployeeByNumber(context.Background(), "E001")
	require.NoError(t, err)
	assert.Equal(t, "Albert Chang", emp.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveAttendanceUpsert(t *testing.T) {
	st, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectExec(`INSERT INTO attendance`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := &models.AttendanceRecord{
		ID: "att001", EmployeeID: "E001", Date: "2025-06-02",
		CheckIn: "07:52:00", Status: models.AttendanceStatusNormal,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, st.SaveAttendance(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAttendanceDepartmentFilter(t *testing.T) {
	st, mock, cleanup := newMock(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "employee_id", "date", "check_in", "check_out", "work_hours", "overtime_hours",
		"status", "note", "created_at", "updated_at",
	}).AddRow("att001", "E001", "2025-06-02", "07:52:00", "17:30:00", 8.63, 0.63,
		string(models.AttendanceStatusNormal), "", now, now)
	mock.ExpectQuery(`SELECT (.+) FROM attendance a WHERE a\.date = \$1 AND a\.employee_id IN`).
		WithArgs("2025-06-02", "dept001").
		WillReturnRows(rows)

	records, err := st.ListAttendance(context.Background(), models.AttendanceFilter{Date: "2025-06-02", DepartmentID: "dept001"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "E001", records[0].EmployeeID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLeaveNotFound(t *testing.T) {
	st, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM leaves WHERE id = \$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := st.GetLeave(context.Background(), "ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

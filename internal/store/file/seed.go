package file

import (
	"time"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushq/campus-admin-api/internal/models"
)

// seed writes demo data for any collection whose file does not exist
// yet. Existing files are never touched, so a restart keeps state.
func (s *Store) seed() error {
	now := time.Now()

	if !s.exists(colUsers) {
		hash, err := bcrypt.GenerateFromPassword([]byte("123"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		studentNo := "B11234567"
		staffNo := "E001"
		users := []models.User{
			{
				ID: "admin", Username: "admin", PasswordHash: string(hash),
				Name: "System Administrator", Email: "admin@campus.edu",
				UserType: models.RoleAdmin, Department: "IT Center",
				Status: "active", CreatedAt: now,
			},
			{
				ID: "student", Username: "student", PasswordHash: string(hash),
				Name: "Demo Student", Email: "student@campus.edu",
				UserType: models.RoleStudent, Department: "Computer Science",
				Status: "active", StudentID: &studentNo, CreatedAt: now,
			},
			{
				ID: "teacher", Username: "teacher", PasswordHash: string(hash),
				Name: "Demo Teacher", Email: "teacher@campus.edu",
				UserType: models.RoleTeacher, Department: "Computer Science",
				Status: "active", EmployeeID: &staffNo, CreatedAt: now,
			},
			{
				ID: "hr", Username: "hr", PasswordHash: string(hash),
				Name: "HR Manager", Email: "hr@campus.edu",
				UserType: models.RoleHR, Department: "Human Resources",
				Status: "active", CreatedAt: now,
			},
		}
		if err := s.write(colUsers, users); err != nil {
			return err
		}
	}

	if !s.exists(colCourses) {
		courses := []models.Course{
			{
				ID: "CS101", Code: "CS101", Name: "Introduction to Computer Science",
				Instructor: "Prof. Chang", Semester: "2025-1", Credits: 3,
				ScheduleCode: "2-3,4,5", Classroom: "E101",
				MaxStudents: 50, CurrentStudents: 15, Status: models.CourseStatusOpen,
				Department: "Computer Science", Type: "required", Year: 1,
				Description: "Fundamental computing concepts and introductory programming",
			},
			{
				ID: "CS102", Code: "CS102", Name: "Programming",
				Instructor: "Prof. Lee", Semester: "2025-1", Credits: 3,
				ScheduleCode: "1-2,3", Classroom: "E102",
				MaxStudents: 45, CurrentStudents: 20, Status: models.CourseStatusOpen,
				Department: "Computer Science", Type: "required", Year: 1,
				Description: "Programming fundamentals and algorithmic thinking",
			},
			{
				ID: "MATH101", Code: "MATH101", Name: "Calculus",
				Instructor: "Prof. Wang", Semester: "2025-1", Credits: 4,
				ScheduleCode: "3-1,2;5-3,4", Classroom: "S201",
				MaxStudents: 60, CurrentStudents: 35, Status: models.CourseStatusOpen,
				Department: "Mathematics", Type: "required", Year: 1,
				Description: "Single-variable calculus theory and applications",
			},
		}
		if err := s.write(colCourses, courses); err != nil {
			return err
		}
	}

	if !s.exists(colEnrollments) {
		enrollments := []models.Enrollment{
			{
				StudentID: "student", Semester: "2025-1",
				Courses: pq.StringArray{"CS101", "CS102", "MATH101"}, TotalCredits: 10,
				EnrollmentDate: now, Status: "active",
			},
		}
		if err := s.write(colEnrollments, enrollments); err != nil {
			return err
		}
	}

	if !s.exists(colHistory) {
		history := []models.EnrollmentHistoryEntry{
			{
				ID: "hist003", StudentID: "student", Action: models.EnrollmentActionEnroll,
				CourseID: "MATH101", CourseName: "Calculus", Instructor: "Prof. Wang",
				Semester: "2025-1", Timestamp: now.Add(-71 * time.Hour), Result: "success",
			},
			{
				ID: "hist002", StudentID: "student", Action: models.EnrollmentActionEnroll,
				CourseID: "CS102", CourseName: "Programming", Instructor: "Prof. Lee",
				Semester: "2025-1", Timestamp: now.Add(-72 * time.Hour), Result: "success",
			},
			{
				ID: "hist001", StudentID: "student", Action: models.EnrollmentActionEnroll,
				CourseID: "CS101", CourseName: "Introduction to Computer Science", Instructor: "Prof. Chang",
				Semester: "2025-1", Timestamp: now.Add(-73 * time.Hour), Result: "success",
			},
		}
		if err := s.write(colHistory, history); err != nil {
			return err
		}
	}

	if !s.exists(colBooks) {
		books := []models.Book{
			{
				ID: "book001", Title: "Foundations of Computer Science", Author: "C. Chang",
				Publisher: "Academic Press", ISBN: "9789861234567", Category: "Computer Science",
				Location: "A101", TotalCopies: 3, AvailableCopies: 2,
				Status: models.BookStatusAvailable, PublishYear: 2023,
				Description: "Introductory computer science textbook",
			},
			{
				ID: "book002", Title: "Data Structures and Algorithms", Author: "M. Lee",
				Publisher: "Tech Books", ISBN: "9789861234568", Category: "Computer Science",
				Location: "A102", TotalCopies: 5, AvailableCopies: 3,
				Status: models.BookStatusAvailable, PublishYear: 2022,
				Description: "Classic text on data structures and algorithm design",
			},
			{
				ID: "book003", Title: "Practical Web Design", Author: "M. Chen",
				Publisher: "Design Press", ISBN: "9789861234569", Category: "Web Design",
				Location: "B201", TotalCopies: 2, AvailableCopies: 0,
				Status: models.BookStatusFullyLent, PublishYear: 2024,
				Description: "Modern web design techniques and case studies",
			},
			{
				ID: "book004", Title: "Introduction to Artificial Intelligence", Author: "D. Wang",
				Publisher: "Science Press", ISBN: "9789861234570", Category: "Artificial Intelligence",
				Location: "A201", TotalCopies: 4, AvailableCopies: 4,
				Status: models.BookStatusAvailable, PublishYear: 2023,
				Description: "AI fundamentals and applied examples",
			},
			{
				ID: "book005", Title: "Database System Concepts", Author: "J. Lin",
				Publisher: "Academic Press", ISBN: "9789861234571", Category: "Databases",
				Location: "A103", TotalCopies: 3, AvailableCopies: 1,
				Status: models.BookStatusAvailable, PublishYear: 2022,
				Description: "Complete guide to database design and administration",
			},
		}
		if err := s.write(colBooks, books); err != nil {
			return err
		}
	}

	if !s.exists(colLoans) {
		loans := []models.Loan{
			{
				ID: "loan001", UserID: "student", BookID: "book001",
				BorrowDate: now.AddDate(0, 0, -5), DueDate: now.AddDate(0, 0, 9),
				Status: models.LoanStatusBorrowed, RenewCount: 0,
			},
			{
				ID: "loan002", UserID: "student", BookID: "book002",
				BorrowDate: now.AddDate(0, 0, -10), DueDate: now.AddDate(0, 0, 4),
				Status: models.LoanStatusBorrowed, RenewCount: 1,
			},
		}
		if err := s.write(colLoans, loans); err != nil {
			return err
		}
	}

	if !s.exists(colReservations) {
		reservations := []models.Reservation{
			{
				ID: "resv001", UserID: "student", BookID: "book003",
				ReserveDate: now.AddDate(0, 0, -2), EstimatedDate: now.AddDate(0, 0, 5),
				Status: models.ReservationStatusWaiting, Notified: false,
			},
		}
		if err := s.write(colReservations, reservations); err != nil {
			return err
		}
	}

	if !s.exists(colDepartments) {
		departments := []models.Department{
			{
				ID: "dept001", Name: "Computer Science", Code: "CS", Type: "academic",
				Head: "Prof. Chang", Location: "Engineering Bldg E", Phone: "02-1234-5678",
				Email: "cs@campus.edu", EmployeeCount: 25, Status: "active",
			},
			{
				ID: "dept002", Name: "Academic Affairs", Code: "AA", Type: "administrative",
				Head: "Director Chen", Location: "Admin Bldg 2F", Phone: "02-1234-5679",
				Email: "aa@campus.edu", EmployeeCount: 15, Status: "active",
			},
			{
				ID: "dept003", Name: "Student Affairs", Code: "SA", Type: "administrative",
				Head: "Director Lin", Location: "Admin Bldg 3F", Phone: "02-1234-5680",
				Email: "sa@campus.edu", EmployeeCount: 12, Status: "active",
			},
			{
				ID: "dept004", Name: "General Affairs", Code: "GA", Type: "administrative",
				Head: "Director Huang", Location: "Admin Bldg 1F", Phone: "02-1234-5681",
				Email: "ga@campus.edu", EmployeeCount: 18, Status: "active",
			},
			{
				ID: "dept005", Name: "Human Resources", Code: "HR", Type: "administrative",
				Head: "Director Liu", Location: "Admin Bldg 4F", Phone: "02-1234-5682",
				Email: "hr@campus.edu", EmployeeCount: 8, Status: "active",
			},
		}
		if err := s.write(colDepartments, departments); err != nil {
			return err
		}
	}

	if !s.exists(colEmployees) {
		sup := "emp001"
		employees := []models.Employee{
			{
				ID: "emp001", EmployeeID: "E001", Username: "teacher",
				Name: "Albert Chang", Email: "chang@campus.edu", Phone: "0912-345-678",
				Position: "Professor", Department: "Computer Science", DepartmentID: "dept001",
				HireDate: "2020-08-01", Salary: 85000, Status: models.EmployeeStatusActive,
				ContractType: "permanent", WorkType: "full_time",
				CreatedAt: now, UpdatedAt: now,
			},
			{
				ID: "emp002", EmployeeID: "E002", Username: "assistant",
				Name: "Megan Lee", Email: "lee@campus.edu", Phone: "0912-345-679",
				Position: "Teaching Assistant", Department: "Computer Science", DepartmentID: "dept001",
				HireDate: "2021-02-15", Salary: 45000, Status: models.EmployeeStatusActive,
				ContractType: "permanent", WorkType: "full_time", Supervisor: &sup,
				CreatedAt: now, UpdatedAt: now,
			},
			{
				ID: "emp003", EmployeeID: "E003", Username: "secretary",
				Name: "Sharon Wang", Email: "wang@campus.edu", Phone: "0912-345-681",
				Position: "Secretary", Department: "Academic Affairs", DepartmentID: "dept002",
				HireDate: "2019-09-01", Salary: 38000, Status: models.EmployeeStatusOnLeave,
				ContractType: "permanent", WorkType: "full_time",
				CreatedAt: now, UpdatedAt: now,
			},
			{
				ID: "emp004", EmployeeID: "E004", Username: "clerk",
				Name: "David Chen", Email: "chen@campus.edu", Phone: "0912-345-683",
				Position: "Administrative Officer", Department: "Student Affairs", DepartmentID: "dept003",
				HireDate: "2022-03-10", Salary: 42000, Status: models.EmployeeStatusActive,
				ContractType: "contract", WorkType: "full_time",
				CreatedAt: now, UpdatedAt: now,
			},
			{
				ID: "emp005", EmployeeID: "E005", Username: "manager",
				Name: "Grace Lin", Email: "lin@campus.edu", Phone: "0912-345-685",
				Position: "Director", Department: "Human Resources", DepartmentID: "dept005",
				HireDate: "2018-06-15", Salary: 65000, Status: models.EmployeeStatusActive,
				ContractType: "permanent", WorkType: "full_time",
				CreatedAt: now, UpdatedAt: now,
			},
		}
		if err := s.write(colEmployees, employees); err != nil {
			return err
		}
	}

	if !s.exists(colAttendance) {
		date := now.AddDate(0, 0, -1).Format("2006-01-02")
		records := []models.AttendanceRecord{
			{
				ID: "att001", EmployeeID: "E001", Date: date,
				CheckIn: "07:52:00", CheckOut: "17:30:00",
				WorkHours: 8.63, OvertimeHours: 0.63,
				Status: models.AttendanceStatusNormal,
				CreatedAt: now, UpdatedAt: now,
			},
			{
				ID: "att002", EmployeeID: "E002", Date: date,
				CheckIn: "08:17:00", CheckOut: "17:30:00",
				WorkHours: 8.22, OvertimeHours: 0.22,
				Status: models.AttendanceStatusLate, Note: "late arrival",
				CreatedAt: now, UpdatedAt: now,
			},
			{
				ID: "att004", EmployeeID: "E004", Date: date,
				Status: models.AttendanceStatusLeave, Note: "approved leave",
				CreatedAt: now, UpdatedAt: now,
			},
		}
		if err := s.write(colAttendance, records); err != nil {
			return err
		}
	}

	if !s.exists(colLeaves) {
		approver := "E005"
		approvedAt := now.AddDate(0, 0, -1)
		leaves := []models.LeaveRequest{
			{
				ID: "leave001", EmployeeID: "E002", EmployeeName: "Megan Lee",
				LeaveType: "personal", StartDate: "2026-08-25", EndDate: "2026-08-25",
				TotalDays: 1, Reason: "personal errand",
				Status: models.LeaveStatusApproved, AppliedAt: now.AddDate(0, 0, -2),
				ApprovedBy: &approver, ApprovedAt: &approvedAt,
			},
			{
				ID: "leave002", EmployeeID: "E004", EmployeeName: "David Chen",
				LeaveType: "sick", StartDate: "2026-08-22", EndDate: "2026-08-23",
				TotalDays: 2, Reason: "doctor visit",
				Status: models.LeaveStatusPending, AppliedAt: now.AddDate(0, 0, -3),
			},
		}
		if err := s.write(colLeaves, leaves); err != nil {
			return err
		}
	}

	return nil
}

package postgres

import (
	"time"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// seed loads demo data. Every insert carries ON CONFLICT DO NOTHING so
// restarting against a populated database is a no-op.
func (s *Store) seed() error {
	hash, err := bcrypt.GenerateFromPassword([]byte("123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now()

	const insertUser = `INSERT INTO users (id, username, password_hash, name, email, user_type, department, status, student_id, employee_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'active', $8, $9) ON CONFLICT (id) DO NOTHING`
	studentNo := "B11234567"
	staffNo := "E001"
	users := []struct {
		id, name, email, userType, department string
		studentID, employeeID                 *string
	}{
		{"admin", "System Administrator", "admin@campus.edu", "admin", "IT Center", nil, nil},
		{"student", "Demo Student", "student@campus.edu", "student", "Computer Science", &studentNo, nil},
		{"teacher", "Demo Teacher", "teacher@campus.edu", "teacher", "Computer Science", nil, &staffNo},
		{"hr", "HR Manager", "hr@campus.edu", "hr", "Human Resources", nil, nil},
	}
	for _, u := range users {
		if _, err := s.db.Exec(insertUser, u.id, u.id, string(hash), u.name, u.email, u.userType, u.department, u.studentID, u.employeeID); err != nil {
			return err
		}
	}

	const insertCourse = `INSERT INTO courses (id, code, name, instructor, semester, credits, schedule_code, classroom,
		max_students, current_students, status, department, type, year, description)
		VALUES ($1, $1, $2, $3, '2025-1', $4, $5, $6, $7, $8, 'open', $9, 'required', 1, $10)
		ON CONFLICT (id) DO NOTHING`
	courses := []struct {
		id, name, instructor, schedule, room string
		credits, max, current                int
		department, description              string
	}{
		{"CS101", "Introduction to Computer Science", "Prof. Chang", "2-3,4,5", "E101", 3, 50, 15,
			"Computer Science", "Fundamental computing concepts and introductory programming"},
		{"CS102", "Programming", "Prof. Lee", "1-2,3", "E102", 3, 45, 20,
			"Computer Science", "Programming fundamentals and algorithmic thinking"},
		{"MATH101", "Calculus", "Prof. Wang", "3-1,2;5-3,4", "S201", 4, 60, 35,
			"Mathematics", "Single-variable calculus theory and applications"},
	}
	for _, c := range courses {
		if _, err := s.db.Exec(insertCourse, c.id, c.name, c.instructor, c.credits, c.schedule, c.room,
			c.max, c.current, c.department, c.description); err != nil {
			return err
		}
	}

	const insertEnrollment = `INSERT INTO enrollments (student_id, semester, courses, total_credits, enrollment_date, status)
		VALUES ('student', '2025-1', $1, 10, $2, 'active') ON CONFLICT (student_id, semester) DO NOTHING`
	if _, err := s.db.Exec(insertEnrollment, pq.StringArray{"CS101", "CS102", "MATH101"}, now); err != nil {
		return err
	}

	const insertHistory = `INSERT INTO enrollment_history (id, student_id, action, course_id, course_name, instructor, semester, timestamp, result)
		VALUES ($1, 'student', 'enroll', $2, $3, $4, '2025-1', $5, 'success') ON CONFLICT (id) DO NOTHING`
	history := []struct {
		id, courseID, courseName, instructor string
		ts                                   time.Time
	}{
		{"hist001", "CS101", "Introduction to Computer Science", "Prof. Chang", now.Add(-73 * time.Hour)},
		{"hist002", "CS102", "Programming", "Prof. Lee", now.Add(-72 * time.Hour)},
		{"hist003", "MATH101", "Calculus", "Prof. Wang", now.Add(-71 * time.Hour)},
	}
	for _, h := range history {
		if _, err := s.db.Exec(insertHistory, h.id, h.courseID, h.courseName, h.instructor, h.ts); err != nil {
			return err
		}
	}

	const insertBook = `INSERT INTO books (id, title, author, publisher, isbn, category, location,
		total_copies, available_copies, status, description, publish_year)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) ON CONFLICT (id) DO NOTHING`
	books := []struct {
		id, title, author, publisher, isbn, category, location string
		total, available                                       int
		status, description                                    string
		year                                                   int
	}{
		{"book001", "Foundations of Computer Science", "C. Chang", "Academic Press", "9789861234567",
			"Computer Science", "A101", 3, 2, "available", "Introductory computer science textbook", 2023},
		{"book002", "Data Structures and Algorithms", "M. Lee", "Tech Books", "9789861234568",
			"Computer Science", "A102", 5, 3, "available", "Classic text on data structures and algorithm design", 2022},
		{"book003", "Practical Web Design", "M. Chen", "Design Press", "9789861234569",
			"Web Design", "B201", 2, 0, "fully_lent", "Modern web design techniques and case studies", 2024},
		{"book004", "Introduction to Artificial Intelligence", "D. Wang", "Science Press", "9789861234570",
			"Artificial Intelligence", "A201", 4, 4, "available", "AI fundamentals and applied examples", 2023},
		{"book005", "Database System Concepts", "J. Lin", "Academic Press", "9789861234571",
			"Databases", "A103", 3, 1, "available", "Complete guide to database design and administration", 2022},
	}
	for _, b := range books {
		if _, err := s.db.Exec(insertBook, b.id, b.title, b.author, b.publisher, b.isbn, b.category,
			b.location, b.total, b.available, b.status, b.description, b.year); err != nil {
			return err
		}
	}

	const insertLoan = `INSERT INTO loans (id, user_id, book_id, borrow_date, due_date, status, renew_count)
		VALUES ($1, 'student', $2, $3, $4, 'borrowed', $5) ON CONFLICT (id) DO NOTHING`
	loans := []struct {
		id, bookID  string
		borrow, due time.Time
		renewCount  int
	}{
		{"loan001", "book001", now.AddDate(0, 0, -5), now.AddDate(0, 0, 9), 0},
		{"loan002", "book002", now.AddDate(0, 0, -10), now.AddDate(0, 0, 4), 1},
	}
	for _, l := range loans {
		if _, err := s.db.Exec(insertLoan, l.id, l.bookID, l.borrow, l.due, l.renewCount); err != nil {
			return err
		}
	}

	const insertReservation = `INSERT INTO reservations (id, user_id, book_id, reserve_date, estimated_date, status, notified)
		VALUES ('resv001', 'student', 'book003', $1, $2, 'waiting', FALSE) ON CONFLICT (id) DO NOTHING`
	if _, err := s.db.Exec(insertReservation, now.AddDate(0, 0, -2), now.AddDate(0, 0, 5)); err != nil {
		return err
	}

	const insertDepartment = `INSERT INTO departments (id, name, code, type, head, location, phone, email, employee_count, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'active') ON CONFLICT (id) DO NOTHING`
	departments := []struct {
		id, name, code, deptType, head, location, phone, email string
		count                                                  int
	}{
		{"dept001", "Computer Science", "CS", "academic", "Prof. Chang", "Engineering Bldg E", "02-1234-5678", "cs@campus.edu", 25},
		{"dept002", "Academic Affairs", "AA", "administrative", "Director Chen", "Admin Bldg 2F", "02-1234-5679", "aa@campus.edu", 15},
		{"dept003", "Student Affairs", "SA", "administrative", "Director Lin", "Admin Bldg 3F", "02-1234-5680", "sa@campus.edu", 12},
		{"dept004", "General Affairs", "GA", "administrative", "Director Huang", "Admin Bldg 1F", "02-1234-5681", "ga@campus.edu", 18},
		{"dept005", "Human Resources", "HR", "administrative", "Director Liu", "Admin Bldg 4F", "02-1234-5682", "hr@campus.edu", 8},
	}
	for _, d := range departments {
		if _, err := s.db.Exec(insertDepartment, d.id, d.name, d.code, d.deptType, d.head, d.location,
			d.phone, d.email, d.count); err != nil {
			return err
		}
	}

	const insertEmployee = `INSERT INTO employees (id, employee_id, username, name, email, phone, position,
		department, department_id, hire_date, salary, status, contract_type, work_type, supervisor, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 'full_time', $14, $15, $15)
		ON CONFLICT (id) DO NOTHING`
	sup := "emp001"
	employees := []struct {
		id, number, username, name, email, phone, position, department, departmentID, hireDate string
		salary                                                                                 int
		status, contract                                                                       string
		supervisor                                                                             *string
	}{
		{"emp001", "E001", "teacher", "Albert Chang", "chang@campus.edu", "0912-345-678", "Professor",
			"Computer Science", "dept001", "2020-08-01", 85000, "active", "permanent", nil},
		{"emp002", "E002", "assistant", "Megan Lee", "lee@campus.edu", "0912-345-679", "Teaching Assistant",
			"Computer Science", "dept001", "2021-02-15", 45000, "active", "permanent", &sup},
		{"emp003", "E003", "secretary", "Sharon Wang", "wang@campus.edu", "0912-345-681", "Secretary",
			"Academic Affairs", "dept002", "2019-09-01", 38000, "leave", "permanent", nil},
		{"emp004", "E004", "clerk", "David Chen", "chen@campus.edu", "0912-345-683", "Administrative Officer",
			"Student Affairs", "dept003", "2022-03-10", 42000, "active", "contract", nil},
		{"emp005", "E005", "manager", "Grace Lin", "lin@campus.edu", "0912-345-685", "Director",
			"Human Resources", "dept005", "2018-06-15", 65000, "active", "permanent", nil},
	}
	for _, e := range employees {
		if _, err := s.db.Exec(insertEmployee, e.id, e.number, e.username, e.name, e.email, e.phone,
			e.position, e.department, e.departmentID, e.hireDate, e.salary, e.status, e.contract,
			e.supervisor, now); err != nil {
			return err
		}
	}

	date := now.AddDate(0, 0, -1).Format("2006-01-02")
	const insertAttendance = `INSERT INTO attendance (id, employee_id, date, check_in, check_out,
		work_hours, overtime_hours, status, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10) ON CONFLICT (id) DO NOTHING`
	attendance := []struct {
		id, employeeID, checkIn, checkOut string
		workHours, overtime               float64
		status, note                      string
	}{
		{"att001", "E001", "07:52:00", "17:30:00", 8.63, 0.63, "normal", ""},
		{"att002", "E002", "08:17:00", "17:30:00", 8.22, 0.22, "late", "late arrival"},
		{"att004", "E004", "", "", 0, 0, "leave", "approved leave"},
	}
	for _, a := range attendance {
		if _, err := s.db.Exec(insertAttendance, a.id, a.employeeID, date, a.checkIn, a.checkOut,
			a.workHours, a.overtime, a.status, a.note, now); err != nil {
			return err
		}
	}

	const insertLeave = `INSERT INTO leaves (id, employee_id, employee_name, leave_type, start_date, end_date,
		total_days, reason, status, applied_at, approved_by, approved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) ON CONFLICT (id) DO NOTHING`
	approver := "E005"
	approvedAt := now.AddDate(0, 0, -1)
	leaves := []struct {
		id, employeeID, name, leaveType, start, end string
		days                                        int
		reason, status                              string
		appliedAt                                   time.Time
		approvedBy                                  *string
		approvedAt                                  *time.Time
	}{
		{"leave001", "E002", "Megan Lee", "personal", "2026-08-25", "2026-08-25", 1,
			"personal errand", "approved", now.AddDate(0, 0, -2), &approver, &approvedAt},
		{"leave002", "E004", "David Chen", "sick", "2026-08-22", "2026-08-23", 2,
			"doctor visit", "pending", now.AddDate(0, 0, -3), nil, nil},
	}
	for _, l := range leaves {
		if _, err := s.db.Exec(insertLeave, l.id, l.employeeID, l.name, l.leaveType, l.start, l.end,
			l.days, l.reason, l.status, l.appliedAt, l.approvedBy, l.approvedAt); err != nil {
			return err
		}
	}

	return nil
}

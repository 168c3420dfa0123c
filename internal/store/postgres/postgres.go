package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Store implements the persistence contract on PostgreSQL. Schema
// bootstrap is idempotent so the process can start against an empty
// database.
type Store struct {
	db *sqlx.DB
}

// New prepares the schema and optionally loads demo data.
func New(db *sqlx.DB, seed bool) (*Store, error) {
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	if seed {
		if err := s.seed(); err != nil {
			return nil, fmt.Errorf("seed data: %w", err)
		}
	}
	return s, nil
}

// Kind identifies the backend in health reports.
func (s *Store) Kind() string { return "postgres" }

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			user_type TEXT NOT NULL,
			department TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'active',
			student_id TEXT,
			employee_id TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_login TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS courses (
			id TEXT PRIMARY KEY,
			code TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			instructor TEXT NOT NULL DEFAULT '',
			semester TEXT NOT NULL,
			credits INT NOT NULL DEFAULT 0,
			schedule_code TEXT NOT NULL DEFAULT '',
			classroom TEXT NOT NULL DEFAULT '',
			max_students INT NOT NULL DEFAULT 0,
			current_students INT NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'open',
			department TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL DEFAULT '',
			year INT NOT NULL DEFAULT 1,
			description TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_courses_semester ON courses (semester)`,
		`CREATE TABLE IF NOT EXISTS enrollments (
			student_id TEXT NOT NULL,
			semester TEXT NOT NULL,
			courses TEXT[] NOT NULL DEFAULT '{}',
			total_credits INT NOT NULL DEFAULT 0,
			enrollment_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			status TEXT NOT NULL DEFAULT 'active',
			PRIMARY KEY (student_id, semester)
		)`,
		`CREATE TABLE IF NOT EXISTS enrollment_history (
			id TEXT PRIMARY KEY,
			student_id TEXT NOT NULL,
			action TEXT NOT NULL,
			course_id TEXT NOT NULL,
			course_name TEXT NOT NULL DEFAULT '',
			instructor TEXT NOT NULL DEFAULT '',
			semester TEXT NOT NULL DEFAULT '',
			timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			result TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_student ON enrollment_history (student_id, timestamp DESC)`,
		`CREATE TABLE IF NOT EXISTS books (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			author TEXT NOT NULL DEFAULT '',
			publisher TEXT NOT NULL DEFAULT '',
			isbn TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			total_copies INT NOT NULL DEFAULT 0,
			available_copies INT NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'available',
			description TEXT NOT NULL DEFAULT '',
			publish_year INT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS loans (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			book_id TEXT NOT NULL,
			borrow_date TIMESTAMPTZ NOT NULL,
			due_date TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL DEFAULT 'borrowed',
			renew_count INT NOT NULL DEFAULT 0,
			return_date TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_loans_user ON loans (user_id, status)`,
		`CREATE TABLE IF NOT EXISTS reservations (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			book_id TEXT NOT NULL,
			reserve_date TIMESTAMPTZ NOT NULL,
			estimated_date TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL DEFAULT 'waiting',
			notified BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_user ON reservations (user_id, status)`,
		`CREATE TABLE IF NOT EXISTS departments (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			code TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL DEFAULT '',
			head TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			employee_count INT NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'active'
		)`,
		`CREATE TABLE IF NOT EXISTS employees (
			id TEXT PRIMARY KEY,
			employee_id TEXT UNIQUE NOT NULL,
			username TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			position TEXT NOT NULL DEFAULT '',
			department TEXT NOT NULL DEFAULT '',
			department_id TEXT NOT NULL DEFAULT '',
			hire_date TEXT NOT NULL DEFAULT '',
			salary INT NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'active',
			contract_type TEXT NOT NULL DEFAULT '',
			work_type TEXT NOT NULL DEFAULT '',
			supervisor TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS attendance (
			id TEXT PRIMARY KEY,
			employee_id TEXT NOT NULL,
			date TEXT NOT NULL,
			check_in TEXT NOT NULL DEFAULT '',
			check_out TEXT NOT NULL DEFAULT '',
			work_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
			overtime_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'normal',
			note TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (employee_id, date)
		)`,
		`CREATE TABLE IF NOT EXISTS leaves (
			id TEXT PRIMARY KEY,
			employee_id TEXT NOT NULL,
			employee_name TEXT NOT NULL DEFAULT '',
			leave_type TEXT NOT NULL DEFAULT '',
			start_date TEXT NOT NULL,
			end_date TEXT NOT NULL,
			total_days INT NOT NULL DEFAULT 0,
			reason TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending',
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			approved_by TEXT,
			approved_at TIMESTAMPTZ,
			note TEXT NOT NULL DEFAULT ''
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

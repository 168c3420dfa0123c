package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campushq/campus-admin-api/internal/ledger"
	"github.com/campushq/campus-admin-api/internal/models"
	"github.com/campushq/campus-admin-api/internal/store"
)

const bookColumns = `id, title, author, publisher, isbn, category, location,
	total_copies, available_copies, status, description, publish_year`

// ListBooks searches the catalog with a free-text query over title,
// author, category and ISBN. An empty query returns everything.
func (s *Store) ListBooks(ctx context.Context, query string) ([]models.Book, error) {
	sqlQuery := fmt.Sprintf(`SELECT %s FROM books ORDER BY title`, bookColumns)
	args := []interface{}{}
	if query != "" {
		sqlQuery = fmt.Sprintf(`SELECT %s FROM books
			WHERE title ILIKE $1 OR author ILIKE $1 OR category ILIKE $1 OR isbn LIKE $2
			ORDER BY title`, bookColumns)
		args = append(args, "%"+query+"%", "%"+query+"%")
	}
	var books []models.Book
	if err := s.db.SelectContext(ctx, &books, sqlQuery, args...); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// GetBook looks a book up by id.
func (s *Store) GetBook(ctx context.Context, id string) (*models.Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books WHERE id = $1`, bookColumns)
	var book models.Book
	if err := s.db.GetContext(ctx, &book, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &book, nil
}

// AdjustBookCopies changes available copies under a row lock. Lent
// copies act as the occupancy counter against total copies, so the
// ledger sees a positive delta on borrow and a negative one on return.
func (s *Store) AdjustBookCopies(ctx context.Context, id string, delta int) (*models.Book, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin adjust copies: %w", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`SELECT %s FROM books WHERE id = $1 FOR UPDATE`, bookColumns)
	var book models.Book
	if err := tx.GetContext(ctx, &book, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("lock book: %w", err)
	}

	lent := book.TotalCopies - book.AvailableCopies
	occupancy, avail := ledger.Adjust(lent, book.TotalCopies, -delta)
	book.AvailableCopies = book.TotalCopies - occupancy
	book.Status = models.BookStatus(ledger.Transition(
		string(book.Status),
		string(models.BookStatusAvailable),
		string(models.BookStatusFullyLent),
		avail,
	))

	const update = `UPDATE books SET available_copies = $2, status = $3 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, update, id, book.AvailableCopies, book.Status); err != nil {
		return nil, fmt.Errorf("update book copies: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit adjust copies: %w", err)
	}
	return &book, nil
}

// GetActiveLoan returns the in-flight loan for one user and book.
func (s *Store) GetActiveLoan(ctx context.Context, userID, bookID string) (*models.Loan, error) {
	const query = `SELECT id, user_id, book_id, borrow_date, due_date, status, renew_count, return_date
		FROM loans WHERE user_id = $1 AND book_id = $2 AND status = $3`
	var loan models.Loan
	if err := s.db.GetContext(ctx, &loan, query, userID, bookID, models.LoanStatusBorrowed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get active loan: %w", err)
	}
	return &loan, nil
}

// CountActiveLoans counts a user's in-flight loans.
func (s *Store) CountActiveLoans(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM loans WHERE user_id = $1 AND status = $2`
	var count int
	if err := s.db.GetContext(ctx, &count, query, userID, models.LoanStatusBorrowed); err != nil {
		return 0, fmt.Errorf("count active loans: %w", err)
	}
	return count, nil
}

// CreateLoan persists a new loan record.
func (s *Store) CreateLoan(ctx context.Context, loan *models.Loan) error {
	const query = `INSERT INTO loans (id, user_id, book_id, borrow_date, due_date, status, renew_count, return_date)
		VALUES (:id, :user_id, :book_id, :borrow_date, :due_date, :status, :renew_count, :return_date)`
	if _, err := s.db.NamedExecContext(ctx, query, loan); err != nil {
		return fmt.Errorf("create loan: %w", err)
	}
	return nil
}

// UpdateLoan rewrites an existing loan by id.
func (s *Store) UpdateLoan(ctx context.Context, loan *models.Loan) error {
	const query = `UPDATE loans SET due_date = :due_date, status = :status,
		renew_count = :renew_count, return_date = :return_date WHERE id = :id`
	res, err := s.db.NamedExecContext(ctx, query, loan)
	if err != nil {
		return fmt.Errorf("update loan: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListLoans returns a user's loans, optionally only in-flight ones,
// newest borrow first.
func (s *Store) ListLoans(ctx context.Context, userID string, activeOnly bool) ([]models.Loan, error) {
	query := `SELECT id, user_id, book_id, borrow_date, due_date, status, renew_count, return_date
		FROM loans WHERE user_id = $1`
	args := []interface{}{userID}
	if activeOnly {
		query += " AND status = $2"
		args = append(args, models.LoanStatusBorrowed)
	}
	query += " ORDER BY borrow_date DESC"
	var loans []models.Loan
	if err := s.db.SelectContext(ctx, &loans, query, args...); err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	return loans, nil
}

// GetActiveReservation returns the waiting reservation for one user and
// book.
func (s *Store) GetActiveReservation(ctx context.Context, userID, bookID string) (*models.Reservation, error) {
	const query = `SELECT id, user_id, book_id, reserve_date, estimated_date, status, notified
		FROM reservations WHERE user_id = $1 AND book_id = $2 AND status = $3`
	var res models.Reservation
	if err := s.db.GetContext(ctx, &res, query, userID, bookID, models.ReservationStatusWaiting); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get active reservation: %w", err)
	}
	return &res, nil
}

// CreateReservation persists a new waiting-list entry.
func (s *Store) CreateReservation(ctx context.Context, res *models.Reservation) error {
	const query = `INSERT INTO reservations (id, user_id, book_id, reserve_date, estimated_date, status, notified)
		VALUES (:id, :user_id, :book_id, :reserve_date, :estimated_date, :status, :notified)`
	if _, err := s.db.NamedExecContext(ctx, query, res); err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

// UpdateReservation rewrites an existing reservation by id.
func (s *Store) UpdateReservation(ctx context.Context, res *models.Reservation) error {
	const query = `UPDATE reservations SET status = :status, notified = :notified,
		estimated_date = :estimated_date WHERE id = :id`
	result, err := s.db.NamedExecContext(ctx, query, res)
	if err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListReservations returns a user's waiting reservations, oldest first.
func (s *Store) ListReservations(ctx context.Context, userID string) ([]models.Reservation, error) {
	const query = `SELECT id, user_id, book_id, reserve_date, estimated_date, status, notified
		FROM reservations WHERE user_id = $1 AND status = $2 ORDER BY reserve_date`
	var reservations []models.Reservation
	if err := s.db.SelectContext(ctx, &reservations, query, userID, models.ReservationStatusWaiting); err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return reservations, nil
}

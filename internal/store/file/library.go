package file

import (
	"context"
	"strings"

	"github.com/campushq/campus-admin-api/internal/ledger"
	"github.com/campushq/campus-admin-api/internal/models"
	"github.com/campushq/campus-admin-api/internal/store"
)

// ListBooks returns the catalog, filtered by a free-text query when one
// is given.
func (s *Store) ListBooks(ctx context.Context, query string) ([]models.Book, error) {
	s.locks[colBooks].RLock()
	defer s.locks[colBooks].RUnlock()

	var books []models.Book
	if err := s.read(colBooks, &books); err != nil {
		return nil, err
	}
	if query == "" {
		return books, nil
	}
	term := strings.ToLower(query)
	filtered := make([]models.Book, 0, len(books))
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.Title), term) ||
			strings.Contains(strings.ToLower(b.Author), term) ||
			strings.Contains(strings.ToLower(b.Category), term) ||
			strings.Contains(b.ISBN, query) {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

// GetBook looks a book up by id.
func (s *Store) GetBook(ctx context.Context, id string) (*models.Book, error) {
	s.locks[colBooks].RLock()
	defer s.locks[colBooks].RUnlock()

	var books []models.Book
	if err := s.read(colBooks, &books); err != nil {
		return nil, err
	}
	for i := range books {
		if books[i].ID == id {
			b := books[i]
			return &b, nil
		}
	}
	return nil, store.ErrNotFound
}

// AdjustBookCopies applies the capacity ledger to available copies. The
// ledger counts occupancy (lent copies), so the delta is inverted here:
// lending one copy raises occupancy and lowers availability.
func (s *Store) AdjustBookCopies(ctx context.Context, id string, delta int) (*models.Book, error) {
	s.locks[colBooks].Lock()
	defer s.locks[colBooks].Unlock()

	var books []models.Book
	if err := s.read(colBooks, &books); err != nil {
		return nil, err
	}
	for i := range books {
		if books[i].ID != id {
			continue
		}
		lent := books[i].TotalCopies - books[i].AvailableCopies
		occ, avail := ledger.Adjust(lent, books[i].TotalCopies, -delta)
		books[i].AvailableCopies = books[i].TotalCopies - occ
		books[i].Status = models.BookStatus(ledger.Transition(
			string(books[i].Status),
			string(models.BookStatusAvailable),
			string(models.BookStatusFullyLent),
			avail,
		))
		if err := s.write(colBooks, books); err != nil {
			return nil, err
		}
		b := books[i]
		return &b, nil
	}
	return nil, store.ErrNotFound
}

// GetActiveLoan finds the borrowed-state loan for a (user, book) pair.
func (s *Store) GetActiveLoan(ctx context.Context, userID, bookID string) (*models.Loan, error) {
	s.locks[colLoans].RLock()
	defer s.locks[colLoans].RUnlock()

	var loans []models.Loan
	if err := s.read(colLoans, &loans); err != nil {
		return nil, err
	}
	for i := range loans {
		if loans[i].UserID == userID && loans[i].BookID == bookID && loans[i].Status == models.LoanStatusBorrowed {
			l := loans[i]
			return &l, nil
		}
	}
	return nil, store.ErrNotFound
}

// CountActiveLoans counts a user's borrowed-state loans.
func (s *Store) CountActiveLoans(ctx context.Context, userID string) (int, error) {
	s.locks[colLoans].RLock()
	defer s.locks[colLoans].RUnlock()

	var loans []models.Loan
	if err := s.read(colLoans, &loans); err != nil {
		return 0, err
	}
	count := 0
	for _, l := range loans {
		if l.UserID == userID && l.Status == models.LoanStatusBorrowed {
			count++
		}
	}
	return count, nil
}

// CreateLoan appends a loan record.
func (s *Store) CreateLoan(ctx context.Context, loan *models.Loan) error {
	s.locks[colLoans].Lock()
	defer s.locks[colLoans].Unlock()

	var loans []models.Loan
	if err := s.read(colLoans, &loans); err != nil {
		return err
	}
	loans = append(loans, *loan)
	return s.write(colLoans, loans)
}

// UpdateLoan rewrites an existing loan record by id.
func (s *Store) UpdateLoan(ctx context.Context, loan *models.Loan) error {
	s.locks[colLoans].Lock()
	defer s.locks[colLoans].Unlock()

	var loans []models.Loan
	if err := s.read(colLoans, &loans); err != nil {
		return err
	}
	for i := range loans {
		if loans[i].ID == loan.ID {
			loans[i] = *loan
			return s.write(colLoans, loans)
		}
	}
	return store.ErrNotFound
}

// ListLoans returns a user's loans, optionally only active ones.
func (s *Store) ListLoans(ctx context.Context, userID string, activeOnly bool) ([]models.Loan, error) {
	s.locks[colLoans].RLock()
	defer s.locks[colLoans].RUnlock()

	var loans []models.Loan
	if err := s.read(colLoans, &loans); err != nil {
		return nil, err
	}
	result := make([]models.Loan, 0, len(loans))
	for _, l := range loans {
		if l.UserID != userID {
			continue
		}
		if activeOnly && l.Status != models.LoanStatusBorrowed {
			continue
		}
		result = append(result, l)
	}
	return result, nil
}

// GetActiveReservation finds the waiting reservation for a (user, book)
// pair.
func (s *Store) GetActiveReservation(ctx context.Context, userID, bookID string) (*models.Reservation, error) {
	s.locks[colReservations].RLock()
	defer s.locks[colReservations].RUnlock()

	var reservations []models.Reservation
	if err := s.read(colReservations, &reservations); err != nil {
		return nil, err
	}
	for i := range reservations {
		if reservations[i].UserID == userID && reservations[i].BookID == bookID && reservations[i].Status == models.ReservationStatusWaiting {
			r := reservations[i]
			return &r, nil
		}
	}
	return nil, store.ErrNotFound
}

// CreateReservation appends a reservation record.
func (s *Store) CreateReservation(ctx context.Context, res *models.Reservation) error {
	s.locks[colReservations].Lock()
	defer s.locks[colReservations].Unlock()

	var reservations []models.Reservation
	if err := s.read(colReservations, &reservations); err != nil {
		return err
	}
	reservations = append(reservations, *res)
	return s.write(colReservations, reservations)
}

// UpdateReservation rewrites an existing reservation by id.
func (s *Store) UpdateReservation(ctx context.Context, res *models.Reservation) error {
	s.locks[colReservations].Lock()
	defer s.locks[colReservations].Unlock()

	var reservations []models.Reservation
	if err := s.read(colReservations, &reservations); err != nil {
		return err
	}
	for i := range reservations {
		if reservations[i].ID == res.ID {
			reservations[i] = *res
			return s.write(colReservations, reservations)
		}
	}
	return store.ErrNotFound
}

// ListReservations returns a user's waiting reservations.
func (s *Store) ListReservations(ctx context.Context, userID string) ([]models.Reservation, error) {
	s.locks[colReservations].RLock()
	defer s.locks[colReservations].RUnlock()

	var reservations []models.Reservation
	if err := s.read(colReservations, &reservations); err != nil {
		return nil, err
	}
	result := make([]models.Reservation, 0, len(reservations))
	for _, r := range reservations {
		if r.UserID == userID && r.Status == models.ReservationStatusWaiting {
			result = append(result, r)
		}
	}
	return result, nil
}

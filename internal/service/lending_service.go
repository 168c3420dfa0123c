package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campushq/campus-admin-api/internal/ledger"
	"github.com/campushq/campus-admin-api/internal/models"
	"github.com/campushq/campus-admin-api/internal/store"
	"github.com/campushq/campus-admin-api/pkg/config"
	appErrors "github.com/campushq/campus-admin-api/pkg/errors"
)

type libraryStore interface {
	ListBooks(ctx context.Context, query string) ([]models.Book, error)
	GetBook(ctx context.Context, id string) (*models.Book, error)
	AdjustBookCopies(ctx context.Context, id string, delta int) (*models.Book, error)
	GetActiveLoan(ctx context.Context, userID, bookID string) (*models.Loan, error)
	CountActiveLoans(ctx context.Context, userID string) (int, error)
	CreateLoan(ctx context.Context, loan *models.Loan) error
	UpdateLoan(ctx context.Context, loan *models.Loan) error
	ListLoans(ctx context.Context, userID string, activeOnly bool) ([]models.Loan, error)
	GetActiveReservation(ctx context.Context, userID, bookID string) (*models.Reservation, error)
	CreateReservation(ctx context.Context, res *models.Reservation) error
	UpdateReservation(ctx context.Context, res *models.Reservation) error
	ListReservations(ctx context.Context, userID string) ([]models.Reservation, error)
}

// LendingRequest targets one user and one book.
type LendingRequest struct {
	UserID string `json:"user_id" validate:"required"`
	BookID string `json:"book_id" validate:"required"`
}

// LendingService runs borrow, return, renew and reservation workflows
// against the copy ledger. Mutations serialise on the user key first
// and the book key second.
type LendingService struct {
	store     libraryStore
	policy    config.LibraryConfig
	locks     *ledger.KeyMutex
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLendingService constructs LendingService.
func NewLendingService(st libraryStore, policy config.LibraryConfig, locks *ledger.KeyMutex, validate *validator.Validate, logger *zap.Logger) *LendingService {
	if locks == nil {
		locks = ledger.NewKeyMutex()
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LendingService{store: st, policy: policy, locks: locks, validator: validate, logger: logger}
}

// Search lists books matching a free-text query. An empty query returns
// the whole catalog.
func (s *LendingService) Search(ctx context.Context, query string) ([]models.Book, error) {
	books, err := s.store.ListBooks(ctx, query)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list books")
	}
	return books, nil
}

// Book returns one catalog entry.
func (s *LendingService) Book(ctx context.Context, id string) (*models.Book, error) {
	book, err := s.store.GetBook(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "book not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load book")
	}
	return book, nil
}

// Borrow lends one copy to the user. The copy count is decremented
// before the loan record is written; if the write fails the copy is
// handed back.
func (s *LendingService) Borrow(ctx context.Context, req LendingRequest) (*models.Loan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid borrow payload")
	}

	s.lock(req)
	defer s.unlock(req)

	book, err := s.store.GetBook(ctx, req.BookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "book not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load book")
	}
	if book.AvailableCopies <= 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "no copies available")
	}

	if _, err := s.store.GetActiveLoan(ctx, req.UserID, req.BookID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "book already borrowed by user")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check active loan")
	}

	active, err := s.store.CountActiveLoans(ctx, req.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count active loans")
	}
	if active >= s.policy.MaxActiveLoans {
		return nil, appErrors.Clone(appErrors.ErrLimitExceeded, "borrowing limit reached")
	}

	if _, err := s.store.AdjustBookCopies(ctx, req.BookID, -1); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update book copies")
	}
	now := time.Now()
	loan := &models.Loan{
		ID:         uuid.NewString(),
		UserID:     req.UserID,
		BookID:     req.BookID,
		BorrowDate: now,
		DueDate:    now.Add(s.policy.LoanPeriod),
		Status:     models.LoanStatusBorrowed,
	}
	if err := s.store.CreateLoan(ctx, loan); err != nil {
		if _, restoreErr := s.store.AdjustBookCopies(ctx, req.BookID, 1); restoreErr != nil {
			s.logger.Error("failed to restore book copies after loan failure",
				zap.String("book_id", req.BookID), zap.Error(restoreErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create loan")
	}
	return loan, nil
}

// Return closes the user's active loan and hands the copy back. Waiting
// reservations are left untouched; the holder still has to borrow the
// copy explicitly.
func (s *LendingService) Return(ctx context.Context, req LendingRequest) (*models.Loan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid return payload")
	}

	s.lock(req)
	defer s.unlock(req)

	loan, err := s.store.GetActiveLoan(ctx, req.UserID, req.BookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no active loan for book")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load loan")
	}

	now := time.Now()
	loan.Status = models.LoanStatusReturned
	loan.ReturnDate = &now
	if err := s.store.UpdateLoan(ctx, loan); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to close loan")
	}
	if _, err := s.store.AdjustBookCopies(ctx, req.BookID, 1); err != nil {
		s.logger.Error("failed to restore book copies on return",
			zap.String("book_id", req.BookID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update book copies")
	}
	return loan, nil
}

// Renew extends the active loan by one loan period counted from the
// current due date, up to the renewal cap.
func (s *LendingService) Renew(ctx context.Context, req LendingRequest) (*models.Loan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid renew payload")
	}

	s.lock(req)
	defer s.unlock(req)

	loan, err := s.store.GetActiveLoan(ctx, req.UserID, req.BookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no active loan for book")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load loan")
	}
	if loan.RenewCount >= s.policy.MaxRenewals {
		return nil, appErrors.Clone(appErrors.ErrLimitExceeded, "renewal limit reached")
	}

	loan.RenewCount++
	loan.DueDate = loan.DueDate.Add(s.policy.LoanPeriod)
	if err := s.store.UpdateLoan(ctx, loan); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to renew loan")
	}
	return loan, nil
}

// Reserve joins the waiting list for a fully lent book. Reservations
// are only accepted while no copies are available.
func (s *LendingService) Reserve(ctx context.Context, req LendingRequest) (*models.Reservation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reservation payload")
	}

	s.lock(req)
	defer s.unlock(req)

	book, err := s.store.GetBook(ctx, req.BookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "book not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load book")
	}
	if book.AvailableCopies > 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "copies available, borrow instead")
	}

	if _, err := s.store.GetActiveReservation(ctx, req.UserID, req.BookID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "book already reserved by user")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check reservation")
	}

	now := time.Now()
	reservation := &models.Reservation{
		ID:            uuid.NewString(),
		UserID:        req.UserID,
		BookID:        req.BookID,
		ReserveDate:   now,
		EstimatedDate: now.Add(s.policy.ReservationLead),
		Status:        models.ReservationStatusWaiting,
	}
	if err := s.store.CreateReservation(ctx, reservation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create reservation")
	}
	return reservation, nil
}

// CancelReservation withdraws the user's waiting reservation for a book.
func (s *LendingService) CancelReservation(ctx context.Context, req LendingRequest) (*models.Reservation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid cancellation payload")
	}

	s.lock(req)
	defer s.unlock(req)

	reservation, err := s.store.GetActiveReservation(ctx, req.UserID, req.BookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no waiting reservation for book")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reservation")
	}

	reservation.Status = models.ReservationStatusCancelled
	if err := s.store.UpdateReservation(ctx, reservation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel reservation")
	}
	return reservation, nil
}

// Loans lists the user's loans with book metadata, optionally only
// in-flight ones.
func (s *LendingService) Loans(ctx context.Context, userID string, activeOnly bool) ([]models.LoanDetail, error) {
	loans, err := s.store.ListLoans(ctx, userID, activeOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list loans")
	}
	details := make([]models.LoanDetail, 0, len(loans))
	for _, loan := range loans {
		detail := models.LoanDetail{Loan: loan}
		if book, err := s.store.GetBook(ctx, loan.BookID); err == nil {
			detail.Book = book
		}
		details = append(details, detail)
	}
	return details, nil
}

// Reservations lists the user's waiting reservations with book
// metadata.
func (s *LendingService) Reservations(ctx context.Context, userID string) ([]models.ReservationDetail, error) {
	reservations, err := s.store.ListReservations(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reservations")
	}
	details := make([]models.ReservationDetail, 0, len(reservations))
	for _, reservation := range reservations {
		detail := models.ReservationDetail{Reservation: reservation}
		if book, err := s.store.GetBook(ctx, reservation.BookID); err == nil {
			detail.Book = book
		}
		details = append(details, detail)
	}
	return details, nil
}

func (s *LendingService) lock(req LendingRequest) {
	s.locks.Lock("user:" + req.UserID)
	s.locks.Lock("book:" + req.BookID)
}

func (s *LendingService) unlock(req LendingRequest) {
	s.locks.Unlock("book:" + req.BookID)
	s.locks.Unlock("user:" + req.UserID)
}

package models

import "time"

// BookStatus reflects copy availability.
type BookStatus string

const (
	BookStatusAvailable BookStatus = "available"
	BookStatusFullyLent BookStatus = "fully_lent"
)

// Book is a library title with a fixed number of physical copies.
// AvailableCopies must stay within [0, TotalCopies].
type Book struct {
	ID              string     `db:"id" json:"id"`
	Title           string     `db:"title" json:"title"`
	Author          string     `db:"author" json:"author"`
	Publisher       string     `db:"publisher" json:"publisher"`
	ISBN            string     `db:"isbn" json:"isbn"`
	Category        string     `db:"category" json:"category"`
	Location        string     `db:"location" json:"location"`
	TotalCopies     int        `db:"total_copies" json:"total_copies"`
	AvailableCopies int        `db:"available_copies" json:"available_copies"`
	Status          BookStatus `db:"status" json:"status"`
	Description     string     `db:"description" json:"description"`
	PublishYear     int        `db:"publish_year" json:"publish_year"`
}

// LoanStatus is the loan lifecycle state.
type LoanStatus string

const (
	LoanStatusBorrowed LoanStatus = "borrowed"
	LoanStatusReturned LoanStatus = "returned"
)

// Loan records one user borrowing one book copy. At most one loan per
// (user, book) pair may be in the borrowed state.
type Loan struct {
	ID         string     `db:"id" json:"id"`
	UserID     string     `db:"user_id" json:"user_id"`
	BookID     string     `db:"book_id" json:"book_id"`
	BorrowDate time.Time  `db:"borrow_date" json:"borrow_date"`
	DueDate    time.Time  `db:"due_date" json:"due_date"`
	Status     LoanStatus `db:"status" json:"status"`
	RenewCount int        `db:"renew_count" json:"renew_count"`
	ReturnDate *time.Time `db:"return_date" json:"return_date,omitempty"`
}

// LoanDetail joins loan with book metadata for listings.
type LoanDetail struct {
	Loan
	Book *Book `json:"book,omitempty"`
}

// ReservationStatus is the reservation lifecycle state.
type ReservationStatus string

const (
	ReservationStatusWaiting   ReservationStatus = "waiting"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusFulfilled ReservationStatus = "fulfilled"
)

// Reservation is a waiting-list entry created only when no copies are
// available. At most one waiting reservation per (user, book).
type Reservation struct {
	ID            string            `db:"id" json:"id"`
	UserID        string            `db:"user_id" json:"user_id"`
	BookID        string            `db:"book_id" json:"book_id"`
	ReserveDate   time.Time         `db:"reserve_date" json:"reserve_date"`
	EstimatedDate time.Time         `db:"estimated_date" json:"estimated_date"`
	Status        ReservationStatus `db:"status" json:"status"`
	Notified      bool              `db:"notified" json:"notified"`
}

// ReservationDetail joins reservation with book metadata.
type ReservationDetail struct {
	Reservation
	Book *Book `json:"book,omitempty"`
}

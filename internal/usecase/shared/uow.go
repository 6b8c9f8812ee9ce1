package shared

import (
	"context"

	"biblio-api/internal/domain/loan"
	"biblio-api/internal/domain/notification"
	"biblio-api/internal/domain/reservation"
	"biblio-api/internal/domain/user"
	"biblio-api/internal/infra/db"

	"github.com/google/uuid"
)

// UnitOfWork is the engines' only door to persistence. Each engine call is a
// single transactional read-modify-write; the postgres implementation adds
// row locks and retry, the in-memory fake used by unit tests adds neither.
type UnitOfWork interface {
	// Within runs fn in one transaction, retrying on serialization failures.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Reads gives lock-free access for validations outside a transaction.
	Reads() CommandReads
}

// Tx bundles the write-side repositories bound to one open transaction.
type Tx interface {
	Copies() CopyRepository
	Loans() LoanRepository
	Reservations() ReservationRepository
	Notifications() NotificationRepository
	Users() UserRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CopyRepository interface {
	// ClaimAvailable locks and marks borrowed the lowest-numbered available
	// copy of the book, returning it. KindNotFound when none is free.
	ClaimAvailable(ctx context.Context, bookID uuid.UUID) (*CopySnapshot, error)
	// Release puts a borrowed copy back to available.
	Release(ctx context.Context, copyID uuid.UUID) error
}

type LoanRepository interface {
	Create(ctx context.Context, l *loan.Loan) error
	// FindByIDForUpdate row-locks the loan so return/renew are serialized.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*loan.Loan, error)
	Update(ctx context.Context, l *loan.Loan) error
}

type ReservationRepository interface {
	Create(ctx context.Context, r *reservation.Reservation) error
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	// FindOldestPendingForUpdate locks the head of the book's hold queue
	// (reserved_at, id order). KindNotFound when the queue is empty.
	FindOldestPendingForUpdate(ctx context.Context, bookID uuid.UUID) (*reservation.Reservation, error)
	Update(ctx context.Context, r *reservation.Reservation) error
}

type NotificationRepository interface {
	// Create persists the notification. When it carries a DedupKey that
	// already exists, nothing is written and created is false.
	Create(ctx context.Context, n *notification.Notification) (created bool, err error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	UpdateProfile(ctx context.Context, id uuid.UUID, p ProfilePatch) error
}

// CommandReads are the lock-free lookups the engines need before or inside a
// transaction. Snapshots, not entities: the write side never mutates these.
type CommandReads interface {
	BookByID(ctx context.Context, id uuid.UUID) (*BookSnapshot, error)
	UserByID(ctx context.Context, id uuid.UUID) (*UserSnapshot, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	HasPendingReservation(ctx context.Context, userID, bookID uuid.UUID) (bool, error)
	ActiveLoanReminders(ctx context.Context) ([]*LoanReminder, error)
	FulfilledReservationReminders(ctx context.Context) ([]*ReservationReminder, error)
}

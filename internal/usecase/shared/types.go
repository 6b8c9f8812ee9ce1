package shared

import (
	"context"
	"time"

	"biblio-api/internal/domain/book"
	"biblio-api/internal/domain/user"

	"github.com/google/uuid"
)

// Actor is the authenticated caller, extracted from the JWT by middleware.
type Actor struct {
	ID   uuid.UUID
	Role user.Role
}

func (a Actor) IsLibrarian() bool {
	return a.Role == user.RoleLibrarian
}

// CanActFor reports whether the actor may operate on ownerID's records.
// Librarians may act for anyone.
func (a Actor) CanActFor(ownerID uuid.UUID) bool {
	return a.ID == ownerID || a.IsLibrarian()
}

type BookSnapshot struct {
	ID     uuid.UUID
	Title  string
	Author string
	Genre  string
	Type   book.Type
}

type CopySnapshot struct {
	ID         uuid.UUID
	BookID     uuid.UUID
	CopyNumber int
	Status     book.CopyStatus
}

type UserSnapshot struct {
	ID        uuid.UUID
	Email     string
	Name      string
	Role      user.Role
	Grade     string
	AvatarURL string
}

// ProfilePatch carries the optional profile fields; nil means unchanged.
type ProfilePatch struct {
	Name      *string
	Grade     *string
	AvatarURL *string
}

// LoanReminder is a sweep row: an active loan joined with the book and
// borrower fields the notices and emails need.
type LoanReminder struct {
	LoanID    uuid.UUID
	BookID    uuid.UUID
	UserID    uuid.UUID
	DueDate   time.Time
	BookTitle string
	UserName  string
	UserEmail string
}

// ReservationReminder is a sweep row for fulfilled reservations whose pickup
// notice may not have been delivered yet.
type ReservationReminder struct {
	ReservationID uuid.UUID
	BookID        uuid.UUID
	UserID        uuid.UUID
	BookTitle     string
	UserName      string
	UserEmail     string
}

type Email struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers best-effort email. Engines call it after commit; a failed
// send is logged by the implementation and never fails the operation.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

package reservation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrClosed = errors.New("reservation is no longer pending")

type Status string

const (
	StatusPending   Status = "pending"
	StatusFulfilled Status = "fulfilled"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusFulfilled, StatusCancelled:
		return true
	default:
		return false
	}
}

// Reservation is a hold request on a Book (not a specific Copy). It is
// created pending regardless of current availability (hold-queue semantics,
// not backorder semantics) and is terminal once fulfilled or cancelled.
type Reservation struct {
	id         uuid.UUID
	bookID     uuid.UUID
	userID     uuid.UUID
	reservedAt time.Time
	status     Status
}

func NewReservation(bookID, userID uuid.UUID, now time.Time) *Reservation {
	return &Reservation{
		id:         uuid.New(),
		bookID:     bookID,
		userID:     userID,
		reservedAt: now,
		status:     StatusPending,
	}
}

func Reconstruct(id, bookID, userID uuid.UUID, reservedAt time.Time, status Status) *Reservation {
	return &Reservation{
		id:         id,
		bookID:     bookID,
		userID:     userID,
		reservedAt: reservedAt,
		status:     status,
	}
}

func (r *Reservation) Fulfill() error {
	if r.status != StatusPending {
		return ErrClosed
	}
	r.status = StatusFulfilled
	return nil
}

func (r *Reservation) Cancel() error {
	if r.status != StatusPending {
		return ErrClosed
	}
	r.status = StatusCancelled
	return nil
}

func (r *Reservation) IsPending() bool {
	return r.status == StatusPending
}

func (r *Reservation) ID() uuid.UUID         { return r.id }
func (r *Reservation) BookID() uuid.UUID     { return r.bookID }
func (r *Reservation) UserID() uuid.UUID     { return r.userID }
func (r *Reservation) ReservedAt() time.Time { return r.reservedAt }
func (r *Reservation) Status() Status        { return r.status }

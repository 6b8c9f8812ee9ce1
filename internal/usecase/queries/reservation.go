package queries

import (
	"context"

	"github.com/google/uuid"
)

type ReservationQueries interface {
	ListByUser(ctx context.Context, userID uuid.UUID, pendingOnly bool) ([]*ReservationView, error)
	ListAll(ctx context.Context, pendingOnly bool) ([]*ReservationView, error)
}

type ReservationViewRepo interface {
	FindByUserID(ctx context.Context, userID uuid.UUID, pendingOnly bool) ([]*ReservationView, error)
	FindAll(ctx context.Context, pendingOnly bool) ([]*ReservationView, error)
}

type reservationQueriesImpl struct {
	repo ReservationViewRepo
}

func NewReservationQueries(repo ReservationViewRepo) ReservationQueries {
	return &reservationQueriesImpl{repo: repo}
}

func (q *reservationQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, pendingOnly bool) ([]*ReservationView, error) {
	return q.repo.FindByUserID(ctx, userID, pendingOnly)
}

func (q *reservationQueriesImpl) ListAll(ctx context.Context, pendingOnly bool) ([]*ReservationView, error) {
	return q.repo.FindAll(ctx, pendingOnly)
}

package repository

import (
	"context"
	"errors"
	"time"

	"biblio-api/internal/domain/reservation"
	"biblio-api/internal/infra"
	"biblio-api/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgErrCodeUniqueViolation = "23505"

type ReservationRepository struct {
	db db.DBTX
}

func NewReservationRepository(dbtx db.DBTX) *ReservationRepository {
	return &ReservationRepository{db: dbtx}
}

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	const query = `
		INSERT INTO reservations (id, book_id, user_id, reserved_at, status)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query,
		res.ID(), res.BookID(), res.UserID(), res.ReservedAt(), res.Status().String(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation {
			return infra.WrapRepoErr("pending reservation already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	const query = `
		SELECT id, book_id, user_id, reserved_at, status
		FROM reservations
		WHERE id = $1
		FOR UPDATE`

	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

// FindOldestPendingForUpdate locks the head of the book's hold queue.
// Plain FOR UPDATE, not SKIP LOCKED: concurrent returns of the same book
// must serialize on the queue head so only one fulfills it.
func (r *ReservationRepository) FindOldestPendingForUpdate(ctx context.Context, bookID uuid.UUID) (*reservation.Reservation, error) {
	const query = `
		SELECT id, book_id, user_id, reserved_at, status
		FROM reservations
		WHERE book_id = $1 AND status = 'pending'
		ORDER BY reserved_at, id
		LIMIT 1
		FOR UPDATE`

	return r.scanOne(r.db.QueryRow(ctx, query, bookID))
}

func (r *ReservationRepository) Update(ctx context.Context, res *reservation.Reservation) error {
	const query = `UPDATE reservations SET status = $2 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, res.ID(), res.Status().String())
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ReservationRepository) scanOne(row pgx.Row) (*reservation.Reservation, error) {
	var (
		id, bookID, userID uuid.UUID
		reservedAt         time.Time
		status             string
	)
	if err := row.Scan(&id, &bookID, &userID, &reservedAt, &status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}
	return reservation.Reconstruct(id, bookID, userID, reservedAt, reservation.Status(status)), nil
}

package readstore

import (
	"context"

	"biblio-api/internal/infra"
	"biblio-api/internal/infra/db"
	"biblio-api/internal/usecase/queries"
	"biblio-api/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ReservationReadStore struct {
	db db.DBTX
}

func NewReservationReadStore(dbtx db.DBTX) *ReservationReadStore {
	return &ReservationReadStore{db: dbtx}
}

const reservationViewSelect = `
	SELECT r.id, r.book_id, b.title, b.cover_url, r.user_id, u.name, r.reserved_at, r.status
	FROM reservations r
	JOIN books b ON b.id = r.book_id
	JOIN users u ON u.id = r.user_id`

func (r *ReservationReadStore) FindByUserID(ctx context.Context, userID uuid.UUID, pendingOnly bool) ([]*queries.ReservationView, error) {
	query := reservationViewSelect + `
	WHERE r.user_id = $1`
	if pendingOnly {
		query += ` AND r.status = 'pending'`
	}
	query += `
	ORDER BY r.reserved_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations by user", err)
	}
	defer rows.Close()

	return scanReservationViews(rows)
}

func (r *ReservationReadStore) FindAll(ctx context.Context, pendingOnly bool) ([]*queries.ReservationView, error) {
	query := reservationViewSelect
	if pendingOnly {
		query += `
	WHERE r.status = 'pending'`
	}
	query += `
	ORDER BY r.reserved_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	defer rows.Close()

	return scanReservationViews(rows)
}

func (r *ReservationReadStore) HasPending(ctx context.Context, userID, bookID uuid.UUID) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE user_id = $1 AND book_id = $2 AND status = 'pending'
		)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, bookID).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check pending reservation", err)
	}
	return exists, nil
}

// FulfilledReminders feeds the sweep's pickup notices.
func (r *ReservationReadStore) FulfilledReminders(ctx context.Context) ([]*shared.ReservationReminder, error) {
	const query = `
		SELECT r.id, r.book_id, r.user_id, b.title, u.name, u.email
		FROM reservations r
		JOIN books b ON b.id = r.book_id
		JOIN users u ON u.id = r.user_id
		WHERE r.status = 'fulfilled'
		ORDER BY r.reserved_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservation reminders", err)
	}
	defer rows.Close()

	var reminders []*shared.ReservationReminder
	for rows.Next() {
		rem := &shared.ReservationReminder{}
		err := rows.Scan(&rem.ReservationID, &rem.BookID, &rem.UserID,
			&rem.BookTitle, &rem.UserName, &rem.UserEmail)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation reminder", err)
		}
		reminders = append(reminders, rem)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read reservation reminders", err)
	}
	return reminders, nil
}

func scanReservationViews(rows pgx.Rows) ([]*queries.ReservationView, error) {
	var views []*queries.ReservationView
	for rows.Next() {
		v := &queries.ReservationView{}
		err := rows.Scan(&v.ID, &v.BookID, &v.BookTitle, &v.CoverURL,
			&v.UserID, &v.UserName, &v.ReservedAt, &v.Status)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation row", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read reservation rows", err)
	}
	return views, nil
}

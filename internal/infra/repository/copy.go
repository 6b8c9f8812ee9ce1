package repository

import (
	"context"
	"errors"

	"biblio-api/internal/domain/book"
	"biblio-api/internal/infra"
	"biblio-api/internal/infra/db"
	"biblio-api/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CopyRepository struct {
	db db.DBTX
}

func NewCopyRepository(dbtx db.DBTX) *CopyRepository {
	return &CopyRepository{db: dbtx}
}

// ClaimAvailable picks the lowest-numbered free copy and flips it to borrowed
// in one statement pair. SKIP LOCKED lets two concurrent borrows of a
// two-copy book each take their own copy instead of queueing on the first.
func (r *CopyRepository) ClaimAvailable(ctx context.Context, bookID uuid.UUID) (*shared.CopySnapshot, error) {
	const selectSQL = `
		SELECT id, book_id, copy_number
		FROM copies
		WHERE book_id = $1 AND status = 'available'
		ORDER BY copy_number
		LIMIT 1
		FOR UPDATE SKIP LOCKED`

	var snap shared.CopySnapshot
	err := r.db.QueryRow(ctx, selectSQL, bookID).Scan(&snap.ID, &snap.BookID, &snap.CopyNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("no available copy", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to select available copy", err)
	}

	const updateSQL = `UPDATE copies SET status = 'borrowed' WHERE id = $1`
	if _, err := r.db.Exec(ctx, updateSQL, snap.ID); err != nil {
		return nil, infra.WrapRepoErr("failed to mark copy borrowed", err)
	}

	snap.Status = book.CopyBorrowed
	return &snap, nil
}

func (r *CopyRepository) Release(ctx context.Context, copyID uuid.UUID) error {
	const query = `UPDATE copies SET status = 'available' WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, copyID)
	if err != nil {
		return infra.WrapRepoErr("failed to release copy", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("copy not found", nil, infra.KindNotFound)
	}
	return nil
}

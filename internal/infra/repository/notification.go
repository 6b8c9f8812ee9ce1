package repository

import (
	"context"

	"biblio-api/internal/domain/notification"
	"biblio-api/internal/infra"
	"biblio-api/internal/infra/db"

	"github.com/google/uuid"
)

type NotificationRepository struct {
	db db.DBTX
}

func NewNotificationRepository(dbtx db.DBTX) *NotificationRepository {
	return &NotificationRepository{db: dbtx}
}

// Create inserts the notification. Deduped notices ride the partial unique
// indexes with ON CONFLICT DO NOTHING; a skipped insert reports created=false
// and no error.
func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) (bool, error) {
	const query = `
		INSERT INTO notifications (id, user_id, severity, message, read, created_at, dedup_book_id, dedup_kind, dedup_loan_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT DO NOTHING`

	var (
		dedupBookID *uuid.UUID
		dedupKind   *string
		dedupLoanID *uuid.UUID
	)
	if d := n.Dedup(); d != nil {
		bookID := d.BookID
		kind := string(d.Kind)
		dedupBookID = &bookID
		dedupKind = &kind
		dedupLoanID = d.LoanID
	}

	tag, err := r.db.Exec(ctx, query,
		n.ID(), n.UserID(), n.Severity().String(), n.Message(), n.Read(), n.CreatedAt(),
		dedupBookID, dedupKind, dedupLoanID,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to create notification", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	const query = `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return infra.WrapRepoErr("failed to mark notification read", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("notification not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	const query = `UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`

	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return infra.WrapRepoErr("failed to mark notifications read", err)
	}
	return nil
}

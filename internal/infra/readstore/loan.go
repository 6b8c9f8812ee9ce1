package readstore

import (
	"context"
	"errors"
	"time"

	"biblio-api/internal/infra"
	"biblio-api/internal/infra/db"
	"biblio-api/internal/usecase/queries"
	"biblio-api/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type LoanReadStore struct {
	db db.DBTX
}

func NewLoanReadStore(dbtx db.DBTX) *LoanReadStore {
	return &LoanReadStore{db: dbtx}
}

const loanViewSelect = `
	SELECT l.id, l.book_id, b.title, b.type, l.copy_id, c.copy_number,
	       l.user_id, u.name, l.loan_date, l.due_date, l.status, l.return_date, l.renewal_count
	FROM loans l
	JOIN books b ON b.id = l.book_id
	JOIN copies c ON c.id = l.copy_id
	JOIN users u ON u.id = l.user_id`

func (r *LoanReadStore) FindByUserID(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*queries.LoanView, error) {
	query := loanViewSelect + `
	WHERE l.user_id = $1`
	if activeOnly {
		query += ` AND l.status = 'active'`
	}
	query += `
	ORDER BY l.loan_date DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list loans by user", err)
	}
	defer rows.Close()

	return scanLoanViews(rows)
}

func (r *LoanReadStore) FindAll(ctx context.Context, activeOnly bool) ([]*queries.LoanView, error) {
	query := loanViewSelect
	if activeOnly {
		query += `
	WHERE l.status = 'active'`
	}
	query += `
	ORDER BY l.loan_date DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list loans", err)
	}
	defer rows.Close()

	return scanLoanViews(rows)
}

func (r *LoanReadStore) FindOverdue(ctx context.Context, now time.Time) ([]*queries.LoanView, error) {
	query := loanViewSelect + `
	WHERE l.status = 'active' AND l.due_date < $1
	ORDER BY l.due_date`

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list overdue loans", err)
	}
	defer rows.Close()

	return scanLoanViews(rows)
}

func (r *LoanReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.LoanView, error) {
	query := loanViewSelect + `
	WHERE l.id = $1`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find loan", err)
	}
	defer rows.Close()

	views, err := scanLoanViews(rows)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, infra.WrapRepoErr("loan not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return views[0], nil
}

// ActiveReminders feeds the notification sweep: every active loan with the
// book and borrower fields the notices need.
func (r *LoanReadStore) ActiveReminders(ctx context.Context) ([]*shared.LoanReminder, error) {
	const query = `
		SELECT l.id, l.book_id, l.user_id, l.due_date, b.title, u.name, u.email
		FROM loans l
		JOIN books b ON b.id = l.book_id
		JOIN users u ON u.id = l.user_id
		WHERE l.status = 'active'
		ORDER BY l.due_date`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list loan reminders", err)
	}
	defer rows.Close()

	var reminders []*shared.LoanReminder
	for rows.Next() {
		rem := &shared.LoanReminder{}
		err := rows.Scan(&rem.LoanID, &rem.BookID, &rem.UserID, &rem.DueDate,
			&rem.BookTitle, &rem.UserName, &rem.UserEmail)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan loan reminder", err)
		}
		reminders = append(reminders, rem)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read loan reminders", err)
	}
	return reminders, nil
}

func scanLoanViews(rows pgx.Rows) ([]*queries.LoanView, error) {
	var views []*queries.LoanView
	for rows.Next() {
		v := &queries.LoanView{}
		err := rows.Scan(
			&v.ID, &v.BookID, &v.BookTitle, &v.BookType, &v.CopyID, &v.CopyNumber,
			&v.UserID, &v.UserName, &v.LoanDate, &v.DueDate, &v.Status, &v.ReturnDate, &v.RenewalCount,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan loan row", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read loan rows", err)
	}
	return views, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

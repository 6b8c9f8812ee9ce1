package repository

import (
	"context"
	"errors"
	"time"

	"biblio-api/internal/domain/loan"
	"biblio-api/internal/infra"
	"biblio-api/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type LoanRepository struct {
	db db.DBTX
}

func NewLoanRepository(dbtx db.DBTX) *LoanRepository {
	return &LoanRepository{db: dbtx}
}

func (r *LoanRepository) Create(ctx context.Context, l *loan.Loan) error {
	const query = `
		INSERT INTO loans (id, copy_id, book_id, user_id, loan_date, due_date, status, return_date, renewal_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		l.ID(), l.CopyID(), l.BookID(), l.UserID(),
		l.LoanDate(), l.DueDate(), l.Status().String(), l.ReturnDate(), l.RenewalCount(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create loan", err)
	}
	return nil
}

func (r *LoanRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*loan.Loan, error) {
	const query = `
		SELECT id, copy_id, book_id, user_id, loan_date, due_date, status, return_date, renewal_count
		FROM loans
		WHERE id = $1
		FOR UPDATE`

	var (
		loanID, copyID, bookID, userID uuid.UUID
		loanDate, dueDate              time.Time
		status                         string
		returnDate                     *time.Time
		renewalCount                   int
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&loanID, &copyID, &bookID, &userID,
		&loanDate, &dueDate, &status, &returnDate, &renewalCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("loan not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find loan", err)
	}

	return loan.Reconstruct(
		loanID, copyID, bookID, userID,
		loanDate, dueDate, loan.Status(status), returnDate, renewalCount,
	), nil
}

func (r *LoanRepository) Update(ctx context.Context, l *loan.Loan) error {
	const query = `
		UPDATE loans
		SET due_date = $2, status = $3, return_date = $4, renewal_count = $5
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		l.ID(), l.DueDate(), l.Status().String(), l.ReturnDate(), l.RenewalCount(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update loan", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("loan not found", nil, infra.KindNotFound)
	}
	return nil
}

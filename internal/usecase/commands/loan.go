package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"biblio-api/internal/domain/loan"
	"biblio-api/internal/domain/notification"
	"biblio-api/internal/infra"
	"biblio-api/internal/pkg/clock"
	"biblio-api/internal/pkg/errs"
	"biblio-api/internal/usecase/shared"

	"github.com/google/uuid"
)

type BorrowResult struct {
	LoanID     uuid.UUID
	CopyID     uuid.UUID
	CopyNumber int
	BookTitle  string
	DueDate    time.Time
}

type ReturnResult struct {
	DaysLate int
	Message  string
}

type RenewResult struct {
	NewDueDate time.Time
}

type LoanCommands interface {
	Borrow(ctx context.Context, actor shared.Actor, bookID uuid.UUID) (*BorrowResult, error)
	Return(ctx context.Context, actor shared.Actor, loanID uuid.UUID) (*ReturnResult, error)
	Renew(ctx context.Context, actor shared.Actor, loanID uuid.UUID) (*RenewResult, error)
}

type loanUseCaseImpl struct {
	uow    shared.UnitOfWork
	mailer shared.Mailer
	clock  clock.Clock
}

func NewLoanUseCase(uow shared.UnitOfWork, mailer shared.Mailer, clock clock.Clock) LoanCommands {
	return &loanUseCaseImpl{
		uow:    uow,
		mailer: mailer,
		clock:  clock,
	}
}

// Borrow claims the lowest-numbered available copy of the book for the actor.
// The copy claim, the loan insert and the confirmation notification share one
// transaction; the email goes out only after commit.
func (u *loanUseCaseImpl) Borrow(ctx context.Context, actor shared.Actor, bookID uuid.UUID) (*BorrowResult, error) {
	now := u.clock.Now()

	var (
		result *BorrowResult
		email  *shared.Email
	)
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		book, err := tx.Reads().BookByID(ctx, bookID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrBookNotFound
			}
			return errs.Mark(err, errs.ErrStorageFailure)
		}

		copySnap, err := tx.Copies().ClaimAvailable(ctx, bookID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrNoCopyAvailable
			}
			return errs.Mark(err, errs.ErrStorageFailure)
		}

		newLoan := loan.NewLoan(copySnap.ID, bookID, actor.ID, now, book.Type.LoanPeriod())
		if err := tx.Loans().Create(ctx, newLoan); err != nil {
			return errs.Mark(err, errs.ErrStorageFailure)
		}

		notice := notification.New(actor.ID, notification.SeveritySuccess,
			borrowMessage(book.Title, newLoan.DueDate()), now)
		if _, err := tx.Notifications().Create(ctx, notice); err != nil {
			return errs.Mark(err, errs.ErrStorageFailure)
		}

		borrower, err := tx.Reads().UserByID(ctx, actor.ID)
		if err != nil {
			return errs.Mark(err, errs.ErrStorageFailure)
		}

		e := borrowEmail(borrower.Email, borrower.Name, book.Title, newLoan.DueDate())
		email = &e
		result = &BorrowResult{
			LoanID:     newLoan.ID(),
			CopyID:     copySnap.ID,
			CopyNumber: copySnap.CopyNumber,
			BookTitle:  book.Title,
			DueDate:    newLoan.DueDate(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.sendBestEffort(ctx, *email)
	return result, nil
}

// Return closes the loan, frees the copy and hands the book to the oldest
// pending reservation, all in one transaction. The reserver gets an in-app
// notification only; the pickup email is delivered later by the sweep.
func (u *loanUseCaseImpl) Return(ctx context.Context, actor shared.Actor, loanID uuid.UUID) (*ReturnResult, error) {
	now := u.clock.Now()

	var (
		result *ReturnResult
		email  *shared.Email
	)
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		target, err := tx.Loans().FindByIDForUpdate(ctx, loanID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrLoanNotFound
			}
			return errs.Mark(err, errs.ErrStorageFailure)
		}
		if !actor.CanActFor(target.UserID()) {
			return errs.ErrForbidden
		}

		daysLate, err := target.Return(now)
		if err != nil {
			return errs.ErrLoanAlreadyReturned
		}
		if err := tx.Loans().Update(ctx, target); err != nil {
			return errs.Mark(err, errs.ErrStorageFailure)
		}
		if err := tx.Copies().Release(ctx, target.CopyID()); err != nil {
			return errs.Mark(err, errs.ErrStorageFailure)
		}

		book, err := tx.Reads().BookByID(ctx, target.BookID())
		if err != nil {
			return errs.Mark(err, errs.ErrStorageFailure)
		}
		borrower, err := tx.Reads().UserByID(ctx, target.UserID())
		if err != nil {
			return errs.Mark(err, errs.ErrStorageFailure)
		}

		severity := notification.SeveritySuccess
		if daysLate > 0 {
			severity = notification.SeverityWarning
		}
		notice := notification.New(target.UserID(), severity, returnMessage(book.Title, daysLate), now)
		if _, err := tx.Notifications().Create(ctx, notice); err != nil {
			return errs.Mark(err, errs.ErrStorageFailure)
		}

		if err := u.fulfillOldestReservation(ctx, tx, target.BookID(), book.Title, now); err != nil {
			return err
		}

		e := returnEmail(borrower.Email, borrower.Name, book.Title, daysLate)
		email = &e
		message := "Livro devolvido com sucesso!"
		if daysLate > 0 {
			message = fmt.Sprintf("Livro devolvido com %d dia(s) de atraso.", daysLate)
		}
		result = &ReturnResult{DaysLate: daysLate, Message: message}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.sendBestEffort(ctx, *email)
	return result, nil
}

// Renew pushes the due date one full loan period past the current one. The
// period is re-derived from the book type, not from the original loan.
func (u *loanUseCaseImpl) Renew(ctx context.Context, actor shared.Actor, loanID uuid.UUID) (*RenewResult, error) {
	now := u.clock.Now()

	var (
		result *RenewResult
		email  *shared.Email
	)
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		target, err := tx.Loans().FindByIDForUpdate(ctx, loanID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrLoanNotFound
			}
			return errs.Mark(err, errs.ErrStorageFailure)
		}
		if !actor.CanActFor(target.UserID()) {
			return errs.ErrForbidden
		}

		book, err := tx.Reads().BookByID(ctx, target.BookID())
		if err != nil {
			return errs.Mark(err, errs.ErrStorageFailure)
		}

		newDue, err := target.Renew(book.Type.LoanPeriod())
		if err != nil {
			switch {
			case errs.Is(err, loan.ErrAlreadyReturned):
				return errs.ErrLoanAlreadyReturned
			default:
				return errs.ErrRenewalLimitReached
			}
		}
		if err := tx.Loans().Update(ctx, target); err != nil {
			return errs.Mark(err, errs.ErrStorageFailure)
		}

		notice := notification.New(target.UserID(), notification.SeverityInfo,
			renewMessage(book.Title, newDue), now)
		if _, err := tx.Notifications().Create(ctx, notice); err != nil {
			return errs.Mark(err, errs.ErrStorageFailure)
		}

		borrower, err := tx.Reads().UserByID(ctx, target.UserID())
		if err != nil {
			return errs.Mark(err, errs.ErrStorageFailure)
		}

		e := renewEmail(borrower.Email, borrower.Name, book.Title, newDue)
		email = &e
		result = &RenewResult{NewDueDate: newDue}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.sendBestEffort(ctx, *email)
	return result, nil
}

func (u *loanUseCaseImpl) fulfillOldestReservation(
	ctx context.Context,
	tx shared.Tx,
	bookID uuid.UUID,
	bookTitle string,
	now time.Time,
) error {
	head, err := tx.Reservations().FindOldestPendingForUpdate(ctx, bookID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil // empty queue
		}
		return errs.Mark(err, errs.ErrStorageFailure)
	}

	if err := head.Fulfill(); err != nil {
		return errs.Mark(err, errs.ErrStorageFailure)
	}
	if err := tx.Reservations().Update(ctx, head); err != nil {
		return errs.Mark(err, errs.ErrStorageFailure)
	}

	notice := notification.New(head.UserID(), notification.SeveritySuccess,
		reservationFulfilledMessage(bookTitle), now)
	if _, err := tx.Notifications().Create(ctx, notice); err != nil {
		return errs.Mark(err, errs.ErrStorageFailure)
	}
	return nil
}

func (u *loanUseCaseImpl) sendBestEffort(ctx context.Context, email shared.Email) {
	if err := u.mailer.Send(ctx, email); err != nil {
		slog.Warn("failed to send email", "to", email.To, "subject", email.Subject, "error", err)
	}
}

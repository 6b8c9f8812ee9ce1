//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"biblio-api/internal/domain/notification"
	"biblio-api/internal/domain/reservation"
	"biblio-api/internal/domain/user"
	"biblio-api/internal/pkg/clock"
	"biblio-api/internal/pkg/errs"
	"biblio-api/internal/usecase/commands"
	"biblio-api/internal/usecase/shared"
	"biblio-api/tests/common/builder"
	"biblio-api/tests/common/fake"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

type loanFixture struct {
	uow    *fake.UoW
	mailer *fake.Mailer
	clock  *clock.FixedClock
	uc     commands.LoanCommands

	student shared.UserSnapshot
	actor   shared.Actor
}

func newLoanFixture(t *testing.T) *loanFixture {
	t.Helper()

	uow := fake.NewUoW()
	mailer := fake.NewMailer()
	fc := clock.NewFixedClock(testNow)

	student := builder.NewUserBuilder().BuildSnapshot()
	uow.AddUser(student, "hash")

	return &loanFixture{
		uow:     uow,
		mailer:  mailer,
		clock:   fc,
		uc:      commands.NewLoanUseCase(uow, mailer, fc),
		student: student,
		actor:   shared.Actor{ID: student.ID, Role: user.RoleStudent},
	}
}

func TestBorrow(t *testing.T) {
	t.Run("claims the lowest-numbered available copy", func(t *testing.T) {
		f := newLoanFixture(t)
		book := builder.NewBookBuilder().BuildSnapshot()
		copyIDs := f.uow.AddBook(book, 2)

		result, err := f.uc.Borrow(context.Background(), f.actor, book.ID)
		require.NoError(t, err)

		assert.Equal(t, copyIDs[0], result.CopyID)
		assert.Equal(t, 1, result.CopyNumber)
		assert.Equal(t, book.Title, result.BookTitle)
		assert.Equal(t, testNow.Add(14*24*time.Hour), result.DueDate)

		stored := f.uow.Loan(result.LoanID)
		require.NotNil(t, stored)
		assert.True(t, stored.IsActive())
		assert.Equal(t, f.student.ID, stored.UserID())

		notices := f.uow.NotificationsFor(f.student.ID)
		require.Len(t, notices, 1)
		assert.Equal(t, notification.SeveritySuccess, notices[0].Severity())
		assert.Contains(t, notices[0].Message(), book.Title)

		sent := f.mailer.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, f.student.Email, sent[0].To)
		assert.Equal(t, "Empréstimo confirmado", sent[0].Subject)
	})

	t.Run("reference material gets the short period", func(t *testing.T) {
		f := newLoanFixture(t)
		book := builder.NewBookBuilder().AsReference().BuildSnapshot()
		f.uow.AddBook(book, 1)

		result, err := f.uc.Borrow(context.Background(), f.actor, book.ID)
		require.NoError(t, err)
		assert.Equal(t, testNow.Add(7*24*time.Hour), result.DueDate)
	})

	t.Run("second copy satisfies a second borrower", func(t *testing.T) {
		f := newLoanFixture(t)
		book := builder.NewBookBuilder().BuildSnapshot()
		copyIDs := f.uow.AddBook(book, 2)

		other := builder.NewUserBuilder().
			With(func(b *builder.UserBuilder) { b.Email = "gustavo@escola.edu"; b.Name = "Gustavo Lima" }).
			BuildSnapshot()
		f.uow.AddUser(other, "hash")

		first, err := f.uc.Borrow(context.Background(), f.actor, book.ID)
		require.NoError(t, err)
		second, err := f.uc.Borrow(context.Background(), shared.Actor{ID: other.ID, Role: user.RoleStudent}, book.ID)
		require.NoError(t, err)

		assert.Equal(t, copyIDs[0], first.CopyID)
		assert.Equal(t, copyIDs[1], second.CopyID)

		// Both copies are out now.
		_, err = f.uc.Borrow(context.Background(), f.actor, book.ID)
		assert.ErrorIs(t, err, errs.ErrNoCopyAvailable)
	})

	t.Run("no copy available", func(t *testing.T) {
		f := newLoanFixture(t)
		book := builder.NewBookBuilder().BuildSnapshot()
		f.uow.AddBook(book, 0)

		_, err := f.uc.Borrow(context.Background(), f.actor, book.ID)
		assert.ErrorIs(t, err, errs.ErrNoCopyAvailable)
		assert.Empty(t, f.mailer.Sent())
	})

	t.Run("unknown book", func(t *testing.T) {
		f := newLoanFixture(t)

		_, err := f.uc.Borrow(context.Background(), f.actor, uuid.New())
		assert.ErrorIs(t, err, errs.ErrBookNotFound)
	})
}

func TestReturn(t *testing.T) {
	t.Run("on time frees the copy", func(t *testing.T) {
		f := newLoanFixture(t)
		book := builder.NewBookBuilder().BuildSnapshot()
		f.uow.AddBook(book, 1)

		borrowed, err := f.uc.Borrow(context.Background(), f.actor, book.ID)
		require.NoError(t, err)
		f.mailer.Reset()

		f.clock.Advance(5 * 24 * time.Hour)
		result, err := f.uc.Return(context.Background(), f.actor, borrowed.LoanID)
		require.NoError(t, err)

		assert.Equal(t, 0, result.DaysLate)
		assert.Equal(t, "Livro devolvido com sucesso!", result.Message)
		assert.Equal(t, "available", f.uow.Copy(borrowed.CopyID).Status.String())

		sent := f.mailer.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "Devolução confirmada", sent[0].Subject)
	})

	t.Run("late return reports whole days and warns", func(t *testing.T) {
		f := newLoanFixture(t)
		book := builder.NewBookBuilder().BuildSnapshot()
		f.uow.AddBook(book, 1)

		borrowed, err := f.uc.Borrow(context.Background(), f.actor, book.ID)
		require.NoError(t, err)

		f.clock.Set(borrowed.DueDate.Add(3*24*time.Hour + time.Hour))
		result, err := f.uc.Return(context.Background(), f.actor, borrowed.LoanID)
		require.NoError(t, err)

		assert.Equal(t, 3, result.DaysLate)
		assert.Equal(t, "Livro devolvido com 3 dia(s) de atraso.", result.Message)

		notices := f.uow.NotificationsFor(f.student.ID)
		last := notices[len(notices)-1]
		assert.Equal(t, notification.SeverityWarning, last.Severity())
	})

	t.Run("hands the copy to the oldest pending reservation", func(t *testing.T) {
		f := newLoanFixture(t)
		book := builder.NewBookBuilder().BuildSnapshot()
		f.uow.AddBook(book, 1)

		borrowed, err := f.uc.Borrow(context.Background(), f.actor, book.ID)
		require.NoError(t, err)

		first := builder.NewUserBuilder().
			With(func(b *builder.UserBuilder) { b.Email = "maria@escola.edu"; b.Name = "Maria Silva" }).
			BuildSnapshot()
		second := builder.NewUserBuilder().
			With(func(b *builder.UserBuilder) { b.Email = "gustavo@escola.edu"; b.Name = "Gustavo Lima" }).
			BuildSnapshot()
		f.uow.AddUser(first, "hash")
		f.uow.AddUser(second, "hash")

		oldest := reservation.NewReservation(book.ID, first.ID, testNow.Add(time.Hour))
		newer := reservation.NewReservation(book.ID, second.ID, testNow.Add(2*time.Hour))
		f.uow.AddReservation(oldest)
		f.uow.AddReservation(newer)
		f.mailer.Reset()

		_, err = f.uc.Return(context.Background(), f.actor, borrowed.LoanID)
		require.NoError(t, err)

		assert.Equal(t, reservation.StatusFulfilled, f.uow.Reservation(oldest.ID()).Status())
		assert.Equal(t, reservation.StatusPending, f.uow.Reservation(newer.ID()).Status())

		// The reserver is told in-app; the pickup email comes from the sweep.
		notices := f.uow.NotificationsFor(first.ID)
		require.Len(t, notices, 1)
		assert.Contains(t, notices[0].Message(), "está disponível")

		for _, e := range f.mailer.Sent() {
			assert.NotEqual(t, first.Email, e.To)
		}
	})

	t.Run("double return", func(t *testing.T) {
		f := newLoanFixture(t)
		book := builder.NewBookBuilder().BuildSnapshot()
		f.uow.AddBook(book, 1)

		borrowed, err := f.uc.Borrow(context.Background(), f.actor, book.ID)
		require.NoError(t, err)
		_, err = f.uc.Return(context.Background(), f.actor, borrowed.LoanID)
		require.NoError(t, err)

		_, err = f.uc.Return(context.Background(), f.actor, borrowed.LoanID)
		assert.ErrorIs(t, err, errs.ErrLoanAlreadyReturned)
	})

	t.Run("only the borrower or a librarian may return", func(t *testing.T) {
		f := newLoanFixture(t)
		book := builder.NewBookBuilder().BuildSnapshot()
		f.uow.AddBook(book, 1)

		borrowed, err := f.uc.Borrow(context.Background(), f.actor, book.ID)
		require.NoError(t, err)

		stranger := shared.Actor{ID: uuid.New(), Role: user.RoleStudent}
		_, err = f.uc.Return(context.Background(), stranger, borrowed.LoanID)
		assert.ErrorIs(t, err, errs.ErrForbidden)

		librarian := builder.NewUserBuilder().AsLibrarian().BuildSnapshot()
		f.uow.AddUser(librarian, "hash")
		_, err = f.uc.Return(context.Background(), shared.Actor{ID: librarian.ID, Role: user.RoleLibrarian}, borrowed.LoanID)
		assert.NoError(t, err)
	})
}

func TestRenew(t *testing.T) {
	t.Run("extends one period past the current due date", func(t *testing.T) {
		f := newLoanFixture(t)
		book := builder.NewBookBuilder().BuildSnapshot()
		f.uow.AddBook(book, 1)

		borrowed, err := f.uc.Borrow(context.Background(), f.actor, book.ID)
		require.NoError(t, err)
		f.mailer.Reset()

		result, err := f.uc.Renew(context.Background(), f.actor, borrowed.LoanID)
		require.NoError(t, err)

		assert.Equal(t, testNow.Add(28*24*time.Hour), result.NewDueDate)

		sent := f.mailer.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "Renovação confirmada", sent[0].Subject)
	})

	t.Run("second renewal is rejected", func(t *testing.T) {
		f := newLoanFixture(t)
		book := builder.NewBookBuilder().BuildSnapshot()
		f.uow.AddBook(book, 1)

		borrowed, err := f.uc.Borrow(context.Background(), f.actor, book.ID)
		require.NoError(t, err)
		_, err = f.uc.Renew(context.Background(), f.actor, borrowed.LoanID)
		require.NoError(t, err)

		_, err = f.uc.Renew(context.Background(), f.actor, borrowed.LoanID)
		assert.ErrorIs(t, err, errs.ErrRenewalLimitReached)
	})

	t.Run("renewing a returned loan", func(t *testing.T) {
		f := newLoanFixture(t)
		book := builder.NewBookBuilder().BuildSnapshot()
		f.uow.AddBook(book, 1)

		borrowed, err := f.uc.Borrow(context.Background(), f.actor, book.ID)
		require.NoError(t, err)
		_, err = f.uc.Return(context.Background(), f.actor, borrowed.LoanID)
		require.NoError(t, err)

		_, err = f.uc.Renew(context.Background(), f.actor, borrowed.LoanID)
		assert.ErrorIs(t, err, errs.ErrLoanAlreadyReturned)
	})

	t.Run("unknown loan", func(t *testing.T) {
		f := newLoanFixture(t)

		_, err := f.uc.Renew(context.Background(), f.actor, uuid.New())
		assert.ErrorIs(t, err, errs.ErrLoanNotFound)
	})
}

//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"biblio-api/internal/domain/loan"
	"biblio-api/internal/domain/notification"
	"biblio-api/internal/domain/reservation"
	"biblio-api/internal/pkg/clock"
	"biblio-api/internal/usecase/commands"
	"biblio-api/internal/usecase/shared"
	"biblio-api/tests/common/builder"
	"biblio-api/tests/common/fake"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dueSoonDays = 2

type sweepFixture struct {
	uow    *fake.UoW
	mailer *fake.Mailer
	clock  *clock.FixedClock
	uc     commands.SweepCommands

	student shared.UserSnapshot
	book    shared.BookSnapshot
	copyIDs []uuid.UUID
}

func newSweepFixture(t *testing.T) *sweepFixture {
	t.Helper()

	uow := fake.NewUoW()
	mailer := fake.NewMailer()
	fc := clock.NewFixedClock(testNow)

	student := builder.NewUserBuilder().BuildSnapshot()
	uow.AddUser(student, "hash")
	book := builder.NewBookBuilder().BuildSnapshot()
	copyIDs := uow.AddBook(book, 2)

	return &sweepFixture{
		uow:     uow,
		mailer:  mailer,
		clock:   fc,
		uc:      commands.NewSweepUseCase(uow, mailer, fc, dueSoonDays),
		student: student,
		book:    book,
		copyIDs: copyIDs,
	}
}

// addActiveLoan registers a loan due at the given offset from now.
func (f *sweepFixture) addActiveLoan(dueIn time.Duration) *loan.Loan {
	l := loan.NewLoan(f.copyIDs[0], f.book.ID, f.student.ID, f.clock.Now().Add(dueIn-14*24*time.Hour), 14*24*time.Hour)
	f.uow.AddLoan(l)
	return l
}

func TestSweep(t *testing.T) {
	t.Run("due soon fires exactly at the threshold", func(t *testing.T) {
		cases := []struct {
			name  string
			dueIn time.Duration
			want  int
		}{
			{name: "three days out", dueIn: 3 * 24 * time.Hour, want: 0},
			{name: "exactly two days out", dueIn: 2 * 24 * time.Hour, want: 1},
			{name: "one and a half days rounds up to two", dueIn: 36 * time.Hour, want: 1},
			{name: "one day out", dueIn: 24 * time.Hour, want: 0},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				f := newSweepFixture(t)
				f.addActiveLoan(tc.dueIn)

				result, err := f.uc.Run(context.Background())
				require.NoError(t, err)
				assert.Equal(t, tc.want, result.DueSoonNotices)
				assert.Equal(t, 0, result.OverdueNotices)
				assert.Len(t, f.mailer.Sent(), tc.want)
			})
		}
	})

	t.Run("overdue notice reports days late", func(t *testing.T) {
		f := newSweepFixture(t)
		f.addActiveLoan(-3 * 24 * time.Hour)

		result, err := f.uc.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1, result.OverdueNotices)

		notices := f.uow.NotificationsFor(f.student.ID)
		require.Len(t, notices, 1)
		assert.Equal(t, notification.SeverityDanger, notices[0].Severity())
		assert.Contains(t, notices[0].Message(), "atrasado há 3 dia(s)")

		sent := f.mailer.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "URGENTE: Livro atrasado", sent[0].Subject)
	})

	t.Run("loan due exactly now is not overdue yet", func(t *testing.T) {
		f := newSweepFixture(t)
		f.addActiveLoan(0)

		result, err := f.uc.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, result.OverdueNotices)
		assert.Equal(t, 0, result.DueSoonNotices)
	})

	t.Run("fulfilled reservations get a pickup reminder", func(t *testing.T) {
		f := newSweepFixture(t)
		res := reservation.NewReservation(f.book.ID, f.student.ID, testNow)
		require.NoError(t, res.Fulfill())
		f.uow.AddReservation(res)

		result, err := f.uc.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1, result.ReservationReadyNotices)

		sent := f.mailer.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "Reserva disponível", sent[0].Subject)
		assert.Equal(t, f.student.Email, sent[0].To)
	})

	t.Run("running twice creates nothing new", func(t *testing.T) {
		f := newSweepFixture(t)
		f.addActiveLoan(-2 * 24 * time.Hour)
		res := reservation.NewReservation(f.book.ID, f.student.ID, testNow)
		require.NoError(t, res.Fulfill())
		f.uow.AddReservation(res)

		first, err := f.uc.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, first.OverdueNotices)
		assert.Equal(t, 1, first.ReservationReadyNotices)

		second, err := f.uc.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, second.OverdueNotices)
		assert.Equal(t, 0, second.DueSoonNotices)
		assert.Equal(t, 0, second.ReservationReadyNotices)

		// No duplicate notifications, no duplicate emails.
		assert.Equal(t, 2, f.uow.NotificationCount())
		assert.Len(t, f.mailer.Sent(), 2)
	})

	t.Run("returned loans are ignored", func(t *testing.T) {
		f := newSweepFixture(t)
		l := f.addActiveLoan(-5 * 24 * time.Hour)
		_, err := l.Return(f.clock.Now())
		require.NoError(t, err)

		result, err := f.uc.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, result.OverdueNotices)
	})
}

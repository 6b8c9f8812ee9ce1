//go:build unit

package loan_test

import (
	"testing"
	"time"

	"biblio-api/internal/domain/book"
	"biblio-api/internal/domain/loan"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

func newLoan(period time.Duration) *loan.Loan {
	return loan.NewLoan(uuid.New(), uuid.New(), uuid.New(), t0, period)
}

func TestLoan(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		l := newLoan(book.TypeNormal.LoanPeriod())
		require.NotNil(t, l)

		assert.NotEqual(t, uuid.Nil, l.ID())
		assert.Equal(t, t0, l.LoanDate())
		assert.Equal(t, t0.Add(14*24*time.Hour), l.DueDate())
		assert.Equal(t, loan.StatusActive, l.Status())
		assert.True(t, l.IsActive())
		assert.Nil(t, l.ReturnDate())
		assert.Equal(t, 0, l.RenewalCount())
	})

	t.Run("reference material lends for seven days", func(t *testing.T) {
		l := newLoan(book.TypeConsulta.LoanPeriod())
		assert.Equal(t, t0.Add(7*24*time.Hour), l.DueDate())
	})

	t.Run("days late", func(t *testing.T) {
		l := newLoan(book.TypeNormal.LoanPeriod())
		due := l.DueDate()

		cases := []struct {
			name string
			now  time.Time
			want int
		}{
			{name: "before due date", now: due.Add(-48 * time.Hour), want: 0},
			{name: "exactly at due date", now: due, want: 0},
			{name: "less than a full day late", now: due.Add(23 * time.Hour), want: 0},
			{name: "one full day late", now: due.Add(24 * time.Hour), want: 1},
			{name: "fraction past two days is floored", now: due.Add(49 * time.Hour), want: 2},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				assert.Equal(t, tc.want, l.DaysLate(tc.now))
			})
		}
	})

	t.Run("days until due", func(t *testing.T) {
		l := newLoan(book.TypeNormal.LoanPeriod())
		due := l.DueDate()

		cases := []struct {
			name string
			now  time.Time
			want int
		}{
			{name: "two full days before", now: due.Add(-48 * time.Hour), want: 2},
			{name: "partial day rounds up", now: due.Add(-36 * time.Hour), want: 2},
			{name: "at the due date", now: due, want: 0},
			{name: "one day past due", now: due.Add(24 * time.Hour), want: -1},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				assert.Equal(t, tc.want, l.DaysUntilDue(tc.now))
			})
		}
	})

	t.Run("return on time", func(t *testing.T) {
		l := newLoan(book.TypeNormal.LoanPeriod())
		returnedAt := l.DueDate().Add(-24 * time.Hour)

		daysLate, err := l.Return(returnedAt)
		require.NoError(t, err)

		assert.Equal(t, 0, daysLate)
		assert.Equal(t, loan.StatusReturned, l.Status())
		require.NotNil(t, l.ReturnDate())
		assert.Equal(t, returnedAt, *l.ReturnDate())
	})

	t.Run("return late reports whole days", func(t *testing.T) {
		l := newLoan(book.TypeNormal.LoanPeriod())

		daysLate, err := l.Return(l.DueDate().Add(3*24*time.Hour + 5*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 3, daysLate)
	})

	t.Run("double return is rejected", func(t *testing.T) {
		l := newLoan(book.TypeNormal.LoanPeriod())
		_, err := l.Return(l.DueDate())
		require.NoError(t, err)

		_, err = l.Return(l.DueDate().Add(24 * time.Hour))
		assert.ErrorIs(t, err, loan.ErrAlreadyReturned)
	})

	t.Run("renew extends one full period from the current due date", func(t *testing.T) {
		l := newLoan(book.TypeNormal.LoanPeriod())

		newDue, err := l.Renew(book.TypeNormal.LoanPeriod())
		require.NoError(t, err)

		assert.Equal(t, t0.Add(28*24*time.Hour), newDue)
		assert.Equal(t, newDue, l.DueDate())
		assert.Equal(t, 1, l.RenewalCount())
	})

	t.Run("second renewal hits the limit", func(t *testing.T) {
		l := newLoan(book.TypeNormal.LoanPeriod())
		_, err := l.Renew(book.TypeNormal.LoanPeriod())
		require.NoError(t, err)

		_, err = l.Renew(book.TypeNormal.LoanPeriod())
		assert.ErrorIs(t, err, loan.ErrRenewalLimitReached)
		assert.Equal(t, 1, l.RenewalCount())
	})

	t.Run("renewing a returned loan is rejected", func(t *testing.T) {
		l := newLoan(book.TypeNormal.LoanPeriod())
		_, err := l.Return(t0.Add(24 * time.Hour))
		require.NoError(t, err)

		_, err = l.Renew(book.TypeNormal.LoanPeriod())
		assert.ErrorIs(t, err, loan.ErrAlreadyReturned)
	})

	t.Run("overdue only while active", func(t *testing.T) {
		l := newLoan(book.TypeNormal.LoanPeriod())
		after := l.DueDate().Add(time.Hour)

		assert.True(t, l.IsOverdue(after))

		_, err := l.Return(after)
		require.NoError(t, err)
		assert.False(t, l.IsOverdue(after))
	})
}

//go:build unit

package book_test

import (
	"testing"
	"time"

	"biblio-api/internal/domain/book"
	"biblio-api/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBook(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewBookBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, "Dom Casmurro", actual.Title())
		assert.Equal(t, "Machado de Assis", actual.Author())
		assert.Equal(t, book.TypeNormal, actual.Type())
	})

	t.Run("validation", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*builder.BookBuilder)
			errIs  error
		}{
			{
				name:   "empty title",
				mutate: func(b *builder.BookBuilder) { b.Title = "   " },
				errIs:  book.ErrEmptyTitle,
			},
			{
				name:   "empty author",
				mutate: func(b *builder.BookBuilder) { b.Author = "" },
				errIs:  book.ErrEmptyAuthor,
			},
			{
				name:   "unknown type",
				mutate: func(b *builder.BookBuilder) { b.Type = "audiobook" },
				errIs:  book.ErrInvalidType,
			},
			{
				name:   "empty type defaults to normal",
				mutate: func(b *builder.BookBuilder) { b.Type = "" },
			},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				b := builder.NewBookBuilder()
				tc.mutate(b)
				actual, err := b.BuildDomain()
				if tc.errIs != nil {
					assert.ErrorIs(t, err, tc.errIs)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, book.TypeNormal, actual.Type())
			})
		}
	})

	t.Run("loan periods", func(t *testing.T) {
		assert.Equal(t, 14, book.TypeNormal.LoanPeriodDays())
		assert.Equal(t, 7, book.TypeConsulta.LoanPeriodDays())
		assert.Equal(t, 14*24*time.Hour, book.TypeNormal.LoanPeriod())
		assert.Equal(t, 7*24*time.Hour, book.TypeConsulta.LoanPeriod())

		// Unknown types fall back to the normal period.
		assert.Equal(t, 14, book.Type("whatever").LoanPeriodDays())
	})
}

func TestCopy(t *testing.T) {
	t.Run("state machine", func(t *testing.T) {
		c := book.NewCopy(uuid.New(), 1)
		assert.True(t, c.IsAvailable())

		require.NoError(t, c.MarkBorrowed())
		assert.Equal(t, book.CopyBorrowed, c.Status())
		assert.ErrorIs(t, c.MarkBorrowed(), book.ErrCopyNotFree)

		require.NoError(t, c.MarkAvailable())
		assert.True(t, c.IsAvailable())
		assert.ErrorIs(t, c.MarkAvailable(), book.ErrCopyNotBorrowed)
	})

	t.Run("copy number floor", func(t *testing.T) {
		c := book.NewCopy(uuid.New(), 0)
		assert.Equal(t, 1, c.CopyNumber())
	})
}

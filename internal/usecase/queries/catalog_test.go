//go:build unit

package queries_test

import (
	"context"
	"testing"

	"biblio-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBookRepo serves canned catalog data.
type stubBookRepo struct {
	books       []*queries.BookView
	top         []*queries.TopBookView
	genreCounts map[uuid.UUID][]queries.GenreCount
	borrowedIDs map[uuid.UUID][]uuid.UUID
}

func (s *stubBookRepo) Search(_ context.Context, filter queries.BookSearchFilter) ([]*queries.BookView, error) {
	if !filter.AvailableOnly {
		return s.books, nil
	}
	var out []*queries.BookView
	for _, b := range s.books {
		if b.AvailableCopies > 0 {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubBookRepo) FindByID(_ context.Context, id uuid.UUID) (*queries.BookView, error) {
	for _, b := range s.books {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}

func (s *stubBookRepo) TopBorrowed(_ context.Context, limit int) ([]*queries.TopBookView, error) {
	if len(s.top) > limit {
		return s.top[:limit], nil
	}
	return s.top, nil
}

func (s *stubBookRepo) GenreCountsForUser(_ context.Context, userID uuid.UUID) ([]queries.GenreCount, error) {
	return s.genreCounts[userID], nil
}

func (s *stubBookRepo) BorrowedBookIDs(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.borrowedIDs[userID], nil
}

func bookView(title, genre string, available int) *queries.BookView {
	return &queries.BookView{
		ID:              uuid.New(),
		Title:           title,
		Genre:           genre,
		Type:            "normal",
		AvailableCopies: available,
		TotalCopies:     available + 1,
	}
}

func TestRecommendations(t *testing.T) {
	userID := uuid.New()

	romance1 := bookView("Dom Casmurro", "Romance", 1)
	romance2 := bookView("Iracema", "Romance", 2)
	fantasy := bookView("O Hobbit", "Fantasia", 1)
	scifi := bookView("Duna", "Ficção Científica", 1)
	unavailable := bookView("Esgotado", "Romance", 0)
	alreadyRead := bookView("Capitães da Areia", "Romance", 1)

	repo := &stubBookRepo{
		books: []*queries.BookView{romance1, romance2, fantasy, scifi, unavailable, alreadyRead},
		genreCounts: map[uuid.UUID][]queries.GenreCount{
			userID: {
				{Genre: "Romance", Count: 3},
				{Genre: "Fantasia", Count: 1},
			},
		},
		borrowedIDs: map[uuid.UUID][]uuid.UUID{
			userID: {alreadyRead.ID},
		},
	}
	q := queries.NewBookQueries(repo)

	t.Run("favorite genres come first, read and unavailable books are skipped", func(t *testing.T) {
		got, err := q.Recommendations(context.Background(), userID, 6)
		require.NoError(t, err)

		titles := make([]string, 0, len(got))
		for _, b := range got {
			titles = append(titles, b.Title)
		}

		// Romance (the top genre) first, then Fantasia, then the top-up.
		assert.Equal(t, []string{"Dom Casmurro", "Iracema", "O Hobbit", "Duna"}, titles)
	})

	t.Run("limit truncates", func(t *testing.T) {
		got, err := q.Recommendations(context.Background(), userID, 2)
		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, "Dom Casmurro", got[0].Title)
	})

	t.Run("no history falls back to the most borrowed books", func(t *testing.T) {
		repo.top = []*queries.TopBookView{
			{ID: fantasy.ID, Title: fantasy.Title, LoanCount: 9},
			{ID: romance1.ID, Title: romance1.Title, LoanCount: 4},
		}

		got, err := q.Recommendations(context.Background(), uuid.New(), 6)
		require.NoError(t, err)

		require.Len(t, got, 2)
		assert.Equal(t, "O Hobbit", got[0].Title)
		assert.Equal(t, "Dom Casmurro", got[1].Title)
	})
}

func TestTopBorrowed(t *testing.T) {
	repo := &stubBookRepo{
		top: []*queries.TopBookView{
			{ID: uuid.New(), Title: "A", LoanCount: 5},
			{ID: uuid.New(), Title: "B", LoanCount: 3},
		},
	}
	q := queries.NewBookQueries(repo)

	t.Run("zero limit uses the default", func(t *testing.T) {
		got, err := q.TopBorrowed(context.Background(), 0)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("explicit limit", func(t *testing.T) {
		got, err := q.TopBorrowed(context.Background(), 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "A", got[0].Title)
	})
}

package queries

import (
	"context"

	"github.com/google/uuid"
)

const (
	defaultTopBooksLimit       = 5
	defaultRecommendationLimit = 6
)

// BookSearchFilter narrows the catalog listing. Empty fields match all.
// Query matches title, author or id substring, case-insensitive.
type BookSearchFilter struct {
	Query         string
	Genre         string
	Type          string
	Year          *int
	AvailableOnly bool
}

type BookQueries interface {
	List(ctx context.Context, filter BookSearchFilter) ([]*BookView, error)
	GetByID(ctx context.Context, id uuid.UUID) (*BookView, error)
	TopBorrowed(ctx context.Context, limit int) ([]*TopBookView, error)
	// Recommendations ranks available books the user has not read by the
	// user's most-borrowed genres, topped up with any other unread available
	// books. Users with no loan history get the top-borrowed list instead.
	Recommendations(ctx context.Context, userID uuid.UUID, limit int) ([]*BookView, error)
}

type BookViewRepo interface {
	Search(ctx context.Context, filter BookSearchFilter) ([]*BookView, error)
	FindByID(ctx context.Context, id uuid.UUID) (*BookView, error)
	TopBorrowed(ctx context.Context, limit int) ([]*TopBookView, error)
	GenreCountsForUser(ctx context.Context, userID uuid.UUID) ([]GenreCount, error)
	BorrowedBookIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type bookQueriesImpl struct {
	repo BookViewRepo
}

func NewBookQueries(repo BookViewRepo) BookQueries {
	return &bookQueriesImpl{repo: repo}
}

func (q *bookQueriesImpl) List(ctx context.Context, filter BookSearchFilter) ([]*BookView, error) {
	return q.repo.Search(ctx, filter)
}

func (q *bookQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookView, error) {
	return q.repo.FindByID(ctx, id)
}

func (q *bookQueriesImpl) TopBorrowed(ctx context.Context, limit int) ([]*TopBookView, error) {
	if limit <= 0 {
		limit = defaultTopBooksLimit
	}
	return q.repo.TopBorrowed(ctx, limit)
}

func (q *bookQueriesImpl) Recommendations(ctx context.Context, userID uuid.UUID, limit int) ([]*BookView, error) {
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}

	genres, err := q.repo.GenreCountsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(genres) == 0 {
		return q.topBorrowedAsViews(ctx, limit)
	}

	readIDs, err := q.repo.BorrowedBookIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	read := make(map[uuid.UUID]struct{}, len(readIDs))
	for _, id := range readIDs {
		read[id] = struct{}{}
	}

	available, err := q.repo.Search(ctx, BookSearchFilter{AvailableOnly: true})
	if err != nil {
		return nil, err
	}

	byGenre := make(map[string][]*BookView)
	var unread []*BookView
	for _, b := range available {
		if _, ok := read[b.ID]; ok {
			continue
		}
		unread = append(unread, b)
		byGenre[b.Genre] = append(byGenre[b.Genre], b)
	}

	picked := make(map[uuid.UUID]struct{}, limit)
	recommendations := make([]*BookView, 0, limit)
	for _, g := range genres {
		for _, b := range byGenre[g.Genre] {
			recommendations = append(recommendations, b)
			picked[b.ID] = struct{}{}
		}
		if len(recommendations) >= limit {
			break
		}
	}

	// Top up with unread available books outside the favorite genres.
	if len(recommendations) < limit {
		for _, b := range unread {
			if _, ok := picked[b.ID]; ok {
				continue
			}
			recommendations = append(recommendations, b)
			if len(recommendations) >= limit {
				break
			}
		}
	}

	if len(recommendations) > limit {
		recommendations = recommendations[:limit]
	}
	return recommendations, nil
}

func (q *bookQueriesImpl) topBorrowedAsViews(ctx context.Context, limit int) ([]*BookView, error) {
	top, err := q.repo.TopBorrowed(ctx, limit)
	if err != nil {
		return nil, err
	}
	views := make([]*BookView, 0, len(top))
	for _, t := range top {
		v, err := q.repo.FindByID(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

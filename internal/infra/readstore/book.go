package readstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"biblio-api/internal/domain/book"
	"biblio-api/internal/infra"
	"biblio-api/internal/infra/db"
	"biblio-api/internal/usecase/queries"
	"biblio-api/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookReadStore struct {
	db db.DBTX
}

func NewBookReadStore(dbtx db.DBTX) *BookReadStore {
	return &BookReadStore{db: dbtx}
}

const bookViewColumns = `
	b.id, b.title, b.author, b.publisher, b.year, b.genre, b.synopsis, b.type, b.cover_url,
	COUNT(c.id) FILTER (WHERE c.status = 'available') AS available_copies,
	COUNT(c.id) AS total_copies`

func (r *BookReadStore) Search(ctx context.Context, filter queries.BookSearchFilter) ([]*queries.BookView, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q := strings.TrimSpace(filter.Query); q != "" {
		p := arg("%" + strings.ToLower(q) + "%")
		conds = append(conds, fmt.Sprintf(
			"(LOWER(b.title) LIKE %s OR LOWER(b.author) LIKE %s OR LOWER(b.id::text) LIKE %s)", p, p, p))
	}
	if filter.Genre != "" {
		conds = append(conds, "b.genre = "+arg(filter.Genre))
	}
	if filter.Type != "" {
		conds = append(conds, "b.type = "+arg(filter.Type))
	}
	if filter.Year != nil {
		conds = append(conds, "b.year = "+arg(*filter.Year))
	}

	query := `SELECT` + bookViewColumns + `
		FROM books b
		LEFT JOIN copies c ON c.book_id = b.id`
	if len(conds) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conds, " AND ")
	}
	query += "\n\t\tGROUP BY b.id"
	if filter.AvailableOnly {
		query += "\n\t\tHAVING COUNT(c.id) FILTER (WHERE c.status = 'available') > 0"
	}
	query += "\n\t\tORDER BY b.title"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to search books", err)
	}
	defer rows.Close()

	return scanBookViews(rows)
}

func (r *BookReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookView, error) {
	query := `SELECT` + bookViewColumns + `
		FROM books b
		LEFT JOIN copies c ON c.book_id = b.id
		WHERE b.id = $1
		GROUP BY b.id`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find book", err)
	}
	defer rows.Close()

	views, err := scanBookViews(rows)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, infra.WrapRepoErr("book not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return views[0], nil
}

func (r *BookReadStore) TopBorrowed(ctx context.Context, limit int) ([]*queries.TopBookView, error) {
	const query = `
		SELECT b.id, b.title, b.author, b.genre, b.cover_url, COUNT(l.id) AS loan_count
		FROM loans l
		JOIN books b ON b.id = l.book_id
		GROUP BY b.id, b.title, b.author, b.genre, b.cover_url
		ORDER BY loan_count DESC, b.title
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to rank top borrowed books", err)
	}
	defer rows.Close()

	var views []*queries.TopBookView
	for rows.Next() {
		v := &queries.TopBookView{}
		if err := rows.Scan(&v.ID, &v.Title, &v.Author, &v.Genre, &v.CoverURL, &v.LoanCount); err != nil {
			return nil, infra.WrapRepoErr("failed to scan top book row", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read top book rows", err)
	}
	return views, nil
}

func (r *BookReadStore) GenreCountsForUser(ctx context.Context, userID uuid.UUID) ([]queries.GenreCount, error) {
	const query = `
		SELECT b.genre, COUNT(*) AS loan_count
		FROM loans l
		JOIN books b ON b.id = l.book_id
		WHERE l.user_id = $1
		GROUP BY b.genre
		ORDER BY loan_count DESC, b.genre`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to count genres", err)
	}
	defer rows.Close()

	var counts []queries.GenreCount
	for rows.Next() {
		var gc queries.GenreCount
		if err := rows.Scan(&gc.Genre, &gc.Count); err != nil {
			return nil, infra.WrapRepoErr("failed to scan genre row", err)
		}
		counts = append(counts, gc)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read genre rows", err)
	}
	return counts, nil
}

func (r *BookReadStore) BorrowedBookIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	const query = `SELECT DISTINCT book_id FROM loans WHERE user_id = $1`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list borrowed book ids", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan book id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read book id rows", err)
	}
	return ids, nil
}

// FindSnapshot is the command-side lookup: just the fields lending needs.
func (r *BookReadStore) FindSnapshot(ctx context.Context, id uuid.UUID) (*shared.BookSnapshot, error) {
	const query = `SELECT id, title, author, genre, type FROM books WHERE id = $1`

	var (
		snap     shared.BookSnapshot
		bookType string
	)
	err := r.db.QueryRow(ctx, query, id).Scan(&snap.ID, &snap.Title, &snap.Author, &snap.Genre, &bookType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("book not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find book", err)
	}
	snap.Type = book.Type(bookType)
	return &snap, nil
}

func scanBookViews(rows pgx.Rows) ([]*queries.BookView, error) {
	var views []*queries.BookView
	for rows.Next() {
		v := &queries.BookView{}
		err := rows.Scan(
			&v.ID, &v.Title, &v.Author, &v.Publisher, &v.Year, &v.Genre, &v.Synopsis, &v.Type, &v.CoverURL,
			&v.AvailableCopies, &v.TotalCopies,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan book row", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read book rows", err)
	}
	return views, nil
}

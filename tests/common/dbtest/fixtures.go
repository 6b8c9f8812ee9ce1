//go:build integration

package dbtest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ResetDB truncates all mutable tables so each subtest starts clean.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := pool.Exec(ctx, `
		TRUNCATE notifications, reservations, loans, copies, books, users, system_settings
		CASCADE`)
	if err != nil {
		return fmt.Errorf("failed to reset database: %w", err)
	}
	return nil
}

type UserFixture struct {
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Grade        string
}

func InsertUser(ctx context.Context, pool *pgxpool.Pool, f UserFixture) (uuid.UUID, error) {
	id := uuid.New()
	_, err := pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, name, role, grade)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, f.Email, f.PasswordHash, f.Name, f.Role, f.Grade)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert user %s: %w", f.Email, err)
	}
	return id, nil
}

type BookFixture struct {
	Title  string
	Author string
	Genre  string
	Type   string
	Copies int
}

// InsertBook creates the book plus its copies, returning copy IDs in
// copy-number order.
func InsertBook(ctx context.Context, pool *pgxpool.Pool, f BookFixture) (uuid.UUID, []uuid.UUID, error) {
	bookID := uuid.New()
	_, err := pool.Exec(ctx, `
		INSERT INTO books (id, title, author, genre, type)
		VALUES ($1, $2, $3, $4, $5)`,
		bookID, f.Title, f.Author, f.Genre, f.Type)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to insert book %s: %w", f.Title, err)
	}

	copyIDs := make([]uuid.UUID, 0, f.Copies)
	for n := 1; n <= f.Copies; n++ {
		copyID := uuid.New()
		_, err := pool.Exec(ctx, `
			INSERT INTO copies (id, book_id, copy_number, status)
			VALUES ($1, $2, $3, 'available')`,
			copyID, bookID, n)
		if err != nil {
			return uuid.Nil, nil, fmt.Errorf("failed to insert copy %d of %s: %w", n, f.Title, err)
		}
		copyIDs = append(copyIDs, copyID)
	}
	return bookID, copyIDs, nil
}

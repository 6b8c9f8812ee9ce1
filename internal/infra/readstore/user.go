package readstore

import (
	"context"

	"biblio-api/internal/domain/user"
	"biblio-api/internal/infra"
	"biblio-api/internal/infra/db"
	"biblio-api/internal/usecase/queries"
	"biblio-api/internal/usecase/shared"

	"github.com/google/uuid"
)

type UserReadStore struct {
	db db.DBTX
}

func NewUserReadStore(dbtx db.DBTX) *UserReadStore {
	return &UserReadStore{db: dbtx}
}

func (r *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.UserView, error) {
	const query = `
		SELECT id, email, name, role, grade, avatar_url
		FROM users
		WHERE id = $1`

	v := &queries.UserView{}
	err := r.db.QueryRow(ctx, query, id).Scan(&v.ID, &v.Email, &v.Name, &v.Role, &v.Grade, &v.AvatarURL)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by id", err)
	}
	return v, nil
}

func (r *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.UserView, string, error) {
	const query = `
		SELECT id, email, name, role, grade, avatar_url, password_hash
		FROM users
		WHERE email = LOWER($1)`

	var hash string
	v := &queries.UserView{}
	err := r.db.QueryRow(ctx, query, email).Scan(&v.ID, &v.Email, &v.Name, &v.Role, &v.Grade, &v.AvatarURL, &hash)
	if err != nil {
		if isNoRows(err) {
			return nil, "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("failed to find user by email", err)
	}
	return v, hash, nil
}

func (r *UserReadStore) EmailExists(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE email = LOWER($1))`

	var exists bool
	if err := r.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check email", err)
	}
	return exists, nil
}

// FindSnapshot is the command-side lookup used for notification and email
// addressing.
func (r *UserReadStore) FindSnapshot(ctx context.Context, id uuid.UUID) (*shared.UserSnapshot, error) {
	v, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &shared.UserSnapshot{
		ID:        v.ID,
		Email:     v.Email,
		Name:      v.Name,
		Role:      user.Role(v.Role),
		Grade:     v.Grade,
		AvatarURL: v.AvatarURL,
	}, nil
}

//go:build unit

package fake

import (
	"context"

	"biblio-api/internal/infra"
	"biblio-api/internal/usecase/queries"

	"github.com/google/uuid"
)

// UserReadStore serves login and profile lookups from the same data as the
// fake unit of work.
type UserReadStore struct {
	u *UoW
}

func NewUserReadStore(u *UoW) *UserReadStore {
	return &UserReadStore{u: u}
}

func (s *UserReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.UserView, error) {
	s.u.mu.Lock()
	defer s.u.mu.Unlock()

	rec, ok := s.u.users[id]
	if !ok {
		return nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return viewFromRecord(rec), nil
}

func (s *UserReadStore) FindByEmail(_ context.Context, email string) (*queries.UserView, string, error) {
	s.u.mu.Lock()
	defer s.u.mu.Unlock()

	for _, rec := range s.u.users {
		if rec.snapshot.Email == email {
			return viewFromRecord(rec), rec.hash, nil
		}
	}
	return nil, "", infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
}

func viewFromRecord(rec *userRecord) *queries.UserView {
	return &queries.UserView{
		ID:        rec.snapshot.ID,
		Email:     rec.snapshot.Email,
		Name:      rec.snapshot.Name,
		Role:      rec.snapshot.Role.String(),
		Grade:     rec.snapshot.Grade,
		AvatarURL: rec.snapshot.AvatarURL,
	}
}

//go:build unit || integration

package builder

import (
	"biblio-api/internal/domain/user"
	"biblio-api/internal/usecase/shared"

	"github.com/google/uuid"
)

const testSchoolDomain = "escola.edu"

type UserBuilder struct {
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Grade        string
	AvatarURL    string
	SchoolDomain string
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		Email:        "lara@escola.edu",
		PasswordHash: "hashed_password",
		Name:         "Lara Souza",
		Role:         "student",
		Grade:        "8º ano",
		SchoolDomain: testSchoolDomain,
	}
}

func (b *UserBuilder) With(mutate func(*UserBuilder)) *UserBuilder {
	mutate(b)
	return b
}

func (b *UserBuilder) AsLibrarian() *UserBuilder {
	b.Email = "bibliotecario@escola.edu"
	b.Name = "Dona Cida"
	b.Role = "librarian"
	b.Grade = ""
	return b
}

func (b *UserBuilder) BuildDomain() (*user.User, error) {
	return user.NewUser(b.Email, b.PasswordHash, b.Name, user.Role(b.Role), b.Grade, b.AvatarURL, b.SchoolDomain)
}

// BuildSnapshot is for fixtures that do not need to exercise the
// registration rules.
func (b *UserBuilder) BuildSnapshot() shared.UserSnapshot {
	return shared.UserSnapshot{
		ID:        uuid.New(),
		Email:     b.Email,
		Name:      b.Name,
		Role:      user.Role(b.Role),
		Grade:     b.Grade,
		AvatarURL: b.AvatarURL,
	}
}

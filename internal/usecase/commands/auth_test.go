//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"biblio-api/internal/domain/user"
	"biblio-api/internal/pkg/clock"
	"biblio-api/internal/pkg/config"
	"biblio-api/internal/pkg/errs"
	"biblio-api/internal/pkg/jwt"
	"biblio-api/internal/pkg/password"
	"biblio-api/internal/usecase/commands"
	"biblio-api/internal/usecase/shared"
	"biblio-api/tests/common/builder"
	"biblio-api/tests/common/fake"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	uow *fake.UoW
	uc  commands.AuthCommands
	jwt *jwt.Service
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	uow := fake.NewUoW()
	jwtService := jwt.NewService("test-secret", 15*time.Minute, 168*time.Hour)
	library := config.LibraryConfig{
		DueSoonThresholdDays: 2,
		SchoolEmailDomain:    "escola.edu",
	}

	return &authFixture{
		uow: uow,
		uc: commands.NewAuthCommands(
			uow,
			fake.NewUserReadStore(uow),
			jwtService,
			clock.NewFixedClock(testNow),
			library,
		),
		jwt: jwtService,
	}
}

func registerInput() commands.RegisterInput {
	return commands.RegisterInput{
		Name:     "Lara Souza",
		Email:    "lara@escola.edu",
		Password: "senha123",
		Role:     "student",
		Grade:    "8º ano",
	}
}

func TestRegister(t *testing.T) {
	t.Run("creates the account with a welcome notification and tokens", func(t *testing.T) {
		f := newAuthFixture(t)

		result, err := f.uc.Register(context.Background(), registerInput())
		require.NoError(t, err)

		assert.Equal(t, "lara@escola.edu", result.User.Email)
		assert.Equal(t, "student", result.User.Role)
		assert.NotEmpty(t, result.TokenPair.AccessToken)
		assert.NotEmpty(t, result.TokenPair.RefreshToken)

		claims, err := f.jwt.ValidateToken(result.TokenPair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, result.User.ID, claims.UserID)
		assert.Equal(t, jwt.TokenTypeAccess, claims.TokenType)

		notices := f.uow.NotificationsFor(result.User.ID)
		require.Len(t, notices, 1)
		assert.Contains(t, notices[0].Message(), "Bem-vindo")
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newAuthFixture(t)

		_, err := f.uc.Register(context.Background(), registerInput())
		require.NoError(t, err)

		_, err = f.uc.Register(context.Background(), registerInput())
		assert.ErrorIs(t, err, errs.ErrEmailAlreadyRegistered)
	})

	t.Run("registration rules surface unchanged", func(t *testing.T) {
		f := newAuthFixture(t)

		input := registerInput()
		input.Grade = ""
		_, err := f.uc.Register(context.Background(), input)
		assert.ErrorIs(t, err, user.ErrGradeRequired)

		input = registerInput()
		input.Email = "lara@gmail.com"
		_, err = f.uc.Register(context.Background(), input)
		assert.ErrorIs(t, err, user.ErrSchoolEmailOnly)
	})
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		f := newAuthFixture(t)
		hash, err := password.HashPassword("senha123")
		require.NoError(t, err)
		student := builder.NewUserBuilder().BuildSnapshot()
		f.uow.AddUser(student, hash)

		result, err := f.uc.Login(context.Background(), student.Email, "senha123")
		require.NoError(t, err)

		assert.Equal(t, student.ID, result.User.ID)
		assert.NotEmpty(t, result.TokenPair.AccessToken)
	})

	t.Run("wrong password and unknown email look identical", func(t *testing.T) {
		f := newAuthFixture(t)
		hash, err := password.HashPassword("senha123")
		require.NoError(t, err)
		student := builder.NewUserBuilder().BuildSnapshot()
		f.uow.AddUser(student, hash)

		_, errWrong := f.uc.Login(context.Background(), student.Email, "errada")
		_, errUnknown := f.uc.Login(context.Background(), "ninguem@escola.edu", "senha123")

		assert.ErrorIs(t, errWrong, errs.ErrInvalidCredentials)
		assert.ErrorIs(t, errUnknown, errs.ErrInvalidCredentials)
	})
}

func TestRefreshToken(t *testing.T) {
	t.Run("refresh token yields a new pair", func(t *testing.T) {
		f := newAuthFixture(t)

		registered, err := f.uc.Register(context.Background(), registerInput())
		require.NoError(t, err)

		pair, err := f.uc.RefreshToken(context.Background(), registered.TokenPair.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
	})

	t.Run("access token is rejected as a refresh token", func(t *testing.T) {
		f := newAuthFixture(t)

		registered, err := f.uc.Register(context.Background(), registerInput())
		require.NoError(t, err)

		_, err = f.uc.RefreshToken(context.Background(), registered.TokenPair.AccessToken)
		assert.True(t, errs.Is(err, commands.ErrTokenValidation))
	})

	t.Run("garbage token", func(t *testing.T) {
		f := newAuthFixture(t)

		_, err := f.uc.RefreshToken(context.Background(), "not-a-token")
		assert.True(t, errs.Is(err, commands.ErrTokenValidation))
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Run("patches only the provided fields", func(t *testing.T) {
		f := newAuthFixture(t)

		registered, err := f.uc.Register(context.Background(), registerInput())
		require.NoError(t, err)

		newName := "Lara S. Souza"
		actor := shared.Actor{ID: registered.User.ID, Role: user.RoleStudent}
		require.NoError(t, f.uc.UpdateProfile(context.Background(), actor, shared.ProfilePatch{Name: &newName}))

		view, err := fake.NewUserReadStore(f.uow).FindByID(context.Background(), registered.User.ID)
		require.NoError(t, err)
		assert.Equal(t, newName, view.Name)
		assert.Equal(t, "8º ano", view.Grade)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newAuthFixture(t)

		name := "x"
		actor := shared.Actor{ID: uuid.New(), Role: user.RoleStudent}
		err := f.uc.UpdateProfile(context.Background(), actor, shared.ProfilePatch{Name: &name})
		assert.ErrorIs(t, err, errs.ErrUserNotFound)
	})
}

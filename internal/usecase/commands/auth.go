package commands

import (
	"context"

	"biblio-api/internal/domain/notification"
	"biblio-api/internal/domain/user"
	"biblio-api/internal/infra"
	"biblio-api/internal/pkg/clock"
	"biblio-api/internal/pkg/config"
	"biblio-api/internal/pkg/errs"
	"biblio-api/internal/pkg/jwt"
	"biblio-api/internal/pkg/password"
	"biblio-api/internal/usecase/queries"
	"biblio-api/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrTokenGeneration = errs.New("token generation failed")
	ErrTokenValidation = errs.New("token validation failed")
)

type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	Role      string
	Grade     string
	AvatarURL string
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthResult struct {
	User      *queries.UserView
	TokenPair *TokenPair
}

type AuthCommands interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, plainPassword string) (*AuthResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	UpdateProfile(ctx context.Context, actor shared.Actor, patch shared.ProfilePatch) error
}

type authCommandsImpl struct {
	uow        shared.UnitOfWork
	userStore  queries.UserReadStore
	jwtService *jwt.Service
	clock      clock.Clock
	library    config.LibraryConfig
}

func NewAuthCommands(
	uow shared.UnitOfWork,
	userStore queries.UserReadStore,
	jwtService *jwt.Service,
	clock clock.Clock,
	library config.LibraryConfig,
) AuthCommands {
	return &authCommandsImpl{
		uow:        uow,
		userStore:  userStore,
		jwtService: jwtService,
		clock:      clock,
		library:    library,
	}
}

// Register creates the account and drops the welcome notification in the
// same transaction, then hands back a logged-in token pair.
func (a *authCommandsImpl) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	hash, err := password.HashPassword(input.Password)
	if err != nil {
		return nil, errs.Wrap(err, "failed to hash password")
	}

	newUser, err := user.NewUser(
		input.Email, hash, input.Name,
		user.Role(input.Role), input.Grade, input.AvatarURL,
		a.library.SchoolEmailDomain,
	)
	if err != nil {
		return nil, err
	}

	now := a.clock.Now()
	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		exists, err := tx.Reads().EmailExists(ctx, newUser.Email())
		if err != nil {
			return errs.Mark(err, errs.ErrStorageFailure)
		}
		if exists {
			return errs.ErrEmailAlreadyRegistered
		}

		if err := tx.Users().Create(ctx, newUser); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.ErrEmailAlreadyRegistered
			}
			return errs.Mark(err, errs.ErrStorageFailure)
		}

		notice := notification.New(newUser.ID(), notification.SeveritySuccess,
			welcomeMessage(newUser.Name()), now)
		if _, err := tx.Notifications().Create(ctx, notice); err != nil {
			return errs.Mark(err, errs.ErrStorageFailure)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	pair, err := a.generatePair(newUser.ID(), newUser.Role())
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		User: &queries.UserView{
			ID:        newUser.ID(),
			Email:     newUser.Email(),
			Name:      newUser.Name(),
			Role:      newUser.Role().String(),
			Grade:     newUser.Grade(),
			AvatarURL: newUser.AvatarURL(),
		},
		TokenPair: pair,
	}, nil
}

func (a *authCommandsImpl) Login(ctx context.Context, email, plainPassword string) (*AuthResult, error) {
	view, hash, err := a.userStore.FindByEmail(ctx, email)
	if err != nil {
		// Same error as a password mismatch to prevent user enumeration.
		return nil, errs.ErrInvalidCredentials
	}

	if err := password.ComparePassword(hash, plainPassword); err != nil {
		return nil, errs.ErrInvalidCredentials
	}

	role, err := user.NewRole(view.Role)
	if err != nil {
		return nil, errs.ErrInvalidCredentials
	}

	pair, err := a.generatePair(view.ID, role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: view, TokenPair: pair}, nil
}

func (a *authCommandsImpl) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := a.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}
	if claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrTokenValidation
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}

	// The account must still exist.
	if _, err := a.userStore.FindByID(ctx, claims.UserID); err != nil {
		return nil, errs.ErrUserNotFound
	}

	return a.generatePair(claims.UserID, role)
}

func (a *authCommandsImpl) UpdateProfile(ctx context.Context, actor shared.Actor, patch shared.ProfilePatch) error {
	return a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Users().UpdateProfile(ctx, actor.ID, patch); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrUserNotFound
			}
			return errs.Mark(err, errs.ErrStorageFailure)
		}
		return nil
	})
}

func (a *authCommandsImpl) generatePair(id uuid.UUID, role user.Role) (*TokenPair, error) {
	access, err := a.jwtService.GenerateAccessToken(id, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}
	refresh, err := a.jwtService.GenerateRefreshToken(id, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

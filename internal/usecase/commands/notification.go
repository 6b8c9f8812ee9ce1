package commands

import (
	"context"

	"biblio-api/internal/infra"
	"biblio-api/internal/pkg/errs"
	"biblio-api/internal/usecase/shared"

	"github.com/google/uuid"
)

type NotificationCommands interface {
	MarkRead(ctx context.Context, actor shared.Actor, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, actor shared.Actor) error
}

type notificationUseCaseImpl struct {
	uow shared.UnitOfWork
}

func NewNotificationUseCase(uow shared.UnitOfWork) NotificationCommands {
	return &notificationUseCaseImpl{uow: uow}
}

// MarkRead flips one notification owned by the actor. The repository scopes
// the update by user id, so marking someone else's notice reads as not found.
func (u *notificationUseCaseImpl) MarkRead(ctx context.Context, actor shared.Actor, notificationID uuid.UUID) error {
	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Notifications().MarkRead(ctx, notificationID, actor.ID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrNotificationNotFound
			}
			return errs.Mark(err, errs.ErrStorageFailure)
		}
		return nil
	})
}

func (u *notificationUseCaseImpl) MarkAllRead(ctx context.Context, actor shared.Actor) error {
	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Notifications().MarkAllRead(ctx, actor.ID); err != nil {
			return errs.Mark(err, errs.ErrStorageFailure)
		}
		return nil
	})
}

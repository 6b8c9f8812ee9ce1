package queries

import (
	"context"

	"github.com/google/uuid"
)

type NotificationQueries interface {
	// ListByUser returns the user's notifications newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*NotificationView, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}

type NotificationViewRepo interface {
	FindByUserID(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*NotificationView, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}

type notificationQueriesImpl struct {
	repo NotificationViewRepo
}

func NewNotificationQueries(repo NotificationViewRepo) NotificationQueries {
	return &notificationQueriesImpl{repo: repo}
}

func (q *notificationQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*NotificationView, error) {
	return q.repo.FindByUserID(ctx, userID, unreadOnly)
}

func (q *notificationQueriesImpl) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return q.repo.CountUnread(ctx, userID)
}

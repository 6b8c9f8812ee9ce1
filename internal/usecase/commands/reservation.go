package commands

import (
	"context"
	"log/slog"
	"time"

	"biblio-api/internal/domain/notification"
	"biblio-api/internal/domain/reservation"
	"biblio-api/internal/infra"
	"biblio-api/internal/pkg/clock"
	"biblio-api/internal/pkg/errs"
	"biblio-api/internal/usecase/shared"

	"github.com/google/uuid"
)

type ReserveResult struct {
	ReservationID uuid.UUID
	BookTitle     string
	ReservedAt    time.Time
}

type ReservationCommands interface {
	Reserve(ctx context.Context, actor shared.Actor, bookID uuid.UUID) (*ReserveResult, error)
	Cancel(ctx context.Context, actor shared.Actor, reservationID uuid.UUID) error
}

type reservationUseCaseImpl struct {
	uow    shared.UnitOfWork
	mailer shared.Mailer
	clock  clock.Clock
}

func NewReservationUseCase(uow shared.UnitOfWork, mailer shared.Mailer, clock clock.Clock) ReservationCommands {
	return &reservationUseCaseImpl{
		uow:    uow,
		mailer: mailer,
		clock:  clock,
	}
}

// Reserve enqueues a hold on the book. Availability is deliberately not
// checked: a reservation placed while copies sit on the shelf simply waits
// for the next return. Only one pending reservation per (user, book).
func (u *reservationUseCaseImpl) Reserve(ctx context.Context, actor shared.Actor, bookID uuid.UUID) (*ReserveResult, error) {
	now := u.clock.Now()

	var (
		result *ReserveResult
		email  *shared.Email
	)
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		book, err := tx.Reads().BookByID(ctx, bookID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrBookNotFound
			}
			return errs.Mark(err, errs.ErrStorageFailure)
		}

		exists, err := tx.Reads().HasPendingReservation(ctx, actor.ID, bookID)
		if err != nil {
			return errs.Mark(err, errs.ErrStorageFailure)
		}
		if exists {
			return errs.ErrDuplicateReservation
		}

		res := reservation.NewReservation(bookID, actor.ID, now)
		if err := tx.Reservations().Create(ctx, res); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.ErrDuplicateReservation
			}
			return errs.Mark(err, errs.ErrStorageFailure)
		}

		notice := notification.New(actor.ID, notification.SeverityInfo, reserveMessage(book.Title), now)
		if _, err := tx.Notifications().Create(ctx, notice); err != nil {
			return errs.Mark(err, errs.ErrStorageFailure)
		}

		reserver, err := tx.Reads().UserByID(ctx, actor.ID)
		if err != nil {
			return errs.Mark(err, errs.ErrStorageFailure)
		}

		e := reserveEmail(reserver.Email, reserver.Name, book.Title)
		email = &e
		result = &ReserveResult{
			ReservationID: res.ID(),
			BookTitle:     book.Title,
			ReservedAt:    res.ReservedAt(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := u.mailer.Send(ctx, *email); err != nil {
		slog.Warn("failed to send email", "to", email.To, "subject", email.Subject, "error", err)
	}
	return result, nil
}

// Cancel closes a pending reservation. In-app notification only, no email.
func (u *reservationUseCaseImpl) Cancel(ctx context.Context, actor shared.Actor, reservationID uuid.UUID) error {
	now := u.clock.Now()

	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Reservations().FindByIDForUpdate(ctx, reservationID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrReservationNotFound
			}
			return errs.Mark(err, errs.ErrStorageFailure)
		}
		if !actor.CanActFor(res.UserID()) {
			return errs.ErrForbidden
		}

		if err := res.Cancel(); err != nil {
			return errs.ErrReservationClosed
		}
		if err := tx.Reservations().Update(ctx, res); err != nil {
			return errs.Mark(err, errs.ErrStorageFailure)
		}

		book, err := tx.Reads().BookByID(ctx, res.BookID())
		if err != nil {
			return errs.Mark(err, errs.ErrStorageFailure)
		}

		notice := notification.New(res.UserID(), notification.SeverityInfo,
			cancelReservationMessage(book.Title), now)
		if _, err := tx.Notifications().Create(ctx, notice); err != nil {
			return errs.Mark(err, errs.ErrStorageFailure)
		}
		return nil
	})
}

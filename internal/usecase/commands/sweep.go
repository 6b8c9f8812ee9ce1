package commands

import (
	"context"
	"log/slog"
	"math"

	"biblio-api/internal/domain/notification"
	"biblio-api/internal/pkg/clock"
	"biblio-api/internal/pkg/errs"
	"biblio-api/internal/usecase/shared"
)

type SweepResult struct {
	DueSoonNotices          int
	OverdueNotices          int
	ReservationReadyNotices int
}

// SweepCommands walks every active loan and every fulfilled reservation and
// raises the time-based notices: due-soon at exactly the threshold, overdue
// once the due date has passed, pickup reminders for fulfilled reservations.
// Deduplication lives in the notification store, so running the sweep twice
// produces nothing new.
type SweepCommands interface {
	Run(ctx context.Context) (*SweepResult, error)
}

type sweepUseCaseImpl struct {
	uow         shared.UnitOfWork
	mailer      shared.Mailer
	clock       clock.Clock
	dueSoonDays int
}

func NewSweepUseCase(uow shared.UnitOfWork, mailer shared.Mailer, clock clock.Clock, dueSoonDays int) SweepCommands {
	return &sweepUseCaseImpl{
		uow:         uow,
		mailer:      mailer,
		clock:       clock,
		dueSoonDays: dueSoonDays,
	}
}

func (u *sweepUseCaseImpl) Run(ctx context.Context) (*SweepResult, error) {
	now := u.clock.Now()

	var (
		result SweepResult
		emails []shared.Email
	)
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		loans, err := tx.Reads().ActiveLoanReminders(ctx)
		if err != nil {
			return errs.Mark(err, errs.ErrStorageFailure)
		}

		for _, l := range loans {
			daysUntil := int(math.Ceil(l.DueDate.Sub(now).Hours() / 24))

			switch {
			case daysUntil == u.dueSoonDays:
				loanID := l.LoanID
				notice := notification.NewDeduped(notification.DedupKey{
					UserID: l.UserID,
					BookID: l.BookID,
					Kind:   notification.KindDueSoon,
					LoanID: &loanID,
				}, notification.SeverityWarning, dueSoonMessage(l.BookTitle, l.DueDate), now)

				created, err := tx.Notifications().Create(ctx, notice)
				if err != nil {
					return errs.Mark(err, errs.ErrStorageFailure)
				}
				if created {
					result.DueSoonNotices++
					emails = append(emails, dueSoonEmail(l.UserEmail, l.UserName, l.BookTitle, l.DueDate))
				}

			case daysUntil < 0:
				daysLate := -daysUntil
				loanID := l.LoanID
				notice := notification.NewDeduped(notification.DedupKey{
					UserID: l.UserID,
					BookID: l.BookID,
					Kind:   notification.KindOverdue,
					LoanID: &loanID,
				}, notification.SeverityDanger, overdueMessage(l.BookTitle, daysLate), now)

				created, err := tx.Notifications().Create(ctx, notice)
				if err != nil {
					return errs.Mark(err, errs.ErrStorageFailure)
				}
				if created {
					result.OverdueNotices++
					emails = append(emails, overdueEmail(l.UserEmail, l.UserName, l.BookTitle, daysLate))
				}
			}
		}

		reservations, err := tx.Reads().FulfilledReservationReminders(ctx)
		if err != nil {
			return errs.Mark(err, errs.ErrStorageFailure)
		}

		for _, r := range reservations {
			notice := notification.NewDeduped(notification.DedupKey{
				UserID: r.UserID,
				BookID: r.BookID,
				Kind:   notification.KindReservationReady,
			}, notification.SeveritySuccess, reservationReadyMessage(r.BookTitle), now)

			created, err := tx.Notifications().Create(ctx, notice)
			if err != nil {
				return errs.Mark(err, errs.ErrStorageFailure)
			}
			if created {
				result.ReservationReadyNotices++
				emails = append(emails, reservationReadyEmail(r.UserEmail, r.UserName, r.BookTitle))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, e := range emails {
		if err := u.mailer.Send(ctx, e); err != nil {
			slog.Warn("failed to send email", "to", e.To, "subject", e.Subject, "error", err)
		}
	}
	return &result, nil
}

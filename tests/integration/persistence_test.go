//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"biblio-api/internal/domain/notification"
	"biblio-api/internal/domain/reservation"
	"biblio-api/internal/infra"
	"biblio-api/internal/infra/uow"
	"biblio-api/internal/usecase/shared"
	"biblio-api/tests/common/dbtest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type PersistenceTestSuite struct {
	SharedSuite
	uow shared.UnitOfWork
}

func (s *PersistenceTestSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.uow = uow.NewPostgresUoW(s.DB)
}

func TestPersistenceSuite(t *testing.T) {
	suite.Run(t, new(PersistenceTestSuite))
}

func (s *PersistenceTestSuite) insertBook(copies int) (uuid.UUID, []uuid.UUID) {
	bookID, copyIDs, err := dbtest.InsertBook(context.Background(), s.DB, dbtest.BookFixture{
		Title:  "Dom Casmurro",
		Author: "Machado de Assis",
		Genre:  "Romance",
		Type:   "normal",
		Copies: copies,
	})
	s.Require().NoError(err)
	return bookID, copyIDs
}

func (s *PersistenceTestSuite) insertUser(email string) uuid.UUID {
	id, err := dbtest.InsertUser(context.Background(), s.DB, dbtest.UserFixture{
		Email:        email,
		PasswordHash: "x",
		Name:         "Lara Souza",
		Role:         "student",
		Grade:        "8º ano",
	})
	s.Require().NoError(err)
	return id
}

func (s *PersistenceTestSuite) claimCopy(bookID uuid.UUID) (*shared.CopySnapshot, error) {
	var snap *shared.CopySnapshot
	err := s.uow.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		var claimErr error
		snap, claimErr = tx.Copies().ClaimAvailable(ctx, bookID)
		return claimErr
	})
	return snap, err
}

func (s *PersistenceTestSuite) TestCopyClaim() {
	s.Run("claims copies in copy number order", func() {
		bookID, copyIDs := s.insertBook(3)

		first, err := s.claimCopy(bookID)
		s.Require().NoError(err)
		s.Equal(1, first.CopyNumber)
		s.Equal(copyIDs[0], first.ID)

		second, err := s.claimCopy(bookID)
		s.Require().NoError(err)
		s.Equal(2, second.CopyNumber)
	})

	s.Run("reports not found once every copy is out", func() {
		bookID, _ := s.insertBook(1)

		_, err := s.claimCopy(bookID)
		s.Require().NoError(err)

		_, err = s.claimCopy(bookID)
		s.Require().Error(err)
		s.True(infra.IsKind(err, infra.KindNotFound))
	})

	s.Run("release makes the copy claimable again", func() {
		bookID, _ := s.insertBook(1)

		claimed, err := s.claimCopy(bookID)
		s.Require().NoError(err)

		err = s.uow.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
			return tx.Copies().Release(ctx, claimed.ID)
		})
		s.Require().NoError(err)

		again, err := s.claimCopy(bookID)
		s.Require().NoError(err)
		s.Equal(claimed.ID, again.ID)
	})
}

func (s *PersistenceTestSuite) TestReservationQueue() {
	now := time.Now().UTC().Truncate(time.Millisecond)

	createReservation := func(r *reservation.Reservation) error {
		return s.uow.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
			return tx.Reservations().Create(ctx, r)
		})
	}

	s.Run("rejects a second pending hold for the same user and book", func() {
		bookID, _ := s.insertBook(1)
		userID := s.insertUser("lara@escola.edu")

		s.Require().NoError(createReservation(reservation.NewReservation(bookID, userID, now)))

		err := createReservation(reservation.NewReservation(bookID, userID, now.Add(time.Minute)))
		s.Require().Error(err)
		s.True(infra.IsKind(err, infra.KindDuplicateKey))
	})

	s.Run("a cancelled hold does not block a new one", func() {
		bookID, _ := s.insertBook(1)
		userID := s.insertUser("lara@escola.edu")

		first := reservation.NewReservation(bookID, userID, now)
		s.Require().NoError(createReservation(first))

		err := s.uow.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
			r, err := tx.Reservations().FindByIDForUpdate(ctx, first.ID())
			if err != nil {
				return err
			}
			if err := r.Cancel(); err != nil {
				return err
			}
			return tx.Reservations().Update(ctx, r)
		})
		s.Require().NoError(err)

		s.Require().NoError(createReservation(reservation.NewReservation(bookID, userID, now.Add(time.Minute))))
	})

	s.Run("oldest pending hold heads the queue", func() {
		bookID, _ := s.insertBook(1)
		firstUser := s.insertUser("lara@escola.edu")
		secondUser := s.insertUser("gustavo@escola.edu")

		oldest := reservation.NewReservation(bookID, firstUser, now)
		s.Require().NoError(createReservation(oldest))
		s.Require().NoError(createReservation(reservation.NewReservation(bookID, secondUser, now.Add(time.Minute))))

		err := s.uow.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
			head, err := tx.Reservations().FindOldestPendingForUpdate(ctx, bookID)
			if err != nil {
				return err
			}
			s.Equal(oldest.ID(), head.ID())
			s.Equal(firstUser, head.UserID())
			return nil
		})
		s.Require().NoError(err)
	})

	s.Run("empty queue reports not found", func() {
		bookID, _ := s.insertBook(1)

		err := s.uow.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
			_, err := tx.Reservations().FindOldestPendingForUpdate(ctx, bookID)
			return err
		})
		s.Require().Error(err)
		s.True(infra.IsKind(err, infra.KindNotFound))
	})
}

func (s *PersistenceTestSuite) TestNotificationDedup() {
	now := time.Now().UTC().Truncate(time.Millisecond)

	create := func(n *notification.Notification) bool {
		var created bool
		err := s.uow.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
			var createErr error
			created, createErr = tx.Notifications().Create(ctx, n)
			return createErr
		})
		s.Require().NoError(err)
		return created
	}

	s.Run("deduped notices persist once per key", func() {
		bookID, _ := s.insertBook(1)
		userID := s.insertUser("lara@escola.edu")
		key := notification.DedupKey{UserID: userID, BookID: bookID, Kind: notification.KindReservationReady}

		s.True(create(notification.NewDeduped(key, notification.SeverityInfo, "Reserva disponível", now)))
		s.False(create(notification.NewDeduped(key, notification.SeverityInfo, "Reserva disponível", now.Add(time.Hour))))
	})

	s.Run("loan scoped keys are independent per loan", func() {
		bookID, _ := s.insertBook(1)
		userID := s.insertUser("lara@escola.edu")
		loanA := uuid.New()
		loanB := uuid.New()

		keyA := notification.DedupKey{UserID: userID, BookID: bookID, Kind: notification.KindDueSoon, LoanID: &loanA}
		keyB := notification.DedupKey{UserID: userID, BookID: bookID, Kind: notification.KindDueSoon, LoanID: &loanB}

		s.True(create(notification.NewDeduped(keyA, notification.SeverityWarning, "vence em breve", now)))
		s.False(create(notification.NewDeduped(keyA, notification.SeverityWarning, "vence em breve", now)))
		s.True(create(notification.NewDeduped(keyB, notification.SeverityWarning, "vence em breve", now)))
	})

	s.Run("plain notices never dedup", func() {
		userID := s.insertUser("lara@escola.edu")

		s.True(create(notification.New(userID, notification.SeverityInfo, "mensagem", now)))
		s.True(create(notification.New(userID, notification.SeverityInfo, "mensagem", now)))
	})
}

//go:build unit

package fake

import (
	"context"
	"sort"
	"sync"

	"biblio-api/internal/domain/book"
	"biblio-api/internal/domain/loan"
	"biblio-api/internal/domain/notification"
	"biblio-api/internal/domain/reservation"
	"biblio-api/internal/domain/user"
	"biblio-api/internal/infra"
	"biblio-api/internal/infra/db"
	"biblio-api/internal/usecase/shared"

	"github.com/google/uuid"
)

type userRecord struct {
	snapshot shared.UserSnapshot
	hash     string
}

type dedupKey struct {
	userID  uuid.UUID
	bookID  uuid.UUID
	kind    notification.Kind
	loanID  uuid.UUID
	hasLoan bool
}

// UoW is an in-memory UnitOfWork for command tests. No locking, no retry, no
// rollback: the engines' guard checks run before any mutation, so the success
// and failure paths exercised here never need either.
type UoW struct {
	mu sync.Mutex

	books         map[uuid.UUID]shared.BookSnapshot
	copies        map[uuid.UUID]*shared.CopySnapshot
	loans         map[uuid.UUID]*loan.Loan
	reservations  map[uuid.UUID]*reservation.Reservation
	users         map[uuid.UUID]*userRecord
	notifications []*notification.Notification
	dedupSeen     map[dedupKey]struct{}
}

func NewUoW() *UoW {
	return &UoW{
		books:        make(map[uuid.UUID]shared.BookSnapshot),
		copies:       make(map[uuid.UUID]*shared.CopySnapshot),
		loans:        make(map[uuid.UUID]*loan.Loan),
		reservations: make(map[uuid.UUID]*reservation.Reservation),
		users:        make(map[uuid.UUID]*userRecord),
		dedupSeen:    make(map[dedupKey]struct{}),
	}
}

// ----- fixture helpers -----

// AddBook registers a book with the given number of copies and returns the
// copy IDs in copy-number order.
func (u *UoW) AddBook(b shared.BookSnapshot, copies int) []uuid.UUID {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.books[b.ID] = b
	ids := make([]uuid.UUID, 0, copies)
	for i := 1; i <= copies; i++ {
		c := &shared.CopySnapshot{
			ID:         uuid.New(),
			BookID:     b.ID,
			CopyNumber: i,
			Status:     book.CopyAvailable,
		}
		u.copies[c.ID] = c
		ids = append(ids, c.ID)
	}
	return ids
}

func (u *UoW) AddUser(s shared.UserSnapshot, passwordHash string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.users[s.ID] = &userRecord{snapshot: s, hash: passwordHash}
}

func (u *UoW) AddLoan(l *loan.Loan) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.loans[l.ID()] = l
	if c, ok := u.copies[l.CopyID()]; ok && l.IsActive() {
		c.Status = book.CopyBorrowed
	}
}

func (u *UoW) AddReservation(r *reservation.Reservation) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.reservations[r.ID()] = r
}

// ----- inspection helpers -----

func (u *UoW) Loan(id uuid.UUID) *loan.Loan {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.loans[id]
}

func (u *UoW) Reservation(id uuid.UUID) *reservation.Reservation {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.reservations[id]
}

func (u *UoW) Copy(id uuid.UUID) shared.CopySnapshot {
	u.mu.Lock()
	defer u.mu.Unlock()
	return *u.copies[id]
}

func (u *UoW) NotificationsFor(userID uuid.UUID) []*notification.Notification {
	u.mu.Lock()
	defer u.mu.Unlock()
	var out []*notification.Notification
	for _, n := range u.notifications {
		if n.UserID() == userID {
			out = append(out, n)
		}
	}
	return out
}

func (u *UoW) NotificationCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.notifications)
}

// ----- shared.UnitOfWork -----

func (u *UoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return fn(ctx, &fakeTx{u: u})
}

func (u *UoW) Reads() shared.CommandReads {
	return &fakeReads{u: u}
}

type fakeTx struct {
	u *UoW
}

func (t *fakeTx) Copies() shared.CopyRepository                { return &fakeCopyRepo{u: t.u} }
func (t *fakeTx) Loans() shared.LoanRepository                 { return &fakeLoanRepo{u: t.u} }
func (t *fakeTx) Reservations() shared.ReservationRepository   { return &fakeReservationRepo{u: t.u} }
func (t *fakeTx) Notifications() shared.NotificationRepository { return &fakeNotificationRepo{u: t.u} }
func (t *fakeTx) Users() shared.UserRepository                 { return &fakeUserRepo{u: t.u} }
func (t *fakeTx) Reads() shared.CommandReads                   { return &fakeReads{u: t.u} }
func (t *fakeTx) DB() db.DBTX                                  { return nil }

// ----- repositories -----

type fakeCopyRepo struct {
	u *UoW
}

func (r *fakeCopyRepo) ClaimAvailable(_ context.Context, bookID uuid.UUID) (*shared.CopySnapshot, error) {
	var candidate *shared.CopySnapshot
	for _, c := range r.u.copies {
		if c.BookID != bookID || c.Status != book.CopyAvailable {
			continue
		}
		if candidate == nil || c.CopyNumber < candidate.CopyNumber {
			candidate = c
		}
	}
	if candidate == nil {
		return nil, infra.WrapRepoErr("no available copy", nil, infra.KindNotFound)
	}
	candidate.Status = book.CopyBorrowed
	snap := *candidate
	return &snap, nil
}

func (r *fakeCopyRepo) Release(_ context.Context, copyID uuid.UUID) error {
	c, ok := r.u.copies[copyID]
	if !ok {
		return infra.WrapRepoErr("copy not found", nil, infra.KindNotFound)
	}
	c.Status = book.CopyAvailable
	return nil
}

type fakeLoanRepo struct {
	u *UoW
}

func (r *fakeLoanRepo) Create(_ context.Context, l *loan.Loan) error {
	r.u.loans[l.ID()] = l
	return nil
}

func (r *fakeLoanRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*loan.Loan, error) {
	l, ok := r.u.loans[id]
	if !ok {
		return nil, infra.WrapRepoErr("loan not found", nil, infra.KindNotFound)
	}
	return l, nil
}

func (r *fakeLoanRepo) Update(_ context.Context, l *loan.Loan) error {
	r.u.loans[l.ID()] = l
	return nil
}

type fakeReservationRepo struct {
	u *UoW
}

func (r *fakeReservationRepo) Create(_ context.Context, res *reservation.Reservation) error {
	for _, existing := range r.u.reservations {
		if existing.UserID() == res.UserID() && existing.BookID() == res.BookID() && existing.IsPending() {
			return infra.WrapRepoErr("duplicate reservation", nil, infra.KindDuplicateKey)
		}
	}
	r.u.reservations[res.ID()] = res
	return nil
}

func (r *fakeReservationRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	res, ok := r.u.reservations[id]
	if !ok {
		return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return res, nil
}

func (r *fakeReservationRepo) FindOldestPendingForUpdate(_ context.Context, bookID uuid.UUID) (*reservation.Reservation, error) {
	var pending []*reservation.Reservation
	for _, res := range r.u.reservations {
		if res.BookID() == bookID && res.IsPending() {
			pending = append(pending, res)
		}
	}
	if len(pending) == 0 {
		return nil, infra.WrapRepoErr("no pending reservation", nil, infra.KindNotFound)
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].ReservedAt().Equal(pending[j].ReservedAt()) {
			return pending[i].ID().String() < pending[j].ID().String()
		}
		return pending[i].ReservedAt().Before(pending[j].ReservedAt())
	})
	return pending[0], nil
}

func (r *fakeReservationRepo) Update(_ context.Context, res *reservation.Reservation) error {
	r.u.reservations[res.ID()] = res
	return nil
}

type fakeNotificationRepo struct {
	u *UoW
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *notification.Notification) (bool, error) {
	if d := n.Dedup(); d != nil {
		key := dedupKey{userID: d.UserID, bookID: d.BookID, kind: d.Kind}
		if d.LoanID != nil {
			key.loanID = *d.LoanID
			key.hasLoan = true
		}
		if _, seen := r.u.dedupSeen[key]; seen {
			return false, nil
		}
		r.u.dedupSeen[key] = struct{}{}
	}
	r.u.notifications = append(r.u.notifications, n)
	return true, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id, userID uuid.UUID) error {
	for _, n := range r.u.notifications {
		if n.ID() == id && n.UserID() == userID {
			n.MarkRead()
			return nil
		}
	}
	return infra.WrapRepoErr("notification not found", nil, infra.KindNotFound)
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID uuid.UUID) error {
	for _, n := range r.u.notifications {
		if n.UserID() == userID {
			n.MarkRead()
		}
	}
	return nil
}

type fakeUserRepo struct {
	u *UoW
}

func (r *fakeUserRepo) Create(_ context.Context, newUser *user.User) error {
	for _, rec := range r.u.users {
		if rec.snapshot.Email == newUser.Email() {
			return infra.WrapRepoErr("duplicate email", nil, infra.KindDuplicateKey)
		}
	}
	r.u.users[newUser.ID()] = &userRecord{
		snapshot: shared.UserSnapshot{
			ID:        newUser.ID(),
			Email:     newUser.Email(),
			Name:      newUser.Name(),
			Role:      newUser.Role(),
			Grade:     newUser.Grade(),
			AvatarURL: newUser.AvatarURL(),
		},
		hash: newUser.PasswordHash(),
	}
	return nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id uuid.UUID, p shared.ProfilePatch) error {
	rec, ok := r.u.users[id]
	if !ok {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	if p.Name != nil {
		rec.snapshot.Name = *p.Name
	}
	if p.Grade != nil {
		rec.snapshot.Grade = *p.Grade
	}
	if p.AvatarURL != nil {
		rec.snapshot.AvatarURL = *p.AvatarURL
	}
	return nil
}

// ----- reads -----

type fakeReads struct {
	u *UoW
}

func (r *fakeReads) BookByID(_ context.Context, id uuid.UUID) (*shared.BookSnapshot, error) {
	b, ok := r.u.books[id]
	if !ok {
		return nil, infra.WrapRepoErr("book not found", nil, infra.KindNotFound)
	}
	return &b, nil
}

func (r *fakeReads) UserByID(_ context.Context, id uuid.UUID) (*shared.UserSnapshot, error) {
	rec, ok := r.u.users[id]
	if !ok {
		return nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	snap := rec.snapshot
	return &snap, nil
}

func (r *fakeReads) EmailExists(_ context.Context, email string) (bool, error) {
	for _, rec := range r.u.users {
		if rec.snapshot.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReads) HasPendingReservation(_ context.Context, userID, bookID uuid.UUID) (bool, error) {
	for _, res := range r.u.reservations {
		if res.UserID() == userID && res.BookID() == bookID && res.IsPending() {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReads) ActiveLoanReminders(_ context.Context) ([]*shared.LoanReminder, error) {
	var out []*shared.LoanReminder
	for _, l := range r.u.loans {
		if !l.IsActive() {
			continue
		}
		b := r.u.books[l.BookID()]
		rec := r.u.users[l.UserID()]
		reminder := &shared.LoanReminder{
			LoanID:    l.ID(),
			BookID:    l.BookID(),
			UserID:    l.UserID(),
			DueDate:   l.DueDate(),
			BookTitle: b.Title,
		}
		if rec != nil {
			reminder.UserName = rec.snapshot.Name
			reminder.UserEmail = rec.snapshot.Email
		}
		out = append(out, reminder)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (r *fakeReads) FulfilledReservationReminders(_ context.Context) ([]*shared.ReservationReminder, error) {
	var out []*shared.ReservationReminder
	for _, res := range r.u.reservations {
		if res.Status() != reservation.StatusFulfilled {
			continue
		}
		b := r.u.books[res.BookID()]
		rec := r.u.users[res.UserID()]
		reminder := &shared.ReservationReminder{
			ReservationID: res.ID(),
			BookID:        res.BookID(),
			UserID:        res.UserID(),
			BookTitle:     b.Title,
		}
		if rec != nil {
			reminder.UserName = rec.snapshot.Name
			reminder.UserEmail = rec.snapshot.Email
		}
		out = append(out, reminder)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ReservationID.String() < out[j].ReservationID.String()
	})
	return out, nil
}

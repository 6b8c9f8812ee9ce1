package loan

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyReturned     = errors.New("loan is already returned")
	ErrRenewalLimitReached = errors.New("loan renewal limit reached")
)

const day = 24 * time.Hour

// Loan links a user to a copy for a bounded period. The state machine is
// active -> returned, terminal; renewal only moves the due date.
type Loan struct {
	id           uuid.UUID
	copyID       uuid.UUID
	bookID       uuid.UUID
	userID       uuid.UUID
	loanDate     time.Time
	dueDate      time.Time
	status       Status
	returnDate   *time.Time
	renewalCount int
}

func NewLoan(copyID, bookID, userID uuid.UUID, now time.Time, period time.Duration) *Loan {
	return &Loan{
		id:           uuid.New(),
		copyID:       copyID,
		bookID:       bookID,
		userID:       userID,
		loanDate:     now,
		dueDate:      now.Add(period),
		status:       StatusActive,
		returnDate:   nil,
		renewalCount: 0,
	}
}

func Reconstruct(
	id, copyID, bookID, userID uuid.UUID,
	loanDate, dueDate time.Time,
	status Status,
	returnDate *time.Time,
	renewalCount int,
) *Loan {
	return &Loan{
		id:           id,
		copyID:       copyID,
		bookID:       bookID,
		userID:       userID,
		loanDate:     loanDate,
		dueDate:      dueDate,
		status:       status,
		returnDate:   returnDate,
		renewalCount: renewalCount,
	}
}

// Return closes the loan and reports how many whole days late it came back
// (zero when on time). Returning a returned loan is rejected rather than
// silently re-run: re-running would re-trigger reservation fulfillment.
func (l *Loan) Return(now time.Time) (int, error) {
	if l.status == StatusReturned {
		return 0, ErrAlreadyReturned
	}
	daysLate := l.DaysLate(now)
	l.status = StatusReturned
	t := now
	l.returnDate = &t
	return daysLate, nil
}

// Renew extends the due date by one full loan period, re-derived from the
// book type by the caller. Capped at RenewalLimit regardless of elapsed time.
func (l *Loan) Renew(period time.Duration) (time.Time, error) {
	if l.status == StatusReturned {
		return time.Time{}, ErrAlreadyReturned
	}
	if l.renewalCount >= RenewalLimit {
		return time.Time{}, ErrRenewalLimitReached
	}
	l.dueDate = l.dueDate.Add(period)
	l.renewalCount++
	return l.dueDate, nil
}

// DaysLate is max(0, floor((now - dueDate) / 1 day)).
func (l *Loan) DaysLate(now time.Time) int {
	late := now.Sub(l.dueDate)
	if late <= 0 {
		return 0
	}
	return int(late / day)
}

// DaysUntilDue is ceil((dueDate - now) / 1 day); negative once overdue.
func (l *Loan) DaysUntilDue(now time.Time) int {
	return int(math.Ceil(l.dueDate.Sub(now).Hours() / 24))
}

func (l *Loan) IsActive() bool {
	return l.status == StatusActive
}

func (l *Loan) IsOverdue(now time.Time) bool {
	return l.status == StatusActive && now.After(l.dueDate)
}

func (l *Loan) ID() uuid.UUID          { return l.id }
func (l *Loan) CopyID() uuid.UUID      { return l.copyID }
func (l *Loan) BookID() uuid.UUID      { return l.bookID }
func (l *Loan) UserID() uuid.UUID      { return l.userID }
func (l *Loan) LoanDate() time.Time    { return l.loanDate }
func (l *Loan) DueDate() time.Time     { return l.dueDate }
func (l *Loan) Status() Status         { return l.status }
func (l *Loan) ReturnDate() *time.Time { return l.returnDate }
func (l *Loan) RenewalCount() int      { return l.renewalCount }

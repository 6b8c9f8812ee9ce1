package notification

import (
	"time"

	"github.com/google/uuid"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeveritySuccess Severity = "success"
	SeverityDanger  Severity = "danger"
)

func (s Severity) String() string {
	return string(s)
}

func (s Severity) IsValid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeveritySuccess, SeverityDanger:
		return true
	default:
		return false
	}
}

// Kind names the event that produced a notification. Scheduler-produced
// kinds carry a DedupKey so repeated sweeps cannot duplicate them.
type Kind string

const (
	KindWelcome               Kind = "welcome"
	KindLoanConfirmed         Kind = "loan_confirmed"
	KindLoanReturned          Kind = "loan_returned"
	KindLoanRenewed           Kind = "loan_renewed"
	KindReservationRegistered Kind = "reservation_registered"
	KindReservationCancelled  Kind = "reservation_cancelled"
	KindReservationReady      Kind = "reservation_ready"
	KindDueSoon               Kind = "due_soon"
	KindOverdue               Kind = "overdue"
)

// DedupKey identifies a notice by what it is about rather than by its
// message text. At most one notification per key ever exists; the original
// system approximated this by substring-matching messages.
type DedupKey struct {
	UserID uuid.UUID
	BookID uuid.UUID
	Kind   Kind
	LoanID *uuid.UUID
}

type Notification struct {
	id        uuid.UUID
	userID    uuid.UUID
	severity  Severity
	message   string
	read      bool
	createdAt time.Time
	dedup     *DedupKey
}

func New(userID uuid.UUID, severity Severity, message string, now time.Time) *Notification {
	return &Notification{
		id:        uuid.New(),
		userID:    userID,
		severity:  severity,
		message:   message,
		read:      false,
		createdAt: now,
	}
}

// NewDeduped builds a notification that persists at most once per key.
func NewDeduped(key DedupKey, severity Severity, message string, now time.Time) *Notification {
	n := New(key.UserID, severity, message, now)
	k := key
	n.dedup = &k
	return n
}

func Reconstruct(id, userID uuid.UUID, severity Severity, message string, read bool, createdAt time.Time, dedup *DedupKey) *Notification {
	return &Notification{
		id:        id,
		userID:    userID,
		severity:  severity,
		message:   message,
		read:      read,
		createdAt: createdAt,
		dedup:     dedup,
	}
}

func (n *Notification) MarkRead() {
	n.read = true
}

func (n *Notification) ID() uuid.UUID        { return n.id }
func (n *Notification) UserID() uuid.UUID    { return n.userID }
func (n *Notification) Severity() Severity   { return n.severity }
func (n *Notification) Message() string      { return n.message }
func (n *Notification) Read() bool           { return n.read }
func (n *Notification) CreatedAt() time.Time { return n.createdAt }
func (n *Notification) Dedup() *DedupKey     { return n.dedup }

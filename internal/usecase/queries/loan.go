package queries

import (
	"context"
	"math"
	"time"

	"biblio-api/internal/pkg/clock"

	"github.com/google/uuid"
)

type LoanQueries interface {
	ListByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*LoanView, error)
	ListAll(ctx context.Context, activeOnly bool) ([]*LoanView, error)
	ListOverdue(ctx context.Context) ([]*LoanView, error)
	GetByID(ctx context.Context, id uuid.UUID) (*LoanView, error)
}

type LoanViewRepo interface {
	FindByUserID(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*LoanView, error)
	FindAll(ctx context.Context, activeOnly bool) ([]*LoanView, error)
	FindOverdue(ctx context.Context, now time.Time) ([]*LoanView, error)
	FindByID(ctx context.Context, id uuid.UUID) (*LoanView, error)
}

type loanQueriesImpl struct {
	repo  LoanViewRepo
	clock clock.Clock
}

func NewLoanQueries(repo LoanViewRepo, clock clock.Clock) LoanQueries {
	return &loanQueriesImpl{repo: repo, clock: clock}
}

func (q *loanQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*LoanView, error) {
	views, err := q.repo.FindByUserID(ctx, userID, activeOnly)
	if err != nil {
		return nil, err
	}
	q.fillDerived(views)
	return views, nil
}

func (q *loanQueriesImpl) ListAll(ctx context.Context, activeOnly bool) ([]*LoanView, error) {
	views, err := q.repo.FindAll(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	q.fillDerived(views)
	return views, nil
}

func (q *loanQueriesImpl) ListOverdue(ctx context.Context) ([]*LoanView, error) {
	views, err := q.repo.FindOverdue(ctx, q.clock.Now())
	if err != nil {
		return nil, err
	}
	q.fillDerived(views)
	return views, nil
}

func (q *loanQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*LoanView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	q.fillDerived([]*LoanView{view})
	return view, nil
}

// fillDerived computes the date arithmetic the clients display: days until
// due (ceil, negative once overdue) and whole days late (floor, min zero).
// Returned loans freeze daysLate at the return date.
func (q *loanQueriesImpl) fillDerived(views []*LoanView) {
	now := q.clock.Now()
	for _, v := range views {
		ref := now
		if v.ReturnDate != nil {
			ref = *v.ReturnDate
		}
		v.DaysUntilDue = int(math.Ceil(v.DueDate.Sub(ref).Hours() / 24))
		late := ref.Sub(v.DueDate)
		if late > 0 {
			v.DaysLate = int(late / (24 * time.Hour))
		} else {
			v.DaysLate = 0
		}
	}
}

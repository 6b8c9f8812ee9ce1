//go:build unit

package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"biblio-api/internal/domain/user"
	"biblio-api/internal/handler/api"
	"biblio-api/internal/pkg/clock"
	"biblio-api/internal/pkg/errs"
	"biblio-api/internal/usecase/commands"
	"biblio-api/internal/usecase/queries"
	"biblio-api/internal/usecase/shared"
	"biblio-api/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// stubLoanCommands returns canned results, recording the last call.
type stubLoanCommands struct {
	borrowResult *commands.BorrowResult
	returnResult *commands.ReturnResult
	renewResult  *commands.RenewResult
	err          error

	lastBookID uuid.UUID
	lastLoanID uuid.UUID
}

func (s *stubLoanCommands) Borrow(_ context.Context, _ shared.Actor, bookID uuid.UUID) (*commands.BorrowResult, error) {
	s.lastBookID = bookID
	if s.err != nil {
		return nil, s.err
	}
	return s.borrowResult, nil
}

func (s *stubLoanCommands) Return(_ context.Context, _ shared.Actor, loanID uuid.UUID) (*commands.ReturnResult, error) {
	s.lastLoanID = loanID
	if s.err != nil {
		return nil, s.err
	}
	return s.returnResult, nil
}

func (s *stubLoanCommands) Renew(_ context.Context, _ shared.Actor, loanID uuid.UUID) (*commands.RenewResult, error) {
	s.lastLoanID = loanID
	if s.err != nil {
		return nil, s.err
	}
	return s.renewResult, nil
}

type LoanHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	commands *stubLoanCommands
}

func (s *LoanHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.commands = &stubLoanCommands{}

	loanQueries := queries.NewLoanQueries(&emptyLoanRepo{}, clock.NewRealClock())
	handler := api.NewLoanHandler(s.commands, loanQueries)

	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", uuid.New())
		c.Set("user_role", user.RoleStudent)
		c.Next()
	}

	s.router.POST("/loans", authMiddleware, handler.Borrow)
	s.router.GET("/loans", authMiddleware, handler.ListMine)
	s.router.POST("/loans/:id/return", authMiddleware, handler.Return)
	s.router.POST("/loans/:id/renew", authMiddleware, handler.Renew)
}

func TestLoanHandlerSuite(t *testing.T) {
	suite.Run(t, new(LoanHandlerTestSuite))
}

func (s *LoanHandlerTestSuite) TestBorrow() {
	bookID := uuid.New()

	s.Run("success returns 201 with the loan payload", func() {
		s.commands.err = nil
		s.commands.borrowResult = &commands.BorrowResult{
			LoanID:     uuid.New(),
			CopyID:     uuid.New(),
			CopyNumber: 1,
			BookTitle:  "Dom Casmurro",
			DueDate:    time.Now().Add(14 * 24 * time.Hour),
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/loans",
			map[string]string{"book_id": bookID.String()}, "token")

		var body struct {
			BookTitle  string `json:"book_title"`
			CopyNumber int    `json:"copy_number"`
		}
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal("Dom Casmurro", body.BookTitle)
		s.Equal(1, body.CopyNumber)
		s.Equal(bookID, s.commands.lastBookID)
	})

	s.Run("missing auth", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/loans",
			map[string]string{"book_id": bookID.String()}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "")
	})

	s.Run("malformed book id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/loans",
			map[string]string{"book_id": "not-a-uuid"}, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("missing body", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/loans", nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("unknown book maps to 404", func() {
		s.commands.err = errs.ErrBookNotFound
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/loans",
			map[string]string{"book_id": bookID.String()}, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "")
	})

	s.Run("no copy available maps to 409", func() {
		s.commands.err = errs.ErrNoCopyAvailable
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/loans",
			map[string]string{"book_id": bookID.String()}, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "")
	})
}

func (s *LoanHandlerTestSuite) TestReturn() {
	loanID := uuid.New()

	s.Run("success", func() {
		s.commands.err = nil
		s.commands.returnResult = &commands.ReturnResult{DaysLate: 0, Message: "Livro devolvido com sucesso!"}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/loans/"+loanID.String()+"/return", nil, "token")

		var body struct {
			DaysLate int    `json:"days_late"`
			Message  string `json:"message"`
		}
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(0, body.DaysLate)
		s.Equal(loanID, s.commands.lastLoanID)
	})

	s.Run("already returned maps to 409", func() {
		s.commands.err = errs.ErrLoanAlreadyReturned
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/loans/"+loanID.String()+"/return", nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "")
	})

	s.Run("someone else's loan maps to 403", func() {
		s.commands.err = errs.ErrForbidden
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/loans/"+loanID.String()+"/return", nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "")
	})
}

func (s *LoanHandlerTestSuite) TestRenew() {
	loanID := uuid.New()

	s.Run("success", func() {
		s.commands.err = nil
		s.commands.renewResult = &commands.RenewResult{NewDueDate: time.Now().Add(28 * 24 * time.Hour)}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/loans/"+loanID.String()+"/renew", nil, "token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("renewal limit maps to 409", func() {
		s.commands.err = errs.ErrRenewalLimitReached
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/loans/"+loanID.String()+"/renew", nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "")
	})
}

func (s *LoanHandlerTestSuite) TestListMine() {
	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/loans", nil, "token")

	var body struct {
		Loans []queries.LoanView `json:"loans"`
	}
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
	s.Empty(body.Loans)
}

// emptyLoanRepo backs the query side with no rows.
type emptyLoanRepo struct{}

func (emptyLoanRepo) FindByUserID(context.Context, uuid.UUID, bool) ([]*queries.LoanView, error) {
	return nil, nil
}
func (emptyLoanRepo) FindAll(context.Context, bool) ([]*queries.LoanView, error) { return nil, nil }
func (emptyLoanRepo) FindOverdue(context.Context, time.Time) ([]*queries.LoanView, error) {
	return nil, nil
}
func (emptyLoanRepo) FindByID(context.Context, uuid.UUID) (*queries.LoanView, error) {
	return nil, nil
}

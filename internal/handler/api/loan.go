package api

import (
	"net/http"

	reqdto "biblio-api/internal/handler/dto/request"
	resdto "biblio-api/internal/handler/dto/response"
	"biblio-api/internal/handler/httperr"
	"biblio-api/internal/handler/middleware"
	"biblio-api/internal/usecase/commands"
	"biblio-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LoanHandler struct {
	loanCommands commands.LoanCommands
	loanQueries  queries.LoanQueries
}

func NewLoanHandler(loanCommands commands.LoanCommands, loanQueries queries.LoanQueries) *LoanHandler {
	return &LoanHandler{
		loanCommands: loanCommands,
		loanQueries:  loanQueries,
	}
}

func (h *LoanHandler) Borrow(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.BorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "invalid request body", err.Error())
		return
	}
	bookID, err := uuid.Parse(req.BookID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "invalid book id", nil)
		return
	}

	result, err := h.loanCommands.Borrow(c.Request.Context(), actor, bookID)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.BorrowResponse{
		LoanID:     result.LoanID,
		CopyID:     result.CopyID,
		CopyNumber: result.CopyNumber,
		BookTitle:  result.BookTitle,
		DueDate:    result.DueDate,
	})
}

func (h *LoanHandler) Return(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	loanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "invalid loan id", nil)
		return
	}

	result, err := h.loanCommands.Return(c.Request.Context(), actor, loanID)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.ReturnResponse{
		DaysLate: result.DaysLate,
		Message:  result.Message,
	})
}

func (h *LoanHandler) Renew(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	loanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "invalid loan id", nil)
		return
	}

	result, err := h.loanCommands.Renew(c.Request.Context(), actor, loanID)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.RenewResponse{NewDueDate: result.NewDueDate})
}

func (h *LoanHandler) ListMine(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	activeOnly := c.Query("active") == "true"

	loans, err := h.loanQueries.ListByUser(c.Request.Context(), actor.ID, activeOnly)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"loans": loans})
}

// ListAll is librarian-only (route-level gate).
func (h *LoanHandler) ListAll(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	loans, err := h.loanQueries.ListAll(c.Request.Context(), activeOnly)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"loans": loans})
}

// ListOverdue is librarian-only (route-level gate).
func (h *LoanHandler) ListOverdue(c *gin.Context) {
	loans, err := h.loanQueries.ListOverdue(c.Request.Context())
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"loans": loans})
}

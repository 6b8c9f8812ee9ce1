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

type ReservationHandler struct {
	reservationCommands commands.ReservationCommands
	reservationQueries  queries.ReservationQueries
}

func NewReservationHandler(
	reservationCommands commands.ReservationCommands,
	reservationQueries queries.ReservationQueries,
) *ReservationHandler {
	return &ReservationHandler{
		reservationCommands: reservationCommands,
		reservationQueries:  reservationQueries,
	}
}

func (h *ReservationHandler) Reserve(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "invalid request body", err.Error())
		return
	}
	bookID, err := uuid.Parse(req.BookID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "invalid book id", nil)
		return
	}

	result, err := h.reservationCommands.Reserve(c.Request.Context(), actor, bookID)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.ReserveResponse{
		ReservationID: result.ReservationID,
		BookTitle:     result.BookTitle,
		ReservedAt:    result.ReservedAt,
	})
}

func (h *ReservationHandler) Cancel(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "invalid reservation id", nil)
		return
	}

	if err := h.reservationCommands.Cancel(c.Request.Context(), actor, reservationID); err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ReservationHandler) ListMine(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	pendingOnly := c.Query("pending") == "true"

	reservations, err := h.reservationQueries.ListByUser(c.Request.Context(), actor.ID, pendingOnly)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reservations": reservations})
}

// ListAll is librarian-only (route-level gate).
func (h *ReservationHandler) ListAll(c *gin.Context) {
	pendingOnly := c.Query("pending") == "true"

	reservations, err := h.reservationQueries.ListAll(c.Request.Context(), pendingOnly)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reservations": reservations})
}

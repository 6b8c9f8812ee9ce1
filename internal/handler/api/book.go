package api

import (
	"net/http"
	"strconv"

	"biblio-api/internal/handler/httperr"
	"biblio-api/internal/handler/middleware"
	"biblio-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookHandler struct {
	bookQueries queries.BookQueries
}

func NewBookHandler(bookQueries queries.BookQueries) *BookHandler {
	return &BookHandler{bookQueries: bookQueries}
}

// List supports the catalog search box: ?q= matches title/author/id,
// plus genre, type, year and available filters.
func (h *BookHandler) List(c *gin.Context) {
	filter := queries.BookSearchFilter{
		Query: c.Query("q"),
		Genre: c.Query("genre"),
		Type:  c.Query("type"),
	}
	if y := c.Query("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "invalid year filter", nil)
			return
		}
		filter.Year = &year
	}
	if c.Query("available") == "true" {
		filter.AvailableOnly = true
	}

	books, err := h.bookQueries.List(c.Request.Context(), filter)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"books": books})
}

func (h *BookHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "invalid book id", nil)
		return
	}

	book, err := h.bookQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		abortWithRepoError(c, err, "book not found")
		return
	}

	c.JSON(http.StatusOK, book)
}

func (h *BookHandler) TopBorrowed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	top, err := h.bookQueries.TopBorrowed(c.Request.Context(), limit)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"books": top})
}

func (h *BookHandler) Recommendations(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "6"))

	books, err := h.bookQueries.Recommendations(c.Request.Context(), actor.ID, limit)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"books": books})
}

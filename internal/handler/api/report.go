package api

import (
	"net/http"
	"strconv"

	"biblio-api/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves the librarian CSV exports. All routes sit behind the
// librarian gate.
type ReportHandler struct {
	reportQueries queries.ReportQueries
}

func NewReportHandler(reportQueries queries.ReportQueries) *ReportHandler {
	return &ReportHandler{reportQueries: reportQueries}
}

func (h *ReportHandler) TopBooksCSV(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	data, err := h.reportQueries.TopBooksCSV(c.Request.Context(), limit)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	serveCSV(c, "livros_mais_emprestados.csv", data)
}

func (h *ReportHandler) OverdueLoansCSV(c *gin.Context) {
	data, err := h.reportQueries.OverdueLoansCSV(c.Request.Context())
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	serveCSV(c, "emprestimos_atrasados.csv", data)
}

func (h *ReportHandler) AllLoansCSV(c *gin.Context) {
	data, err := h.reportQueries.AllLoansCSV(c.Request.Context())
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	serveCSV(c, "emprestimos.csv", data)
}

func serveCSV(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

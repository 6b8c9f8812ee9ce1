package api

import (
	"net/http"

	resdto "biblio-api/internal/handler/dto/response"
	"biblio-api/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the notification sweep on demand. The sweep also runs
// once at startup; this endpoint lets a librarian trigger it between starts.
type AdminHandler struct {
	sweepCommands commands.SweepCommands
}

func NewAdminHandler(sweepCommands commands.SweepCommands) *AdminHandler {
	return &AdminHandler{sweepCommands: sweepCommands}
}

func (h *AdminHandler) RunSweep(c *gin.Context) {
	result, err := h.sweepCommands.Run(c.Request.Context())
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.SweepResponse{
		DueSoonNotices:          result.DueSoonNotices,
		OverdueNotices:          result.OverdueNotices,
		ReservationReadyNotices: result.ReservationReadyNotices,
	})
}

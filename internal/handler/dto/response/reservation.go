package response

import (
	"time"

	"github.com/google/uuid"
)

type ReserveResponse struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	BookTitle     string    `json:"book_title"`
	ReservedAt    time.Time `json:"reserved_at"`
}

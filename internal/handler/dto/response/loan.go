package response

import (
	"time"

	"github.com/google/uuid"
)

type BorrowResponse struct {
	LoanID     uuid.UUID `json:"loan_id"`
	CopyID     uuid.UUID `json:"copy_id"`
	CopyNumber int       `json:"copy_number"`
	BookTitle  string    `json:"book_title"`
	DueDate    time.Time `json:"due_date"`
}

type ReturnResponse struct {
	DaysLate int    `json:"days_late"`
	Message  string `json:"message"`
}

type RenewResponse struct {
	NewDueDate time.Time `json:"new_due_date"`
}

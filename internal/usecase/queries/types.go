package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type BookView struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Publisher       string    `json:"publisher"`
	Year            int       `json:"year"`
	Genre           string    `json:"genre"`
	Synopsis        string    `json:"synopsis"`
	Type            string    `json:"type"`
	CoverURL        string    `json:"cover_url"`
	AvailableCopies int       `json:"available_copies"`
	TotalCopies     int       `json:"total_copies"`
}

type TopBookView struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Genre     string    `json:"genre"`
	CoverURL  string    `json:"cover_url"`
	LoanCount int       `json:"loan_count"`
}

type LoanView struct {
	ID           uuid.UUID  `json:"id"`
	BookID       uuid.UUID  `json:"book_id"`
	BookTitle    string     `json:"book_title"`
	BookType     string     `json:"book_type"`
	CopyID       uuid.UUID  `json:"copy_id"`
	CopyNumber   int        `json:"copy_number"`
	UserID       uuid.UUID  `json:"user_id"`
	UserName     string     `json:"user_name"`
	LoanDate     time.Time  `json:"loan_date"`
	DueDate      time.Time  `json:"due_date"`
	Status       string     `json:"status"`
	ReturnDate   *time.Time `json:"return_date,omitempty"`
	RenewalCount int        `json:"renewal_count"`
	DaysUntilDue int        `json:"days_until_due"`
	DaysLate     int        `json:"days_late"`
}

type ReservationView struct {
	ID         uuid.UUID `json:"id"`
	BookID     uuid.UUID `json:"book_id"`
	BookTitle  string    `json:"book_title"`
	CoverURL   string    `json:"cover_url"`
	UserID     uuid.UUID `json:"user_id"`
	UserName   string    `json:"user_name"`
	ReservedAt time.Time `json:"reserved_at"`
	Status     string    `json:"status"`
}

type NotificationView struct {
	ID        uuid.UUID `json:"id"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type UserView struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Grade     string    `json:"grade"`
	AvatarURL string    `json:"avatar_url"`
}

type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

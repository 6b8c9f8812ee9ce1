package request

type BorrowRequest struct {
	BookID string `json:"book_id" binding:"required,uuid"`
}

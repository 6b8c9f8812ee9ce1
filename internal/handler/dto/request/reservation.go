package request

type ReserveRequest struct {
	BookID string `json:"book_id" binding:"required,uuid"`
}

package response

type SweepResponse struct {
	DueSoonNotices          int `json:"due_soon_notices"`
	OverdueNotices          int `json:"overdue_notices"`
	ReservationReadyNotices int `json:"reservation_ready_notices"`
}

package components

import (
	"biblio-api/internal/handler"
	"biblio-api/internal/handler/api"
	"biblio-api/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewBookHandler,
		api.NewLoanHandler,
		api.NewReservationHandler,
		api.NewNotificationHandler,
		api.NewReportHandler,
		api.NewAdminHandler,
		middleware.NewAuthMiddleware,
		newHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func newHandlers(
	auth *api.AuthHandler,
	book *api.BookHandler,
	loan *api.LoanHandler,
	reservation *api.ReservationHandler,
	notification *api.NotificationHandler,
	report *api.ReportHandler,
	admin *api.AdminHandler,
) handler.Handlers {
	return handler.Handlers{
		Auth:         auth,
		Book:         book,
		Loan:         loan,
		Reservation:  reservation,
		Notification: notification,
		Report:       report,
		Admin:        admin,
	}
}

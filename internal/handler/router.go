package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"biblio-api/internal/handler/api"
	"biblio-api/internal/handler/middleware"
	"biblio-api/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth         *api.AuthHandler
	Book         *api.BookHandler
	Loan         *api.LoanHandler
	Reservation  *api.ReservationHandler
	Notification *api.NotificationHandler
	Report       *api.ReportHandler
	Admin        *api.AdminHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, h, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/register", Handler: h.Auth.Register},
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login},
				{Method: http.MethodPost, Path: "/refresh", Handler: h.Auth.Refresh},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "/me", Handler: h.Auth.Me},
				{Method: http.MethodPatch, Path: "/me", Handler: h.Auth.UpdateProfile},
			})
		}

		books := apiGroup.Group("/books")
		books.Use(authMiddleware.RequireAuth())
		{
			addRoutes(books, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Book.List},
				{Method: http.MethodGet, Path: "/top", Handler: h.Book.TopBorrowed},
				{Method: http.MethodGet, Path: "/recommendations", Handler: h.Book.Recommendations},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Book.Get},
			})
		}

		loans := apiGroup.Group("/loans")
		loans.Use(authMiddleware.RequireAuth())
		{
			librarian := []gin.HandlerFunc{authMiddleware.RequireLibrarian()}
			addRoutes(loans, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Loan.Borrow},
				{Method: http.MethodGet, Path: "", Handler: h.Loan.ListMine},
				{Method: http.MethodPost, Path: "/:id/return", Handler: h.Loan.Return},
				{Method: http.MethodPost, Path: "/:id/renew", Handler: h.Loan.Renew},
				{Method: http.MethodGet, Path: "/all", Handler: h.Loan.ListAll, Mw: librarian},
				{Method: http.MethodGet, Path: "/overdue", Handler: h.Loan.ListOverdue, Mw: librarian},
			})
		}

		reservations := apiGroup.Group("/reservations")
		reservations.Use(authMiddleware.RequireAuth())
		{
			librarian := []gin.HandlerFunc{authMiddleware.RequireLibrarian()}
			addRoutes(reservations, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Reservation.Reserve},
				{Method: http.MethodGet, Path: "", Handler: h.Reservation.ListMine},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Reservation.Cancel},
				{Method: http.MethodGet, Path: "/all", Handler: h.Reservation.ListAll, Mw: librarian},
			})
		}

		notifications := apiGroup.Group("/notifications")
		notifications.Use(authMiddleware.RequireAuth())
		{
			addRoutes(notifications, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Notification.List},
				{Method: http.MethodPost, Path: "/:id/read", Handler: h.Notification.MarkRead},
				{Method: http.MethodPost, Path: "/read-all", Handler: h.Notification.MarkAllRead},
			})
		}

		reports := apiGroup.Group("/reports")
		reports.Use(authMiddleware.RequireAuth(), authMiddleware.RequireLibrarian())
		{
			addRoutes(reports, []route{
				{Method: http.MethodGet, Path: "/top-books.csv", Handler: h.Report.TopBooksCSV},
				{Method: http.MethodGet, Path: "/overdue-loans.csv", Handler: h.Report.OverdueLoansCSV},
				{Method: http.MethodGet, Path: "/loans.csv", Handler: h.Report.AllLoansCSV},
			})
		}

		admin := apiGroup.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireLibrarian())
		{
			addRoutes(admin, []route{
				{Method: http.MethodPost, Path: "/sweep", Handler: h.Admin.RunSweep},
			})
		}
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}

package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/timechronos/internal/auth"
	"github.com/frahmantamala/timechronos/internal/client"
	"github.com/frahmantamala/timechronos/internal/company"
	"github.com/frahmantamala/timechronos/internal/project"
	"github.com/frahmantamala/timechronos/internal/task"
	"github.com/frahmantamala/timechronos/internal/timesheet"
	"github.com/frahmantamala/timechronos/internal/transport/middleware"
	"github.com/frahmantamala/timechronos/internal/transport/swagger"
	"github.com/frahmantamala/timechronos/internal/user"
)

type Handlers struct {
	Auth      *auth.Handler
	Company   *company.Handler
	User      *user.Handler
	Client    *client.Handler
	Project   *project.Handler
	Task      *task.Handler
	Timesheet *timesheet.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/register", h.Auth.Register)
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/password/forgot", h.Auth.ForgotPassword)
			sr.Post("/password/reset", h.Auth.ResetPassword)
		})

		// Everything below runs with a resolved actor.
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Post("/auth/password/change", h.Auth.ChangePassword)

			pr.Route("/company", func(cr chi.Router) {
				cr.Get("/", h.Company.GetCompany)
				cr.Group(func(ar chi.Router) {
					ar.Use(h.Auth.RequireAdmin)
					ar.Patch("/", h.Company.UpdateCompany)
					ar.Delete("/", h.Company.DeleteCompany)
				})
			})

			pr.Route("/users", func(ur chi.Router) {
				ur.Get("/", h.User.ListUsers)
				ur.Get("/{id}", h.User.GetUser)
				ur.Group(func(ar chi.Router) {
					ar.Use(h.Auth.RequireAdmin)
					ar.Post("/", h.User.CreateUser)
					ar.Patch("/{id}", h.User.UpdateUser)
					ar.Delete("/{id}", h.User.DeleteUser)
				})
			})

			pr.Route("/clients", func(cr chi.Router) {
				cr.Get("/", h.Client.ListClients)
				cr.Group(func(ar chi.Router) {
					ar.Use(h.Auth.RequireAdmin)
					ar.Post("/", h.Client.CreateClient)
					ar.Patch("/{id}", h.Client.UpdateClient)
					ar.Delete("/{id}", h.Client.DeleteClient)
				})
			})

			pr.Route("/projects", func(pjr chi.Router) {
				pjr.Get("/", h.Project.ListProjects)
				pjr.Group(func(ar chi.Router) {
					ar.Use(h.Auth.RequireAdmin)
					ar.Post("/", h.Project.CreateProject)
					ar.Patch("/{id}", h.Project.UpdateProject)
					ar.Delete("/{id}", h.Project.DeleteProject)
				})
			})

			pr.Route("/tasks", func(tr chi.Router) {
				tr.Get("/", h.Task.ListTasks)
				tr.Group(func(ar chi.Router) {
					ar.Use(h.Auth.RequireAdmin)
					ar.Post("/", h.Task.CreateTask)
					ar.Patch("/{id}", h.Task.UpdateTask)
					ar.Delete("/{id}", h.Task.DeleteTask)
				})
			})

			pr.Route("/timesheets", func(tsr chi.Router) {
				tsr.Post("/", h.Timesheet.CreateTimesheet)
				tsr.Get("/", h.Timesheet.ListTimesheets)
				tsr.Get("/pending", h.Timesheet.ListPendingTimesheets)
				tsr.Get("/{id}", h.Timesheet.GetTimesheet)
				tsr.Patch("/{id}", h.Timesheet.UpdateTimesheet)
				tsr.Delete("/{id}", h.Timesheet.DeleteTimesheet)
				tsr.Post("/{id}/submit", h.Timesheet.SubmitTimesheet)
				tsr.Post("/{id}/approve", h.Timesheet.ApproveTimesheet)
				tsr.Post("/{id}/reject", h.Timesheet.RejectTimesheet)
				tsr.Post("/{id}/recall", h.Timesheet.RecallTimesheet)
				tsr.Post("/{id}/recall/accept", h.Timesheet.AcceptRecall)
				tsr.Post("/{id}/taskhours", h.Timesheet.UpsertTaskHours)
				tsr.Get("/{id}/taskhours", h.Timesheet.ListTaskHours)
			})

			pr.Delete("/taskhours/{id}", h.Timesheet.DeleteTaskHours)
		})
	})
}

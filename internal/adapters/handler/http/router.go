package http

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vncsmyrnk/dailygoals/internal/core/ports"
	"github.com/vncsmyrnk/dailygoals/internal/logging"
	"github.com/vncsmyrnk/dailygoals/internal/metrics"
)

type Handlers struct {
	Auth    *AuthHandler
	User    *UserHandler
	Project *ProjectHandler
	Goal    *GoalHandler
	Retro   *RetroHandler
	Health  *HealthHandler
}

// RouterDeps carries what the middleware chain needs besides the handlers.
type RouterDeps struct {
	DB          *sql.DB
	AuthService ports.AuthService
	Log         logging.Logger
	Instrument  bool
}

func NewHandler(h Handlers, deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(deps.Log))
	r.Use(middleware.Recoverer)
	if deps.Instrument {
		r.Use(metrics.InstrumentHandler)
	}
	r.Use(AuthGate(deps.AuthService, deps.Log))

	r.Get("/health", h.Health.Health)

	r.Group(func(r chi.Router) {
		r.Use(TxMiddleware(deps.DB, deps.Log))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.Refresh)
			r.Post("/logout", h.Auth.Logout)
		})

		r.Get("/me", h.User.GetMe)
		r.Get("/dashboard", h.Goal.Dashboard)

		r.Route("/projects", func(r chi.Router) {
			r.Post("/", h.Project.CreateProject)
			r.Get("/", h.Project.ListProjects)
			r.Get("/archived", h.Project.ListArchivedProjects)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Project.GetProject)
				r.Patch("/", h.Project.UpdateProject)
				r.Delete("/", h.Project.ArchiveProject)
				r.Post("/archive", h.Project.ArchiveProject)
				r.Post("/restore", h.Project.RestoreProject)

				r.Post("/goals", h.Goal.CreateGoal)
				r.Get("/goals", h.Goal.ListGoals)
				r.Get("/goals/today", h.Goal.GetTodayGoal)
				r.Put("/goals/today", h.Goal.PutTodayGoal)

				r.Post("/retros", h.Retro.CreateRetro)
				r.Get("/retros", h.Retro.ListRetros)
			})
		})
	})

	return r
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/task-team-service/internal/api/http/handlers"
	"github.com/spec-kit/task-team-service/internal/auth"
	"github.com/spec-kit/task-team-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health             *handlers.HealthHandler
	Auth               *handlers.AuthHandler
	Tasks              *handlers.TasksHandler
	Teams              *handlers.TeamsHandler
	Users              *handlers.UsersHandler
	AuthMiddleware     *auth.AuthMiddleware
	Metrics            *observability.Metrics
	Logger             *zap.Logger
	LoginRatePerMinute int
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics.Handler())
	}

	api := app.Group("/api")

	login := []fiber.Handler{cfg.Auth.Login}
	if cfg.LoginRatePerMinute > 0 {
		login = append([]fiber.Handler{newIPRateLimiter(cfg.LoginRatePerMinute, cfg.Logger).Handle}, login...)
	}
	api.Post("/auth/login", login...)

	protected := api.Group("", cfg.AuthMiddleware.Handle)
	employees := auth.RequirePolicy(auth.EmployeeOrAbove)
	managers := auth.RequirePolicy(auth.ManagerOrAdmin)
	admins := auth.RequirePolicy(auth.AdminOnly)

	tasks := protected.Group("/tasks")
	tasks.Get("/", employees, cfg.Tasks.List)
	tasks.Get("/:id", employees, cfg.Tasks.Get)
	tasks.Post("/", managers, cfg.Tasks.Create)
	tasks.Put("/:id", managers, cfg.Tasks.Update)
	tasks.Put("/:id/assign", managers, cfg.Tasks.Assign)
	tasks.Put("/:id/status", employees, cfg.Tasks.UpdateStatus)
	tasks.Delete("/:id", managers, cfg.Tasks.Delete)

	teams := protected.Group("/teams", admins)
	teams.Get("/", cfg.Teams.List)
	teams.Post("/", cfg.Teams.Create)
	teams.Get("/:id", cfg.Teams.Get)
	teams.Put("/:id", cfg.Teams.Update)
	teams.Delete("/:id", cfg.Teams.Delete)
	teams.Get("/:id/members", cfg.Teams.Members)
	teams.Post("/:id/members/:userId", cfg.Teams.AddMember)
	teams.Delete("/:id/members/:userId", cfg.Teams.RemoveMember)

	users := protected.Group("/users", admins)
	users.Get("/", cfg.Users.List)
	users.Post("/", cfg.Users.Create)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)
}

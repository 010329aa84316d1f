package http

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/student-portal/internal/api/http/handlers"
	"github.com/spec-kit/student-portal/internal/auth"
	"github.com/spec-kit/student-portal/internal/domain"
	"github.com/spec-kit/student-portal/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Students       *handlers.StudentsHandler
	Staff          *handlers.StaffHandler
	Dashboard      *handlers.DashboardHandler
	Assessments    *handlers.AssessmentsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
	// StaticDir holds the dashboard page and the roster WASM bundle. Skipped
	// when empty or missing.
	StaticDir string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/students/signup", cfg.Students.Signup)
	authGroup.Post("/students/login", cfg.Students.Login)
	authGroup.Post("/check-email", cfg.Students.CheckEmail)
	authGroup.Post("/check-username", cfg.Students.CheckUsername)

	authGroup.Post("/staff/login", cfg.Staff.Login)
	authGroup.Post("/password/reset/request", cfg.Staff.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Staff.ConfirmPasswordReset)

	protected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	protected.Post("/password/change", cfg.Staff.ChangePassword)

	students := app.Group("/students", cfg.AuthMiddleware.Handle, auth.RequireStudent())
	students.Get("/me", cfg.Students.Me)

	dashboard := app.Group("/dashboard", cfg.AuthMiddleware.Handle, auth.RequireStaffRole())
	dashboard.Get("/roster", cfg.Dashboard.Roster)
	admin := dashboard.Group("", auth.RequireStaffRole(domain.StaffRoleAdmin))
	admin.Post("/assignments", cfg.Dashboard.Assign)
	admin.Delete("/assignments", cfg.Dashboard.Unassign)

	members := app.Group("/staff/members", cfg.AuthMiddleware.Handle, auth.RequireStaffRole(domain.StaffRoleAdmin))
	members.Post("", cfg.Staff.CreateStaff)
	members.Get("", cfg.Staff.ListStaff)
	members.Get("/:id", cfg.Staff.GetStaff)
	members.Patch("/:id", cfg.Staff.UpdateStaff)

	tests := app.Group("/tests", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	tests.Get("", cfg.Assessments.ListTests)
	tests.Post("", auth.RequireStaffRole(domain.StaffRoleAdmin), cfg.Assessments.CreateTest)
	tests.Get("/:id/questions", cfg.Assessments.Questions)

	sessions := app.Group("/sessions", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	sessions.Post("/start", auth.RequireStudent(), cfg.Assessments.StartSession)
	sessions.Post("/submit", auth.RequireStudent(), cfg.Assessments.SubmitSession)
	sessions.Get("/:id/result", cfg.Assessments.SessionResult)

	if cfg.StaticDir != "" {
		if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
			app.Static("/", cfg.StaticDir)
		}
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/student-portal/internal/api/http"
	"github.com/spec-kit/student-portal/internal/api/http/handlers"
	"github.com/spec-kit/student-portal/internal/auth"
	"github.com/spec-kit/student-portal/internal/config"
	"github.com/spec-kit/student-portal/internal/events"
	"github.com/spec-kit/student-portal/internal/observability"
	"github.com/spec-kit/student-portal/internal/persistence"
	"github.com/spec-kit/student-portal/internal/repository"
	"github.com/spec-kit/student-portal/internal/service"
	"github.com/spec-kit/student-portal/internal/validation"
	"github.com/spec-kit/student-portal/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics("student_portal")
	dispatcher := events.NewInMemoryDispatcher(logger)
	validate := validation.New()

	pool := pg.PoolHandle()
	studentRepo := repository.NewStudentRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)
	assessmentRepo := repository.NewAssessmentRepository(pool)
	sessionRepo := repository.NewTestSessionRepository(pool)
	rosterCache := repository.NewRosterCache(redis.CacheClient())

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		StudentRepo:       studentRepo,
		StaffRepo:         staffRepo,
		PasswordResetRepo: resetRepo,
		Dispatcher:        dispatcher,
	})
	staffService := service.NewStaffService(*cfg, service.StaffDependencies{
		StaffRepo:  staffRepo,
		Dispatcher: dispatcher,
	})
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		StudentRepo:    studentRepo,
		StaffRepo:      staffRepo,
		AssignmentRepo: assignmentRepo,
		Dispatcher:     dispatcher,
	})
	rosterService := service.NewRosterService(cfg.Roster, service.RosterDependencies{
		StudentRepo:    studentRepo,
		AssignmentRepo: assignmentRepo,
		Cache:          rosterCache,
		Metrics:        metrics,
		Logger:         logger,
	})
	assessmentService := service.NewAssessmentService(service.AssessmentDependencies{
		AssessmentRepo: assessmentRepo,
		SessionRepo:    sessionRepo,
		Dispatcher:     dispatcher,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(dispatcher, notificationService, rosterService)

	var redisPinger handlers.Pinger
	if redis.Enabled() {
		redisPinger = redis
	}

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), studentRepo, staffRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redisPinger),
		Students:       handlers.NewStudentsHandler(authService, validate),
		Staff:          handlers.NewStaffHandler(authService, staffService, validate),
		Dashboard:      handlers.NewDashboardHandler(rosterService, assignmentService, validate),
		Assessments:    handlers.NewAssessmentsHandler(assessmentService, validate),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
		StaticDir:      cfg.App.StaticDir,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

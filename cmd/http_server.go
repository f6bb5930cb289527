package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/frahmantamala/timechronos/internal"
	"github.com/frahmantamala/timechronos/internal/auth"
	authpg "github.com/frahmantamala/timechronos/internal/auth/postgres"
	"github.com/frahmantamala/timechronos/internal/calendar"
	calendarpg "github.com/frahmantamala/timechronos/internal/calendar/postgres"
	"github.com/frahmantamala/timechronos/internal/client"
	clientpg "github.com/frahmantamala/timechronos/internal/client/postgres"
	"github.com/frahmantamala/timechronos/internal/company"
	companypg "github.com/frahmantamala/timechronos/internal/company/postgres"
	"github.com/frahmantamala/timechronos/internal/core/events"
	"github.com/frahmantamala/timechronos/internal/notification"
	"github.com/frahmantamala/timechronos/internal/project"
	projectpg "github.com/frahmantamala/timechronos/internal/project/postgres"
	"github.com/frahmantamala/timechronos/internal/task"
	taskpg "github.com/frahmantamala/timechronos/internal/task/postgres"
	"github.com/frahmantamala/timechronos/internal/timesheet"
	timesheetpg "github.com/frahmantamala/timechronos/internal/timesheet/postgres"
	"github.com/frahmantamala/timechronos/internal/transport/rest"
	"github.com/frahmantamala/timechronos/internal/user"
	userpg "github.com/frahmantamala/timechronos/internal/user/postgres"
	"github.com/frahmantamala/timechronos/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config     *internal.Config
	DB         *sqlx.DB
	Router     *chi.Mux
	Dispatcher *notification.Dispatcher
	Logger     *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		deps.Dispatcher.Stop()
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"), config.Observability.Logging.Level)
	log := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// gorm shares the sqlx connection pool instead of opening a second one.
	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	bus := events.NewEventBus(log)

	var mailer notification.Mailer
	if config.Mailer.Enabled {
		sesMailer, err := notification.NewSESMailer(context.Background(), config.Mailer.Region, config.Mailer.SourceAddress, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize mailer: %w", err)
		}
		mailer = sesMailer
	} else {
		mailer = notification.NewLogMailer(log)
	}

	dispatcher := notification.NewDispatcher(notification.DispatcherConfig{
		MaxWorkers: config.Mailer.MaxWorkers,
		QueueSize:  config.Mailer.QueueSize,
	}, mailer, log)
	notification.NewSubscriber(dispatcher, log).Register(bus)

	hasher := auth.NewBcryptHasher(config.Security.BCryptCost)
	tokens := auth.NewJWTTokenGenerator(config.Security)

	authService := auth.NewService(authpg.NewAuthRepository(gormDB), tokens, hasher, bus, config.Security.ResetURLBase, log)
	companyService := company.NewService(companypg.NewCompanyRepository(gormDB), log)
	userService := user.NewService(userpg.NewUserRepository(gormDB), hasher, log)
	clientService := client.NewService(clientpg.NewClientRepository(gormDB), log)

	projectRepo := projectpg.NewProjectRepository(gormDB)
	projectService := project.NewService(projectRepo, projectRepo, log)

	taskRepo := taskpg.NewTaskRepository(gormDB)
	taskService := task.NewService(taskRepo, taskRepo, log)

	calendarService := calendar.NewService(calendarpg.NewCalendarRepository(gormDB), log)

	timesheetService := timesheet.NewService(
		timesheetpg.NewTimesheetRepository(gormDB),
		userpg.NewUserRepository(gormDB),
		calendarService,
		bus,
		log,
	)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, rest.Handlers{
		Auth:      auth.NewHandler(authService),
		Company:   company.NewHandler(companyService),
		User:      user.NewHandler(userService),
		Client:    client.NewHandler(clientService),
		Project:   project.NewHandler(projectService),
		Task:      task.NewHandler(taskService),
		Timesheet: timesheet.NewHandler(timesheetService),
	}, config.Server.AllowedOrigins, log)

	return &Dependencies{
		Config:     config,
		DB:         db,
		Router:     router,
		Dispatcher: dispatcher,
		Logger:     log,
	}, nil
}

func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

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

	"github.com/frahmantamala/care-roster/internal"
	"github.com/frahmantamala/care-roster/internal/auth"
	authPostgres "github.com/frahmantamala/care-roster/internal/auth/postgres"
	"github.com/frahmantamala/care-roster/internal/client"
	clientPostgres "github.com/frahmantamala/care-roster/internal/client/postgres"
	"github.com/frahmantamala/care-roster/internal/rbac"
	rbacPostgres "github.com/frahmantamala/care-roster/internal/rbac/postgres"
	"github.com/frahmantamala/care-roster/internal/settings"
	settingsPostgres "github.com/frahmantamala/care-roster/internal/settings/postgres"
	"github.com/frahmantamala/care-roster/internal/shift"
	shiftPostgres "github.com/frahmantamala/care-roster/internal/shift/postgres"
	"github.com/frahmantamala/care-roster/internal/staff"
	staffPostgres "github.com/frahmantamala/care-roster/internal/staff/postgres"
	"github.com/frahmantamala/care-roster/internal/timesheet"
	timesheetPostgres "github.com/frahmantamala/care-roster/internal/timesheet/postgres"
	"github.com/frahmantamala/care-roster/internal/transport/rest"
	"github.com/frahmantamala/care-roster/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
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
	Config *internal.Config
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	log := deps.Logger

	tokenGen := auth.NewJWTTokenGenerator(
		deps.Config.Security.AccessTokenSecret,
		deps.Config.Security.RefreshTokenSecret,
	)
	if d := deps.Config.Security.AccessTokenDuration; d > 0 {
		tokenGen.AccessTokenTTL = d
	}
	if d := deps.Config.Security.RefreshTokenDuration; d > 0 {
		tokenGen.RefreshTokenTTL = d
	}

	rbacRepo := rbacPostgres.NewRepository(deps.Gorm)
	resolver := rbac.NewResolver(rbacRepo, log)
	accessService := rbac.NewService(rbacRepo, log)

	userRepo := authPostgres.NewUserRepository(deps.Gorm)
	authService := auth.NewService(userRepo, resolver, tokenGen, deps.Config.Security.BCryptCost, log)

	staffRepo := staffPostgres.NewStaffRepository(deps.Gorm)
	staffService := staff.NewService(staffRepo, deps.Config.Security.BCryptCost, log)

	clientRepo := clientPostgres.NewClientRepository(deps.Gorm)
	clientService := client.NewService(clientRepo, log)

	shiftRepo := shiftPostgres.NewShiftRepository(deps.Gorm)
	shiftService := shift.NewService(shiftRepo, log)

	timesheetRepo := timesheetPostgres.NewTimesheetRepository(deps.Gorm)
	timesheetService := timesheet.NewService(timesheetRepo, shiftRepo, log)

	settingsRepo := settingsPostgres.NewSettingsRepository(deps.Gorm)
	settingsService := settings.NewService(settingsRepo, log)

	handlers := rest.Handlers{
		Auth:      auth.NewHandler(log, authService),
		Staff:     staff.NewHandler(log, staffService),
		Client:    client.NewHandler(log, clientService),
		Shift:     shift.NewHandler(log, shiftService),
		Timesheet: timesheet.NewHandler(log, timesheetService),
		Access:    rbac.NewHandler(accessService),
		Settings:  settings.NewHandler(log, settingsService),
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, handlers, authService, log)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: logger.L(),
		DB:     db,
		Gorm:   gormDB,
		Router: chi.NewRouter(),
	}, nil
}

// initDB opens the pgx connection pool that both sqlx and the ORM share.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

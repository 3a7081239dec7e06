package app

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"vivendi/backend/internal/api"
	"vivendi/backend/internal/config"
	"vivendi/backend/internal/database"
	"vivendi/backend/internal/email"
	"vivendi/backend/internal/erp"
	"vivendi/backend/internal/repository"
	"vivendi/backend/internal/service"
)

func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)

	logConfigSource()

	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		return 1
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()
	slog.Info("Successfully connected to SQLite database.")

	clientRepo := repository.NewSQLiteClientRepository(db)
	userRepo := repository.NewSQLiteUserRepository(db)
	measurementRepo := repository.NewSQLiteMeasurementRepository(db)

	authService := service.NewAuthService(userRepo, clientRepo, cfg.JWTSecret)
	clientService := service.NewClientService(clientRepo, userRepo)
	userService := service.NewUserService(userRepo, clientRepo)
	measurementService := service.NewMeasurementService(measurementRepo, clientRepo)

	gateway := erp.NewGateway(erp.Config{
		BaseURL:      cfg.LaudusBaseURL,
		Username:     cfg.LaudusUsername,
		Password:     cfg.LaudusPassword,
		CompanyVATID: cfg.LaudusCompanyVATID,
	})
	mailer := email.NewClient(cfg.EmailServerURL)

	rp := api.NewResponder(cfg.IsProduction())
	handlers := api.Handlers{
		Auth:         api.NewAuthHandler(authService, rp),
		Clients:      api.NewClientHandler(clientService, rp),
		Users:        api.NewUserHandler(userService, rp),
		Measurements: api.NewMeasurementHandler(measurementService, rp),
		ERP:          api.NewERPHandler(gateway, mailer, rp),
	}
	router := api.NewRouter(handlers, authService, rp, cfg.IsProduction())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		// Must outlast the 60s per-route timeout so slow handlers get a
		// proper 504 instead of a dropped connection.
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	slog.Info("Starting server", "port", cfg.AppPort, "env", cfg.AppEnv)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		return 1
	}

	return 0
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}

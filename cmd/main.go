package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/playgrid/arena-system/config"
	"github.com/playgrid/arena-system/db"
	"github.com/playgrid/arena-system/handlers"
	"github.com/playgrid/arena-system/live"
	"github.com/playgrid/arena-system/middleware"
	"github.com/playgrid/arena-system/repositories"
	api "github.com/playgrid/arena-system/routes"
	"github.com/playgrid/arena-system/services"
	"github.com/playgrid/arena-system/storage"
)

const liveGamesInterval = 30 * time.Second // период трансляции живых игр

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Инициализация загрузчика файлов (Cloudflare R2)
	cloudflareUploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 uploader initialized")

	// Инициализация WebSocket Hub
	wsHub := live.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	profileRepo := repositories.NewPostgresProfileRepository(dbConn)
	gameRepo := repositories.NewPostgresGameRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	resultRepo := repositories.NewPostgresResultRepository(dbConn)
	leaderboardRepo := repositories.NewPostgresLeaderboardRepository(dbConn)
	notificationRepo := repositories.NewPostgresNotificationRepository(dbConn)
	achievementRepo := repositories.NewPostgresAchievementRepository(dbConn)
	logger.Info("Repositories initialized")

	// Инициализация сервисов
	sessionService := services.NewSessionService(profileRepo, cloudflareUploader)
	authService := services.NewAuthService(profileRepo, sessionService, cfg.JWTSecretKey)
	gameService := services.NewGameService(gameRepo, cloudflareUploader)
	tournamentService := services.NewTournamentService(tournamentRepo, participantRepo, gameRepo, cloudflareUploader)
	leaderboardService := services.NewLeaderboardService(leaderboardRepo)
	profileService := services.NewProfileService(profileRepo, achievementRepo, participantRepo, cloudflareUploader)
	notificationService := services.NewNotificationService(notificationRepo)

	standingsNotifier := live.NewStandingsBroadcaster(wsHub)
	resultService := services.NewResultService(
		resultRepo,
		matchRepo,
		notificationRepo,
		cloudflareUploader,
		standingsNotifier,
		logger,
	)

	dashboardService := services.NewDashboardService(
		profileService,
		tournamentService,
		leaderboardService,
		notificationService,
	)
	logger.Info("Services initialized")

	// Запуск трансляции живых игр в общую ws-комнату
	broadcasterCtx, stopBroadcaster := context.WithCancel(context.Background())
	defer stopBroadcaster()
	broadcaster := live.NewBroadcaster(wsHub, leaderboardService, liveGamesInterval, logger)
	go broadcaster.Run(broadcasterCtx)
	logger.Info("Live games broadcaster started", slog.Duration("interval", liveGamesInterval))

	// Инициализация обработчиков HTTP
	authMiddleware := middleware.NewAuth(cfg.JWTSecretKey, sessionService)
	authHandler := handlers.NewAuthHandler(authService)
	gameHandler := handlers.NewGameHandler(gameService, leaderboardService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService, leaderboardService)
	resultHandler := handlers.NewResultHandler(resultService)
	profileHandler := handlers.NewProfileHandler(profileService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	websocketHandler := handlers.NewWebsocketHandler(wsHub)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authMiddleware,
		authHandler,
		gameHandler,
		tournamentHandler,
		resultHandler,
		profileHandler,
		leaderboardHandler,
		notificationHandler,
		dashboardHandler,
		websocketHandler,
	)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		} else {
			logger.Info("server stopped gracefully")
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		stopBroadcaster()

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}

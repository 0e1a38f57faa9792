package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/playgrid/arena-system/handlers"
	"github.com/playgrid/arena-system/middleware"
)

// SetupRoutes собирает все маршруты API поверх переданного роутера.
func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Auth,
	authHandler *handlers.AuthHandler,
	gameHandler *handlers.GameHandler,
	tournamentHandler *handlers.TournamentHandler,
	resultHandler *handlers.ResultHandler,
	profileHandler *handlers.ProfileHandler,
	leaderboardHandler *handlers.LeaderboardHandler,
	notificationHandler *handlers.NotificationHandler,
	dashboardHandler *handlers.DashboardHandler,
	websocketHandler *handlers.WebsocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	// Фронтенд живёт на другом origin.
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	router.Post("/auth/signup", authHandler.RegisterHandler)
	router.Post("/auth/signin", authHandler.LoginHandler)

	router.Route("/games", func(r chi.Router) {
		r.Get("/", gameHandler.ListGamesHandler)
		r.Get("/{slug}", gameHandler.GetGameHandler)
		r.Get("/{gameID}/leaderboard", gameHandler.GameLeaderboardHandler)
	})

	router.Route("/tournaments", func(r chi.Router) {
		// Публичные листинги: для залогиненного пользователя элементы
		// аннотируются полем is_registered.
		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuthenticate)
			r.Get("/", tournamentHandler.ListUpcomingHandler)
			r.Get("/{tournamentID}", tournamentHandler.GetTournamentHandler)
		})
		r.Get("/{tournamentID}/leaderboard", tournamentHandler.TournamentLeaderboardHandler)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Post("/", tournamentHandler.CreateTournamentHandler)
			r.Post("/{tournamentID}/register", tournamentHandler.RegisterHandler)
		})
	})

	router.Get("/players/{playerID}", profileHandler.GetPlayerHandler)
	router.Get("/live-games", leaderboardHandler.LiveGamesHandler)
	router.Get("/advancing-players", leaderboardHandler.AdvancingPlayersHandler)

	// Личный кабинет
	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Get("/me", profileHandler.MeHandler)
		r.Get("/dashboard", dashboardHandler.GetDashboardHandler)
		r.Get("/notifications", notificationHandler.ListNotificationsHandler)
		r.Patch("/notifications/{notificationID}/read", notificationHandler.MarkReadHandler)
		r.Post("/matches/{matchID}/results", resultHandler.SubmitResultHandler)
	})

	// Админка: очередь модерации и решение по результату.
	router.Route("/admin", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(auth.RequireAdmin)
		r.Get("/results/pending", resultHandler.ListPendingResultsHandler)
		r.Post("/results/{resultID}/validate", resultHandler.ValidateResultHandler)
	})

	router.Route("/ws", func(r chi.Router) {
		r.Get("/live-games", websocketHandler.LiveGamesWSHandler)
		r.Get("/tournaments/{tournamentID}", websocketHandler.TournamentWSHandler)
	})
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ndewijer/Stock-Research-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Stock-Research-Backend/internal/api/middleware"
	"github.com/ndewijer/Stock-Research-Backend/internal/config"
	"github.com/ndewijer/Stock-Research-Backend/internal/metrics"
	"github.com/ndewijer/Stock-Research-Backend/internal/service"
)

// Services bundles the services the HTTP layer delegates to.
type Services struct {
	System       *service.SystemService
	Auth         *service.AuthService
	Profile      *service.ProfileService
	Activity     *service.ActivityService
	Conversation *service.ConversationService
	Chat         *service.ChatService
	Search       *service.SearchService
	Screener     *service.ScreenerService
	Watchlist    *service.WatchlistService
	Trade        *service.TradeService
	Risk         *service.RiskService
}

// NewRouter creates and configures the HTTP router
func NewRouter(
	svc Services,
	sessions custommiddleware.SessionVerifier,
	cfg *config.Config,
	logger *zap.Logger,
	m *metrics.Metrics,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger, m))
	r.Use(middleware.Recoverer)

	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	r.Method(http.MethodGet, "/metrics", m.Handler())

	requireSession := custommiddleware.RequireSession(sessions)

	r.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/auth", func(r chi.Router) {
			authHandler := handlers.NewAuthHandler(svc.Auth)
			r.Post("/signup", authHandler.SignUp)
			r.Post("/signin", authHandler.SignIn)
		})

		r.Route("/internal", func(r chi.Router) {
			r.Use(custommiddleware.APIKeyMiddleware(cfg.Server.InternalAPIKey))
			logHandler := handlers.NewLogHandler(svc.Activity)
			r.Delete("/logs", logHandler.PruneLogs)
		})

		// Everything below needs a signed-in user.
		r.Group(func(r chi.Router) {
			r.Use(requireSession)

			profileHandler := handlers.NewProfileHandler(svc.Profile, svc.Activity)
			r.Get("/profile", profileHandler.GetProfile)
			r.Put("/profile", profileHandler.UpdateProfile)
			r.Get("/activity", profileHandler.Activity)

			conversationHandler := handlers.NewConversationHandler(svc.Conversation, svc.Chat)
			r.Route("/conversation", func(r chi.Router) {
				r.Get("/", conversationHandler.ListConversations)
				r.Post("/", conversationHandler.CreateConversation)

				r.Route("/{uuid}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateUUIDMiddleware)
					r.Get("/", conversationHandler.GetConversation)
					r.Delete("/", conversationHandler.DeleteConversation)
				})
			})
			r.Post("/chat", conversationHandler.Chat)

			socketHandler := handlers.NewChatSocketHandler(svc.Conversation, svc.Chat, cfg.CORS.AllowedOrigins, logger)
			r.Get("/ws/chat", socketHandler.Serve)

			r.Route("/stock", func(r chi.Router) {
				stockHandler := handlers.NewStockHandler(svc.Search)
				r.Get("/quote", stockHandler.Quotes)
				r.Get("/trending", stockHandler.Trending)

				r.Route("/{symbol}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateSymbolMiddleware)
					r.Get("/chart", stockHandler.Chart)
					r.Get("/news", stockHandler.News)
				})
			})

			r.Route("/screener", func(r chi.Router) {
				screenerHandler := handlers.NewScreenerHandler(svc.Screener)
				r.Get("/", screenerHandler.Catalog)
				r.Get("/{screenId}", screenerHandler.Run)
			})

			watchlistHandler := handlers.NewWatchlistHandler(svc.Watchlist)
			r.Post("/watchlist/refresh", watchlistHandler.Refresh)

			r.Route("/trades", func(r chi.Router) {
				tradeHandler := handlers.NewTradeHandler(svc.Trade, svc.Risk, cfg.Limits.MaxUploadBytes)
				r.Post("/analyze", tradeHandler.Analyze)
				r.Post("/risk", tradeHandler.Risk)
			})
		})
	})

	return r
}

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/finanzasimple/api/internal/auth"
	"github.com/finanzasimple/api/internal/config"
	database "github.com/finanzasimple/api/internal/db"
	"github.com/finanzasimple/api/internal/finance/application"
	"github.com/finanzasimple/api/internal/finance/infrastructure"
	"github.com/finanzasimple/api/internal/finance/interfaces"
	"github.com/finanzasimple/api/internal/middleware"
	"github.com/finanzasimple/api/internal/user"
	"github.com/finanzasimple/api/pkg/logger"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	})
}

type Server struct {
	router             *http.ServeMux
	cfg                *config.Config
	dbService          *database.DBService
	authHandler        *auth.Handler
	authService        auth.Service
	userHandler        *user.Handler
	categoryHandler    *interfaces.CategoryHandler
	transactionHandler *interfaces.TransactionHandler
}

func NewServer(
	cfg *config.Config,
	dbService *database.DBService,
	authHandler *auth.Handler,
	authService auth.Service,
	userHandler *user.Handler,
	categoryHandler *interfaces.CategoryHandler,
	transactionHandler *interfaces.TransactionHandler,
) *Server {
	return &Server{
		router:             http.NewServeMux(),
		cfg:                cfg,
		dbService:          dbService,
		authHandler:        authHandler,
		authService:        authService,
		userHandler:        userHandler,
		categoryHandler:    categoryHandler,
		transactionHandler: transactionHandler,
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	respondError(w, http.StatusNotFound, "Path not found")
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.dbService.Health())
}

func (s *Server) RegisterRoutes() {
	protect := s.authService.JWTAccessTokenMiddleware()
	adminOnly := auth.AdminCodeMiddleware(s.cfg.AdminCode)

	// Public routes
	publicRoutes := http.NewServeMux()
	publicRoutes.Handle("POST /api/register", adminOnly(http.HandlerFunc(s.userHandler.HandleRegister)))
	publicRoutes.Handle("POST /api/auth/login", http.HandlerFunc(s.authHandler.HandleLogin))
	publicRoutes.Handle("POST /api/auth/logout", http.HandlerFunc(s.authHandler.HandleLogout))
	publicRoutes.Handle("POST /api/auth/2fa/verify", http.HandlerFunc(s.authHandler.HandleVerifyTwoFactor))
	publicRoutes.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))

	// Protected routes (using JWT Access Token Middleware)
	protectedRoutes := http.NewServeMux()
	protectedRoutes.Handle("GET /api/protected/profile", protect(http.HandlerFunc(s.userHandler.HandleGetUserProfile)))
	protectedRoutes.Handle("POST /api/protected/change-password", protect(http.HandlerFunc(s.userHandler.HandleChangePassword)))

	protectedRoutes.Handle("POST /api/protected/2fa/setup", protect(http.HandlerFunc(s.authHandler.HandleSetupTwoFactor)))
	protectedRoutes.Handle("POST /api/protected/2fa/confirm", protect(http.HandlerFunc(s.authHandler.HandleConfirmTwoFactor)))
	protectedRoutes.Handle("DELETE /api/protected/2fa/disable", protect(http.HandlerFunc(s.authHandler.HandleDisableTwoFactor)))

	// CATEGORIES API
	protectedRoutes.Handle("GET /api/protected/categories", protect(http.HandlerFunc(s.categoryHandler.ListCategories)))
	protectedRoutes.Handle("POST /api/protected/categories", protect(http.HandlerFunc(s.categoryHandler.CreateCategory)))
	protectedRoutes.Handle("PUT /api/protected/categories/{categoryID}", protect(http.HandlerFunc(s.categoryHandler.UpdateCategory)))
	protectedRoutes.Handle("PATCH /api/protected/categories/{categoryID}/visibility", protect(http.HandlerFunc(s.categoryHandler.SetCategoryVisibility)))
	protectedRoutes.Handle("DELETE /api/protected/categories/{categoryID}", protect(http.HandlerFunc(s.categoryHandler.DeleteCategory)))

	// TRANSACTIONS API
	protectedRoutes.Handle("GET /api/protected/transactions", protect(http.HandlerFunc(s.transactionHandler.GetUserTransactions)))
	protectedRoutes.Handle("POST /api/protected/transactions", protect(http.HandlerFunc(s.transactionHandler.CreateTransaction)))
	protectedRoutes.Handle("GET /api/protected/transactions/{transactionID}", protect(http.HandlerFunc(s.transactionHandler.GetTransaction)))
	protectedRoutes.Handle("PUT /api/protected/transactions/{transactionID}", protect(http.HandlerFunc(s.transactionHandler.UpdateTransaction)))
	protectedRoutes.Handle("DELETE /api/protected/transactions/{transactionID}", protect(http.HandlerFunc(s.transactionHandler.DeleteTransaction)))

	// Refresh token routes
	refreshTokenRoutes := http.NewServeMux()
	refreshTokenRoutes.Handle("PUT /api/refresh/token", s.authService.JWTRefreshTokenMiddleware()(http.HandlerFunc(s.authHandler.RefreshAccessToken)))

	// Main router
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/api/", publicRoutes)
	mainRouter.Handle("/api/protected/", protectedRoutes)
	mainRouter.Handle("/api/refresh/", refreshTokenRoutes)
	mainRouter.Handle("/", http.HandlerFunc(notFoundHandler))

	s.router = mainRouter
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic("missing configuration: " + err.Error())
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	dbService, err := database.NewDBService(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize database")
	}
	defer dbService.Close()

	if err := database.RunMigrations(dbService.DB); err != nil {
		log.Fatal().Err(err).Msg("could not run migrations")
	}

	categoryRepo := infrastructure.NewCategoryRepository(dbService.DB)
	transactionRepo := infrastructure.NewTransactionRepository(dbService.DB)

	categoryService := application.NewCategoryService(categoryRepo, transactionRepo)
	transactionService := application.NewTransactionService(transactionRepo, categoryService)

	userRepo := user.NewUserRepository(dbService.DB)
	userService := user.NewUserService(userRepo, categoryService)
	userHandler := user.NewHandler(userService)

	sessionManager := auth.NewSessionManager()
	sessionManager.StartSessionTokenCleanup(time.Minute)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret)
	authenticator := auth.Authenticator{}

	authService := auth.NewAuthService(userService, sessionManager, jwtManager, authenticator)
	authHandler := auth.NewHandler(authService)

	categoryHandler := interfaces.NewCategoryHandler(categoryService, respondJSON, respondError)
	transactionHandler := interfaces.NewTransactionHandler(transactionService, respondJSON, respondError)

	server := NewServer(cfg, dbService, authHandler, authService, userHandler, categoryHandler, transactionHandler)
	server.RegisterRoutes()

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)
	defer rateLimiter.Stop()

	handler := middleware.RequestLogging(
		middleware.CORS(cfg.AllowedOrigins)(
			rateLimiter.Middleware(server.router),
		),
	)

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatal().Err(err).Msg("server failed to start")
	}
}

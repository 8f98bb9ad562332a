package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/finwise/backend/src/config"
	"github.com/username/finwise/backend/src/database"
	"github.com/username/finwise/backend/src/handlers"
	"github.com/username/finwise/backend/src/logger"
	"github.com/username/finwise/backend/src/security"
	"github.com/username/finwise/backend/src/services"
	"github.com/username/finwise/backend/src/store"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			config.Cfg.FrontendBaseURL: true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Requested-With, Cookie, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "X-CSRF-Token, ETag")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path, "origin", origin)
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Finwise backend server starting...")

	if config.Cfg.JWTSecret == "" || len(config.Cfg.JWTSecret) < 32 {
		logger.L.Error("JWT_SECRET configuration invalid. Must be at least 32 bytes.")
		os.Exit(1)
	}
	if len(config.Cfg.CSRFAuthKey) < 32 {
		logger.L.Error("CSRF_AUTH_KEY must be at least 32 bytes long.")
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	db, err := database.Connect(config.Cfg.DatabasePath)
	if err != nil {
		logger.L.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.L.Info("Database initialized successfully.")

	logger.L.Info("Initializing report cache...")
	reportCache := cache.New(15*time.Minute, 30*time.Minute)

	logger.L.Info("Initializing services and handlers...")
	authService := security.NewAuthService(config.Cfg.JWTSecret)
	emailService := services.NewEmailService()

	expenseStore := store.NewExpenseStore(db)
	importService := services.NewImportService(expenseStore, reportCache, config.Cfg.MaxImportBatchSize)
	uploadService := services.NewUploadService(importService)
	expenseService := services.NewExpenseService(expenseStore, reportCache)
	aiService := services.NewAIService(config.Cfg.OpenAIAPIKey, config.Cfg.OpenAIModel)

	userHandler := handlers.NewUserHandler(db, authService, emailService)
	uploadHandler := handlers.NewUploadHandler(uploadService)
	importHandler := handlers.NewImportHandler(importService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	analysisHandler := handlers.NewAnalysisHandler(aiService, importService, expenseService, reportCache)

	handlers.InitializeGoogleOAuthConfig()

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()
	csrfProtection := handlers.NewCSRFProtection(config.Cfg.CSRFAuthKey)

	// Public GET routes (no CSRF needed for these GETs)
	apiRouter.HandleFunc("GET /api/auth/csrf", csrfProtection.IssueToken)
	apiRouter.HandleFunc("GET /api/auth/verify-email", userHandler.VerifyEmailHandler)
	apiRouter.HandleFunc("GET /api/auth/google/login", userHandler.HandleGoogleLogin)
	apiRouter.HandleFunc("GET /api/auth/google/callback", userHandler.HandleGoogleCallback)

	// Auth actions router - POST routes need CSRF
	authActionRouter := http.NewServeMux()
	authActionRouter.HandleFunc("POST /login", userHandler.LoginUserHandler)
	authActionRouter.HandleFunc("POST /register", userHandler.RegisterUserHandler)
	authActionRouter.HandleFunc("POST /refresh", userHandler.RefreshTokenHandler)
	authActionRouter.HandleFunc("POST /logout", userHandler.AuthMiddleware(userHandler.LogoutUserHandler))

	apiRouter.Handle("/api/auth/", http.StripPrefix("/api/auth", csrfProtection.Middleware(authActionRouter)))

	// CSRF and Auth middleware for protected API routes
	applyCsrfAndAuth := func(handler http.HandlerFunc) http.Handler {
		return csrfProtection.Middleware(http.HandlerFunc(userHandler.AuthMiddleware(handler)))
	}

	apiRouter.Handle("GET /api/expenses", applyCsrfAndAuth(expenseHandler.HandleListExpenses))
	apiRouter.Handle("POST /api/expenses", applyCsrfAndAuth(expenseHandler.HandleCreateExpense))
	apiRouter.Handle("PUT /api/expenses/{id}", applyCsrfAndAuth(expenseHandler.HandleUpdateExpense))
	apiRouter.Handle("DELETE /api/expenses/{id}", applyCsrfAndAuth(expenseHandler.HandleDeleteExpense))
	apiRouter.Handle("GET /api/expenses/summary", applyCsrfAndAuth(expenseHandler.HandleGetSummary))
	apiRouter.Handle("GET /api/balance", applyCsrfAndAuth(expenseHandler.HandleGetBalance))
	apiRouter.Handle("PUT /api/balance", applyCsrfAndAuth(expenseHandler.HandleSetBalance))
	apiRouter.Handle("POST /api/import-transactions", applyCsrfAndAuth(importHandler.HandleImportTransactions))
	apiRouter.Handle("POST /api/upload", applyCsrfAndAuth(uploadHandler.HandleUpload))
	apiRouter.Handle("POST /api/analyze-text", applyCsrfAndAuth(analysisHandler.HandleAnalyzeText))
	apiRouter.Handle("POST /api/ai-advice", applyCsrfAndAuth(analysisHandler.HandleGetAdvice))

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "Finwise backend is running"})
		} else {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
				http.NotFound(w, r)
			}
		}
	})

	logger.L.Info("Applying global middleware...")
	finalHandler := enableCORS(rateLimitMiddleware(rootMux))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}

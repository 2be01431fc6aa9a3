package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"devflow-backend/internal/database"
	"devflow-backend/internal/handlers"
	customMiddleware "devflow-backend/internal/middleware"
	"devflow-backend/internal/notify"
	"devflow-backend/internal/repository"
	"devflow-backend/internal/revalidate"
	"devflow-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env (ignore error in production — env vars set directly)
	_ = godotenv.Load()

	// Required env vars
	mongoURI := getEnv("MONGODB_URI", "")
	dbName := getEnv("DB_NAME", "devflow")
	jwtSecret := getEnv("JWT_SECRET", "")
	port := getEnv("PORT", "8080")
	revalidateURL := getEnv("REVALIDATE_URL", "")

	if mongoURI == "" {
		log.Fatal("❌ MONGODB_URI is required")
	}
	if jwtSecret == "" {
		log.Fatal("❌ JWT_SECRET is required")
	}

	// Connect to MongoDB
	db, err := database.Connect(mongoURI, dbName)
	if err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(ctx); err != nil {
			log.Printf("⚠️  Warning: failed to close MongoDB connection: %v", err)
		}
	}()

	// Initialize repositories
	questionRepo := repository.NewQuestionRepo(db)
	tagRepo := repository.NewTagRepo(db)
	userRepo := repository.NewUserRepo(db)
	interactionRepo := repository.NewInteractionRepo(db)
	answerRepo := repository.NewAnswerRepo(db)

	// Ensure indexes
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := questionRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create question indexes: %v", err)
	}
	if err := tagRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create tag indexes: %v", err)
	}
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create user indexes: %v", err)
	}
	if err := interactionRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create interaction indexes: %v", err)
	}
	if err := answerRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create answer indexes: %v", err)
	}

	// Revalidation signaler: webhook when configured, log-only otherwise
	var signaler revalidate.Signaler
	if revalidateURL != "" {
		signaler = revalidate.NewHTTPSignaler(revalidateURL)
	} else {
		log.Println("⚠️  REVALIDATE_URL not set, logging revalidate signals only")
		signaler = revalidate.NewLogSignaler()
	}

	// Notifier: Resend when configured, mock otherwise
	var notifier notify.Notifier
	if apiKey := os.Getenv("RESEND_API_KEY"); apiKey != "" {
		notifier = notify.NewEmailNotifier(apiKey, os.Getenv("FROM_EMAIL"), os.Getenv("NOTIFY_EMAIL"))
	} else {
		log.Println("⚠️  RESEND_API_KEY not set, logging notifications only")
		notifier = notify.NewMockNotifier()
	}

	// Initialize service and handlers
	questionService := service.NewService(questionRepo, tagRepo, userRepo, interactionRepo, answerRepo, signaler, notifier)
	questionHandler := handlers.NewQuestionHandler(questionService)

	// Setup chi router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"devflow-backend"}`))
	})

	// Public routes (no auth required)
	r.Get("/questions", questionHandler.List)
	r.Get("/questions/hot", questionHandler.Hot)
	r.Get("/questions/{id}", questionHandler.GetByID)

	// Protected routes (JWT required)
	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.JWTAuth(jwtSecret))

		r.Get("/questions/recommended", questionHandler.Recommended)
		r.Post("/questions", questionHandler.Create)
		r.Put("/questions/{id}", questionHandler.Edit)
		r.Delete("/questions/{id}", questionHandler.Delete)
		r.Post("/questions/{id}/upvote", questionHandler.Upvote)
		r.Post("/questions/{id}/downvote", questionHandler.Downvote)
	})

	// Start server
	log.Printf("🚀 Devflow backend starting on port %s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

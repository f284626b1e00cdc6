package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/breatheapp/breathe-backend/internal/config"
	"github.com/breatheapp/breathe-backend/internal/database"
	"github.com/breatheapp/breathe-backend/internal/handlers"
	"github.com/breatheapp/breathe-backend/internal/metrics"
	"github.com/breatheapp/breathe-backend/internal/middleware"
	"github.com/breatheapp/breathe-backend/internal/routes"
	"github.com/breatheapp/breathe-backend/internal/services"
	"github.com/breatheapp/breathe-backend/internal/store"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	// Load configuration
	cfg := config.Load()

	// Profile store: MongoDB when configured, local file otherwise (demo mode)
	var profiles store.ProfileStore
	if cfg.MongoConfigured() {
		log.Printf("Connecting to MongoDB...")
		client, db, err := database.ConnectMongo(cfg.MongoURI)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB:", err)
		}
		defer database.DisconnectMongo(client)
		profiles = store.NewMongoStore(db)
	} else {
		log.Println("⚠️  MongoDB not configured. Using local file store (demo mode). Data saved to", cfg.DataFile)
		local, err := store.NewLocalStore(cfg.DataFile)
		if err != nil {
			log.Fatal("Failed to open local store:", err)
		}
		profiles = local
	}

	// Sessions: Redis when configured, in-memory otherwise
	var sessions services.SessionService
	var redisRateLimit func(http.Handler) http.Handler
	if cfg.RedisConfigured() {
		log.Printf("Connecting to Redis...")
		redisClient, err := database.ConnectRedis(cfg.RedisURI)
		if err != nil {
			log.Fatal("Failed to connect to Redis:", err)
		}
		defer redisClient.Close()
		sessions = services.NewRedisSessions(redisClient)
		redisRateLimit = middleware.RateLimit(redisClient)
	} else {
		log.Println("⚠️  Redis not configured. Sessions are in-memory and reset on restart.")
		sessions = services.NewMemorySessions()
	}

	// Gemini advisor: static fallbacks when no API key is set
	var advisor services.Advisor
	if cfg.GeminiConfigured() {
		g, err := services.NewGeminiAdvisor(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Printf("Warning: Failed to initialize Gemini: %v", err)
			log.Println("Generated messages will fall back to static content")
			advisor = services.NewUnavailableAdvisor()
		} else {
			log.Println("✅ Gemini advisor initialized")
			advisor = g
		}
	} else {
		log.Println("Warning: GEMINI_API_KEY not set. Messages will use static fallback content")
		advisor = services.NewUnavailableAdvisor()
	}

	rates := metrics.Rates{CostPerHour: cfg.CostPerHour, UnitsPerHour: cfg.UnitsPerHour}
	dailyMessages := services.NewDailyMessageService(profiles, advisor)
	h := handlers.NewHandler(profiles, sessions, advisor, dailyMessages, rates)

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Global per-IP rate limit needs Redis; the SOS limiter is in-memory and always on
	if redisRateLimit != nil && cfg.IsProduction() {
		r.Use(redisRateLimit)
		log.Println("✅ Production rate limiting enabled (Redis-backed, per IP)")
	}
	r.Use(middleware.SOSRateLimit)

	// Health check (no auth)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Setup routes
	routes.SetupRoutes(r, h)

	log.Println("📋 Registered routes:")
	log.Println("  GET  /health")
	log.Println("  POST /api/auth/anonymous")
	log.Println("  GET  /api/profile")
	log.Println("  POST /api/onboarding")
	log.Println("  POST /api/sos")
	log.Println("  GET  /api/stats")
	log.Println("  GET  /ws/stats")

	log.Printf("🚀 Breathe backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"courtside-backend/internal/api"
	"courtside-backend/internal/cache"
	"courtside-backend/internal/config"
	"courtside-backend/internal/llm"
	"courtside-backend/internal/service"
	"courtside-backend/internal/warehouse"
)

func main() {
	cfg, err := config.Load(os.Getenv("COURTSIDE_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize Services
	llmService := llm.NewService(cfg.Ollama.BaseURL, cfg.Ollama.Model)
	pipeline := service.NewPipelineService()

	wh, err := warehouse.Connect(warehouse.Config{
		Host:     cfg.Warehouse.Host,
		Port:     cfg.Warehouse.Port,
		User:     cfg.Warehouse.User,
		Password: cfg.Warehouse.Password,
		DBName:   cfg.Warehouse.DBName,
		SSLMode:  cfg.Warehouse.SSLMode,
	}, cfg.MaxRows)
	if err != nil {
		log.Fatalf("Failed to connect to warehouse: %v", err)
	}
	defer wh.Close()

	store, err := cache.Open(cfg.CachePath)
	if err != nil {
		log.Printf("⚠️  Cache disabled: %v", err)
		store = nil
	} else {
		defer store.Close()
	}

	// Initialize Handler
	handler := api.NewHandler(pipeline, llmService, wh, store)

	// Router Setup
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	// CORS - Allow frontend
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:3001", "http://127.0.0.1:3000"},

		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Root endpoint
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Courtside Backend is Running"))
	})

	// Register all API Routes
	handler.RegisterRoutes(r)

	log.Printf("🚀 Starting Courtside Backend on http://localhost:%s", cfg.Port)
	log.Printf("📡 Ollama model: %s at %s", cfg.Ollama.Model, cfg.Ollama.BaseURL)
	log.Printf("🗄️  Warehouse: %s@%s:%d/%s", cfg.Warehouse.User, cfg.Warehouse.Host, cfg.Warehouse.Port, cfg.Warehouse.DBName)

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"pricetrack/config"
	"pricetrack/database"
	"pricetrack/extractor"
	"pricetrack/handlers"
	"pricetrack/middleware"
	"pricetrack/notifier"
	"pricetrack/repository"
	"pricetrack/scheduler"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	// Initialize database
	if err := database.InitDatabase(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	if err := database.CreateTables(); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository()
	prefRepo := repository.NewPreferenceRepository()

	router := extractor.NewRouter(log.Default())
	mailer := notifier.NewNotifier(cfg.SMTP)

	h := handlers.NewHandlers(productRepo, prefRepo, router, mailer)
	defer h.Close()

	// Initialize and start the scheduled price checker
	priceChecker := scheduler.NewPriceChecker(router, productRepo, prefRepo, mailer)
	priceChecker.Start()
	defer priceChecker.Stop()

	// Setup router
	r := mux.NewRouter()

	r.Use(middleware.Logging)
	r.Use(middleware.RateLimit(cfg.RateLimit))
	r.Use(middleware.APIKey(cfg.APIKey, cfg.RequireAPIKey))

	r.HandleFunc("/health", healthCheck).Methods("GET")

	apiV1 := r.PathPrefix("/api/v1").Subrouter()

	// Product tracking
	apiV1.HandleFunc("/products", h.TrackProduct).Methods("POST")
	apiV1.HandleFunc("/products", h.GetProducts).Methods("GET")
	apiV1.HandleFunc("/products/{id}", h.GetProduct).Methods("GET")
	apiV1.HandleFunc("/products/{id}", h.DeleteProduct).Methods("DELETE")
	apiV1.HandleFunc("/products/{id}/refresh", h.RefreshProduct).Methods("POST")
	apiV1.HandleFunc("/products/{id}/refresh-async", h.RefreshProductAsync).Methods("POST")
	apiV1.HandleFunc("/products/{id}/alert", h.SetAlert).Methods("POST")
	apiV1.HandleFunc("/products/{id}/history", h.GetPriceHistory).Methods("GET")

	// Task management
	apiV1.HandleFunc("/tasks/stats", h.GetTaskStats).Methods("GET")
	apiV1.HandleFunc("/tasks/{taskId}", h.GetTaskStatus).Methods("GET")

	// Notification preferences
	apiV1.HandleFunc("/preferences", h.GetPreferences).Methods("GET")
	apiV1.HandleFunc("/preferences", h.UpdatePreferences).Methods("PUT")

	// CORS configuration
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	addr := cfg.Host + ":" + cfg.Port
	log.Printf("🚀 Server starting on %s", addr)
	log.Fatal(http.ListenAndServe(addr, c.Handler(r)))
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"service":     "pricetrack",
		"status":      "healthy",
		"timestamp":   time.Now(),
		"api_version": "v1",
	})
}

package main

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"carteira/internal/db"
	"carteira/internal/handlers"
	"carteira/internal/logger"
	"carteira/internal/repositories"
	"carteira/internal/services"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Database connection
	config := db.NewConfig()
	database, err := db.Connect(config)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Health(); err != nil {
		log.Fatal("Database health check failed", zap.Error(err))
	}
	if err := database.Migrate(); err != nil {
		log.Fatal("Database migration failed", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize repositories
	transactionRepo := repositories.NewTransactionRepository(database)
	positionRepo := repositories.NewPositionRepository(database)
	assetRepo := repositories.NewAssetRepository(database)

	// Initialize services. One lock table is shared by both position
	// writers so per-key serialization holds across them.
	locks := services.NewKeyedMutex()
	transactionService := services.NewTransactionService(database, transactionRepo, positionRepo, assetRepo, locks, log)
	positionService := services.NewPositionService(database, positionRepo, transactionRepo, assetRepo, locks, log)
	assetService := services.NewAssetService(assetRepo)

	// Initialize handlers
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	positionHandler := handlers.NewPositionHandler(positionService)
	assetHandler := handlers.NewAssetHandler(assetService)

	// Setup HTTP router
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "healthy",
			"service": "carteira-backend",
		})
	})

	// Transaction endpoints
	router.HandleFunc("/api/transactions", transactionHandler.HandleRecordTransaction).Methods(http.MethodPost)
	router.HandleFunc("/api/transactions", transactionHandler.HandleListTransactions).Methods(http.MethodGet)
	router.HandleFunc("/api/transactions/{id}", transactionHandler.HandleTransactionByID).Methods(http.MethodGet)

	// Position endpoints
	router.HandleFunc("/api/positions", positionHandler.HandlePositions).Methods(http.MethodGet)
	router.HandleFunc("/api/positions/recalculate", positionHandler.HandleRecalculate).Methods(http.MethodPost)
	router.HandleFunc("/api/positions/{id}", positionHandler.HandlePositionByID).Methods(http.MethodGet)
	router.HandleFunc("/api/portfolios/{id}/positions/summary", positionHandler.HandlePortfolioSummary).Methods(http.MethodGet)

	// Asset endpoints
	router.HandleFunc("/api/assets", assetHandler.HandleAssets).Methods(http.MethodGet, http.MethodPost)
	router.HandleFunc("/api/assets/{id}", assetHandler.HandleAssetByID).Methods(http.MethodGet)

	// CORS middleware
	corsHandler := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	log.Info("Server starting", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, corsHandler(router)); err != nil {
		log.Fatal("Server stopped", zap.Error(err))
	}
}

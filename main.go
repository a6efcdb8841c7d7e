package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"appointments-server/internal/appointments"
	"appointments-server/internal/config"
	"appointments-server/internal/models"
	"appointments-server/internal/repository"
	"appointments-server/internal/routes"
	"appointments-server/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize the repository for the configured driver
	var repo appointments.Repository
	switch cfg.RepositoryDriver {
	case "memory":
		repo = repository.NewMemoryStore()
		log.Println("Using in-memory repository")
	default:
		db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN})
		if err != nil {
			log.Fatalf("Error connecting to database: %v", err)
		}
		repo = repository.NewGormStore(db)
	}

	clock := appointments.SystemClock()
	engine := appointments.NewEngine(repo, clock)
	managerService := services.NewManagerService(repo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Provision the bootstrap manager; a no-op when already registered
	if _, err := managerService.EnsureManagerExists(ctx, cfg.ManagerEmail); err != nil {
		log.Fatalf("Error provisioning manager %s: %v", cfg.ManagerEmail, err)
	}

	// Start the expiration sweeper
	sweeper := services.NewExpirationService(engine, clock, cfg.ExpirationCheckInterval)
	go sweeper.Run(ctx)

	// Initialize Gin router
	router := gin.Default()

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Requestor"}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, repo, engine, clock, managerService)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}
	go func() {
		log.Printf("Server running on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown: cancelling the context also stops the sweeper
	<-ctx.Done()
	log.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}

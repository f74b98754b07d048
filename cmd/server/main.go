package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"core/internal/config"
	"core/internal/handler"
	"core/internal/repository"
	"core/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	log.Printf("Apartment Search Assistant")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Initialize database connection
	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	log.Println("✅ Connected to PostgreSQL database")

	// Initialize AI intent resolver
	resolver := service.NewResolverClient(&cfg.OpenAI)
	if resolver.IsEnabled() {
		log.Printf("✅ AI intent resolver enabled")
		log.Printf("   - API Base: %s", cfg.OpenAI.APIBase)
		log.Printf("   - Model: %s", cfg.OpenAI.Model)
		log.Printf("   - Timeout: %ds", cfg.OpenAI.TimeoutSeconds)
	} else {
		log.Println("⚠️  AI intent resolver disabled - falling back to heuristic parsing only")
		log.Println("   Set OPENAI_API_KEY environment variable to enable it")
	}

	// Initialize services
	assistant := service.NewAssistantService(
		repo,
		resolver,
		cfg.Assistant.DefaultLimit,
		cfg.Assistant.MaxLimit,
	)

	log.Println("✅ Services initialized")

	// Initialize handlers
	assistantHandler := handler.NewAssistantHandler(assistant)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "apartment-search-assistant",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/assistant/chat", assistantHandler.Chat)
		apiV1.GET("/apartments/:id", assistantHandler.GetApartment)
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("🚀 Starting server on %s", addr)

	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	log.Println("✅ Server stopped")
}

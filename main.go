package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"menuboard/api/analytics"
	"menuboard/api/database"
	"menuboard/api/handlers"
	"menuboard/api/jobs"
	"menuboard/api/middleware"
	"menuboard/api/store"
)

func main() {
	// Load .env file at the very start
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- PostgreSQL: users, menus, subscriptions, persisted insights ---
	dbClient, err := database.NewPostgresDB()
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL database: %v", err)
	}
	defer dbClient.Close()

	// --- ClickHouse: append-only menu interaction events ---
	chClient, err := database.NewClickHouseDB()
	if err != nil {
		log.Fatalf("Failed to initialize ClickHouse database: %v", err)
	}
	defer chClient.Close()

	// --- Stores ---
	userStore := store.NewUserStore(dbClient.DB)
	menuStore := store.NewMenuStore(dbClient.DB)
	eventStore := store.NewEventStore(chClient)
	insightsStore := store.NewInsightsStore(dbClient.DB)

	// --- Analytics pipeline ---
	collector := analytics.NewCollector(userStore, menuStore, eventStore)
	generator := analytics.NewInsightsGenerator(insightsStore)

	// --- Handlers ---
	authHandlers := handlers.NewAuthHandlers(userStore)
	trackHandlers := handlers.NewTrackHandlers(eventStore)
	insightsHandlers := handlers.NewInsightsHandlers(collector, generator)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			if err := dbClient.DB.PingContext(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "postgres unreachable"})
				return
			}
			if err := chClient.Conn.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "clickhouse unreachable"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Authentication endpoints (no authentication required)
		api.POST("/signup", authHandlers.Signup)
		api.POST("/login", authHandlers.Login)
		api.POST("/logout", authHandlers.Logout)

		// Public menu pages report interactions here.
		api.POST("/track", trackHandlers.TrackEvents)

		// Protected routes (require a valid JWT token)
		protected := api.Group("/")
		protected.Use(middleware.AuthRequired())
		{
			protected.GET("/insights", insightsHandlers.GetInsights)

			analyticsGroup := protected.Group("/analytics")
			{
				analyticsGroup.GET("/summary", insightsHandlers.GetSummary)
			}
		}
	}

	// --- Scheduled insights refresh ---
	refresher := jobs.NewInsightsRefresher(userStore, collector, generator)
	if err := refresher.Start(os.Getenv("INSIGHTS_REFRESH_SPEC")); err != nil {
		log.Fatalf("Failed to start insights refresher: %v", err)
	}
	defer refresher.Stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("Menuboard API server starting on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("API server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}

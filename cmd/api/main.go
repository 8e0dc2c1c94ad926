package main

import (
	"log"
	"net/http"
	"os"
	"runtime/debug"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/memstore"
	"github.com/gin-gonic/gin"
	"github.com/jobintellect/jobintellect/internal/database"
	"github.com/jobintellect/jobintellect/internal/handlers"
	"github.com/jobintellect/jobintellect/internal/scraper"
	"github.com/jobintellect/jobintellect/internal/services"
	"github.com/joho/godotenv"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// Environment: .env is optional, real env always wins.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	dbPath := getenv("JOB_DB", "job_analytics.db")
	exportDir := getenv("EXPORT_DIR", ".")
	port := getenv("PORT", "8080")
	sessionSecret := getenv("SESSION_SECRET", "dev-secret-key")

	// Database connection + migrations
	db := database.Connect(dbPath)

	// Core services
	jobService := services.NewJobService(db)
	exportService := services.NewExportService(exportDir)
	searchService := services.NewSearchService(jobService, exportService, scraper.Config{
		BaseURL: os.Getenv("SCRAPE_BASE_URL"),
	})

	searchHandler := handlers.NewSearchHandler(searchService, jobService, exportService)

	// Router, CORS, cookie-keyed result session
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("panic recovered: %v\n%s", recovered, debug.Stack())
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Internal server error",
		})
	}))

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(config))

	r.Use(sessions.Sessions("jobintellect", memstore.NewStore([]byte(sessionSecret))))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Endpoint not found"})
	})

	searchHandler.Register(r)

	log.Printf("Starting JobIntellect Analytics on port %s...", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}

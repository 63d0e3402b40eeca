package main

import (
	"context"
	"log"
	"os"

	"stocktake/cmd"
	"stocktake/internal/assets"
	"stocktake/internal/database"
	"stocktake/internal/importer"
	"stocktake/internal/inventory"
	"stocktake/internal/locations"
	"stocktake/internal/middleware"
	"stocktake/internal/reports"
	"stocktake/internal/repository"
	"stocktake/internal/users"
	"stocktake/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	cmd.Execute(ctx)
}

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer db.Close()

	log.Println("Connected to the database successfully!")

	repo := repository.NewRepository(db)

	router := gin.Default()
	router.Use(middleware.RecoveryMiddleware())

	security.NewLoginHandler(repo).RegisterRoutes(router)
	locations.RegisterRoutes(router, repo)
	assets.RegisterRoutes(router, repo)
	inventory.RegisterRoutes(router, repo)
	importer.RegisterRoutes(router, repo)
	reports.RegisterRoutes(router, repo)
	users.RegisterRoutes(router, repo)

	router.GET("/health", middleware.HealthCheckHandler())

	if err := router.Run(os.Getenv("APP_HOST")); err != nil {
		panic(err)
	}
}

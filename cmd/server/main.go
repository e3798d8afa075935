package main

import (
	"fmt"
	"log"

	"gestloc/internal/api/routes"
	"gestloc/internal/config"
	"gestloc/internal/models"
	"gestloc/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	if err := models.InitDB(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Seed the default super-admin if the database is empty
	authCtxService := services.NewAuthContextService(cfg, nil, nil)
	if err := authCtxService.EnsureDefaultSuperAdmin(); err != nil {
		log.Printf("Warning: Failed to create default super admin: %v", err)
	}

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	r := gin.Default()

	// Setup routes
	routes.SetupRoutes(r, cfg)

	// Run server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting GestLoc server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

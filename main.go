package main

import (
	"log"

	"github.com/velora-shop/velora/config"
	"github.com/velora-shop/velora/controllers"
	"github.com/velora-shop/velora/routes"
	"github.com/velora-shop/velora/utils"
)

func main() {
	// Initialize logger
	if err := utils.InitLogger(); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	// Load environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("Error loading config: %v", err)
		log.Fatal("Error loading config:", err)
	}

	// Initialize database
	config.InitDB()

	// Create sample admin
	if err := controllers.CreateSampleAdmin(config.DB); err != nil {
		utils.LogError("Failed to create sample admin: %v", err)
		log.Fatal("Failed to create sample admin:", err)
	}

	// Create default category if none exists
	if err := controllers.CreateDefaultCategory(config.DB); err != nil {
		utils.LogError("Failed to create default category: %v", err)
		log.Fatal("Failed to create default category:", err)
	}

	// Initialize image storage (S3 or local uploads)
	if err := utils.InitStorage(); err != nil {
		utils.LogError("Failed to initialize storage: %v", err)
		log.Fatal("Failed to initialize storage:", err)
	}

	// Event publishing is optional, the shop runs without a broker
	if err := utils.InitEventPublisher(); err != nil {
		utils.LogError("Event publisher unavailable: %v", err)
	}
	defer utils.CloseEventPublisher()

	// Set up router
	router := routes.SetupRouter()

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	utils.LogInfo("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		utils.LogError("Error starting server: %v", err)
		log.Fatal("Error starting server:", err)
	}
}

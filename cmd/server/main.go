package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/switchtoindia/backend/config"
	httpDelivery "github.com/switchtoindia/backend/internal/delivery/http"
	"github.com/switchtoindia/backend/internal/infrastructure/airtable"
	"github.com/switchtoindia/backend/internal/infrastructure/catalog"
	"github.com/switchtoindia/backend/internal/infrastructure/storage"
	"github.com/switchtoindia/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting SwitchToIndia Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Initialize infrastructure dependencies
	client := airtable.NewClient(cfg.Airtable.Token, cfg.Airtable.BaseURL, cfg.Airtable.Table)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		client.SetDebug(true)
		log.Printf("Catalog client debug mode enabled")
	}

	if cfg.Airtable.Token != "" {
		log.Printf("Catalog provider configured: %s/%s", cfg.Airtable.BaseURL, cfg.Airtable.Table)
	} else {
		log.Printf("Catalog provider configured without token: %s/%s (fine behind the proxy)", cfg.Airtable.BaseURL, cfg.Airtable.Table)
	}

	provider := catalog.NewProvider(client, cfg.Catalog.TTL)
	log.Printf("Catalog TTL: %s (0 = fetch once)", cfg.Catalog.TTL)

	basketStore, err := storage.Open(cfg.Basket.DBPath)
	if err != nil {
		log.Fatalf("Failed to open basket database %q: %v", cfg.Basket.DBPath, err)
	}
	defer basketStore.Close()
	log.Printf("Basket database: %s", cfg.Basket.DBPath)

	// Initialize usecase layer
	searchService := usecase.NewSearchService(provider)
	alternativeService := usecase.NewAlternativeService(provider, usecase.AlternativeConfig{
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	})
	basketService := usecase.NewBasketService(context.Background(), basketStore)

	log.Printf("Matching: debug=%v", cfg.Matching.EnableDebugLogging)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(searchService, alternativeService, basketService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}

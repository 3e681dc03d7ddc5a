package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/SeiYaa123/renovation-intel/config"
	httpDelivery "github.com/SeiYaa123/renovation-intel/internal/delivery/http"
	"github.com/SeiYaa123/renovation-intel/internal/infrastructure/cache"
	"github.com/SeiYaa123/renovation-intel/internal/infrastructure/fetch"
	"github.com/SeiYaa123/renovation-intel/internal/infrastructure/store"
	"github.com/SeiYaa123/renovation-intel/internal/scraper"
	"github.com/SeiYaa123/renovation-intel/internal/usecase"
)

func main() {
	// .env is optional; real deployments configure through the environment
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Renovation-Intel Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Scraper: max_concurrent=%d min_interval=%s timeout=%s robots=%v",
		cfg.Scraper.MaxConcurrent, cfg.Scraper.MinInterval, cfg.Scraper.Timeout, cfg.Scraper.RespectRobots)

	// Initialize infrastructure dependencies
	supplierStore := store.NewSupplierFile(cfg.Data.SuppliersPath)
	priceCache := cache.NewFileCache(cfg.Cache.Path, cfg.Cache.TTL)
	log.Printf("Price cache: %s (ttl %s, %d entries loaded)", cfg.Cache.Path, cfg.Cache.TTL, priceCache.Size())

	limiter := fetch.NewLimiter(cfg.Scraper.MaxConcurrent, cfg.Scraper.MinInterval)
	gateway := fetch.NewGateway(limiter, fetch.Config{
		UserAgent:      cfg.Scraper.UserAgent,
		AcceptLanguage: cfg.Scraper.AcceptLanguage,
		Timeout:        cfg.Scraper.Timeout,
		RespectRobots:  cfg.Scraper.RespectRobots,
	})

	// Domain overrides for hosts whose generic heuristics fail get
	// registered here.
	overrides := scraper.NewOverrideRegistry()
	resolver := scraper.NewResolver(gateway, overrides)

	// Initialize usecase layer
	scrapeService := usecase.NewScrapeService(supplierStore, priceCache, resolver)
	compareService := usecase.NewCompareService(scrapeService)
	directoryService := usecase.NewDirectoryService(supplierStore)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(scrapeService, compareService, directoryService)

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

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mreid-dev/deckvalue/internal/api"
	"github.com/mreid-dev/deckvalue/internal/config"
	"github.com/mreid-dev/deckvalue/internal/database"
	"github.com/mreid-dev/deckvalue/internal/models"
	"github.com/mreid-dev/deckvalue/internal/pipeline"
	"github.com/mreid-dev/deckvalue/internal/services"
)

func main() {
	cfg := config.Load()

	// Initialize database
	if err := database.Initialize(cfg.DBPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	db := database.GetDB()

	// Static reference data, loaded once and treated as immutable
	rarities, err := models.LoadRarityTable(cfg.RarityTablePath)
	if err != nil {
		log.Fatalf("Failed to load rarity table: %v", err)
	}
	drops := models.DefaultDropRates()

	// Initialize services
	generationService := services.NewGenerationService(db)
	catalogService := services.NewCatalogService(db, generationService)
	corpusService := services.NewDeckCorpusService(db, generationService)
	ownershipService := services.NewOwnershipService(db, generationService)
	searchService := services.NewDeckSearchService(db, generationService)

	// Initialize the scraper client and worker
	warcryClient := services.NewWarcryClient(cfg.WarcryBaseURL, cfg.ScrapeRatePerSec)
	scrapeWorker := services.NewScrapeWorker(warcryClient, catalogService, corpusService, searchService, db)

	// Initialize snapshot service for daily value tracking
	snapshotService := services.NewSnapshotService(db, ownershipService, rarities)

	// Initialize the valuation pipeline with a generation-keyed value cache
	valueCache := pipeline.NewLRUValueCache(cfg.CacheSize, cfg.CacheTTL)
	valuePipeline := pipeline.New(
		catalogService,
		corpusService,
		ownershipService,
		searchService,
		generationService,
		valueCache,
		rarities,
		drops,
	)

	// Create a cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start scrape worker in background with panic recovery
	go func() {
		for {
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Printf("PANIC in scrape worker: %v - restarting in 30 seconds", r)
					}
				}()
				scrapeWorker.Start(ctx)
			}()

			select {
			case <-ctx.Done():
				return // Graceful shutdown
			case <-time.After(30 * time.Second):
				log.Println("Scrape worker restarting after panic recovery...")
			}
		}
	}()

	// Start snapshot service in background
	go snapshotService.Start(ctx)

	// Schedule the nightly full refresh
	scheduler := services.SetupCron(ctx, scrapeWorker, searchService)
	defer scheduler.Stop()

	// Optionally refresh the catalog on startup (if enabled or empty)
	if os.Getenv("SCRAPE_CATALOG_ON_STARTUP") == "true" {
		go func() {
			// Wait a bit for the server to be ready
			time.Sleep(5 * time.Second)
			log.Println("Starting catalog refresh on startup...")
			if err := scrapeWorker.RefreshCatalog(ctx); err != nil {
				log.Printf("Catalog refresh failed: %v", err)
			}
		}()
	}

	// Setup router
	router := api.SetupRouter(valuePipeline, catalogService, ownershipService, searchService, scrapeWorker, snapshotService, rarities, cfg.CORSOrigins)

	// Create HTTP server for graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Cancel the context to stop the background workers
	cancel()

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

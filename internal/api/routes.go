package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mreid-dev/deckvalue/internal/api/handlers"
	"github.com/mreid-dev/deckvalue/internal/metrics"
	"github.com/mreid-dev/deckvalue/internal/models"
	"github.com/mreid-dev/deckvalue/internal/pipeline"
	"github.com/mreid-dev/deckvalue/internal/services"
)

func SetupRouter(
	valuePipeline *pipeline.Pipeline,
	catalogService *services.CatalogService,
	ownershipService *services.OwnershipService,
	searchService *services.DeckSearchService,
	scrapeWorker *services.ScrapeWorker,
	snapshotService *services.SnapshotService,
	rarities models.RarityTable,
	corsOrigins string,
) *gin.Engine {
	router := gin.Default()

	// CORS configuration - allow origins from environment or use defaults
	config := cors.DefaultConfig()
	if corsOrigins != "" {
		config.AllowOrigins = strings.Split(corsOrigins, ",")
	} else {
		config.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-User-ID"}
	config.AllowCredentials = false
	router.Use(cors.New(config))
	router.Use(requestMetrics())

	// Initialize handlers
	cardHandler := handlers.NewCardHandler(catalogService)
	collectionHandler := handlers.NewCollectionHandler(ownershipService, catalogService, snapshotService, rarities)
	searchHandler := handlers.NewSearchHandler(searchService, scrapeWorker)
	valueHandler := handlers.NewValueHandler(valuePipeline)

	// API routes
	api := router.Group("/api")
	{
		// Card routes
		cards := api.Group("/cards")
		{
			cards.GET("/search", cardHandler.SearchCards)
			cards.GET("/:set/:number", cardHandler.GetCard)
		}

		// Collection routes
		collection := api.Group("/collection")
		{
			collection.GET("", collectionHandler.GetCollection)
			collection.PUT("", collectionHandler.SetOwnership)
			collection.GET("/stats", collectionHandler.GetStats)
			collection.GET("/history", collectionHandler.GetValueHistory)
		}

		// Deck search routes
		searches := api.Group("/searches")
		{
			searches.GET("", searchHandler.ListSearches)
			searches.POST("", searchHandler.CreateSearch)
			searches.GET("/weights", searchHandler.GetWeights)
			searches.PUT("/:id/weight", searchHandler.SetWeight)
			searches.DELETE("/:id/weight", searchHandler.RemoveWeight)
			searches.POST("/:id/refresh", searchHandler.QueueRefresh)
			searches.GET("/status", searchHandler.GetScrapeStatus)
		}

		// Value table routes
		api.GET("/values", valueHandler.GetValues)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// requestMetrics records request counts and latency per route.
func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" || path == "/metrics" {
			return
		}
		metrics.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status()),
		).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(
			c.Request.Method, path,
		).Observe(time.Since(start).Seconds())
	}
}

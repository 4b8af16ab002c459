// Package metrics provides Prometheus metrics for the deck value tracker.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deckvalue_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "deckvalue_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Scrape Worker Metrics
	ScrapeRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deckvalue_scrape_runs_total",
			Help: "Scrape runs by target and result",
		},
		[]string{"target", "result"}, // target: "catalog" or "decks", result: "success" or "failed"
	)

	ScrapeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "deckvalue_scrape_duration_seconds",
			Help:    "Time taken to complete one scrape run",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	ScrapeQueueSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "deckvalue_scrape_queue_size",
			Help: "Number of deck searches waiting in the priority refresh queue",
		},
	)

	DecksScrapedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deckvalue_decks_scraped_total",
			Help: "Total number of decks ingested from scrapes",
		},
	)

	// Pipeline Metrics
	PipelineComputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "deckvalue_pipeline_compute_duration_seconds",
			Help:    "Time taken to compute one per-user value table",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	PipelineRowsComputed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "deckvalue_pipeline_rows_computed",
			Help: "Number of value rows in the most recently computed table",
		},
	)

	ValueCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deckvalue_value_cache_hits_total",
			Help: "Value table cache hit count",
		},
	)

	ValueCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deckvalue_value_cache_misses_total",
			Help: "Value table cache miss count",
		},
	)

	// Card Database Metrics
	CardCatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "deckvalue_card_catalog_size",
			Help: "Number of cards in the catalog",
		},
	)

	DeckCorpusSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "deckvalue_deck_corpus_size",
			Help: "Number of decks across all deck searches",
		},
	)

	// Collection Metrics
	CollectionCardsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "deckvalue_collection_cards_total",
			Help: "Total number of owned card copies across all users",
		},
	)

	CollectionShiftstoneValue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "deckvalue_collection_shiftstone_value",
			Help: "Total disenchant value of all owned cards in shiftstone",
		},
	)
)

// UpdateCorpusMetrics refreshes the catalog and corpus size gauges from the
// database after a scrape run.
func UpdateCorpusMetrics(db *gorm.DB) {
	var cards int64
	db.Table("cards").Count(&cards)
	CardCatalogSize.Set(float64(cards))

	var decks int64
	db.Table("decks").Count(&decks)
	DeckCorpusSize.Set(float64(decks))
}

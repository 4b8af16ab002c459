package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/mreid-dev/deckvalue/internal/metrics"
	"github.com/mreid-dev/deckvalue/internal/models"
)

const (
	// defaultScrapeInterval is how often the worker looks for stale deck
	// searches.
	defaultScrapeInterval = 15 * time.Minute

	// searchStalenessThreshold is how old a search's decks may get before the
	// worker re-scrapes them.
	searchStalenessThreshold = 24 * time.Hour
)

// ScrapeWorker keeps the catalog and deck corpus fresh. It re-scrapes stale
// deck searches on a ticker and serves user-requested refreshes from a
// priority queue first.
type ScrapeWorker struct {
	client   *WarcryClient
	catalog  *CatalogService
	corpus   *DeckCorpusService
	searches *DeckSearchService
	db       *gorm.DB

	interval time.Duration
	mu       sync.RWMutex

	// Priority queue for user-requested search refreshes
	urgentQueue []string
	urgentMu    sync.Mutex

	lastRunTime    time.Time
	decksScraped   int
	lastCatalogRun time.Time
}

// ScrapeStatus is the worker's state as reported by the API.
type ScrapeStatus struct {
	LastRunTime    time.Time `json:"last_run_time"`
	NextRunTime    time.Time `json:"next_run_time"`
	LastCatalogRun time.Time `json:"last_catalog_run"`
	DecksScraped   int       `json:"decks_scraped"`
	QueueSize      int       `json:"queue_size"`
}

func NewScrapeWorker(client *WarcryClient, catalog *CatalogService, corpus *DeckCorpusService, searches *DeckSearchService, db *gorm.DB) *ScrapeWorker {
	return &ScrapeWorker{
		client:   client,
		catalog:  catalog,
		corpus:   corpus,
		searches: searches,
		db:       db,
		interval: defaultScrapeInterval,
	}
}

// QueueRefresh adds a deck search to the high-priority refresh queue and
// returns its queue position.
func (w *ScrapeWorker) QueueRefresh(searchID string) int {
	w.urgentMu.Lock()
	defer w.urgentMu.Unlock()

	for i, id := range w.urgentQueue {
		if id == searchID {
			return i + 1
		}
	}
	w.urgentQueue = append(w.urgentQueue, searchID)
	log.Printf("Scrape worker: queued refresh for search %s (queue size: %d)", searchID, len(w.urgentQueue))
	metrics.ScrapeQueueSize.Set(float64(len(w.urgentQueue)))
	return len(w.urgentQueue)
}

// GetQueueSize returns current urgent queue size
func (w *ScrapeWorker) GetQueueSize() int {
	w.urgentMu.Lock()
	defer w.urgentMu.Unlock()
	return len(w.urgentQueue)
}

// GetStatus reports the worker's current state.
func (w *ScrapeWorker) GetStatus() ScrapeStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return ScrapeStatus{
		LastRunTime:    w.lastRunTime,
		NextRunTime:    w.lastRunTime.Add(w.interval),
		LastCatalogRun: w.lastCatalogRun,
		DecksScraped:   w.decksScraped,
		QueueSize:      w.GetQueueSize(),
	}
}

// Start begins the background scrape worker.
func (w *ScrapeWorker) Start(ctx context.Context) {
	log.Printf("Scrape worker started: checking for stale deck searches every %v", w.interval)

	// Run immediately on startup
	w.runOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Scrape worker stopping...")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

// runOnce drains the urgent queue, then refreshes any stale searches.
func (w *ScrapeWorker) runOnce(ctx context.Context) {
	start := time.Now()

	for {
		searchID, ok := w.popUrgent()
		if !ok {
			break
		}
		if err := w.RefreshSearch(ctx, searchID); err != nil {
			log.Printf("Scrape worker: urgent refresh of search %s failed: %v", searchID, err)
		}
		if ctx.Err() != nil {
			return
		}
	}

	stale, err := w.staleSearches()
	if err != nil {
		log.Printf("Scrape worker: failed to list stale searches: %v", err)
		return
	}
	for _, search := range stale {
		if err := w.RefreshSearch(ctx, search.ID); err != nil {
			log.Printf("Scrape worker: refresh of search %s failed: %v", search.ID, err)
		}
		if ctx.Err() != nil {
			return
		}
	}

	w.mu.Lock()
	w.lastRunTime = time.Now()
	w.mu.Unlock()

	metrics.ScrapeDuration.Observe(time.Since(start).Seconds())
	metrics.UpdateCorpusMetrics(w.db)
}

func (w *ScrapeWorker) popUrgent() (string, bool) {
	w.urgentMu.Lock()
	defer w.urgentMu.Unlock()
	if len(w.urgentQueue) == 0 {
		return "", false
	}
	id := w.urgentQueue[0]
	w.urgentQueue = w.urgentQueue[1:]
	metrics.ScrapeQueueSize.Set(float64(len(w.urgentQueue)))
	return id, true
}

func (w *ScrapeWorker) staleSearches() ([]models.DeckSearch, error) {
	cutoff := time.Now().Add(-searchStalenessThreshold)
	var searches []models.DeckSearch
	err := w.db.Where("scraped_at < ? OR scraped_at IS NULL", cutoff).
		Order("scraped_at").
		Find(&searches).Error
	return searches, err
}

// RefreshCatalog downloads and replaces the full card catalog.
func (w *ScrapeWorker) RefreshCatalog(ctx context.Context) error {
	cards, err := w.client.FetchCards(ctx)
	if err != nil {
		metrics.ScrapeRunsTotal.WithLabelValues("catalog", "failed").Inc()
		return err
	}
	if err := w.catalog.ReplaceCatalog(cards); err != nil {
		metrics.ScrapeRunsTotal.WithLabelValues("catalog", "failed").Inc()
		return err
	}

	w.mu.Lock()
	w.lastCatalogRun = time.Now()
	w.mu.Unlock()

	metrics.ScrapeRunsTotal.WithLabelValues("catalog", "success").Inc()
	metrics.CardCatalogSize.Set(float64(len(cards)))
	log.Printf("Scrape worker: catalog refreshed with %d cards", len(cards))
	return nil
}

// RefreshSearch re-scrapes one deck search and replaces its decks.
func (w *ScrapeWorker) RefreshSearch(ctx context.Context, searchID string) error {
	search, err := w.searches.GetDeckSearch(searchID)
	if err != nil {
		return err
	}

	decks, err := w.client.FetchDecks(ctx, *search)
	if err != nil {
		metrics.ScrapeRunsTotal.WithLabelValues("decks", "failed").Inc()
		return err
	}
	if err := w.corpus.ReplaceDecks(searchID, decks); err != nil {
		metrics.ScrapeRunsTotal.WithLabelValues("decks", "failed").Inc()
		return err
	}

	w.mu.Lock()
	w.decksScraped += len(decks)
	w.mu.Unlock()

	metrics.ScrapeRunsTotal.WithLabelValues("decks", "success").Inc()
	metrics.DecksScrapedTotal.Add(float64(len(decks)))
	log.Printf("Scrape worker: search %q refreshed with %d decks", search.Name, len(decks))
	return nil
}

// SetupCron schedules the nightly full refresh: catalog at 04:00, then every
// deck search. Returns the started scheduler so the caller can stop it on
// shutdown.
func SetupCron(ctx context.Context, worker *ScrapeWorker, searches *DeckSearchService) *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("0 4 * * *", func() {
		// Nightly at 4 AM: refresh catalog, then all searches
		if err := worker.RefreshCatalog(ctx); err != nil {
			log.Printf("Cron: catalog refresh failed: %v", err)
		}
		all, err := searches.ListDeckSearches()
		if err != nil {
			log.Printf("Cron: failed to list deck searches: %v", err)
			return
		}
		for _, search := range all {
			worker.QueueRefresh(search.ID)
		}
	})
	if err != nil {
		log.Printf("Cron: failed to schedule nightly refresh: %v", err)
	}

	c.Start()
	return c
}

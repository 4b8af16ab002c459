// Package pipeline derives per-user card valuations from scraped deck data.
// It is pure over its inputs: every stage consumes materialized in-memory
// tables and constructs new output rows, so recomputation for the same
// upstream snapshot always yields identical results.
package pipeline

import (
	"fmt"
	"time"

	"github.com/mreid-dev/deckvalue/internal/metrics"
	"github.com/mreid-dev/deckvalue/internal/models"
)

// CatalogProvider supplies the card catalog snapshot.
type CatalogProvider interface {
	GetAllCards() ([]models.Card, error)
}

// CorpusProvider supplies the decks matching a deck search.
type CorpusProvider interface {
	GetDecks(search models.DeckSearch) ([]models.Deck, error)
}

// OwnershipProvider supplies a user's owned copy-counts.
type OwnershipProvider interface {
	GetOwnership(userID string) (map[models.CardID]int, error)
}

// SearchProvider supplies a user's weighted deck searches.
type SearchProvider interface {
	GetWeightedSearches(userID string) ([]models.WeightedDeckSearch, error)
}

// GenerationProvider supplies the upstream version fingerprint used for cache
// keys.
type GenerationProvider interface {
	Fingerprint(userID string, searchIDs []string) (string, error)
}

// Pipeline is the valuation pipeline entry point. It carries no mutable state
// of its own beyond the advisory cache, so one instance serves all users
// concurrently.
type Pipeline struct {
	catalog     CatalogProvider
	corpus      CorpusProvider
	ownership   OwnershipProvider
	searches    SearchProvider
	generations GenerationProvider
	cache       ValueCache
	rarities    models.RarityTable
	drops       models.DropRates
	topK        int
}

func New(
	catalog CatalogProvider,
	corpus CorpusProvider,
	ownership OwnershipProvider,
	searches SearchProvider,
	generations GenerationProvider,
	cache ValueCache,
	rarities models.RarityTable,
	drops models.DropRates,
) *Pipeline {
	if cache == nil {
		cache = NoopCache{}
	}
	return &Pipeline{
		catalog:     catalog,
		corpus:      corpus,
		ownership:   ownership,
		searches:    searches,
		generations: generations,
		cache:       cache,
		rarities:    rarities,
		drops:       drops,
		topK:        DefaultResellTopK,
	}
}

// ComputeValueTable produces the full ranked value table for one user by
// running every stage per weighted deck search and merging the results. A
// user with no searches, no ownership data, or an empty catalog gets an
// empty-but-valid table, never an error.
func (p *Pipeline) ComputeValueTable(userID string) (*ValueTable, error) {
	if len(p.rarities) == 0 {
		return nil, ErrMissingRarityTable
	}

	searches, err := p.searches.GetWeightedSearches(userID)
	if err != nil {
		return nil, fmt.Errorf("load weighted searches: %w", err)
	}
	if len(searches) == 0 {
		return &ValueTable{Rows: []ValueRow{}}, nil
	}

	searchIDs := make([]string, 0, len(searches))
	for _, ws := range searches {
		searchIDs = append(searchIDs, ws.DeckSearchID)
	}

	key, err := p.cacheKey(userID, searchIDs)
	if err != nil {
		return nil, err
	}
	if table, ok := p.cache.Get(key); ok {
		metrics.ValueCacheHits.Inc()
		return table, nil
	}
	metrics.ValueCacheMisses.Inc()

	start := time.Now()

	cards, err := p.catalog.GetAllCards()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if len(cards) == 0 {
		return &ValueTable{Rows: []ValueRow{}}, nil
	}
	catalog := NewCatalog(cards)

	owned, err := p.ownership.GetOwnership(userID)
	if err != nil {
		return nil, fmt.Errorf("load ownership: %w", err)
	}

	combiner := NewCombiner()
	for _, ws := range searches {
		decks, err := p.corpus.GetDecks(ws.DeckSearch)
		if err != nil {
			return nil, fmt.Errorf("load decks for search %s: %w", ws.DeckSearchID, err)
		}

		counts := AggregatePlayCounts(decks, catalog)
		rates := NormalizePlayRates(counts)
		rows := ComputePlayValues(rates, catalog, owned)
		rows, err = ComputeCraftEfficiency(rows, catalog, p.rarities, p.drops)
		if err != nil {
			return nil, err
		}
		rows = ComputeOwnValues(rows, p.rarities, p.topK)

		combiner.Add(rows, ws.Weight)
	}

	table := &ValueTable{Rows: combiner.Result()}

	metrics.PipelineComputeDuration.Observe(time.Since(start).Seconds())
	metrics.PipelineRowsComputed.Set(float64(len(table.Rows)))

	p.cache.Add(key, table)
	return table, nil
}

func (p *Pipeline) cacheKey(userID string, searchIDs []string) (string, error) {
	fp, err := p.generations.Fingerprint(userID, searchIDs)
	if err != nil {
		return "", fmt.Errorf("generation fingerprint: %w", err)
	}
	return userID + "|" + fp, nil
}

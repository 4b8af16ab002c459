package pipeline

import (
	"reflect"
	"testing"
	"time"

	"github.com/mreid-dev/deckvalue/internal/models"
)

type stubProviders struct {
	cards    []models.Card
	decks    map[string][]models.Deck
	owned    map[models.CardID]int
	searches []models.WeightedDeckSearch

	fingerprint string
	catalogHits int
}

func (s *stubProviders) GetAllCards() ([]models.Card, error) {
	s.catalogHits++
	return s.cards, nil
}

func (s *stubProviders) GetDecks(search models.DeckSearch) ([]models.Deck, error) {
	return s.decks[search.ID], nil
}

func (s *stubProviders) GetOwnership(string) (map[models.CardID]int, error) {
	return s.owned, nil
}

func (s *stubProviders) GetWeightedSearches(string) ([]models.WeightedDeckSearch, error) {
	return s.searches, nil
}

func (s *stubProviders) Fingerprint(string, []string) (string, error) {
	return s.fingerprint, nil
}

func newTestPipeline(s *stubProviders, cache ValueCache) *Pipeline {
	return New(s, s, s, s, s, cache,
		models.DefaultRarityTable(), models.DefaultDropRates())
}

func fixtureProviders() *stubProviders {
	x := models.CardID{SetNumber: 1, CardNumber: 8}
	y := models.CardID{SetNumber: 1, CardNumber: 9}

	return &stubProviders{
		cards: []models.Card{
			testCard(1, 8, "Torch", models.RarityCommon),
			testCard(1, 9, "Harsh Rule", models.RarityRare),
		},
		decks: map[string][]models.Deck{
			"s1": {
				deckWith(models.Playset{SetNumber: x.SetNumber, CardNumber: x.CardNumber, Count: 4},
					models.Playset{SetNumber: y.SetNumber, CardNumber: y.CardNumber, Count: 2}),
				deckWith(models.Playset{SetNumber: x.SetNumber, CardNumber: x.CardNumber, Count: 2}),
			},
		},
		owned: map[models.CardID]int{},
		searches: []models.WeightedDeckSearch{
			{DeckSearchID: "s1", DeckSearch: models.DeckSearch{ID: "s1", Name: "recent"}, Weight: 1},
		},
		fingerprint: "catalog=1",
	}
}

func TestComputeValueTableIdempotent(t *testing.T) {
	s := fixtureProviders()
	p := newTestPipeline(s, NoopCache{})

	first, err := p.ComputeValueTable("alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := p.ComputeValueTable("alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("recomputation with unchanged upstream data must be bit-identical")
	}
}

func TestComputeValueTableMasksOwnedSlots(t *testing.T) {
	s := fixtureProviders()
	x := models.CardID{SetNumber: 1, CardNumber: 8}
	s.owned[x] = 2

	p := newTestPipeline(s, NoopCache{})
	table, err := p.ComputeValueTable("alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sawSlot3 := false
	for _, row := range table.Rows {
		if row.Card == x && row.CopySlot <= 2 {
			t.Errorf("owned slot %d of %v present in value table", row.CopySlot, x)
		}
		if row.Card == x && row.CopySlot == 3 {
			sawSlot3 = true
		}
	}
	if !sawSlot3 {
		t.Error("expected a row for slot 3 of the partially owned card")
	}
}

func TestComputeValueTableEmptyStates(t *testing.T) {
	// No weighted searches: empty table, not an error.
	p := newTestPipeline(&stubProviders{}, NoopCache{})
	table, err := p.ComputeValueTable("nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.Rows) != 0 {
		t.Errorf("expected empty table, got %d rows", len(table.Rows))
	}

	// Searches but empty catalog: also empty, not an error.
	s := fixtureProviders()
	s.cards = nil
	p = newTestPipeline(s, NoopCache{})
	table, err = p.ComputeValueTable("alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.Rows) != 0 {
		t.Errorf("expected empty table for empty catalog, got %d rows", len(table.Rows))
	}
}

func TestComputeValueTableMissingRarityTable(t *testing.T) {
	s := fixtureProviders()
	p := New(s, s, s, s, s, NoopCache{}, nil, models.DefaultDropRates())

	if _, err := p.ComputeValueTable("alice"); err == nil {
		t.Error("expected fatal error when the rarity table is missing entirely")
	}
}

func TestComputeValueTableCacheKeyedByGeneration(t *testing.T) {
	s := fixtureProviders()
	cache := NewLRUValueCache(16, time.Minute)
	p := newTestPipeline(s, cache)

	if _, err := p.ComputeValueTable("alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.ComputeValueTable("alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.catalogHits != 1 {
		t.Errorf("second call should be served from cache, catalog loaded %d times", s.catalogHits)
	}

	// An upstream write bumps the fingerprint; the old entry is unreachable
	// and the table recomputes without any explicit invalidation.
	s.fingerprint = "catalog=2"
	if _, err := p.ComputeValueTable("alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.catalogHits != 2 {
		t.Errorf("generation bump should force recomputation, catalog loaded %d times", s.catalogHits)
	}
}

func TestComputeValueTableWeightedMerge(t *testing.T) {
	x := models.CardID{SetNumber: 1, CardNumber: 8}
	s := fixtureProviders()
	// Second search where the card never shows up: its values dilute.
	s.decks["s2"] = []models.Deck{
		deckWith(models.Playset{SetNumber: 1, CardNumber: 9, Count: 4}),
	}
	s.searches = []models.WeightedDeckSearch{
		{DeckSearchID: "s1", DeckSearch: models.DeckSearch{ID: "s1"}, Weight: 0.5},
		{DeckSearchID: "s2", DeckSearch: models.DeckSearch{ID: "s2"}, Weight: 0.5},
	}

	p := newTestPipeline(s, NoopCache{})
	merged, err := p.ComputeValueTable("alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.searches = s.searches[:1]
	single, err := p.ComputeValueTable("alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	find := func(rows []ValueRow, id models.CardID, slot int) (ValueRow, bool) {
		for _, r := range rows {
			if r.Card == id && r.CopySlot == slot {
				return r, true
			}
		}
		return ValueRow{}, false
	}

	m, ok := find(merged.Rows, x, 1)
	if !ok {
		t.Fatal("merged table missing card present in one search")
	}
	o, ok := find(single.Rows, x, 1)
	if !ok {
		t.Fatal("single-search table missing card")
	}
	if m.PlayValue >= o.PlayValue {
		t.Errorf("diluted play value %v should be below single-search value %v", m.PlayValue, o.PlayValue)
	}
}

package pipeline

import (
	"testing"

	"github.com/mreid-dev/deckvalue/internal/models"
)

func testCard(set, number int, name string, rarity models.Rarity) models.Card {
	return models.Card{
		CardID:      models.CardID{SetNumber: set, CardNumber: number},
		Name:        name,
		Rarity:      rarity,
		InDraftPack: true,
	}
}

func deckWith(playsets ...models.Playset) models.Deck {
	return models.Deck{Playsets: playsets}
}

func playset(set, number, count int) models.Playset {
	return models.Playset{SetNumber: set, CardNumber: number, Count: count}
}

func TestAggregatePlayCountsAtLeastNSemantics(t *testing.T) {
	catalog := NewCatalog([]models.Card{
		testCard(1, 8, "Torch", models.RarityCommon),
	})

	// Deck1 has X x2, Deck2 has X x1
	decks := []models.Deck{
		deckWith(playset(1, 8, 2)),
		deckWith(playset(1, 8, 1)),
	}

	table := AggregatePlayCounts(decks, catalog)

	x := models.CardID{SetNumber: 1, CardNumber: 8}
	counts := table.Counts[x]
	want := [models.MaxCopies]int{2, 1, 0, 0}
	if counts != want {
		t.Errorf("counts = %v, want %v", counts, want)
	}
}

func TestAggregatePlayCountsMonotonicity(t *testing.T) {
	catalog := NewCatalog([]models.Card{
		testCard(1, 1, "A", models.RarityCommon),
		testCard(1, 2, "B", models.RarityRare),
		testCard(2, 3, "C", models.RarityLegendary),
	})

	decks := []models.Deck{
		deckWith(playset(1, 1, 4), playset(1, 2, 2)),
		deckWith(playset(1, 1, 3), playset(2, 3, 1)),
		deckWith(playset(1, 2, 4), playset(2, 3, 4)),
	}

	table := AggregatePlayCounts(decks, catalog)

	for id, counts := range table.Counts {
		for k := 1; k < models.MaxCopies; k++ {
			if counts[k] > counts[k-1] {
				t.Errorf("card %v: count[%d]=%d > count[%d]=%d", id, k+1, counts[k], k, counts[k-1])
			}
		}
	}
}

func TestAggregatePlayCountsDropsUnknownCards(t *testing.T) {
	catalog := NewCatalog([]models.Card{
		testCard(1, 1, "Known", models.RarityCommon),
	})

	decks := []models.Deck{
		deckWith(playset(1, 1, 2), playset(9, 999, 4)),
	}

	table := AggregatePlayCounts(decks, catalog)

	if _, ok := table.Counts[models.CardID{SetNumber: 9, CardNumber: 999}]; ok {
		t.Error("unknown card should be dropped silently")
	}
	if table.CardsPlayed != 2 {
		t.Errorf("CardsPlayed = %d, want 2 (unknown copies excluded)", table.CardsPlayed)
	}
}

func TestAggregatePlayCountsEmptyCorpus(t *testing.T) {
	catalog := NewCatalog([]models.Card{
		testCard(1, 1, "A", models.RarityCommon),
	})

	table := AggregatePlayCounts(nil, catalog)

	if len(table.Counts) != 0 {
		t.Errorf("expected empty counts, got %d entries", len(table.Counts))
	}
	if table.AvgCardsPerDeck() != 0 {
		t.Errorf("AvgCardsPerDeck = %v, want 0", table.AvgCardsPerDeck())
	}
	if table.TotalInclusions() != 0 {
		t.Errorf("TotalInclusions = %d, want 0", table.TotalInclusions())
	}
}

func TestAggregatePlayCountsClampsOversizedPlaysets(t *testing.T) {
	catalog := NewCatalog([]models.Card{
		testCard(1, 1, "A", models.RarityCommon),
	})

	decks := []models.Deck{
		deckWith(playset(1, 1, 7)),
	}

	table := AggregatePlayCounts(decks, catalog)

	counts := table.Counts[models.CardID{SetNumber: 1, CardNumber: 1}]
	want := [models.MaxCopies]int{1, 1, 1, 1}
	if counts != want {
		t.Errorf("counts = %v, want %v", counts, want)
	}
}

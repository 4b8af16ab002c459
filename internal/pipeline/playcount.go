package pipeline

import (
	"github.com/mreid-dev/deckvalue/internal/models"
)

// PlayCountTable counts, per card, how many decks in a deck search include at
// least N copies, for N in 1..MaxCopies. Counts[id][k-1] is the "at least k
// copies" count, so the counts are non-increasing in k.
type PlayCountTable struct {
	Counts map[models.CardID][models.MaxCopies]int
	// DeckCount is the number of decks aggregated.
	DeckCount int
	// CardsPlayed is the total number of collectable card copies across all
	// decks, used to derive the average deck size.
	CardsPlayed int
}

// AvgCardsPerDeck returns the average number of collectable cards per deck,
// or 0 for an empty corpus.
func (t *PlayCountTable) AvgCardsPerDeck() float64 {
	if t.DeckCount == 0 {
		return 0
	}
	return float64(t.CardsPlayed) / float64(t.DeckCount)
}

// TotalInclusions sums every (card, copy-level) count in the table.
func (t *PlayCountTable) TotalInclusions() int {
	total := 0
	for _, counts := range t.Counts {
		for _, n := range counts {
			total += n
		}
	}
	return total
}

// AggregatePlayCounts builds a PlayCountTable from a deck search's decks.
// A playset of k copies increments the counts for levels 1..k. Playsets that
// do not resolve to a catalog card are dropped silently (non-collectable and
// foil-only cards show up in deck exports but carry no identity). Zero decks
// yield an all-zero table, not an error.
func AggregatePlayCounts(decks []models.Deck, catalog *Catalog) *PlayCountTable {
	table := &PlayCountTable{
		Counts:    make(map[models.CardID][models.MaxCopies]int),
		DeckCount: len(decks),
	}

	for _, deck := range decks {
		for _, ps := range deck.Playsets {
			id := ps.Card()
			if _, ok := catalog.Get(id); !ok {
				continue
			}
			copies := ps.Count
			if copies <= 0 {
				continue
			}
			if copies > models.MaxCopies {
				copies = models.MaxCopies
			}

			counts := table.Counts[id]
			for level := 0; level < copies; level++ {
				counts[level]++
			}
			table.Counts[id] = counts
			table.CardsPlayed += copies
		}
	}

	return table
}

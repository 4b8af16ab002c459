package pipeline

import (
	"github.com/mreid-dev/deckvalue/internal/models"
)

// PlayRateTable holds, per card and copy level, the expected number of
// inclusions at that level in an average deck. Rates are comparable across
// deck searches of different sizes.
type PlayRateTable struct {
	Rates map[models.CardID][models.MaxCopies]float64
}

// MaxRate returns the largest rate across every card and copy level.
func (t *PlayRateTable) MaxRate() float64 {
	max := 0.0
	for _, rates := range t.Rates {
		for _, r := range rates {
			if r > max {
				max = r
			}
		}
	}
	return max
}

// NormalizePlayRates converts play counts to play rates by scaling each count
// by average_cards_per_deck / total_inclusions. An empty corpus produces
// all-zero rates rather than a division fault.
func NormalizePlayRates(counts *PlayCountTable) *PlayRateTable {
	table := &PlayRateTable{
		Rates: make(map[models.CardID][models.MaxCopies]float64, len(counts.Counts)),
	}

	total := counts.TotalInclusions()
	if total == 0 {
		for id := range counts.Counts {
			table.Rates[id] = [models.MaxCopies]float64{}
		}
		return table
	}

	scale := counts.AvgCardsPerDeck() / float64(total)
	for id, cardCounts := range counts.Counts {
		var rates [models.MaxCopies]float64
		for level, n := range cardCounts {
			rates[level] = float64(n) * scale
		}
		table.Rates[id] = rates
	}

	return table
}

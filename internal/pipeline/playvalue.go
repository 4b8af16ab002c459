package pipeline

import (
	"sort"

	"github.com/mreid-dev/deckvalue/internal/models"
)

// ComputePlayValues scales play rates to a 0-100 play value for every
// (card, copy-slot) pair the user does not already own. Slots satisfied by
// ownership are masked out entirely, not zeroed: a user who owns two copies
// never sees slot 1 or 2 for that card. The denominator is the table-wide
// maximum rate, so the best slot in the rate table scores exactly 100.
func ComputePlayValues(rates *PlayRateTable, catalog *Catalog, owned map[models.CardID]int) []ValueRow {
	maxRate := rates.MaxRate()

	rows := make([]ValueRow, 0, len(rates.Rates)*models.MaxCopies)
	for id, cardRates := range rates.Rates {
		card, ok := catalog.Get(id)
		if !ok {
			continue
		}

		ownedCopies := models.ClampCount(owned[id])
		for slot := ownedCopies + 1; slot <= models.MaxCopies; slot++ {
			rate := cardRates[slot-1]
			value := 0.0
			if maxRate > 0 {
				value = 100 * rate / maxRate
			}
			rows = append(rows, ValueRow{
				Card:      id,
				Name:      card.Name,
				Rarity:    card.Rarity,
				CopySlot:  slot,
				PlayRate:  rate,
				PlayValue: value,
			})
		}
	}

	// Map iteration order is random; sort so repeated computations are
	// bit-identical.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Card != rows[j].Card {
			if rows[i].Card.SetNumber != rows[j].Card.SetNumber {
				return rows[i].Card.SetNumber < rows[j].Card.SetNumber
			}
			return rows[i].Card.CardNumber < rows[j].Card.CardNumber
		}
		return rows[i].CopySlot < rows[j].CopySlot
	})

	return rows
}

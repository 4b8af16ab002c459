package pipeline

import (
	"github.com/mreid-dev/deckvalue/internal/models"
)

// ComputeCraftEfficiency fills in craft cost, findability, and craft
// efficiency for every row:
//
//	craft_efficiency = (1 - findability) * play_value / enchant_cost
//
// The findability discount makes cards you will likely open for free less
// attractive to craft than guaranteed-rare ones. A row whose rarity is absent
// from the reference table is malformed scraped data and is dropped, not
// defaulted; an entirely empty rarity table aborts the computation.
func ComputeCraftEfficiency(rows []ValueRow, catalog *Catalog, rarities models.RarityTable, drops models.DropRates) ([]ValueRow, error) {
	if len(rarities) == 0 {
		return nil, ErrMissingRarityTable
	}

	out := make([]ValueRow, 0, len(rows))
	for _, row := range rows {
		info, ok := rarities[row.Rarity]
		if !ok || info.EnchantCost <= 0 {
			continue
		}
		card, ok := catalog.Get(row.Card)
		if !ok {
			continue
		}

		row.CraftCost = info.EnchantCost
		row.Findability = catalog.Findability(card, drops)
		row.CraftEfficiency = (1 - row.Findability) * row.PlayValue / row.CraftCost
		out = append(out, row)
	}

	return out, nil
}

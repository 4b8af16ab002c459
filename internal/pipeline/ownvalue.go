package pipeline

import (
	"sort"

	"github.com/mreid-dev/deckvalue/internal/models"
)

// DefaultResellTopK is how many of the best unowned craft-efficiency rows are
// averaged to estimate the opportunity cost of spending shiftstone.
const DefaultResellTopK = 20

// ComputeOwnValues fills in resell and own values:
//
//	resell_value = disenchant_yield * mean(top K other craft efficiencies)
//	own_value    = max(play_value, resell_value)
//
// A card is worth either playing or salvaging, whichever is higher; the top-K
// average estimates what else the disenchanted shiftstone could buy. The row
// being valued is excluded from its own average. With fewer than K other rows
// the mean is over what exists; with none, resell_value is 0.
func ComputeOwnValues(rows []ValueRow, rarities models.RarityTable, topK int) []ValueRow {
	if topK <= 0 {
		topK = DefaultResellTopK
	}

	// Keep the K+1 best efficiencies so any row inside the top K can be
	// replaced by the runner-up in its own average.
	best := make([]float64, 0, len(rows))
	for _, row := range rows {
		best = append(best, row.CraftEfficiency)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(best)))
	if len(best) > topK+1 {
		best = best[:topK+1]
	}

	out := make([]ValueRow, 0, len(rows))
	for _, row := range rows {
		avg := topEfficiencyExcluding(best, topK, row.CraftEfficiency)

		yield := 0.0
		if info, ok := rarities[row.Rarity]; ok {
			yield = info.DisenchantYield
		}
		row.ResellValue = yield * avg
		row.OwnValue = row.PlayValue
		if row.ResellValue > row.OwnValue {
			row.OwnValue = row.ResellValue
		}
		out = append(out, row)
	}

	return out
}

// topEfficiencyExcluding averages the top k entries of best (sorted
// descending, length at most k+1), skipping one occurrence of excluded.
func topEfficiencyExcluding(best []float64, k int, excluded float64) float64 {
	sum := 0.0
	n := 0
	skipped := false
	for _, eff := range best {
		if !skipped && eff == excluded {
			skipped = true
			continue
		}
		sum += eff
		n++
		if n == k {
			break
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

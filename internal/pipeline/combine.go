package pipeline

import (
	"sort"
)

// Combiner merges per-deck-search value tables into one overall table using a
// streaming weighted average, so only the accumulator and the current input
// are ever held in memory. The update
//
//	A[key] = A[key]*(W/W') + T[key]*(w/W'),  W' = W + w
//
// with absent entries treated as zero is associative, so the final table is
// the weight-normalized average of all inputs regardless of processing order
// (up to floating-point rounding).
type Combiner struct {
	total float64
	acc   *Table[SlotKey, ValueRow]
}

func NewCombiner() *Combiner {
	return &Combiner{
		acc: NewTable(ValueRow.Key),
	}
}

// Add folds one value table with the given weight into the accumulator.
// Zero-weight tables contribute nothing.
func (c *Combiner) Add(rows []ValueRow, weight float64) {
	if weight <= 0 {
		return
	}

	newTotal := c.total + weight
	oldScale := c.total / newTotal
	newScale := weight / newTotal

	seen := make(map[SlotKey]bool, len(rows))
	for _, row := range rows {
		key := row.Key()
		seen[key] = true

		// Identity fields come from the incoming row; absent accumulator
		// entries average in as zero.
		prevRow, _ := c.acc.Get(key)

		merged := row
		merged.PlayRate = prevRow.PlayRate*oldScale + row.PlayRate*newScale
		merged.PlayValue = prevRow.PlayValue*oldScale + row.PlayValue*newScale
		merged.CraftEfficiency = prevRow.CraftEfficiency*oldScale + row.CraftEfficiency*newScale
		merged.ResellValue = prevRow.ResellValue*oldScale + row.ResellValue*newScale
		merged.OwnValue = prevRow.OwnValue*oldScale + row.OwnValue*newScale
		// Craft cost and findability are per-card constants, not averages.
		merged.CraftCost = row.CraftCost
		merged.Findability = row.Findability
		c.acc.Put(merged)
	}

	// Keys absent from this input decay toward zero.
	for _, prev := range c.acc.Rows() {
		if seen[prev.Key()] {
			continue
		}
		decayed := prev
		decayed.PlayRate *= oldScale
		decayed.PlayValue *= oldScale
		decayed.CraftEfficiency *= oldScale
		decayed.ResellValue *= oldScale
		decayed.OwnValue *= oldScale
		c.acc.Put(decayed)
	}

	c.total = newTotal
}

// Result returns the merged table, sorted by card identity and slot so that
// repeated runs over identical inputs are bit-identical.
func (c *Combiner) Result() []ValueRow {
	rows := make([]ValueRow, len(c.acc.Rows()))
	copy(rows, c.acc.Rows())
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

package handlers

import (
	"testing"

	"github.com/mreid-dev/deckvalue/internal/models"
	"github.com/mreid-dev/deckvalue/internal/pipeline"
)

func row(set, number, slot int, name string, ownValue, efficiency float64) pipeline.ValueRow {
	return pipeline.ValueRow{
		Card:            models.CardID{SetNumber: set, CardNumber: number},
		Name:            name,
		CopySlot:        slot,
		OwnValue:        ownValue,
		CraftEfficiency: efficiency,
	}
}

func TestSortValueRowsByOwnValue(t *testing.T) {
	rows := []pipeline.ValueRow{
		row(1, 1, 1, "A", 10, 0.5),
		row(1, 2, 1, "B", 90, 0.1),
		row(1, 3, 1, "C", 40, 0.9),
	}

	sortValueRows(rows, "own_value")

	if rows[0].Name != "B" || rows[1].Name != "C" || rows[2].Name != "A" {
		t.Errorf("unexpected order: %s, %s, %s", rows[0].Name, rows[1].Name, rows[2].Name)
	}
}

func TestSortValueRowsByCraftEfficiency(t *testing.T) {
	rows := []pipeline.ValueRow{
		row(1, 1, 1, "A", 10, 0.5),
		row(1, 2, 1, "B", 90, 0.1),
		row(1, 3, 1, "C", 40, 0.9),
	}

	sortValueRows(rows, "craft_efficiency")

	if rows[0].Name != "C" || rows[2].Name != "B" {
		t.Errorf("unexpected order: %s, %s, %s", rows[0].Name, rows[1].Name, rows[2].Name)
	}
}

func TestSortValueRowsStableTiebreak(t *testing.T) {
	rows := []pipeline.ValueRow{
		row(2, 1, 1, "B", 50, 0),
		row(1, 9, 1, "A", 50, 0),
		row(1, 9, 2, "A", 50, 0),
	}

	sortValueRows(rows, "own_value")

	if rows[0].Card.SetNumber != 1 || rows[0].CopySlot != 1 {
		t.Errorf("equal values must break ties by card identity, got %+v first", rows[0])
	}
	if rows[1].CopySlot != 2 {
		t.Errorf("slot tiebreak failed, got %+v second", rows[1])
	}
}

func TestFilterValueRows(t *testing.T) {
	rows := []pipeline.ValueRow{
		row(1, 1, 1, "Torch", 90, 0),
		row(2, 1, 1, "Harsh Rule", 40, 0),
		row(2, 2, 1, "Torch of Ruin", 5, 0),
	}

	bySet := filterValueRows(rows, valueFilter{set: 2})
	if len(bySet) != 2 {
		t.Errorf("set filter: got %d rows, want 2", len(bySet))
	}

	byName := filterValueRows(rows, valueFilter{name: "torch"})
	if len(byName) != 2 {
		t.Errorf("name filter: got %d rows, want 2", len(byName))
	}

	byValue := filterValueRows(rows, valueFilter{minValue: 30})
	if len(byValue) != 2 {
		t.Errorf("min value filter: got %d rows, want 2", len(byValue))
	}

	combined := filterValueRows(rows, valueFilter{set: 2, name: "torch", minValue: 1})
	if len(combined) != 1 || combined[0].Name != "Torch of Ruin" {
		t.Errorf("combined filter: got %+v", combined)
	}
}

func TestFilterValueRowsNoFilters(t *testing.T) {
	rows := []pipeline.ValueRow{
		row(1, 1, 1, "A", 0, 0),
	}
	if got := filterValueRows(rows, valueFilter{}); len(got) != 1 {
		t.Errorf("empty filter should pass everything, got %d rows", len(got))
	}
}

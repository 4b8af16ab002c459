package pipeline

import (
	"errors"
	"math"

	"github.com/mreid-dev/deckvalue/internal/models"
)

// ErrMissingRarityTable is returned when the rarity reference table is absent
// entirely. No meaningful ranking can be produced without it, so the whole
// computation aborts instead of skipping rows.
var ErrMissingRarityTable = errors.New("rarity reference table is missing or empty")

// SlotKey identifies one (card, copy-slot) pair in a value table.
type SlotKey struct {
	Card models.CardID
	Slot int
}

// ValueRow is one derived valuation row: the worth of acquiring the Nth copy
// of a card. Rows are rebuilt in full on every upstream change and never
// mutated after construction.
type ValueRow struct {
	Card            models.CardID `json:"card"`
	Name            string        `json:"name"`
	Rarity          models.Rarity `json:"rarity"`
	CopySlot        int           `json:"copy_slot"`
	PlayRate        float64       `json:"play_rate"`
	PlayValue       float64       `json:"play_value"`
	CraftCost       float64       `json:"craft_cost"`
	Findability     float64       `json:"findability"`
	CraftEfficiency float64       `json:"craft_efficiency"`
	ResellValue     float64       `json:"resell_value"`
	OwnValue        float64       `json:"own_value"`
}

func (r ValueRow) Key() SlotKey {
	return SlotKey{Card: r.Card, Slot: r.CopySlot}
}

// ValueTable is the full derived table for one user: one ValueRow per unowned
// (card, copy-slot) pair, unsorted and unfiltered. Read-only to consumers.
type ValueTable struct {
	Rows []ValueRow `json:"rows"`
}

type poolKey struct {
	set    int
	rarity models.Rarity
}

// Catalog is an indexed, read-only snapshot of the card catalog.
type Catalog struct {
	cards *Table[models.CardID, models.Card]
	pools map[poolKey]int
}

// NewCatalog indexes a catalog snapshot. Pool sizes count only draft-pack
// cards, since only those can drop from packs.
func NewCatalog(cards []models.Card) *Catalog {
	c := &Catalog{
		cards: NewTable(func(card models.Card) models.CardID { return card.CardID }),
		pools: make(map[poolKey]int),
	}
	for _, card := range cards {
		c.cards.Put(card)
		if card.InDraftPack {
			c.pools[poolKey{set: card.SetNumber, rarity: card.Rarity}]++
		}
	}
	return c
}

// Get looks up a card by identity.
func (c *Catalog) Get(id models.CardID) (models.Card, bool) {
	return c.cards.Get(id)
}

// Len returns the number of cards in the snapshot.
func (c *Catalog) Len() int {
	return c.cards.Len()
}

// PoolSize returns how many distinct droppable cards share the given card's
// set and rarity.
func (c *Catalog) PoolSize(set int, rarity models.Rarity) int {
	return c.pools[poolKey{set: set, rarity: rarity}]
}

// Findability is the probability of opening at least one copy of the card
// through random drops during the reference window. Cards outside the draft
// pack never drop.
func (c *Catalog) Findability(card models.Card, drops models.DropRates) float64 {
	if !card.InDraftPack {
		return 0
	}
	pool := c.PoolSize(card.SetNumber, card.Rarity)
	if pool == 0 {
		return 0
	}
	expected := drops.ExpectedCards[card.Rarity]
	if expected <= 0 {
		return 0
	}
	return 1 - math.Pow(1-1/float64(pool), expected)
}

package models

import (
	"encoding/json"
	"fmt"
	"os"
)

// Rarity is the fixed card rarity enumeration. Static reference data, never
// user-mutable.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
	RarityPromo     Rarity = "promo"
)

// AllRarities returns every valid rarity.
func AllRarities() []Rarity {
	return []Rarity{
		RarityCommon,
		RarityUncommon,
		RarityRare,
		RarityLegendary,
		RarityPromo,
	}
}

// RarityInfo carries the crafting economics for one rarity. Enchant cost is
// always positive; a zero cost means the table entry is malformed.
type RarityInfo struct {
	EnchantCost            float64 `json:"enchant_cost"`
	DisenchantYield        float64 `json:"disenchant_yield"`
	PremiumEnchantCost     float64 `json:"premium_enchant_cost"`
	PremiumDisenchantYield float64 `json:"premium_disenchant_yield"`
	// PackFrequency is the expected number of cards of this rarity opened per
	// draft pack.
	PackFrequency float64 `json:"pack_frequency"`
}

// RarityTable maps each rarity to its crafting economics. Loaded once at
// process start and treated as immutable.
type RarityTable map[Rarity]RarityInfo

// DefaultRarityTable returns the stock shiftstone economy table.
func DefaultRarityTable() RarityTable {
	return RarityTable{
		RarityCommon:    {EnchantCost: 50, DisenchantYield: 1, PremiumEnchantCost: 800, PremiumDisenchantYield: 25, PackFrequency: 8},
		RarityUncommon:  {EnchantCost: 100, DisenchantYield: 10, PremiumEnchantCost: 1600, PremiumDisenchantYield: 50, PackFrequency: 3},
		RarityRare:      {EnchantCost: 800, DisenchantYield: 200, PremiumEnchantCost: 3200, PremiumDisenchantYield: 800, PackFrequency: 0.9},
		RarityLegendary: {EnchantCost: 3200, DisenchantYield: 800, PremiumEnchantCost: 9600, PremiumDisenchantYield: 2400, PackFrequency: 0.1},
		RarityPromo:     {EnchantCost: 600, DisenchantYield: 100, PremiumEnchantCost: 2400, PremiumDisenchantYield: 400, PackFrequency: 0},
	}
}

// DropRates models how many random cards of each rarity a player is expected
// to open during the findability reference window. Hand-tuned domain data, so
// it is a pluggable table rather than hardcoded logic.
type DropRates struct {
	// WindowDays is the reference period the expectations cover.
	WindowDays int `json:"window_days"`
	// ExpectedCards is the expected number of random cards of each rarity
	// opened during the window (packs, chests, quest rewards combined).
	ExpectedCards map[Rarity]float64 `json:"expected_cards"`
}

// DefaultDropRates returns drop expectations for a moderately active player
// over a 30 day window.
func DefaultDropRates() DropRates {
	return DropRates{
		WindowDays: 30,
		ExpectedCards: map[Rarity]float64{
			RarityCommon:    480,
			RarityUncommon:  180,
			RarityRare:      54,
			RarityLegendary: 6,
			RarityPromo:     0,
		},
	}
}

// LoadRarityTable reads a rarity table from a JSON file, validating that every
// rarity is present with a positive enchant cost. An empty path returns the
// default table.
func LoadRarityTable(path string) (RarityTable, error) {
	if path == "" {
		return DefaultRarityTable(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rarity table: %w", err)
	}

	var table RarityTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse rarity table: %w", err)
	}

	for _, r := range AllRarities() {
		info, ok := table[r]
		if !ok {
			return nil, fmt.Errorf("rarity table missing entry for %q", r)
		}
		if info.EnchantCost <= 0 {
			return nil, fmt.Errorf("rarity %q has non-positive enchant cost", r)
		}
	}

	return table, nil
}

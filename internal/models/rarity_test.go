package models

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultRarityTableComplete(t *testing.T) {
	table := DefaultRarityTable()

	for _, r := range AllRarities() {
		info, ok := table[r]
		if !ok {
			t.Errorf("default table missing rarity %q", r)
			continue
		}
		if info.EnchantCost <= 0 {
			t.Errorf("rarity %q: enchant cost %v must be positive", r, info.EnchantCost)
		}
		if info.DisenchantYield <= 0 {
			t.Errorf("rarity %q: disenchant yield %v must be positive", r, info.DisenchantYield)
		}
		if info.DisenchantYield >= info.EnchantCost {
			t.Errorf("rarity %q: disenchanting must yield less than crafting costs", r)
		}
	}

	if table[RarityLegendary].EnchantCost != 3200 {
		t.Errorf("legendary enchant cost = %v, want 3200", table[RarityLegendary].EnchantCost)
	}
}

func TestLoadRarityTableEmptyPath(t *testing.T) {
	table, err := LoadRarityTable("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table) != len(AllRarities()) {
		t.Errorf("expected default table, got %d entries", len(table))
	}
}

func TestLoadRarityTableRejectsIncomplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rarities.json")
	incomplete := `{"common": {"enchant_cost": 50, "disenchant_yield": 1}}`
	if err := os.WriteFile(path, []byte(incomplete), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadRarityTable(path); err == nil {
		t.Error("a table missing rarities must be rejected")
	}
}

func TestClampCount(t *testing.T) {
	cases := map[int]int{-3: 0, 0: 0, 2: 2, 4: 4, 9: 4}
	for in, want := range cases {
		if got := ClampCount(in); got != want {
			t.Errorf("ClampCount(%d) = %d, want %d", in, got, want)
		}
	}
}

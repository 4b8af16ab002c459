package pipeline

import (
	"math"
	"testing"

	"github.com/mreid-dev/deckvalue/internal/models"
)

func TestNormalizePlayRatesScaling(t *testing.T) {
	catalog := NewCatalog([]models.Card{
		testCard(1, 1, "A", models.RarityCommon),
	})

	// One deck, one card at 2 copies: counts [1,1,0,0], avg cards per deck 2,
	// total inclusions 2, so rates are counts * 2/2 = [1,1,0,0].
	decks := []models.Deck{deckWith(playset(1, 1, 2))}
	counts := AggregatePlayCounts(decks, catalog)
	rates := NormalizePlayRates(counts)

	got := rates.Rates[models.CardID{SetNumber: 1, CardNumber: 1}]
	want := [models.MaxCopies]float64{1, 1, 0, 0}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("rate[%d] = %v, want %v", i+1, got[i], want[i])
		}
	}
}

func TestNormalizePlayRatesZeroDecks(t *testing.T) {
	counts := &PlayCountTable{
		Counts: map[models.CardID][models.MaxCopies]int{
			{SetNumber: 1, CardNumber: 1}: {},
		},
	}

	rates := NormalizePlayRates(counts)

	for id, cardRates := range rates.Rates {
		for k, r := range cardRates {
			if r != 0 {
				t.Errorf("card %v rate[%d] = %v, want 0", id, k+1, r)
			}
		}
	}
}

func TestPlayRateComparableAcrossCorpusSizes(t *testing.T) {
	catalog := NewCatalog([]models.Card{
		testCard(1, 1, "A", models.RarityCommon),
		testCard(1, 2, "B", models.RarityCommon),
	})

	small := []models.Deck{
		deckWith(playset(1, 1, 4), playset(1, 2, 2)),
	}
	// Same deck duplicated: rates must not change with corpus size.
	large := append(append([]models.Deck{}, small...), small[0], small[0])

	smallRates := NormalizePlayRates(AggregatePlayCounts(small, catalog))
	largeRates := NormalizePlayRates(AggregatePlayCounts(large, catalog))

	for id, sr := range smallRates.Rates {
		lr := largeRates.Rates[id]
		for k := range sr {
			if math.Abs(sr[k]-lr[k]) > 1e-9 {
				t.Errorf("card %v rate[%d]: small %v != large %v", id, k+1, sr[k], lr[k])
			}
		}
	}
}

func TestMaxRate(t *testing.T) {
	rates := &PlayRateTable{
		Rates: map[models.CardID][models.MaxCopies]float64{
			{SetNumber: 1, CardNumber: 1}: {0.5, 0.25, 0, 0},
			{SetNumber: 1, CardNumber: 2}: {1.5, 0.75, 0.1, 0},
		},
	}

	if got := rates.MaxRate(); got != 1.5 {
		t.Errorf("MaxRate = %v, want 1.5", got)
	}

	empty := &PlayRateTable{Rates: map[models.CardID][models.MaxCopies]float64{}}
	if got := empty.MaxRate(); got != 0 {
		t.Errorf("MaxRate of empty table = %v, want 0", got)
	}
}

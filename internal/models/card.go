package models

import (
	"fmt"
	"time"
)

// MaxCopies is the per-deck inclusion cap for a single card.
const MaxCopies = 4

// CardID is the stable compound key for a card: the expansion set number plus
// the card's number within that set.
type CardID struct {
	SetNumber  int `json:"set_number" gorm:"primaryKey;autoIncrement:false"`
	CardNumber int `json:"card_number" gorm:"primaryKey;autoIncrement:false"`
}

func (id CardID) String() string {
	return fmt.Sprintf("Set%d #%d", id.SetNumber, id.CardNumber)
}

// Card is one entry in the card catalog. The catalog is replaced wholesale on
// refresh; rows are never updated in place.
type Card struct {
	CardID
	Name        string    `json:"name" gorm:"not null;uniqueIndex"`
	Rarity      Rarity    `json:"rarity" gorm:"not null;index"`
	ImageURL    string    `json:"image_url"`
	DetailsURL  string    `json:"details_url"`
	InDraftPack bool      `json:"in_draft_pack"`
	CreatedAt   time.Time `json:"created_at"`
}

type CardSearchResult struct {
	Cards      []Card `json:"cards"`
	TotalCount int    `json:"total_count"`
	HasMore    bool   `json:"has_more"`
}

package models

import (
	"time"
)

// Playset is a specific copy-count of one card in one deck. Count is always
// in [1, MaxCopies].
type Playset struct {
	ID         uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	DeckID     string `json:"deck_id" gorm:"not null;index"`
	SetNumber  int    `json:"set_number"`
	CardNumber int    `json:"card_number"`
	Count      int    `json:"count"`
}

func (p Playset) Card() CardID {
	return CardID{SetNumber: p.SetNumber, CardNumber: p.CardNumber}
}

// Deck is one scraped deck list. Playset order is irrelevant. LastUpdated is
// the deck's update time on the source site, not a database timestamp.
type Deck struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	DeckSearchID string    `json:"deck_search_id" gorm:"not null;index"`
	Name         string    `json:"name"`
	Archetype    string    `json:"archetype"`
	Tournament   bool      `json:"tournament"`
	Result       string    `json:"result"`
	LastUpdated  time.Time `json:"last_updated" gorm:"index"`
	Playsets     []Playset `json:"playsets" gorm:"foreignKey:DeckID"`
}

// DeckSearch is a saved, parameterized query over the deck corpus.
type DeckSearch struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"not null"`
	MaxAgeDays int       `json:"max_age_days" gorm:"default:25"`
	Tournament bool      `json:"tournament"`
	ScrapedAt  time.Time `json:"scraped_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// WeightedDeckSearch attaches a user-scoped weight to a deck search. Weights
// are periodically renormalized to sum to 1.
type WeightedDeckSearch struct {
	ID           uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID       string     `json:"user_id" gorm:"not null;index:idx_user_search,unique"`
	DeckSearchID string     `json:"deck_search_id" gorm:"not null;index:idx_user_search,unique"`
	DeckSearch   DeckSearch `json:"deck_search" gorm:"foreignKey:DeckSearchID"`
	Weight       float64    `json:"weight"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

package models

import (
	"time"
)

// OwnershipItem records how many copies of one card a user owns. Counts above
// MaxCopies are stored as-is but clamped for valuation.
type OwnershipItem struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID     string    `json:"user_id" gorm:"not null;index:idx_user_card,unique"`
	SetNumber  int       `json:"set_number" gorm:"index:idx_user_card,unique"`
	CardNumber int       `json:"card_number" gorm:"index:idx_user_card,unique"`
	Count      int       `json:"count"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (o OwnershipItem) Card() CardID {
	return CardID{SetNumber: o.SetNumber, CardNumber: o.CardNumber}
}

// ClampCount restricts an upstream ownership count to [0, MaxCopies]. Upstream
// collection exports are not fully trusted.
func ClampCount(count int) int {
	if count < 0 {
		return 0
	}
	if count > MaxCopies {
		return MaxCopies
	}
	return count
}

type SetOwnershipRequest struct {
	SetNumber  int `json:"set_number" binding:"required"`
	CardNumber int `json:"card_number" binding:"required"`
	Count      int `json:"count"`
}

type CollectionStats struct {
	TotalCards      int     `json:"total_cards"`
	UniqueCards     int     `json:"unique_cards"`
	ShiftstoneValue float64 `json:"shiftstone_value"`
}

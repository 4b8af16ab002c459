package models

import (
	"time"
)

// CollectionValueSnapshot stores a user's daily collection value (total
// shiftstone yield if everything were disenchanted) for historical tracking.
type CollectionValueSnapshot struct {
	ID              uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID          string    `json:"user_id" gorm:"not null;uniqueIndex:idx_user_snapshot_date"`
	SnapshotDate    time.Time `json:"snapshot_date" gorm:"not null;uniqueIndex:idx_user_snapshot_date"`
	TotalCards      int       `json:"total_cards"`
	UniqueCards     int       `json:"unique_cards"`
	ShiftstoneValue float64   `json:"shiftstone_value"`
	CreatedAt       time.Time `json:"created_at"`
}

// ValueHistoryResponse is the API response for value history
type ValueHistoryResponse struct {
	Snapshots []CollectionValueSnapshot `json:"snapshots"`
	Period    string                    `json:"period"` // "week", "month", "year", "all"
}

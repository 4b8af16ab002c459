package models

import (
	"time"
)

// Generation is a monotonic version counter for one upstream data domain
// (catalog, decks per search, ownership per user, weights per user). Every
// write to a domain bumps its counter; derived-table cache keys embed the
// counters so a stale cache entry can never be looked up again.
type Generation struct {
	Domain    string    `json:"domain" gorm:"primaryKey"`
	Counter   uint64    `json:"counter"`
	UpdatedAt time.Time `json:"updated_at"`
}

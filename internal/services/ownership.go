package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mreid-dev/deckvalue/internal/models"
)

// OwnershipService owns the per-user owned copy-count table.
type OwnershipService struct {
	db          *gorm.DB
	generations *GenerationService
}

func NewOwnershipService(db *gorm.DB, generations *GenerationService) *OwnershipService {
	return &OwnershipService{db: db, generations: generations}
}

// GetOwnership returns a user's owned counts, clamped to the range the
// valuation pipeline trusts. Upstream collection imports sometimes carry
// counts above the deck cap or below zero.
func (s *OwnershipService) GetOwnership(userID string) (map[models.CardID]int, error) {
	var items []models.OwnershipItem
	if err := s.db.Where("user_id = ?", userID).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("load ownership for %s: %w", userID, err)
	}

	owned := make(map[models.CardID]int, len(items))
	for _, item := range items {
		owned[item.Card()] = models.ClampCount(item.Count)
	}
	return owned, nil
}

// GetItems returns a user's raw ownership rows.
func (s *OwnershipService) GetItems(userID string) ([]models.OwnershipItem, error) {
	var items []models.OwnershipItem
	err := s.db.Where("user_id = ?", userID).
		Order("set_number, card_number").
		Find(&items).Error
	return items, err
}

// SetOwnership records how many copies of a card a user owns. A count of zero
// removes the row. Every write bumps the user's ownership generation.
func (s *OwnershipService) SetOwnership(userID string, id models.CardID, count int) error {
	if count < 0 {
		count = 0
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if count == 0 {
			return tx.Where("user_id = ? AND set_number = ? AND card_number = ?",
				userID, id.SetNumber, id.CardNumber).
				Delete(&models.OwnershipItem{}).Error
		}

		var item models.OwnershipItem
		err := tx.Where("user_id = ? AND set_number = ? AND card_number = ?",
			userID, id.SetNumber, id.CardNumber).
			First(&item).Error
		if err == gorm.ErrRecordNotFound {
			return tx.Create(&models.OwnershipItem{
				UserID:     userID,
				SetNumber:  id.SetNumber,
				CardNumber: id.CardNumber,
				Count:      count,
			}).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&item).Update("count", count).Error
	})
	if err != nil {
		return fmt.Errorf("set ownership for %s: %w", userID, err)
	}

	return s.generations.Bump(DomainOwnership(userID))
}

// Users returns every user with at least one ownership row.
func (s *OwnershipService) Users() ([]string, error) {
	var users []string
	err := s.db.Model(&models.OwnershipItem{}).
		Distinct("user_id").
		Order("user_id").
		Pluck("user_id", &users).Error
	return users, err
}

// CalculateStats computes a user's collection totals with the disenchant
// value of every owned copy.
func (s *OwnershipService) CalculateStats(userID string, rarities models.RarityTable) (models.CollectionStats, error) {
	var stats models.CollectionStats

	var items []models.OwnershipItem
	if err := s.db.Where("user_id = ?", userID).Find(&items).Error; err != nil {
		return stats, err
	}
	if len(items) == 0 {
		return stats, nil
	}

	cards := make(map[models.CardID]models.Card)
	var catalog []models.Card
	if err := s.db.Find(&catalog).Error; err != nil {
		return stats, err
	}
	for _, card := range catalog {
		cards[card.CardID] = card
	}

	for _, item := range items {
		count := models.ClampCount(item.Count)
		if count == 0 {
			continue
		}
		stats.TotalCards += count
		stats.UniqueCards++
		if card, ok := cards[item.Card()]; ok {
			if info, ok := rarities[card.Rarity]; ok {
				stats.ShiftstoneValue += info.DisenchantYield * float64(count)
			}
		}
	}

	return stats, nil
}

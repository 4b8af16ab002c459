package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mreid-dev/deckvalue/internal/models"
)

// DeckCorpusService owns the scraped deck corpus. Decks are read-only input
// for the valuation pipeline; each deck search's decks are replaced wholesale
// on re-scrape.
type DeckCorpusService struct {
	db          *gorm.DB
	generations *GenerationService
}

func NewDeckCorpusService(db *gorm.DB, generations *GenerationService) *DeckCorpusService {
	return &DeckCorpusService{db: db, generations: generations}
}

// GetDecks returns the decks matching a search, applying its recency window.
func (s *DeckCorpusService) GetDecks(search models.DeckSearch) ([]models.Deck, error) {
	query := s.db.Preload("Playsets").Where("deck_search_id = ?", search.ID)
	if search.MaxAgeDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -search.MaxAgeDays)
		query = query.Where("last_updated >= ?", cutoff)
	}
	if search.Tournament {
		query = query.Where("tournament = ?", true)
	}

	var decks []models.Deck
	if err := query.Order("id").Find(&decks).Error; err != nil {
		return nil, fmt.Errorf("load decks for search %s: %w", search.ID, err)
	}
	return decks, nil
}

// ReplaceDecks swaps in a freshly scraped deck set for one search and bumps
// that search's deck generation.
func (s *DeckCorpusService) ReplaceDecks(searchID string, decks []models.Deck) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var old []models.Deck
		if err := tx.Select("id").Where("deck_search_id = ?", searchID).Find(&old).Error; err != nil {
			return err
		}
		if len(old) > 0 {
			ids := make([]string, 0, len(old))
			for _, d := range old {
				ids = append(ids, d.ID)
			}
			if err := tx.Where("deck_id IN ?", ids).Delete(&models.Playset{}).Error; err != nil {
				return err
			}
			if err := tx.Where("deck_search_id = ?", searchID).Delete(&models.Deck{}).Error; err != nil {
				return err
			}
		}
		if len(decks) == 0 {
			return nil
		}
		return tx.CreateInBatches(decks, 100).Error
	})
	if err != nil {
		return fmt.Errorf("replace decks for search %s: %w", searchID, err)
	}

	if err := s.db.Model(&models.DeckSearch{}).
		Where("id = ?", searchID).
		Update("scraped_at", time.Now()).Error; err != nil {
		return err
	}

	return s.generations.Bump(DomainDecks(searchID))
}

// CountDecks returns the total deck count across all searches.
func (s *DeckCorpusService) CountDecks() (int64, error) {
	var count int64
	err := s.db.Model(&models.Deck{}).Count(&count).Error
	return count, err
}

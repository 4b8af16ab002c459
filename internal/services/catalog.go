package services

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mreid-dev/deckvalue/internal/models"
)

// CatalogService owns the card catalog table. The catalog is read-only input
// for the valuation pipeline and is replaced wholesale on refresh.
type CatalogService struct {
	db          *gorm.DB
	generations *GenerationService
}

func NewCatalogService(db *gorm.DB, generations *GenerationService) *CatalogService {
	return &CatalogService{db: db, generations: generations}
}

// GetAllCards returns the full catalog snapshot.
func (s *CatalogService) GetAllCards() ([]models.Card, error) {
	var cards []models.Card
	if err := s.db.Order("set_number, card_number").Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return cards, nil
}

// GetCard looks up one card by identity.
func (s *CatalogService) GetCard(id models.CardID) (*models.Card, error) {
	var card models.Card
	err := s.db.Where("set_number = ? AND card_number = ?", id.SetNumber, id.CardNumber).
		First(&card).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// SearchCards does a case-insensitive substring search on card names.
func (s *CatalogService) SearchCards(query string, limit, offset int) (*models.CardSearchResult, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	var total int64
	if err := s.db.Model(&models.Card{}).
		Where("LOWER(name) LIKE ?", pattern).
		Count(&total).Error; err != nil {
		return nil, err
	}

	var cards []models.Card
	if err := s.db.Where("LOWER(name) LIKE ?", pattern).
		Order("set_number, card_number").
		Limit(limit).Offset(offset).
		Find(&cards).Error; err != nil {
		return nil, err
	}

	return &models.CardSearchResult{
		Cards:      cards,
		TotalCount: int(total),
		HasMore:    offset+len(cards) < int(total),
	}, nil
}

// ReplaceCatalog swaps in a fresh catalog snapshot and bumps the catalog
// generation so every cached value table goes stale.
func (s *CatalogService) ReplaceCatalog(cards []models.Card) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Card{}).Error; err != nil {
			return err
		}
		if len(cards) == 0 {
			return nil
		}
		return tx.CreateInBatches(cards, 500).Error
	})
	if err != nil {
		return fmt.Errorf("replace catalog: %w", err)
	}

	return s.generations.Bump(DomainCatalog)
}

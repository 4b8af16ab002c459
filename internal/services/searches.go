package services

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mreid-dev/deckvalue/internal/models"
)

// weightTolerance is the band around 1.0 within which weight sums are left
// alone; renormalizing on every tiny drift would churn cache generations for
// no benefit.
const weightTolerance = 0.1

// DeckSearchService manages deck searches and per-user weighted search sets.
type DeckSearchService struct {
	db          *gorm.DB
	generations *GenerationService
}

func NewDeckSearchService(db *gorm.DB, generations *GenerationService) *DeckSearchService {
	return &DeckSearchService{db: db, generations: generations}
}

// CreateDeckSearch registers a new saved deck query.
func (s *DeckSearchService) CreateDeckSearch(name string, maxAgeDays int, tournament bool) (*models.DeckSearch, error) {
	if maxAgeDays <= 0 {
		maxAgeDays = 25
	}
	search := models.DeckSearch{
		ID:         uuid.NewString(),
		Name:       name,
		MaxAgeDays: maxAgeDays,
		Tournament: tournament,
	}
	if err := s.db.Create(&search).Error; err != nil {
		return nil, fmt.Errorf("create deck search: %w", err)
	}
	return &search, nil
}

// ListDeckSearches returns all saved deck searches.
func (s *DeckSearchService) ListDeckSearches() ([]models.DeckSearch, error) {
	var searches []models.DeckSearch
	err := s.db.Order("created_at").Find(&searches).Error
	return searches, err
}

// GetDeckSearch looks up one search by ID.
func (s *DeckSearchService) GetDeckSearch(id string) (*models.DeckSearch, error) {
	var search models.DeckSearch
	if err := s.db.Where("id = ?", id).First(&search).Error; err != nil {
		return nil, err
	}
	return &search, nil
}

// GetWeightedSearches returns a user's weighted searches with the underlying
// search populated.
func (s *DeckSearchService) GetWeightedSearches(userID string) ([]models.WeightedDeckSearch, error) {
	var weighted []models.WeightedDeckSearch
	err := s.db.Preload("DeckSearch").
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&weighted).Error
	if err != nil {
		return nil, fmt.Errorf("load weighted searches for %s: %w", userID, err)
	}
	return weighted, nil
}

// SetWeight attaches a deck search to a user with the given weight, creating
// or updating the link, then renormalizes if the sum has drifted too far.
func (s *DeckSearchService) SetWeight(userID, searchID string, weight float64) error {
	if weight < 0 {
		return fmt.Errorf("weight must be non-negative, got %v", weight)
	}
	if _, err := s.GetDeckSearch(searchID); err != nil {
		return fmt.Errorf("deck search %s: %w", searchID, err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var ws models.WeightedDeckSearch
		err := tx.Where("user_id = ? AND deck_search_id = ?", userID, searchID).First(&ws).Error
		if err == gorm.ErrRecordNotFound {
			return tx.Create(&models.WeightedDeckSearch{
				UserID:       userID,
				DeckSearchID: searchID,
				Weight:       weight,
			}).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&ws).Update("weight", weight).Error
	})
	if err != nil {
		return fmt.Errorf("set weight for %s: %w", userID, err)
	}

	if err := s.RenormalizeWeights(userID); err != nil {
		return err
	}
	return s.generations.Bump(DomainWeights(userID))
}

// RemoveWeight detaches a deck search from a user.
func (s *DeckSearchService) RemoveWeight(userID, searchID string) error {
	err := s.db.Where("user_id = ? AND deck_search_id = ?", userID, searchID).
		Delete(&models.WeightedDeckSearch{}).Error
	if err != nil {
		return err
	}
	if err := s.RenormalizeWeights(userID); err != nil {
		return err
	}
	return s.generations.Bump(DomainWeights(userID))
}

// RenormalizeWeights rescales a user's weights to sum to 1 when the current
// sum is outside the tolerance band.
func (s *DeckSearchService) RenormalizeWeights(userID string) error {
	var weighted []models.WeightedDeckSearch
	if err := s.db.Where("user_id = ?", userID).Find(&weighted).Error; err != nil {
		return err
	}

	weights := make([]float64, len(weighted))
	for i, ws := range weighted {
		weights[i] = ws.Weight
	}

	normalized, changed := NormalizeWeights(weights)
	if !changed {
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for i, ws := range weighted {
			if err := tx.Model(&models.WeightedDeckSearch{}).
				Where("id = ?", ws.ID).
				Update("weight", normalized[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// NormalizeWeights rescales weights to sum to 1 when their sum is outside
// [1-tolerance, 1+tolerance]. An all-zero set is left untouched. Returns the
// (possibly rescaled) weights and whether anything changed.
func NormalizeWeights(weights []float64) ([]float64, bool) {
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if sum == 0 || math.Abs(sum-1) <= weightTolerance {
		return weights, false
	}

	normalized := make([]float64, len(weights))
	for i, w := range weights {
		normalized[i] = w / sum
	}
	return normalized, true
}

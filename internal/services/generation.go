package services

import (
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/mreid-dev/deckvalue/internal/models"
)

// Generation domains. Every upstream write bumps exactly one of these; value
// table cache keys embed the counters, so consumers never read stale derived
// data no matter who forgot to invalidate what.
const (
	DomainCatalog = "catalog"
)

func DomainOwnership(userID string) string { return "ownership:" + userID }
func DomainWeights(userID string) string   { return "weights:" + userID }
func DomainDecks(searchID string) string   { return "decks:" + searchID }

// GenerationService maintains monotonic version counters per upstream data
// domain.
type GenerationService struct {
	db *gorm.DB
}

func NewGenerationService(db *gorm.DB) *GenerationService {
	return &GenerationService{db: db}
}

// Bump increments the counter for a domain, creating it at 1 if missing.
func (s *GenerationService) Bump(domain string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var gen models.Generation
		if err := tx.Where("domain = ?", domain).
			FirstOrCreate(&gen, models.Generation{Domain: domain}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Generation{}).
			Where("domain = ?", domain).
			Update("counter", gen.Counter+1).Error
	})
}

// Counter returns the current counter for a domain; a never-bumped domain
// reads as 0.
func (s *GenerationService) Counter(domain string) (uint64, error) {
	var gen models.Generation
	err := s.db.Where("domain = ?", domain).First(&gen).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return gen.Counter, nil
}

// Fingerprint composes every domain a user's value table depends on into one
// cache-key component. Search IDs are sorted so the fingerprint is stable.
func (s *GenerationService) Fingerprint(userID string, searchIDs []string) (string, error) {
	domains := []string{
		DomainCatalog,
		DomainOwnership(userID),
		DomainWeights(userID),
	}
	sorted := make([]string, len(searchIDs))
	copy(sorted, searchIDs)
	sort.Strings(sorted)
	for _, id := range sorted {
		domains = append(domains, DomainDecks(id))
	}

	parts := make([]string, 0, len(domains))
	for _, domain := range domains {
		counter, err := s.Counter(domain)
		if err != nil {
			return "", fmt.Errorf("read generation %q: %w", domain, err)
		}
		parts = append(parts, fmt.Sprintf("%s=%d", domain, counter))
	}
	return strings.Join(parts, "|"), nil
}

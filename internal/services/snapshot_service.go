package services

import (
	"context"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/mreid-dev/deckvalue/internal/metrics"
	"github.com/mreid-dev/deckvalue/internal/models"
)

// SnapshotService records each user's collection value once a day for
// historical tracking.
type SnapshotService struct {
	db        *gorm.DB
	ownership *OwnershipService
	rarities  models.RarityTable

	mu            sync.RWMutex
	lastSnapshot  time.Time
	snapshotHour  int // Hour of day to take snapshot (0-23)
	checkInterval time.Duration
}

func NewSnapshotService(db *gorm.DB, ownership *OwnershipService, rarities models.RarityTable) *SnapshotService {
	return &SnapshotService{
		db:            db,
		ownership:     ownership,
		rarities:      rarities,
		snapshotHour:  23, // Default: 11 PM
		checkInterval: 15 * time.Minute,
	}
}

// Start begins the background snapshot worker
func (s *SnapshotService) Start(ctx context.Context) {
	log.Println("Snapshot service started: will record daily collection values")

	// Check if we need to take a snapshot for today on startup
	s.checkAndSnapshot()

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Snapshot service stopping...")
			return
		case <-ticker.C:
			s.checkAndSnapshot()
		}
	}
}

// checkAndSnapshot checks if a snapshot is needed and takes one
func (s *SnapshotService) checkAndSnapshot() {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if s.hasSnapshotForDate(today) {
		return
	}

	// Only take automatic snapshots at or after the configured hour
	if now.Hour() >= s.snapshotHour {
		if err := s.TakeSnapshots(); err != nil {
			log.Printf("Snapshot service: failed to take snapshots: %v", err)
		}
	}
}

// hasSnapshotForDate checks if any snapshot exists for the given date
func (s *SnapshotService) hasSnapshotForDate(date time.Time) bool {
	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	var count int64
	s.db.Model(&models.CollectionValueSnapshot{}).
		Where("snapshot_date >= ? AND snapshot_date < ?", startOfDay, endOfDay).
		Count(&count)

	return count > 0
}

// TakeSnapshots records the current collection value for every user with
// ownership data.
func (s *SnapshotService) TakeSnapshots() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.ownership.Users()
	if err != nil {
		return err
	}

	now := time.Now()
	snapshotDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var totalCards int64
	var totalShiftstone float64
	for _, userID := range users {
		stats, err := s.ownership.CalculateStats(userID, s.rarities)
		if err != nil {
			log.Printf("Snapshot service: stats for user %s failed: %v", userID, err)
			continue
		}

		snapshot := models.CollectionValueSnapshot{
			UserID:          userID,
			SnapshotDate:    snapshotDate,
			TotalCards:      stats.TotalCards,
			UniqueCards:     stats.UniqueCards,
			ShiftstoneValue: stats.ShiftstoneValue,
			CreatedAt:       now,
		}

		// Use upsert to handle duplicate dates
		result := s.db.Where("user_id = ? AND DATE(snapshot_date) = DATE(?)", userID, snapshotDate).
			Assign(models.CollectionValueSnapshot{
				TotalCards:      snapshot.TotalCards,
				UniqueCards:     snapshot.UniqueCards,
				ShiftstoneValue: snapshot.ShiftstoneValue,
			}).
			FirstOrCreate(&snapshot)
		if result.Error != nil {
			log.Printf("Snapshot service: snapshot for user %s failed: %v", userID, result.Error)
			continue
		}

		totalCards += int64(stats.TotalCards)
		totalShiftstone += stats.ShiftstoneValue

		log.Printf("Snapshot service: recorded snapshot for %s on %s (%.0f shiftstone, %d cards)",
			userID, snapshotDate.Format("2006-01-02"), stats.ShiftstoneValue, stats.TotalCards)
	}

	metrics.CollectionCardsTotal.Set(float64(totalCards))
	metrics.CollectionShiftstoneValue.Set(totalShiftstone)

	s.lastSnapshot = now
	return nil
}

// GetHistory retrieves a user's value snapshots for a given period
func (s *SnapshotService) GetHistory(userID, period string) ([]models.CollectionValueSnapshot, error) {
	var snapshots []models.CollectionValueSnapshot

	now := time.Now()
	var startDate time.Time

	switch period {
	case "week":
		startDate = now.AddDate(0, 0, -7)
	case "month":
		startDate = now.AddDate(0, -1, 0)
	case "3month":
		startDate = now.AddDate(0, -3, 0)
	case "year":
		startDate = now.AddDate(-1, 0, 0)
	case "all":
		startDate = time.Time{} // No filter
	default:
		startDate = now.AddDate(0, -1, 0) // Default to 1 month
	}

	query := s.db.Where("user_id = ?", userID).Order("snapshot_date ASC")
	if !startDate.IsZero() {
		query = query.Where("snapshot_date >= ?", startDate)
	}

	if err := query.Find(&snapshots).Error; err != nil {
		return nil, err
	}

	return snapshots, nil
}

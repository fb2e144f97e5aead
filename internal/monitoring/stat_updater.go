package monitoring

import (
	"context"
	"time"

	"github.com/isdelr/artverse-be/internal/metrics"
	"github.com/isdelr/artverse-be/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CatalogStats is a point-in-time count of marketplace records.
type CatalogStats struct {
	Users          int64
	Artworks       int64
	DirectMessages int64
	Likes          int64
}

// StatUpdater periodically samples record counts into prometheus gauges.
type StatUpdater struct {
	db       *gorm.DB
	interval time.Duration
	done     chan struct{}
}

// NewStatUpdater creates a new StatUpdater.
func NewStatUpdater(db *gorm.DB, interval time.Duration) *StatUpdater {
	return &StatUpdater{
		db:       db,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Run starts the periodic updates. It blocks until Stop is called.
func (su *StatUpdater) Run() {
	log.Info().Dur("interval", su.interval).Msg("Starting background stat updater")
	ticker := time.NewTicker(su.interval)
	defer ticker.Stop()

	// Run once immediately on start
	su.update()

	for {
		select {
		case <-su.done:
			log.Info().Msg("Stopping background stat updater")
			return
		case <-ticker.C:
			su.update()
		}
	}
}

// Stop halts the periodic updates.
func (su *StatUpdater) Stop() {
	close(su.done)
}

func (su *StatUpdater) update() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stats, err := su.Collect(ctx)
	if err != nil {
		log.Error().Err(err).Msg("StatUpdater: Failed to collect catalog stats")
		return
	}
	metrics.CatalogRecords.WithLabelValues("users").Set(float64(stats.Users))
	metrics.CatalogRecords.WithLabelValues("artworks").Set(float64(stats.Artworks))
	metrics.CatalogRecords.WithLabelValues("direct_messages").Set(float64(stats.DirectMessages))
	metrics.CatalogRecords.WithLabelValues("likes").Set(float64(stats.Likes))
}

// Collect counts the current records.
func (su *StatUpdater) Collect(ctx context.Context) (CatalogStats, error) {
	var stats CatalogStats
	db := su.db.WithContext(ctx)
	if err := db.Model(&models.User{}).Count(&stats.Users).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&models.Artwork{}).Count(&stats.Artworks).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&models.DirectMessage{}).Count(&stats.DirectMessages).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&models.Artwork{}).Select("COALESCE(SUM(likes), 0)").Scan(&stats.Likes).Error; err != nil {
		return stats, err
	}
	return stats, nil
}

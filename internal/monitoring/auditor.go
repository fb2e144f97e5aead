package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/isdelr/artverse-be/internal/metrics"
	"github.com/isdelr/artverse-be/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const auditTimeout = 30 * time.Second

// DriftFinder reports artworks whose like counter disagrees with wishlist
// membership.
type DriftFinder interface {
	FindLikeDrift(ctx context.Context) ([]models.LikeDrift, error)
}

// EventRecorder stores audit findings.
type EventRecorder interface {
	CreateEvent(ctx context.Context, eventType, level, message string, subjectID, ownerID *string) error
}

// LikeAuditor periodically checks like counters against wishlist entries.
// It only reports drift; counters are never rewritten.
type LikeAuditor struct {
	finder DriftFinder
	events EventRecorder
	cron   *cron.Cron
}

// NewLikeAuditor creates an auditor running on the given cron schedule.
func NewLikeAuditor(finder DriftFinder, events EventRecorder, schedule string) (*LikeAuditor, error) {
	a := &LikeAuditor{
		finder: finder,
		events: events,
		cron:   cron.New(),
	}
	_, err := a.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
		defer cancel()
		if _, err := a.Audit(ctx); err != nil {
			log.Error().Err(err).Msg("Like audit failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid like audit schedule %q: %w", schedule, err)
	}
	return a, nil
}

// Run starts the schedule in its own goroutine.
func (a *LikeAuditor) Run() {
	log.Info().Msg("Starting like counter auditor")
	a.cron.Start()
}

// Stop halts the schedule and waits for a running audit to finish.
func (a *LikeAuditor) Stop() {
	<-a.cron.Stop().Done()
	log.Info().Msg("Stopped like counter auditor")
}

// Audit performs one pass and returns the drift it found.
func (a *LikeAuditor) Audit(ctx context.Context) ([]models.LikeDrift, error) {
	drift, err := a.finder.FindLikeDrift(ctx)
	if err != nil {
		return nil, err
	}
	metrics.LikeDriftArtworks.Set(float64(len(drift)))

	for _, d := range drift {
		log.Warn().Str("artwork_id", d.ArtworkID).Int("likes", d.Likes).Int("entries", d.Entries).Msg("Like counter drift detected")
		msg := fmt.Sprintf("Artwork has %d likes but %d wishlist entries.", d.Likes, d.Entries)
		artworkID, artistID := d.ArtworkID, d.ArtistID
		if err := a.events.CreateEvent(ctx, "wishlist.like_drift", "warn", msg, &artworkID, &artistID); err != nil {
			log.Error().Err(err).Str("artwork_id", d.ArtworkID).Msg("Failed to record like drift event")
		}
	}
	return drift, nil
}

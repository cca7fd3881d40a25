package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/offerfinder/internal/metrics"
)

// Refresher reloads an in-memory snapshot. *service.ReferenceService implements it.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// OfferCounter reports how many offers search can currently see.
type OfferCounter interface {
	CountLatest(ctx context.Context) (int, error)
}

// ReferenceRefreshWorker periodically reloads the reference catalog and
// updates the visible offer gauge.
type ReferenceRefreshWorker struct {
	reference Refresher
	offers    OfferCounter
	metrics   *metrics.Metrics
	interval  time.Duration
}

// NewReferenceRefreshWorker constructs a ReferenceRefreshWorker. offers and m may be nil.
func NewReferenceRefreshWorker(reference Refresher, offers OfferCounter, m *metrics.Metrics, interval time.Duration) *ReferenceRefreshWorker {
	return &ReferenceRefreshWorker{
		reference: reference,
		offers:    offers,
		metrics:   m,
		interval:  interval,
	}
}

// Start runs the refresh loop until ctx is cancelled. The first refresh
// happens one interval after start; the caller loads the catalog at boot.
func (w *ReferenceRefreshWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting reference refresh worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Reference refresh worker stopped")
			return
		}
	}
}

func (w *ReferenceRefreshWorker) run(ctx context.Context) {
	start := time.Now()
	if err := w.reference.Refresh(ctx); err != nil {
		w.metrics.RefreshResult(false)
		log.Error().Err(err).Msg("Failed to refresh reference catalog")
		return
	}
	w.metrics.RefreshResult(true)

	if w.offers != nil {
		n, err := w.offers.CountLatest(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to count visible offers")
		} else {
			w.metrics.SetVisibleOffers(n)
		}
	}

	log.Debug().Dur("duration", time.Since(start)).Msg("Reference catalog refreshed")
}

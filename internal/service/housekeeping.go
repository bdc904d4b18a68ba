package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/takaio/ipgate/internal/store"
)

// HousekeepingService periodically removes expired pending records. The
// lifecycle already purges them lazily on observation; the sweep only
// catches rows whose IP never comes back to poll. Expired authenticated
// rows are intentionally not swept, matching the lazy-only observation of
// that branch.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates the sweeper. A zero or negative interval
// defaults to 1 hour.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut it
// down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping started", "interval", s.Interval)
}

// Stop shuts down the worker and blocks until any in-progress sweep has
// finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run once on startup to clear anything left from before a restart.
	s.sweep()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) sweep() {
	ctx := context.Background()

	if err := s.Store.Authorizations().DeleteAllExpiredPending(ctx, time.Now()); err != nil {
		s.Logger.Error("failed to delete expired pending authorizations", "error", err)
		return
	}
	s.Logger.Debug("deleted expired pending authorizations")
}

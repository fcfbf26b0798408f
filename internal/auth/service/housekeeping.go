package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/edura/internal/auth/domain"
	"github.com/aussiebroadwan/edura/internal/auth/store"
	"github.com/aussiebroadwan/edura/pkg/slogx"
)

// HousekeepingService periodically deletes password reset codes that are
// used or past their TTL.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	Now      func() time.Time

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}

	mu      sync.Mutex
	started bool
	stopped bool
}

// cleanupTimeout bounds one sweep so a stuck database cannot block Stop forever.
const cleanupTimeout = 30 * time.Second

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker that periodically runs cleanup.
// This is non-blocking and should be called after the database is ready.
// Call Stop() to gracefully shutdown the worker. Starting twice, or after
// Stop, does nothing.
func (s *HousekeepingService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true

	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts down the background worker and waits for an in-progress
// sweep. It returns at once when the worker never started, and calling it
// more than once is safe.
func (s *HousekeepingService) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.stopCh)
	started := s.started
	s.mu.Unlock()

	if !started {
		return
	}
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

// run is the main background worker loop.
func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Sweep once on startup so a restart clears what piled up while down
	s.Sweep(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Sweep(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Sweep deletes reset codes that are used or were created more than one
// code TTL ago, and reports how many rows went.
func (s *HousekeepingService) Sweep(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, cleanupTimeout)
	defer cancel()

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	cutoff := now.UTC().Add(-domain.ResetCodeTTL)

	deleted, err := s.Store.ResetCodes().DeleteStaleResetCodes(ctx, cutoff)
	if err != nil {
		s.Logger.Error("failed to delete stale reset codes", slogx.Err(err))
		return 0
	}

	level := slog.LevelDebug
	if deleted > 0 {
		level = slog.LevelInfo
	}
	s.Logger.Log(ctx, level, "reset code sweep completed", "deleted_reset_codes", deleted)
	return deleted
}

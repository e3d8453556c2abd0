package workers

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"label-matcher/internal/database"
	"label-matcher/internal/ratelimit"
	"label-matcher/internal/tracking"
)

// StatusFetcher queries the delivery status for a tracking number.
type StatusFetcher interface {
	Status(ctx context.Context, trackingNumber string) (string, error)
}

// RefreshStats summarizes one refresh pass over the pending orders.
type RefreshStats struct {
	Total     int
	Updated   int
	Delivered int
	Skipped   int
	Failed    int
}

// StatusUpdater periodically refreshes the delivery status of orders that
// carry tracking information and are not yet delivered. Delivered orders
// drop out of the pending set on their own.
type StatusUpdater struct {
	ctx      context.Context
	cancel   context.CancelFunc
	orders   *database.OrderStore
	fetcher  StatusFetcher
	interval time.Duration
	paused   atomic.Bool
	logger   *slog.Logger
}

// NewStatusUpdater creates a status updater. The interval is how often a
// full refresh pass runs.
func NewStatusUpdater(orders *database.OrderStore, fetcher StatusFetcher, interval time.Duration, logger *slog.Logger) *StatusUpdater {
	ctx, cancel := context.WithCancel(context.Background())
	return &StatusUpdater{
		ctx:      ctx,
		cancel:   cancel,
		orders:   orders,
		fetcher:  fetcher,
		interval: interval,
		logger:   logger,
	}
}

// Start begins the background refresh loop.
func (u *StatusUpdater) Start() {
	u.logger.Info("Starting status updater", "interval", u.interval)
	go u.updateLoop()
}

// Stop gracefully stops the background refresh loop.
func (u *StatusUpdater) Stop() {
	u.logger.Info("Stopping status updater")
	u.cancel()
}

// Pause temporarily suspends refresh passes without stopping the loop.
func (u *StatusUpdater) Pause() {
	u.paused.Store(true)
	u.logger.Info("Status updater paused")
}

// Resume re-enables refresh passes.
func (u *StatusUpdater) Resume() {
	u.paused.Store(false)
	u.logger.Info("Status updater resumed")
}

func (u *StatusUpdater) updateLoop() {
	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	// First pass after a short delay so startup is not serialized behind
	// tracking API calls.
	initialDelay := time.NewTimer(30 * time.Second)
	defer initialDelay.Stop()

	for {
		select {
		case <-u.ctx.Done():
			u.logger.Info("Status updater stopped")
			return
		case <-initialDelay.C:
			u.runPass()
		case <-ticker.C:
			u.runPass()
		}
	}
}

func (u *StatusUpdater) runPass() {
	if u.paused.Load() {
		u.logger.Debug("Status updater paused, skipping pass")
		return
	}

	start := time.Now()
	stats := u.RefreshPending(u.ctx)
	u.logger.Info("Completed status refresh pass",
		"total", stats.Total,
		"updated", stats.Updated,
		"delivered", stats.Delivered,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"duration", time.Since(start))
}

// RefreshPending fetches the current delivery status for every pending
// order, honoring the per-order refresh cooldown. Failures are isolated:
// one order's tracking error does not stop the pass.
func (u *StatusUpdater) RefreshPending(ctx context.Context) RefreshStats {
	orders, err := u.orders.PendingTracking()
	if err != nil {
		u.logger.Error("Failed to list orders pending tracking", "error", err)
		return RefreshStats{}
	}

	stats := RefreshStats{Total: len(orders)}
	for i := range orders {
		order := &orders[i]

		if ctx.Err() != nil {
			return stats
		}

		if limit := ratelimit.CheckRefresh(false, order.LastRefreshAt, false); limit.Blocked {
			stats.Skipped++
			continue
		}

		status, err := u.fetcher.Status(ctx, firstTracking(order.TrackingID))
		if err != nil {
			stats.Failed++
			u.logger.Error("Failed to fetch tracking status",
				"order", order.OrderID, "error", err)
			continue
		}

		delivered := tracking.IsDelivered(status)
		if err := u.orders.UpdateTrackingStatus(order.ID, status, delivered); err != nil {
			stats.Failed++
			u.logger.Error("Failed to record tracking status",
				"order", order.OrderID, "error", err)
			continue
		}

		stats.Updated++
		if delivered {
			stats.Delivered++
			u.logger.Info("Order delivered", "order", order.OrderID)
		} else {
			u.logger.Info("Tracking status updated",
				"order", order.OrderID, "status", status)
		}
	}
	return stats
}

func firstTracking(trackingID string) string {
	for _, part := range strings.Split(trackingID, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

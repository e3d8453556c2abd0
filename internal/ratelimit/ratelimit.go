// Package ratelimit enforces the cooldown between delivery-status
// refreshes for a single order. The same check guards the manual refresh
// endpoint and the background updater so the tracking API sees at most one
// query per order per cooldown window.
package ratelimit

import "time"

// RefreshCooldown is the minimum interval between status refreshes of the
// same order.
const RefreshCooldown = 5 * time.Minute

// Result of a refresh cooldown check.
type Result struct {
	Blocked   bool
	Remaining time.Duration
}

// CheckRefresh reports whether a refresh should be blocked. A nil
// lastRefresh means the order has never been refreshed. Forced refreshes
// and disabled rate limiting always pass.
func CheckRefresh(disabled bool, lastRefresh *time.Time, forced bool) Result {
	if disabled || forced || lastRefresh == nil {
		return Result{}
	}

	elapsed := time.Since(*lastRefresh)
	if elapsed < RefreshCooldown {
		return Result{Blocked: true, Remaining: RefreshCooldown - elapsed}
	}
	return Result{}
}

package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"eventmanagement/internal/domain"
)

// Sweep opportunistically flips expired Active events to Completed before a
// request is served, so reads never show an expired event as Active even when
// the background sweeper has not run yet. The transition is idempotent, so
// the sweep is throttled to at most one run per interval and failures only
// get logged.
func Sweep(ledger domain.SeatLedger, clock domain.Clock, interval time.Duration, logger *slog.Logger, next http.Handler) http.Handler {
	var (
		mu      sync.Mutex
		lastRun time.Time
	)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := clock.Now()
		mu.Lock()
		due := lastRun.IsZero() || now.Sub(lastRun) >= interval
		if due {
			lastRun = now
		}
		mu.Unlock()

		if due {
			if _, err := ledger.SweepExpiredEvents(r.Context(), now); err != nil {
				logger.Error("opportunistic sweep", "err", err)
			}
		}
		next.ServeHTTP(w, r)
	})
}

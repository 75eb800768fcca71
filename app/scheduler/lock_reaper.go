// Package scheduler contains background loops that keep the ticketing state tidy
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/eylemk/santral/repository"
	"github.com/eylemk/santral/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var reapedLocks = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "ticket_locks_reaped_total",
		Help: "Pending ticket number locks removed after their lease expired",
	},
)

// LockReaper periodically deletes pending ticket number locks whose lease
// expired. Expired locks only block the duplicate-number check; their counter
// values stay consumed, so reaping never reissues a number.
type LockReaper struct {
	lockRepo repository.TicketLockRepository
	interval time.Duration
}

func NewLockReaper(lockRepo repository.TicketLockRepository, interval time.Duration) *LockReaper {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &LockReaper{
		lockRepo: lockRepo,
		interval: interval,
	}
}

// Start launches the reap loop and returns a stop function
func (r *LockReaper) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		r.runOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.runOnce(ctx)
			}
		}
	}()

	return cancel
}

func (r *LockReaper) runOnce(ctx context.Context) {
	removed, err := r.lockRepo.DeleteExpired(ctx, utils.UTCNow())
	if err != nil {
		log.Printf("lock reaper: failed to delete expired locks: %v", err)
		return
	}
	if removed > 0 {
		reapedLocks.Add(float64(removed))
		log.Printf("lock reaper: removed %d expired reservation(s)", removed)
	}
}

package businessflow

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"time"

	"github.com/eylemk/santral/config"
	"github.com/eylemk/santral/models"
	"github.com/eylemk/santral/repository"
	"github.com/eylemk/santral/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	allocationAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_allocation_attempts_total",
			Help: "Ticket number allocation attempts partitioned by outcome",
		},
		[]string{"outcome"},
	)

	allocationCollisions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticket_allocation_collisions_total",
			Help: "Allocation attempts aborted because two transactions raced on the same candidate",
		},
	)
)

// ReservationFlow hands out globally unique, strictly increasing ticket
// numbers. A successful Allocate leaves behind a pending lock that either
// gets finalized into a ticket or released/expired; the number itself is
// consumed either way and never reissued.
type ReservationFlow interface {
	Allocate(ctx context.Context, ownerID string, metadata *ClientMetadata) (*Reservation, error)
	Release(ctx context.Context, ticketNumber, ownerID string, metadata *ClientMetadata) error
	ActiveReservation(ctx context.Context, ownerID string) (*Reservation, error)
}

// Reservation is the flow-level result of a reservation operation
type Reservation struct {
	TicketNumber string    `json:"ticket_number"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// ReservationFlowImpl implements ReservationFlow
type ReservationFlowImpl struct {
	db       *gorm.DB
	seqRepo  repository.SequenceCounterRepository
	lockRepo repository.TicketLockRepository
	rc       *redis.Client
	cacheCfg config.CacheConfig
	cfg      config.TicketingConfig
}

func NewReservationFlow(
	db *gorm.DB,
	seqRepo repository.SequenceCounterRepository,
	lockRepo repository.TicketLockRepository,
	rc *redis.Client,
	cacheCfg config.CacheConfig,
	cfg config.TicketingConfig,
) ReservationFlow {
	return &ReservationFlowImpl{
		db:       db,
		seqRepo:  seqRepo,
		lockRepo: lockRepo,
		rc:       rc,
		cacheCfg: cacheCfg,
		cfg:      cfg,
	}
}

// Allocate reserves the next ticket number for ownerID. Each attempt runs in
// one transaction: read the counter, compute the candidate, verify no lock
// exists for it, insert the pending lock and advance the counter with a
// compare-and-swap. Losing either race aborts the transaction, and the whole
// attempt is retried after a randomized delay so competing operators
// desynchronize. The counter bump and the lock insert commit together, which
// is what makes numbers unique: no two committed transactions can have read
// the same pre-increment value.
func (f *ReservationFlowImpl) Allocate(ctx context.Context, ownerID string, metadata *ClientMetadata) (*Reservation, error) {
	var reserved *models.TicketLock

	for attempt := 1; attempt <= f.cfg.MaxAttempts; attempt++ {
		err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
			counter, err := f.seqRepo.ByName(txCtx, f.cfg.SequenceName)
			if err != nil {
				return err
			}
			if counter == nil {
				return ErrCounterMissing
			}

			candidate := counter.LastValue + 1
			number := FormatTicketNumber(utils.UTCNow().Year(), candidate, f.cfg.NumberPadding)

			existing, err := f.lockRepo.ByNumber(txCtx, number)
			if err != nil {
				return err
			}
			if existing != nil {
				// Another transaction committed this candidate from the same
				// stale counter read. Abort and retry the whole attempt.
				return repository.ErrLockTaken
			}

			lock := &models.TicketLock{
				TicketNumber: number,
				OwnerID:      ownerID,
				Status:       models.LockStatusPending,
				ExpiresAt:    utils.UTCNowAdd(f.cfg.LeaseTTL),
			}
			if err := f.lockRepo.Save(txCtx, lock); err != nil {
				return err
			}

			swapped, err := f.seqRepo.CompareAndSwap(txCtx, f.cfg.SequenceName, counter.LastValue, candidate)
			if err != nil {
				return err
			}
			if !swapped {
				return repository.ErrLockTaken
			}

			reserved = lock
			return nil
		})

		if err == nil {
			allocationAttempts.WithLabelValues("success").Inc()
			f.cacheActiveReservation(ctx, ownerID, reserved)
			return &Reservation{
				TicketNumber: reserved.TicketNumber,
				ExpiresAt:    reserved.ExpiresAt,
			}, nil
		}

		if errors.Is(err, ErrCounterMissing) {
			allocationAttempts.WithLabelValues("counter_missing").Inc()
			return nil, NewBusinessError("COUNTER_MISSING",
				"Ticket number sequence is not configured", err)
		}

		allocationCollisions.Inc()
		log.Printf("allocation attempt %d/%d failed for owner %s: %v", attempt, f.cfg.MaxAttempts, ownerID, err)

		if attempt < f.cfg.MaxAttempts {
			select {
			case <-time.After(f.backoff()):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	allocationAttempts.WithLabelValues("exhausted").Inc()
	return nil, NewBusinessError("ALLOCATION_FAILED",
		"Could not reserve a ticket number, please try again", ErrAllocationFailed)
}

// Release abandons a pending reservation. Safe to call on every exit path:
// releasing a used, expired, or never-existing lock is a no-op. The reserved
// number stays consumed.
func (f *ReservationFlowImpl) Release(ctx context.Context, ticketNumber, ownerID string, metadata *ClientMetadata) error {
	if err := f.lockRepo.DeletePending(ctx, ticketNumber); err != nil {
		return err
	}
	dropActiveReservation(ctx, f.rc, f.cacheCfg.RedisPrefix, ownerID)
	return nil
}

// ActiveReservation returns the owner's still-pending reservation, if one
// exists. The cache lets a refreshed form recover its number; on a miss the
// lock registry is consulted directly.
func (f *ReservationFlowImpl) ActiveReservation(ctx context.Context, ownerID string) (*Reservation, error) {
	if cached := f.cachedActiveReservation(ctx, ownerID); cached != nil {
		return cached, nil
	}

	pending := models.LockStatusPending
	locks, err := f.lockRepo.ByFilter(ctx, models.TicketLockFilter{
		OwnerID: &ownerID,
		Status:  &pending,
	}, "created_at DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(locks) == 0 || !locks[0].IsPending() {
		return nil, nil
	}
	return &Reservation{
		TicketNumber: locks[0].TicketNumber,
		ExpiresAt:    locks[0].ExpiresAt,
	}, nil
}

// backoff returns a random delay within the configured jitter window
func (f *ReservationFlowImpl) backoff() time.Duration {
	window := f.cfg.BackoffMax - f.cfg.BackoffMin
	if window <= 0 {
		return f.cfg.BackoffMin
	}
	return f.cfg.BackoffMin + time.Duration(rand.Int63n(int64(window)))
}

func activeReservationKey(prefix, ownerID string) string {
	return prefix + utils.ActiveReservationCacheKey + ownerID
}

// cacheActiveReservation stores the reservation with the lease TTL. Cache
// failures are logged and otherwise ignored; the lock registry is the truth.
func (f *ReservationFlowImpl) cacheActiveReservation(ctx context.Context, ownerID string, lock *models.TicketLock) {
	if f.rc == nil {
		return
	}
	payload, err := json.Marshal(Reservation{TicketNumber: lock.TicketNumber, ExpiresAt: lock.ExpiresAt})
	if err != nil {
		return
	}
	if err := f.rc.Set(ctx, activeReservationKey(f.cacheCfg.RedisPrefix, ownerID), payload, f.cfg.LeaseTTL).Err(); err != nil {
		log.Printf("failed to cache active reservation for owner %s: %v", ownerID, err)
	}
}

func (f *ReservationFlowImpl) cachedActiveReservation(ctx context.Context, ownerID string) *Reservation {
	if f.rc == nil {
		return nil
	}
	raw, err := f.rc.Get(ctx, activeReservationKey(f.cacheCfg.RedisPrefix, ownerID)).Bytes()
	if err != nil {
		return nil
	}
	var res Reservation
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil
	}
	if utils.IsExpired(res.ExpiresAt) {
		return nil
	}
	return &res
}

// dropActiveReservation removes the cached reservation for the owner. Shared
// with the ticket flow, which invalidates the cache after finalization.
func dropActiveReservation(ctx context.Context, rc *redis.Client, prefix, ownerID string) {
	if rc == nil {
		return
	}
	if err := rc.Del(ctx, activeReservationKey(prefix, ownerID)).Err(); err != nil {
		log.Printf("failed to drop active reservation for owner %s: %v", ownerID, err)
	}
}

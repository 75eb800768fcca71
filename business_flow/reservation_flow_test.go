package businessflow

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/eylemk/santral/config"
	"github.com/eylemk/santral/models"
	"github.com/eylemk/santral/repository"
	testingutil "github.com/eylemk/santral/testing"
	"github.com/eylemk/santral/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTicketingConfig() config.TicketingConfig {
	return config.TicketingConfig{
		SequenceName:   "ticketNumber",
		LeaseTTL:       3 * time.Minute,
		MaxAttempts:    5,
		BackoffMin:     1 * time.Millisecond,
		BackoffMax:     3 * time.Millisecond,
		ReaperInterval: 30 * time.Second,
		ClosedStatuses: config.DefaultClosedStatuses,
		NumberPadding:  6,
	}
}

func newTestReservationFlow(testDB *testingutil.TestDB) ReservationFlow {
	return NewReservationFlow(
		testDB.DB,
		repository.NewSequenceCounterRepository(testDB.DB),
		repository.NewTicketLockRepository(testDB.DB),
		nil,
		config.CacheConfig{},
		testTicketingConfig(),
	)
}

func TestReservationFlowAllocate(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		flow := newTestReservationFlow(testDB)

		_, err := fixtures.CreateTestCounter("ticketNumber", 41)
		require.NoError(t, err)

		t.Run("NextNumberFromCounter", func(t *testing.T) {
			res, err := flow.Allocate(ctx, "user:1", NewClientMetadata("127.0.0.1", "test"))
			require.NoError(t, err)
			require.NotNil(t, res)

			expected := FormatTicketNumber(utils.UTCNow().Year(), 42, 6)
			assert.Equal(t, expected, res.TicketNumber)
			assert.True(t, res.ExpiresAt.After(utils.UTCNow()))

			// The lock is pending and owned by the caller
			lockRepo := repository.NewTicketLockRepository(testDB.DB)
			lock, err := lockRepo.ByNumber(ctx, res.TicketNumber)
			require.NoError(t, err)
			require.NotNil(t, lock)
			assert.Equal(t, models.LockStatusPending, lock.Status)
			assert.Equal(t, "user:1", lock.OwnerID)
		})

		t.Run("CounterAdvances", func(t *testing.T) {
			res, err := flow.Allocate(ctx, "user:2", NewClientMetadata("127.0.0.1", "test"))
			require.NoError(t, err)

			expected := FormatTicketNumber(utils.UTCNow().Year(), 43, 6)
			assert.Equal(t, expected, res.TicketNumber)
		})

		t.Run("ReleasedNumberIsNotReissued", func(t *testing.T) {
			res, err := flow.Allocate(ctx, "user:3", NewClientMetadata("127.0.0.1", "test"))
			require.NoError(t, err)

			err = flow.Release(ctx, res.TicketNumber, "user:3", NewClientMetadata("127.0.0.1", "test"))
			require.NoError(t, err)

			next, err := flow.Allocate(ctx, "user:3", NewClientMetadata("127.0.0.1", "test"))
			require.NoError(t, err)
			assert.NotEqual(t, res.TicketNumber, next.TicketNumber)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestReservationFlowConcurrentAllocations(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		flow := newTestReservationFlow(testDB)

		_, err := fixtures.CreateTestCounter("ticketNumber", 0)
		require.NoError(t, err)

		const operators = 8

		var wg sync.WaitGroup
		results := make([]*Reservation, operators)
		errs := make([]error, operators)

		for i := 0; i < operators; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errs[i] = flow.Allocate(ctx, fmt.Sprintf("user:%d", i+1), NewClientMetadata("127.0.0.1", "test"))
			}(i)
		}
		wg.Wait()

		seen := make(map[string]bool)
		for i := 0; i < operators; i++ {
			require.NoError(t, errs[i], "operator %d", i+1)
			require.NotNil(t, results[i])
			assert.False(t, seen[results[i].TicketNumber], "duplicate number %s", results[i].TicketNumber)
			seen[results[i].TicketNumber] = true
		}

		// Every allocation advanced the counter exactly once
		seqRepo := repository.NewSequenceCounterRepository(testDB.DB)
		counter, err := seqRepo.ByName(ctx, "ticketNumber")
		require.NoError(t, err)
		require.NotNil(t, counter)
		assert.Equal(t, int64(operators), counter.LastValue)

		return nil
	})
	require.NoError(t, err)
}

func TestReservationFlowCounterMissing(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		ctx := testingutil.CreateTestContext()
		flow := newTestReservationFlow(testDB)

		res, err := flow.Allocate(ctx, "user:1", NewClientMetadata("127.0.0.1", "test"))
		assert.Nil(t, res)
		require.Error(t, err)
		assert.True(t, IsCounterMissing(err))

		return nil
	})
	require.NoError(t, err)
}

func TestReservationFlowRelease(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		flow := newTestReservationFlow(testDB)
		lockRepo := repository.NewTicketLockRepository(testDB.DB)

		_, err := fixtures.CreateTestCounter("ticketNumber", 0)
		require.NoError(t, err)

		t.Run("RemovesPendingLock", func(t *testing.T) {
			res, err := flow.Allocate(ctx, "user:1", NewClientMetadata("127.0.0.1", "test"))
			require.NoError(t, err)

			err = flow.Release(ctx, res.TicketNumber, "user:1", NewClientMetadata("127.0.0.1", "test"))
			require.NoError(t, err)

			lock, err := lockRepo.ByNumber(ctx, res.TicketNumber)
			require.NoError(t, err)
			assert.Nil(t, lock)
		})

		t.Run("ReleasingTwiceIsNoOp", func(t *testing.T) {
			res, err := flow.Allocate(ctx, "user:2", NewClientMetadata("127.0.0.1", "test"))
			require.NoError(t, err)

			require.NoError(t, flow.Release(ctx, res.TicketNumber, "user:2", NewClientMetadata("127.0.0.1", "test")))
			require.NoError(t, flow.Release(ctx, res.TicketNumber, "user:2", NewClientMetadata("127.0.0.1", "test")))
		})

		t.Run("ReleasingUnknownNumberIsNoOp", func(t *testing.T) {
			err := flow.Release(ctx, "2099-999999", "user:3", NewClientMetadata("127.0.0.1", "test"))
			assert.NoError(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestReservationFlowActiveReservation(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		flow := newTestReservationFlow(testDB)

		_, err := fixtures.CreateTestCounter("ticketNumber", 0)
		require.NoError(t, err)

		t.Run("NoReservation", func(t *testing.T) {
			res, err := flow.ActiveReservation(ctx, "user:1")
			require.NoError(t, err)
			assert.Nil(t, res)
		})

		t.Run("PendingReservationIsReturned", func(t *testing.T) {
			allocated, err := flow.Allocate(ctx, "user:1", NewClientMetadata("127.0.0.1", "test"))
			require.NoError(t, err)

			res, err := flow.ActiveReservation(ctx, "user:1")
			require.NoError(t, err)
			require.NotNil(t, res)
			assert.Equal(t, allocated.TicketNumber, res.TicketNumber)
		})

		t.Run("ExpiredLeaseIsNotReturned", func(t *testing.T) {
			_, err := fixtures.CreateTestLock("2099-000001", "user:9", -time.Minute)
			require.NoError(t, err)

			res, err := flow.ActiveReservation(ctx, "user:9")
			require.NoError(t, err)
			assert.Nil(t, res)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestBackoffWithinWindow(t *testing.T) {
	flow := &ReservationFlowImpl{cfg: config.TicketingConfig{
		BackoffMin: 50 * time.Millisecond,
		BackoffMax: 150 * time.Millisecond,
	}}

	for i := 0; i < 100; i++ {
		d := flow.backoff()
		assert.GreaterOrEqual(t, d, 50*time.Millisecond)
		assert.Less(t, d, 150*time.Millisecond)
	}
}

func TestFormatTicketNumber(t *testing.T) {
	assert.Equal(t, "2025-000042", FormatTicketNumber(2025, 42, 6))
	assert.Equal(t, "2025-1000000", FormatTicketNumber(2025, 1000000, 6))
	assert.Equal(t, "2025-0007", FormatTicketNumber(2025, 7, 4))
	// Non-positive padding falls back to six digits
	assert.Equal(t, "2025-000007", FormatTicketNumber(2025, 7, 0))
}

package repository

import (
	"testing"
	"time"

	"github.com/eylemk/santral/models"
	testingutil "github.com/eylemk/santral/testing"
	"github.com/eylemk/santral/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketLockRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := NewTicketLockRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("SaveAndByNumber", func(t *testing.T) {
			lock := &models.TicketLock{
				TicketNumber: "2025-000001",
				OwnerID:      "user:1",
				Status:       models.LockStatusPending,
				ExpiresAt:    utils.UTCNowAdd(3 * time.Minute),
			}
			require.NoError(t, repo.Save(ctx, lock))

			found, err := repo.ByNumber(ctx, "2025-000001")
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, "user:1", found.OwnerID)
			assert.True(t, found.IsPending())
		})

		t.Run("ByNumberNotFound", func(t *testing.T) {
			found, err := repo.ByNumber(ctx, "2025-999999")
			require.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("DuplicateInsertReturnsErrLockTaken", func(t *testing.T) {
			dup := &models.TicketLock{
				TicketNumber: "2025-000001",
				OwnerID:      "user:2",
				Status:       models.LockStatusPending,
				ExpiresAt:    utils.UTCNowAdd(3 * time.Minute),
			}
			err := repo.Save(ctx, dup)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrLockTaken)
		})

		t.Run("MarkUsed", func(t *testing.T) {
			usedAt := utils.UTCNow()
			updated, err := repo.MarkUsed(ctx, "2025-000001", "user:1", usedAt)
			require.NoError(t, err)
			assert.True(t, updated)

			lock, err := repo.ByNumber(ctx, "2025-000001")
			require.NoError(t, err)
			assert.Equal(t, models.LockStatusUsed, lock.Status)
			require.NotNil(t, lock.UsedAt)
		})

		t.Run("MarkUsedTwiceFails", func(t *testing.T) {
			updated, err := repo.MarkUsed(ctx, "2025-000001", "user:1", utils.UTCNow())
			require.NoError(t, err)
			assert.False(t, updated)
		})

		t.Run("MarkUsedWrongOwnerFails", func(t *testing.T) {
			_, err := fixtures.CreateTestLock("2025-000002", "user:1", 3*time.Minute)
			require.NoError(t, err)

			updated, err := repo.MarkUsed(ctx, "2025-000002", "user:2", utils.UTCNow())
			require.NoError(t, err)
			assert.False(t, updated)

			// Lock untouched
			lock, err := repo.ByNumber(ctx, "2025-000002")
			require.NoError(t, err)
			assert.Equal(t, models.LockStatusPending, lock.Status)
		})

		t.Run("DeletePendingIsIdempotent", func(t *testing.T) {
			require.NoError(t, repo.DeletePending(ctx, "2025-000002"))
			require.NoError(t, repo.DeletePending(ctx, "2025-000002"))

			lock, err := repo.ByNumber(ctx, "2025-000002")
			require.NoError(t, err)
			assert.Nil(t, lock)
		})

		t.Run("DeletePendingSkipsUsedLocks", func(t *testing.T) {
			require.NoError(t, repo.DeletePending(ctx, "2025-000001"))

			lock, err := repo.ByNumber(ctx, "2025-000001")
			require.NoError(t, err)
			require.NotNil(t, lock)
			assert.Equal(t, models.LockStatusUsed, lock.Status)
		})

		t.Run("DeleteExpired", func(t *testing.T) {
			_, err := fixtures.CreateTestLock("2025-000003", "user:1", -10*time.Minute)
			require.NoError(t, err)
			_, err = fixtures.CreateTestLock("2025-000004", "user:2", -time.Minute)
			require.NoError(t, err)
			_, err = fixtures.CreateTestLock("2025-000005", "user:3", 3*time.Minute)
			require.NoError(t, err)

			removed, err := repo.DeleteExpired(ctx, utils.UTCNow())
			require.NoError(t, err)
			assert.Equal(t, int64(2), removed)

			// The live lease survives, the used lock is untouched
			lock, err := repo.ByNumber(ctx, "2025-000005")
			require.NoError(t, err)
			assert.NotNil(t, lock)
			used, err := repo.ByNumber(ctx, "2025-000001")
			require.NoError(t, err)
			assert.NotNil(t, used)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestSequenceCounterRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := NewSequenceCounterRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		_, err := fixtures.CreateTestCounter("ticketNumber", 10)
		require.NoError(t, err)

		t.Run("ByName", func(t *testing.T) {
			counter, err := repo.ByName(ctx, "ticketNumber")
			require.NoError(t, err)
			require.NotNil(t, counter)
			assert.Equal(t, int64(10), counter.LastValue)
		})

		t.Run("ByNameNotFound", func(t *testing.T) {
			counter, err := repo.ByName(ctx, "unknown")
			require.NoError(t, err)
			assert.Nil(t, counter)
		})

		t.Run("CompareAndSwap", func(t *testing.T) {
			swapped, err := repo.CompareAndSwap(ctx, "ticketNumber", 10, 11)
			require.NoError(t, err)
			assert.True(t, swapped)

			counter, err := repo.ByName(ctx, "ticketNumber")
			require.NoError(t, err)
			assert.Equal(t, int64(11), counter.LastValue)
		})

		t.Run("CompareAndSwapStaleValue", func(t *testing.T) {
			swapped, err := repo.CompareAndSwap(ctx, "ticketNumber", 10, 12)
			require.NoError(t, err)
			assert.False(t, swapped)

			// Value unchanged on failed swap
			counter, err := repo.ByName(ctx, "ticketNumber")
			require.NoError(t, err)
			assert.Equal(t, int64(11), counter.LastValue)
		})

		return nil
	})
	require.NoError(t, err)
}

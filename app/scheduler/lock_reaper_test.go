package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/eylemk/santral/models"
	"github.com/eylemk/santral/repository"
	testingutil "github.com/eylemk/santral/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockReaperRemovesExpiredLeases(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		lockRepo := repository.NewTicketLockRepository(testDB.DB)

		_, err := fixtures.CreateTestLock("2025-000001", "user:1", -time.Minute)
		require.NoError(t, err)
		_, err = fixtures.CreateTestLock("2025-000002", "user:2", time.Hour)
		require.NoError(t, err)

		reaper := NewLockReaper(lockRepo, time.Hour)
		reaper.runOnce(ctx)

		expired, err := lockRepo.ByNumber(ctx, "2025-000001")
		require.NoError(t, err)
		assert.Nil(t, expired)

		live, err := lockRepo.ByNumber(ctx, "2025-000002")
		require.NoError(t, err)
		require.NotNil(t, live)
		assert.Equal(t, models.LockStatusPending, live.Status)

		return nil
	})
	require.NoError(t, err)
}

func TestLockReaperStartStops(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		lockRepo := repository.NewTicketLockRepository(testDB.DB)

		reaper := NewLockReaper(lockRepo, 10*time.Millisecond)
		stop := reaper.Start(context.Background())

		time.Sleep(50 * time.Millisecond)
		stop()

		return nil
	})
	require.NoError(t, err)
}

package businessflow

import (
	"testing"
	"time"

	"github.com/eylemk/santral/app/dto"
	"github.com/eylemk/santral/models"
	"github.com/eylemk/santral/repository"
	testingutil "github.com/eylemk/santral/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShiftFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		flow := NewShiftFlow(repository.NewShiftRepository(testDB.DB), repository.NewUserRepository(testDB.DB))
		meta := NewClientMetadata("127.0.0.1", "test")

		user, err := fixtures.CreateTestUser(models.RoleAgent)
		require.NoError(t, err)
		colleague, err := fixtures.CreateTestUser(models.RoleAgent)
		require.NoError(t, err)

		dayStart := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

		t.Run("Create", func(t *testing.T) {
			item, err := flow.CreateShift(ctx, &dto.CreateShiftRequest{
				UserID:   user.ID,
				StartsAt: dayStart,
				EndsAt:   dayStart.Add(8 * time.Hour),
			}, meta)
			require.NoError(t, err)
			assert.Equal(t, user.ID, item.UserID)
		})

		t.Run("OverlapRejected", func(t *testing.T) {
			item, err := flow.CreateShift(ctx, &dto.CreateShiftRequest{
				UserID:   user.ID,
				StartsAt: dayStart.Add(4 * time.Hour),
				EndsAt:   dayStart.Add(12 * time.Hour),
			}, meta)
			assert.Nil(t, item)
			require.Error(t, err)
			assert.True(t, IsShiftOverlap(err))
		})

		t.Run("SameWindowForAnotherUser", func(t *testing.T) {
			item, err := flow.CreateShift(ctx, &dto.CreateShiftRequest{
				UserID:   colleague.ID,
				StartsAt: dayStart,
				EndsAt:   dayStart.Add(8 * time.Hour),
			}, meta)
			require.NoError(t, err)
			assert.Equal(t, colleague.ID, item.UserID)
		})

		t.Run("BackToBackAllowed", func(t *testing.T) {
			_, err := flow.CreateShift(ctx, &dto.CreateShiftRequest{
				UserID:   user.ID,
				StartsAt: dayStart.Add(8 * time.Hour),
				EndsAt:   dayStart.Add(16 * time.Hour),
			}, meta)
			require.NoError(t, err)
		})

		t.Run("InvertedWindowRejected", func(t *testing.T) {
			item, err := flow.CreateShift(ctx, &dto.CreateShiftRequest{
				UserID:   user.ID,
				StartsAt: dayStart.Add(48 * time.Hour),
				EndsAt:   dayStart.Add(40 * time.Hour),
			}, meta)
			assert.Nil(t, item)
			require.Error(t, err)
		})

		t.Run("ListByUser", func(t *testing.T) {
			res, err := flow.ListShifts(ctx, &dto.ListShiftsRequest{UserID: &user.ID})
			require.NoError(t, err)
			assert.Len(t, res.Items, 2)
			require.NotNil(t, res.Items[0].UserName)
		})

		t.Run("Delete", func(t *testing.T) {
			res, err := flow.ListShifts(ctx, &dto.ListShiftsRequest{UserID: &colleague.ID})
			require.NoError(t, err)
			require.Len(t, res.Items, 1)

			require.NoError(t, flow.DeleteShift(ctx, res.Items[0].ID, meta))

			res, err = flow.ListShifts(ctx, &dto.ListShiftsRequest{UserID: &colleague.ID})
			require.NoError(t, err)
			assert.Empty(t, res.Items)
		})

		t.Run("DeleteUnknown", func(t *testing.T) {
			err := flow.DeleteShift(ctx, 99999, meta)
			require.Error(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}
